package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this username already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
	CountActiveAdmins(ctx context.Context) (int, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password_hash, role, permissions, active, created_at, updated_at, updated_by`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	u := &domain.User{}
	var permissions []byte
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&permissions,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &u.Permissions); err != nil {
			return nil, fmt.Errorf("failed to decode permissions: %w", err)
		}
	}
	if u.Permissions == nil {
		u.Permissions = []string{}
	}

	return u, nil
}

// Create inserts a new user, rejecting duplicate usernames.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	existing, err := r.FindByUsername(ctx, user.Username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	permissions, err := json.Marshal(user.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}

	query := `
		INSERT INTO users (id, username, password_hash, role, permissions, active,
			created_at, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		permissions,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
		user.UpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update rewrites a user's mutable fields, including the password hash.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	permissions, err := json.Marshal(user.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}

	query := `
		UPDATE users
		SET password_hash = $2, role = $3, permissions = $4, active = $5,
		    updated_at = $6, updated_by = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.PasswordHash,
		user.Role,
		permissions,
		user.Active,
		user.UpdatedAt,
		user.UpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes a user permanently.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByUsername retrieves a user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}

// List retrieves every user, by username.
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY username`, userColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Count returns the total number of user accounts.
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountActiveAdmins returns the number of active admin accounts. The last one
// can neither be deactivated, demoted nor deleted.
func (r *userRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE role = $1 AND active = TRUE`
	if err := r.db.QueryRowContext(ctx, query, domain.RoleAdmin).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active admins: %w", err)
	}
	return count, nil
}
