package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// Default admin account seeded into an empty user table.
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrLastAdmin          = errors.New("cannot remove the last active admin")
)

// UserInput carries the admin-editable account fields.
type UserInput struct {
	Username    string
	Password    string
	Role        string
	Permissions []string
	Active      bool
}

// UserUpdateInput carries the fields an admin may change on an existing
// account. An empty Password leaves the current password in place.
type UserUpdateInput struct {
	Password    string
	Role        string
	Permissions []string
	Active      bool
}

// UserService defines the interface for account and login business logic
type UserService interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
	SeedDefaultAdmin(ctx context.Context) (bool, error)
	CreateUser(ctx context.Context, input UserInput, actor string) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UserUpdateInput, actor string) (*domain.User, error)
	DeleteUser(ctx context.Context, id, actorID uuid.UUID, actor string) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type userService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	cache        *cache.Cache
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	c *cache.Cache,
) UserService {
	return &userService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		cache:        c,
	}
}

func (s *userService) logActivity(ctx context.Context, action, details, actor string) {
	_ = s.activityRepo.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		Username:  actor,
		CreatedAt: time.Now(),
	})
	s.cache.Invalidate(cache.KeyRecentActivities)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Login authenticates a username and password against an active account.
// Unknown usernames, wrong passwords and deactivated accounts are
// indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// SeedDefaultAdmin creates the default admin account when the user table is
// empty. Returns true when an account was created.
func (s *userService) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := hashPassword(DefaultAdminPassword)
	if err != nil {
		return false, err
	}

	now := time.Now()
	admin := &domain.User{
		ID:           uuid.New(),
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Permissions:  domain.AllPermissions,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return false, err
	}

	return true, nil
}

// CreateUser adds an account, rejecting duplicate usernames.
func (s *userService) CreateUser(ctx context.Context, input UserInput, actor string) (*domain.User, error) {
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		Permissions:  permissions,
		Active:       input.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
		UpdatedBy:    actor,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeyUsers)
	s.logActivity(ctx, "User Created", fmt.Sprintf("Created user: %s", user.Username), actor)

	return user, nil
}

// UpdateUser changes role, permissions, active flag and optionally the
// password. The last active admin can neither be demoted nor deactivated.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, input UserUpdateInput, actor string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	losesAdmin := input.Role != domain.RoleAdmin || !input.Active
	if user.Role == domain.RoleAdmin && user.Active && losesAdmin {
		admins, err := s.userRepo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if input.Password != "" {
		hash, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.Role = input.Role
	user.Permissions = input.Permissions
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	user.Active = input.Active
	user.UpdatedAt = time.Now()
	user.UpdatedBy = actor

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeyUsers)
	s.logActivity(ctx, "User Updated", fmt.Sprintf("Updated user: %s", user.Username), actor)

	return user, nil
}

// DeleteUser removes an account. Operators cannot delete themselves, and the
// last active admin cannot be deleted.
func (s *userService) DeleteUser(ctx context.Context, id, actorID uuid.UUID, actor string) error {
	if id == actorID {
		return ErrSelfDelete
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == domain.RoleAdmin && user.Active {
		admins, err := s.userRepo.CountActiveAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(cache.KeyUsers)
	s.logActivity(ctx, "User Deleted", fmt.Sprintf("Deleted user: %s", user.Username), actor)

	return nil
}

// GetUser retrieves one account.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// ListUsers retrieves every account through the cache.
func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	cached, err := s.cache.Get(cache.KeyUsers, cache.DefaultTTL, func() (interface{}, error) {
		return s.userRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cached.([]*domain.User), nil
}
