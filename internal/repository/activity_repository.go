package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

// ActivityRepository is the append-only audit log.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error)
}

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends an audit record
func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, action, details, username, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		activity.ID,
		activity.Action,
		activity.Details,
		activity.Username,
		activity.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// ListRecent retrieves the latest audit records, newest first.
func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	query := `
		SELECT id, action, details, username, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		activity := &domain.Activity{}
		if err := rows.Scan(
			&activity.ID,
			&activity.Action,
			&activity.Details,
			&activity.Username,
			&activity.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}
