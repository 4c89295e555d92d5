package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// ResetTables lists every table the hard reset wipes, in wipe order. The users
// table is deliberately absent; accounts survive a reset.
var ResetTables = []string{
	"sales_orders",
	"production_orders",
	"products",
	"customers",
	"categories",
	"sizes",
	"colors",
	"activities",
}

// MaintenanceRepository performs the destructive whole-database operations.
type MaintenanceRepository interface {
	// PurgeAll deletes every row from the reset tables, one table at a time.
	// Each table maps to either the int64 count of rows removed or an
	// "Error: ..." string when that delete failed; a failure on one table
	// never stops the others.
	PurgeAll(ctx context.Context) map[string]interface{}
}

type maintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository creates a new instance of MaintenanceRepository
func NewMaintenanceRepository(db *sql.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) PurgeAll(ctx context.Context) map[string]interface{} {
	results := make(map[string]interface{}, len(ResetTables))
	for _, table := range ResetTables {
		result, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table))
		if err != nil {
			results[table] = fmt.Sprintf("Error: %v", err)
			continue
		}
		deleted, err := result.RowsAffected()
		if err != nil {
			results[table] = fmt.Sprintf("Error: %v", err)
			continue
		}
		results[table] = deleted
	}
	return results
}
