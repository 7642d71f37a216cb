package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/userdesk/internal/database"
)

// MaintenanceService houses destructive/ops actions for the collection server.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes every user. It keeps the schema intact so the server can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
			return fmt.Errorf("reset users: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
