package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/userdesk/internal/database/repository"
)

// SeedDefaults ensures a fresh database has a few users to show.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewUserRepo(db)
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	defaults := []string{
		"Leanne|Graham|leanne@example.com|Engineering",
		"Ervin|Howell|ervin@example.com|Sales",
		"Clementine|Bauch|clementine@example.com|",
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, row := range defaults {
			parts := strings.Split(row, "|")
			u := repository.User{
				ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte("user:"+parts[2])).String(),
				FirstName:  parts[0],
				LastName:   parts[1],
				Email:      parts[2],
				Department: parts[3],
			}
			if err := repository.InsertTx(ctx, tx, u); err != nil {
				return err
			}
		}
		return nil
	})
}
