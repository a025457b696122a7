// Package postgres provides a smon.Probe over an existing *sql.DB opened
// with lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kopchik/smon"
)

// New builds a probe that pings db and runs a trivial test query against
// it. db is driver-agnostic at the type level but is expected to have
// been opened with lib/pq.
func New(db *sql.DB) smon.Probe {
	return smon.FromError(func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: ping: %w", err)
		}

		rows, err := db.QueryContext(ctx, `select version()`)
		if err != nil {
			return fmt.Errorf("postgres: test query: %w", err)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("postgres: closing test query rows: %w", err)
		}
		return nil
	})
}
