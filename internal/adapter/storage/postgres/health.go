package postgres

import (
	"context"
	"errors"
)

// schemaProbe is true once the ledger tables exist. A reachable database
// without them is reported unhealthy so an unmigrated engine never serves.
const schemaProbe = `SELECT to_regclass('public.positions') IS NOT NULL
	AND to_regclass('public.transactions') IS NOT NULL`

var errSchemaMissing = errors.New("ledger schema not migrated")

// HealthCheck reports PostgreSQL as healthy when it answers and holds the
// ledger schema.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var migrated bool
	if err := h.pool.QueryRow(ctx, schemaProbe).Scan(&migrated); err != nil {
		return err
	}
	if !migrated {
		return errSchemaMissing
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
