package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"evo/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY,
  name          TEXT        NOT NULL,
  email         TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`,
	},
	{
		Name: "create_table_vehicles",
		SQL: `CREATE TABLE IF NOT EXISTS vehicles (
  id           UUID        PRIMARY KEY,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  brand        TEXT        NOT NULL,
  model        TEXT        NOT NULL,
  year         INTEGER,
  registration TEXT        NOT NULL DEFAULT '',
  odometer     BIGINT      NOT NULL DEFAULT 0 CHECK (odometer >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_vehicles_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_vehicles_user_id ON vehicles (user_id);`,
	},
	{
		Name: "create_table_service_counters",
		SQL: `CREATE TABLE IF NOT EXISTS service_counters (
  vehicle_id      UUID        NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
  kind            TEXT        NOT NULL CHECK (kind IN ('small', 'big', 'brakes')),
  last_km         BIGINT      CHECK (last_km >= 0),
  last_date       TIMESTAMPTZ,
  interval_km     BIGINT      NOT NULL CHECK (interval_km >= 0),
  interval_months INTEGER     NOT NULL CHECK (interval_months >= 0),
  PRIMARY KEY (vehicle_id, kind)
);`,
	},
	{
		Name: "create_table_costs",
		SQL: `CREATE TABLE IF NOT EXISTS costs (
  id          UUID             PRIMARY KEY,
  vehicle_id  UUID             NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
  category    TEXT             NOT NULL,
  subcategory TEXT             NOT NULL DEFAULT '',
  description TEXT             NOT NULL DEFAULT '',
  notes       TEXT             NOT NULL DEFAULT '',
  location    TEXT             NOT NULL DEFAULT '',
  vendor      TEXT             NOT NULL DEFAULT '',
  amount      DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (amount >= 0),
  date        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  mileage     BIGINT           CHECK (mileage >= 0),
  receipt_key TEXT             NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_costs_vehicle_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_costs_vehicle_date ON costs (vehicle_id, date DESC);`,
	},
}

// EnsureMigrated applies every step not yet recorded in schema_migrations.
// Each step runs in its own transaction together with its ledger row.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()

	log.Log(map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		return fail(log, dbHost, start, "", fmt.Errorf("failed to create migration ledger: %w", err))
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		return fail(log, dbHost, start, "", err)
	}

	pending := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		pending++
		stepStart := time.Now()

		if err := applyStep(ctx, db, step); err != nil {
			return fail(log, dbHost, start, step.Name, fmt.Errorf("migration step %s failed: %w", step.Name, err))
		}

		log.Log(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	event := "db_migration_success"
	if pending == 0 {
		event = "db_migration_skip"
	}
	log.Log(map[string]any{
		"component":     "database",
		"event":         event,
		"status":        "success",
		"applied_steps": pending,
		"db_host":       dbHost,
		"duration_ms":   time.Since(start).Milliseconds(),
	})

	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read migration ledger: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func fail(log *logging.Logger, dbHost string, start time.Time, step string, err error) error {
	entry := map[string]any{
		"component":     "database",
		"event":         "db_migration_failed",
		"status":        "error",
		"error_message": err.Error(),
		"db_host":       dbHost,
		"duration_ms":   time.Since(start).Milliseconds(),
	}
	if step != "" {
		entry["migration_step"] = step
	}
	log.Log(entry)
	return err
}
