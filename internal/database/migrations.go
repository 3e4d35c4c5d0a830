package database

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the full catalog schema, compiled in so the server
// needs no migrations directory on disk. Primary keys are the composite
// cell identity tuples; secondary indexes support the range scans of the
// ingestion and aggregation jobs.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "001_create_cell",
		SQL: `
			CREATE TABLE IF NOT EXISTS cell (
				radio INTEGER NOT NULL,
				mcc INTEGER NOT NULL,
				mnc INTEGER NOT NULL,
				lac INTEGER NOT NULL,
				cid INTEGER NOT NULL,
				psc INTEGER NOT NULL DEFAULT 0,
				lat REAL NOT NULL DEFAULT 0,
				lon REAL NOT NULL DEFAULT 0,
				"range" INTEGER NOT NULL DEFAULT 0,
				new_measures INTEGER NOT NULL DEFAULT 0,
				total_measures INTEGER NOT NULL DEFAULT 0,
				created TIMESTAMP NOT NULL,
				modified TIMESTAMP NOT NULL,
				PRIMARY KEY (radio, mcc, mnc, lac, cid)
			);
			CREATE INDEX IF NOT EXISTS cell_created_idx ON cell(created);
			CREATE INDEX IF NOT EXISTS cell_modified_idx ON cell(modified);
			CREATE INDEX IF NOT EXISTS cell_new_measures_idx ON cell(new_measures);
			CREATE INDEX IF NOT EXISTS cell_total_measures_idx ON cell(total_measures);
		`,
	},
	{
		Version: 2,
		Name:    "002_create_ocid_cell",
		SQL: `
			CREATE TABLE IF NOT EXISTS ocid_cell (
				radio INTEGER NOT NULL,
				mcc INTEGER NOT NULL,
				mnc INTEGER NOT NULL,
				lac INTEGER NOT NULL,
				cid INTEGER NOT NULL,
				psc INTEGER NOT NULL DEFAULT 0,
				lat REAL NOT NULL DEFAULT 0,
				lon REAL NOT NULL DEFAULT 0,
				"range" INTEGER NOT NULL DEFAULT 0,
				total_measures INTEGER NOT NULL DEFAULT 0,
				changeable BOOLEAN NOT NULL DEFAULT 1,
				created TIMESTAMP NOT NULL,
				modified TIMESTAMP NOT NULL,
				PRIMARY KEY (radio, mcc, mnc, lac, cid)
			);
			CREATE INDEX IF NOT EXISTS ocid_cell_created_idx ON ocid_cell(created);
		`,
	},
	{
		Version: 3,
		Name:    "003_create_cell_area",
		SQL: `
			CREATE TABLE IF NOT EXISTS cell_area (
				radio INTEGER NOT NULL,
				mcc INTEGER NOT NULL,
				mnc INTEGER NOT NULL,
				lac INTEGER NOT NULL,
				lat REAL NOT NULL DEFAULT 0,
				lon REAL NOT NULL DEFAULT 0,
				"range" INTEGER NOT NULL DEFAULT 0,
				avg_cell_range INTEGER NOT NULL DEFAULT 0,
				num_cells INTEGER NOT NULL DEFAULT 0,
				created TIMESTAMP NOT NULL,
				modified TIMESTAMP NOT NULL,
				PRIMARY KEY (radio, mcc, mnc, lac)
			);
			CREATE TABLE IF NOT EXISTS ocid_cell_area (
				radio INTEGER NOT NULL,
				mcc INTEGER NOT NULL,
				mnc INTEGER NOT NULL,
				lac INTEGER NOT NULL,
				lat REAL NOT NULL DEFAULT 0,
				lon REAL NOT NULL DEFAULT 0,
				"range" INTEGER NOT NULL DEFAULT 0,
				avg_cell_range INTEGER NOT NULL DEFAULT 0,
				num_cells INTEGER NOT NULL DEFAULT 0,
				created TIMESTAMP NOT NULL,
				modified TIMESTAMP NOT NULL,
				PRIMARY KEY (radio, mcc, mnc, lac)
			);
		`,
	},
	{
		Version: 4,
		Name:    "004_create_cell_blacklist",
		SQL: `
			CREATE TABLE IF NOT EXISTS cell_blacklist (
				radio INTEGER NOT NULL,
				mcc INTEGER NOT NULL,
				mnc INTEGER NOT NULL,
				lac INTEGER NOT NULL,
				cid INTEGER NOT NULL,
				time TIMESTAMP NOT NULL,
				count INTEGER NOT NULL DEFAULT 1,
				PRIMARY KEY (radio, mcc, mnc, lac, cid)
			);
			CREATE INDEX IF NOT EXISTS cell_blacklist_time_idx ON cell_blacklist(time);
		`,
	},
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if _, err = tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	_, err = tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	return nil
}

// RunMigrations applies all pending migrations in version order.
func RunMigrations(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})

	for _, m := range pending {
		if err := applyMigration(db, m); err != nil {
			return err
		}
	}

	return nil
}
