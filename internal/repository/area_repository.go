package repository

import (
	"database/sql"
	"fmt"

	"github.com/groovecoder/ichnaea/internal/models"
)

// AreaRepository handles database operations for the cell_area and
// ocid_cell_area tables.
type AreaRepository struct {
	db *sql.DB
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(db *sql.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

const areaColumns = `radio, mcc, mnc, lac, lat, lon, "range", avg_cell_range, num_cells, created, modified`

// GetArea retrieves the location area matching key. Cell-level keys are
// accepted; their cid/psc fields are simply not matched because the area
// tables lack those columns.
func (r *AreaRepository) GetArea(key models.Key) (*models.CellArea, error) {
	where, args := keyConditions(models.CellAreaSchema, key)
	query := `SELECT ` + areaColumns + ` FROM cell_area WHERE ` + where

	var a models.CellArea
	err := r.db.QueryRow(query, args...).Scan(
		&a.Radio, &a.MCC, &a.MNC, &a.LAC,
		&a.Lat, &a.Lon, &a.Range, &a.AvgCellRange, &a.NumCells,
		&a.Created, &a.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cell area: %w", err)
	}
	return &a, nil
}

// UpsertArea writes a recomputed area aggregate, preserving the original
// created time on conflict.
func (r *AreaRepository) UpsertArea(a models.CellArea) error {
	return upsertArea(r.db, a)
}

// UpsertAreaTx is UpsertArea inside an open transaction.
func (r *AreaRepository) UpsertAreaTx(tx *sql.Tx, a models.CellArea) error {
	return upsertArea(tx, a)
}

func upsertArea(e execer, a models.CellArea) error {
	query := `INSERT INTO cell_area (` + areaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (radio, mcc, mnc, lac) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			"range" = excluded."range",
			avg_cell_range = excluded.avg_cell_range,
			num_cells = excluded.num_cells,
			modified = excluded.modified`

	_, err := e.Exec(query,
		a.Radio, a.MCC, a.MNC, a.LAC,
		a.Lat, a.Lon, a.Range, a.AvgCellRange, a.NumCells,
		a.Created, a.Modified,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cell area: %w", err)
	}
	return nil
}

// GetOCIDArea retrieves the imported-dataset area matching key.
func (r *AreaRepository) GetOCIDArea(key models.Key) (*models.OCIDCellArea, error) {
	where, args := keyConditions(models.OCIDCellAreaSchema, key)
	query := `SELECT ` + areaColumns + ` FROM ocid_cell_area WHERE ` + where

	var a models.OCIDCellArea
	err := r.db.QueryRow(query, args...).Scan(
		&a.Radio, &a.MCC, &a.MNC, &a.LAC,
		&a.Lat, &a.Lon, &a.Range, &a.AvgCellRange, &a.NumCells,
		&a.Created, &a.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ocid cell area: %w", err)
	}
	return &a, nil
}

// UpsertOCIDArea writes a recomputed imported-dataset area aggregate.
func (r *AreaRepository) UpsertOCIDArea(a models.OCIDCellArea) error {
	query := `INSERT INTO ocid_cell_area (` + areaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (radio, mcc, mnc, lac) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			"range" = excluded."range",
			avg_cell_range = excluded.avg_cell_range,
			num_cells = excluded.num_cells,
			modified = excluded.modified`

	_, err := r.db.Exec(query,
		a.Radio, a.MCC, a.MNC, a.LAC,
		a.Lat, a.Lon, a.Range, a.AvgCellRange, a.NumCells,
		a.Created, a.Modified,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ocid cell area: %w", err)
	}
	return nil
}
