package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/spatial"
)

// execer is the write surface shared by *sql.DB and *sql.Tx, letting a
// statement run standalone or inside a transaction.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// keyConditions turns the matcher's predicate set into a WHERE fragment
// plus its arguments.
func keyConditions(schema models.Schema, key models.Key) (string, []interface{}) {
	conditions := models.JoinKey(schema, key)
	parts := make([]string, len(conditions))
	args := make([]interface{}, len(conditions))
	for i, c := range conditions {
		parts[i] = c.Column + " = ?"
		args[i] = c.Value
	}
	return strings.Join(parts, " AND "), args
}

// CellRepository handles database operations for the cell and ocid_cell
// tables.
type CellRepository struct {
	db *sql.DB
}

// NewCellRepository creates a new cell repository
func NewCellRepository(db *sql.DB) *CellRepository {
	return &CellRepository{db: db}
}

const cellColumns = `radio, mcc, mnc, lac, cid, psc, lat, lon, "range", new_measures, total_measures, created, modified`

func scanCell(row interface{ Scan(...interface{}) error }) (*models.Cell, error) {
	var c models.Cell
	err := row.Scan(
		&c.Radio, &c.MCC, &c.MNC, &c.LAC, &c.CID, &c.PSC,
		&c.Lat, &c.Lon, &c.Range, &c.NewMeasures, &c.TotalMeasures,
		&c.Created, &c.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCell retrieves the cell matching the given identity key. Any key
// shape is accepted; fields the table lacks are not matched.
func (r *CellRepository) GetCell(key models.Key) (*models.Cell, error) {
	where, args := keyConditions(models.CellSchema, key)
	query := `SELECT ` + cellColumns + ` FROM cell WHERE ` + where

	c, err := scanCell(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cell: %w", err)
	}
	return c, nil
}

// InsertCell inserts a new cell row. Creation defaults are expected to
// have been applied already via models.NewCell.
func (r *CellRepository) InsertCell(c models.Cell) error {
	query := `INSERT INTO cell (` + cellColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		c.Radio, c.MCC, c.MNC, c.LAC, c.CID, c.PSC,
		c.Lat, c.Lon, c.Range, c.NewMeasures, c.TotalMeasures,
		c.Created, c.Modified,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cell: %w", err)
	}
	return nil
}

// IncrementMeasures bumps the observation counters of the cell matching
// key and touches its modified time.
func (r *CellRepository) IncrementMeasures(key models.Key, newDelta, totalDelta int) error {
	where, args := keyConditions(models.CellSchema, key)
	query := `UPDATE cell SET new_measures = new_measures + ?, total_measures = total_measures + ?, modified = ? WHERE ` + where

	updateArgs := append([]interface{}{newDelta, totalDelta, time.Now().UTC()}, args...)
	if _, err := r.db.Exec(query, updateArgs...); err != nil {
		return fmt.Errorf("failed to increment measures: %w", err)
	}
	return nil
}

// UpdatePosition overwrites a cell's position estimate and range.
func (r *CellRepository) UpdatePosition(key models.Key, lat, lon float64, rangeMeters int) error {
	where, args := keyConditions(models.CellSchema, key)
	query := `UPDATE cell SET lat = ?, lon = ?, "range" = ?, modified = ? WHERE ` + where

	updateArgs := append([]interface{}{lat, lon, rangeMeters, time.Now().UTC()}, args...)
	if _, err := r.db.Exec(query, updateArgs...); err != nil {
		return fmt.Errorf("failed to update cell position: %w", err)
	}
	return nil
}

// ResetNewMeasures clears the pending counter after an aggregation pass.
func (r *CellRepository) ResetNewMeasures(key models.Key) error {
	return resetNewMeasures(r.db, key)
}

// ResetNewMeasuresTx is ResetNewMeasures inside an open transaction.
func (r *CellRepository) ResetNewMeasuresTx(tx *sql.Tx, key models.Key) error {
	return resetNewMeasures(tx, key)
}

func resetNewMeasures(e execer, key models.Key) error {
	where, args := keyConditions(models.CellSchema, key)
	query := `UPDATE cell SET new_measures = 0 WHERE ` + where

	if _, err := e.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to reset new measures: %w", err)
	}
	return nil
}

func (r *CellRepository) listCells(query string, args ...interface{}) ([]models.Cell, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	var cells []models.Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells = append(cells, *c)
	}

	return cells, rows.Err()
}

// ListCellsByArea retrieves all cells belonging to a location area.
func (r *CellRepository) ListCellsByArea(area models.CellAreaKey) ([]models.Cell, error) {
	where, args := keyConditions(models.CellSchema, area)
	query := `SELECT ` + cellColumns + ` FROM cell WHERE ` + where + ` ORDER BY cid`
	return r.listCells(query, args...)
}

// ListCellsInBounds retrieves cells whose position falls inside the
// given lat/lon rectangle.
func (r *CellRepository) ListCellsInBounds(b spatial.Bounds, limit int) ([]models.Cell, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := `SELECT ` + cellColumns + ` FROM cell
		WHERE lat >= ? AND lat <= ? AND lon >= ? AND lon <= ?
		ORDER BY total_measures DESC LIMIT ?`
	return r.listCells(query, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon, limit)
}

// ListAreasWithNewMeasures returns the area keys that have cells with
// pending measurements, for the aggregation job to recompute.
func (r *CellRepository) ListAreasWithNewMeasures(limit int) ([]models.CellAreaKey, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT DISTINCT radio, mcc, mnc, lac FROM cell WHERE new_measures > 0 LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending areas: %w", err)
	}
	defer rows.Close()

	var keys []models.CellAreaKey
	for rows.Next() {
		var k models.CellAreaKey
		if err := rows.Scan(&k.Radio, &k.MCC, &k.MNC, &k.LAC); err != nil {
			return nil, fmt.Errorf("failed to scan area key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

const ocidCellColumns = `radio, mcc, mnc, lac, cid, psc, lat, lon, "range", total_measures, changeable, created, modified`

// GetOCIDCell retrieves the imported cell matching the given key.
func (r *CellRepository) GetOCIDCell(key models.Key) (*models.OCIDCell, error) {
	where, args := keyConditions(models.OCIDCellSchema, key)
	query := `SELECT ` + ocidCellColumns + ` FROM ocid_cell WHERE ` + where

	var c models.OCIDCell
	err := r.db.QueryRow(query, args...).Scan(
		&c.Radio, &c.MCC, &c.MNC, &c.LAC, &c.CID, &c.PSC,
		&c.Lat, &c.Lon, &c.Range, &c.TotalMeasures, &c.Changeable,
		&c.Created, &c.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ocid cell: %w", err)
	}
	return &c, nil
}

// UpsertOCIDCell inserts or replaces an imported cell row. The import
// dataset is the source of truth, so conflicts overwrite.
func (r *CellRepository) UpsertOCIDCell(c models.OCIDCell) error {
	query := `INSERT INTO ocid_cell (` + ocidCellColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (radio, mcc, mnc, lac, cid) DO UPDATE SET
			psc = excluded.psc,
			lat = excluded.lat,
			lon = excluded.lon,
			"range" = excluded."range",
			total_measures = excluded.total_measures,
			changeable = excluded.changeable,
			modified = excluded.modified`

	_, err := r.db.Exec(query,
		c.Radio, c.MCC, c.MNC, c.LAC, c.CID, c.PSC,
		c.Lat, c.Lon, c.Range, c.TotalMeasures, c.Changeable,
		c.Created, c.Modified,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ocid cell: %w", err)
	}
	return nil
}

// ListOCIDCellsByArea retrieves all imported cells in a location area.
func (r *CellRepository) ListOCIDCellsByArea(area models.CellAreaKey) ([]models.OCIDCell, error) {
	where, args := keyConditions(models.OCIDCellSchema, area)
	query := `SELECT ` + ocidCellColumns + ` FROM ocid_cell WHERE ` + where + ` ORDER BY cid`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ocid cells: %w", err)
	}
	defer rows.Close()

	var cells []models.OCIDCell
	for rows.Next() {
		var c models.OCIDCell
		err := rows.Scan(
			&c.Radio, &c.MCC, &c.MNC, &c.LAC, &c.CID, &c.PSC,
			&c.Lat, &c.Lon, &c.Range, &c.TotalMeasures, &c.Changeable,
			&c.Created, &c.Modified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ocid cell: %w", err)
		}
		cells = append(cells, c)
	}

	return cells, rows.Err()
}
