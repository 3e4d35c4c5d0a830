package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/groovecoder/ichnaea/internal/models"
)

// BlacklistRepository handles database operations for the cell_blacklist
// table.
type BlacklistRepository struct {
	db *sql.DB
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *sql.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

const blacklistColumns = `radio, mcc, mnc, lac, cid, time, count`

// Get retrieves the suppression record for a cell, nil when the cell is
// not blacklisted.
func (r *BlacklistRepository) Get(key models.Key) (*models.CellBlacklist, error) {
	where, args := keyConditions(models.CellBlacklistSchema, key)
	query := `SELECT ` + blacklistColumns + ` FROM cell_blacklist WHERE ` + where

	var b models.CellBlacklist
	err := r.db.QueryRow(query, args...).Scan(
		&b.Radio, &b.MCC, &b.MNC, &b.LAC, &b.CID, &b.Time, &b.Count,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blacklist entry: %w", err)
	}
	return &b, nil
}

// Upsert records a sighting of an unreliable cell: inserts with the
// defaults of models.NewCellBlacklist, or bumps count and last-seen time
// on repeat.
func (r *BlacklistRepository) Upsert(b models.CellBlacklist) error {
	query := `INSERT INTO cell_blacklist (` + blacklistColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (radio, mcc, mnc, lac, cid) DO UPDATE SET
			count = cell_blacklist.count + 1,
			time = excluded.time`

	_, err := r.db.Exec(query, b.Radio, b.MCC, b.MNC, b.LAC, b.CID, b.Time, b.Count)
	if err != nil {
		return fmt.Errorf("failed to upsert blacklist entry: %w", err)
	}
	return nil
}

// ListExpired returns suppression records last seen before the cutoff,
// for the expiry worker to lift.
func (r *BlacklistRepository) ListExpired(before time.Time, limit int) ([]models.CellBlacklist, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + blacklistColumns + ` FROM cell_blacklist WHERE time < ? ORDER BY time LIMIT ?`

	rows, err := r.db.Query(query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired blacklist entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CellBlacklist
	for rows.Next() {
		var b models.CellBlacklist
		if err := rows.Scan(&b.Radio, &b.MCC, &b.MNC, &b.LAC, &b.CID, &b.Time, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan blacklist entry: %w", err)
		}
		entries = append(entries, b)
	}

	return entries, rows.Err()
}

// Delete removes the suppression record for a cell.
func (r *BlacklistRepository) Delete(key models.Key) error {
	where, args := keyConditions(models.CellBlacklistSchema, key)
	query := `DELETE FROM cell_blacklist WHERE ` + where

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete blacklist entry: %w", err)
	}
	return nil
}
