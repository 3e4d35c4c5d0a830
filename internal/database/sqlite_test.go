package database

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))
	return db
}

func blacklistCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cell_blacklist`).Scan(&n))
	return n
}

func TestTransactionCommits(t *testing.T) {
	db := testDB(t)

	err := Transaction(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO cell_blacklist (radio, mcc, mnc, lac, cid, time, count) VALUES (0, 204, 10, 1234, 5678, ?, 1)`,
			time.Now().UTC(),
		)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, blacklistCount(t, db))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := testDB(t)
	boom := errors.New("aggregation failed")

	err := Transaction(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO cell_blacklist (radio, mcc, mnc, lac, cid, time, count) VALUES (0, 204, 10, 1234, 5678, ?, 1)`,
			time.Now().UTC(),
		)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, blacklistCount(t, db))
}
