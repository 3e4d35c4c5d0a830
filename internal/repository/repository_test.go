package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/groovecoder/ichnaea/internal/database"
	"github.com/groovecoder/ichnaea/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

func testCell(lac, cid int) models.Cell {
	return models.NewCell(models.Cell{
		CellKeyPscFields: models.CellKeyPscFields{
			CellKeyFields: models.CellKeyFields{
				CellAreaKeyFields: models.CellAreaKeyFields{Radio: 1, MCC: 204, MNC: 10, LAC: lac},
				CID:               cid,
			},
			PSC: 99,
		},
		Position:      models.Position{Lat: 52.35, Lon: 4.9},
		Range:         1500,
		NewMeasures:   1,
		TotalMeasures: 3,
	})
}
