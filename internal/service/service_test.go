package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/groovecoder/ichnaea/internal/database"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/repository"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

type fixture struct {
	db        *sql.DB
	cells     *repository.CellRepository
	areas     *repository.AreaRepository
	blacklist *repository.BlacklistRepository
}

func newFixture(t *testing.T) fixture {
	db := testDB(t)
	return fixture{
		db:        db,
		cells:     repository.NewCellRepository(db),
		areas:     repository.NewAreaRepository(db),
		blacklist: repository.NewBlacklistRepository(db),
	}
}

func observation(lac, cid int) models.CellObservation {
	return models.CellObservation{
		Radio: "gsm", MCC: 204, MNC: 10, LAC: lac, CID: cid, PSC: 5,
	}
}

func reportAt(lat, lon float64, cells ...models.CellObservation) models.Report {
	return models.Report{Lat: lat, Lon: lon, Accuracy: 10, Cell: cells}
}
