package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groovecoder/ichnaea/internal/models"
)

func TestObserveNewCell(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	result, err := svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 0, result.Dropped)

	cell, err := f.cells.GetCell(models.CellKey{Radio: 0, MCC: 204, MNC: 10, LAC: 1234, CID: 5678})
	require.NoError(t, err)
	require.NotNil(t, cell)
	assert.Equal(t, 5, cell.PSC)
	assert.Equal(t, 1, cell.NewMeasures)
	assert.Equal(t, 1, cell.TotalMeasures)
	assert.InDelta(t, 52.35, cell.Lat, 1e-9)
}

func TestObserveRepeatSightingIncrementsCounters(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	_, err := svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)
	result, err := svc.Observe(reportAt(52.3501, 4.9002, observation(1234, 5678)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)

	cell, err := f.cells.GetCell(models.CellKey{Radio: 0, MCC: 204, MNC: 10, LAC: 1234, CID: 5678})
	require.NoError(t, err)
	assert.Equal(t, 2, cell.NewMeasures)
	assert.Equal(t, 2, cell.TotalMeasures)
}

func TestObserveRepeatSightingRefinesPosition(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)
	key := models.CellKey{Radio: 0, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}

	_, err := svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)
	_, err = svc.Observe(reportAt(52.40, 4.95, observation(1234, 5678)))
	require.NoError(t, err)

	// one prior measure: the estimate moves halfway to the new sighting
	cell, err := f.cells.GetCell(key)
	require.NoError(t, err)
	assert.InDelta(t, 52.375, cell.Lat, 1e-9)
	assert.InDelta(t, 4.925, cell.Lon, 1e-9)

	// two prior measures: the new sighting only pulls a third of the way
	_, err = svc.Observe(reportAt(52.30, 4.90, observation(1234, 5678)))
	require.NoError(t, err)
	cell, err = f.cells.GetCell(key)
	require.NoError(t, err)
	assert.InDelta(t, 52.35, cell.Lat, 1e-9)
	assert.InDelta(t, 4.916666667, cell.Lon, 1e-8)
}

func TestObserveWithoutPositionKeepsEstimate(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)
	key := models.CellKey{Radio: 0, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}

	_, err := svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)
	_, err = svc.Observe(reportAt(0, 0, observation(1234, 5678)))
	require.NoError(t, err)

	cell, err := f.cells.GetCell(key)
	require.NoError(t, err)
	assert.Equal(t, 2, cell.TotalMeasures)
	assert.InDelta(t, 52.35, cell.Lat, 1e-9)
	assert.InDelta(t, 4.9, cell.Lon, 1e-9)
}

func TestObserveUnpositionedCellAdoptsReportPosition(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)
	key := models.CellKey{Radio: 0, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}

	_, err := svc.Observe(reportAt(0, 0, observation(1234, 5678)))
	require.NoError(t, err)
	_, err = svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)

	cell, err := f.cells.GetCell(key)
	require.NoError(t, err)
	assert.InDelta(t, 52.35, cell.Lat, 1e-9)
	assert.InDelta(t, 4.9, cell.Lon, 1e-9)
}

func TestObserveDropsUnusableObservations(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	bad := observation(1234, 5678)
	bad.Radio = "morse"
	noCountry := observation(1234, 5678)
	noCountry.MCC = 0

	result, err := svc.Observe(reportAt(52.35, 4.9, bad, noCountry, observation(1234, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 2, result.Dropped)
}

func TestObserveMovedCellGetsBlacklisted(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	_, err := svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)

	// an observation on another continent marks the cell as moved
	result, err := svc.Observe(reportAt(-33.87, 151.21, observation(1234, 5678)))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Accepted)
	assert.Equal(t, 1, result.Dropped)

	key := models.CellKey{Radio: 0, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}
	entry, err := f.blacklist.Get(key)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.Count)

	// the stored counters are untouched
	cell, err := f.cells.GetCell(key)
	require.NoError(t, err)
	assert.Equal(t, 1, cell.TotalMeasures)
}

func TestObserveSkipsBlacklistedCell(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	entry := models.NewCellBlacklist(models.CellBlacklist{
		CellKeyFields: models.CellKeyFields{
			CellAreaKeyFields: models.CellAreaKeyFields{Radio: 0, MCC: 204, MNC: 10, LAC: 1234},
			CID:               5678,
		},
	})
	require.NoError(t, f.blacklist.Upsert(entry))

	result, err := svc.Observe(reportAt(52.35, 4.9, observation(1234, 5678)))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Accepted)
	assert.Equal(t, 1, result.Dropped)

	cell, err := f.cells.GetCell(entry.Key())
	require.NoError(t, err)
	assert.Nil(t, cell)
}

func TestObserveLacCidSentinels(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	// CDMA deployments may have no lac/cid; zero is a valid sentinel
	obs := models.CellObservation{Radio: "cdma", MCC: 310, MNC: 10}
	result, err := svc.Observe(reportAt(37.0, -122.0, obs))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)

	cell, err := f.cells.GetCell(models.CellKey{Radio: models.RadioCDMA, MCC: 310, MNC: 10})
	require.NoError(t, err)
	require.NotNil(t, cell)
	assert.Equal(t, 0, cell.LAC)
	assert.Equal(t, 0, cell.CID)
}

func TestImportOCIDCell(t *testing.T) {
	f := newFixture(t)
	svc := NewCellService(f.cells, f.blacklist)

	cell := models.OCIDCell{
		CellKeyPscFields: models.CellKeyPscFields{
			CellKeyFields: models.CellKeyFields{
				CellAreaKeyFields: models.CellAreaKeyFields{Radio: 3, MCC: 262, MNC: 2, LAC: 434},
				CID:               23456,
			},
		},
		Position:      models.Position{Lat: 51.2, Lon: 6.8},
		Range:         500,
		TotalMeasures: 9,
	}
	require.NoError(t, svc.ImportOCIDCell(cell, nil))

	got, err := f.cells.GetOCIDCell(cell.Key())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Changeable)

	bad := cell
	bad.MCC = 0
	assert.Error(t, svc.ImportOCIDCell(bad, nil))
}
