package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/groovecoder/ichnaea/internal/database"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/repository"
	"github.com/groovecoder/ichnaea/internal/spatial"
)

// AreaService recomputes location area aggregates from their member
// cells.
type AreaService struct {
	db    *sql.DB
	cells *repository.CellRepository
	areas *repository.AreaRepository
}

// NewAreaService creates a new area service
func NewAreaService(db *sql.DB, cells *repository.CellRepository, areas *repository.AreaRepository) *AreaService {
	return &AreaService{db: db, cells: cells, areas: areas}
}

type memberCell struct {
	lat, lon   float64
	rangeM     int
	weight     float64
	positioned bool
}

// aggregate derives the area position and ranges from member cells.
// Position is the measure-weighted centroid of positioned members; range
// covers the farthest member's own coverage edge.
func aggregate(members []memberCell) (spatial.Point, int, int) {
	var points []spatial.Point
	var weights []float64
	var rangeSum int

	for _, m := range members {
		rangeSum += m.rangeM
		if m.positioned {
			points = append(points, spatial.Point{Lat: m.lat, Lon: m.lon})
			weights = append(weights, m.weight)
		}
	}

	center := spatial.WeightedCentroid(points, weights)

	var maxRange float64
	for _, m := range members {
		if !m.positioned {
			continue
		}
		d := spatial.HaversineDistance(center.Lat, center.Lon, m.lat, m.lon) + float64(m.rangeM)
		if d > maxRange {
			maxRange = d
		}
	}

	avgRange := 0
	if len(members) > 0 {
		avgRange = rangeSum / len(members)
	}
	return center, int(maxRange), avgRange
}

// RecomputeArea rebuilds the cell_area row for the given key from its
// member cells. An area with no members is left untouched for the
// external expiry policy to remove.
func (s *AreaService) RecomputeArea(key models.CellAreaKey) error {
	cells, err := s.cells.ListCellsByArea(key)
	if err != nil {
		return fmt.Errorf("failed to list area members: %w", err)
	}
	if len(cells) == 0 {
		return nil
	}

	members := make([]memberCell, len(cells))
	for i, c := range cells {
		members[i] = memberCell{
			lat: c.Lat, lon: c.Lon, rangeM: c.Range,
			weight:     float64(c.TotalMeasures),
			positioned: c.Lat != 0 || c.Lon != 0,
		}
	}
	center, maxRange, avgRange := aggregate(members)

	area := models.CellArea{
		CellAreaKeyFields: models.CellAreaKeyFields{
			Radio: key.Radio, MCC: key.MCC, MNC: key.MNC, LAC: key.LAC,
		},
		Position:     models.Position{Lat: center.Lat, Lon: center.Lon},
		Range:        maxRange,
		AvgCellRange: avgRange,
		NumCells:     len(cells),
	}
	if existing, err := s.areas.GetArea(key); err != nil {
		return err
	} else if existing != nil {
		area.Created = existing.Created
	}
	area = models.NewCellArea(area)
	area.Modified = time.Now().UTC()

	// The aggregate and the counter reset must land together: a reset
	// without the new aggregate would silently drop the pending window.
	return database.Transaction(s.db, func(tx *sql.Tx) error {
		if err := s.areas.UpsertAreaTx(tx, area); err != nil {
			return err
		}
		// Clear the pending counters of every member in one pass: the
		// area key against the cell schema matches all cells sharing
		// the lac.
		return s.cells.ResetNewMeasuresTx(tx, key)
	})
}

// RecomputeOCIDArea rebuilds the ocid_cell_area row for the given key.
func (s *AreaService) RecomputeOCIDArea(key models.CellAreaKey) error {
	cells, err := s.cells.ListOCIDCellsByArea(key)
	if err != nil {
		return fmt.Errorf("failed to list ocid area members: %w", err)
	}
	if len(cells) == 0 {
		return nil
	}

	members := make([]memberCell, len(cells))
	for i, c := range cells {
		members[i] = memberCell{
			lat: c.Lat, lon: c.Lon, rangeM: c.Range,
			weight:     float64(c.TotalMeasures),
			positioned: c.Lat != 0 || c.Lon != 0,
		}
	}
	center, maxRange, avgRange := aggregate(members)

	area := models.OCIDCellArea{
		CellAreaKeyFields: models.CellAreaKeyFields{
			Radio: key.Radio, MCC: key.MCC, MNC: key.MNC, LAC: key.LAC,
		},
		Position:     models.Position{Lat: center.Lat, Lon: center.Lon},
		Range:        maxRange,
		AvgCellRange: avgRange,
		NumCells:     len(cells),
	}
	if existing, err := s.areas.GetOCIDArea(key); err != nil {
		return err
	} else if existing != nil {
		area.Created = existing.Created
	}
	area = models.NewOCIDCellArea(area)
	area.Modified = time.Now().UTC()

	return s.areas.UpsertOCIDArea(area)
}

// RecomputeStale recomputes every area that has cells with pending
// measurements and returns how many were rebuilt.
func (s *AreaService) RecomputeStale(limit int) (int, error) {
	keys, err := s.cells.ListAreasWithNewMeasures(limit)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := s.RecomputeArea(key); err != nil {
			return i, fmt.Errorf("failed to recompute area %+v: %w", key, err)
		}
	}
	return len(keys), nil
}
