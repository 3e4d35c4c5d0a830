package service

import (
	"context"
	"fmt"
	"log"

	"github.com/groovecoder/ichnaea/internal/metrics"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/queue"
	"github.com/groovecoder/ichnaea/internal/repository"
	"github.com/groovecoder/ichnaea/internal/spatial"
)

// Accuracy floors in meters. A single cell can never pin a position
// tighter than its coverage; an area estimate is coarser still.
const (
	cellMinAccuracy = 35000.0
	areaMinAccuracy = 50000.0
)

// Locate data sources, most precise first.
const (
	SourceCell         = "cell"
	SourceOCIDCell     = "ocid_cell"
	SourceCellArea     = "cell_area"
	SourceOCIDCellArea = "ocid_cell_area"
	SourceMiss         = "miss"
)

// LocateService estimates a position from the cells visible to a client,
// searching the internal catalog before the imported one and exact cells
// before area aggregates.
type LocateService struct {
	cells     *repository.CellRepository
	areas     *repository.AreaRepository
	blacklist *repository.BlacklistRepository
	reports   *queue.ReportQueue
}

// NewLocateService creates a new locate service
func NewLocateService(
	cells *repository.CellRepository,
	areas *repository.AreaRepository,
	blacklist *repository.BlacklistRepository,
	reports *queue.ReportQueue,
) *LocateService {
	return &LocateService{cells: cells, areas: areas, blacklist: blacklist, reports: reports}
}

// towerKeys normalizes the query's towers into identity keys, dropping
// towers with unknown radio names. A tower carrying a psc yields a
// psc-flavored key; the matcher drops the extra field against tables
// without the column.
func towerKeys(towers []models.CellTower) []models.Key {
	var keys []models.Key
	for _, t := range towers {
		radio := models.RadioType(t.RadioType)
		if radio < 0 || t.MobileCountryCode <= 0 {
			continue
		}
		ck := models.CellKey{
			Radio: radio,
			MCC:   t.MobileCountryCode,
			MNC:   t.MobileNetworkCode,
			LAC:   t.LocationAreaCode,
			CID:   t.CellID,
		}
		if t.PSC != nil {
			keys = append(keys, models.CellKeyPsc{
				Radio: ck.Radio, MCC: ck.MCC, MNC: ck.MNC,
				LAC: ck.LAC, CID: ck.CID, PSC: *t.PSC,
			})
		} else {
			keys = append(keys, ck)
		}
	}
	return keys
}

type candidate struct {
	lat, lon float64
	rangeM   int
	weight   float64
}

func estimate(cands []candidate, minAccuracy float64, source string) *models.GeolocateResult {
	if len(cands) == 0 {
		return nil
	}
	points := make([]spatial.Point, len(cands))
	weights := make([]float64, len(cands))
	accuracy := minAccuracy
	for i, c := range cands {
		points[i] = spatial.Point{Lat: c.lat, Lon: c.lon}
		weights[i] = c.weight
		if float64(c.rangeM) > accuracy {
			accuracy = float64(c.rangeM)
		}
	}
	center := spatial.WeightedCentroid(points, weights)
	return &models.GeolocateResult{
		Lat:      center.Lat,
		Lon:      center.Lon,
		Accuracy: accuracy,
		Source:   source,
	}
}

func (s *LocateService) searchCells(keys []models.Key) (*models.GeolocateResult, error) {
	var cands []candidate
	for _, key := range keys {
		entry, err := s.blacklist.Get(key)
		if err != nil {
			return nil, fmt.Errorf("blacklist lookup failed: %w", err)
		}
		if entry != nil {
			continue
		}
		c, err := s.cells.GetCell(key)
		if err != nil {
			return nil, fmt.Errorf("cell lookup failed: %w", err)
		}
		if c == nil || (c.Lat == 0 && c.Lon == 0) {
			continue
		}
		cands = append(cands, candidate{lat: c.Lat, lon: c.Lon, rangeM: c.Range, weight: float64(c.TotalMeasures)})
	}
	return estimate(cands, cellMinAccuracy, SourceCell), nil
}

func (s *LocateService) searchOCIDCells(keys []models.Key) (*models.GeolocateResult, error) {
	var cands []candidate
	for _, key := range keys {
		c, err := s.cells.GetOCIDCell(key)
		if err != nil {
			return nil, fmt.Errorf("ocid cell lookup failed: %w", err)
		}
		if c == nil || (c.Lat == 0 && c.Lon == 0) {
			continue
		}
		cands = append(cands, candidate{lat: c.Lat, lon: c.Lon, rangeM: c.Range, weight: float64(c.TotalMeasures)})
	}
	return estimate(cands, cellMinAccuracy, SourceOCIDCell), nil
}

// areaKeys deduplicates the areas covering the queried towers.
func areaKeys(keys []models.Key) []models.CellAreaKey {
	seen := make(map[models.CellAreaKey]bool)
	var out []models.CellAreaKey
	for _, k := range keys {
		area := k.AreaKey()
		if !seen[area] {
			seen[area] = true
			out = append(out, area)
		}
	}
	return out
}

func (s *LocateService) searchAreas(keys []models.Key) (*models.GeolocateResult, error) {
	var cands []candidate
	for _, area := range areaKeys(keys) {
		a, err := s.areas.GetArea(area)
		if err != nil {
			return nil, fmt.Errorf("area lookup failed: %w", err)
		}
		if a == nil || (a.Lat == 0 && a.Lon == 0) {
			continue
		}
		cands = append(cands, candidate{lat: a.Lat, lon: a.Lon, rangeM: a.Range, weight: float64(a.NumCells)})
	}
	return estimate(cands, areaMinAccuracy, SourceCellArea), nil
}

func (s *LocateService) searchOCIDAreas(keys []models.Key) (*models.GeolocateResult, error) {
	var cands []candidate
	for _, area := range areaKeys(keys) {
		a, err := s.areas.GetOCIDArea(area)
		if err != nil {
			return nil, fmt.Errorf("ocid area lookup failed: %w", err)
		}
		if a == nil || (a.Lat == 0 && a.Lon == 0) {
			continue
		}
		cands = append(cands, candidate{lat: a.Lat, lon: a.Lon, rangeM: a.Range, weight: float64(a.NumCells)})
	}
	return estimate(cands, areaMinAccuracy, SourceOCIDCellArea), nil
}

// Search estimates a position for the query, nil when nothing in the
// catalog matches. Successful estimates are fed back to the update
// pipeline; queue failures are logged and never fail the query.
func (s *LocateService) Search(ctx context.Context, req models.GeolocateRequest) (*models.GeolocateResult, error) {
	metrics.LocateRequestsTotal.Inc()

	keys := towerKeys(req.CellTowers)
	if len(keys) == 0 {
		metrics.LocateSourceHits.WithLabelValues(SourceMiss).Inc()
		return nil, nil
	}

	searches := []func([]models.Key) (*models.GeolocateResult, error){
		s.searchCells,
		s.searchOCIDCells,
		s.searchAreas,
		s.searchOCIDAreas,
	}
	for _, search := range searches {
		result, err := search(keys)
		if err != nil {
			return nil, err
		}
		if result != nil {
			metrics.LocateSourceHits.WithLabelValues(result.Source).Inc()
			s.storeQuery(ctx, req, result)
			return result, nil
		}
	}

	metrics.LocateSourceHits.WithLabelValues(SourceMiss).Inc()
	return nil, nil
}

// storeQuery enqueues the query and its estimate for the asynchronous
// update pipeline.
func (s *LocateService) storeQuery(ctx context.Context, req models.GeolocateRequest, result *models.GeolocateResult) {
	report := map[string]interface{}{
		"position": result,
		"query":    req,
	}
	if err := s.reports.Enqueue(ctx, report); err != nil {
		log.Printf("Failed to enqueue locate report: %v", err)
		return
	}
	metrics.QueuedReportsTotal.Inc()
}
