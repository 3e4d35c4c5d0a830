package service

import (
	"fmt"
	"log"

	"github.com/groovecoder/ichnaea/internal/metrics"
	"github.com/groovecoder/ichnaea/internal/models"
	"github.com/groovecoder/ichnaea/internal/repository"
	"github.com/groovecoder/ichnaea/internal/spatial"
)

// maxCellMoveMeters is how far a new observation may sit from a cell's
// stored position before the cell is treated as moved and blacklisted.
const maxCellMoveMeters = 150000.0

// CellService handles ingestion of cell measurement reports.
type CellService struct {
	cells     *repository.CellRepository
	blacklist *repository.BlacklistRepository
}

// NewCellService creates a new cell service
func NewCellService(cells *repository.CellRepository, blacklist *repository.BlacklistRepository) *CellService {
	return &CellService{cells: cells, blacklist: blacklist}
}

// validKey rejects observations whose identity fields cannot belong to a
// real network element. lac/cid zero is allowed: it is the sentinel for
// radio technologies without those fields.
func validKey(k models.CellKeyPsc) bool {
	return k.Radio >= 0 &&
		k.MCC > 0 && k.MCC <= 999 &&
		k.MNC >= 0 &&
		k.LAC >= 0 &&
		k.CID >= 0
}

// Observe ingests one measurement report. Observations with unusable
// identity fields are dropped, not fatal; database failures abort the
// report.
func (s *CellService) Observe(report models.Report) (models.SubmitResult, error) {
	var result models.SubmitResult

	for _, obs := range report.Cell {
		kpsc, err := models.ToCellKeyPsc(obs.Source())
		if err != nil || !validKey(kpsc) {
			result.Dropped++
			metrics.SubmitDroppedTotal.Inc()
			continue
		}
		key := models.CellKey{Radio: kpsc.Radio, MCC: kpsc.MCC, MNC: kpsc.MNC, LAC: kpsc.LAC, CID: kpsc.CID}

		entry, err := s.blacklist.Get(key)
		if err != nil {
			return result, fmt.Errorf("blacklist lookup failed: %w", err)
		}
		if entry != nil {
			result.Dropped++
			continue
		}

		existing, err := s.cells.GetCell(key)
		if err != nil {
			return result, fmt.Errorf("cell lookup failed: %w", err)
		}

		if existing == nil {
			cell := models.NewCell(models.Cell{
				CellKeyPscFields: models.CellKeyPscFields{
					CellKeyFields: models.CellKeyFields{
						CellAreaKeyFields: models.CellAreaKeyFields{
							Radio: kpsc.Radio, MCC: kpsc.MCC, MNC: kpsc.MNC, LAC: kpsc.LAC,
						},
						CID: kpsc.CID,
					},
					PSC: kpsc.PSC,
				},
				Position:      models.Position{Lat: report.Lat, Lon: report.Lon},
				NewMeasures:   1,
				TotalMeasures: 1,
			})
			if err := s.cells.InsertCell(cell); err != nil {
				return result, fmt.Errorf("cell insert failed: %w", err)
			}
			result.Accepted++
			continue
		}

		if s.moved(existing, report) {
			if err := s.blacklistCell(key); err != nil {
				return result, err
			}
			result.Dropped++
			continue
		}

		if err := s.cells.IncrementMeasures(key, 1, 1); err != nil {
			return result, fmt.Errorf("measure increment failed: %w", err)
		}
		if err := s.refinePosition(key, existing, report); err != nil {
			return result, err
		}
		result.Accepted++
	}

	metrics.SubmitReportsTotal.Inc()
	return result, nil
}

// refinePosition folds one more sighting into the cell's position
// estimate, weighting the stored position by the measures already
// behind it. An unpositioned cell adopts the report's position
// outright; a report without a position leaves the estimate alone.
func (s *CellService) refinePosition(key models.CellKey, cell *models.Cell, report models.Report) error {
	if report.Lat == 0 && report.Lon == 0 {
		return nil
	}

	lat, lon := cell.Lat, cell.Lon
	if lat == 0 && lon == 0 {
		lat, lon = report.Lat, report.Lon
	} else {
		w := float64(cell.TotalMeasures)
		lat = (lat*w + report.Lat) / (w + 1)
		lon = (lon*w + report.Lon) / (w + 1)
	}

	if err := s.cells.UpdatePosition(key, lat, lon, cell.Range); err != nil {
		return fmt.Errorf("position update failed: %w", err)
	}
	return nil
}

// moved reports whether the new observation is implausibly far from the
// cell's stored position, allowing for the cell's own coverage range.
func (s *CellService) moved(cell *models.Cell, report models.Report) bool {
	if cell.Lat == 0 && cell.Lon == 0 {
		return false
	}
	if report.Lat == 0 && report.Lon == 0 {
		return false
	}
	dist := spatial.HaversineDistance(cell.Lat, cell.Lon, report.Lat, report.Lon)
	return dist > float64(cell.Range)+maxCellMoveMeters
}

func (s *CellService) blacklistCell(key models.CellKey) error {
	entry := models.NewCellBlacklist(models.CellBlacklist{
		CellKeyFields: models.CellKeyFields{
			CellAreaKeyFields: models.CellAreaKeyFields{
				Radio: key.Radio, MCC: key.MCC, MNC: key.MNC, LAC: key.LAC,
			},
			CID: key.CID,
		},
	})
	if err := s.blacklist.Upsert(entry); err != nil {
		return fmt.Errorf("blacklist upsert failed: %w", err)
	}
	metrics.BlacklistedTotal.Inc()
	log.Printf("Blacklisted moved cell radio=%d mcc=%d mnc=%d lac=%d cid=%d",
		key.Radio, key.MCC, key.MNC, key.LAC, key.CID)
	return nil
}

// ImportOCIDCell upserts one row of the external open cell dataset.
// changeable defaults to true when nil.
func (s *CellService) ImportOCIDCell(cell models.OCIDCell, changeable *bool) error {
	kpsc := cell.KeyPsc()
	if !validKey(kpsc) {
		return fmt.Errorf("invalid ocid cell key: %+v", kpsc)
	}
	return s.cells.UpsertOCIDCell(models.NewOCIDCell(cell, changeable))
}
