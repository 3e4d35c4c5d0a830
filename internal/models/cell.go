package models

import (
	"time"

	"github.com/groovecoder/ichnaea/internal/spatial"
)

// CellAreaKeyFields is the identity column group shared by every cell
// table: radio technology plus mcc/mnc/lac.
type CellAreaKeyFields struct {
	Radio int `json:"radio" db:"radio"`
	MCC   int `json:"mcc" db:"mcc"`
	MNC   int `json:"mnc" db:"mnc"`
	LAC   int `json:"lac" db:"lac"`
}

func (f CellAreaKeyFields) CellField(name string) (int, bool) {
	return CellAreaKey{Radio: f.Radio, MCC: f.MCC, MNC: f.MNC, LAC: f.LAC}.CellField(name)
}

// AreaKey returns the identity tuple of the containing location area.
func (f CellAreaKeyFields) AreaKey() CellAreaKey {
	return CellAreaKey{Radio: f.Radio, MCC: f.MCC, MNC: f.MNC, LAC: f.LAC}
}

// CellKeyFields adds the cell id to the area identity group.
type CellKeyFields struct {
	CellAreaKeyFields
	CID int `json:"cid" db:"cid"`
}

func (f CellKeyFields) CellField(name string) (int, bool) {
	if name == "cid" {
		return f.CID, true
	}
	return f.CellAreaKeyFields.CellField(name)
}

// Key returns the cell identity tuple.
func (f CellKeyFields) Key() CellKey {
	return CellKey{Radio: f.Radio, MCC: f.MCC, MNC: f.MNC, LAC: f.LAC, CID: f.CID}
}

// CellKeyPscFields adds the primary scrambling/pilot code.
type CellKeyPscFields struct {
	CellKeyFields
	PSC int `json:"psc" db:"psc"`
}

func (f CellKeyPscFields) CellField(name string) (int, bool) {
	if name == "psc" {
		return f.PSC, true
	}
	return f.CellKeyFields.CellField(name)
}

// KeyPsc returns the psc-qualified cell identity tuple.
func (f CellKeyPscFields) KeyPsc() CellKeyPsc {
	return CellKeyPsc{Radio: f.Radio, MCC: f.MCC, MNC: f.MNC, LAC: f.LAC, CID: f.CID, PSC: f.PSC}
}

// Position is an estimated station location.
type Position struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// TimeTracking records row creation and last modification, set at
// creation and never retroactively cleared.
type TimeTracking struct {
	Created  time.Time `json:"created" db:"created"`
	Modified time.Time `json:"modified" db:"modified"`
}

// Cell is a station observed through internally collected measurements.
type Cell struct {
	CellKeyPscFields
	Position
	TimeTracking
	Range         int `json:"range" db:"range"`
	NewMeasures   int `json:"newMeasures" db:"new_measures"`
	TotalMeasures int `json:"totalMeasures" db:"total_measures"`
}

// OCIDCell is a station imported from the external open cell dataset.
type OCIDCell struct {
	CellKeyPscFields
	Position
	TimeTracking
	Range         int  `json:"range" db:"range"`
	TotalMeasures int  `json:"totalMeasures" db:"total_measures"`
	Changeable    bool `json:"changeable" db:"changeable"`
}

// MinLat returns the southern edge of the cell's coverage estimate.
func (c OCIDCell) MinLat() float64 {
	return spatial.AddMetersToLatitude(c.Lat, -float64(c.Range))
}

// MaxLat returns the northern edge of the cell's coverage estimate.
func (c OCIDCell) MaxLat() float64 {
	return spatial.AddMetersToLatitude(c.Lat, float64(c.Range))
}

// MinLon returns the western edge of the cell's coverage estimate.
func (c OCIDCell) MinLon() float64 {
	return spatial.AddMetersToLongitude(c.Lat, c.Lon, -float64(c.Range))
}

// MaxLon returns the eastern edge of the cell's coverage estimate.
func (c OCIDCell) MaxLon() float64 {
	return spatial.AddMetersToLongitude(c.Lat, c.Lon, float64(c.Range))
}

// CellArea aggregates the internal cells sharing an area key.
type CellArea struct {
	CellAreaKeyFields
	Position
	TimeTracking
	Range        int `json:"range" db:"range"`
	AvgCellRange int `json:"avgCellRange" db:"avg_cell_range"`
	NumCells     int `json:"numCells" db:"num_cells"`
}

// OCIDCellArea aggregates the imported cells sharing an area key.
type OCIDCellArea struct {
	CellAreaKeyFields
	Position
	TimeTracking
	Range        int `json:"range" db:"range"`
	AvgCellRange int `json:"avgCellRange" db:"avg_cell_range"`
	NumCells     int `json:"numCells" db:"num_cells"`
}

// CellBlacklist suppresses a cell whose reported positions are
// unreliable. Expiry is handled by an external worker.
type CellBlacklist struct {
	CellKeyFields
	Time  time.Time `json:"time" db:"time"`
	Count int       `json:"count" db:"count"`
}

func utcnow() time.Time {
	return time.Now().UTC()
}

// NewCell applies creation defaults to c. Zero created/modified become
// the current UTC time; numeric fields left at zero stay zero, so an
// explicit zero and an omitted field are indistinguishable, matching the
// lac/cid "not applicable" sentinel.
func NewCell(c Cell) Cell {
	if c.Created.IsZero() {
		c.Created = utcnow()
	}
	if c.Modified.IsZero() {
		c.Modified = utcnow()
	}
	return c
}

// NewOCIDCell applies creation defaults to c. changeable is a pointer so
// that leaving it nil defaults to true.
func NewOCIDCell(c OCIDCell, changeable *bool) OCIDCell {
	if c.Created.IsZero() {
		c.Created = utcnow()
	}
	if c.Modified.IsZero() {
		c.Modified = utcnow()
	}
	if changeable == nil {
		c.Changeable = true
	} else {
		c.Changeable = *changeable
	}
	return c
}

// NewCellArea applies creation defaults to a.
func NewCellArea(a CellArea) CellArea {
	if a.Created.IsZero() {
		a.Created = utcnow()
	}
	if a.Modified.IsZero() {
		a.Modified = utcnow()
	}
	return a
}

// NewOCIDCellArea applies creation defaults to a.
func NewOCIDCellArea(a OCIDCellArea) OCIDCellArea {
	if a.Created.IsZero() {
		a.Created = utcnow()
	}
	if a.Modified.IsZero() {
		a.Modified = utcnow()
	}
	return a
}

// NewCellBlacklist applies creation defaults to b: first sighting now,
// count one.
func NewCellBlacklist(b CellBlacklist) CellBlacklist {
	if b.Time.IsZero() {
		b.Time = utcnow()
	}
	if b.Count == 0 {
		b.Count = 1
	}
	return b
}
