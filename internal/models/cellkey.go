package models

import "fmt"

// Radio technology codes stored in the radio column
const (
	RadioGSM  = 0
	RadioCDMA = 1
	RadioUMTS = 2
	RadioLTE  = 3
)

// RadioType maps a radio technology name to its stored code.
// Returns -1 for unknown names.
func RadioType(name string) int {
	switch name {
	case "gsm":
		return RadioGSM
	case "cdma":
		return RadioCDMA
	case "umts", "wcdma":
		return RadioUMTS
	case "lte":
		return RadioLTE
	}
	return -1
}

// CellAreaKey identifies a location area, a group of cells sharing a
// location/tracking area code.
type CellAreaKey struct {
	Radio int
	MCC   int
	MNC   int
	LAC   int
}

// CellKey identifies a single physical cell.
type CellKey struct {
	Radio int
	MCC   int
	MNC   int
	LAC   int
	CID   int
}

// CellKeyPsc is a cell key with a primary scrambling/pilot code, needed
// because cid alone is not globally unique for some radio generations.
type CellKeyPsc struct {
	Radio int
	MCC   int
	MNC   int
	LAC   int
	CID   int
	PSC   int
}

// FieldSource is anything a cell key can be extracted from. Both mapping
// shaped sources (MapSource) and field-bearing structs (keys, entities)
// implement it, so normalization treats the two shapes identically.
type FieldSource interface {
	// CellField returns the named identity field and whether it exists.
	CellField(name string) (int, bool)
}

// MapSource adapts a plain field-name to value map into a FieldSource.
type MapSource map[string]int

func (m MapSource) CellField(name string) (int, bool) {
	v, ok := m[name]
	return v, ok
}

func (k CellAreaKey) CellField(name string) (int, bool) {
	switch name {
	case "radio":
		return k.Radio, true
	case "mcc":
		return k.MCC, true
	case "mnc":
		return k.MNC, true
	case "lac":
		return k.LAC, true
	}
	return 0, false
}

func (k CellKey) CellField(name string) (int, bool) {
	if name == "cid" {
		return k.CID, true
	}
	return CellAreaKey{Radio: k.Radio, MCC: k.MCC, MNC: k.MNC, LAC: k.LAC}.CellField(name)
}

func (k CellKeyPsc) CellField(name string) (int, bool) {
	if name == "psc" {
		return k.PSC, true
	}
	return CellKey{Radio: k.Radio, MCC: k.MCC, MNC: k.MNC, LAC: k.LAC, CID: k.CID}.CellField(name)
}

// MissingFieldError reports a required identity field absent from a
// normalization source.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required cell field: %s", e.Field)
}

func requireField(src FieldSource, name string) (int, error) {
	v, ok := src.CellField(name)
	if !ok {
		return 0, &MissingFieldError{Field: name}
	}
	return v, nil
}

// ToCellKey constructs a CellKey from any source carrying the requisite
// 5 fields. Extra fields such as psc are ignored.
func ToCellKey(src FieldSource) (CellKey, error) {
	var k CellKey
	var err error
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"radio", &k.Radio},
		{"mcc", &k.MCC},
		{"mnc", &k.MNC},
		{"lac", &k.LAC},
		{"cid", &k.CID},
	} {
		if *f.dst, err = requireField(src, f.name); err != nil {
			return CellKey{}, err
		}
	}
	return k, nil
}

// ToCellKeyPsc constructs a CellKeyPsc from any source carrying the
// requisite 6 fields.
func ToCellKeyPsc(src FieldSource) (CellKeyPsc, error) {
	var k CellKeyPsc
	var err error
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"radio", &k.Radio},
		{"mcc", &k.MCC},
		{"mnc", &k.MNC},
		{"lac", &k.LAC},
		{"cid", &k.CID},
		{"psc", &k.PSC},
	} {
		if *f.dst, err = requireField(src, f.name); err != nil {
			return CellKeyPsc{}, err
		}
	}
	return k, nil
}
