package models

// Schema describes which identity columns a cell table exposes. The
// matcher is driven by these declared capabilities rather than by
// probing the table at runtime.
type Schema struct {
	Table  string
	HasCID bool
	HasPSC bool
}

// Descriptors for the cell catalog tables.
var (
	CellSchema          = Schema{Table: "cell", HasCID: true, HasPSC: true}
	OCIDCellSchema      = Schema{Table: "ocid_cell", HasCID: true, HasPSC: true}
	CellAreaSchema      = Schema{Table: "cell_area"}
	OCIDCellAreaSchema  = Schema{Table: "ocid_cell_area"}
	CellBlacklistSchema = Schema{Table: "cell_blacklist", HasCID: true}
)

// CellModelSchemas maps table name to its schema descriptor.
var CellModelSchemas = map[string]Schema{
	"cell":           CellSchema,
	"cell_area":      CellAreaSchema,
	"ocid_cell":      OCIDCellSchema,
	"ocid_cell_area": OCIDCellAreaSchema,
	"cell_blacklist": CellBlacklistSchema,
}

// Condition is a single column equality term. The caller's query layer
// ANDs conditions together.
type Condition struct {
	Column string
	Value  int
}

// Key is any cell identity tuple accepted by JoinKey: the three key
// types, and by extension the entities embedding their field groups.
type Key interface {
	FieldSource
	AreaKey() CellAreaKey
}

// AreaKey returns the key itself.
func (k CellAreaKey) AreaKey() CellAreaKey { return k }

// AreaKey returns the identity of the containing location area.
func (k CellKey) AreaKey() CellAreaKey {
	return CellAreaKey{Radio: k.Radio, MCC: k.MCC, MNC: k.MNC, LAC: k.LAC}
}

// AreaKey returns the identity of the containing location area.
func (k CellKeyPsc) AreaKey() CellAreaKey {
	return CellAreaKey{Radio: k.Radio, MCC: k.MCC, MNC: k.MNC, LAC: k.LAC}
}

// JoinKey returns the equality conditions for matching key against a
// table described by schema. The area columns are always matched. psc is
// matched only when the key carries one and the schema has the column;
// likewise cid. A field present on only one side is dropped, not an
// error: area tables routinely receive cell-level keys.
func JoinKey(schema Schema, key Key) []Condition {
	area := key.AreaKey()
	conditions := []Condition{
		{Column: "radio", Value: area.Radio},
		{Column: "mcc", Value: area.MCC},
		{Column: "mnc", Value: area.MNC},
		{Column: "lac", Value: area.LAC},
	}
	if psc, ok := key.CellField("psc"); ok && schema.HasPSC {
		conditions = append(conditions, Condition{Column: "psc", Value: psc})
	}
	if cid, ok := key.CellField("cid"); ok && schema.HasCID {
		conditions = append(conditions, Condition{Column: "cid", Value: cid})
	}
	return conditions
}
