package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinKeyAreaSchemaDropsCidAndPsc(t *testing.T) {
	key := CellKeyPsc{Radio: 1, MCC: 204, MNC: 10, LAC: 1234, CID: 0, PSC: 5}

	conditions := JoinKey(CellAreaSchema, key)

	assert.Equal(t, []Condition{
		{Column: "radio", Value: 1},
		{Column: "mcc", Value: 204},
		{Column: "mnc", Value: 10},
		{Column: "lac", Value: 1234},
	}, conditions)
}

func TestJoinKeyCellSchemaPlainKey(t *testing.T) {
	key := CellKey{Radio: 1, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}

	conditions := JoinKey(CellSchema, key)

	assert.Equal(t, []Condition{
		{Column: "radio", Value: 1},
		{Column: "mcc", Value: 204},
		{Column: "mnc", Value: 10},
		{Column: "lac", Value: 1234},
		{Column: "cid", Value: 5678},
	}, conditions)
	for _, c := range conditions {
		assert.NotEqual(t, "psc", c.Column)
	}
}

func TestJoinKeyCellSchemaPscKey(t *testing.T) {
	key := CellKeyPsc{Radio: 1, MCC: 204, MNC: 10, LAC: 1234, CID: 5678, PSC: 99}

	conditions := JoinKey(CellSchema, key)

	assert.Equal(t, []Condition{
		{Column: "radio", Value: 1},
		{Column: "mcc", Value: 204},
		{Column: "mnc", Value: 10},
		{Column: "lac", Value: 1234},
		{Column: "psc", Value: 99},
		{Column: "cid", Value: 5678},
	}, conditions)
}

func TestJoinKeyBlacklistSchemaPscKey(t *testing.T) {
	// blacklist has cid but no psc column; the psc term is dropped
	key := CellKeyPsc{Radio: 2, MCC: 310, MNC: 260, LAC: 7, CID: 8, PSC: 3}

	conditions := JoinKey(CellBlacklistSchema, key)

	assert.Equal(t, []Condition{
		{Column: "radio", Value: 2},
		{Column: "mcc", Value: 310},
		{Column: "mnc", Value: 260},
		{Column: "lac", Value: 7},
		{Column: "cid", Value: 8},
	}, conditions)
}

func TestJoinKeyAreaKeyAgainstCellSchema(t *testing.T) {
	// an area key matched against the cell table selects every member
	// cell: no cid term because the key has none
	key := CellAreaKey{Radio: 1, MCC: 204, MNC: 10, LAC: 1234}

	conditions := JoinKey(CellSchema, key)

	assert.Equal(t, []Condition{
		{Column: "radio", Value: 1},
		{Column: "mcc", Value: 204},
		{Column: "mnc", Value: 10},
		{Column: "lac", Value: 1234},
	}, conditions)
}

func TestJoinKeyEntityAsKey(t *testing.T) {
	// entities embed the key field groups and can be matched directly
	cell := Cell{
		CellKeyPscFields: CellKeyPscFields{
			CellKeyFields: CellKeyFields{
				CellAreaKeyFields: CellAreaKeyFields{Radio: 1, MCC: 204, MNC: 10, LAC: 5},
				CID:               6,
			},
			PSC: 7,
		},
	}

	conditions := JoinKey(CellAreaSchema, cell)
	assert.Len(t, conditions, 4)

	conditions = JoinKey(CellSchema, cell)
	assert.Len(t, conditions, 6)
}

func TestCellModelSchemas(t *testing.T) {
	assert.Len(t, CellModelSchemas, 5)
	assert.Equal(t, CellSchema, CellModelSchemas["cell"])
	assert.Equal(t, OCIDCellAreaSchema, CellModelSchemas["ocid_cell_area"])
	assert.False(t, CellAreaSchema.HasCID)
	assert.False(t, CellAreaSchema.HasPSC)
	assert.True(t, CellBlacklistSchema.HasCID)
	assert.False(t, CellBlacklistSchema.HasPSC)
}
