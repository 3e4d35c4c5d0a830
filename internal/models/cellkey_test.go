package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadioType(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"gsm", RadioGSM},
		{"cdma", RadioCDMA},
		{"umts", RadioUMTS},
		{"wcdma", RadioUMTS},
		{"lte", RadioLTE},
		{"bogus", -1},
		{"", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RadioType(tt.name), "radio %q", tt.name)
	}
}

func TestToCellKeyFromMap(t *testing.T) {
	src := MapSource{"radio": 1, "mcc": 204, "mnc": 10, "lac": 1234, "cid": 5678}

	key, err := ToCellKey(src)
	require.NoError(t, err)
	assert.Equal(t, CellKey{Radio: 1, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}, key)
}

func TestToCellKeyIgnoresExtraPsc(t *testing.T) {
	src := MapSource{"radio": 1, "mcc": 204, "mnc": 10, "lac": 1234, "cid": 5678, "psc": 99}

	key, err := ToCellKey(src)
	require.NoError(t, err)
	assert.Equal(t, CellKey{Radio: 1, MCC: 204, MNC: 10, LAC: 1234, CID: 5678}, key)
}

func TestToCellKeyPscFromMap(t *testing.T) {
	src := MapSource{"radio": 1, "mcc": 204, "mnc": 10, "lac": 1234, "cid": 5678, "psc": 99}

	key, err := ToCellKeyPsc(src)
	require.NoError(t, err)
	assert.Equal(t, CellKeyPsc{Radio: 1, MCC: 204, MNC: 10, LAC: 1234, CID: 5678, PSC: 99}, key)
}

func TestToCellKeyMissingField(t *testing.T) {
	src := MapSource{"radio": 1, "mcc": 204, "mnc": 10, "lac": 1234}

	_, err := ToCellKey(src)
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "cid", missing.Field)
	assert.Contains(t, err.Error(), "cid")
}

func TestToCellKeyPscMissingPsc(t *testing.T) {
	src := MapSource{"radio": 1, "mcc": 204, "mnc": 10, "lac": 1234, "cid": 5678}

	_, err := ToCellKeyPsc(src)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "psc", missing.Field)
}

// The two source shapes must be indistinguishable in outcome: the same
// fields produce the same key whether they arrive as a map or as a
// field-bearing struct.
func TestToCellKeyShapeEquivalence(t *testing.T) {
	entity := Cell{
		CellKeyPscFields: CellKeyPscFields{
			CellKeyFields: CellKeyFields{
				CellAreaKeyFields: CellAreaKeyFields{Radio: 2, MCC: 310, MNC: 260, LAC: 44},
				CID:               901,
			},
			PSC: 12,
		},
	}
	mapped := MapSource{"radio": 2, "mcc": 310, "mnc": 260, "lac": 44, "cid": 901, "psc": 12}

	fromEntity, err := ToCellKeyPsc(entity)
	require.NoError(t, err)
	fromMap, err := ToCellKeyPsc(mapped)
	require.NoError(t, err)
	assert.Equal(t, fromMap, fromEntity)
}

// A key re-exposed as a field-bearing source normalizes back to itself.
func TestToCellKeyIdempotence(t *testing.T) {
	orig := CellKey{Radio: 3, MCC: 262, MNC: 1, LAC: 21, CID: 9999}

	again, err := ToCellKey(orig)
	require.NoError(t, err)
	assert.Equal(t, orig, again)

	origPsc := CellKeyPsc{Radio: 3, MCC: 262, MNC: 1, LAC: 21, CID: 9999, PSC: 42}
	againPsc, err := ToCellKeyPsc(origPsc)
	require.NoError(t, err)
	assert.Equal(t, origPsc, againPsc)

	// psc variant downgrades cleanly to the plain key
	plain, err := ToCellKey(origPsc)
	require.NoError(t, err)
	assert.Equal(t, orig, plain)
}

func TestKeysAreMapKeys(t *testing.T) {
	seen := map[CellKey]int{}
	k := CellKey{Radio: 1, MCC: 204, MNC: 10, LAC: 1, CID: 2}
	seen[k]++
	seen[CellKey{Radio: 1, MCC: 204, MNC: 10, LAC: 1, CID: 2}]++
	assert.Equal(t, 2, seen[k])
}
