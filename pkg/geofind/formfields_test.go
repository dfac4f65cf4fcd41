package geofind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halldor/geofind/pkg/textract"
)

func TestFormFieldsIn(t *testing.T) {
	ix := intakeIndex(t)

	// The repeated "First Name:" key is disambiguated by the section band it
	// falls into.
	patient := mustArea(t, 0, 100, 1000, 400, 1)
	fields := ix.FormFieldsIn(patient)
	require.Len(t, fields, 1)
	assert.Equal(t, "First Name:", fields[0].Key.OriginalText)
	assert.Equal(t, "ALEJANDRO", fields[0].Value.OriginalText)

	emergency := mustArea(t, 0, 400, 1000, 650, 1)
	fields = ix.FormFieldsIn(emergency)
	require.Len(t, fields, 1)
	assert.Equal(t, "First Name:", fields[0].Key.OriginalText)
	assert.Equal(t, "MIGUEL", fields[0].Value.OriginalText)

	assert.Empty(t, ix.FormFieldsIn(mustArea(t, 0, 0, 1000, 90, 1)))
}

func TestFormFieldsInBandFromPhraseAnchors(t *testing.T) {
	ix := intakeIndex(t)

	// Derive the section band the way extraction templates do: from the
	// bottom of one header to the top of the next.
	top, err := ix.CoordinateValues(1, []PhraseCoordinate{
		{Phrase: "Patient Information", Coordinate: CoordinateYMax},
	})
	require.NoError(t, err)
	bottom, err := ix.CoordinateValues(1, []PhraseCoordinate{
		{Phrase: "Emergency Contact 1:", Coordinate: CoordinateYMin},
	})
	require.NoError(t, err)

	band := mustArea(t, 0, float64(top[0]), float64(ix.Width()), float64(bottom[0]), 1)
	fields := ix.FormFieldsIn(band)
	require.Len(t, fields, 1)
	assert.Equal(t, "ALEJANDRO", fields[0].Value.OriginalText)
}

func TestSelectionValuesIn(t *testing.T) {
	ix := intakeIndex(t)

	row := mustArea(t, 0, 650, 1000, 780, 1)
	selections := ix.SelectionValuesIn(row)
	require.Len(t, selections, 1)
	assert.Equal(t, "Do you have a cough?", selections[0].Key.OriginalText)
	assert.Equal(t, textract.SelectionNotSelected, selections[0].Selection.OriginalText)

	// Text-valued fields are not selections.
	assert.Empty(t, ix.SelectionValuesIn(mustArea(t, 0, 100, 1000, 400, 1)))
}

func TestAddVirtualKey(t *testing.T) {
	ix := intakeIndex(t)

	existing, err := ix.BlockByID("key-1")
	require.NoError(t, err)

	blocksBefore := len(ix.Document().Blocks)
	added, err := ix.AddVirtualKey("PATIENT_First Name:", existing, 1)
	require.NoError(t, err)

	assert.NotEmpty(t, added.ID)
	assert.NotEqual(t, existing.ID, added.ID)
	assert.Equal(t, "PATIENT_First Name:", added.Text)
	assert.True(t, added.IsKey())
	assert.True(t, added.HasEntityType(textract.EntityTypeVirtual))
	assert.Equal(t, existing.Geometry, added.Geometry)
	assert.Equal(t, existing.ValueIDs(), added.ValueIDs())

	// Appending only: the original key and block count change minimally.
	assert.Len(t, ix.Document().Blocks, blocksBefore+1)
	assert.Equal(t, "", existing.Text)
	assert.False(t, existing.HasEntityType(textract.EntityTypeVirtual))

	// The new pairing appears after a refresh, alongside the original.
	require.NoError(t, ix.Refresh())
	kvs := ix.KeyValues(1)
	require.Len(t, kvs, 4)

	var virtual *KeyValue
	for i := range kvs {
		if kvs[i].Key.OriginalText == "PATIENT_First Name:" {
			virtual = &kvs[i]
		}
	}
	require.NotNil(t, virtual)
	assert.Equal(t, "ALEJANDRO", virtual.Value.OriginalText)

	// The original pairing is untouched.
	assert.Equal(t, "First Name:", kvs[0].Key.OriginalText)
	assert.Equal(t, "ALEJANDRO", kvs[0].Value.OriginalText)
}

func TestAddVirtualKeyAccumulates(t *testing.T) {
	ix := intakeIndex(t)
	existing, err := ix.BlockByID("key-1")
	require.NoError(t, err)

	first, err := ix.AddVirtualKey("PATIENT_First Name:", existing, 1)
	require.NoError(t, err)
	second, err := ix.AddVirtualKey("PATIENT_First Name:", existing, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	require.NoError(t, ix.Refresh())
	count := 0
	for _, kv := range ix.KeyValues(1) {
		if kv.Key.OriginalText == "PATIENT_First Name:" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestAddVirtualKeyValidation(t *testing.T) {
	ix := intakeIndex(t)
	existing, err := ix.BlockByID("key-1")
	require.NoError(t, err)

	_, err = ix.AddVirtualKey("", existing, 1)
	assert.ErrorContains(t, err, "name is required")

	_, err = ix.AddVirtualKey("X", nil, 1)
	assert.ErrorContains(t, err, "must be the KEY half")

	line, err := ix.BlockByID("line-1")
	require.NoError(t, err)
	_, err = ix.AddVirtualKey("X", line, 1)
	assert.ErrorContains(t, err, "must be the KEY half")

	_, err = ix.AddVirtualKey("X", existing, 9)
	assert.ErrorContains(t, err, "out of range")
}
