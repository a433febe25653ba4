package importer

import (
	"testing"

	"visadesk-data/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into a single-sheet xlsx and returns its bytes.
// A nil cell is left unset.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{" last name ", "First Name", "case type", "expiration date", "Hobby"},
		{"Doe", "Jane", "H-1B Initial", "2025-06-30", "chess"},
		{nil, nil, nil, nil, nil}, // fully empty, discarded
		{"Doe", "Jane", "H-1B Extension", "2027-06-30", nil},
	})

	parsed, err := ReadWorkbook(data)
	require.NoError(t, err)

	assert.Equal(t, []string{
		schema.HeaderLastName,
		schema.HeaderFirstName,
		schema.HeaderCaseType,
		schema.HeaderExpiration,
		"Hobby", // unrecognized header passes through
	}, parsed.Headers)

	assert.Equal(t, 3, parsed.RowsRead)
	assert.Equal(t, 1, parsed.RowsDiscarded)
	require.Len(t, parsed.Rows, 2)

	first := parsed.Rows[0]
	assert.Equal(t, "Doe", first.GetString(schema.HeaderLastName))
	assert.Equal(t, "H-1B Initial", first.GetString(schema.HeaderCaseType))
	assert.Equal(t, "chess", first.GetString("Hobby"))

	// missing trailing cell resolves to null, not empty string
	v, ok := parsed.Rows[1].Get("Hobby")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestReadWorkbookHeaderValidation(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Last name", "First name"},
		{"Doe", "Jane"},
	})
	parsed, err := ReadWorkbook(data)
	require.NoError(t, err)
	assert.False(t, parsed.Validation.OK)
	assert.Contains(t, parsed.Validation.Missing, schema.HeaderCaseType)
	// validation failure is a warning only, rows still parse
	require.Len(t, parsed.Rows, 1)
}

func TestReadWorkbookMalformed(t *testing.T) {
	_, err := ReadWorkbook([]byte("not a workbook"))
	require.Error(t, err)
}

func TestReadWorkbookPreservesColumnOrder(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Gender", "Last name", "Department"},
		{"F", "Doe", "Physics"},
	})
	parsed, err := ReadWorkbook(data)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, []string{"Gender", schema.HeaderLastName, schema.HeaderDepartment},
		parsed.Rows[0].Keys())
}
