package document

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noemata/korpus/core"
)

// writeWorkbook builds an xlsx file where each entry maps a sheet name to its
// rows (first row is the header).
func writeWorkbook(t *testing.T, sheets map[string][][]any, order []string) string {
	t.Helper()

	workbook := excelize.NewFile()
	defer workbook.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, workbook.SetSheetName(workbook.GetSheetName(0), name))
		} else {
			_, err := workbook.NewSheet(name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, workbook.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, workbook.SaveAs(path))
	return path
}

func TestExcelParserMetadata(t *testing.T) {
	parser := NewExcelParser()
	assert.Equal(t, "excel", parser.Format())
	assert.Equal(t, []string{".xlsx"}, parser.Extensions())
}

func TestExcelParserParse(t *testing.T) {
	parser := NewExcelParser()

	t.Run("one segment per sheet with header serialization", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]any{
			"People": {
				{"name", "city"},
				{"alice", "berlin"},
				{"bob", "tokyo"},
			},
			"Totals": {
				{"metric", "value"},
				{"count", 2},
			},
		}, []string{"People", "Totals"})

		segments, err := parser.Parse(path)
		require.NoError(t, err)
		require.Len(t, segments, 2)

		assert.Equal(t, "People", segments[0].Section)
		assert.Contains(t, segments[0].Text, "columns: name, city")
		assert.Contains(t, segments[0].Text, "name=alice; city=berlin")
		assert.Contains(t, segments[0].Text, "name=bob; city=tokyo")

		assert.Equal(t, "Totals", segments[1].Section)
		assert.Contains(t, segments[1].Text, "metric=count; value=2")
	})

	t.Run("empty sheet is skipped", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]any{
			"Data":  {{"a"}, {"1"}},
			"Blank": nil,
		}, []string{"Data", "Blank"})

		segments, err := parser.Parse(path)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "Data", segments[0].Section)
	})

	t.Run("header-only sheet is skipped", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]any{
			"Data":       {{"a"}, {"1"}},
			"HeaderOnly": {{"name", "city"}},
		}, []string{"Data", "HeaderOnly"})

		segments, err := parser.Parse(path)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "Data", segments[0].Section)
	})

	t.Run("corrupt file wraps parse error", func(t *testing.T) {
		path := writeTempFile(t, "broken.xlsx", "not a workbook")
		_, err := parser.Parse(path)
		assert.ErrorIs(t, err, core.ErrParse)
	})
}
