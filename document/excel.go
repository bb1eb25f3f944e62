package document

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noemata/korpus/core"
)

// ExcelParser yields one segment per non-empty worksheet, labelled with the
// sheet name. The first row is treated as the header and the remaining rows
// are serialized as "col=value" lines, matching the CSV representation so
// tabular content looks the same to retrieval regardless of container.
//
// Only OOXML workbooks (.xlsx) are supported; legacy .xls is a different
// container and is reported as an unsupported format by the loader.
type ExcelParser struct{}

// NewExcelParser creates an Excel parser.
func NewExcelParser() *ExcelParser { return &ExcelParser{} }

// Format returns the metadata identifier for this parser.
func (p *ExcelParser) Format() string { return "excel" }

// Extensions returns the file extensions handled by this parser.
func (p *ExcelParser) Extensions() []string { return []string{".xlsx"} }

// Parse reads every worksheet in workbook order.
func (p *ExcelParser) Parse(path string) ([]Segment, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}
	defer workbook.Close()

	var segments []Segment
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: sheet %q: %w", core.ErrParse, path, sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		header := rows[0]
		lines := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if line := rowLine(header, row); line != "" {
				lines = append(lines, line)
			}
		}
		// A sheet with no data rows carries nothing worth retrieving.
		if len(lines) == 0 {
			continue
		}

		text := headerLine(header) + "\n" + strings.Join(lines, "\n")
		segments = append(segments, Segment{Text: text, Section: sheet})
	}
	return segments, nil
}
