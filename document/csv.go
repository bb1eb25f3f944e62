package document

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/noemata/korpus/core"
)

// csvRowsPerSegment is the number of data rows grouped into one segment.
const csvRowsPerSegment = 20

// CSVParser groups data rows into fixed-size segments. The header row is
// replicated into every segment so each chunk stays interpretable on its
// own; segment labels are 1-based row ranges like "rows 21-40".
type CSVParser struct{}

// NewCSVParser creates a CSV parser.
func NewCSVParser() *CSVParser { return &CSVParser{} }

// Format returns the metadata identifier for this parser.
func (p *CSVParser) Format() string { return "csv" }

// Extensions returns the file extensions handled by this parser.
func (p *CSVParser) Extensions() []string { return []string{".csv"} }

// Parse reads the file and emits one segment per group of rows.
func (p *CSVParser) Parse(path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are common in the wild

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}

	var segments []Segment
	var lines []string
	rowNum := 0
	flush := func() {
		if len(lines) == 0 {
			return
		}
		segments = append(segments, Segment{
			Text:    headerLine(header) + "\n" + strings.Join(lines, "\n"),
			Section: fmt.Sprintf("rows %d-%d", rowNum-len(lines)+1, rowNum),
		})
		lines = lines[:0]
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
		}
		rowNum++
		lines = append(lines, rowLine(header, row))
		if len(lines) == csvRowsPerSegment {
			flush()
		}
	}
	flush()
	return segments, nil
}

func headerLine(header []string) string {
	return "columns: " + strings.Join(header, ", ")
}

// rowLine serializes a row as "col=value; col=value", skipping empty cells.
func rowLine(header, row []string) string {
	pairs := make([]string, 0, len(row))
	for i, value := range row {
		if strings.TrimSpace(value) == "" {
			continue
		}
		name := fmt.Sprintf("col%d", i+1)
		if i < len(header) {
			name = header[i]
		}
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, "; ")
}
