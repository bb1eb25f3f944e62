package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/noemata/korpus/core"
)

// PDFParser yields one segment per page, labelled with the 1-based page
// number. Pages with no extractable text are skipped.
type PDFParser struct{}

// NewPDFParser creates a PDF parser.
func NewPDFParser() *PDFParser { return &PDFParser{} }

// Format returns the metadata identifier for this parser.
func (p *PDFParser) Format() string { return "pdf" }

// Extensions returns the file extensions handled by this parser.
func (p *PDFParser) Extensions() []string { return []string{".pdf"} }

// Parse extracts the text of every page in order.
func (p *PDFParser) Parse(path string) (segments []Segment, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// convert that into a parse error instead of taking the process down.
	defer func() {
		if r := recover(); r != nil {
			segments = nil
			err = fmt.Errorf("%w: %s: %v", core.ErrParse, path, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}
	defer file.Close()

	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: page %d: %w", core.ErrParse, path, num, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:    text,
			Section: strconv.Itoa(num),
		})
	}
	return segments, nil
}
