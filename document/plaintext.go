package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/noemata/korpus/core"
)

// PlainTextParser loads a text file as a single unlabelled segment. Size
// normalization is the chunker's job, not the parser's.
type PlainTextParser struct{}

// NewPlainTextParser creates a plain text parser.
func NewPlainTextParser() *PlainTextParser { return &PlainTextParser{} }

// Format returns the metadata identifier for this parser.
func (p *PlainTextParser) Format() string { return "text" }

// Extensions returns the file extensions handled by this parser.
func (p *PlainTextParser) Extensions() []string { return []string{".txt"} }

// Parse reads the whole file as one segment.
func (p *PlainTextParser) Parse(path string) ([]Segment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}
	body := strings.TrimSpace(string(content))
	if body == "" {
		return nil, nil
	}
	return []Segment{{Text: body}}, nil
}
