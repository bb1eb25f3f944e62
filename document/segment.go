package document

// Segment is a parser's natural unit of text before chunk-size normalization:
// a Markdown section, a PDF page, a worksheet, a group of CSV rows.
type Segment struct {
	Text    string
	Section string // Heading text, page number, sheet name, or row range; may be empty
}

// Parser extracts ordered segments from one document format. Implementations
// must never mutate the source file. Parse reports core.ErrParse (wrapped,
// with the offending path) when the file is unreadable or corrupt.
type Parser interface {
	// Format returns the identifier recorded in chunk metadata.
	Format() string

	// Extensions lists the lowercase file extensions (with leading dot) this
	// parser handles.
	Extensions() []string

	// Parse reads the file and returns its segments in document order.
	Parse(path string) ([]Segment, error)
}
