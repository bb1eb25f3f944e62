package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/noemata/korpus/core"
)

// MarkdownParser segments Markdown (and Markdown-flavoured text) on heading
// boundaries. Each heading opens a new segment labelled with the heading's
// plain text; the heading line itself belongs to its segment. Content before
// the first heading, or a document with no headings at all, becomes a single
// unlabelled segment.
type MarkdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser creates a Markdown parser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Format returns the metadata identifier for this parser.
func (p *MarkdownParser) Format() string { return "markdown" }

// Extensions returns the file extensions handled by this parser.
func (p *MarkdownParser) Extensions() []string { return []string{".md", ".markdown"} }

// Parse reads the file and splits it on heading boundaries.
func (p *MarkdownParser) Parse(path string) ([]Segment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}
	return p.segment(content), nil
}

type headingMark struct {
	offset int // byte offset of the start of the heading's line
	label  string
}

func (p *MarkdownParser) segment(content []byte) []Segment {
	doc := p.md.Parser().Parse(text.NewReader(content))

	var marks []headingMark
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := heading.Lines()
		if lines.Len() == 0 {
			// Heading with no text ("## " alone) carries no source span.
			return ast.WalkContinue, nil
		}
		offset := lines.At(0).Start
		for offset > 0 && content[offset-1] != '\n' {
			offset--
		}
		marks = append(marks, headingMark{
			offset: offset,
			label:  nodeText(heading, content),
		})
		return ast.WalkContinue, nil
	})

	if len(marks) == 0 {
		body := strings.TrimSpace(string(content))
		if body == "" {
			return nil
		}
		return []Segment{{Text: body}}
	}

	var segments []Segment
	if preamble := strings.TrimSpace(string(content[:marks[0].offset])); preamble != "" {
		segments = append(segments, Segment{Text: preamble})
	}
	for i, mark := range marks {
		end := len(content)
		if i+1 < len(marks) {
			end = marks[i+1].offset
		}
		body := strings.TrimSpace(string(content[mark.offset:end]))
		if body == "" {
			continue
		}
		segments = append(segments, Segment{Text: body, Section: mark.label})
	}
	return segments
}

// nodeText extracts the plain text of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := child.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(content))
		case *ast.String:
			sb.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
