package document

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/noemata/korpus/core"
)

// WordParser segments DOCX files on heading-styled paragraphs, analogous to
// Markdown: running text since the last heading accumulates into the current
// segment, and the heading's text becomes the segment label.
//
// DOCX is a ZIP archive; the paragraph stream lives in word/document.xml and
// is read with the standard XML decoder, so no Word library is needed.
type WordParser struct{}

// NewWordParser creates a DOCX parser.
func NewWordParser() *WordParser { return &WordParser{} }

// Format returns the metadata identifier for this parser.
func (p *WordParser) Format() string { return "docx" }

// Extensions returns the file extensions handled by this parser.
func (p *WordParser) Extensions() []string { return []string{".docx"} }

// wordDocument mirrors the subset of word/document.xml this parser reads.
type wordDocument struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
	} `xml:"body"`
}

type wordParagraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []string `xml:"t"`
}

func (para *wordParagraph) text() string {
	var sb strings.Builder
	for _, run := range para.Runs {
		for _, t := range run.Text {
			sb.WriteString(t)
		}
	}
	return strings.TrimSpace(sb.String())
}

func (para *wordParagraph) isHeading() bool {
	return strings.HasPrefix(strings.ToLower(para.Props.Style.Val), "heading")
}

// Parse extracts heading-delimited segments from the document body.
func (p *WordParser) Parse(path string) ([]Segment, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}
	defer archive.Close()

	doc, err := readWordDocument(&archive.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrParse, path, err)
	}

	var (
		segments []Segment
		body     []string
		heading  string
	)
	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			segments = append(segments, Segment{Text: text, Section: heading})
		}
		body = body[:0]
	}

	for i := range doc.Body.Paragraphs {
		para := &doc.Body.Paragraphs[i]
		if para.isHeading() {
			flush()
			if label := para.text(); label != "" {
				heading = label
			}
			continue
		}
		if text := para.text(); text != "" {
			body = append(body, text)
		}
	}
	flush()
	return segments, nil
}

func readWordDocument(reader *zip.Reader) (*wordDocument, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		var doc wordDocument
		if err := xml.Unmarshal(content, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	return nil, fmt.Errorf("word/document.xml not found")
}
