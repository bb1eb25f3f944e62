// Copyright 2026 Noemata Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package document

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/noemata/korpus/core"
)

// Loader turns a file path into a uniform chunk sequence: extension dispatch
// to a format parser, chunk-size normalization, deterministic identifiers,
// provenance metadata. Loading the same unmodified file twice yields an
// identical chunk set, which the store relies on for safe re-indexing.
type Loader struct {
	chunker *Chunker
	parsers map[string]Parser
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithParser registers an additional parser, replacing any default parser
// claiming the same extensions.
func WithParser(parser Parser) LoaderOption {
	return func(l *Loader) error {
		return l.register(parser)
	}
}

// NewLoader creates a loader with the full default parser set
// (Markdown, plain text, PDF, Word, CSV, Excel).
func NewLoader(chunker *Chunker, opts ...LoaderOption) (*Loader, error) {
	if chunker == nil {
		return nil, ErrChunkerRequired
	}

	l := &Loader{
		chunker: chunker,
		parsers: make(map[string]Parser),
		logger:  slog.Default(),
	}

	defaults := []Parser{
		NewMarkdownParser(),
		NewPlainTextParser(),
		NewPDFParser(),
		NewWordParser(),
		NewCSVParser(),
		NewExcelParser(),
	}
	for _, parser := range defaults {
		if err := l.register(parser); err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Loader) register(parser Parser) error {
	exts := parser.Extensions()
	if len(exts) == 0 {
		return fmt.Errorf("%w: %s", ErrNoExtensions, parser.Format())
	}
	for _, ext := range exts {
		l.parsers[strings.ToLower(ext)] = parser
	}
	return nil
}

// Chunker returns the chunker this loader normalizes segments with.
func (l *Loader) Chunker() *Chunker { return l.chunker }

// SupportedExtensions returns the recognized file extensions, sorted.
func (l *Loader) SupportedExtensions() []string {
	exts := make([]string, 0, len(l.parsers))
	for ext := range l.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load parses the file at path and returns its chunks in document order.
// Returns core.ErrUnsupportedFormat for unrecognized extensions and
// core.ErrParse for unreadable or corrupt files.
func (l *Loader) Load(path string) ([]core.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parser, ok := l.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			core.ErrUnsupportedFormat, ext, strings.Join(l.SupportedExtensions(), ", "))
	}

	segments, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}

	docID := core.IDFromContent(path)
	var chunks []core.Chunk
	for _, segment := range segments {
		for _, text := range l.chunker.Split(segment.Text) {
			chunks = append(chunks, core.Chunk{
				DocumentID: docID,
				Index:      len(chunks),
				Text:       text,
				Metadata: core.Metadata{
					Source:  path,
					Format:  parser.Format(),
					Section: segment.Section,
				},
			})
		}
	}

	l.logger.Debug("loaded document", "path", path, "format", parser.Format(),
		"segments", len(segments), "chunks", len(chunks))
	return chunks, nil
}
