package main

import (
	"fmt"
	"io"
	"time"

	"github.com/noemata/korpus/retrieval"
)

// progressReporter prints one line per indexing stage to the writer
// (typically stderr). It implements retrieval.IndexMonitor.
type progressReporter struct {
	writer    io.Writer
	path      string
	startTime time.Time
}

var _ retrieval.IndexMonitor = (*progressReporter)(nil)

func newProgressReporter(writer io.Writer) *progressReporter {
	return &progressReporter{writer: writer}
}

func (p *progressReporter) Start(path string) {
	p.path = path
	p.startTime = time.Now()
	fmt.Fprintf(p.writer, "%s: loading...", path)
}

func (p *progressReporter) Loaded(chunks int) {
	fmt.Fprintf(p.writer, "\r%s: %d chunks, embedding...", p.path, chunks)
}

func (p *progressReporter) Embedded(vectors int) {
	fmt.Fprintf(p.writer, "\r%s: %d vectors, storing...  ", p.path, vectors)
}

func (p *progressReporter) Finish(stored int) {
	elapsed := time.Since(p.startTime)
	fmt.Fprintf(p.writer, "\r%s: %d chunks indexed in %.1fs\n", p.path, stored, elapsed.Seconds())
}
