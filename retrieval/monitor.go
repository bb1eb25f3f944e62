package retrieval

// IndexMonitor receives callbacks at each stage of indexing a document.
// Implementations drive progress display; the engine never depends on them
// for correctness. All callbacks run on the indexing goroutine.
type IndexMonitor interface {
	// Start is called before the document is loaded.
	Start(path string)

	// Loaded is called once the document has been split into chunks.
	Loaded(chunks int)

	// Embedded is called once all chunk vectors have been generated.
	Embedded(vectors int)

	// Finish is called after the store has been updated.
	Finish(stored int)
}

// noopMonitor is used when the caller provides no monitor.
type noopMonitor struct{}

var _ IndexMonitor = (*noopMonitor)(nil)

func (*noopMonitor) Start(string) {}
func (*noopMonitor) Loaded(int)   {}
func (*noopMonitor) Embedded(int) {}
func (*noopMonitor) Finish(int)   {}
