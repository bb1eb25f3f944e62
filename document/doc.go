// Package document turns heterogeneous files (Markdown, plain text, PDF,
// Word, CSV, Excel) into uniform retrievable chunks.
//
// Each format has a Parser that cuts the file along its natural structure
// (headings, pages, sheets, row groups) into Segments. The Loader dispatches
// on file extension, runs every segment through the Chunker to enforce the
// chunk size budget, and stamps deterministic identifiers and provenance
// metadata so the same file always yields the same chunk set.
package document
