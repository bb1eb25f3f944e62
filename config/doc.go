// Package config loads the YAML configuration file that wires the embedding
// service, chunking parameters, retrieval defaults, and knowledge base
// location together. Every field has a default, so a missing file is not
// an error.
package config
