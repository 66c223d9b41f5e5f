// Package extract provides content extractors that parse source files
// into text blocks for indexing. Extractors are tried in registration
// order; the first one whose Supports matches a path handles it.
package extract
