// Package domain defines the core business entities for dvsage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Schema: The card/section data model loaded from a schema export
//   - Chunk: One self-contained text block describing a schema section
//   - Document: A chunk prepared for the vector store
//   - QueryResult: A retrieved document with its similarity distance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
