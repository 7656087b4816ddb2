// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Driven ports are called BY the core TO reach the outside world:
// the embedding service, the vector store, the model service, the
// schema file, and the local history store. Implementations live
// under internal/adapters/driven.
package driven
