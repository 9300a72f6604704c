// Package domain defines the core business entities for medagent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Condition: a stored disease with its symptom text and embedding
//   - ConditionMatch: a nearest-neighbour hit returned by a store
//   - ChatReply: an answer grounded on retrieved conditions
//   - Settings: process-wide configuration built at startup
//
// It also owns request validation. Inputs arriving from any driving
// adapter are checked here before a service sees them.
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
