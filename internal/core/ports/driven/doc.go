// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: turns text into a fixed-length vector (OpenAI, Ollama)
//   - LLMService: chat completion (OpenAI, Ollama, Anthropic)
//   - ConditionStore: condition persistence and nearest-neighbour search
//     (SQLite, PostgreSQL with pgvector, memory)
//   - ConfigStore: application configuration (TOML file plus environment)
//
// # Optional Interfaces
//
// Discovered with a type assertion on the ConditionStore:
//
//   - SeedingStore: atomic insert-if-empty, closes the ingest-once race
//   - StatsStore: collection statistics for MCP resources and the CLI
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
