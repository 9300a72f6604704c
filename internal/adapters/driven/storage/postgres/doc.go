// Package postgres provides a PostgreSQL condition store using the pgvector
// extension.
//
// Vectors live in a vector(N) column with an HNSW index on cosine distance.
// Searches set hnsw.ef_search to the configured candidate pool inside a
// transaction so the index considers at least that many candidates before
// the top K are returned. Scores are reported as 1 - cosine distance.
//
// The schema is created on startup. N is fixed by the embedding model in use;
// switching to a model with different dimensions requires a fresh table.
package postgres
