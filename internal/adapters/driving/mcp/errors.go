// Package mcp provides an MCP (Model Context Protocol) server adapter for medagent.
// It lets AI assistants search the condition corpus and ask grounded
// medical questions without going through the HTTP API.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
