package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for medagent resources.
	uriScheme = "medagent://"

	statsURI         = uriScheme + "corpus/stats"
	conditionsPrefix = uriScheme + "conditions/"
)

// corpusStatsOutput is the JSON body of the stats resource.
type corpusStatsOutput struct {
	Count      int    `json:"count"`
	Dimensions int    `json:"dimensions"`
	Store      string `json:"store"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "corpus-stats",
		Description: "Number of stored conditions, vector size and store backend",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: conditionsPrefix + "{query}",
		Name:        "conditions-for-query",
		Description: "Conditions closest to a URL-escaped symptom query",
		MIMEType:    "application/json",
	}, s.handleConditionsResource)
}

// handleStatsResource returns corpus statistics. Without a corpus
// service the resource reports an empty collection.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var out corpusStatsOutput
	if s.ports.Corpus != nil {
		stats, err := s.ports.Corpus.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading corpus stats: %w", err)
		}
		out = corpusStatsOutput{
			Count:      stats.Count,
			Dimensions: stats.Dimensions,
			Store:      stats.Store,
		}
	}
	return jsonResource(req.Params.URI, out)
}

// handleConditionsResource runs a default-limit search for the query
// embedded in the URI.
func (s *Server) handleConditionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	raw, ok := strings.CutPrefix(uri, conditionsPrefix)
	if !ok || raw == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	query, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed query in %s", domain.ErrInvalidInput, uri)
	}

	matches, err := s.ports.Search.Search(ctx, query, domain.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, toConditionOutputs(matches))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
