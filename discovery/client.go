package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	discoveryengine "google.golang.org/api/discoveryengine/v1"
	"google.golang.org/api/option"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
	"github.com/kennychae/vertex-ai-search-agent/config"
)

// Client wraps the Discovery Engine API for search and engine listing. It
// is safe for concurrent use.
type Client struct {
	svc *discoveryengine.Service
	cfg *config.Config
}

// New builds a Discovery Engine client. Non-global locations get the
// matching regional endpoint.
func New(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*Client, error) {
	if ep := regionalEndpoint(cfg.SearchLocation()); ep != "" {
		opts = append(opts, option.WithEndpoint(ep))
	}
	svc, err := discoveryengine.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create discovery engine service failed, err: %w", err)
	}
	return &Client{svc: svc, cfg: cfg}, nil
}

func regionalEndpoint(location string) string {
	if location == "" || location == "global" {
		return ""
	}
	return fmt.Sprintf("https://%s-discoveryengine.googleapis.com/", location)
}

// ServingConfigPath builds the full serving config resource name for an
// engine under the default collection.
func (c *Client) ServingConfigPath(engineID, servingConfigID string) string {
	if servingConfigID == "" {
		servingConfigID = c.cfg.Search.ServingConfigID
	}
	return fmt.Sprintf(
		"projects/%s/locations/%s/collections/default_collection/engines/%s/servingConfigs/%s",
		c.cfg.Project.ID, c.cfg.SearchLocation(), engineID, servingConfigID,
	)
}

func (c *Client) collectionPath() string {
	return fmt.Sprintf(
		"projects/%s/locations/%s/collections/default_collection",
		c.cfg.Project.ID, c.cfg.SearchLocation(),
	)
}

// SearchParams carries one search invocation. Zero-valued optional fields
// fall back to the configured defaults.
type SearchParams struct {
	EngineID string
	Query    string

	Filter          string
	PageSize        int64
	PageToken       string
	ServingConfigID string

	// Summary overrides; nil means use config.
	SummaryResultCount *int64
	IncludeCitations   *bool
	Preamble           *string
}

func normalizeCondition(v, fallback string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "DISABLED" {
		return "DISABLED"
	}
	if v == "AUTO" {
		return "AUTO"
	}
	return fallback
}

func (c *Client) contentSearchSpec(p SearchParams) *discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpec {
	s := c.cfg.Search

	summaryCount := int64(s.SummaryResultCount)
	if p.SummaryResultCount != nil {
		summaryCount = *p.SummaryResultCount
	}
	includeCitations := s.IncludeCitations
	if p.IncludeCitations != nil {
		includeCitations = *p.IncludeCitations
	}
	preamble := s.SummaryPreamble
	if p.Preamble != nil {
		preamble = *p.Preamble
	}

	return &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpec{
		SnippetSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSnippetSpec{
			ReturnSnippet:   true,
			MaxSnippetCount: int64(s.MaxSnippetCount),
		},
		ExtractiveContentSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecExtractiveContentSpec{
			MaxExtractiveAnswerCount:     int64(s.MaxExtractiveAnswerCount),
			MaxExtractiveSegmentCount:    int64(s.MaxExtractiveSegmentCount),
			ReturnExtractiveSegmentScore: true,
		},
		SummarySpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSummarySpec{
			SummaryResultCount:     summaryCount,
			IncludeCitations:       includeCitations,
			IgnoreAdversarialQuery: true,
			UseSemanticChunks:      s.UseSemanticChunks,
			ModelSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSummarySpecModelSpec{
				Version: s.SummaryModelVersion,
			},
			ModelPromptSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSummarySpecModelPromptSpec{
				Preamble: preamble,
			},
		},
	}
}

// Search runs one query against the engine's serving config and parses the
// response into the stable output shape.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchOutput, error) {
	if p.EngineID == "" {
		return nil, fmt.Errorf("search requires an engine id")
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = int64(c.cfg.Search.PageSize)
	}

	servingConfig := c.ServingConfigPath(p.EngineID, p.ServingConfigID)
	req := &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequest{
		Query:             p.Query,
		PageSize:          pageSize,
		PageToken:         p.PageToken,
		Filter:            p.Filter,
		ContentSearchSpec: c.contentSearchSpec(p),
		QueryExpansionSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestQueryExpansionSpec{
			Condition: normalizeCondition(c.cfg.Search.QueryExpansion, "AUTO"),
		},
		SpellCorrectionSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestSpellCorrectionSpec{
			Mode: normalizeCondition(c.cfg.Search.SpellCorrection, "AUTO"),
		},
	}

	logger.Debugf("discovery search engine=%s filter=%q page_size=%d", p.EngineID, p.Filter, pageSize)

	resp, err := c.svc.Projects.Locations.Collections.Engines.ServingConfigs.
		Search(servingConfig, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("discovery engine search failed, err: %w", err)
	}

	out := &SearchOutput{
		EngineID:      p.EngineID,
		ServingConfig: servingConfig,
		Location:      c.cfg.SearchLocation(),
		Query:         p.Query,
		Results:       parseResults(resp.Results),
		TotalSize:     resp.TotalSize,
		NextPageToken: resp.NextPageToken,
	}
	out.Count = len(out.Results)
	out.Citations = buildCitations(out.Results)

	if resp.Summary != nil {
		out.SummaryText = summaryText(resp.Summary)
		if resp.Summary.SummaryWithMetadata != nil && len(resp.Summary.SummaryWithMetadata.References) > 0 {
			out.SummaryCitations = resp.Summary.SummaryWithMetadata.References
		}
	}
	return out, nil
}

func parseResults(results []*discoveryengine.GoogleCloudDiscoveryengineV1SearchResponseSearchResult) []Result {
	parsed := make([]Result, 0, len(results))
	for _, r := range results {
		out := Result{ID: r.Id}
		if r.Document != nil {
			doc := decodeRaw(json.RawMessage(r.Document.DerivedStructData))
			if doc == nil {
				doc = decodeRaw(json.RawMessage(r.Document.StructData))
			}
			if doc == nil {
				doc = map[string]any{}
			}
			if r.Document.Id != "" {
				doc["id"] = r.Document.Id
			}
			if r.Document.Name != "" {
				doc["name"] = r.Document.Name
			}
			out.Document = doc

			title, uri, link := docBestEffort(doc)
			out.Source = Source{Title: title, URI: uri, Link: link}
			out.Snippets = extractSnippets(doc)
			out.ExtractiveAnswers = extractMaps(doc, "extractive_answers", "extractiveAnswers")
			out.ExtractiveSegments = extractMaps(doc, "extractive_segments", "extractiveSegments")
		}
		parsed = append(parsed, out)
	}
	return parsed
}

func summaryText(summary *discoveryengine.GoogleCloudDiscoveryengineV1SearchResponseSummary) string {
	if strings.TrimSpace(summary.SummaryText) != "" {
		return summary.SummaryText
	}
	if summary.SummaryWithMetadata != nil {
		return summary.SummaryWithMetadata.Summary
	}
	return ""
}

// ListEngines lists the Vertex AI Search apps under the default collection.
func (c *Client) ListEngines(ctx context.Context, pageSize int64, pageToken string) (*EngineList, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	parent := c.collectionPath()

	call := c.svc.Projects.Locations.Collections.Engines.List(parent).
		PageSize(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list engines failed, err: %w", err)
	}

	out := &EngineList{
		Location:      c.cfg.SearchLocation(),
		Parent:        parent,
		Engines:       make([]EngineInfo, 0, len(resp.Engines)),
		NextPageToken: resp.NextPageToken,
	}
	for _, e := range resp.Engines {
		parts := strings.Split(e.Name, "/")
		out.Engines = append(out.Engines, EngineInfo{
			ID:               parts[len(parts)-1],
			Name:             e.Name,
			DisplayName:      e.DisplayName,
			IndustryVertical: e.IndustryVertical,
			SolutionType:     e.SolutionType,
		})
	}
	out.Count = len(out.Engines)
	return out, nil
}
