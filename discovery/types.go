package discovery

// Source identifies where a result document came from. Link is only set
// when the URI is directly clickable.
type Source struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
	Link  string `json:"link,omitempty"`
}

// Result is one parsed search hit. Document keeps the raw document payload
// for callers that need fields the best-effort extraction misses.
type Result struct {
	ID                 string           `json:"id,omitempty"`
	Document           map[string]any   `json:"document,omitempty"`
	Source             Source           `json:"source"`
	Snippets           []string         `json:"snippets"`
	ExtractiveAnswers  []map[string]any `json:"extractive_answers"`
	ExtractiveSegments []map[string]any `json:"extractive_segments"`
}

// Citation is one entry of the human-readable sources list built from the
// result set.
type Citation struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
	Link  string `json:"link,omitempty"`
}

// SearchOutput is the full outcome of one backend search.
type SearchOutput struct {
	EngineID      string `json:"engine_id"`
	ServingConfig string `json:"serving_config"`
	Location      string `json:"location"`
	Query         string `json:"query"`

	SummaryText      string     `json:"summary_text,omitempty"`
	SummaryCitations any        `json:"summary_citations,omitempty"`
	Citations        []Citation `json:"citations"`

	Results       []Result `json:"results"`
	Count         int      `json:"count"`
	TotalSize     int64    `json:"total_size,omitempty"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

// EngineInfo describes one Vertex AI Search app.
type EngineInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DisplayName      string `json:"display_name,omitempty"`
	IndustryVertical string `json:"industry_vertical,omitempty"`
	SolutionType     string `json:"solution_type,omitempty"`
}

// EngineList is the outcome of listing search apps.
type EngineList struct {
	Location      string       `json:"location"`
	Parent        string       `json:"parent"`
	Engines       []EngineInfo `json:"engines"`
	Count         int          `json:"count"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}
