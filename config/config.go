package config

// Config is the root configuration for the search agent.
type Config struct {
	Project ProjectConfig `json:"project" yaml:"project"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Corpus  CorpusConfig  `json:"corpus" yaml:"corpus"`
	Session SessionConfig `json:"session" yaml:"session"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	// HTTP holds tuning for outbound REST calls. If nil, client defaults apply.
	HTTP *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
	Log  LogConfig         `json:"log" yaml:"log"`
}

// ProjectConfig identifies the Google Cloud project and locations.
type ProjectConfig struct {
	ID string `json:"id" yaml:"id"`
	// Location is the default region for Vertex AI and GCS resources.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	// AppLocation is the Discovery Engine (Vertex AI Search) location.
	// "global" uses the default endpoint; regional values switch to
	// {location}-discoveryengine.googleapis.com.
	AppLocation string `json:"app_location,omitempty" yaml:"app_location,omitempty"`
}

// SearchConfig carries Vertex AI Search request defaults.
type SearchConfig struct {
	ServingConfigID string `json:"serving_config_id,omitempty" yaml:"serving_config_id,omitempty"`
	PageSize        int    `json:"page_size,omitempty" yaml:"page_size,omitempty"`

	SummaryResultCount  int    `json:"summary_result_count,omitempty" yaml:"summary_result_count,omitempty"`
	IncludeCitations    bool   `json:"include_citations" yaml:"include_citations"`
	UseSemanticChunks   bool   `json:"use_semantic_chunks" yaml:"use_semantic_chunks"`
	SummaryModelVersion string `json:"summary_model_version,omitempty" yaml:"summary_model_version,omitempty"`
	SummaryPreamble     string `json:"summary_preamble,omitempty" yaml:"summary_preamble,omitempty"`

	MaxSnippetCount           int `json:"max_snippet_count,omitempty" yaml:"max_snippet_count,omitempty"`
	MaxExtractiveAnswerCount  int `json:"max_extractive_answer_count,omitempty" yaml:"max_extractive_answer_count,omitempty"`
	MaxExtractiveSegmentCount int `json:"max_extractive_segment_count,omitempty" yaml:"max_extractive_segment_count,omitempty"`

	QueryExpansion  string `json:"query_expansion,omitempty" yaml:"query_expansion,omitempty"`   // AUTO / DISABLED
	SpellCorrection string `json:"spell_correction,omitempty" yaml:"spell_correction,omitempty"` // AUTO / DISABLED

	// EvidenceTokenBudget caps extractive segment text per result (0 = unlimited).
	EvidenceTokenBudget int `json:"evidence_token_budget,omitempty" yaml:"evidence_token_budget,omitempty"`
}

// StorageConfig carries GCS operation defaults.
type StorageConfig struct {
	DefaultStorageClass   string `json:"default_storage_class,omitempty" yaml:"default_storage_class,omitempty"`
	DefaultLocation       string `json:"default_location,omitempty" yaml:"default_location,omitempty"`
	ListBucketsMaxResults int    `json:"list_buckets_max_results,omitempty" yaml:"list_buckets_max_results,omitempty"`
	ListBlobsMaxResults   int    `json:"list_blobs_max_results,omitempty" yaml:"list_blobs_max_results,omitempty"`
	DefaultContentType    string `json:"default_content_type,omitempty" yaml:"default_content_type,omitempty"`
}

// CorpusConfig carries Vertex AI RAG corpus defaults.
type CorpusConfig struct {
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`
	// TopK is the result count for single-corpus queries.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// SearchTopK is the per-corpus result count for search-all.
	SearchTopK              int     `json:"search_top_k,omitempty" yaml:"search_top_k,omitempty"`
	VectorDistanceThreshold float64 `json:"vector_distance_threshold,omitempty" yaml:"vector_distance_threshold,omitempty"`
	PageSize                int     `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	// Endpoint overrides the aiplatform API base URL (tests, private endpoints).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// SessionConfig selects the conversational memory store.
type SessionConfig struct {
	Store      string      `json:"store,omitempty" yaml:"store,omitempty"` // memory (default) / redis
	TTLSeconds int         `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
	MaxRounds  int         `json:"max_rounds,omitempty" yaml:"max_rounds,omitempty"`
	Redis      RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

// RedisConfig holds redis connection settings for the session store.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
}

// CacheConfig controls the L1 search-response cache.
type CacheConfig struct {
	Enable     bool `json:"enable" yaml:"enable"`
	MaxEntries int  `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int  `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig tunes the shared outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"` // debug / info / warn / error
}

// DefaultSummaryPreamble instructs the backend summarizer; answers are
// written in Korean for the primary user base.
const DefaultSummaryPreamble = "너는 검색 결과에 대한 정보를 사용자에게 잘 전달하기 위해 요약하는 비서다.\n" +
	"- 한국어로 작성한다.\n" +
	"- 요약본에 중요한 내용은 무조건 포함할 것\n" +
	"- 불필요한 기호를 남발하지 않는다.\n"

// Default returns a configuration populated with production defaults.
// Project ID must still be supplied via file, flag or environment.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Location:    "us-central1",
			AppLocation: "global",
		},
		Search: SearchConfig{
			ServingConfigID:           "default_config",
			PageSize:                  10,
			SummaryResultCount:        3,
			IncludeCitations:          true,
			UseSemanticChunks:         true,
			SummaryModelVersion:       "stable",
			SummaryPreamble:           DefaultSummaryPreamble,
			MaxSnippetCount:           5,
			MaxExtractiveAnswerCount:  3,
			MaxExtractiveSegmentCount: 3,
			QueryExpansion:            "AUTO",
			SpellCorrection:           "AUTO",
		},
		Storage: StorageConfig{
			DefaultStorageClass:   "STANDARD",
			DefaultLocation:       "US",
			ListBucketsMaxResults: 50,
			ListBlobsMaxResults:   100,
			DefaultContentType:    "application/pdf",
		},
		Corpus: CorpusConfig{
			EmbeddingModel:          "text-multilingual-embedding-002",
			TopK:                    10,
			SearchTopK:              5,
			VectorDistanceThreshold: 0.5,
			PageSize:                50,
		},
		Session: SessionConfig{
			Store:      "memory",
			TTLSeconds: 86400,
			MaxRounds:  10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SearchLocation returns the Discovery Engine location, defaulting to global.
func (c *Config) SearchLocation() string {
	if c.Project.AppLocation == "" {
		return "global"
	}
	return c.Project.AppLocation
}
