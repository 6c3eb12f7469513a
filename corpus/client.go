// Package corpus manages Vertex AI RAG corpora over the aiplatform REST
// surface: corpus lifecycle, GCS imports, file listing and retrieval
// queries.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kennychae/vertex-ai-search-agent/common/httpx"
	"github.com/kennychae/vertex-ai-search-agent/common/logger"
	"github.com/kennychae/vertex-ai-search-agent/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Client calls the aiplatform RAG corpus API.
type Client struct {
	http   *httpx.Client
	cfg    *config.Config
	tokens oauth2.TokenSource
	base   string
}

// New builds a client using application default credentials.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	ts, err := google.DefaultTokenSource(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("load default credentials failed, err: %w", err)
	}
	return NewWithTokenSource(cfg, ts), nil
}

// NewWithTokenSource builds a client with an explicit token source.
func NewWithTokenSource(cfg *config.Config, ts oauth2.TokenSource) *Client {
	base := cfg.Corpus.Endpoint
	if base == "" {
		base = fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1", cfg.Project.Location)
	}
	return &Client{
		http:   httpx.NewFromConfig(cfg.HTTP),
		cfg:    cfg,
		tokens: ts,
		base:   strings.TrimRight(base, "/"),
	}
}

func (c *Client) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.cfg.Project.ID, c.cfg.Project.Location)
}

// corpusName accepts either a bare corpus id or a full resource name.
func (c *Client) corpusName(id string) string {
	if strings.Contains(id, "/") {
		return id
	}
	return c.parent() + "/ragCorpora/" + id
}

func (c *Client) embeddingModelPath() string {
	return fmt.Sprintf("%s/publishers/google/models/%s", c.parent(), c.cfg.Corpus.EmbeddingModel)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body failed, err: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+path, payload)
	if err != nil {
		return fmt.Errorf("build request failed, err: %w", err)
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("fetch access token failed, err: %w", err)
	}
	tok.SetAuthHeader(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed, err: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("aiplatform %s %s returned %d: %s", method, path, resp.StatusCode, truncate(string(data), 300))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response failed, err: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Corpus is one RAG corpus.
type Corpus struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
}

// ID returns the trailing resource id of the corpus name.
func (c Corpus) ID() string {
	parts := strings.Split(c.Name, "/")
	return parts[len(parts)-1]
}

// File is one imported document within a corpus.
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	SizeBytes   string `json:"sizeBytes,omitempty"`
}

// ID returns the trailing resource id of the file name.
func (f File) ID() string {
	parts := strings.Split(f.Name, "/")
	return parts[len(parts)-1]
}

// RetrievedContext is one passage returned by a retrieval query.
type RetrievedContext struct {
	SourceURI         string  `json:"sourceUri,omitempty"`
	SourceDisplayName string  `json:"sourceDisplayName,omitempty"`
	Text              string  `json:"text,omitempty"`
	Score             float64 `json:"score,omitempty"`
}

type createCorpusRequest struct {
	DisplayName    string          `json:"displayName"`
	Description    string          `json:"description,omitempty"`
	VectorDBConfig *vectorDBConfig `json:"vectorDbConfig,omitempty"`
}

type vectorDBConfig struct {
	RagEmbeddingModelConfig struct {
		VertexPredictionEndpoint struct {
			Endpoint string `json:"endpoint"`
		} `json:"vertexPredictionEndpoint"`
	} `json:"ragEmbeddingModelConfig"`
}

// CreateCorpus creates a corpus configured with the default embedding
// model.
func (c *Client) CreateCorpus(ctx context.Context, displayName, description string) (*Corpus, error) {
	if displayName == "" {
		return nil, fmt.Errorf("corpus display name is required")
	}
	req := createCorpusRequest{
		DisplayName:    displayName,
		Description:    description,
		VectorDBConfig: &vectorDBConfig{},
	}
	req.VectorDBConfig.RagEmbeddingModelConfig.VertexPredictionEndpoint.Endpoint = c.embeddingModelPath()

	var out Corpus
	if err := c.doJSON(ctx, http.MethodPost, c.parent()+"/ragCorpora", req, &out); err != nil {
		return nil, fmt.Errorf("create corpus failed, err: %w", err)
	}
	logger.Infof("created corpus %s (%s)", out.Name, displayName)
	return &out, nil
}

// UpdateCorpus patches display name and description.
func (c *Client) UpdateCorpus(ctx context.Context, corpusID, displayName, description string) (*Corpus, error) {
	body := map[string]string{}
	var mask []string
	if displayName != "" {
		body["displayName"] = displayName
		mask = append(mask, "display_name")
	}
	if description != "" {
		body["description"] = description
		mask = append(mask, "description")
	}
	if len(mask) == 0 {
		return nil, fmt.Errorf("update corpus requires a display name or description")
	}

	path := c.corpusName(corpusID) + "?updateMask=" + url.QueryEscape(strings.Join(mask, ","))
	var out Corpus
	if err := c.doJSON(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, fmt.Errorf("update corpus %q failed, err: %w", corpusID, err)
	}
	return &out, nil
}

// ListCorpora lists the project's corpora.
func (c *Client) ListCorpora(ctx context.Context) ([]Corpus, error) {
	var out struct {
		RagCorpora []Corpus `json:"ragCorpora"`
	}
	path := fmt.Sprintf("%s/ragCorpora?pageSize=%d", c.parent(), c.cfg.Corpus.PageSize)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list corpora failed, err: %w", err)
	}
	return out.RagCorpora, nil
}

// GetCorpus fetches one corpus.
func (c *Client) GetCorpus(ctx context.Context, corpusID string) (*Corpus, error) {
	var out Corpus
	if err := c.doJSON(ctx, http.MethodGet, c.corpusName(corpusID), nil, &out); err != nil {
		return nil, fmt.Errorf("get corpus %q failed, err: %w", corpusID, err)
	}
	return &out, nil
}

// DeleteCorpus removes a corpus and everything imported into it.
func (c *Client) DeleteCorpus(ctx context.Context, corpusID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.corpusName(corpusID), nil, nil); err != nil {
		return fmt.Errorf("delete corpus %q failed, err: %w", corpusID, err)
	}
	logger.Infof("deleted corpus %s", corpusID)
	return nil
}

// ImportFromGCS starts an import of the given gs:// URIs into the corpus.
// The operation is asynchronous on the backend; the returned name
// identifies the long-running operation.
func (c *Client) ImportFromGCS(ctx context.Context, corpusID string, gcsURIs []string) (string, error) {
	if len(gcsURIs) == 0 {
		return "", fmt.Errorf("import requires at least one gs:// uri")
	}
	for _, uri := range gcsURIs {
		if !strings.HasPrefix(uri, "gs://") {
			return "", fmt.Errorf("invalid gcs uri %q", uri)
		}
	}

	body := map[string]any{
		"importRagFilesConfig": map[string]any{
			"gcsSource": map[string]any{"uris": gcsURIs},
		},
	}
	var out struct {
		Name string `json:"name"`
	}
	path := c.corpusName(corpusID) + "/ragFiles:import"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", fmt.Errorf("import into corpus %q failed, err: %w", corpusID, err)
	}
	logger.Infof("import started for corpus %s: %d uri(s), operation %s", corpusID, len(gcsURIs), out.Name)
	return out.Name, nil
}

// ListFiles lists the documents imported into a corpus.
func (c *Client) ListFiles(ctx context.Context, corpusID string) ([]File, error) {
	var out struct {
		RagFiles []File `json:"ragFiles"`
	}
	path := fmt.Sprintf("%s/ragFiles?pageSize=%d", c.corpusName(corpusID), c.cfg.Corpus.PageSize)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list files in corpus %q failed, err: %w", corpusID, err)
	}
	return out.RagFiles, nil
}

// GetFile fetches one imported file.
func (c *Client) GetFile(ctx context.Context, corpusID, fileID string) (*File, error) {
	var out File
	path := c.corpusName(corpusID) + "/ragFiles/" + fileID
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get file %q failed, err: %w", fileID, err)
	}
	return &out, nil
}

// DeleteFile removes one imported file.
func (c *Client) DeleteFile(ctx context.Context, corpusID, fileID string) error {
	path := c.corpusName(corpusID) + "/ragFiles/" + fileID
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete file %q failed, err: %w", fileID, err)
	}
	logger.Infof("deleted file %s from corpus %s", fileID, corpusID)
	return nil
}

type retrieveContextsResponse struct {
	Contexts struct {
		Contexts []RetrievedContext `json:"contexts"`
	} `json:"contexts"`
}

// Query retrieves the topK most similar passages from one corpus.
func (c *Client) Query(ctx context.Context, corpusID, text string, topK int) ([]RetrievedContext, error) {
	if topK <= 0 {
		topK = c.cfg.Corpus.TopK
	}
	return c.retrieve(ctx, []string{c.corpusName(corpusID)}, text, topK)
}

// SearchAll queries every corpus in the project and merges the results,
// keeping per-corpus rank order.
func (c *Client) SearchAll(ctx context.Context, text string) ([]RetrievedContext, error) {
	corpora, err := c.ListCorpora(ctx)
	if err != nil {
		return nil, err
	}
	if len(corpora) == 0 {
		return nil, nil
	}

	var merged []RetrievedContext
	for _, corpus := range corpora {
		contexts, err := c.retrieve(ctx, []string{corpus.Name}, text, c.cfg.Corpus.SearchTopK)
		if err != nil {
			logger.Warnf("search corpus %s failed, skipping, err: %v", corpus.Name, err)
			continue
		}
		merged = append(merged, contexts...)
	}
	return merged, nil
}

func (c *Client) retrieve(ctx context.Context, corpusNames []string, text string, topK int) ([]RetrievedContext, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("query text is required")
	}

	resources := make([]map[string]string, len(corpusNames))
	for i, name := range corpusNames {
		resources[i] = map[string]string{"ragCorpus": name}
	}
	body := map[string]any{
		"vertexRagStore": map[string]any{
			"ragResources":            resources,
			"vectorDistanceThreshold": c.cfg.Corpus.VectorDistanceThreshold,
		},
		"query": map[string]any{
			"text":           text,
			"similarityTopK": topK,
		},
	}

	var out retrieveContextsResponse
	if err := c.doJSON(ctx, http.MethodPost, c.parent()+":retrieveContexts", body, &out); err != nil {
		return nil, fmt.Errorf("retrieve contexts failed, err: %w", err)
	}
	return out.Contexts.Contexts, nil
}
