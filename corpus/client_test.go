package corpus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
	"github.com/kennychae/vertex-ai-search-agent/config"
)

func init() {
	logger.Disable()
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Project.ID = "test-project"
	cfg.Corpus.Endpoint = srv.URL + "/v1"

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"})
	return NewWithTokenSource(cfg, ts)
}

func TestCreateCorpus(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_ = json.NewEncoder(w).Encode(Corpus{
			Name:        "projects/test-project/locations/us-central1/ragCorpora/123",
			DisplayName: "sales-reports",
		})
	})

	got, err := c.CreateCorpus(context.Background(), "sales-reports", "weekly reports")
	require.NoError(t, err)
	assert.Equal(t, "/v1/projects/test-project/locations/us-central1/ragCorpora", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "sales-reports", gotBody["displayName"])

	// Embedding model wired in from config.
	endpoint, _ := gotBody["vectorDbConfig"].(map[string]any)["ragEmbeddingModelConfig"].(map[string]any)["vertexPredictionEndpoint"].(map[string]any)["endpoint"].(string)
	assert.Equal(t,
		"projects/test-project/locations/us-central1/publishers/google/models/text-multilingual-embedding-002",
		endpoint)

	assert.Equal(t, "123", got.ID())
}

func TestCreateCorpus_RequiresDisplayName(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.CreateCorpus(context.Background(), "", "")
	assert.Error(t, err)
}

func TestListCorpora(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{"ragCorpora":[{"name":"projects/p/locations/l/ragCorpora/1"},{"name":"projects/p/locations/l/ragCorpora/2"}]}`))
	})

	got, err := c.ListCorpora(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID())
}

func TestQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":retrieveContexts")

		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		query := body["query"].(map[string]any)
		assert.Equal(t, "방문 내역", query["text"])
		assert.Equal(t, float64(10), query["similarityTopK"])

		store := body["vertexRagStore"].(map[string]any)
		assert.Equal(t, 0.5, store["vectorDistanceThreshold"])

		_, _ = w.Write([]byte(`{"contexts":{"contexts":[{"sourceUri":"gs://b/a.pdf","text":"passage","score":0.82}]}}`))
	})

	got, err := c.Query(context.Background(), "123", "방문 내역", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "gs://b/a.pdf", got[0].SourceURI)
	assert.InDelta(t, 0.82, got[0].Score, 1e-9)
}

func TestQuery_RequiresText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Query(context.Background(), "123", "   ", 0)
	assert.Error(t, err)
}

func TestImportFromGCS(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/ragCorpora/123/ragFiles:import")
		_, _ = w.Write([]byte(`{"name":"projects/p/locations/l/operations/op-1"}`))
	})

	op, err := c.ImportFromGCS(context.Background(), "123", []string{"gs://bucket/report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/locations/l/operations/op-1", op)
}

func TestImportFromGCS_RejectsNonGCSURI(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.ImportFromGCS(context.Background(), "123", []string{"https://example.com/a.pdf"})
	assert.ErrorContains(t, err, "invalid gcs uri")

	_, err = c.ImportFromGCS(context.Background(), "123", nil)
	assert.ErrorContains(t, err, "at least one")
}

func TestErrorStatusSurfaces(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"corpus not found"}}`, http.StatusNotFound)
	})

	_, err := c.GetCorpus(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "corpus not found")
}

func TestCorpusName(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {})

	assert.Equal(t, "projects/test-project/locations/us-central1/ragCorpora/42", c.corpusName("42"))
	full := "projects/other/locations/eu/ragCorpora/7"
	assert.Equal(t, full, c.corpusName(full))
}
