package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
	"github.com/kennychae/vertex-ai-search-agent/config"
	"github.com/kennychae/vertex-ai-search-agent/engine"
)

func init() {
	logger.Disable()
}

// testAgent builds a client with only the offline collaborators wired.
func testAgent(t *testing.T) *Client {
	t.Helper()
	sessions, err := NewSessionStore(&config.SessionConfig{Store: "memory"})
	require.NoError(t, err)
	return &Client{
		cfg:        config.Default(),
		classifier: engine.NewClassifier(engine.DefaultRegistry()),
		sessions:   sessions,
	}
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) map[string]any {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestHandleSelectAndCompile(t *testing.T) {
	handler := HandleSelectAndCompile(testAgent(t))

	payload := callTool(t, handler, map[string]any{
		"user_query": "2024년 1월 방문 내역 담당자: 홍길동",
	})

	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "work-history", payload["engine_key"])

	compiled, ok := payload["compiled"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "compiled", compiled["reason"])
	assert.Contains(t, compiled["filter_expr"], `owner: ANY("홍길동")`)
}

func TestHandleSelectAndCompile_PinnedEngine(t *testing.T) {
	handler := HandleSelectAndCompile(testAgent(t))

	payload := callTool(t, handler, map[string]any{
		"user_query": "설치 방법",
		"engine_id":  "manual",
	})

	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "manual", payload["engine_key"])
}

func TestHandleSelectAndCompile_UnknownEngine(t *testing.T) {
	handler := HandleSelectAndCompile(testAgent(t))

	payload := callTool(t, handler, map[string]any{
		"user_query": "설치 방법",
		"engine_id":  "no-such-engine",
	})

	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["error_message"], "no-such-engine")
}

func TestHandleSelectAndCompile_MissingQuery(t *testing.T) {
	handler := HandleSelectAndCompile(testAgent(t))

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]any{}
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSessionHandlers_RoundTrip(t *testing.T) {
	client := testAgent(t)

	created := callTool(t, HandleCreateSession(client), nil)
	assert.Equal(t, "success", created["status"])
	session, ok := created["session"].(map[string]any)
	require.True(t, ok)
	id, ok := session["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	loaded := callTool(t, HandleLoadMemory(client), map[string]any{"session_id": id})
	assert.Equal(t, "success", loaded["status"])

	deleted := callTool(t, HandleDeleteSession(client), map[string]any{"session_id": id})
	assert.Equal(t, "success", deleted["status"])

	missing := callTool(t, HandleLoadMemory(client), map[string]any{"session_id": id})
	assert.Equal(t, "error", missing["status"])
}

func TestClient_SelectAndCompile_LogsDecisionRecord(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.UseZap(zap.New(core))
	defer logger.Disable()

	client := testAgent(t)
	_, err := client.SelectAndCompile("2024년 3월 담당자: 홍길동 방문 내역", "")
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("[DECISION]").All()
	require.Len(t, entries, 1)
	raw := strings.TrimPrefix(entries[0].Message, "[DECISION] ")

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	assert.Equal(t, "work-history", record["engine_key"])
	assert.NotEmpty(t, record["engine_id"])
	assert.NotEmpty(t, record["engine_reason"])
	assert.Contains(t, record, "scores")
	assert.Contains(t, record, "matched_patterns")
	assert.Equal(t, true, record["filter_applied"])
	assert.Equal(t, "compiled", record["filter_reason"])
	assert.Equal(t, []any{"date", "owner"}, record["filter_fields"])
	assert.Equal(t, "방문 내역", record["residual_query"])
	assert.Contains(t, record, "total_latency_ms")
	assert.Equal(t, true, record["success"])
}

func TestClient_SelectAndCompile_DecisionShape(t *testing.T) {
	client := testAgent(t)

	decision, err := client.SelectAndCompile("VMware 설치 가이드", "")
	require.NoError(t, err)
	assert.Equal(t, "manual", decision.EngineKey)
	require.NotNil(t, decision.Compiled)
	assert.Equal(t, "no_filter_rules", decision.Compiled.Reason)
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := NewServer(testAgent(t))
	require.NotNil(t, s)
}
