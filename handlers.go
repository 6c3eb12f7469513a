package agent

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
)

// Handlers translate MCP tool calls into client operations. Operational
// failures are reported inside a status envelope (status=error) so the
// model can read the message and recover; only malformed arguments produce
// a protocol-level tool error.

func envelope(payload map[string]any) *mcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result failed: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func successEnvelope(message string, fields map[string]any) *mcp.CallToolResult {
	out := map[string]any{"status": "success", "message": message}
	for k, v := range fields {
		out[k] = v
	}
	return envelope(out)
}

func errorEnvelope(message string, err error) *mcp.CallToolResult {
	logger.Errorf("%s: %v", message, err)
	return envelope(map[string]any{
		"status":        "error",
		"error_message": err.Error(),
		"message":       fmt.Sprintf("%s: %v", message, err),
	})
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) int64 {
	if f, ok := args[key].(float64); ok {
		return int64(f)
	}
	return 0
}

func requireString(args map[string]any, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

// HandleSelectAndCompile classifies the user query and compiles the filter
// for the selected engine.
func HandleSelectAndCompile(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query, err := requireString(args, "user_query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		decision, err := client.SelectAndCompile(query, stringArg(args, "engine_id"))
		if err != nil {
			return errorEnvelope("Failed to classify query", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Selected engine %q: %s", decision.EngineKey, decision.EngineReason),
			map[string]any{
				"engine_id":        decision.EngineID,
				"engine_key":       decision.EngineKey,
				"engine_reason":    decision.EngineReason,
				"scores":           decision.Scores,
				"matched_patterns": decision.MatchedPatterns,
				"compiled":         decision.Compiled,
			},
		), nil
	}
}

// HandleVertexSearch runs one backend search.
func HandleVertexSearch(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		engineID, err := requireString(args, "engine_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		query, err := requireString(args, "query_text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := client.Search(ctx, SearchParams{
			EngineID:  engineID,
			Query:     query,
			Filter:    stringArg(args, "filter_expr"),
			PageSize:  intArg(args, "page_size"),
			PageToken: stringArg(args, "page_token"),
			SessionID: stringArg(args, "session_id"),
		})
		if err != nil {
			return errorEnvelope("Failed to search Vertex AI Search", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Found %d result(s) for query: '%s'", out.Count, query),
			map[string]any{
				"engine_id":         out.EngineID,
				"serving_config":    out.ServingConfig,
				"location":          out.Location,
				"query":             out.Query,
				"summary_text":      out.SummaryText,
				"summary_citations": out.SummaryCitations,
				"citations":         out.Citations,
				"results":           out.Results,
				"count":             out.Count,
				"next_page_token":   out.NextPageToken,
			},
		), nil
	}
}

// HandleListEngines lists the available search apps.
func HandleListEngines(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		out, err := client.ListEngines(ctx, intArg(args, "page_size"), stringArg(args, "page_token"))
		if err != nil {
			return errorEnvelope("Failed to list engines", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Found %d engine(s)", out.Count),
			map[string]any{
				"location":        out.Location,
				"parent":          out.Parent,
				"engines":         out.Engines,
				"count":           out.Count,
				"next_page_token": out.NextPageToken,
			},
		), nil
	}
}

// HandleCreateBucket creates a GCS bucket.
func HandleCreateBucket(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		name, err := requireString(args, "bucket_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, err := client.Storage().CreateBucket(ctx, name, stringArg(args, "location"), stringArg(args, "storage_class"))
		if err != nil {
			return errorEnvelope("Failed to create bucket", err), nil
		}
		return successEnvelope(fmt.Sprintf("Created bucket %s", info.URI), map[string]any{"bucket": info}), nil
	}
}

// HandleListBuckets lists the project's buckets.
func HandleListBuckets(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		buckets, err := client.Storage().ListBuckets(ctx)
		if err != nil {
			return errorEnvelope("Failed to list buckets", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Found %d bucket(s)", len(buckets)),
			map[string]any{"buckets": buckets, "count": len(buckets)},
		), nil
	}
}

// HandleBucketDetails describes one bucket.
func HandleBucketDetails(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		name, err := requireString(args, "bucket_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, err := client.Storage().BucketDetails(ctx, name)
		if err != nil {
			return errorEnvelope("Failed to get bucket details", err), nil
		}
		return successEnvelope(fmt.Sprintf("Bucket %s", info.URI), map[string]any{"bucket": info}), nil
	}
}

// HandleUploadFile uploads base64-encoded content to a bucket.
func HandleUploadFile(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		bucket, err := requireString(args, "bucket_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		object, err := requireString(args, "object_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		encoded, err := requireString(args, "content_base64")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("content_base64 is not valid base64: %v", err)), nil
		}

		info, err := client.Storage().Upload(ctx, bucket, object, stringArg(args, "content_type"), bytes.NewReader(content))
		if err != nil {
			return errorEnvelope("Failed to upload file", err), nil
		}
		return successEnvelope(fmt.Sprintf("Uploaded %s (%d bytes)", info.URI, info.SizeBytes), map[string]any{"blob": info}), nil
	}
}

// HandleListBlobs lists objects in a bucket.
func HandleListBlobs(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		bucket, err := requireString(args, "bucket_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		blobs, err := client.Storage().ListBlobs(ctx, bucket, stringArg(args, "prefix"))
		if err != nil {
			return errorEnvelope("Failed to list blobs", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Found %d object(s) in gs://%s/", len(blobs), bucket),
			map[string]any{"blobs": blobs, "count": len(blobs)},
		), nil
	}
}

// HandleCreateCorpus creates a RAG corpus.
func HandleCreateCorpus(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		displayName, err := requireString(args, "display_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		created, err := client.Corpora().CreateCorpus(ctx, displayName, stringArg(args, "description"))
		if err != nil {
			return errorEnvelope("Failed to create corpus", err), nil
		}
		return successEnvelope(fmt.Sprintf("Created corpus %s", created.Name), map[string]any{"corpus": created}), nil
	}
}

// HandleUpdateCorpus updates corpus display name or description.
func HandleUpdateCorpus(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		updated, err := client.Corpora().UpdateCorpus(ctx, corpusID, stringArg(args, "display_name"), stringArg(args, "description"))
		if err != nil {
			return errorEnvelope("Failed to update corpus", err), nil
		}
		return successEnvelope(fmt.Sprintf("Updated corpus %s", updated.Name), map[string]any{"corpus": updated}), nil
	}
}

// HandleListCorpora lists the project's corpora.
func HandleListCorpora(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		corpora, err := client.Corpora().ListCorpora(ctx)
		if err != nil {
			return errorEnvelope("Failed to list corpora", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Found %d corpus(es)", len(corpora)),
			map[string]any{"corpora": corpora, "count": len(corpora)},
		), nil
	}
}

// HandleGetCorpus fetches one corpus.
func HandleGetCorpus(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		got, err := client.Corpora().GetCorpus(ctx, corpusID)
		if err != nil {
			return errorEnvelope("Failed to get corpus", err), nil
		}
		return successEnvelope(fmt.Sprintf("Corpus %s", got.Name), map[string]any{"corpus": got}), nil
	}
}

// HandleDeleteCorpus removes a corpus.
func HandleDeleteCorpus(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.Corpora().DeleteCorpus(ctx, corpusID); err != nil {
			return errorEnvelope("Failed to delete corpus", err), nil
		}
		return successEnvelope(fmt.Sprintf("Deleted corpus %s", corpusID), nil), nil
	}
}

// HandleImportDocument imports gs:// documents into a corpus.
func HandleImportDocument(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rawURIs, ok := args["gcs_uris"].([]any)
		if !ok || len(rawURIs) == 0 {
			return mcp.NewToolResultError("missing required argument \"gcs_uris\""), nil
		}
		uris := make([]string, 0, len(rawURIs))
		for _, raw := range rawURIs {
			if s, ok := raw.(string); ok {
				uris = append(uris, s)
			}
		}

		operation, err := client.Corpora().ImportFromGCS(ctx, corpusID, uris)
		if err != nil {
			return errorEnvelope("Failed to import documents", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Import of %d document(s) started", len(uris)),
			map[string]any{"operation": operation, "gcs_uris": uris},
		), nil
	}
}

// HandleListCorpusFiles lists the documents imported into a corpus.
func HandleListCorpusFiles(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		files, err := client.Corpora().ListFiles(ctx, corpusID)
		if err != nil {
			return errorEnvelope("Failed to list corpus files", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Found %d file(s)", len(files)),
			map[string]any{"files": files, "count": len(files)},
		), nil
	}
}

// HandleGetCorpusFile fetches one imported file.
func HandleGetCorpusFile(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fileID, err := requireString(args, "file_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		file, err := client.Corpora().GetFile(ctx, corpusID, fileID)
		if err != nil {
			return errorEnvelope("Failed to get corpus file", err), nil
		}
		return successEnvelope(fmt.Sprintf("File %s", file.Name), map[string]any{"file": file}), nil
	}
}

// HandleDeleteCorpusFile removes one imported file.
func HandleDeleteCorpusFile(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fileID, err := requireString(args, "file_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.Corpora().DeleteFile(ctx, corpusID, fileID); err != nil {
			return errorEnvelope("Failed to delete corpus file", err), nil
		}
		return successEnvelope(fmt.Sprintf("Deleted file %s", fileID), nil), nil
	}
}

// HandleQueryCorpus retrieves passages from one corpus.
func HandleQueryCorpus(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		corpusID, err := requireString(args, "corpus_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		query, err := requireString(args, "query_text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		contexts, err := client.Corpora().Query(ctx, corpusID, query, int(intArg(args, "top_k")))
		if err != nil {
			return errorEnvelope("Failed to query corpus", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Retrieved %d passage(s)", len(contexts)),
			map[string]any{"contexts": contexts, "count": len(contexts)},
		), nil
	}
}

// HandleSearchAllCorpora retrieves passages from every corpus.
func HandleSearchAllCorpora(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query, err := requireString(args, "query_text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		contexts, err := client.Corpora().SearchAll(ctx, query)
		if err != nil {
			return errorEnvelope("Failed to search corpora", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Retrieved %d passage(s) across all corpora", len(contexts)),
			map[string]any{"contexts": contexts, "count": len(contexts)},
		), nil
	}
}

// HandleCreateSession opens a new conversation session.
func HandleCreateSession(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := client.Sessions().Create(ctx)
		if err != nil {
			return errorEnvelope("Failed to create session", err), nil
		}
		return successEnvelope(fmt.Sprintf("Created session %s", sess.ID), map[string]any{"session": sess}), nil
	}
}

// HandleLoadMemory loads the conversation history of a session.
func HandleLoadMemory(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		sessionID, err := requireString(args, "session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sess, err := client.Sessions().Get(ctx, sessionID)
		if errors.Is(err, ErrSessionNotFound) {
			return errorEnvelope("Session not found", err), nil
		}
		if err != nil {
			return errorEnvelope("Failed to load session", err), nil
		}
		return successEnvelope(
			fmt.Sprintf("Session %s has %d round(s)", sess.ID, len(sess.Rounds)),
			map[string]any{"session": sess},
		), nil
	}
}

// HandleDeleteSession removes a session and its history.
func HandleDeleteSession(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		sessionID, err := requireString(args, "session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.Sessions().Delete(ctx, sessionID); err != nil {
			return errorEnvelope("Failed to delete session", err), nil
		}
		return successEnvelope(fmt.Sprintf("Deleted session %s", sessionID), nil), nil
	}
}
