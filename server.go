package agent

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "1.0.0"

// NewServer registers every tool of the agent on a fresh MCP server.
func NewServer(client *Client) *server.MCPServer {
	s := server.NewMCPServer(
		"vertex-ai-search-agent",
		Version,
		server.WithInstructions("Routes natural-language queries to the right Vertex AI Search engine, compiles structured filters, and manages GCS buckets, RAG corpora and conversation sessions"),
	)

	// Query Routing Tools
	s.AddTool(
		mcp.NewToolWithRawSchema("select-and-compile", "Select the best search engine for a user query and compile its structured filter expression", GetSelectAndCompileSchema()),
		HandleSelectAndCompile(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("vertex-search", "Search a Vertex AI Search engine and return summarized, cited results", GetVertexSearchSchema()),
		HandleVertexSearch(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-search-engines", "List the Vertex AI Search engines available in the project", GetListEnginesSchema()),
		HandleListEngines(client),
	)

	// Cloud Storage Tools
	s.AddTool(
		mcp.NewToolWithRawSchema("create-bucket", "Create a Google Cloud Storage bucket", GetCreateBucketSchema()),
		HandleCreateBucket(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-buckets", "List the Google Cloud Storage buckets in the project", GetListBucketsSchema()),
		HandleListBuckets(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("get-bucket-details", "Show the metadata of one Google Cloud Storage bucket", GetBucketDetailsSchema()),
		HandleBucketDetails(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("upload-file-gcs", "Upload base64-encoded content as an object in a Google Cloud Storage bucket", GetUploadFileSchema()),
		HandleUploadFile(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-blobs", "List the objects in a Google Cloud Storage bucket", GetListBlobsSchema()),
		HandleListBlobs(client),
	)

	// RAG Corpus Management Tools
	s.AddTool(
		mcp.NewToolWithRawSchema("create-corpus", "Create a Vertex AI RAG corpus", GetCreateCorpusSchema()),
		HandleCreateCorpus(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("update-corpus", "Update the display name or description of a RAG corpus", GetUpdateCorpusSchema()),
		HandleUpdateCorpus(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-corpora", "List the RAG corpora in the project", GetListCorporaSchema()),
		HandleListCorpora(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("get-corpus", "Show the details of one RAG corpus", GetCorpusIDSchema()),
		HandleGetCorpus(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("delete-corpus", "Delete a RAG corpus and everything in it", GetCorpusIDSchema()),
		HandleDeleteCorpus(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("import-document", "Import documents from Google Cloud Storage into a RAG corpus", GetImportDocumentSchema()),
		HandleImportDocument(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-corpus-files", "List the documents imported into a RAG corpus", GetCorpusIDSchema()),
		HandleListCorpusFiles(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("get-corpus-file", "Show the details of one document in a RAG corpus", GetCorpusFileSchema()),
		HandleGetCorpusFile(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("delete-corpus-file", "Delete one document from a RAG corpus", GetCorpusFileSchema()),
		HandleDeleteCorpusFile(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("query-corpus", "Retrieve relevant passages from one RAG corpus for a query", GetQueryCorpusSchema()),
		HandleQueryCorpus(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("search-all-corpora", "Retrieve relevant passages from every RAG corpus for a query", GetSearchAllCorporaSchema()),
		HandleSearchAllCorpora(client),
	)

	// Conversation Memory Tools
	s.AddTool(
		mcp.NewToolWithRawSchema("create-session", "Open a new conversation session", GetCreateSessionSchema()),
		HandleCreateSession(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("load-memory", "Load the conversation history of a session", GetLoadMemorySchema()),
		HandleLoadMemory(client),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("delete-session", "Delete a conversation session and its history", GetDeleteSessionSchema()),
		HandleDeleteSession(client),
	)

	return s
}
