package agent

import "encoding/json"

// Raw JSON schemas for the MCP tools. Kept as literals so the wire shape
// is explicit and reviewable.

func GetSelectAndCompileSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "user_query": {
      "type": "string",
      "description": "The original user question, unmodified"
    },
    "engine_id": {
      "type": "string",
      "description": "Optional engine key to pin; omit to auto-select"
    }
  },
  "required": ["user_query"]
}`)
}

func GetVertexSearchSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "engine_id": {
      "type": "string",
      "description": "Vertex AI Search engine (app) identifier"
    },
    "query_text": {
      "type": "string",
      "description": "Full-text query, typically compiled.query_text from select-and-compile"
    },
    "filter_expr": {
      "type": "string",
      "description": "Optional structured filter expression from select-and-compile"
    },
    "page_size": {
      "type": "integer",
      "description": "Maximum number of results to return"
    },
    "page_token": {
      "type": "string",
      "description": "Continuation token from a previous search"
    },
    "session_id": {
      "type": "string",
      "description": "Optional session to append this round to"
    }
  },
  "required": ["engine_id", "query_text"]
}`)
}

func GetListEnginesSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "page_size": {
      "type": "integer",
      "description": "Maximum number of engines to return (default 50)"
    },
    "page_token": {
      "type": "string",
      "description": "Continuation token from a previous listing"
    }
  }
}`)
}

func GetCreateBucketSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "bucket_name": {
      "type": "string",
      "description": "Globally unique bucket name"
    },
    "location": {
      "type": "string",
      "description": "Bucket location (default from configuration)"
    },
    "storage_class": {
      "type": "string",
      "description": "Storage class (default from configuration)"
    }
  },
  "required": ["bucket_name"]
}`)
}

func GetListBucketsSchema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func GetBucketDetailsSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "bucket_name": {
      "type": "string",
      "description": "Bucket to describe"
    }
  },
  "required": ["bucket_name"]
}`)
}

func GetUploadFileSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "bucket_name": {
      "type": "string",
      "description": "Destination bucket"
    },
    "object_name": {
      "type": "string",
      "description": "Destination object name (path within the bucket)"
    },
    "content_base64": {
      "type": "string",
      "description": "File content, base64-encoded"
    },
    "content_type": {
      "type": "string",
      "description": "MIME type (default from configuration)"
    }
  },
  "required": ["bucket_name", "object_name", "content_base64"]
}`)
}

func GetListBlobsSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "bucket_name": {
      "type": "string",
      "description": "Bucket to list"
    },
    "prefix": {
      "type": "string",
      "description": "Optional object name prefix"
    }
  },
  "required": ["bucket_name"]
}`)
}

func GetCreateCorpusSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "display_name": {
      "type": "string",
      "description": "Human-readable corpus name"
    },
    "description": {
      "type": "string",
      "description": "Optional corpus description"
    }
  },
  "required": ["display_name"]
}`)
}

func GetUpdateCorpusSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "corpus_id": {
      "type": "string",
      "description": "Corpus id or full resource name"
    },
    "display_name": {
      "type": "string",
      "description": "New display name"
    },
    "description": {
      "type": "string",
      "description": "New description"
    }
  },
  "required": ["corpus_id"]
}`)
}

func GetListCorporaSchema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func GetCorpusIDSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "corpus_id": {
      "type": "string",
      "description": "Corpus id or full resource name"
    }
  },
  "required": ["corpus_id"]
}`)
}

func GetImportDocumentSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "corpus_id": {
      "type": "string",
      "description": "Corpus id or full resource name"
    },
    "gcs_uris": {
      "type": "array",
      "items": {"type": "string"},
      "description": "gs:// URIs of documents to import"
    }
  },
  "required": ["corpus_id", "gcs_uris"]
}`)
}

func GetCorpusFileSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "corpus_id": {
      "type": "string",
      "description": "Corpus id or full resource name"
    },
    "file_id": {
      "type": "string",
      "description": "File id within the corpus"
    }
  },
  "required": ["corpus_id", "file_id"]
}`)
}

func GetQueryCorpusSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "corpus_id": {
      "type": "string",
      "description": "Corpus id or full resource name"
    },
    "query_text": {
      "type": "string",
      "description": "Retrieval query"
    },
    "top_k": {
      "type": "integer",
      "description": "Number of passages to retrieve (default from configuration)"
    }
  },
  "required": ["corpus_id", "query_text"]
}`)
}

func GetSearchAllCorporaSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "query_text": {
      "type": "string",
      "description": "Retrieval query run against every corpus"
    }
  },
  "required": ["query_text"]
}`)
}

func GetCreateSessionSchema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func GetLoadMemorySchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "session_id": {
      "type": "string",
      "description": "Session whose conversation history to load"
    }
  },
  "required": ["session_id"]
}`)
}

func GetDeleteSessionSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "session_id": {
      "type": "string",
      "description": "Session to delete"
    }
  },
  "required": ["session_id"]
}`)
}
