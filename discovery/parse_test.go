package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocBestEffort(t *testing.T) {
	tests := []struct {
		name  string
		doc   map[string]any
		title string
		uri   string
		link  string
	}{
		{
			name: "struct data title with gcs uri",
			doc: map[string]any{
				"structData": map[string]any{"title": "주간 보고서"},
				"content":    map[string]any{"uri": "gs://bucket/report.pdf"},
			},
			title: "주간 보고서",
			uri:   "gs://bucket/report.pdf",
		},
		{
			name: "derived link doubles as clickable link",
			doc: map[string]any{
				"derivedStructData": map[string]any{
					"title": "Install Guide",
					"link":  "https://docs.example.com/install",
				},
			},
			title: "Install Guide",
			uri:   "https://docs.example.com/install",
			link:  "https://docs.example.com/install",
		},
		{
			name:  "falls back through name and id",
			doc:   map[string]any{"id": "doc-42"},
			title: "doc-42",
		},
		{
			name: "blank strings are skipped",
			doc: map[string]any{
				"structData": map[string]any{"title": "   "},
				"name":       "projects/p/documents/d1",
			},
			title: "projects/p/documents/d1",
		},
		{name: "nil document", doc: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, uri, link := docBestEffort(tt.doc)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.uri, uri)
			assert.Equal(t, tt.link, link)
		})
	}
}

func TestExtractSnippets(t *testing.T) {
	doc := map[string]any{
		"derivedStructData": map[string]any{
			"snippets": []any{
				map[string]any{"snippet": "첫 번째 스니펫"},
				map[string]any{"snippet": "첫 번째 스니펫"}, // duplicate
				map[string]any{"text": "두 번째 스니펫"},
				map[string]any{"htmlSnippet": "ignored"},
				"plain string snippet",
			},
		},
	}

	got := extractSnippets(doc)
	assert.Equal(t, []string{"첫 번째 스니펫", "두 번째 스니펫", "plain string snippet"}, got)
}

func TestExtractSnippets_Cap(t *testing.T) {
	items := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, map[string]any{"snippet": string(rune('a' + i))})
	}
	got := extractSnippets(map[string]any{"snippets": items})
	assert.Len(t, got, maxExtractedPerResult)
}

func TestExtractMaps(t *testing.T) {
	doc := map[string]any{
		"derivedStructData": map[string]any{
			"extractive_answers": []any{
				map[string]any{"content": "답변 1"},
				"not a map",
				map[string]any{"content": "답변 2"},
			},
		},
	}

	got := extractMaps(doc, "extractive_answers", "extractiveAnswers")
	assert.Len(t, got, 2)
	assert.Equal(t, "답변 1", got[0]["content"])
}

func TestBuildCitations(t *testing.T) {
	results := []Result{
		{Source: Source{Title: "A", URI: "gs://b/a.pdf"}},
		{Source: Source{Title: "A dup", URI: "gs://b/a.pdf"}},
		{Source: Source{Title: "B", Link: "https://example.com/b"}},
		{Source: Source{}}, // no identifier, skipped
	}

	got := buildCitations(results)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, "[1]", got[0].Label)
	assert.Equal(t, "gs://b/a.pdf", got[0].URI)
	assert.Equal(t, "[2]", got[1].Label)
	assert.Equal(t, "B", got[1].Title)
}

func TestGetIn(t *testing.T) {
	m := map[string]any{"a": map[string]any{"b": "value"}}
	assert.Equal(t, "value", getIn(m, "a", "b"))
	assert.Nil(t, getIn(m, "a", "missing"))
	assert.Nil(t, getIn(m, "x", "b"))
}
