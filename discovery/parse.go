package discovery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result documents arrive as loosely-typed JSON whose schema varies by data
// store kind (structured, unstructured, website). Extraction is therefore
// best-effort over the known field spellings; a miss yields an empty value,
// never an error.

const maxExtractedPerResult = 10

func decodeRaw(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// getIn walks nested maps along path.
func getIn(m map[string]any, path ...string) any {
	var cur any = m
	for _, key := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = node[key]
		if !ok {
			return nil
		}
	}
	return cur
}

func firstNonEmpty(vals ...any) string {
	for _, v := range vals {
		s, ok := v.(string)
		if ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// docBestEffort extracts (title, uri, link) from a document payload across
// the common schemas.
func docBestEffort(doc map[string]any) (title, uri, link string) {
	if doc == nil {
		return "", "", ""
	}

	title = firstNonEmpty(
		getIn(doc, "structData", "title"),
		getIn(doc, "derivedStructData", "title"),
		doc["title"],
		doc["displayName"],
		doc["name"],
		doc["id"],
	)

	uri = firstNonEmpty(
		getIn(doc, "content", "uri"),
		getIn(doc, "derivedStructData", "link"),
		getIn(doc, "structData", "link"),
		doc["uri"],
		doc["link"],
	)

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		link = uri
	} else {
		link = firstNonEmpty(
			doc["link"],
			getIn(doc, "derivedStructData", "link"),
			getIn(doc, "structData", "link"),
		)
	}
	return title, uri, link
}

// extractSnippets pulls deduplicated snippet texts out of the derived
// document payload, capped at maxExtractedPerResult.
func extractSnippets(doc map[string]any) []string {
	var snippets []string
	for _, cand := range []any{getIn(doc, "snippets"), getIn(doc, "derivedStructData", "snippets")} {
		items, ok := cand.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			switch s := item.(type) {
			case map[string]any:
				if txt := firstNonEmpty(s["snippet"], s["text"]); txt != "" {
					snippets = append(snippets, txt)
				}
			case string:
				snippets = append(snippets, s)
			}
		}
	}

	var deduped []string
	seen := make(map[string]struct{}, len(snippets))
	for _, s := range snippets {
		key := strings.TrimSpace(s)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, s)
		if len(deduped) == maxExtractedPerResult {
			break
		}
	}
	return deduped
}

// extractMaps collects list-of-object fields under the given spellings,
// checking both the document root and its derivedStructData.
func extractMaps(doc map[string]any, keys ...string) []map[string]any {
	var out []map[string]any
	for _, key := range keys {
		for _, cand := range []any{getIn(doc, key), getIn(doc, "derivedStructData", key)} {
			items, ok := cand.([]any)
			if !ok {
				continue
			}
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					out = append(out, m)
					if len(out) == maxExtractedPerResult {
						return out
					}
				}
			}
		}
	}
	return out
}

// buildCitations derives a numbered sources list from the results. Entries
// are deduplicated on their strongest identifier so one document cited by
// several hits appears once.
func buildCitations(results []Result) []Citation {
	citations := make([]Citation, 0, len(results))
	seen := make(map[string]struct{}, len(results))

	for _, r := range results {
		key := strings.TrimSpace(firstNonEmpty(r.Source.URI, r.Source.Link, r.Source.Title))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		idx := len(citations) + 1
		citations = append(citations, Citation{
			Index: idx,
			Label: fmt.Sprintf("[%d]", idx),
			Title: r.Source.Title,
			URI:   r.Source.URI,
			Link:  r.Source.Link,
		})
	}
	return citations
}
