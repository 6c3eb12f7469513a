package discovery

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
)

// Evidence passed to a downstream model is bounded by a token budget so a
// large result page cannot blow up the prompt. Results keep their rank
// order; trimming drops whole snippets from the tail first, then whole
// results.

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

func tokenCodec() *tiktoken.Tiktoken {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Warnf("load token encoding failed, falling back to word count, err: %v", err)
			return
		}
		encoding = enc
	})
	return encoding
}

// CountTokens returns the token count of text, falling back to a
// whitespace word count when the encoding is unavailable.
func CountTokens(text string) int {
	if enc := tokenCodec(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return len(strings.Fields(text))
}

// TrimToBudget returns a prefix of results whose combined snippet and
// summary text fits within budget tokens. A non-positive budget disables
// trimming. The first result is always kept, possibly with its snippet
// list shortened.
func TrimToBudget(results []Result, budget int) []Result {
	if budget <= 0 || len(results) == 0 {
		return results
	}

	spent := 0
	trimmed := make([]Result, 0, len(results))
	for i, r := range results {
		cost := resultTokens(r)
		if spent+cost > budget {
			if i == 0 {
				trimmed = append(trimmed, shrinkResult(r, budget))
			}
			break
		}
		spent += cost
		trimmed = append(trimmed, r)
	}

	if len(trimmed) < len(results) {
		logger.Debugf("evidence trimmed from %d to %d result(s) for budget %d", len(results), len(trimmed), budget)
	}
	return trimmed
}

func resultTokens(r Result) int {
	total := CountTokens(r.Source.Title)
	for _, s := range r.Snippets {
		total += CountTokens(s)
	}
	for _, a := range r.ExtractiveAnswers {
		if content, ok := a["content"].(string); ok {
			total += CountTokens(content)
		}
	}
	for _, seg := range r.ExtractiveSegments {
		if content, ok := seg["content"].(string); ok {
			total += CountTokens(content)
		}
	}
	return total
}

// shrinkResult keeps as many leading snippets as the budget allows and
// drops the extractive payloads.
func shrinkResult(r Result, budget int) Result {
	out := r
	out.ExtractiveAnswers = nil
	out.ExtractiveSegments = nil
	out.Snippets = nil

	spent := CountTokens(r.Source.Title)
	for _, s := range r.Snippets {
		cost := CountTokens(s)
		if spent+cost > budget {
			break
		}
		spent += cost
		out.Snippets = append(out.Snippets, s)
	}
	return out
}
