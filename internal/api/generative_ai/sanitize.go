package generativeAI

import "strings"

// ExtractJSONBlock strips markdown code fences from a raw model response and
// returns the substring between the first '{' and the last '}' inclusive.
// When no such pair exists in order, the trimmed input is returned unchanged.
//
// This is deliberately a best-effort heuristic: it does not validate brace
// balance, so a '}' inside a string value after the true closing brace is not
// detected. Callers must still json.Unmarshal the result and treat failure as
// a parse error.
func ExtractJSONBlock(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		return cleaned[start : end+1]
	}
	return cleaned
}
