package nlg

import (
	"encoding/json"
	"strings"
)

// ExtractJSON recovers a JSON object from possibly noisy model output. The
// model is asked for strict JSON but replies sometimes arrive wrapped in
// Markdown fences or surrounded by prose. Three strategies run in order:
// direct parse, fence stripping, then a scan for the first balanced
// top-level object. Returns nil when no object can be recovered.
func ExtractJSON(raw string) map[string]any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if obj := parseObject(s); obj != nil {
		return obj
	}

	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		cleaned := strings.Trim(s, "`")
		cleaned = strings.TrimSpace(strings.Replace(cleaned, "json\n", "", 1))
		if obj := parseObject(cleaned); obj != nil {
			return obj
		}
	}

	return scanBalancedObject(s)
}

func parseObject(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

// scanBalancedObject walks the string tracking brace depth and string
// escapes, trying each balanced top-level candidate until one parses.
func scanBalancedObject(s string) map[string]any {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return nil
	}

	depth := 0
	inString := false
	escape := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			continue
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if obj := parseObject(s[start : i+1]); obj != nil {
					return obj
				}
			}
		}
	}
	return nil
}
