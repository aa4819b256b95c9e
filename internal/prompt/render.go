// Package prompt renders instruction templates against run state. Templates
// use single-brace placeholders ({key}) referencing state keys; doubled
// braces ({{ / }}) escape literal braces. This lives in internal to avoid
// committing to public API stability prematurely.
package prompt

import (
	"strings"

	"github.com/promptpipe/promptpipe/core"
)

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Render substitutes every {key} placeholder in text with the matching state
// value. A placeholder whose key is absent fails with *core.TemplateError;
// brace sequences that do not form a well-formed placeholder pass through
// unchanged.
func Render(text string, state *core.State) (string, error) {
	if !strings.ContainsAny(text, "{}") { // fast path: no template markers
		return text, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			sb.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			sb.WriteByte('}')
			i += 2
		case c == '{':
			end := i + 1
			for end < len(text) && isIdentByte(text[end]) {
				end++
			}
			if end == i+1 || end == len(text) || text[end] != '}' {
				// Not a placeholder (empty, unterminated or odd chars).
				sb.WriteByte('{')
				i++
				continue
			}
			key := text[i+1 : end]
			value, ok := state.Get(key)
			if !ok {
				return "", &core.TemplateError{Key: key}
			}
			sb.WriteString(value)
			i = end + 1
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), nil
}
