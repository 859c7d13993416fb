package llm

import (
	"fmt"
	"strings"
)

// Render substitutes {name} placeholders in tmpl with values. "{{" and
// "}}" produce literal braces. A placeholder with no value, or an
// unmatched brace, is an error.
func Render(tmpl string, values map[string]string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unmatched '{' at offset %d", i)
			}
			name := tmpl[i+1 : i+1+end]
			value, ok := values[name]
			if !ok {
				return "", fmt.Errorf("no value for placeholder {%s}", name)
			}
			sb.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				sb.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' at offset %d", i)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}
