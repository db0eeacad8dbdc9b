package generate

import (
	"fmt"
	"strings"
)

// template is a parsed "{name}" template. "{{" and "}}" stand for literal
// braces.
type template struct {
	text  []string // literal runs, len(text) == len(names)+1
	names []string
}

func parseTemplate(src string) (*template, error) {
	t := &template{}
	var lit strings.Builder
	for i := 0; i < len(src); i++ {
		switch ch := src[i]; ch {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(src[i+1:], "{}")
			if end < 0 || src[i+1+end] != '}' {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d in %q", ErrMalformedTemplate, i, src)
			}
			name := strings.TrimSpace(src[i+1 : i+1+end])
			if name == "" {
				return nil, fmt.Errorf("%w: empty placeholder at offset %d in %q", ErrMalformedTemplate, i, src)
			}
			t.text = append(t.text, lit.String())
			t.names = append(t.names, name)
			lit.Reset()
			i += end + 1
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d in %q", ErrMalformedTemplate, i, src)
		default:
			lit.WriteByte(ch)
		}
	}
	t.text = append(t.text, lit.String())
	return t, nil
}

// check reports the first placeholder that has no parameter.
func (t *template) check(params map[string]bool) error {
	for _, n := range t.names {
		if !params[n] {
			return fmt.Errorf("%w: placeholder {%s} has no parameter", ErrMissingParameter, n)
		}
	}
	return nil
}

func (t *template) uses(name string) bool {
	for _, n := range t.names {
		if n == name {
			return true
		}
	}
	return false
}

func (t *template) render(values map[string]string) string {
	var sb strings.Builder
	for i, n := range t.names {
		sb.WriteString(t.text[i])
		sb.WriteString(values[n])
	}
	sb.WriteString(t.text[len(t.text)-1])
	return sb.String()
}
