// Package routepath canonicalizes route path templates.
//
// Handler registrations and OpenAPI documents spell path parameters
// differently ("/user/<int:user_id>" vs "/user/{user_id}"). Both forms
// normalize to the curly-brace form with any type prefix stripped, so the
// same endpoint always produces the same key.
package routepath

import "strings"

// Normalize returns the canonical form of path. It is total (never fails on
// malformed input; unbalanced delimiters pass through literally) and
// idempotent.
func Normalize(path string) string {
	key, _ := Split(path)
	return key
}

// Split normalizes path and returns the path parameter names it found, in
// order of first appearance.
func Split(path string) (string, []string) {
	var b strings.Builder
	b.Grow(len(path))
	var params []string
	seen := map[string]bool{}

	for i := 0; i < len(path); {
		var closer byte
		switch path[i] {
		case '{':
			closer = '}'
		case '<':
			closer = '>'
		default:
			b.WriteByte(path[i])
			i++
			continue
		}

		end := strings.IndexByte(path[i+1:], closer)
		if end < 0 {
			// No matching delimiter; keep the character as-is.
			b.WriteByte(path[i])
			i++
			continue
		}

		name := path[i+1 : i+1+end]
		// Strip a converter prefix such as "int:" in "<int:user_id>".
		if j := strings.LastIndexByte(name, ':'); j >= 0 {
			name = name[j+1:]
		}
		b.WriteByte('{')
		b.WriteString(name)
		b.WriteByte('}')
		if name != "" && !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
		i += end + 2
	}
	return b.String(), params
}
