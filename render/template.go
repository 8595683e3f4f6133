package render

import (
	"context"
	"fmt"
	"strings"
)

const tagPlaceholder = "{tag}"

// Template fills placeholders deterministically. It never fails on a
// request whose placeholders all have values.
type Template struct{}

// Render implements Renderer.
// Complexity: O(len(seed) + len(tokens)).
func (Template) Render(_ context.Context, req Request) (string, error) {
	return Fill(req)
}

// Fill substitutes every {name} placeholder of req.Seed. {tag} expands to
// the request tokens; without it the tokens are appended.
func Fill(req Request) (string, error) {
	var b strings.Builder
	seed := req.Seed
	tagged := false
	for {
		i := strings.IndexByte(seed, '{')
		if i < 0 {
			b.WriteString(seed)
			break
		}
		j := strings.IndexByte(seed[i:], '}')
		if j < 0 {
			b.WriteString(seed)
			break
		}
		b.WriteString(seed[:i])
		key := seed[i : i+j+1]
		if key == tagPlaceholder {
			b.WriteString(req.Tokens())
			tagged = true
		} else {
			v, ok := req.Values[key[1:len(key)-1]]
			if !ok {
				return "", fmt.Errorf("Fill(%s): %s: %w", req.Kind, key, ErrMissingValue)
			}
			b.WriteString(v)
		}
		seed = seed[i+j+1:]
	}
	if !tagged && len(req.Tags) > 0 {
		b.WriteByte(' ')
		b.WriteString(req.Tokens())
	}
	return strings.TrimSpace(b.String()), nil
}
