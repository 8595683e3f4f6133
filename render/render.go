package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/logging"
)

// Request is one piece of prose to render.
type Request struct {
	// Kind names what is rendered (a seed template name); used in logs and
	// prompts only.
	Kind string
	// Seed is the chosen template variant.
	Seed string
	// Values fill {name} placeholders.
	Values map[string]string
	// Tags are embedded verbatim as tokens.
	Tags []core.Tag
}

// Tokens returns the embedded token of every tag, space separated.
func (r Request) Tokens() string {
	parts := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		parts[i] = t.Token()
	}
	return strings.Join(parts, " ")
}

// Renderer produces prose for a request.
type Renderer interface {
	Render(ctx context.Context, req Request) (string, error)
}

// Verify reports ErrTagDropped unless every tag token of tags appears in
// text verbatim.
// Complexity: O(T·len(text)).
func Verify(text string, tags []core.Tag) error {
	for _, t := range tags {
		if tok := t.Token(); !strings.Contains(text, tok) {
			return fmt.Errorf("Verify(%s): %s: %w", t.Rule, tok, ErrTagDropped)
		}
	}
	return nil
}

// New builds the renderer selected by cfg.Strategy. The external strategy
// is wrapped in a Chain with the template fallback when cfg.Fallback is set.
// An empty or unknown strategy is a *config.Error.
func New(cfg config.RendererConfig, log *logging.Logger) (Renderer, error) {
	switch cfg.Strategy {
	case "template":
		return Template{}, nil
	case "openai":
		o, err := NewOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		if !cfg.Fallback {
			return o, nil
		}
		return &Chain{Primary: o, Fallback: Template{}, Log: log}, nil
	}
	return nil, &config.Error{Field: "renderer.strategy", Reason: fmt.Sprintf("unknown strategy %q", cfg.Strategy)}
}
