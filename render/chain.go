package render

import (
	"context"

	"github.com/katalvlaran/mpcbench/logging"
)

// Chain renders with Primary and falls back to Fallback when Primary fails
// or its output drops a tag. Fallback errors are returned as is.
type Chain struct {
	Primary  Renderer
	Fallback Renderer
	Log      *logging.Logger
}

// Render implements Renderer.
func (c *Chain) Render(ctx context.Context, req Request) (string, error) {
	text, err := c.Primary.Render(ctx, req)
	if err == nil {
		err = Verify(text, req.Tags)
	}
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if c.Log != nil {
		c.Log.Warn("renderer fallback", "kind", req.Kind, "error", err)
	}
	return c.Fallback.Render(ctx, req)
}
