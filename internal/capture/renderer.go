package capture

import "context"

// Renderer turns a page URL into encoded PNG bytes of the full page.
type Renderer interface {
	Render(ctx context.Context, pageURL string) ([]byte, error)
	Close() error
}

// RendererFactory starts a Renderer. The capture stage calls it only when
// there is at least one page to render.
type RendererFactory func(ctx context.Context) (Renderer, error)
