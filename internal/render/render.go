package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// minWidth keeps glamour from wrapping every word on tiny terminals.
const minWidth = 20

// Renderer renders markdown with a given style, caching one glamour
// renderer per width. glamour.TermRenderer is not safe for concurrent
// Render calls, so each cached renderer is guarded by its own mutex.
type Renderer struct {
	opts Options

	mu    sync.Mutex
	cache map[int]*cachedRenderer
}

type cachedRenderer struct {
	mu sync.Mutex
	r  *glamour.TermRenderer
}

// New creates a Renderer. opts.Width is ignored; pass the width per call.
func New(opts Options) *Renderer {
	return &Renderer{
		opts:  opts,
		cache: make(map[int]*cachedRenderer),
	}
}

func (r *Renderer) get(width int) (*cachedRenderer, error) {
	if width < minWidth {
		width = minWidth
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[width]; ok {
		return c, nil
	}

	tr, err := createRenderer(r.opts.WithWidth(width))
	if err != nil {
		return nil, err
	}
	c := &cachedRenderer{r: tr}
	r.cache[width] = c
	return c, nil
}

// Render renders content wrapped at width, without trailing newlines.
func (r *Renderer) Render(content string, width int) (string, error) {
	c, err := r.get(width)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	out, err := c.r.Render(content)
	c.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// RenderOrPlain renders content and falls back to the raw text on error.
func (r *Renderer) RenderOrPlain(content string, width int) string {
	out, err := r.Render(content, width)
	if err != nil {
		return content
	}
	return out
}

// CacheSize returns the number of cached widths.
func (r *Renderer) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// createRenderer creates a new TermRenderer with the specified options.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithPreservedNewLines(),
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}
