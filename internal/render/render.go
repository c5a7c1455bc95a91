// Package render turns assistant replies into styled terminal output.
package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/diogo/geminichat/internal/config"
)

// Options configures the markdown renderer
type Options struct {
	Width            int
	Style            string // glamour style name or path to a JSON style
	EnableEmoji      bool
	PreserveNewLines bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns o with the given wrap width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// OptionsFromConfig applies the markdown section of cfg. GLAMOUR_STYLE
// overrides the style.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions().WithWidth(width)
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// TermRenderer is not safe for concurrent Render calls, so renderers are
// pooled per option set instead of shared.
var (
	poolsMu sync.Mutex
	pools   = make(map[Options]*sync.Pool)
)

func poolFor(opts Options) *sync.Pool {
	poolsMu.Lock()
	defer poolsMu.Unlock()

	if p, ok := pools[opts]; ok {
		return p
	}
	p := &sync.Pool{}
	pools[opts] = p
	return p
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	r, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r, nil
}

// Markdown renders content with a pooled renderer
func Markdown(content string, opts Options) (string, error) {
	pool := poolFor(opts)

	r, ok := pool.Get().(*glamour.TermRenderer)
	if !ok {
		var err error
		if r, err = newRenderer(opts); err != nil {
			return "", err
		}
	}
	defer pool.Put(r)

	return r.Render(content)
}

// MarkdownOrPlain renders content, falling back to the raw text when the
// renderer fails.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return out
}

// PoolCount returns the number of distinct option sets seen
func PoolCount() int {
	poolsMu.Lock()
	defer poolsMu.Unlock()
	return len(pools)
}
