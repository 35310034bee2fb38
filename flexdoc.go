// Package flexdoc renders a declarative, JSON-described document tree into
// a paginated stream of draw primitives.
//
// The document model is flexbox-inspired: a tree of typed nodes (page,
// view, text, image, svg, table, row, cell) carrying style attributes. A
// render runs the layout pipeline — build, measure, place, paginate, emit —
// and writes absolutely positioned primitives (rectangles, text runs,
// raster blits, vector paths) to a draw.Sink, typically backed by a PDF
// byte-encoder.
//
//	rec := draw.NewRecorder()
//	result, err := flexdoc.New().Render(ctx, payload, rec)
//
// Rendering is single-threaded per request; a Renderer is safe for
// concurrent use because every render gets its own engine and resource
// cache.
package flexdoc

import (
	"context"

	"go.uber.org/zap"

	"github.com/lvillar/flexdoc/draw"
	"github.com/lvillar/flexdoc/layout"
	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
)

// Result is the outcome of a successful render: the number of pages
// emitted and the warnings accumulated along the way. Warnings cover
// resource failures, degenerate layouts and pagination clips; they never
// abort the render.
type Result struct {
	PageCount int              `json:"pageCount"`
	Warnings  []layout.Warning `json:"warnings,omitempty"`
}

// Renderer renders JSON payloads. Create one with New and reuse it across
// renders.
type Renderer struct {
	cfg config
}

// New returns a Renderer configured by the given options.
func New(opts ...Option) *Renderer {
	cfg := config{prewarm: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.resolver == nil {
		client := resource.NewClient()
		client.BaseDir = cfg.baseDir
		cfg.resolver = client
	}
	return &Renderer{cfg: cfg}
}

// Render decodes, validates and renders a JSON payload, writing the
// primitive stream to sink.
func (r *Renderer) Render(ctx context.Context, payload []byte, sink draw.Sink) (*Result, error) {
	p, err := schema.Decode(payload)
	if err != nil {
		return nil, renderErr("decode", err)
	}
	return r.RenderPayload(ctx, p, sink)
}

// RenderPayload renders an already-decoded payload.
func (r *Renderer) RenderPayload(ctx context.Context, p *schema.Payload, sink draw.Sink) (*Result, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	if err := schema.Validate(p); err != nil {
		return nil, renderErr("validate", err)
	}

	cache := resource.NewCache(r.cfg.resolver)
	if r.cfg.prewarm {
		cache.Prewarm(ctx, collectSources(p.Root))
	}

	eng := layout.NewEngine(cache)
	root, err := eng.Layout(ctx, p.Root)
	if err != nil {
		return nil, renderErr("layout", err)
	}
	pages, err := eng.Paginate(ctx, root)
	if err != nil {
		return nil, renderErr("paginate", err)
	}
	layout.Emit(pages, sink)

	res := &Result{PageCount: len(pages), Warnings: eng.Warnings()}
	if r.cfg.logger != nil {
		for _, w := range res.Warnings {
			r.cfg.logger.Warn("render warning",
				zap.String("code", w.Code),
				zap.String("path", w.Path),
				zap.String("message", w.Message))
		}
	}
	return res, nil
}

// collectSources gathers every image and SVG source in the tree for the
// concurrent pre-warm.
func collectSources(n *schema.Node) []string {
	var srcs []string
	var walk func(*schema.Node)
	walk = func(n *schema.Node) {
		if n == nil {
			return
		}
		switch n.Type {
		case schema.Image, schema.Svg:
			if n.Src != "" {
				srcs = append(srcs, n.Src)
			} else if n.Content != "" {
				srcs = append(srcs, n.Content)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return srcs
}
