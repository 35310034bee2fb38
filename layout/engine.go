package layout

import (
	"context"
	"fmt"

	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
	"github.com/lvillar/flexdoc/svg"
)

// Warning codes accumulated during a render.
const (
	WarnResource   = "resource"
	WarnDegenerate = "degenerate-layout"
	WarnOverflow   = "page-overflow"
)

// Warning is a non-fatal problem found during layout or pagination,
// attributed to a node path.
type Warning struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Engine runs the layout passes for a single render. It is not safe for
// concurrent use; create one Engine per render.
type Engine struct {
	resolver resource.Resolver
	warnings []Warning
}

// NewEngine returns an Engine. resolver may be nil, in which case every
// image and SVG renders as a placeholder.
func NewEngine(resolver resource.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Warnings returns the warnings accumulated so far, in discovery order.
func (e *Engine) Warnings() []Warning { return e.warnings }

func (e *Engine) warnf(code, path, format string, args ...any) {
	e.warnings = append(e.warnings, Warning{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Layout builds, measures and places the tree for the given root node. The
// returned box is the page root, placed at the origin with the page's
// declared size; content may extend below the page height, to be split by
// Paginate. ctx is observed between the root's direct children.
func (e *Engine) Layout(ctx context.Context, root *schema.Node) (*Box, error) {
	b := Build(root)

	pageW, pageH := DefaultPageWidth, DefaultPageHeight
	if w, ok := resolveDim(b.Style.Width, 0, false); ok {
		pageW = w
	}
	if h, ok := resolveDim(b.Style.Height, 0, false); ok {
		pageH = h
	}

	e.measure(b, pageW, pageH, true)
	if err := e.place(ctx, b, 0, 0, pageW, pageH, true); err != nil {
		return nil, err
	}
	return b, nil
}

// resolveResource fetches the box's image or SVG source, recording a
// warning on failure. The box keeps a nil Resource in that case and renders
// as a placeholder.
func (e *Engine) resolveResource(b *Box) {
	if b.resourceDone {
		return
	}
	b.resourceDone = true
	src := b.Node.Src
	if src == "" {
		src = b.Node.Content
	}
	if src == "" {
		e.warnf(WarnResource, b.Path, "%s node has no src", b.Kind)
		return
	}
	if e.resolver == nil {
		e.warnf(WarnResource, b.Path, "no resolver configured for %s", b.Kind)
		return
	}
	res, err := e.resolver.Resolve(context.Background(), src)
	if err != nil {
		e.warnf(WarnResource, b.Path, "resolving source: %v", err)
		return
	}
	b.Resource = res
	if res.Kind == resource.KindSvg {
		doc, err := svg.Parse(string(res.Bytes))
		if err != nil {
			e.warnf(WarnResource, b.Path, "parsing svg: %v", err)
			b.Resource = nil
			return
		}
		b.SvgDoc = doc
	}
}
