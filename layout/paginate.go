package layout

import (
	"context"
	"math"

	"github.com/lvillar/flexdoc/schema"
)

// Page is one output page: its size, background and the top-level boxes
// assigned to it, all in page-local coordinates (top of page = 0).
type Page struct {
	W, H       float64
	Background *schema.Color
	Boxes      []*Box
}

// Paginate splits the placed page root into fixed-size pages. Breaks happen
// only at safe points: between in-flow siblings, between text lines and
// between table rows. A box that cannot be split and is taller than a page
// is clipped with a warning. ctx is checked before each top-level child is
// assigned; pages started while splitting a single child are not checked.
func (e *Engine) Paginate(ctx context.Context, root *Box) ([]*Page, error) {
	in := root.ContentInsets()
	p := &paginator{
		engine:        e,
		pageW:         root.W,
		pageH:         root.H,
		background:    root.Style.Background,
		contentTop:    in.Top,
		contentBottom: root.H - in.Bottom,
	}
	p.contentH = p.contentBottom - p.contentTop
	if p.contentH <= 0 {
		e.warnf(WarnDegenerate, root.Path, "page content height is %.1f", p.contentH)
		return []*Page{p.newPage(0)}, nil
	}
	p.newPage(0)

	for _, c := range root.InFlow() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.placeTop(c)
	}
	// Page-level absolute children attach to the first page.
	for _, c := range root.Children {
		if c.IsAbsolute() {
			p.pages[0].Boxes = append(p.pages[0].Boxes, cloneShift(c, 0))
		}
	}
	return p.pages, nil
}

type paginator struct {
	engine *Engine

	pageW, pageH  float64
	background    *schema.Color
	contentTop    float64
	contentBottom float64
	contentH      float64

	pages []*Page
	// shift maps flow coordinates (the infinite first-page layout) onto the
	// current page: local y = flow y - shift.
	shift float64
}

func (p *paginator) newPage(shift float64) *Page {
	pg := &Page{W: p.pageW, H: p.pageH, Background: p.background}
	p.pages = append(p.pages, pg)
	p.shift = shift
	return pg
}

func (p *paginator) cur() *Page { return p.pages[len(p.pages)-1] }

func (p *paginator) add(b *Box) { p.cur().Boxes = append(p.cur().Boxes, b) }

// placeTop assigns one top-level in-flow box to pages.
func (p *paginator) placeTop(b *Box) {
	localBottom := b.Y + b.H - p.shift
	if localBottom <= p.contentBottom+Epsilon {
		p.add(cloneShift(b, p.shift))
		return
	}
	if b.H <= p.contentH+Epsilon {
		p.newPage(b.Y - p.contentTop)
		p.add(cloneShift(b, p.shift))
		return
	}
	p.split(b)
}

// split distributes a box taller than a page across pages at a safe break.
func (p *paginator) split(b *Box) {
	switch {
	case b.Kind == schema.Text && len(b.Lines) > 1:
		p.splitText(b)
	case b.Kind == schema.Table && len(b.InFlow()) > 1:
		p.splitRows(b)
	case isColumnContainer(b) && len(b.InFlow()) > 0:
		p.splitColumn(b)
	default:
		// Unsplittable (image, svg, single line, row container): clip.
		p.newPage(b.Y - p.contentTop)
		c := cloneShift(b, p.shift)
		c.H = p.contentH
		p.engine.warnf(WarnOverflow, b.Path, "box height %.1f exceeds page content height %.1f; clipped", b.H, p.contentH)
		p.add(c)
	}
}

func isColumnContainer(b *Box) bool {
	switch b.Kind {
	case schema.Page, schema.View, schema.Cell:
		return b.Style.Direction == schema.DirColumn
	}
	return false
}

// splitText distributes a text box's lines across pages, never cutting
// through a line.
func (p *paginator) splitText(b *Box) {
	in := b.ContentInsets()
	pitch := b.Text.LinePitch()
	total := len(b.Lines)
	s := 0

	for s < total {
		localTop := p.contentTop
		if s == 0 {
			localTop = b.Y - p.shift
		}
		avail := p.contentBottom - localTop
		k := int(math.Floor((avail - in.Vertical() + Epsilon) / pitch))
		if k < 1 {
			if s == 0 && localTop > p.contentTop {
				// No room on the current page; retry from a fresh one.
				p.newPage(b.Y - p.contentTop)
				continue
			}
			k = 1
			p.engine.warnf(WarnOverflow, b.Path, "text line taller than page content; clipped")
		}
		if k > total-s {
			k = total - s
		}

		slice := shallowClone(b)
		slice.Y = localTop
		slice.H = in.Vertical() + float64(k)*pitch
		slice.Lines = b.Lines[s : s+k]
		p.add(slice)

		s += k
		if s < total {
			p.newPage(b.Y + float64(s)*pitch - p.contentTop)
		}
	}
}

// splitRows distributes a table between its rows.
func (p *paginator) splitRows(b *Box) {
	rows := b.InFlow()
	slice := p.openSlice(b, b.Y-p.shift)

	for _, row := range rows {
		localBottom := row.Y + row.H - p.shift
		if localBottom <= p.contentBottom+Epsilon {
			slice.Children = append(slice.Children, cloneShift(row, p.shift))
			continue
		}
		p.closeSlice(slice)
		if row.H <= p.contentH+Epsilon {
			p.newPage(row.Y - p.contentTop)
			slice = p.openSlice(b, p.contentTop)
			slice.Children = append(slice.Children, cloneShift(row, p.shift))
			continue
		}
		// A single row taller than a page: clip it.
		p.newPage(row.Y - p.contentTop)
		slice = p.openSlice(b, p.contentTop)
		clipped := cloneShift(row, p.shift)
		clipped.H = p.contentH
		p.engine.warnf(WarnOverflow, row.Path, "table row height %.1f exceeds page content height %.1f; clipped", row.H, p.contentH)
		slice.Children = append(slice.Children, clipped)
	}
	p.finishSlice(slice, b)
}

// splitColumn distributes a column container between its children,
// recursing into children that are themselves taller than a page.
func (p *paginator) splitColumn(b *Box) {
	slice := p.openSlice(b, b.Y-p.shift)
	for _, c := range b.Children {
		if c.IsAbsolute() {
			// Absolute descendants attach to the first slice.
			slice.Children = append(slice.Children, cloneShift(c, p.shift))
		}
	}

	for _, c := range b.InFlow() {
		localBottom := c.Y + c.H - p.shift
		if localBottom <= p.contentBottom+Epsilon {
			slice.Children = append(slice.Children, cloneShift(c, p.shift))
			continue
		}
		p.closeSlice(slice)
		if c.H <= p.contentH+Epsilon {
			p.newPage(c.Y - p.contentTop)
			slice = p.openSlice(b, p.contentTop)
			slice.Children = append(slice.Children, cloneShift(c, p.shift))
			continue
		}
		p.split(c)
		slice = p.openSlice(b, c.Y+c.H-p.shift)
	}
	p.finishSlice(slice, b)
}

// openSlice starts a chrome slice of b (background, border) on the current
// page at the given local y, with no children yet.
func (p *paginator) openSlice(b *Box, localY float64) *Box {
	s := shallowClone(b)
	s.Y = localY
	s.H = 0
	p.add(s)
	return s
}

// closeSlice extends a chrome slice to the bottom of the page content.
func (p *paginator) closeSlice(s *Box) {
	s.H = p.contentBottom - s.Y
}

// finishSlice sets the final slice's height from the box's flow bottom,
// capped at the page content bottom.
func (p *paginator) finishSlice(s *Box, b *Box) {
	bottom := b.Y + b.H - p.shift
	if bottom > p.contentBottom {
		bottom = p.contentBottom
	}
	s.H = maxf(bottom-s.Y, 0)
}

// shallowClone copies a box without its children.
func shallowClone(b *Box) *Box {
	c := *b
	c.Children = nil
	return &c
}

// cloneShift deep-copies a subtree, translating every y by -shift.
func cloneShift(b *Box, shift float64) *Box {
	c := *b
	c.Y -= shift
	c.Children = make([]*Box, len(b.Children))
	for i, child := range b.Children {
		c.Children[i] = cloneShift(child, shift)
	}
	return &c
}
