package layout

import (
	"context"

	"github.com/lvillar/flexdoc/schema"
)

// rect is a containing-block rectangle carried down the place recursion for
// absolutely positioned descendants.
type rect struct {
	x, y, w, h float64
}

// place assigns b's final border-box rectangle and lays out its content.
// ctx is observed between the root's direct children.
func (e *Engine) place(ctx context.Context, b *Box, x, y, w, h float64, isRoot bool) error {
	b.X, b.Y, b.W, b.H = x, y, w, h

	cx, cy, cw, chh := b.ContentRect()
	cb := rect{x: cx, y: cy, w: cw, h: chh}
	return e.placeContent(ctx, b, cb, isRoot)
}

// placeContent lays out b's interior. cb is the containing block for
// absolute descendants whose nearest positioned ancestor is above b.
func (e *Engine) placeContent(ctx context.Context, b *Box, cb rect, isRoot bool) error {
	if b.Style.Position == schema.Relative {
		applyRelativeOffset(b)
	}

	// A positioned box is the containing block for its absolute subtree.
	if b.IsPositioned() || isRoot {
		cx, cy, cw, ch := b.ContentRect()
		cb = rect{x: cx, y: cy, w: cw, h: ch}
	}

	switch b.Kind {
	case schema.Text:
		_, _, cw, _ := b.ContentRect()
		b.Lines = Shape(b.Node.Text, b.Text, cw)
		return nil
	case schema.Image, schema.Svg:
		return nil
	case schema.Table:
		return e.placeTable(ctx, b, cb)
	default:
		return e.placeFlex(ctx, b, cb, isRoot)
	}
}

// applyRelativeOffset shifts a relatively positioned box from its static
// position. Top beats bottom and left beats right when both are set.
func applyRelativeOffset(b *Box) {
	s := b.Style
	switch {
	case s.Top != nil:
		b.Y += *s.Top
	case s.Bottom != nil:
		b.Y -= *s.Bottom
	}
	switch {
	case s.Left != nil:
		b.X += *s.Left
	case s.Right != nil:
		b.X -= *s.Right
	}
}

// childSize is a child's hypothetical extent before flex resolution.
type childSize struct {
	w, h float64
	// stretchH marks a row child whose cross size is still open to adopt
	// the line extent.
	stretchH bool
	// hDefinite marks heights imposed by explicit dimensions.
	hDefinite bool
}

func (e *Engine) placeFlex(ctx context.Context, b *Box, cb rect, isRoot bool) error {
	cx, cy, cw, ch := b.ContentRect()
	if len(b.Children) > 0 && (cw <= 0 || ch <= 0) {
		e.warnf(WarnDegenerate, b.Path, "container content box is %.1fx%.1f; children skipped", cw, ch)
		return nil
	}

	flow := b.InFlow()
	isRow := b.Style.Direction == schema.DirRow
	gap := b.Style.Gap

	sizes := make([]childSize, len(flow))
	for i, c := range flow {
		sizes[i] = e.hypothetical(c, b, cw, ch, isRow)
	}

	outerMain := func(i int) float64 {
		c := flow[i]
		if isRow {
			return sizes[i].w + c.Style.Margin.Horizontal()
		}
		return sizes[i].h + c.Style.Margin.Vertical()
	}
	outerCross := func(i int) float64 {
		c := flow[i]
		if isRow {
			return sizes[i].h + c.Style.Margin.Vertical()
		}
		return sizes[i].w + c.Style.Margin.Horizontal()
	}

	containerMain, containerCross := ch, cw
	if isRow {
		containerMain, containerCross = cw, ch
	}

	// Wrap into lines (one line when wrap is off).
	var lines [][]int
	if b.Style.Wrap && len(flow) > 0 {
		var cur []int
		var lineW float64
		for i := range flow {
			m := outerMain(i)
			if len(cur) > 0 && lineW+gap+m > containerMain+Epsilon {
				lines = append(lines, cur)
				cur = []int{i}
				lineW = m
				continue
			}
			cur = append(cur, i)
			if len(cur) == 1 {
				lineW = m
			} else {
				lineW += gap + m
			}
		}
		if len(cur) > 0 {
			lines = append(lines, cur)
		}
	} else if len(flow) > 0 {
		all := make([]int, len(flow))
		for i := range flow {
			all[i] = i
		}
		lines = [][]int{all}
	}

	crossCursor := 0.0
	for lineIdx, line := range lines {
		e.resolveLineFlex(flow, sizes, line, containerMain, gap, isRow)

		// Main-axis distribution after flex.
		var sumMain float64
		for _, i := range line {
			sumMain += outerMain(i)
		}
		totalGap := gap * float64(len(line)-1)
		free := containerMain - sumMain - totalGap
		lead, spacing := mainDistribution(b.Style.MainAlign, free, len(line))

		// Line cross extent: the container's cross size for a single
		// unwrapped line, the tallest child otherwise.
		lineCross := containerCross
		if b.Style.Wrap && len(lines) > 1 {
			lineCross = 0
			for _, i := range line {
				lineCross = maxf(lineCross, outerCross(i))
			}
		}

		// Stretch and final cross sizes.
		for _, i := range line {
			c := flow[i]
			if isRow {
				if sizes[i].stretchH {
					hh := lineCross - c.Style.Margin.Vertical()
					sizes[i].h = clampDim(hh, c.Style.MinHeight, c.Style.MaxHeight, ch, true)
					sizes[i].hDefinite = true
				}
			} else if b.Style.CrossAlign == schema.CrossStretch && c.Style.Width == nil {
				ww := lineCross - c.Style.Margin.Horizontal()
				ww = clampDim(ww, c.Style.MinWidth, c.Style.MaxWidth, cw, true)
				if ww != sizes[i].w {
					sizes[i].w = ww
					if !sizes[i].hDefinite {
						sizes[i].h = e.heightFor(c, ww, ch, b.DefiniteH)
					}
				}
			}
		}

		mainCursor := lead
		for n, i := range line {
			if isRoot {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			c := flow[i]
			sz := sizes[i]

			var px, py float64
			if isRow {
				px = cx + mainCursor + c.Style.Margin.Left
				py = cy + crossCursor + crossOffset(b.Style.CrossAlign, lineCross, sz.h+c.Style.Margin.Vertical()) + c.Style.Margin.Top
			} else {
				py = cy + mainCursor + c.Style.Margin.Top
				px = cx + crossCursor + crossOffset(b.Style.CrossAlign, lineCross, sz.w+c.Style.Margin.Horizontal()) + c.Style.Margin.Left
			}

			c.DefiniteH = c.DefiniteH || sz.hDefinite
			if err := e.placeChild(ctx, c, px, py, sz.w, sz.h, cb); err != nil {
				return err
			}

			mainCursor += outerMain(i)
			if n < len(line)-1 {
				mainCursor += gap + spacing
			}
		}

		if lineIdx < len(lines)-1 {
			crossCursor += lineCross + gap
		}
	}

	// Absolute children resolve against the nearest positioned ancestor.
	for _, c := range b.Children {
		if c.IsAbsolute() {
			if err := e.placeAbsolute(ctx, c, cb); err != nil {
				return err
			}
		}
	}
	return nil
}

// placeChild places an in-flow child and recurses into its content.
func (e *Engine) placeChild(ctx context.Context, c *Box, x, y, w, h float64, cb rect) error {
	c.X, c.Y, c.W, c.H = x, y, w, h
	return e.placeContent(ctx, c, cb, false)
}

// hypothetical computes a child's main and cross sizes before flex
// resolution: explicit beats stretch beats intrinsic-pref, clamped by
// min/max.
func (e *Engine) hypothetical(c *Box, parent *Box, cw, ch float64, isRow bool) childSize {
	var sz childSize

	w, wok := resolveDim(c.Style.Width, cw, true)
	if !wok {
		if !isRow && parent.Style.CrossAlign == schema.CrossStretch {
			w = cw - c.Style.Margin.Horizontal()
		} else {
			w = c.Pref.W
			if avail := cw - c.Style.Margin.Horizontal(); w > avail && c.Style.Flex == 0 {
				// Overly wide content wraps against the container rather
				// than overflowing on the cross axis.
				if !isRow {
					w = avail
				} else if c.Kind == schema.Text {
					w = avail
				}
			}
		}
	}
	w = clampDim(w, c.Style.MinWidth, c.Style.MaxWidth, cw, true)

	h, hok := resolveDim(c.Style.Height, ch, parent.DefiniteH || c.Style.Height != nil && !c.Style.Height.IsPercent())
	if hok {
		sz.hDefinite = true
	} else {
		if isRow && parent.Style.CrossAlign == schema.CrossStretch {
			sz.stretchH = true
			h = e.heightFor(c, w, ch, parent.DefiniteH)
		} else {
			h = e.heightFor(c, w, ch, parent.DefiniteH)
		}
	}
	h = clampDim(h, c.Style.MinHeight, c.Style.MaxHeight, ch, parent.DefiniteH)

	sz.w, sz.h = w, h
	return sz
}

// heightFor returns the content-derived height of c when laid out at the
// given border-box width.
func (e *Engine) heightFor(c *Box, w float64, availH float64, definiteH bool) float64 {
	in := c.ContentInsets()
	contentW := w - in.Horizontal()
	switch c.Kind {
	case schema.Text:
		lines := Shape(c.Node.Text, c.Text, contentW)
		return float64(len(lines))*c.Text.LinePitch() + in.Vertical()
	case schema.Image, schema.Svg:
		var nw, nh float64
		if c.SvgDoc != nil {
			nw, nh = c.SvgDoc.IntrinsicSize()
		} else if c.Resource != nil {
			nw, nh = c.Resource.NaturalWidth, c.Resource.NaturalHeight
		}
		if _, wok := resolveDim(c.Style.Width, 0, false); !wok && nw > 0 && nh > 0 && w != c.Pref.W {
			// Width was imposed; preserve the aspect ratio.
			return w * nh / nw
		}
		return c.Pref.H
	case schema.Table:
		_, totalH := e.gridForWidth(c, contentW)
		return totalH + in.Vertical()
	default:
		pref, _ := e.containerContentSize(c, contentW, availH-in.Vertical(), definiteH && c.DefiniteH)
		return pref.H + in.Vertical()
	}
}

// resolveLineFlex distributes free space along the main axis: positive free
// space grows flex children proportionally to their weights; negative free
// space shrinks them, but never below their intrinsic minimum.
func (e *Engine) resolveLineFlex(flow []*Box, sizes []childSize, line []int, containerMain, gap float64, isRow bool) {
	var sumMain, totalFlex float64
	for _, i := range line {
		c := flow[i]
		if isRow {
			sumMain += sizes[i].w + c.Style.Margin.Horizontal()
		} else {
			sumMain += sizes[i].h + c.Style.Margin.Vertical()
		}
		totalFlex += c.Style.Flex
	}
	sumMain += gap * float64(len(line)-1)
	free := containerMain - sumMain
	if totalFlex <= 0 || free == 0 {
		return
	}

	if free > 0 {
		unit := free / totalFlex
		for _, i := range line {
			c := flow[i]
			if c.Style.Flex <= 0 {
				continue
			}
			grow := unit * c.Style.Flex
			if isRow {
				sizes[i].w += grow
			} else {
				sizes[i].h += grow
				sizes[i].hDefinite = true
			}
			e.reflowAfterMainChange(c, &sizes[i], isRow)
		}
		return
	}

	// Shrink, iteratively freezing children that hit their minimum.
	deficit := -free
	frozen := make(map[int]bool)
	for deficit > Epsilon/10 {
		var weight float64
		for _, i := range line {
			if !frozen[i] && flow[i].Style.Flex > 0 {
				weight += flow[i].Style.Flex
			}
		}
		if weight <= 0 {
			break
		}
		progressed := false
		remaining := deficit
		for _, i := range line {
			c := flow[i]
			if frozen[i] || c.Style.Flex <= 0 {
				continue
			}
			share := remaining * c.Style.Flex / weight
			min := c.Min.H
			cur := &sizes[i].h
			if isRow {
				min = c.Min.W
				cur = &sizes[i].w
			}
			if *cur-share <= min {
				deficit -= *cur - min
				*cur = min
				frozen[i] = true
			} else {
				*cur -= share
				deficit -= share
			}
			progressed = true
			e.reflowAfterMainChange(c, &sizes[i], isRow)
		}
		if !progressed {
			break
		}
	}
}

// reflowAfterMainChange recomputes a row child's height after flex changed
// its width; column children keep their width.
func (e *Engine) reflowAfterMainChange(c *Box, sz *childSize, isRow bool) {
	if isRow && !sz.hDefinite && !sz.stretchH {
		sz.h = e.heightFor(c, sz.w, 0, false)
	}
}

// mainDistribution returns the leading offset and the extra spacing between
// adjacent children for a main-axis alignment. gap is always honored on top
// of the returned spacing.
func mainDistribution(align schema.MainAlign, free float64, n int) (lead, spacing float64) {
	if free < 0 {
		// Overflow: children start at the leading edge and spill over.
		return 0, 0
	}
	switch align {
	case schema.MainCenter:
		return free / 2, 0
	case schema.MainEnd:
		return free, 0
	case schema.MainSpaceBetween:
		if n > 1 {
			return 0, free / float64(n-1)
		}
		return 0, 0
	case schema.MainSpaceAround:
		share := free / float64(n)
		return share / 2, share
	case schema.MainSpaceEvenly:
		share := free / float64(n+1)
		return share, share
	default:
		return 0, 0
	}
}

// crossOffset returns a child's offset within its line on the cross axis.
func crossOffset(align schema.CrossAlign, lineCross, childOuter float64) float64 {
	switch align {
	case schema.CrossCenter:
		return (lineCross - childOuter) / 2
	case schema.CrossEnd:
		return lineCross - childOuter
	default:
		// start and stretch anchor at the line start.
		return 0
	}
}

// placeAbsolute positions an absolutely positioned box against its
// containing block: the content box of the nearest positioned ancestor, or
// the page. Size comes from two opposite offsets, explicit dimensions, or
// the intrinsic preferred size.
func (e *Engine) placeAbsolute(ctx context.Context, c *Box, cb rect) error {
	s := c.Style

	var w float64
	switch {
	case s.Left != nil && s.Right != nil:
		w = cb.w - *s.Left - *s.Right
	default:
		if v, ok := resolveDim(s.Width, cb.w, true); ok {
			w = v
		} else {
			w = c.Pref.W
		}
	}
	w = clampDim(w, s.MinWidth, s.MaxWidth, cb.w, true)

	var h float64
	switch {
	case s.Top != nil && s.Bottom != nil:
		h = cb.h - *s.Top - *s.Bottom
	default:
		if v, ok := resolveDim(s.Height, cb.h, true); ok {
			h = v
		} else {
			h = e.heightFor(c, w, cb.h, true)
		}
	}
	h = clampDim(h, s.MinHeight, s.MaxHeight, cb.h, true)

	var x float64
	switch {
	case s.Left != nil:
		x = cb.x + *s.Left
	case s.Right != nil:
		x = cb.x + cb.w - w - *s.Right
	default:
		x = cb.x
	}

	var y float64
	switch {
	case s.Top != nil:
		y = cb.y + *s.Top
	case s.Bottom != nil:
		y = cb.y + cb.h - h - *s.Bottom
	default:
		y = cb.y
	}

	c.DefiniteH = true
	c.X, c.Y, c.W, c.H = x, y, w, h
	return e.placeContent(ctx, c, cb, false)
}
