package layout

import (
	"github.com/lvillar/flexdoc/draw"
	"github.com/lvillar/flexdoc/font"
	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
	"github.com/lvillar/flexdoc/svg"
)

// Ascent approximation used to position the first baseline from the top of
// a line box, as a fraction of the font size.
const baselineFactor = 0.8

// kappa is the cubic Bezier circle approximation constant.
const kappa = 0.5522847498

// Emit walks each page's boxes in pre-order and writes the draw-primitive
// stream to the sink. The stream is deterministic for a given page list.
func Emit(pages []*Page, sink draw.Sink) {
	for _, page := range pages {
		sink.BeginPage(page.W, page.H, page.Background)
		for _, b := range page.Boxes {
			emitBox(b, sink)
		}
		sink.EndPage()
	}
}

func emitBox(b *Box, sink draw.Sink) {
	opacity := b.Style.Opacity
	if opacity <= 0 {
		return
	}
	if opacity < 1 {
		sink.SetOpacity(opacity)
		defer sink.SetOpacity(1)
	}

	r := draw.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
	if bg := b.Style.Background; bg != nil && bg.A > 0 && b.W > 0 && b.H > 0 {
		sink.FillRect(r, *bg, b.Style.Border.Radii)
	}
	if border := b.Style.Border; border.Any() && b.W > 0 && b.H > 0 {
		sink.StrokeBorder(r,
			draw.Edges{Top: border.Top.Width, Right: border.Right.Width, Bottom: border.Bottom.Width, Left: border.Left.Width},
			draw.EdgeColors{Top: border.Top.Color, Right: border.Right.Color, Bottom: border.Bottom.Color, Left: border.Left.Color},
			border.Radii)
	}

	switch b.Kind {
	case schema.Text:
		emitText(b, sink)
	case schema.Image:
		emitImage(b, sink)
	case schema.Svg:
		emitSvg(b, sink)
	default:
		for _, c := range b.Children {
			emitBox(c, sink)
		}
	}
}

func emitText(b *Box, sink draw.Sink) {
	cx, cy, _, _ := b.ContentRect()
	pitch := b.Text.LinePitch()
	size := b.Text.FontSize
	key := font.LookupVariant(b.Text.Bold, b.Text.Italic).Key()

	for i, line := range b.Lines {
		if len(line.Words) == 0 {
			continue
		}
		baseline := cy + float64(i)*pitch + size*baselineFactor
		if line.ExtraGap > 0 {
			// Justified: each word is its own run at its slack-adjusted
			// position.
			x := cx + line.XOffset
			for _, w := range line.Words {
				sink.DrawText(x, baseline, w.Text, key, size, b.Text.Color)
				x += w.Width + line.SpaceW + line.ExtraGap
			}
			continue
		}
		sink.DrawText(cx+line.XOffset, baseline, line.Text(), key, size, b.Text.Color)
	}
}

func emitImage(b *Box, sink draw.Sink) {
	if b.Resource == nil || b.Resource.Kind != resource.KindImage {
		emitPlaceholder(b, sink)
		return
	}
	box := draw.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
	placement := fitRect(box, b.Resource.NaturalWidth, b.Resource.NaturalHeight, b.Style.ObjectFit)
	sink.DrawImage(box, b.Resource, b.Style.ObjectFit, placement)
}

// fitRect computes the fitted rectangle of natural-size content inside box
// per the objectFit rules. Cover overflows the box; the sink clips it.
func fitRect(box draw.Rect, naturalW, naturalH float64, fit schema.ObjectFit) draw.Rect {
	if naturalW <= 0 || naturalH <= 0 || box.W <= 0 || box.H <= 0 {
		return box
	}
	imgAspect := naturalW / naturalH
	boxAspect := box.W / box.H

	contain := func() (w, h float64) {
		if imgAspect > boxAspect {
			return box.W, box.W / imgAspect
		}
		return box.H * imgAspect, box.H
	}

	var w, h float64
	switch fit {
	case schema.FitFill:
		return box
	case schema.FitCover:
		if imgAspect > boxAspect {
			w, h = box.H*imgAspect, box.H
		} else {
			w, h = box.W, box.W/imgAspect
		}
	case schema.FitNone:
		w, h = naturalW, naturalH
	case schema.FitScaleDown:
		cw, chh := contain()
		if naturalW <= cw && naturalH <= chh {
			w, h = naturalW, naturalH
		} else {
			w, h = cw, chh
		}
	default: // contain
		w, h = contain()
	}
	return draw.Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

func emitSvg(b *Box, sink draw.Sink) {
	if b.SvgDoc == nil {
		emitPlaceholder(b, sink)
		return
	}
	doc := b.SvgDoc
	cx, cy, cw, chh := b.ContentRect()
	iw, ih := doc.IntrinsicSize()
	if iw <= 0 || ih <= 0 || cw <= 0 || chh <= 0 {
		return
	}
	scale := cw / iw
	if s := chh / ih; s < scale {
		scale = s
	}
	tf := draw.Transform{TranslateX: cx, TranslateY: cy, Scale: scale}
	if doc.ViewBox != nil {
		tf.TranslateX -= doc.ViewBox.MinX * scale
		tf.TranslateY -= doc.ViewBox.MinY * scale
	}

	for _, el := range doc.Elements {
		cmds, style, ok := elementPath(el)
		if !ok {
			continue
		}
		fill := fadeColor(style.Fill, style.Opacity)
		stroke := fadeColor(style.Stroke, style.Opacity)
		if fill == nil && stroke == nil {
			continue
		}
		sink.DrawPath(cmds, fill, stroke, style.StrokeWidth*scale, tf)
	}
}

// fadeColor applies an element opacity to a paint, dropping fully
// transparent paints.
func fadeColor(c *schema.Color, opacity float64) *schema.Color {
	if c == nil {
		return nil
	}
	out := *c
	if opacity < 1 {
		out.A *= opacity
	}
	if out.A <= 0 {
		return nil
	}
	return &out
}

// elementPath converts an SVG primitive to a normalized path command list.
func elementPath(el svg.Element) ([]svg.PathCommand, svg.Style, bool) {
	switch s := el.(type) {
	case svg.Path:
		return s.Commands, s.Style, true
	case svg.Rect:
		if s.Width <= 0 || s.Height <= 0 {
			return nil, svg.Style{}, false
		}
		return []svg.PathCommand{
			{Op: svg.MoveTo, Args: []float64{s.X, s.Y}},
			{Op: svg.LineTo, Args: []float64{s.X + s.Width, s.Y}},
			{Op: svg.LineTo, Args: []float64{s.X + s.Width, s.Y + s.Height}},
			{Op: svg.LineTo, Args: []float64{s.X, s.Y + s.Height}},
			{Op: svg.ClosePath},
		}, s.Style, true
	case svg.Circle:
		return ellipsePath(s.CX, s.CY, s.R, s.R), s.Style, true
	case svg.Ellipse:
		return ellipsePath(s.CX, s.CY, s.RX, s.RY), s.Style, true
	case svg.Line:
		st := s.Style
		st.Fill = nil
		return []svg.PathCommand{
			{Op: svg.MoveTo, Args: []float64{s.X1, s.Y1}},
			{Op: svg.LineTo, Args: []float64{s.X2, s.Y2}},
		}, st, true
	case svg.Polyline:
		st := s.Style
		st.Fill = nil
		return pointsPath(s.Points, false), st, true
	case svg.Polygon:
		return pointsPath(s.Points, true), s.Style, true
	default:
		return nil, svg.Style{}, false
	}
}

// ellipsePath approximates an ellipse with four cubic Bezier quarters.
func ellipsePath(cx, cy, rx, ry float64) []svg.PathCommand {
	kx, ky := rx*kappa, ry*kappa
	return []svg.PathCommand{
		{Op: svg.MoveTo, Args: []float64{cx + rx, cy}},
		{Op: svg.CurveTo, Args: []float64{cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry}},
		{Op: svg.CurveTo, Args: []float64{cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy}},
		{Op: svg.CurveTo, Args: []float64{cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry}},
		{Op: svg.CurveTo, Args: []float64{cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy}},
		{Op: svg.ClosePath},
	}
}

func pointsPath(pts []svg.Point, closed bool) []svg.PathCommand {
	if len(pts) == 0 {
		return nil
	}
	cmds := make([]svg.PathCommand, 0, len(pts)+1)
	cmds = append(cmds, svg.PathCommand{Op: svg.MoveTo, Args: []float64{pts[0].X, pts[0].Y}})
	for _, pt := range pts[1:] {
		cmds = append(cmds, svg.PathCommand{Op: svg.LineTo, Args: []float64{pt.X, pt.Y}})
	}
	if closed {
		cmds = append(cmds, svg.PathCommand{Op: svg.ClosePath})
	}
	return cmds
}

// emitPlaceholder paints the light-gray box used when a resource failed to
// resolve.
func emitPlaceholder(b *Box, sink draw.Sink) {
	if b.W <= 0 || b.H <= 0 {
		return
	}
	r := draw.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
	sink.FillRect(r, schema.Color{R: 230, G: 230, B: 230, A: 1}, draw.Radii{})
	edge := draw.Edges{Top: 1, Right: 1, Bottom: 1, Left: 1}
	gray := schema.Color{R: 179, G: 179, B: 179, A: 1}
	sink.StrokeBorder(r, edge, draw.EdgeColors{Top: gray, Right: gray, Bottom: gray, Left: gray}, draw.Radii{})
}
