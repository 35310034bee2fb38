// Package layout implements the measure/place layout engine, text shaping,
// table layout, pagination and draw emission for the flexdoc document model.
//
// The passes share one mutable Box tree built from the immutable schema
// tree: Build resolves styles, Measure annotates intrinsic sizes, Place
// assigns final rectangles, Paginate splits the placed tree into pages and
// Emit walks each page into a draw.Sink.
package layout

import (
	"strconv"

	"github.com/lvillar/flexdoc/draw"
	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
	"github.com/lvillar/flexdoc/svg"
)

// Epsilon absorbs float drift in placement comparisons.
const Epsilon = 0.5

// Default page size (A4 in points).
const (
	DefaultPageWidth  = 595.0
	DefaultPageHeight = 842.0
)

// Insets are per-side extents (padding, margin or border widths).
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns left + right.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical returns top + bottom.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// BorderEdge is one side of a border.
type BorderEdge struct {
	Width float64
	Color schema.Color
}

// Borders is the resolved border specification of a box.
type Borders struct {
	Top, Right, Bottom, Left BorderEdge
	Radii                    draw.Radii
}

// Any reports whether any side has positive width.
func (b Borders) Any() bool {
	return b.Top.Width > 0 || b.Right.Width > 0 || b.Bottom.Width > 0 || b.Left.Width > 0
}

// Widths returns the four side widths as Insets.
func (b Borders) Widths() Insets {
	return Insets{Top: b.Top.Width, Right: b.Right.Width, Bottom: b.Bottom.Width, Left: b.Left.Width}
}

// TextStyle is the resolved, inheritable text style of a box.
type TextStyle struct {
	FontSize   float64
	Bold       bool
	Italic     bool
	Align      schema.TextAlign
	LineHeight float64
	Color      schema.Color
}

// DefaultTextStyle returns the root text style: 12pt regular black,
// left-aligned, line height 1.2.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontSize:   12,
		Align:      schema.AlignLeft,
		LineHeight: 1.2,
		Color:      schema.Black(),
	}
}

// LinePitch returns the height of one text line in points.
func (t TextStyle) LinePitch() float64 { return t.FontSize * t.LineHeight }

// Resolved is the normalized, non-inherited box style.
type Resolved struct {
	Width, Height       *schema.Dimension
	MinWidth, MinHeight *schema.Dimension
	MaxWidth, MaxHeight *schema.Dimension

	Position                 schema.Position
	Top, Right, Bottom, Left *float64

	Direction  schema.Direction
	Wrap       bool
	MainAlign  schema.MainAlign
	CrossAlign schema.CrossAlign
	Gap        float64
	Flex       float64

	Padding Insets
	Margin  Insets
	Border  Borders

	Background *schema.Color
	Opacity    float64

	ObjectFit schema.ObjectFit
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Box is one node of the layout tree. Fields are filled by successive
// passes: Build sets styles, Measure sets the intrinsic sizes, Place sets
// the final rectangle (page-local coordinates, y growing down), and the
// text/table sub-layouts fill Lines and Grid.
type Box struct {
	Kind schema.NodeType
	Node *schema.Node
	Path string

	Style Resolved
	Text  TextStyle

	Children []*Box

	// Intrinsic sizes from the measure pass.
	Min  Size
	Pref Size

	// Final border-box rectangle.
	X, Y, W, H float64

	// Whether the height was imposed (explicit, stretch, flex or table row)
	// rather than derived from content; percentage heights of children
	// degrade to auto when this is false.
	DefiniteH bool

	// Shaped text lines (text boxes only).
	Lines []Line

	// Resolved grid (table boxes only).
	Grid *Grid

	// Resolved resource (image/svg boxes; nil when resolution failed).
	Resource *resource.Resource
	// Parsed SVG document (svg boxes with a resolvable source).
	SvgDoc *svg.Document

	// resourceDone guards against re-resolving (and re-warning) when the
	// subtree is measured more than once.
	resourceDone bool
}

// ContentInsets returns padding plus border widths, the distance from the
// border box to the content box.
func (b *Box) ContentInsets() Insets {
	p, bw := b.Style.Padding, b.Style.Border.Widths()
	return Insets{
		Top:    p.Top + bw.Top,
		Right:  p.Right + bw.Right,
		Bottom: p.Bottom + bw.Bottom,
		Left:   p.Left + bw.Left,
	}
}

// ContentRect returns the content box rectangle.
func (b *Box) ContentRect() (x, y, w, h float64) {
	in := b.ContentInsets()
	return b.X + in.Left, b.Y + in.Top, b.W - in.Horizontal(), b.H - in.Vertical()
}

// OuterW returns the border-box width plus horizontal margins.
func (b *Box) OuterW() float64 { return b.W + b.Style.Margin.Horizontal() }

// OuterH returns the border-box height plus vertical margins.
func (b *Box) OuterH() float64 { return b.H + b.Style.Margin.Vertical() }

// IsAbsolute reports whether the box is absolutely positioned.
func (b *Box) IsAbsolute() bool { return b.Style.Position == schema.Absolute }

// IsPositioned reports whether the box establishes a containing block for
// absolute descendants.
func (b *Box) IsPositioned() bool {
	return b.Style.Position == schema.Relative || b.Style.Position == schema.Absolute
}

// ColSpan returns the cell's column span, at least 1.
func (b *Box) ColSpan() int {
	if b.Node != nil && b.Node.ColSpan > 1 {
		return b.Node.ColSpan
	}
	return 1
}

// RowSpan returns the cell's row span, at least 1.
func (b *Box) RowSpan() int {
	if b.Node != nil && b.Node.RowSpan > 1 {
		return b.Node.RowSpan
	}
	return 1
}

// InFlow returns the non-absolute children.
func (b *Box) InFlow() []*Box {
	out := make([]*Box, 0, len(b.Children))
	for _, c := range b.Children {
		if !c.IsAbsolute() {
			out = append(out, c)
		}
	}
	return out
}

// Build converts a node tree into a layout tree, resolving box styles and
// cascading the text style top-down.
func Build(node *schema.Node) *Box {
	return build(node, DefaultTextStyle(), "root")
}

func build(node *schema.Node, inherited TextStyle, path string) *Box {
	b := &Box{
		Kind: node.Type,
		Node: node,
		Path: path,
	}
	b.Style = resolveStyle(node)
	b.Text = resolveText(node.Style, inherited)
	for i, child := range node.Children {
		b.Children = append(b.Children, build(child, b.Text, childPath(path, i)))
	}
	return b
}

func childPath(parent string, i int) string {
	// Matches the schema validator's path syntax.
	return parent + ".children[" + strconv.Itoa(i) + "]"
}

// resolveStyle normalizes a node's raw style: shorthands expand to
// per-side values, defaults fill in, and enum zero values become their
// documented defaults.
func resolveStyle(node *schema.Node) Resolved {
	s := node.Style
	if s == nil {
		s = &schema.Style{}
	}

	r := Resolved{
		Width:     s.Width,
		Height:    s.Height,
		MinWidth:  s.MinWidth,
		MinHeight: s.MinHeight,
		MaxWidth:  s.MaxWidth,
		MaxHeight: s.MaxHeight,

		Position: schema.Static,
		Top:      s.Top,
		Right:    s.Right,
		Bottom:   s.Bottom,
		Left:     s.Left,

		Direction:  schema.DirColumn,
		MainAlign:  schema.MainStart,
		CrossAlign: schema.CrossStretch,

		Background: s.BackgroundColor,
		Opacity:    1,
		ObjectFit:  schema.FitContain,
	}

	if s.Position != nil {
		r.Position = *s.Position
	}
	if s.Direction != nil {
		r.Direction = *s.Direction
	}
	if s.Wrap != nil {
		r.Wrap = *s.Wrap
	}
	if s.MainAlign != nil {
		r.MainAlign = *s.MainAlign
	}
	if s.CrossAlign != nil {
		r.CrossAlign = *s.CrossAlign
	}
	if s.Gap != nil {
		r.Gap = *s.Gap
	}
	if s.Flex != nil {
		r.Flex = *s.Flex
	}
	if s.Opacity != nil {
		r.Opacity = clamp(*s.Opacity, 0, 1)
	}
	if s.ObjectFit != nil {
		r.ObjectFit = *s.ObjectFit
	}

	r.Padding.Top, r.Padding.Right, r.Padding.Bottom, r.Padding.Left = s.PaddingTRBL()
	r.Margin.Top, r.Margin.Right, r.Margin.Bottom, r.Margin.Left = s.MarginTRBL()

	wt, wr, wb, wl := s.BorderWidths()
	ct, cr, cb, cl := s.BorderColors()
	tl, tr, br, bl := s.BorderRadii()
	r.Border = Borders{
		Top:    BorderEdge{Width: wt, Color: ct},
		Right:  BorderEdge{Width: wr, Color: cr},
		Bottom: BorderEdge{Width: wb, Color: cb},
		Left:   BorderEdge{Width: wl, Color: cl},
		Radii:  draw.Radii{TopLeft: tl, TopRight: tr, BottomRight: br, BottomLeft: bl},
	}

	return r
}

// resolveText cascades the text style field by field: any unset field on
// the node adopts the inherited value.
func resolveText(s *schema.Style, inherited TextStyle) TextStyle {
	t := inherited
	if s == nil {
		return t
	}
	if s.FontSize != nil {
		t.FontSize = *s.FontSize
	}
	if s.FontWeight != nil {
		t.Bold = *s.FontWeight == schema.WeightBold
	}
	if s.FontStyle != nil {
		t.Italic = *s.FontStyle == schema.StyleItalic
	}
	if s.TextAlign != nil {
		t.Align = *s.TextAlign
	}
	if s.LineHeight != nil {
		t.LineHeight = *s.LineHeight
	}
	if s.Color != nil {
		t.Color = *s.Color
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resolveDim resolves an optional dimension against a reference axis.
// Percentages with an indefinite reference degrade to unresolved.
func resolveDim(d *schema.Dimension, reference float64, definite bool) (float64, bool) {
	if d == nil || d.IsAuto() {
		return 0, false
	}
	if d.IsPercent() {
		if !definite {
			return 0, false
		}
		return d.Resolve(reference), true
	}
	return d.Value, true
}

// clampDim applies optional min/max constraints to v.
func clampDim(v float64, min, max *schema.Dimension, reference float64, definite bool) float64 {
	if lo, ok := resolveDim(min, reference, definite); ok && v < lo {
		v = lo
	}
	if hi, ok := resolveDim(max, reference, definite); ok && v > hi {
		v = hi
	}
	return v
}
