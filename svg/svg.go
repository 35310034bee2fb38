// Package svg models a parsed SVG document as a flat list of drawing
// primitives, plus a small parser for the subset of SVG the renderer
// understands: paths, basic shapes and groups with fill/stroke presentation
// attributes. The layout engine consumes the primitive list only; it never
// touches the markup.
package svg

import "github.com/lvillar/flexdoc/schema"

// Document is a parsed SVG.
type Document struct {
	Width    float64
	Height   float64
	ViewBox  *ViewBox
	Elements []Element
}

// IntrinsicSize returns the document's natural dimensions: the viewBox when
// present, else the width/height attributes.
func (d *Document) IntrinsicSize() (w, h float64) {
	if d.ViewBox != nil {
		return d.ViewBox.Width, d.ViewBox.Height
	}
	return d.Width, d.Height
}

// ViewBox is the SVG viewBox attribute.
type ViewBox struct {
	MinX   float64
	MinY   float64
	Width  float64
	Height float64
}

// Element is one drawable SVG primitive.
type Element interface {
	element()
}

// Style carries the presentation attributes of an element. A nil Fill or
// Stroke means the paint is absent.
type Style struct {
	Fill        *schema.Color
	Stroke      *schema.Color
	StrokeWidth float64
	Opacity     float64
}

// DefaultStyle returns the SVG initial paint: black fill, no stroke.
func DefaultStyle() Style {
	black := schema.Black()
	return Style{Fill: &black, StrokeWidth: 1, Opacity: 1}
}

// Path is a sequence of path commands.
type Path struct {
	Commands []PathCommand
	Style    Style
}

// Rect is an axis-aligned rectangle with optional corner radii.
type Rect struct {
	X, Y, Width, Height float64
	RX, RY              float64
	Style               Style
}

// Circle is a circle centered at (CX, CY).
type Circle struct {
	CX, CY, R float64
	Style     Style
}

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	CX, CY, RX, RY float64
	Style          Style
}

// Line is a straight stroke between two points.
type Line struct {
	X1, Y1, X2, Y2 float64
	Style          Style
}

// Polyline is an open sequence of points.
type Polyline struct {
	Points []Point
	Style  Style
}

// Polygon is a closed sequence of points.
type Polygon struct {
	Points []Point
	Style  Style
}

// Group is a container; its children inherit nothing here because the
// parser resolves styles while flattening.
type Group struct {
	Elements []Element
}

// Point is a 2D coordinate in SVG user units.
type Point struct {
	X, Y float64
}

func (Path) element()     {}
func (Rect) element()     {}
func (Circle) element()   {}
func (Ellipse) element()  {}
func (Line) element()     {}
func (Polyline) element() {}
func (Polygon) element()  {}
func (Group) element()    {}

// CommandOp is a path command opcode.
type CommandOp int

const (
	MoveTo CommandOp = iota
	LineTo
	CurveTo  // cubic Bezier: two control points and an endpoint
	QuadTo   // quadratic Bezier: one control point and an endpoint
	ClosePath
)

// PathCommand is one absolute path command. Args holds the coordinate list
// for the opcode: 2 for MoveTo/LineTo, 6 for CurveTo, 4 for QuadTo, 0 for
// ClosePath. The parser normalizes relative commands, H/V shortcuts and
// smooth variants into these five.
type PathCommand struct {
	Op   CommandOp
	Args []float64
}
