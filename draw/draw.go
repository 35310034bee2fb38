// Package draw defines the primitive stream the layout engine emits and the
// sink contract consumed by byte-encoders (PDF or otherwise). The engine
// guarantees a well-formed stream: every page is bracketed by BeginPage and
// EndPage, and opacity changes are always restored before the page ends.
package draw

import (
	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
	"github.com/lvillar/flexdoc/svg"
)

// Rect is an axis-aligned rectangle in page-local points, y growing down
// from the top of the page.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Radii holds the four corner radii of a rectangle.
type Radii struct {
	TopLeft     float64 `json:"topLeft,omitempty"`
	TopRight    float64 `json:"topRight,omitempty"`
	BottomRight float64 `json:"bottomRight,omitempty"`
	BottomLeft  float64 `json:"bottomLeft,omitempty"`
}

// IsZero reports whether all radii are zero.
func (r Radii) IsZero() bool {
	return r.TopLeft == 0 && r.TopRight == 0 && r.BottomRight == 0 && r.BottomLeft == 0
}

// Edges holds per-side scalar values (border widths).
type Edges struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// EdgeColors holds per-side colors.
type EdgeColors struct {
	Top    schema.Color `json:"top"`
	Right  schema.Color `json:"right"`
	Bottom schema.Color `json:"bottom"`
	Left   schema.Color `json:"left"`
}

// Transform maps SVG user units into page coordinates: scale first, then
// translate.
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

// Apply transforms a point from SVG user units to page coordinates.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.TranslateX + x*t.Scale, t.TranslateY + y*t.Scale
}

// Sink receives the ordered primitive stream for a render. Implementations
// are driven by a single goroutine.
type Sink interface {
	// BeginPage opens a page of the given size. A nil background means the
	// page is not painted.
	BeginPage(width, height float64, background *schema.Color)

	// SetOpacity changes the current constant alpha. The engine emits it
	// only for boxes with opacity below one and restores 1.0 afterwards.
	SetOpacity(alpha float64)

	// FillRect paints a (possibly rounded) rectangle.
	FillRect(r Rect, color schema.Color, radii Radii)

	// StrokeBorder strokes the border of r with per-side widths and colors.
	// Sides with non-uniform widths are expected to be rendered as
	// trapezoids around the content rectangle; rounded corners use
	// quarter-arc Bezier approximations.
	StrokeBorder(r Rect, widths Edges, colors EdgeColors, radii Radii)

	// DrawText paints one run of text. y is the baseline position.
	DrawText(x, y float64, text string, fontKey string, size float64, color schema.Color)

	// DrawImage blits a raster image. box is the node's rectangle,
	// placement the fitted rectangle computed from fit; cover crops to box.
	DrawImage(box Rect, img *resource.Resource, fit schema.ObjectFit, placement Rect)

	// DrawPath strokes and/or fills a vector path given in SVG user units.
	DrawPath(commands []svg.PathCommand, fill *schema.Color, stroke *schema.Color, strokeWidth float64, tf Transform)

	// EndPage closes the current page.
	EndPage()
}
