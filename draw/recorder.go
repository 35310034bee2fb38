package draw

import (
	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
	"github.com/lvillar/flexdoc/svg"
)

// Op names a recorded primitive.
type Op string

const (
	OpBeginPage    Op = "beginPage"
	OpSetOpacity   Op = "setOpacity"
	OpFillRect     Op = "fillRect"
	OpStrokeBorder Op = "strokeBorder"
	OpDrawText     Op = "drawText"
	OpDrawImage    Op = "drawImage"
	OpDrawPath     Op = "drawPath"
	OpEndPage      Op = "endPage"
)

// Primitive is one recorded sink call in a JSON-friendly shape. Only the
// fields relevant to the op are populated.
type Primitive struct {
	Op Op `json:"op"`

	Width      float64       `json:"width,omitempty"`
	Height     float64       `json:"height,omitempty"`
	Background *schema.Color `json:"background,omitempty"`

	Alpha float64 `json:"alpha,omitempty"`

	Rect  *Rect         `json:"rect,omitempty"`
	Color *schema.Color `json:"color,omitempty"`
	Radii *Radii        `json:"radii,omitempty"`

	BorderWidths *Edges      `json:"borderWidths,omitempty"`
	BorderColors *EdgeColors `json:"borderColors,omitempty"`

	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontKey  string  `json:"fontKey,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	Fit       schema.ObjectFit `json:"fit,omitempty"`
	Placement *Rect            `json:"placement,omitempty"`
	Natural   *Rect            `json:"natural,omitempty"`

	Commands    []svg.PathCommand `json:"commands,omitempty"`
	Fill        *schema.Color     `json:"fill,omitempty"`
	Stroke      *schema.Color     `json:"stroke,omitempty"`
	StrokeWidth float64           `json:"strokeWidth,omitempty"`
	Transform   *Transform        `json:"transform,omitempty"`
}

// Recorder is a Sink that records the primitive stream in memory. It backs
// the HTTP server's JSON response and the engine's tests.
type Recorder struct {
	Primitives []Primitive
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) BeginPage(width, height float64, background *schema.Color) {
	r.Primitives = append(r.Primitives, Primitive{Op: OpBeginPage, Width: width, Height: height, Background: background})
}

func (r *Recorder) SetOpacity(alpha float64) {
	r.Primitives = append(r.Primitives, Primitive{Op: OpSetOpacity, Alpha: alpha})
}

func (r *Recorder) FillRect(rect Rect, color schema.Color, radii Radii) {
	p := Primitive{Op: OpFillRect, Rect: &rect, Color: &color}
	if !radii.IsZero() {
		p.Radii = &radii
	}
	r.Primitives = append(r.Primitives, p)
}

func (r *Recorder) StrokeBorder(rect Rect, widths Edges, colors EdgeColors, radii Radii) {
	p := Primitive{Op: OpStrokeBorder, Rect: &rect, BorderWidths: &widths, BorderColors: &colors}
	if !radii.IsZero() {
		p.Radii = &radii
	}
	r.Primitives = append(r.Primitives, p)
}

func (r *Recorder) DrawText(x, y float64, text string, fontKey string, size float64, color schema.Color) {
	r.Primitives = append(r.Primitives, Primitive{
		Op: OpDrawText, X: x, Y: y, Text: text, FontKey: fontKey, FontSize: size, Color: &color,
	})
}

func (r *Recorder) DrawImage(box Rect, img *resource.Resource, fit schema.ObjectFit, placement Rect) {
	p := Primitive{Op: OpDrawImage, Rect: &box, Fit: fit, Placement: &placement}
	if img != nil {
		p.Natural = &Rect{W: img.NaturalWidth, H: img.NaturalHeight}
	}
	r.Primitives = append(r.Primitives, p)
}

func (r *Recorder) DrawPath(commands []svg.PathCommand, fill, stroke *schema.Color, strokeWidth float64, tf Transform) {
	r.Primitives = append(r.Primitives, Primitive{
		Op: OpDrawPath, Commands: commands, Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth, Transform: &tf,
	})
}

func (r *Recorder) EndPage() {
	r.Primitives = append(r.Primitives, Primitive{Op: OpEndPage})
}

// PageCount returns the number of completed pages in the stream.
func (r *Recorder) PageCount() int {
	n := 0
	for _, p := range r.Primitives {
		if p.Op == OpEndPage {
			n++
		}
	}
	return n
}

// ByOp returns the recorded primitives with the given op, in order.
func (r *Recorder) ByOp(op Op) []Primitive {
	var out []Primitive
	for _, p := range r.Primitives {
		if p.Op == op {
			out = append(out, p)
		}
	}
	return out
}
