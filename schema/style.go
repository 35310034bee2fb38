package schema

// Color is an RGBA color. R, G and B are 0-255; A is 0.0-1.0 and defaults
// to fully opaque when omitted.
type Color struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

// Black returns opaque black.
func Black() Color { return Color{A: 1} }

// White returns opaque white.
func White() Color { return Color{R: 255, G: 255, B: 255, A: 1} }

// UnmarshalJSON decodes a color, defaulting alpha to 1 when absent.
func (c *Color) UnmarshalJSON(data []byte) error {
	raw := struct {
		R int      `json:"r"`
		G int      `json:"g"`
		B int      `json:"b"`
		A *float64 `json:"a"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.R, c.G, c.B = raw.R, raw.G, raw.B
	if raw.A != nil {
		c.A = *raw.A
	} else {
		c.A = 1
	}
	return nil
}

func (c Color) valid() bool {
	inByte := func(v int) bool { return v >= 0 && v <= 255 }
	return inByte(c.R) && inByte(c.G) && inByte(c.B) && c.A >= 0 && c.A <= 1
}

// BorderSide is a per-side border override.
type BorderSide struct {
	Width *float64 `json:"width,omitempty"`
	Color *Color   `json:"color,omitempty"`
}

// Border is the shorthand border specification.
type Border struct {
	Width  *float64 `json:"width,omitempty"`
	Color  *Color   `json:"color,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
}

// Style carries every style attribute a node may set. All fields are
// optional; nil means unset. Only the text properties (color, fontSize,
// fontWeight, fontStyle, textAlign, lineHeight) inherit; everything else
// applies to the declaring node alone.
type Style struct {
	// Dimensions. Fixed points or percentages of the containing block.
	Width     *Dimension `json:"width,omitempty"`
	Height    *Dimension `json:"height,omitempty"`
	MinWidth  *Dimension `json:"minWidth,omitempty"`
	MinHeight *Dimension `json:"minHeight,omitempty"`
	MaxWidth  *Dimension `json:"maxWidth,omitempty"`
	MaxHeight *Dimension `json:"maxHeight,omitempty"`

	// Positioning.
	Position *Position `json:"position,omitempty"`
	Top      *float64  `json:"top,omitempty"`
	Right    *float64  `json:"right,omitempty"`
	Bottom   *float64  `json:"bottom,omitempty"`
	Left     *float64  `json:"left,omitempty"`

	// Flex layout.
	Direction  *Direction  `json:"direction,omitempty"`
	Wrap       *bool       `json:"wrap,omitempty"`
	MainAlign  *MainAlign  `json:"mainAlign,omitempty"`
	CrossAlign *CrossAlign `json:"crossAlign,omitempty"`
	Gap        *float64    `json:"gap,omitempty"`
	Flex       *float64    `json:"flex,omitempty"`

	// Padding. Per-side fields override the shorthand.
	Padding       *float64 `json:"padding,omitempty"`
	PaddingTop    *float64 `json:"paddingTop,omitempty"`
	PaddingRight  *float64 `json:"paddingRight,omitempty"`
	PaddingBottom *float64 `json:"paddingBottom,omitempty"`
	PaddingLeft   *float64 `json:"paddingLeft,omitempty"`

	// Margin. Per-side fields override the shorthand.
	Margin       *float64 `json:"margin,omitempty"`
	MarginTop    *float64 `json:"marginTop,omitempty"`
	MarginRight  *float64 `json:"marginRight,omitempty"`
	MarginBottom *float64 `json:"marginBottom,omitempty"`
	MarginLeft   *float64 `json:"marginLeft,omitempty"`

	// Background and opacity.
	BackgroundColor *Color   `json:"backgroundColor,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`

	// Border shorthands.
	Border       *Border  `json:"border,omitempty"`
	BorderWidth  *float64 `json:"borderWidth,omitempty"`
	BorderColor  *Color   `json:"borderColor,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty"`

	// Per-side borders; these override the shorthands regardless of
	// declaration order.
	BorderTop    *BorderSide `json:"borderTop,omitempty"`
	BorderRight  *BorderSide `json:"borderRight,omitempty"`
	BorderBottom *BorderSide `json:"borderBottom,omitempty"`
	BorderLeft   *BorderSide `json:"borderLeft,omitempty"`

	BorderTopWidth    *float64 `json:"borderTopWidth,omitempty"`
	BorderRightWidth  *float64 `json:"borderRightWidth,omitempty"`
	BorderBottomWidth *float64 `json:"borderBottomWidth,omitempty"`
	BorderLeftWidth   *float64 `json:"borderLeftWidth,omitempty"`

	BorderTopColor    *Color `json:"borderTopColor,omitempty"`
	BorderRightColor  *Color `json:"borderRightColor,omitempty"`
	BorderBottomColor *Color `json:"borderBottomColor,omitempty"`
	BorderLeftColor   *Color `json:"borderLeftColor,omitempty"`

	// Per-corner radii.
	BorderTopLeftRadius     *float64 `json:"borderTopLeftRadius,omitempty"`
	BorderTopRightRadius    *float64 `json:"borderTopRightRadius,omitempty"`
	BorderBottomRightRadius *float64 `json:"borderBottomRightRadius,omitempty"`
	BorderBottomLeftRadius  *float64 `json:"borderBottomLeftRadius,omitempty"`

	// Text (inherited).
	TextAlign  *TextAlign  `json:"textAlign,omitempty"`
	Color      *Color      `json:"color,omitempty"`
	FontSize   *float64    `json:"fontSize,omitempty"`
	FontWeight *FontWeight `json:"fontWeight,omitempty"`
	FontStyle  *FontStyle  `json:"fontStyle,omitempty"`
	LineHeight *float64    `json:"lineHeight,omitempty"`

	// Image.
	ObjectFit *ObjectFit `json:"objectFit,omitempty"`
}

// PaddingTRBL expands the padding shorthand to (top, right, bottom, left).
func (s *Style) PaddingTRBL() (t, r, b, l float64) {
	var base float64
	if s.Padding != nil {
		base = *s.Padding
	}
	t, r, b, l = base, base, base, base
	if s.PaddingTop != nil {
		t = *s.PaddingTop
	}
	if s.PaddingRight != nil {
		r = *s.PaddingRight
	}
	if s.PaddingBottom != nil {
		b = *s.PaddingBottom
	}
	if s.PaddingLeft != nil {
		l = *s.PaddingLeft
	}
	return t, r, b, l
}

// MarginTRBL expands the margin shorthand to (top, right, bottom, left).
func (s *Style) MarginTRBL() (t, r, b, l float64) {
	var base float64
	if s.Margin != nil {
		base = *s.Margin
	}
	t, r, b, l = base, base, base, base
	if s.MarginTop != nil {
		t = *s.MarginTop
	}
	if s.MarginRight != nil {
		r = *s.MarginRight
	}
	if s.MarginBottom != nil {
		b = *s.MarginBottom
	}
	if s.MarginLeft != nil {
		l = *s.MarginLeft
	}
	return t, r, b, l
}

// BorderWidths expands the border width shorthands to per-side values.
// Resolution order: per-side width field, per-side border object, shorthand
// width field, shorthand border object, zero.
func (s *Style) BorderWidths() (t, r, b, l float64) {
	var base float64
	if s.BorderWidth != nil {
		base = *s.BorderWidth
	} else if s.Border != nil && s.Border.Width != nil {
		base = *s.Border.Width
	}
	side := func(explicit *float64, obj *BorderSide) float64 {
		if explicit != nil {
			return *explicit
		}
		if obj != nil && obj.Width != nil {
			return *obj.Width
		}
		return base
	}
	return side(s.BorderTopWidth, s.BorderTop),
		side(s.BorderRightWidth, s.BorderRight),
		side(s.BorderBottomWidth, s.BorderBottom),
		side(s.BorderLeftWidth, s.BorderLeft)
}

// BorderColors expands the border color shorthands to per-side values,
// defaulting to black where a side has width but no color.
func (s *Style) BorderColors() (t, r, b, l Color) {
	base := Black()
	if s.BorderColor != nil {
		base = *s.BorderColor
	} else if s.Border != nil && s.Border.Color != nil {
		base = *s.Border.Color
	}
	side := func(explicit *Color, obj *BorderSide) Color {
		if explicit != nil {
			return *explicit
		}
		if obj != nil && obj.Color != nil {
			return *obj.Color
		}
		return base
	}
	return side(s.BorderTopColor, s.BorderTop),
		side(s.BorderRightColor, s.BorderRight),
		side(s.BorderBottomColor, s.BorderBottom),
		side(s.BorderLeftColor, s.BorderLeft)
}

// BorderRadii expands the corner radius shorthands to
// (top-left, top-right, bottom-right, bottom-left).
func (s *Style) BorderRadii() (tl, tr, br, bl float64) {
	var base float64
	if s.BorderRadius != nil {
		base = *s.BorderRadius
	} else if s.Border != nil && s.Border.Radius != nil {
		base = *s.Border.Radius
	}
	tl, tr, br, bl = base, base, base, base
	if s.BorderTopLeftRadius != nil {
		tl = *s.BorderTopLeftRadius
	}
	if s.BorderTopRightRadius != nil {
		tr = *s.BorderTopRightRadius
	}
	if s.BorderBottomRightRadius != nil {
		br = *s.BorderBottomRightRadius
	}
	if s.BorderBottomLeftRadius != nil {
		bl = *s.BorderBottomLeftRadius
	}
	return tl, tr, br, bl
}
