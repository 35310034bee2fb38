package layout

import (
	"github.com/lvillar/flexdoc/schema"
)

// measure computes the intrinsic minimum and preferred size of b, given the
// available content extent of its containing block. availH is only
// meaningful when definiteH is true; percentage heights degrade to auto
// otherwise. Preferred sizes double as the hypothetical flex-basis during
// place, which re-derives heights where stretch or flex changes a width.
func (e *Engine) measure(b *Box, availW, availH float64, definiteH bool) {
	switch b.Kind {
	case schema.Text:
		e.measureText(b, availW)
	case schema.Image, schema.Svg:
		e.measureImage(b, availW, availH, definiteH)
	case schema.Table:
		e.measureTable(b, availW, availH, definiteH)
	default:
		e.measureContainer(b, availW, availH, definiteH)
	}

	// Explicit dimensions override the content-derived sizes; min/max
	// constraints clamp both.
	if w, ok := resolveDim(b.Style.Width, availW, true); ok {
		b.Pref.W = w
		b.Min.W = w
	}
	if h, ok := resolveDim(b.Style.Height, availH, definiteH); ok {
		b.Pref.H = h
		b.Min.H = h
		b.DefiniteH = true
	}
	b.Pref.W = clampDim(b.Pref.W, b.Style.MinWidth, b.Style.MaxWidth, availW, true)
	b.Pref.H = clampDim(b.Pref.H, b.Style.MinHeight, b.Style.MaxHeight, availH, definiteH)
	b.Min.W = clampDim(b.Min.W, b.Style.MinWidth, b.Style.MaxWidth, availW, true)
	b.Min.H = clampDim(b.Min.H, b.Style.MinHeight, b.Style.MaxHeight, availH, definiteH)
}

func (e *Engine) measureText(b *Box, availW float64) {
	text := b.Node.Text
	pitch := b.Text.LinePitch()
	in := b.ContentInsets()

	b.Min.W = MinWidth(text, b.Text) + in.Horizontal()

	// Preferred width is the longest unwrapped line, capped at the
	// available extent so a long paragraph reports the height it will
	// actually occupy.
	prefW := PrefWidth(text, b.Text) + in.Horizontal()
	if availW > 0 && prefW > availW {
		prefW = maxf(availW, b.Min.W)
	}
	b.Pref.W = prefW

	prefLines := Shape(text, b.Text, prefW-in.Horizontal()+Epsilon)
	b.Pref.H = float64(len(prefLines))*pitch + in.Vertical()
	minLines := Shape(text, b.Text, b.Min.W-in.Horizontal()+Epsilon)
	b.Min.H = float64(len(minLines))*pitch + in.Vertical()
}

func (e *Engine) measureImage(b *Box, availW, availH float64, definiteH bool) {
	e.resolveResource(b)

	var naturalW, naturalH float64
	if b.SvgDoc != nil {
		naturalW, naturalH = b.SvgDoc.IntrinsicSize()
	} else if b.Resource != nil {
		naturalW, naturalH = b.Resource.NaturalWidth, b.Resource.NaturalHeight
	}
	if naturalW <= 0 || naturalH <= 0 {
		// Unresolved source: the box still occupies space so the
		// placeholder has a visible extent.
		naturalW, naturalH = 100, 100
	}

	w, wok := resolveDim(b.Style.Width, availW, true)
	h, hok := resolveDim(b.Style.Height, availH, definiteH)
	switch {
	case wok && hok:
	case wok:
		h = w * naturalH / naturalW
	case hok:
		w = h * naturalW / naturalH
	default:
		w, h = naturalW, naturalH
	}
	b.Pref = Size{W: w, H: h}
	b.Min = b.Pref
}

func (e *Engine) measureContainer(b *Box, availW, availH float64, definiteH bool) {
	in := b.ContentInsets()

	explicitW, wok := resolveDim(b.Style.Width, availW, true)
	explicitH, hok := resolveDim(b.Style.Height, availH, definiteH)

	contentAvailW := availW - in.Horizontal()
	if wok {
		contentAvailW = explicitW - in.Horizontal()
	}
	childDefiniteH := hok || b.Kind == schema.Page
	contentAvailH := 0.0
	if childDefiniteH {
		contentAvailH = availH - in.Vertical()
		if hok {
			contentAvailH = explicitH - in.Vertical()
		}
	}

	pref, min := e.containerContentSize(b, contentAvailW, contentAvailH, childDefiniteH)
	b.Pref = Size{W: pref.W + in.Horizontal(), H: pref.H + in.Vertical()}
	b.Min = Size{W: min.W + in.Horizontal(), H: min.H + in.Vertical()}
	b.DefiniteH = childDefiniteH
}

// containerContentSize measures b's children against the given content
// extent and returns the hypothetical content size along both axes.
func (e *Engine) containerContentSize(b *Box, contentAvailW, contentAvailH float64, childDefiniteH bool) (pref, min Size) {
	for _, c := range b.Children {
		e.measure(c, contentAvailW, contentAvailH, childDefiniteH)
	}

	flow := b.InFlow()
	gap := b.Style.Gap

	prefOuterW := func(c *Box) float64 { return c.Pref.W + c.Style.Margin.Horizontal() }
	prefOuterH := func(c *Box) float64 { return c.Pref.H + c.Style.Margin.Vertical() }

	if b.Style.Direction == schema.DirRow {
		if b.Style.Wrap {
			pref.W, pref.H = measureWrapRow(flow, gap, contentAvailW)
			for _, c := range flow {
				min.W = maxf(min.W, c.Min.W+c.Style.Margin.Horizontal())
			}
			min.H = pref.H
		} else {
			for i, c := range flow {
				if i > 0 {
					pref.W += gap
					min.W += gap
				}
				pref.W += prefOuterW(c)
				min.W += c.Min.W + c.Style.Margin.Horizontal()
				pref.H = maxf(pref.H, prefOuterH(c))
				min.H = maxf(min.H, c.Min.H+c.Style.Margin.Vertical())
			}
		}
	} else {
		for i, c := range flow {
			if i > 0 {
				pref.H += gap
				min.H += gap
			}
			pref.H += prefOuterH(c)
			min.H += c.Min.H + c.Style.Margin.Vertical()
			pref.W = maxf(pref.W, prefOuterW(c))
			min.W = maxf(min.W, c.Min.W+c.Style.Margin.Horizontal())
		}
	}
	return pref, min
}

// measureWrapRow packs children into lines of the given width using their
// preferred outer sizes and returns the resulting content extent.
func measureWrapRow(flow []*Box, gap, maxWidth float64) (w, h float64) {
	started := false
	var lineW, lineH float64
	for _, c := range flow {
		cw := c.Pref.W + c.Style.Margin.Horizontal()
		ch := c.Pref.H + c.Style.Margin.Vertical()
		switch {
		case lineW == 0 && lineH == 0:
			lineW, lineH = cw, ch
		case lineW+gap+cw > maxWidth+Epsilon:
			w = maxf(w, lineW)
			if started {
				h += gap
			}
			h += lineH
			started = true
			lineW, lineH = cw, ch
		default:
			lineW += gap + cw
			lineH = maxf(lineH, ch)
		}
	}
	if lineW > 0 || lineH > 0 {
		w = maxf(w, lineW)
		if started {
			h += gap
		}
		h += lineH
	}
	return w, h
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
