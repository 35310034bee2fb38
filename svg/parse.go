package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/lvillar/flexdoc/schema"
)

// Parse reads SVG markup and returns the flattened primitive list. Elements
// the subset does not cover (text, defs, use, gradients) are skipped.
func Parse(markup string) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(markup); err != nil {
		return nil, fmt.Errorf("svg: parsing markup: %w", err)
	}
	root := tree.SelectElement("svg")
	if root == nil {
		return nil, fmt.Errorf("svg: no <svg> root element")
	}

	doc := &Document{
		Width:  attrFloat(root, "width", 100),
		Height: attrFloat(root, "height", 100),
	}
	if vb := root.SelectAttrValue("viewBox", ""); vb != "" {
		parts := strings.Fields(vb)
		if len(parts) == 4 {
			var vals [4]float64
			ok := true
			for i, p := range parts {
				v, err := strconv.ParseFloat(p, 64)
				if err != nil {
					ok = false
					break
				}
				vals[i] = v
			}
			if ok {
				doc.ViewBox = &ViewBox{MinX: vals[0], MinY: vals[1], Width: vals[2], Height: vals[3]}
			}
		}
	}

	doc.Elements = parseChildren(root, DefaultStyle())
	return doc, nil
}

func parseChildren(parent *etree.Element, inherited Style) []Element {
	var out []Element
	for _, el := range parent.ChildElements() {
		style := parseStyle(el, inherited)
		switch el.Tag {
		case "g":
			out = append(out, parseChildren(el, style)...)
		case "path":
			if d := el.SelectAttrValue("d", ""); d != "" {
				cmds := parsePathData(d)
				if len(cmds) > 0 {
					out = append(out, Path{Commands: cmds, Style: style})
				}
			}
		case "rect":
			out = append(out, Rect{
				X:      attrFloat(el, "x", 0),
				Y:      attrFloat(el, "y", 0),
				Width:  attrFloat(el, "width", 0),
				Height: attrFloat(el, "height", 0),
				RX:     attrFloat(el, "rx", 0),
				RY:     attrFloat(el, "ry", 0),
				Style:  style,
			})
		case "circle":
			out = append(out, Circle{
				CX:    attrFloat(el, "cx", 0),
				CY:    attrFloat(el, "cy", 0),
				R:     attrFloat(el, "r", 0),
				Style: style,
			})
		case "ellipse":
			out = append(out, Ellipse{
				CX:    attrFloat(el, "cx", 0),
				CY:    attrFloat(el, "cy", 0),
				RX:    attrFloat(el, "rx", 0),
				RY:    attrFloat(el, "ry", 0),
				Style: style,
			})
		case "line":
			out = append(out, Line{
				X1:    attrFloat(el, "x1", 0),
				Y1:    attrFloat(el, "y1", 0),
				X2:    attrFloat(el, "x2", 0),
				Y2:    attrFloat(el, "y2", 0),
				Style: style,
			})
		case "polyline":
			if pts := parsePoints(el.SelectAttrValue("points", "")); len(pts) > 0 {
				out = append(out, Polyline{Points: pts, Style: style})
			}
		case "polygon":
			if pts := parsePoints(el.SelectAttrValue("points", "")); len(pts) > 0 {
				out = append(out, Polygon{Points: pts, Style: style})
			}
		}
	}
	return out
}

func attrFloat(el *etree.Element, name string, fallback float64) float64 {
	raw := el.SelectAttrValue(name, "")
	if raw == "" {
		return fallback
	}
	// Strip a trailing unit like "px" or "pt".
	raw = strings.TrimRight(raw, "abcdefghijklmnopqrstuvwxyz%")
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseStyle(el *etree.Element, inherited Style) Style {
	s := inherited
	if v := el.SelectAttrValue("fill", ""); v != "" {
		s.Fill = parsePaint(v)
	}
	if v := el.SelectAttrValue("stroke", ""); v != "" {
		s.Stroke = parsePaint(v)
	}
	if v := el.SelectAttrValue("stroke-width", ""); v != "" {
		if w, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			s.StrokeWidth = w
		}
	}
	if v := el.SelectAttrValue("opacity", ""); v != "" {
		if o, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			s.Opacity = o
		}
	}
	return s
}

var namedColors = map[string]schema.Color{
	"black":        {R: 0, G: 0, B: 0, A: 1},
	"white":        {R: 255, G: 255, B: 255, A: 1},
	"red":          {R: 255, G: 0, B: 0, A: 1},
	"green":        {R: 0, G: 128, B: 0, A: 1},
	"blue":         {R: 0, G: 0, B: 255, A: 1},
	"yellow":       {R: 255, G: 255, B: 0, A: 1},
	"gray":         {R: 128, G: 128, B: 128, A: 1},
	"grey":         {R: 128, G: 128, B: 128, A: 1},
	"orange":       {R: 255, G: 165, B: 0, A: 1},
	"purple":       {R: 128, G: 0, B: 128, A: 1},
	"currentcolor": {A: 1},
}

// parsePaint resolves a paint value to a color, or nil for "none".
func parsePaint(v string) *schema.Color {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "none" {
		return nil
	}
	if c, ok := namedColors[v]; ok {
		return &c
	}
	if strings.HasPrefix(v, "#") {
		if c, ok := parseHexColor(v[1:]); ok {
			return &c
		}
		return nil
	}
	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		parts := strings.Split(v[4:len(v)-1], ",")
		if len(parts) == 3 {
			var c schema.Color
			c.A = 1
			vals := []*int{&c.R, &c.G, &c.B}
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return nil
				}
				*vals[i] = n
			}
			return &c
		}
	}
	return nil
}

func parseHexColor(hex string) (schema.Color, bool) {
	var c schema.Color
	c.A = 1
	switch len(hex) {
	case 3:
		expand := func(b byte) int {
			v, _ := strconv.ParseInt(string([]byte{b, b}), 16, 32)
			return int(v)
		}
		c.R, c.G, c.B = expand(hex[0]), expand(hex[1]), expand(hex[2])
		return c, true
	case 6:
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return c, false
		}
		c.R = int(v >> 16 & 0xff)
		c.G = int(v >> 8 & 0xff)
		c.B = int(v & 0xff)
		return c, true
	}
	return c, false
}

func parsePoints(raw string) []Point {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) < 4 {
		return nil
	}
	pts := make([]Point, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			return nil
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts
}

// parsePathData tokenizes a path "d" attribute and normalizes every command
// into absolute MoveTo/LineTo/CurveTo/QuadTo/ClosePath. H/V collapse to
// LineTo, smooth variants reflect the previous control point, and arcs are
// approximated by a straight segment to their endpoint.
func parsePathData(d string) []PathCommand {
	var (
		out       []PathCommand
		cx, cy    float64 // current point
		sx, sy    float64 // subpath start
		lastCtrlX float64
		lastCtrlY float64
		lastOp    byte
	)

	toks := tokenizePath(d)
	i := 0
	take := func(n int) ([]float64, bool) {
		if i+n > len(toks) {
			return nil, false
		}
		vals := make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := strconv.ParseFloat(toks[i+j], 64)
			if err != nil {
				return nil, false
			}
			vals[j] = v
		}
		i += n
		return vals, true
	}

	var op byte
	for i < len(toks) {
		t := toks[i]
		if len(t) == 1 && isPathOp(t[0]) {
			op = t[0]
			i++
			if op == 'Z' || op == 'z' {
				out = append(out, PathCommand{Op: ClosePath})
				cx, cy = sx, sy
				lastOp = 'Z'
				continue
			}
		} else if op == 0 {
			return nil
		} else if op == 'M' {
			// Extra pairs after a moveto are implicit linetos.
			op = 'L'
		} else if op == 'm' {
			op = 'l'
		}
		if i >= len(toks) {
			break
		}

		rel := op >= 'a'
		switch op {
		case 'M', 'm':
			v, ok := take(2)
			if !ok {
				return out
			}
			if rel {
				v[0] += cx
				v[1] += cy
			}
			cx, cy = v[0], v[1]
			sx, sy = cx, cy
			out = append(out, PathCommand{Op: MoveTo, Args: []float64{cx, cy}})
		case 'L', 'l':
			v, ok := take(2)
			if !ok {
				return out
			}
			if rel {
				v[0] += cx
				v[1] += cy
			}
			cx, cy = v[0], v[1]
			out = append(out, PathCommand{Op: LineTo, Args: []float64{cx, cy}})
		case 'H', 'h':
			v, ok := take(1)
			if !ok {
				return out
			}
			if rel {
				v[0] += cx
			}
			cx = v[0]
			out = append(out, PathCommand{Op: LineTo, Args: []float64{cx, cy}})
		case 'V', 'v':
			v, ok := take(1)
			if !ok {
				return out
			}
			if rel {
				v[0] += cy
			}
			cy = v[0]
			out = append(out, PathCommand{Op: LineTo, Args: []float64{cx, cy}})
		case 'C', 'c':
			v, ok := take(6)
			if !ok {
				return out
			}
			if rel {
				for j := 0; j < 6; j += 2 {
					v[j] += cx
					v[j+1] += cy
				}
			}
			lastCtrlX, lastCtrlY = v[2], v[3]
			cx, cy = v[4], v[5]
			out = append(out, PathCommand{Op: CurveTo, Args: v})
		case 'S', 's':
			v, ok := take(4)
			if !ok {
				return out
			}
			if rel {
				for j := 0; j < 4; j += 2 {
					v[j] += cx
					v[j+1] += cy
				}
			}
			// First control point reflects the previous curve's second one.
			c1x, c1y := cx, cy
			if lastOp == 'C' {
				c1x = 2*cx - lastCtrlX
				c1y = 2*cy - lastCtrlY
			}
			lastCtrlX, lastCtrlY = v[0], v[1]
			cx, cy = v[2], v[3]
			out = append(out, PathCommand{Op: CurveTo, Args: []float64{c1x, c1y, v[0], v[1], cx, cy}})
		case 'Q', 'q':
			v, ok := take(4)
			if !ok {
				return out
			}
			if rel {
				for j := 0; j < 4; j += 2 {
					v[j] += cx
					v[j+1] += cy
				}
			}
			lastCtrlX, lastCtrlY = v[0], v[1]
			cx, cy = v[2], v[3]
			out = append(out, PathCommand{Op: QuadTo, Args: v})
		case 'T', 't':
			v, ok := take(2)
			if !ok {
				return out
			}
			if rel {
				v[0] += cx
				v[1] += cy
			}
			c1x, c1y := cx, cy
			if lastOp == 'Q' {
				c1x = 2*cx - lastCtrlX
				c1y = 2*cy - lastCtrlY
			}
			lastCtrlX, lastCtrlY = c1x, c1y
			px, py := v[0], v[1]
			out = append(out, PathCommand{Op: QuadTo, Args: []float64{c1x, c1y, px, py}})
			cx, cy = px, py
		case 'A', 'a':
			v, ok := take(7)
			if !ok {
				return out
			}
			ex, ey := v[5], v[6]
			if rel {
				ex += cx
				ey += cy
			}
			cx, cy = ex, ey
			out = append(out, PathCommand{Op: LineTo, Args: []float64{cx, cy}})
		default:
			return out
		}
		// Smooth variants chain reflection off their full counterparts.
		switch n := upper(op); n {
		case 'S':
			lastOp = 'C'
		case 'T':
			lastOp = 'Q'
		default:
			lastOp = n
		}
	}
	return out
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

func isPathOp(b byte) bool {
	switch upper(b) {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

// tokenizePath splits path data into command letters and numbers.
func tokenizePath(d string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case isPathOp(c):
			flush()
			toks = append(toks, string(c))
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			flush()
		case c == '-' && cur.Len() > 0 && d[i-1] != 'e' && d[i-1] != 'E':
			// A minus sign starts a new number unless it follows an exponent.
			flush()
			cur.WriteByte(c)
		case c == '.' && strings.Contains(cur.String(), "."):
			// "1.5.5" means "1.5" followed by ".5".
			flush()
			cur.WriteByte(c)
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks
}
