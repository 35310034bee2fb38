package layout

import (
	"strings"

	"github.com/lvillar/flexdoc/font"
	"github.com/lvillar/flexdoc/schema"
)

// Word is one unbreakable token with its measured advance.
type Word struct {
	Text  string
	Width float64
}

// Line is one shaped text line. Words are separated by the natural space
// advance plus ExtraGap (zero unless the line is justified). XOffset is the
// alignment offset from the left edge of the text box's content.
type Line struct {
	Words    []Word
	SpaceW   float64
	ExtraGap float64
	XOffset  float64
	Advance  float64
	// Hard marks a line terminated by an explicit newline (or end of text);
	// such lines are never justified.
	Hard bool
}

// Text returns the line's content joined with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Shape breaks text into lines within the given width and resolves
// alignment offsets. Tokens are split on ASCII whitespace; explicit
// newlines force breaks; a single token wider than the box is placed on its
// own line and overflows.
func Shape(text string, ts TextStyle, width float64) []Line {
	m := font.Lookup(ts.Bold, ts.Italic)
	spaceW := m.Advance(' ', ts.FontSize)

	var lines []Line
	paragraphs := strings.Split(text, "\n")
	for _, para := range paragraphs {
		tokens := strings.FieldsFunc(para, func(r rune) bool { return r == ' ' || r == '\t' })
		if len(tokens) == 0 {
			lines = append(lines, Line{SpaceW: spaceW, Hard: true})
			continue
		}

		cur := Line{SpaceW: spaceW}
		for _, tok := range tokens {
			w := Word{Text: tok, Width: m.StringWidth(tok, ts.FontSize)}
			if len(cur.Words) == 0 {
				cur.Words = append(cur.Words, w)
				cur.Advance = w.Width
				continue
			}
			if cur.Advance+spaceW+w.Width > width+Epsilon {
				lines = append(lines, cur)
				cur = Line{SpaceW: spaceW, Words: []Word{w}, Advance: w.Width}
				continue
			}
			cur.Words = append(cur.Words, w)
			cur.Advance += spaceW + w.Width
		}
		cur.Hard = true
		lines = append(lines, cur)
	}

	for i := range lines {
		alignLine(&lines[i], ts.Align, width)
	}
	return lines
}

// alignLine resolves the line's x offset (and per-gap slack for justify).
func alignLine(l *Line, align schema.TextAlign, width float64) {
	slack := width - l.Advance
	switch align {
	case schema.AlignRight:
		l.XOffset = slack
	case schema.AlignCenter:
		l.XOffset = slack / 2
	case schema.AlignJustify:
		if !l.Hard && len(l.Words) > 1 && slack > 0 {
			l.ExtraGap = slack / float64(len(l.Words)-1)
		}
	}
	if l.XOffset < 0 {
		// An overflowing single token stays at the left edge.
		l.XOffset = 0
	}
}

// PrefWidth returns the width of the longest line when the text is laid out
// with breaks only at explicit newlines.
func PrefWidth(text string, ts TextStyle) float64 {
	m := font.Lookup(ts.Bold, ts.Italic)
	spaceW := m.Advance(' ', ts.FontSize)
	var max float64
	for _, para := range strings.Split(text, "\n") {
		tokens := strings.FieldsFunc(para, func(r rune) bool { return r == ' ' || r == '\t' })
		var w float64
		for i, tok := range tokens {
			if i > 0 {
				w += spaceW
			}
			w += m.StringWidth(tok, ts.FontSize)
		}
		if w > max {
			max = w
		}
	}
	return max
}

// MinWidth returns the width of the longest unbreakable token.
func MinWidth(text string, ts TextStyle) float64 {
	m := font.Lookup(ts.Bold, ts.Italic)
	var max float64
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n'
	}) {
		if w := m.StringWidth(tok, ts.FontSize); w > max {
			max = w
		}
	}
	return max
}
