package font

import (
	"math"
	"testing"
)

func TestStringWidth(t *testing.T) {
	m := Lookup(false, false)

	// "Hello" at 12pt: H=722, e=556, l=222, l=222, o=556 = 2278 units.
	got := m.StringWidth("Hello", 12)
	want := 2278.0 / 1000.0 * 12.0
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("StringWidth(Hello, 12) = %f, want %f", got, want)
	}
}

func TestSpaceAdvance(t *testing.T) {
	m := Lookup(false, false)
	got := m.Advance(' ', 12)
	if math.Abs(got-3.336) > 0.01 {
		t.Fatalf("Advance(' ', 12) = %f, want 3.336", got)
	}
}

func TestFallbackAdvance(t *testing.T) {
	m := Lookup(false, false)
	// CJK codepoint is outside the table and should use the average advance.
	got := m.Advance('世', 10)
	if math.Abs(got-5.56) > 0.01 {
		t.Fatalf("fallback advance = %f, want 5.56", got)
	}
}

func TestBoldIsWider(t *testing.T) {
	reg := Lookup(false, false)
	bold := Lookup(true, false)
	if bold.StringWidth("above", 12) <= reg.StringWidth("above", 12) {
		t.Error("expected bold to be wider than regular")
	}
}

func TestVariantKeys(t *testing.T) {
	cases := []struct {
		bold, italic bool
		want         string
	}{
		{false, false, "Helvetica"},
		{true, false, "Helvetica-Bold"},
		{false, true, "Helvetica-Oblique"},
		{true, true, "Helvetica-BoldOblique"},
	}
	for _, c := range cases {
		if got := LookupVariant(c.bold, c.italic).Key(); got != c.want {
			t.Errorf("LookupVariant(%v, %v).Key() = %q, want %q", c.bold, c.italic, got, c.want)
		}
	}
}

func TestAscentDescent(t *testing.T) {
	m := Lookup(false, false)
	if got := m.Ascent(10); math.Abs(got-7.18) > 0.001 {
		t.Errorf("Ascent(10) = %f, want 7.18", got)
	}
	if got := m.Descent(10); math.Abs(got-(-2.07)) > 0.001 {
		t.Errorf("Descent(10) = %f, want -2.07", got)
	}
}
