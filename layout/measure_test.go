package layout

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/lvillar/flexdoc/font"
	"github.com/lvillar/flexdoc/resource"
	"github.com/lvillar/flexdoc/schema"
)

func measureBox(t *testing.T, node *schema.Node, availW, availH float64, definiteH bool) *Box {
	t.Helper()
	eng := NewEngine(nil)
	b := Build(node)
	eng.measure(b, availW, availH, definiteH)
	return b
}

func TestTextIntrinsics(t *testing.T) {
	m := font.Lookup(false, false)
	b := measureBox(t, &schema.Node{Type: schema.Text, Text: "Hello world"}, 1000, 0, false)

	wantPref := m.StringWidth("Hello", 12) + m.Advance(' ', 12) + m.StringWidth("world", 12)
	if math.Abs(b.Pref.W-wantPref) > 1e-9 {
		t.Errorf("Pref.W = %.3f, want %.3f", b.Pref.W, wantPref)
	}
	// The widest token, "world", sets the minimum.
	if math.Abs(b.Min.W-m.StringWidth("world", 12)) > 1e-9 {
		t.Errorf("Min.W = %.3f", b.Min.W)
	}
	approx(t, "Pref.H", b.Pref.H, 14.4)
	if b.Min.H < b.Pref.H {
		t.Errorf("Min.H %.2f should be >= Pref.H %.2f (narrower means more lines)", b.Min.H, b.Pref.H)
	}
}

func TestTextPrefCappedByAvailable(t *testing.T) {
	b := measureBox(t, &schema.Node{
		Type: schema.Text,
		Text: "several words that will definitely not fit on one narrow line",
	}, 80, 0, false)
	if b.Pref.W > 80+Epsilon {
		t.Errorf("Pref.W = %.2f exceeds available 80", b.Pref.W)
	}
	if b.Pref.H <= 14.4+Epsilon {
		t.Errorf("Pref.H = %.2f, want multiple lines", b.Pref.H)
	}
}

func TestColumnIntrinsics(t *testing.T) {
	b := measureBox(t, &schema.Node{
		Type:  schema.View,
		Style: &schema.Style{Gap: ptr(5.0), Padding: ptr(10.0)},
		Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{Width: dimPt(100), Height: dimPt(30)}},
			{Type: schema.View, Style: &schema.Style{Width: dimPt(60), Height: dimPt(20)}},
		},
	}, 500, 0, false)
	approx(t, "Pref.W", b.Pref.W, 100+20)
	approx(t, "Pref.H", b.Pref.H, 30+5+20+20)
}

func TestRowIntrinsics(t *testing.T) {
	b := measureBox(t, &schema.Node{
		Type:  schema.View,
		Style: &schema.Style{Direction: ptr(schema.DirRow), Gap: ptr(4.0)},
		Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{Width: dimPt(100), Height: dimPt(30)}},
			{Type: schema.View, Style: &schema.Style{Width: dimPt(60), Height: dimPt(45)}},
		},
	}, 500, 0, false)
	approx(t, "Pref.W", b.Pref.W, 100+4+60)
	approx(t, "Pref.H", b.Pref.H, 45)
}

func TestExplicitDimensionsOverride(t *testing.T) {
	b := measureBox(t, &schema.Node{
		Type:  schema.View,
		Style: &schema.Style{Width: dimPt(77), Height: dimPt(33)},
		Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{Width: dimPt(500), Height: dimPt(500)}},
		},
	}, 1000, 1000, true)
	approx(t, "Pref.W", b.Pref.W, 77)
	approx(t, "Pref.H", b.Pref.H, 33)
	if !b.DefiniteH {
		t.Error("explicit height should be definite")
	}
}

func TestPercentChildContributesZeroWithoutReference(t *testing.T) {
	b := measureBox(t, &schema.Node{
		Type: schema.View,
		Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{Height: dimPct(50)}},
		},
	}, 500, 0, false)
	approx(t, "Pref.H", b.Pref.H, 0)
}

func TestSvgIntrinsicFromViewBox(t *testing.T) {
	eng := NewEngine(resource.NewClient())
	b := Build(&schema.Node{
		Type:    schema.Svg,
		Content: `<svg viewBox="0 0 120 60"></svg>`,
	})
	eng.measure(b, 500, 0, false)
	approx(t, "Pref.W", b.Pref.W, 120)
	approx(t, "Pref.H", b.Pref.H, 60)
}

func TestSvgAspectFromWidth(t *testing.T) {
	eng := NewEngine(resource.NewClient())
	b := Build(&schema.Node{
		Type:    schema.Svg,
		Content: `<svg viewBox="0 0 100 50"></svg>`,
		Style:   &schema.Style{Width: dimPt(200)},
	})
	eng.measure(b, 500, 0, false)
	approx(t, "aspect height", b.Pref.H, 100)
}

type countingResolver struct {
	calls atomic.Int32
	inner resource.Resolver
}

func (c *countingResolver) Resolve(ctx context.Context, src string) (*resource.Resource, error) {
	c.calls.Add(1)
	return c.inner.Resolve(ctx, src)
}

func TestEngineResolvesSourceOnce(t *testing.T) {
	counter := &countingResolver{inner: resource.NewClient()}
	cache := resource.NewCache(counter)
	eng := NewEngine(cache)
	content := `<svg viewBox="0 0 10 10"></svg>`
	_, err := eng.Layout(context.Background(), page(
		&schema.Node{Type: schema.Svg, Content: content, Style: &schema.Style{Width: dimPt(10), Height: dimPt(10)}},
		&schema.Node{Type: schema.Svg, Content: content, Style: &schema.Style{Width: dimPt(10), Height: dimPt(10)}},
	))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(eng.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %+v", eng.Warnings())
	}
	if n := counter.calls.Load(); n != 1 {
		t.Errorf("inner resolver calls = %d, want 1", n)
	}
}
