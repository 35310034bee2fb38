package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/lvillar/flexdoc/schema"
)

func paginateTree(t *testing.T, root *schema.Node) (*Engine, []*Page) {
	t.Helper()
	eng := NewEngine(nil)
	b, err := eng.Layout(context.Background(), root)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	pages, err := eng.Paginate(context.Background(), b)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	return eng, pages
}

func checkPageBounds(t *testing.T, pages []*Page) {
	t.Helper()
	var walk func(pageIdx int, b *Box)
	walk = func(pageIdx int, b *Box) {
		if b.Y < -Epsilon || b.Y+b.H > pages[pageIdx].H+Epsilon {
			t.Errorf("page %d: %s spans y %.1f..%.1f outside [0, %.1f]",
				pageIdx, b.Path, b.Y, b.Y+b.H, pages[pageIdx].H)
		}
		for _, c := range b.Children {
			walk(pageIdx, c)
		}
	}
	for i, p := range pages {
		for _, b := range p.Boxes {
			walk(i, b)
		}
	}
}

func TestPaginateWholeBoxes(t *testing.T) {
	// 20 boxes of height 50 on a page with 400pt of content height:
	// 8 + 8 + 4.
	children := make([]*schema.Node, 20)
	for i := range children {
		children[i] = &schema.Node{Type: schema.View, Style: &schema.Style{Height: dimPt(50)}}
	}
	_, pages := paginateTree(t, &schema.Node{
		Type: schema.Page,
		Style: &schema.Style{
			Width: dimPt(595), Height: dimPt(480),
			PaddingTop: ptr(40.0), PaddingBottom: ptr(40.0),
		},
		Children: children,
	})

	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	for i, want := range []int{8, 8, 4} {
		if got := len(pages[i].Boxes); got != want {
			t.Errorf("page %d has %d boxes, want %d", i, got, want)
		}
	}
	// Each new page starts at the content top.
	approx(t, "page 1 first box y", pages[1].Boxes[0].Y, 40)
	checkPageBounds(t, pages)
}

func TestSinglePageStaysSingle(t *testing.T) {
	_, pages := paginateTree(t, page(
		&schema.Node{Type: schema.View, Style: &schema.Style{Height: dimPt(100)}},
	))
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
}

func TestSplitTextBetweenLines(t *testing.T) {
	// Ten hard lines at 12pt x 1.2 = 14.4pt pitch; 100pt of content fits
	// six lines per page.
	text := strings.TrimSuffix(strings.Repeat("line\n", 10), "\n")
	_, pages := paginateTree(t, &schema.Node{
		Type:  schema.Page,
		Style: &schema.Style{Width: dimPt(595), Height: dimPt(100)},
		Children: []*schema.Node{
			{Type: schema.Text, Text: text},
		},
	})

	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	first := pages[0].Boxes[0]
	second := pages[1].Boxes[0]
	if got := len(first.Lines); got != 6 {
		t.Errorf("first slice has %d lines, want 6", got)
	}
	if got := len(second.Lines); got != 4 {
		t.Errorf("second slice has %d lines, want 4", got)
	}
	approx(t, "first slice height", first.H, 6*14.4)
	approx(t, "second slice y", second.Y, 0)
	checkPageBounds(t, pages)
}

func TestSplitColumnContainer(t *testing.T) {
	// A single tall view wrapping many children splits between them, with
	// a chrome slice of the container on every page.
	children := make([]*schema.Node, 10)
	for i := range children {
		children[i] = &schema.Node{Type: schema.View, Style: &schema.Style{Height: dimPt(50)}}
	}
	bg := schema.Color{R: 200, G: 200, B: 200, A: 1}
	_, pages := paginateTree(t, &schema.Node{
		Type:  schema.Page,
		Style: &schema.Style{Width: dimPt(595), Height: dimPt(200)},
		Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{BackgroundColor: &bg}, Children: children},
		},
	})

	// 10 x 50 = 500pt over 200pt pages.
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	for i, p := range pages {
		if len(p.Boxes) == 0 {
			t.Fatalf("page %d has no boxes", i)
		}
		slice := p.Boxes[0]
		if slice.Style.Background == nil {
			t.Errorf("page %d: first box should be the container chrome slice", i)
		}
		if len(slice.Children) != 4 && i < 2 {
			t.Errorf("page %d slice has %d children, want 4", i, len(slice.Children))
		}
	}
	checkPageBounds(t, pages)
}

func TestSplitTableBetweenRows(t *testing.T) {
	rows := make([]*schema.Node, 8)
	for i := range rows {
		rows[i] = row(&schema.Node{Type: schema.Cell, Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{Height: dimPt(40)}},
		}})
	}
	_, pages := paginateTree(t, &schema.Node{
		Type:  schema.Page,
		Style: &schema.Style{Width: dimPt(595), Height: dimPt(130)},
		Children: []*schema.Node{
			{Type: schema.Table, ColumnWidths: []schema.Dimension{schema.Percent(100)}, Children: rows},
		},
	})

	// Three 40pt rows fit in 130pt of content.
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	for i, want := range []int{3, 3, 2} {
		slice := pages[i].Boxes[0]
		if got := len(slice.Children); got != want {
			t.Errorf("page %d table slice has %d rows, want %d", i, got, want)
		}
	}
	checkPageBounds(t, pages)
}

func TestUnsplittableBoxClipped(t *testing.T) {
	eng, pages := paginateTree(t, &schema.Node{
		Type:  schema.Page,
		Style: &schema.Style{Width: dimPt(595), Height: dimPt(200)},
		Children: []*schema.Node{
			{Type: schema.View, Style: &schema.Style{Height: dimPt(30)}},
			// No children and explicit height: nothing to split at.
			{Type: schema.View, Style: &schema.Style{Height: dimPt(500)}},
		},
	})

	found := false
	for _, w := range eng.Warnings() {
		if w.Code == WarnOverflow {
			found = true
		}
	}
	if !found {
		t.Error("expected page-overflow warning")
	}
	checkPageBounds(t, pages)
}

func TestPageAbsoluteAttachesToFirstPage(t *testing.T) {
	children := []*schema.Node{
		{Type: schema.View, Style: &schema.Style{
			Position: ptr(schema.Absolute), Top: ptr(10.0), Left: ptr(10.0),
			Width: dimPt(20), Height: dimPt(20),
		}},
	}
	for i := 0; i < 10; i++ {
		children = append(children, &schema.Node{Type: schema.View, Style: &schema.Style{Height: dimPt(50)}})
	}
	_, pages := paginateTree(t, &schema.Node{
		Type:     schema.Page,
		Style:    &schema.Style{Width: dimPt(595), Height: dimPt(200)},
		Children: children,
	})

	if len(pages) < 2 {
		t.Fatalf("pages = %d, want multiple", len(pages))
	}
	foundOnFirst := false
	for _, b := range pages[0].Boxes {
		if b.IsAbsolute() {
			foundOnFirst = true
		}
	}
	if !foundOnFirst {
		t.Error("absolute box should attach to the first page")
	}
	for i, p := range pages[1:] {
		for _, b := range p.Boxes {
			if b.IsAbsolute() {
				t.Errorf("page %d carries an absolute box", i+1)
			}
		}
	}
}

func TestPaginateCancellation(t *testing.T) {
	eng := NewEngine(nil)
	b, err := eng.Layout(context.Background(), page(
		&schema.Node{Type: schema.View, Style: &schema.Style{Height: dimPt(10)}},
	))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Paginate(ctx, b); err == nil {
		t.Error("expected cancellation error")
	}
}
