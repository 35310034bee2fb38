package layout

import (
	"math"
	"testing"

	"github.com/lvillar/flexdoc/schema"
)

func cellText(text string) *schema.Node {
	return &schema.Node{Type: schema.Cell, Children: []*schema.Node{
		{Type: schema.Text, Text: text},
	}}
}

func row(cells ...*schema.Node) *schema.Node {
	return &schema.Node{Type: schema.Row, Children: cells}
}

func TestPercentColumnResolution(t *testing.T) {
	// columnWidths ["30%", "70%"] against a 400pt table.
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(400)},
		ColumnWidths: []schema.Dimension{schema.Percent(30), schema.Percent(70)},
		Children: []*schema.Node{
			row(cellText("a"), cellText("b")),
		},
	}))
	table := root.Children[0]
	if table.Grid == nil {
		t.Fatal("table has no grid")
	}
	approx(t, "col 0", table.Grid.ColWidths[0], 120)
	approx(t, "col 1", table.Grid.ColWidths[1], 280)

	// Invariant 5: columns sum to the content width.
	approx(t, "column sum", table.Grid.ColWidths[0]+table.Grid.ColWidths[1], 400)

	// Cell content is placed within its column.
	firstCell := table.Children[0].Children[0]
	approx(t, "cell width", firstCell.W, 120)
	approx(t, "cell x", firstCell.X, 0)
	secondCell := table.Children[0].Children[1]
	approx(t, "second cell x", secondCell.X, 120)
}

func TestFixedAndAutoColumns(t *testing.T) {
	// One fixed column; the auto column absorbs the rest.
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(300)},
		ColumnWidths: []schema.Dimension{schema.Pt(100), schema.Auto()},
		Children: []*schema.Node{
			row(cellText("a"), cellText("b")),
		},
	}))
	grid := root.Children[0].Grid
	approx(t, "fixed col", grid.ColWidths[0], 100)
	approx(t, "auto col", grid.ColWidths[1], 200)
}

func TestAutoColumnsShareLeftoverEqually(t *testing.T) {
	_, root := layoutTree(t, page(&schema.Node{
		Type:  schema.Table,
		Style: &schema.Style{Width: dimPt(400)},
		Children: []*schema.Node{
			row(cellText("a"), cellText("b")),
		},
	}))
	grid := root.Children[0].Grid
	// Both cells measure nearly the same tiny width, so the leftover
	// splits evenly and the columns end up equal.
	approx(t, "equal split", grid.ColWidths[0], grid.ColWidths[1])
	approx(t, "fills width", grid.ColWidths[0]+grid.ColWidths[1], 400)
}

func TestColSpanCoversColumns(t *testing.T) {
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(300)},
		ColumnWidths: []schema.Dimension{schema.Percent(50), schema.Percent(50)},
		Children: []*schema.Node{
			row(&schema.Node{Type: schema.Cell, ColSpan: 2, Children: []*schema.Node{
				{Type: schema.Text, Text: "wide"},
			}}),
			row(cellText("a"), cellText("b")),
		},
	}))
	table := root.Children[0]
	spanned := table.Children[0].Children[0]
	approx(t, "spanned width", spanned.W, 300)
}

func TestRowSpanDistributesHeight(t *testing.T) {
	// A tall spanning cell forces its two rows to absorb the deficit
	// equally.
	tall := &schema.Node{Type: schema.Cell, RowSpan: 2, Children: []*schema.Node{
		{Type: schema.View, Style: &schema.Style{Height: dimPt(100)}},
	}}
	short := &schema.Node{Type: schema.Cell, Children: []*schema.Node{
		{Type: schema.View, Style: &schema.Style{Height: dimPt(10)}},
	}}
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(200)},
		ColumnWidths: []schema.Dimension{schema.Percent(50), schema.Percent(50)},
		Children: []*schema.Node{
			row(tall, short),
			row(short),
		},
	}))
	grid := root.Children[0].Grid
	if len(grid.RowHeights) != 2 {
		t.Fatalf("rows = %d", len(grid.RowHeights))
	}
	// Single-row cells demand 10 each; the spanning cell needs 100, so the
	// 80pt deficit splits 40/40.
	approx(t, "row 0", grid.RowHeights[0], 50)
	approx(t, "row 1", grid.RowHeights[1], 50)

	// The spanning cell covers both rows.
	spanCell := root.Children[0].Children[0].Children[0]
	approx(t, "span cell height", spanCell.H, 100)
}

func TestRowHeightsFollowContent(t *testing.T) {
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(300)},
		ColumnWidths: []schema.Dimension{schema.Percent(100)},
		Children: []*schema.Node{
			row(&schema.Node{Type: schema.Cell, Children: []*schema.Node{
				{Type: schema.View, Style: &schema.Style{Height: dimPt(42)}},
			}}),
			row(&schema.Node{Type: schema.Cell, Children: []*schema.Node{
				{Type: schema.View, Style: &schema.Style{Height: dimPt(7)}},
			}}),
		},
	}))
	table := root.Children[0]
	approx(t, "row 0 height", table.Grid.RowHeights[0], 42)
	approx(t, "row 1 height", table.Grid.RowHeights[1], 7)
	approx(t, "table height", table.H, 49)

	// Invariant 5: rows sum to the table content height.
	var sum float64
	for _, h := range table.Grid.RowHeights {
		sum += h
	}
	if math.Abs(sum-49) > Epsilon {
		t.Errorf("row sum = %.2f, want 49", sum)
	}

	// Rows are stacked.
	approx(t, "row 1 y", table.Children[1].Y, 42)
}

func TestDefiniteTableHeightDistributesExtra(t *testing.T) {
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(300), Height: dimPt(100)},
		ColumnWidths: []schema.Dimension{schema.Percent(100)},
		Children: []*schema.Node{
			row(&schema.Node{Type: schema.Cell, Children: []*schema.Node{
				{Type: schema.View, Style: &schema.Style{Height: dimPt(10)}},
			}}),
			row(&schema.Node{Type: schema.Cell, Children: []*schema.Node{
				{Type: schema.View, Style: &schema.Style{Height: dimPt(10)}},
			}}),
		},
	}))
	grid := root.Children[0].Grid
	approx(t, "row 0 grows", grid.RowHeights[0], 50)
	approx(t, "row 1 grows", grid.RowHeights[1], 50)
}

func TestTableColumnGap(t *testing.T) {
	_, root := layoutTree(t, page(&schema.Node{
		Type:         schema.Table,
		Style:        &schema.Style{Width: dimPt(210), Gap: ptr(10.0)},
		ColumnWidths: []schema.Dimension{schema.Pt(100), schema.Pt(100)},
		Children: []*schema.Node{
			row(cellText("a"), cellText("b")),
		},
	}))
	table := root.Children[0]
	second := table.Children[0].Children[1]
	approx(t, "second cell x", second.X, 110)
}
