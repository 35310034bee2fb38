package layout

import (
	"context"
)

// Grid is the resolved geometry of a table: column widths and row heights
// in points. Gap applies between both columns and rows.
type Grid struct {
	ColWidths  []float64
	RowHeights []float64
	Gap        float64
}

// InnerWidth returns the total width of columns plus gaps.
func (g *Grid) InnerWidth() float64 {
	var w float64
	for _, c := range g.ColWidths {
		w += c
	}
	if n := len(g.ColWidths); n > 1 {
		w += g.Gap * float64(n-1)
	}
	return w
}

// columnCount returns the table's column count: the maximum sum of column
// spans across rows, capped below by the declared column list.
func columnCount(b *Box) int {
	n := len(b.Node.ColumnWidths)
	for _, row := range b.InFlow() {
		total := 0
		for _, cell := range row.InFlow() {
			total += cell.ColSpan()
		}
		if total > n {
			n = total
		}
	}
	return n
}

// gridForWidth resolves column widths and row heights for a table laid out
// at the given content width, per the declared columnWidths: fixed and
// percentage entries resolve against the content width; auto columns take
// their widest cell's preferred width, splitting any leftover equally, or
// shrink proportionally (not below their minimum) when over budget.
func (e *Engine) gridForWidth(b *Box, contentW float64) (*Grid, float64) {
	rows := b.InFlow()
	numCols := columnCount(b)
	gap := b.Style.Gap
	grid := &Grid{Gap: gap}
	if numCols == 0 || len(rows) == 0 {
		return grid, 0
	}

	widths := make([]float64, numCols)
	auto := make([]bool, numCols)
	for i := range auto {
		auto[i] = true
	}
	for i, def := range b.Node.ColumnWidths {
		if i >= numCols {
			break
		}
		if !def.IsAuto() {
			widths[i] = def.Resolve(contentW)
			auto[i] = false
		}
	}

	totalGaps := gap * float64(numCols-1)
	var fixedTotal float64
	numAuto := 0
	for i := range widths {
		if auto[i] {
			numAuto++
		} else {
			fixedTotal += widths[i]
		}
	}

	if numAuto > 0 {
		remaining := maxf(contentW-fixedTotal-totalGaps, 0)
		measured, minimums := e.measureAutoColumns(b, rows, numCols, auto, contentW)

		var measuredTotal float64
		for i := range measured {
			if auto[i] {
				measuredTotal += measured[i]
			}
		}
		if measuredTotal <= remaining {
			leftover := (remaining - measuredTotal) / float64(numAuto)
			for i := range widths {
				if auto[i] {
					widths[i] = measured[i] + leftover
				}
			}
		} else {
			factor := remaining / measuredTotal
			for i := range widths {
				if auto[i] {
					widths[i] = maxf(measured[i]*factor, minimums[i])
				}
			}
		}
	}
	grid.ColWidths = widths

	// Row heights: single-row cells set each row's lower bound, then
	// spanning cells top up the rows they cover, deficit split equally.
	rowHeights := make([]float64, len(rows))
	type spanReq struct {
		start, span int
		height      float64
	}
	var spans []spanReq

	active := make([]int, numCols)
	for r, row := range rows {
		colIdx := 0
		for _, cell := range row.InFlow() {
			for colIdx < numCols && active[colIdx] > 0 {
				colIdx++
			}
			if colIdx >= numCols {
				break
			}
			span := cell.ColSpan()
			if span > numCols-colIdx {
				span = numCols - colIdx
			}
			var spanW float64
			for c := colIdx; c < colIdx+span; c++ {
				spanW += widths[c]
			}
			spanW += gap * float64(span-1)

			cellH := e.heightFor(cell, spanW-cell.Style.Margin.Horizontal(), 0, false) + cell.Style.Margin.Vertical()

			rowSpan := cell.RowSpan()
			if rowSpan > len(rows)-r {
				rowSpan = len(rows) - r
			}
			if rowSpan == 1 {
				rowHeights[r] = maxf(rowHeights[r], cellH)
			} else {
				spans = append(spans, spanReq{start: r, span: rowSpan, height: cellH})
			}
			for c := colIdx; c < colIdx+span; c++ {
				if rowSpan > active[c] {
					active[c] = rowSpan
				}
			}
			colIdx += span
		}
		for c := range active {
			if active[c] > 0 {
				active[c]--
			}
		}
	}

	for _, s := range spans {
		var covered float64
		for r := s.start; r < s.start+s.span; r++ {
			covered += rowHeights[r]
		}
		covered += gap * float64(s.span-1)
		if deficit := s.height - covered; deficit > 0 {
			share := deficit / float64(s.span)
			for r := s.start; r < s.start+s.span; r++ {
				rowHeights[r] += share
			}
		}
	}
	grid.RowHeights = rowHeights

	var totalH float64
	for _, h := range rowHeights {
		totalH += h
	}
	totalH += gap * float64(len(rows)-1)
	return grid, totalH
}

// measureAutoColumns returns per-column preferred and minimum widths taken
// from cells spanning exactly one column.
func (e *Engine) measureAutoColumns(b *Box, rows []*Box, numCols int, auto []bool, contentW float64) (measured, minimums []float64) {
	measured = make([]float64, numCols)
	minimums = make([]float64, numCols)

	active := make([]int, numCols)
	for _, row := range rows {
		colIdx := 0
		for _, cell := range row.InFlow() {
			for colIdx < numCols && active[colIdx] > 0 {
				colIdx++
			}
			if colIdx >= numCols {
				break
			}
			span := cell.ColSpan()
			if span > numCols-colIdx {
				span = numCols - colIdx
			}
			if span == 1 && auto[colIdx] {
				e.measure(cell, contentW, 0, false)
				measured[colIdx] = maxf(measured[colIdx], cell.Pref.W+cell.Style.Margin.Horizontal())
				minimums[colIdx] = maxf(minimums[colIdx], cell.Min.W+cell.Style.Margin.Horizontal())
			}
			rowSpan := cell.RowSpan()
			for c := colIdx; c < colIdx+span; c++ {
				if rowSpan > active[c] {
					active[c] = rowSpan
				}
			}
			colIdx += span
		}
		for c := range active {
			if active[c] > 0 {
				active[c]--
			}
		}
	}
	return measured, minimums
}

func (e *Engine) measureTable(b *Box, availW, availH float64, definiteH bool) {
	in := b.ContentInsets()

	explicitW, wok := resolveDim(b.Style.Width, availW, true)
	contentW := availW - in.Horizontal()
	if wok {
		contentW = explicitW - in.Horizontal()
	}

	grid, totalH := e.gridForWidth(b, contentW)
	b.Pref = Size{W: grid.InnerWidth() + in.Horizontal(), H: totalH + in.Vertical()}
	b.Min = b.Pref
	_, hok := resolveDim(b.Style.Height, availH, definiteH)
	b.DefiniteH = hok
}

// placeTable lays out the table's grid at its final width and places each
// cell at its spanned rectangle. When the table has a definite height
// larger than the rows require, the extra is distributed equally.
func (e *Engine) placeTable(ctx context.Context, b *Box, cb rect) error {
	cx, cy, cw, ch := b.ContentRect()
	rows := b.InFlow()
	if len(rows) > 0 && cw <= 0 {
		e.warnf(WarnDegenerate, b.Path, "table content width is %.1f; rows skipped", cw)
		return nil
	}

	grid, totalH := e.gridForWidth(b, cw)
	b.Grid = grid
	numCols := len(grid.ColWidths)
	if numCols == 0 || len(rows) == 0 {
		return nil
	}

	if b.DefiniteH && ch > totalH+Epsilon {
		share := (ch - totalH) / float64(len(rows))
		for i := range grid.RowHeights {
			grid.RowHeights[i] += share
		}
	}

	gap := grid.Gap
	innerW := grid.InnerWidth()
	active := make([]int, numCols)
	cursorY := cy

	for r, row := range rows {
		rowH := grid.RowHeights[r]
		row.X, row.Y, row.W, row.H = cx, cursorY, innerW, rowH
		row.DefiniteH = true

		colIdx := 0
		cursorX := cx
		for _, cell := range row.InFlow() {
			for colIdx < numCols && active[colIdx] > 0 {
				cursorX += grid.ColWidths[colIdx] + gap
				colIdx++
			}
			if colIdx >= numCols {
				break
			}
			span := cell.ColSpan()
			if span > numCols-colIdx {
				span = numCols - colIdx
			}
			var spanW float64
			for c := colIdx; c < colIdx+span; c++ {
				spanW += grid.ColWidths[c]
			}
			spanW += gap * float64(span-1)

			rowSpan := cell.RowSpan()
			if rowSpan > len(rows)-r {
				rowSpan = len(rows) - r
			}
			var spanH float64
			for rr := r; rr < r+rowSpan; rr++ {
				spanH += grid.RowHeights[rr]
			}
			spanH += gap * float64(rowSpan-1)

			m := cell.Style.Margin
			cell.DefiniteH = true
			if err := e.placeChild(ctx, cell,
				cursorX+m.Left, cursorY+m.Top,
				spanW-m.Horizontal(), spanH-m.Vertical(), cb); err != nil {
				return err
			}

			for c := colIdx; c < colIdx+span; c++ {
				if rowSpan > active[c] {
					active[c] = rowSpan
				}
			}
			cursorX += spanW + gap
			colIdx += span
		}
		for c := range active {
			if active[c] > 0 {
				active[c]--
			}
		}
		cursorY += rowH + gap
	}
	return nil
}
