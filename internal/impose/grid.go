// internal/impose/grid.go
package impose

import (
	"slices"

	"github.com/inkfold/bindery/api/schemas"
)

// Grid describes the cell layout of one sheet side within the leaf area.
// Vertical boundary b sits on the right edge of column b; horizontal
// boundary r sits on the bottom edge of row r, with row 0 at the top of
// the sheet. Boundaries are classified as folds (paper bends there) or
// cuts (paper is sliced open there).
type Grid struct {
	Cols int
	Rows int
	// CellW and CellH are the cell dimensions in points.
	CellW float64
	CellH float64

	VFolds []int
	VCuts  []int
	HFolds []int
	HCuts  []int
	// HSpine marks the horizontal fold as the binding spine, which happens
	// when a quarto is imposed on landscape stock.
	HSpine bool
}

// arrangementDims returns the per-side grid dimensions for an arrangement.
// Folded custom arrangements spread a signature over several 2-up sheets,
// so their per-sheet grid is a single row; straight custom chunks stay on
// one sheet and stack rows instead.
func arrangementDims(binding schemas.BindingType, arr schemas.Arrangement) (cols, rows int) {
	switch arr.Kind {
	case schemas.ArrangementFolio:
		return 2, 1
	case schemas.ArrangementQuarto:
		return 2, 2
	case schemas.ArrangementOctavo:
		return 4, 2
	case schemas.ArrangementCustom:
		if binding.Folds() {
			return 2, 1
		}
		return 2, arr.PagesPerSignature() / 4
	}
	return 0, 0
}

// sheetsPerSignature returns how many physical sheets one signature spans.
func sheetsPerSignature(binding schemas.BindingType, arr schemas.Arrangement) int {
	if binding.Folds() && arr.Kind == schemas.ArrangementCustom {
		return arr.PagesPerSignature() / 4
	}
	return 1
}

// buildGrid lays out the per-side grid for a leaf area of leafW x leafH
// points. Folded bindings get fold boundaries matching their folding
// sequence; straight bindings are cut apart, so every internal boundary is
// a cut.
func buildGrid(binding schemas.BindingType, arr schemas.Arrangement, leafW, leafH float64, landscape bool) Grid {
	cols, rows := arrangementDims(binding, arr)
	g := Grid{
		Cols:  cols,
		Rows:  rows,
		CellW: leafW / float64(cols),
		CellH: leafH / float64(rows),
	}

	if !binding.Folds() {
		for b := 0; b < cols-1; b++ {
			g.VCuts = append(g.VCuts, b)
		}
		for r := 0; r < rows-1; r++ {
			g.HCuts = append(g.HCuts, r)
		}
		return g
	}

	switch arr.Kind {
	case schemas.ArrangementFolio, schemas.ArrangementCustom:
		g.VFolds = []int{0}
	case schemas.ArrangementQuarto:
		g.VFolds = []int{0}
		g.HFolds = []int{0}
		g.HSpine = landscape
	case schemas.ArrangementOctavo:
		// The center column boundary is sliced open after folding, the
		// outer two are spine folds.
		g.VFolds = []int{0, 2}
		g.VCuts = []int{1}
		g.HFolds = []int{0}
	}
	return g
}

// cellRect returns the bounds of the cell at (row, col) inside the leaf
// area. Row 0 is the top row, so rows are counted down from the leaf top.
func (g *Grid) cellRect(leaf Rect, row, col int) Rect {
	return Rect{
		X: leaf.X + float64(col)*g.CellW,
		Y: leaf.Y + float64(g.Rows-row-1)*g.CellH,
		W: g.CellW,
		H: g.CellH,
	}
}

// foldLeft reports whether the cell column has a fold on its left edge.
func (g *Grid) foldLeft(col int) bool {
	return col > 0 && slices.Contains(g.VFolds, col-1)
}

// foldRight reports whether the cell column has a fold on its right edge.
func (g *Grid) foldRight(col int) bool {
	return slices.Contains(g.VFolds, col)
}

// foldTop reports whether the cell row has a fold on its top edge.
func (g *Grid) foldTop(row int) bool {
	return row > 0 && slices.Contains(g.HFolds, row-1)
}

// foldBottom reports whether the cell row has a fold on its bottom edge.
func (g *Grid) foldBottom(row int) bool {
	return slices.Contains(g.HFolds, row)
}
