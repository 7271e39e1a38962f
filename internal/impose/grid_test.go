// internal/impose/grid_test.go
package impose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkfold/bindery/api/schemas"
)

func TestArrangementDims(t *testing.T) {
	testCases := []struct {
		name       string
		binding    schemas.BindingType
		arr        schemas.Arrangement
		cols, rows int
	}{
		{"folio", schemas.BindingSignature, schemas.Folio(), 2, 1},
		{"quarto", schemas.BindingSignature, schemas.Quarto(), 2, 2},
		{"octavo", schemas.BindingSignature, schemas.Octavo(), 4, 2},
		{"custom folded is 2-up per sheet", schemas.BindingSignature, schemas.CustomArrangement(16), 2, 1},
		{"custom straight stacks rows", schemas.BindingSpiral, schemas.CustomArrangement(16), 2, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cols, rows := arrangementDims(tc.binding, tc.arr)
			assert.Equal(t, tc.cols, cols)
			assert.Equal(t, tc.rows, rows)
		})
	}
}

func TestSheetsPerSignature(t *testing.T) {
	assert.Equal(t, 1, sheetsPerSignature(schemas.BindingSignature, schemas.Quarto()))
	assert.Equal(t, 1, sheetsPerSignature(schemas.BindingSignature, schemas.Octavo()))
	assert.Equal(t, 4, sheetsPerSignature(schemas.BindingSignature, schemas.CustomArrangement(16)))
	assert.Equal(t, 1, sheetsPerSignature(schemas.BindingPerfect, schemas.CustomArrangement(16)))
}

// TestBuildGrid_BoundaryClassification checks which internal boundaries
// fold and which cut, per arrangement and binding.
func TestBuildGrid_BoundaryClassification(t *testing.T) {
	t.Run("folio folds its spine", func(t *testing.T) {
		g := buildGrid(schemas.BindingSignature, schemas.Folio(), 400, 300, false)
		assert.Equal(t, []int{0}, g.VFolds)
		assert.Empty(t, g.VCuts)
		assert.False(t, g.HSpine)
	})

	t.Run("octavo slices the center column", func(t *testing.T) {
		g := buildGrid(schemas.BindingSignature, schemas.Octavo(), 800, 400, false)
		assert.Equal(t, []int{0, 2}, g.VFolds)
		assert.Equal(t, []int{1}, g.VCuts)
		assert.Equal(t, []int{0}, g.HFolds)
		assert.False(t, g.HSpine)
	})

	t.Run("landscape quarto binds on the horizontal fold", func(t *testing.T) {
		g := buildGrid(schemas.BindingSignature, schemas.Quarto(), 800, 500, true)
		assert.True(t, g.HSpine)
		assert.Equal(t, []int{0}, g.HFolds)
	})

	t.Run("straight bindings cut every boundary", func(t *testing.T) {
		g := buildGrid(schemas.BindingSideStitch, schemas.CustomArrangement(16), 400, 800, false)
		assert.Empty(t, g.VFolds)
		assert.Empty(t, g.HFolds)
		assert.Equal(t, []int{0}, g.VCuts)
		assert.Equal(t, []int{0, 1, 2}, g.HCuts)
		assert.False(t, g.HSpine)
	})
}

// TestGrid_CellRect checks top-down row addressing against bottom-up
// coordinates.
func TestGrid_CellRect(t *testing.T) {
	g := buildGrid(schemas.BindingSignature, schemas.Quarto(), 400, 600, false)
	leaf := Rect{X: 50, Y: 30, W: 400, H: 600}

	top := g.cellRect(leaf, 0, 0)
	assert.InDelta(t, 50, top.X, 1e-9)
	assert.InDelta(t, 330, top.Y, 1e-9, "row 0 is the top row")

	bottom := g.cellRect(leaf, 1, 1)
	assert.InDelta(t, 250, bottom.X, 1e-9)
	assert.InDelta(t, 30, bottom.Y, 1e-9)
	assert.InDelta(t, 200, bottom.W, 1e-9)
	assert.InDelta(t, 300, bottom.H, 1e-9)
}

// TestGrid_FoldEdges checks the per-cell fold edge predicates that drive
// margin orientation.
func TestGrid_FoldEdges(t *testing.T) {
	g := buildGrid(schemas.BindingSignature, schemas.Octavo(), 800, 400, false)

	assert.True(t, g.foldRight(0))
	assert.False(t, g.foldLeft(0))
	assert.True(t, g.foldLeft(1))
	assert.False(t, g.foldRight(1), "boundary 1 is the cut")
	assert.True(t, g.foldRight(2))
	assert.True(t, g.foldLeft(3))
	assert.False(t, g.foldRight(3), "outer edge of the sheet")

	assert.True(t, g.foldBottom(0))
	assert.True(t, g.foldTop(1))
	assert.False(t, g.foldTop(0))
	assert.False(t, g.foldBottom(1))
}
