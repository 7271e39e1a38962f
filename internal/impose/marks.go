// internal/impose/marks.go
package impose

import "github.com/inkfold/bindery/api/schemas"

// Printer's marks are emitted as device-independent primitives so the
// assembler can map them 1:1 onto PDF drawing operators.

const (
	foldLineWidth  = 0.5
	cutLineWidth   = 0.5
	cropMarkWidth  = 0.25
	cropMarkLength = 12.0
	cropMarkGap    = 3.0
	regMarkWidth   = 0.25
	regMarkSize    = 10.0
	scissorsSize   = 8.0
	scissorsWidth  = 0.3

	sewingStations = 4
	sewingTickLen  = 12.0
	spineBlockW    = 6.0
	spineBlockH    = 18.0
)

// foldDashPattern is the on/off dash lengths for fold lines.
var foldDashPattern = []float64{6, 3}

// MarkKind labels which printer's mark a primitive belongs to.
type MarkKind string

const (
	MarkFold         MarkKind = "fold"
	MarkCut          MarkKind = "cut"
	MarkCrop         MarkKind = "crop"
	MarkTrim         MarkKind = "trim"
	MarkRegistration MarkKind = "registration"
	MarkSewing       MarkKind = "sewing"
	MarkSpine        MarkKind = "spine"
)

// MarkOp selects the drawing primitive of a Mark.
type MarkOp string

const (
	// OpLine strokes a line from (X1,Y1) to (X2,Y2).
	OpLine MarkOp = "line"
	// OpCircle strokes a circle of radius R centered at (X1,Y1).
	OpCircle MarkOp = "circle"
	// OpBox fills the rectangle with corners (X1,Y1) and (X2,Y2).
	OpBox MarkOp = "box"
)

// Mark is one drawing primitive of a printer's mark, in sheet coordinates.
type Mark struct {
	Kind  MarkKind
	Op    MarkOp
	Width float64
	// Dash is the stroke dash pattern; nil strokes solid.
	Dash []float64
	X1   float64
	Y1   float64
	X2   float64
	Y2   float64
	R    float64
}

func markLine(kind MarkKind, width float64, dash []float64, x1, y1, x2, y2 float64) Mark {
	return Mark{Kind: kind, Op: OpLine, Width: width, Dash: dash, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func markCircle(kind MarkKind, width, cx, cy, r float64) Mark {
	return Mark{Kind: kind, Op: OpCircle, Width: width, X1: cx, Y1: cy, R: r}
}

func markBox(kind MarkKind, x1, y1, x2, y2 float64) Mark {
	return Mark{Kind: kind, Op: OpBox, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// buildSideMarks generates the printer's marks for one sheet side. Trim
// marks depend on resolved placements, so this runs after placement.
// signatureCount positions the collation block for spine marks.
func buildSideMarks(sheet *Sheet, side *Side, cfg schemas.ImpositionConfig, signatureCount int) []Mark {
	if sheet.Flyleaf || !cfg.Marks.Any() {
		return nil
	}

	var marks []Mark
	g := &sheet.Grid
	leaf := sheet.Leaf

	if cfg.Marks.FoldLines {
		marks = append(marks, foldLineMarks(g, leaf)...)
	}
	if cfg.Marks.CutLines {
		marks = append(marks, cutLineMarks(g, leaf)...)
	}
	if cfg.Marks.CropMarks {
		marks = append(marks, cornerMarks(MarkCrop, leaf)...)
	}
	if cfg.Marks.TrimMarks {
		for i := range side.Slots {
			p := side.Slots[i].Placement
			if p != nil && p.Target.Valid() {
				marks = append(marks, cornerMarks(MarkTrim, p.Target)...)
			}
		}
	}
	if cfg.Marks.RegistrationMarks {
		marks = append(marks, registrationMarks(leaf)...)
	}
	if cfg.Marks.SewingMarks && side.Face == FaceFront && cfg.Binding.Folds() &&
		sheet.SheetInSignature == sheetsPerSignature(cfg.Binding, cfg.Arrangement)-1 {
		marks = append(marks, sewingMarksFor(g, leaf)...)
	}
	if cfg.Marks.SpineMarks && side.Face == FaceFront &&
		(cfg.Binding == schemas.BindingPerfect || cfg.Binding == schemas.BindingCaseBinding) {
		marks = append(marks, spineMark(g, leaf, cfg.Binding, sheet.Signature, signatureCount))
	}
	return marks
}

// vBoundaryX returns the x coordinate of vertical boundary b.
func vBoundaryX(g *Grid, leaf Rect, b int) float64 {
	return leaf.X + float64(b+1)*g.CellW
}

// hBoundaryY returns the y coordinate of horizontal boundary r, the line
// under row r.
func hBoundaryY(g *Grid, leaf Rect, r int) float64 {
	return leaf.Y + float64(g.Rows-r-1)*g.CellH
}

// foldLineMarks dashes the fold boundaries: every vertical fold, plus the
// horizontal boundary when it is the spine.
func foldLineMarks(g *Grid, leaf Rect) []Mark {
	var marks []Mark
	for _, b := range g.VFolds {
		x := vBoundaryX(g, leaf, b)
		marks = append(marks, markLine(MarkFold, foldLineWidth, foldDashPattern, x, leaf.Y, x, leaf.Top()))
	}
	if g.HSpine {
		for _, r := range g.HFolds {
			y := hBoundaryY(g, leaf, r)
			marks = append(marks, markLine(MarkFold, foldLineWidth, foldDashPattern, leaf.X, y, leaf.Right(), y))
		}
	}
	return marks
}

// cutLineMarks strokes solid lines with a scissors symbol where the sheet
// is sliced open: explicit cut boundaries, plus the horizontal fold when
// it is a head fold rather than the spine.
func cutLineMarks(g *Grid, leaf Rect) []Mark {
	var marks []Mark

	hCuts := g.HCuts
	if !g.HSpine {
		hCuts = append(append([]int{}, hCuts...), g.HFolds...)
	}
	for _, r := range hCuts {
		y := hBoundaryY(g, leaf, r)
		marks = append(marks, markLine(MarkCut, cutLineWidth, nil, leaf.X, y, leaf.Right(), y))
		marks = append(marks, scissorsRight(leaf.X-scissorsSize-3, y)...)
	}
	for _, b := range g.VCuts {
		x := vBoundaryX(g, leaf, b)
		marks = append(marks, markLine(MarkCut, cutLineWidth, nil, x, leaf.Y, x, leaf.Top()))
		marks = append(marks, scissorsUp(x, leaf.Y-scissorsSize-3)...)
	}
	return marks
}

// scissorsRight draws a small scissors symbol pointing right, anchored so
// its blades meet the cut line at (x+scissorsSize, y).
func scissorsRight(x, y float64) []Mark {
	half := scissorsSize / 2
	r := half * 0.4

	cx := x + half*0.3
	cy1 := y + half*0.5
	cy2 := y - half*0.5
	return []Mark{
		markCircle(MarkCut, scissorsWidth, cx, cy1, r),
		markCircle(MarkCut, scissorsWidth, cx, cy2, r),
		markLine(MarkCut, scissorsWidth, nil, cx+r, cy1-r*0.5, x+scissorsSize, y+1),
		markLine(MarkCut, scissorsWidth, nil, cx+r, cy2+r*0.5, x+scissorsSize, y-1),
	}
}

// scissorsUp draws a small scissors symbol pointing up toward a vertical
// cut line at x.
func scissorsUp(x, y float64) []Mark {
	half := scissorsSize / 2
	r := half * 0.4

	cy := y + half*0.3
	cx1 := x - half*0.5
	cx2 := x + half*0.5
	return []Mark{
		markCircle(MarkCut, scissorsWidth, cx1, cy, r),
		markCircle(MarkCut, scissorsWidth, cx2, cy, r),
		markLine(MarkCut, scissorsWidth, nil, cx1+r*0.5, cy+r, x-1, y+scissorsSize),
		markLine(MarkCut, scissorsWidth, nil, cx2-r*0.5, cy+r, x+1, y+scissorsSize),
	}
}

// cornerMarks draws L-shaped marks just outside the four corners of a
// rectangle. Used for both crop marks (leaf area) and trim marks (placed
// content).
func cornerMarks(kind MarkKind, r Rect) []Mark {
	left, right := r.X, r.Right()
	bottom, top := r.Y, r.Top()

	return []Mark{
		// Top-left
		markLine(kind, cropMarkWidth, nil, left, top+cropMarkGap, left, top+cropMarkGap+cropMarkLength),
		markLine(kind, cropMarkWidth, nil, left-cropMarkGap, top, left-cropMarkGap-cropMarkLength, top),
		// Top-right
		markLine(kind, cropMarkWidth, nil, right, top+cropMarkGap, right, top+cropMarkGap+cropMarkLength),
		markLine(kind, cropMarkWidth, nil, right+cropMarkGap, top, right+cropMarkGap+cropMarkLength, top),
		// Bottom-left
		markLine(kind, cropMarkWidth, nil, left, bottom-cropMarkGap, left, bottom-cropMarkGap-cropMarkLength),
		markLine(kind, cropMarkWidth, nil, left-cropMarkGap, bottom, left-cropMarkGap-cropMarkLength, bottom),
		// Bottom-right
		markLine(kind, cropMarkWidth, nil, right, bottom-cropMarkGap, right, bottom-cropMarkGap-cropMarkLength),
		markLine(kind, cropMarkWidth, nil, right+cropMarkGap, bottom, right+cropMarkGap+cropMarkLength, bottom),
	}
}

// registrationMarks places a crosshair-and-circle target at the midpoint
// of each leaf edge, offset outward clear of the crop marks.
func registrationMarks(leaf Rect) []Mark {
	offset := cropMarkGap + regMarkSize
	half := regMarkSize / 2

	midX := leaf.X + leaf.W/2
	midY := leaf.Y + leaf.H/2
	positions := [][2]float64{
		{midX, leaf.Top() + offset},
		{midX, leaf.Y - offset},
		{leaf.X - offset, midY},
		{leaf.Right() + offset, midY},
	}

	var marks []Mark
	for _, pos := range positions {
		cx, cy := pos[0], pos[1]
		marks = append(marks,
			markLine(MarkRegistration, regMarkWidth, nil, cx-half, cy, cx+half, cy),
			markLine(MarkRegistration, regMarkWidth, nil, cx, cy-half, cx, cy+half),
			markCircle(MarkRegistration, regMarkWidth, cx, cy, half*0.7),
		)
	}
	return marks
}

// sewingMarksFor places short ticks across the spine fold at evenly spaced
// sewing stations. Drawn on the innermost sheet of each signature, where
// the needle passes.
func sewingMarksFor(g *Grid, leaf Rect) []Mark {
	var marks []Mark
	for _, b := range g.VFolds {
		x := vBoundaryX(g, leaf, b)
		for i := 1; i <= sewingStations; i++ {
			y := leaf.Y + leaf.H*float64(i)/float64(sewingStations+1)
			marks = append(marks, markLine(MarkSewing, cutLineWidth, nil,
				x-sewingTickLen/2, y, x+sewingTickLen/2, y))
		}
	}
	if g.HSpine {
		for _, r := range g.HFolds {
			y := hBoundaryY(g, leaf, r)
			for i := 1; i <= sewingStations; i++ {
				x := leaf.X + leaf.W*float64(i)/float64(sewingStations+1)
				marks = append(marks, markLine(MarkSewing, cutLineWidth, nil,
					x, y-sewingTickLen/2, x, y+sewingTickLen/2))
			}
		}
	}
	return marks
}

// spineMark draws the collation block for one signature: a filled box on
// the spine edge whose position steps down the spine per signature, so a
// correctly gathered book block shows a clean staircase.
func spineMark(g *Grid, leaf Rect, binding schemas.BindingType, signature, signatureCount int) Mark {
	x := leaf.X
	if binding.Folds() && len(g.VFolds) > 0 {
		x = vBoundaryX(g, leaf, g.VFolds[0])
	}

	travel := leaf.H - spineBlockH
	if travel < 0 {
		travel = 0
	}
	denom := signatureCount
	if denom < 1 {
		denom = 1
	}
	topY := leaf.Top() - travel*float64(signature)/float64(denom)
	return markBox(MarkSpine, x-spineBlockW/2, topY-spineBlockH, x+spineBlockW/2, topY)
}
