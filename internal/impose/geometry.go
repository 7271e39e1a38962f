// internal/impose/geometry.go
package impose

import (
	"math"

	"github.com/inkfold/bindery/api/schemas"
)

// Rect is an axis-aligned rectangle in PDF user space: origin at the
// bottom-left of the sheet, units in points.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// Valid reports whether the rectangle has positive area.
func (r Rect) Valid() bool { return r.W > 0 && r.H > 0 }

// Placement positions a scaled source page inside a slot.
type Placement struct {
	// Target is the scaled page rectangle on the sheet.
	Target Rect
	ScaleX float64
	ScaleY float64
	// Rotated draws the page turned 180 degrees in place.
	Rotated bool
}

// contentArea shrinks a cell by the leaf margins. Which physical edge the
// spine and fore-edge margins land on depends on the cell's fold edges:
// the spine margin hugs folds toward the binding, the fore-edge margin the
// opposite edge, and cells with no fold on an axis split the difference.
// Rotated slots swap margins because their content prints upside down.
func contentArea(cell Rect, margins schemas.LeafMargins, g *Grid, row, col int, rotated bool) Rect {
	topM, bottomM, spineM, foreM := margins.Points()

	var left, right float64
	if g.HSpine {
		// Horizontal spine: both vertical edges face away from the binding.
		left, right = foreM, foreM
	} else {
		foldL, foldR := g.foldLeft(col), g.foldRight(col)
		switch {
		case foldR && !foldL:
			left, right = foreM, spineM
		case foldL && !foldR:
			left, right = spineM, foreM
		case foldL && foldR:
			left, right = spineM, spineM
		default:
			avg := (spineM + foreM) / 2
			left, right = avg, avg
		}
		if rotated {
			left, right = right, left
		}
	}

	var bottom, top float64
	switch {
	case g.HSpine && g.foldBottom(row):
		bottom, top = spineM, foreM
	case g.HSpine && g.foldTop(row):
		bottom, top = foreM, spineM
	case !g.HSpine && rotated:
		bottom, top = topM, bottomM
	default:
		bottom, top = bottomM, topM
	}

	return Rect{
		X: cell.X + left,
		Y: cell.Y + bottom,
		W: cell.W - left - right,
		H: cell.H - bottom - top,
	}
}

// scaleFactors returns the per-axis scale for a page of pageW x pageH
// going into an area of areaW x areaH.
func scaleFactors(pageW, pageH, areaW, areaH float64, mode schemas.ScalingMode) (sx, sy float64) {
	switch mode {
	case schemas.ScaleFit:
		s := math.Min(areaW/pageW, areaH/pageH)
		return s, s
	case schemas.ScaleFill:
		s := math.Max(areaW/pageW, areaH/pageH)
		return s, s
	case schemas.ScaleStretch:
		return areaW / pageW, areaH / pageH
	default:
		return 1, 1
	}
}

// placePage computes the placement of a source page in a slot content
// area. The scaled page is centered on both axes; Fill and None may
// overflow the area, and the assembler clips them to the cell.
func placePage(area Rect, pageW, pageH float64, mode schemas.ScalingMode, rotated bool) Placement {
	sx, sy := scaleFactors(pageW, pageH, area.W, area.H, mode)
	w := pageW * sx
	h := pageH * sy
	return Placement{
		Target: Rect{
			X: area.X + (area.W-w)/2,
			Y: area.Y + (area.H-h)/2,
			W: w,
			H: h,
		},
		ScaleX:  sx,
		ScaleY:  sy,
		Rotated: rotated,
	}
}

// checkPageDims rejects source pages whose reported size cannot be imposed.
// The written-out condition also catches NaN dimensions.
func checkPageDims(page, sheet, slot int, w, h float64) error {
	if w > 0 && h > 0 {
		return nil
	}
	return &GeometryError{Page: page, Sheet: sheet, Slot: slot, Width: w, Height: h}
}
