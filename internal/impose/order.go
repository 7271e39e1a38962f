// internal/impose/order.go
package impose

// Page ordering for folded signatures follows the classic fold-unit model.
// A signature of n pages is built from n/4 nested paper units; unit k
// (counting from the outermost) carries four pages:
//
//	front: (n-2k | 1+2k)      back: (2+2k | n-1-2k)
//
// with the left/right split written as (left | right). Folding the nested
// stack down the middle and reading through it yields pages 1..n in order.
//
// For the named arrangements the units are not separate pieces of paper:
// they are regions of one sheet that the folding sequence turns into the
// nested stack. The units embed into the sheet grid along a serpentine
// path starting at the bottom-right panel, and every panel on the top row
// is printed upside down so the fold brings it upright.

// pagePair is the left/right page split on one face of a fold unit.
type pagePair struct {
	left  int
	right int
}

// foldUnit is one virtual paper unit of a folded signature.
type foldUnit struct {
	front pagePair
	back  pagePair
}

// foldUnits returns the n/4 units of an n-page signature, outermost first.
// Page numbers are 1-based within the signature.
func foldUnits(n int) []foldUnit {
	units := make([]foldUnit, n/4)
	for k := range units {
		units[k] = foldUnit{
			front: pagePair{left: n - 2*k, right: 1 + 2*k},
			back:  pagePair{left: 2 + 2*k, right: n - 1 - 2*k},
		}
	}
	return units
}

// slotPage is one slot's assignment in a signature side table: the 1-based
// page number within the signature and whether the slot prints upside down.
type slotPage struct {
	page    int
	rotated bool
}

// signatureSides computes the front and back slot tables for a whole
// signature imposed on a single sheet. Tables are row-major with row 0 at
// the top of the sheet. cols must be even and rows 1 or 2; cols*rows must
// equal n/2.
//
// Each pair of adjacent columns forms a panel holding one fold unit. Panels
// run serpentine: right to left along the bottom row, then left to right
// along the top. Even panels show their unit's front face on the sheet
// front; odd panels show the back face, so consecutive units end up nested
// after folding. The sheet back mirrors panels horizontally and shows each
// unit's other face, which keeps every page directly behind its duplex
// partner.
func signatureSides(n, cols, rows int) (front, back []slotPage) {
	units := foldUnits(n)
	groups := cols / 2
	front = make([]slotPage, cols*rows)
	back = make([]slotPage, cols*rows)

	for p, u := range units {
		row := 0
		group := p - groups
		if p < groups {
			row = rows - 1
			group = groups - 1 - p
		}
		rotated := rows == 2 && row == 0

		f, b := u.front, u.back
		if p%2 == 1 {
			f, b = b, f
		}
		placePair(front, cols, row, group, f, rotated)
		placePair(back, cols, row, groups-1-group, b, rotated)
	}
	return front, back
}

// placePair writes one face of a unit into the two columns of a panel.
// Rotated panels swap left and right because the face is upside down.
func placePair(side []slotPage, cols, row, group int, face pagePair, rotated bool) {
	left, right := face.left, face.right
	if rotated {
		left, right = right, left
	}
	base := row*cols + 2*group
	side[base] = slotPage{page: left, rotated: rotated}
	side[base+1] = slotPage{page: right, rotated: rotated}
}

// customSheetSides computes the 2-up front and back tables for sheet number
// `sheet` of a custom folded signature. Each sheet is one fold unit; the
// nested stack of n/4 sheets folds once down the middle.
func customSheetSides(n, sheet int) (front, back []slotPage) {
	u := foldUnits(n)[sheet]
	front = []slotPage{{page: u.front.left}, {page: u.front.right}}
	back = []slotPage{{page: u.back.left}, {page: u.back.right}}
	return front, back
}

// straightSides computes the side tables for non-folded bindings: the first
// half of the signature chunk fills the front in reading order, the second
// half the back. No slot rotates.
func straightSides(n int) (front, back []slotPage) {
	half := n / 2
	front = make([]slotPage, half)
	back = make([]slotPage, half)
	for i := 0; i < half; i++ {
		front[i] = slotPage{page: i + 1}
		back[i] = slotPage{page: half + i + 1}
	}
	return front, back
}
