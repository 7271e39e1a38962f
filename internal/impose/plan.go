// internal/impose/plan.go
package impose

import (
	"github.com/inkfold/bindery/api/schemas"
)

// Face names a printable side of a sheet.
type Face string

const (
	FaceFront Face = "front"
	FaceBack  Face = "back"
)

// Slot is one page position on a sheet side.
type Slot struct {
	// Index is the row-major position on the side.
	Index int
	Row   int
	Col   int
	// Page is the 1-based page number in the padded document.
	Page int
	// Source is the 0-based source page index, or -1 for a padding blank.
	Source int
	// Rotated slots print upside down so folding brings them upright.
	Rotated bool
	// Cell is the full grid cell; Content is the cell minus leaf margins.
	Cell    Rect
	Content Rect
	// Placement is resolved once the source page dimensions are known.
	// Blank slots never get one.
	Placement *Placement
}

// Blank reports whether the slot holds a padding blank.
func (s *Slot) Blank() bool { return s.Source < 0 }

// Side is one printable face of a sheet.
type Side struct {
	Face  Face
	Slots []Slot
	// Marks is populated after placement, because trim marks frame the
	// placed content rectangles.
	Marks []Mark
}

// Sheet is one physical piece of paper in the output.
type Sheet struct {
	// Index is the position in the output sheet sequence, flyleaves included.
	Index int
	// Signature is the 0-based signature index, or -1 for flyleaf sheets.
	Signature int
	// SheetInSignature is this sheet's position within a multi-sheet
	// signature; 0 for single-sheet signatures.
	SheetInSignature int
	Flyleaf          bool
	Width            float64
	Height           float64
	// Leaf is the sheet minus sheet margins.
	Leaf  Rect
	Grid  Grid
	Front Side
	Back  Side
}

// SideRef pairs a sheet with one of its sides for output ordering.
type SideRef struct {
	Sheet *Sheet
	Side  *Side
}

// Plan is a fully ordered imposition: every output sheet with its slot
// assignments, geometry and statistics. Placements and marks are attached
// by the engine once page dimensions are available.
type Plan struct {
	Config schemas.ImpositionConfig
	Sheets []Sheet
	Stats  schemas.ImpositionStats
}

// roundUpToMultiple rounds v up to the next multiple of m.
func roundUpToMultiple(v, m int) int {
	if m <= 0 {
		return v
	}
	return (v + m - 1) / m * m
}

// BuildPlan computes the complete imposition plan for a document of
// pageCount pages. The plan is pure geometry and ordering; no document
// access happens here.
func BuildPlan(cfg schemas.ImpositionConfig, pageCount int) (*Plan, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if pageCount < 0 {
		return nil, NewConfigError("page_count", pageCount, "must not be negative")
	}

	n := cfg.Arrangement.PagesPerSignature()
	padded := roundUpToMultiple(pageCount, n)
	signatures := padded / n
	perSig := sheetsPerSignature(cfg.Binding, cfg.Arrangement)

	widthMM, heightMM := cfg.Paper.DimensionsWithOrientation(cfg.Orientation)
	sheetW := widthMM * schemas.PointsPerMM
	sheetH := heightMM * schemas.PointsPerMM

	top, bottom, left, right := cfg.SheetMargins.Points()
	leaf := Rect{
		X: left,
		Y: bottom,
		W: sheetW - left - right,
		H: sheetH - top - bottom,
	}
	if !leaf.Valid() {
		return nil, NewConfigError("sheet_margins", cfg.SheetMargins, "margins leave no leaf area on the sheet")
	}

	grid := buildGrid(cfg.Binding, cfg.Arrangement, leaf.W, leaf.H, sheetW > sheetH)

	plan := &Plan{
		Config: cfg,
		Stats:  computeStats(cfg, pageCount),
	}
	plan.Sheets = make([]Sheet, 0, signatures*perSig+cfg.Flyleaves.Total())

	blank := Sheet{
		Signature: -1,
		Flyleaf:   true,
		Width:     sheetW,
		Height:    sheetH,
		Leaf:      leaf,
		Grid:      grid,
		Front:     Side{Face: FaceFront},
		Back:      Side{Face: FaceBack},
	}
	for i := 0; i < cfg.Flyleaves.Front; i++ {
		plan.Sheets = append(plan.Sheets, blank)
	}

	for sig := 0; sig < signatures; sig++ {
		for js := 0; js < perSig; js++ {
			front, back := sheetTables(cfg, n, js)
			sheet := Sheet{
				Signature:        sig,
				SheetInSignature: js,
				Width:            sheetW,
				Height:           sheetH,
				Leaf:             leaf,
				Grid:             grid,
			}
			var err error
			sheet.Front, err = buildSide(FaceFront, front, &grid, leaf, cfg, sig*n, pageCount)
			if err != nil {
				return nil, err
			}
			sheet.Back, err = buildSide(FaceBack, back, &grid, leaf, cfg, sig*n, pageCount)
			if err != nil {
				return nil, err
			}
			plan.Sheets = append(plan.Sheets, sheet)
		}
	}

	for i := 0; i < cfg.Flyleaves.Back; i++ {
		plan.Sheets = append(plan.Sheets, blank)
	}

	for i := range plan.Sheets {
		plan.Sheets[i].Index = i
	}
	return plan, nil
}

// sheetTables returns the front and back page tables for sheet sheetInSig
// of one signature, according to the binding and arrangement.
func sheetTables(cfg schemas.ImpositionConfig, n, sheetInSig int) (front, back []slotPage) {
	if !cfg.Binding.Folds() {
		return straightSides(n)
	}
	if cfg.Arrangement.Kind == schemas.ArrangementCustom {
		return customSheetSides(n, sheetInSig)
	}
	cols, rows := arrangementDims(cfg.Binding, cfg.Arrangement)
	return signatureSides(n, cols, rows)
}

// buildSide expands a side table into positioned slots. pageOffset shifts
// the table's signature-relative page numbers into the padded document;
// pages beyond pageCount become blanks.
func buildSide(face Face, table []slotPage, g *Grid, leaf Rect, cfg schemas.ImpositionConfig, pageOffset, pageCount int) (Side, error) {
	side := Side{Face: face, Slots: make([]Slot, len(table))}
	for i, sp := range table {
		row := i / g.Cols
		col := i % g.Cols
		cell := g.cellRect(leaf, row, col)
		content := contentArea(cell, cfg.LeafMargins, g, row, col, sp.rotated)
		if !content.Valid() {
			return Side{}, NewConfigError("leaf_margins", cfg.LeafMargins, "margins leave no content area in the slot")
		}

		page := pageOffset + sp.page
		source := page - 1
		if page > pageCount {
			source = -1
		}
		side.Slots[i] = Slot{
			Index:   i,
			Row:     row,
			Col:     col,
			Page:    page,
			Source:  source,
			Rotated: sp.rotated,
			Cell:    cell,
			Content: content,
		}
	}
	return side, nil
}

// OutputSides returns the sheet sides in the order the configured output
// format emits them: interleaved front/back for duplex and single-sided
// output, or all fronts followed by all backs for two-pass printing.
func (p *Plan) OutputSides() []SideRef {
	refs := make([]SideRef, 0, 2*len(p.Sheets))
	if p.Config.OutputFormat == schemas.TwoSided {
		for i := range p.Sheets {
			refs = append(refs, SideRef{Sheet: &p.Sheets[i], Side: &p.Sheets[i].Front})
		}
		for i := range p.Sheets {
			refs = append(refs, SideRef{Sheet: &p.Sheets[i], Side: &p.Sheets[i].Back})
		}
		return refs
	}
	for i := range p.Sheets {
		refs = append(refs, SideRef{Sheet: &p.Sheets[i], Side: &p.Sheets[i].Front})
		refs = append(refs, SideRef{Sheet: &p.Sheets[i], Side: &p.Sheets[i].Back})
	}
	return refs
}
