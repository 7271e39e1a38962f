// internal/pdfio/assembler.go
package pdfio

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
	"github.com/inkfold/bindery/internal/impose"
)

const (
	pageNumberFontSize = 8.0
	// pageNumberRise lifts the folio baseline off the content bottom edge.
	pageNumberRise = 6.0
)

// Assembler renders a placed plan into output PDF files. Source pages are
// imported as form XObjects, so their content streams pass through without
// re-encoding. The plan's coordinates have their origin at the bottom-left
// of the sheet; gofpdf draws top-down, and all conversion happens here.
type Assembler struct {
	source string
	output string
	logger *zap.Logger
}

// NewAssembler creates an assembler reading pages from source and writing
// the imposed document to output.
func NewAssembler(source, output string, logger *zap.Logger) (*Assembler, error) {
	if source == "" || output == "" {
		return nil, fmt.Errorf("pdfio: assembler requires source and output paths")
	}
	if logger == nil {
		return nil, fmt.Errorf("pdfio: assembler requires a logger")
	}
	return &Assembler{source: source, output: output, logger: logger.Named("PdfAssembler")}, nil
}

// Assemble renders the plan, one output file per split group.
func (a *Assembler) Assemble(ctx context.Context, plan *impose.Plan) error {
	if len(plan.Sheets) == 0 {
		return fmt.Errorf("pdfio: plan has no sheets to render")
	}

	groups := splitGroups(plan)
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		path := splitPath(a.output, i, len(groups))
		if err := a.renderGroup(ctx, plan, group, path); err != nil {
			return err
		}
		a.logger.Info("Output file written.",
			zap.String("path", path),
			zap.Int("pages", len(group)))
	}
	return nil
}

// renderGroup writes one output file. The importer panics on unreadable
// source files, so the recover here turns that into a regular error.
func (a *Assembler) renderGroup(ctx context.Context, plan *impose.Plan, refs []impose.SideRef, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("importing pages from %s: %v", a.source, r)
		}
	}()

	first := refs[0].Sheet
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	importer := gofpdi.NewImporter()

	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: ref.Sheet.Width, Ht: ref.Sheet.Height})
		a.renderSide(pdf, importer, plan, ref)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("rendering sheet %d %s side: %w", ref.Sheet.Index, ref.Side.Face, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// renderSide draws one sheet side: placed source pages first, then the
// printer's marks over them.
func (a *Assembler) renderSide(pdf *gofpdf.Fpdf, importer *gofpdi.Importer, plan *impose.Plan, ref impose.SideRef) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)

	for i := range ref.Side.Slots {
		slot := &ref.Side.Slots[i]
		if slot.Blank() || slot.Placement == nil {
			continue
		}
		a.renderSlot(pdf, importer, ref.Sheet, slot, plan.Config)
		if plan.Config.PageNumbers.Enabled {
			drawPageNumber(pdf, ref.Sheet, slot, plan.Config.PageNumbers)
		}
	}

	for _, m := range ref.Side.Marks {
		drawMark(pdf, ref.Sheet.Height, m)
	}
}

// renderSlot imports the slot's source page and draws it into the placed
// target rectangle, applying source rotation and the slot's fold turn.
func (a *Assembler) renderSlot(pdf *gofpdf.Fpdf, importer *gofpdi.Importer, sheet *impose.Sheet, slot *impose.Slot, cfg schemas.ImpositionConfig) {
	tpl := importer.ImportPage(pdf, a.source, slot.Source+1, "/MediaBox")
	t := slot.Placement.Target

	// Fill and None may overflow the target area; keep the spill inside
	// the slot's cell.
	clip := cfg.Scaling == schemas.ScaleFill || cfg.Scaling == schemas.ScaleNone
	if clip {
		cell := slot.Cell
		pdf.ClipRect(cell.X, sheet.Height-cell.Top(), cell.W, cell.H, false)
	}

	turn := int(cfg.SourceRotation) % 360
	if slot.Rotated {
		turn = (turn + 180) % 360
	}

	// The template is placed unrotated; quarter turns swap its footprint
	// back before the transform spins it into the target.
	w, h := t.W, t.H
	if turn == 90 || turn == 270 {
		w, h = h, w
	}
	cx := t.X + t.W/2
	cy := sheet.Height - (t.Y + t.H/2)

	if turn != 0 {
		pdf.TransformBegin()
		// TransformRotate turns counter-clockwise; rotation is specified
		// clockwise.
		pdf.TransformRotate(float64(360-turn), cx, cy)
	}
	importer.UseImportedTemplate(pdf, tpl, cx-w/2, cy-h/2, w, h)
	if turn != 0 {
		pdf.TransformEnd()
	}
	if clip {
		pdf.ClipEnd()
	}
}

// drawPageNumber prints the folio at the foot of the slot's content area.
// Rotated slots get theirs at the head, upside down, so it reads at the
// foot once the sheet is folded.
func drawPageNumber(pdf *gofpdf.Fpdf, sheet *impose.Sheet, slot *impose.Slot, opts schemas.PageNumberOptions) {
	label := strconv.Itoa(opts.Start + slot.Page - 1)
	pdf.SetFont("Helvetica", "", pageNumberFontSize)
	pdf.SetTextColor(0, 0, 0)

	cx := slot.Content.X + slot.Content.W/2
	x := cx - pdf.GetStringWidth(label)/2
	baseline := sheet.Height - (slot.Content.Y + pageNumberRise)

	if slot.Rotated {
		cy := sheet.Height - (slot.Content.Y + slot.Content.H/2)
		pdf.TransformBegin()
		pdf.TransformRotate(180, cx, cy)
		pdf.Text(x, baseline, label)
		pdf.TransformEnd()
		return
	}
	pdf.Text(x, baseline, label)
}

// drawMark maps one mark primitive onto gofpdf drawing operators,
// converting from bottom-left to top-down coordinates.
func drawMark(pdf *gofpdf.Fpdf, sheetH float64, m impose.Mark) {
	switch m.Op {
	case impose.OpLine:
		pdf.SetLineWidth(m.Width)
		if len(m.Dash) > 0 {
			pdf.SetDashPattern(append([]float64(nil), m.Dash...), 0)
		} else {
			pdf.SetDashPattern([]float64{}, 0)
		}
		pdf.Line(m.X1, sheetH-m.Y1, m.X2, sheetH-m.Y2)
	case impose.OpCircle:
		pdf.SetLineWidth(m.Width)
		pdf.SetDashPattern([]float64{}, 0)
		pdf.Circle(m.X1, sheetH-m.Y1, m.R, "D")
	case impose.OpBox:
		x := math.Min(m.X1, m.X2)
		top := math.Max(m.Y1, m.Y2)
		pdf.Rect(x, sheetH-top, math.Abs(m.X2-m.X1), math.Abs(m.Y2-m.Y1), "F")
	}
}
