// internal/flashcards/render.go
package flashcards

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
)

// Generator renders a deck into a duplex card PDF: for every group of
// CardsPerPage cards one front page, then the matching mirrored back page.
type Generator struct {
	output string
	opts   Options
	logger *zap.Logger
}

// NewGenerator creates a generator writing to output.
func NewGenerator(output string, opts Options, logger *zap.Logger) (*Generator, error) {
	if output == "" {
		return nil, fmt.Errorf("flashcards: generator requires an output path")
	}
	if logger == nil {
		return nil, fmt.Errorf("flashcards: generator requires a logger")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{output: output, opts: opts, logger: logger.Named("FlashcardWriter")}, nil
}

// Generate renders the deck and writes the output file.
func (g *Generator) Generate(cards []Card) error {
	if len(cards) == 0 {
		return fmt.Errorf("flashcards: deck is empty")
	}

	o := g.opts
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size: gofpdf.SizeType{
			Wd: o.PageWidthMM * schemas.PointsPerMM,
			Ht: o.PageHeightMM * schemas.PointsPerMM,
		},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	// Core fonts cover Latin text only. A .ttf path embeds the file and
	// keeps its full glyph coverage.
	family := o.FontFamily
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if strings.EqualFold(filepath.Ext(family), ".ttf") {
		pdf.AddUTF8Font("deck", "", family)
		family = "deck"
		translate = func(s string) string { return s }
	}
	pdf.SetFont(family, "", o.FontSizePt)
	pdf.SetTextColor(0, 0, 0)

	perPage := o.CardsPerPage()
	for start := 0; start < len(cards); start += perPage {
		end := start + perPage
		if end > len(cards) {
			end = len(cards)
		}
		chunk := cards[start:end]
		g.renderSide(pdf, chunk, translate, false)
		g.renderSide(pdf, chunk, translate, true)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("flashcards: rendering deck: %w", err)
	}
	if err := pdf.OutputFileAndClose(g.output); err != nil {
		return fmt.Errorf("flashcards: writing %s: %w", g.output, err)
	}

	g.logger.Info("Flashcard PDF written.",
		zap.String("path", g.output),
		zap.Int("cards", len(cards)),
		zap.Int("pages", o.PageCount(len(cards))))
	return nil
}

// renderSide adds one page and draws each card's text centered in its
// cell.
func (g *Generator) renderSide(pdf *gofpdf.Fpdf, chunk []Card, translate func(string) string, back bool) {
	o := g.opts
	pdf.AddPage()

	cardW := o.CardWidthMM * schemas.PointsPerMM
	cardH := o.CardHeightMM * schemas.PointsPerMM

	for i, card := range chunk {
		row := i / o.Columns
		col := i % o.Columns

		text := card.Front
		if back {
			text = card.Back
		}

		x, y := o.CellOrigin(row, col, back)
		cellLeft := x * schemas.PointsPerMM
		cellTop := y * schemas.PointsPerMM

		label := translate(text)
		baseline := cellTop + (cardH+o.FontSizePt)/2
		pdf.Text(cellLeft+(cardW-pdf.GetStringWidth(label))/2, baseline, label)
	}
}
