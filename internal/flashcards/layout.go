// internal/flashcards/layout.go
package flashcards

import (
	"fmt"
	"math"

	"github.com/inkfold/bindery/api/schemas"
	"github.com/inkfold/bindery/internal/config"
)

// Options describes one flashcard sheet layout. All lengths are
// millimeters except the font size, which is points.
type Options struct {
	PageWidthMM     float64
	PageHeightMM    float64
	MarginTopMM     float64
	MarginBottomMM  float64
	MarginLeftMM    float64
	MarginRightMM   float64
	CardWidthMM     float64
	CardHeightMM    float64
	Rows            int
	Columns         int
	RowSpacingMM    float64
	ColumnSpacingMM float64
	FontFamily      string
	FontSizePt      float64
}

// DefaultOptions returns the standard layout: six poker-size cards on a
// Letter sheet, in a 2x3 grid.
func DefaultOptions() Options {
	return Options{
		PageWidthMM:     215.9,
		PageHeightMM:    279.4,
		MarginTopMM:     10,
		MarginBottomMM:  10,
		MarginLeftMM:    10,
		MarginRightMM:   10,
		CardWidthMM:     63.5,
		CardHeightMM:    88.9,
		Rows:            2,
		Columns:         3,
		RowSpacingMM:    5,
		ColumnSpacingMM: 5,
		FontFamily:      "Helvetica",
		FontSizePt:      12,
	}
}

// OptionsFromConfig maps the flashcards config section onto a layout.
func OptionsFromConfig(cfg config.FlashcardsConfig) (Options, error) {
	paper, err := schemas.ParsePaperSize(cfg.Paper)
	if err != nil {
		return Options{}, fmt.Errorf("flashcards: paper: %w", err)
	}
	pageW, pageH := paper.Dimensions()

	opts := Options{
		PageWidthMM:     pageW,
		PageHeightMM:    pageH,
		MarginTopMM:     cfg.MarginMM,
		MarginBottomMM:  cfg.MarginMM,
		MarginLeftMM:    cfg.MarginMM,
		MarginRightMM:   cfg.MarginMM,
		CardWidthMM:     cfg.CardWidthMM,
		CardHeightMM:    cfg.CardHeightMM,
		Rows:            cfg.Rows,
		Columns:         cfg.Columns,
		RowSpacingMM:    cfg.RowSpacingMM,
		ColumnSpacingMM: cfg.ColumnSpacingMM,
		FontFamily:      cfg.FontFamily,
		FontSizePt:      cfg.FontSize,
	}
	return opts, opts.Validate()
}

// Validate rejects layouts that cannot be rendered.
func (o Options) Validate() error {
	if o.PageWidthMM <= 0 || o.PageHeightMM <= 0 {
		return fmt.Errorf("flashcards: page dimensions must be positive")
	}
	if o.Rows < 1 || o.Columns < 1 {
		return fmt.Errorf("flashcards: grid needs at least one row and one column")
	}
	if o.CardWidthMM <= 0 || o.CardHeightMM <= 0 {
		return fmt.Errorf("flashcards: card dimensions must be positive")
	}
	if o.MarginTopMM < 0 || o.MarginBottomMM < 0 || o.MarginLeftMM < 0 || o.MarginRightMM < 0 {
		return fmt.Errorf("flashcards: margins must not be negative")
	}
	if o.RowSpacingMM < 0 || o.ColumnSpacingMM < 0 {
		return fmt.Errorf("flashcards: spacing must not be negative")
	}
	if o.FontSizePt <= 0 {
		return fmt.Errorf("flashcards: font size must be positive")
	}
	return nil
}

// CardsPerPage is the grid capacity of one side.
func (o Options) CardsPerPage() int {
	return o.Rows * o.Columns
}

// PageCount is the number of PDF pages a deck renders to: one front and
// one back page per chunk of CardsPerPage cards.
func (o Options) PageCount(cardCount int) int {
	if cardCount <= 0 {
		return 0
	}
	per := o.CardsPerPage()
	chunks := (cardCount + per - 1) / per
	return 2 * chunks
}

// CellOrigin returns the top-left corner of the card at (row, col) in mm
// from the sheet's top-left corner. Back sides mirror the column so the
// back of each card lands behind its front when the stack is printed
// duplex and flipped on the long edge.
func (o Options) CellOrigin(row, col int, back bool) (x, y float64) {
	y = o.MarginTopMM + float64(row)*(o.CardHeightMM+o.RowSpacingMM)
	if back {
		mirrored := o.Columns - 1 - col
		return o.MarginRightMM + float64(mirrored)*(o.CardWidthMM+o.ColumnSpacingMM), y
	}
	return o.MarginLeftMM + float64(col)*(o.CardWidthMM+o.ColumnSpacingMM), y
}

// FitGrid computes how many whole cards of the configured size fit on one
// side, at least one per axis.
func (o Options) FitGrid() (rows, columns int) {
	availW := o.PageWidthMM - o.MarginLeftMM - o.MarginRightMM
	availH := o.PageHeightMM - o.MarginTopMM - o.MarginBottomMM

	columns = int(math.Floor((availW + o.ColumnSpacingMM) / (o.CardWidthMM + o.ColumnSpacingMM)))
	rows = int(math.Floor((availH + o.RowSpacingMM) / (o.CardHeightMM + o.RowSpacingMM)))
	if columns < 1 {
		columns = 1
	}
	if rows < 1 {
		rows = 1
	}
	return rows, columns
}

// FitCardSize computes the largest card size that fills the given grid
// exactly, spacing included.
func (o Options) FitCardSize(rows, columns int) (widthMM, heightMM float64) {
	availW := o.PageWidthMM - o.MarginLeftMM - o.MarginRightMM
	availH := o.PageHeightMM - o.MarginTopMM - o.MarginBottomMM

	widthMM = availW
	if columns > 0 {
		widthMM = (availW - float64(columns-1)*o.ColumnSpacingMM) / float64(columns)
	}
	heightMM = availH
	if rows > 0 {
		heightMM = (availH - float64(rows-1)*o.RowSpacingMM) / float64(rows)
	}
	return widthMM, heightMM
}
