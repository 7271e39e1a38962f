package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// -- Binding & Arrangement Schemas --

// BindingType identifies how the finished book block is held together.
// The set is closed; validation rejects anything else before planning.
type BindingType string

const (
	BindingSignature   BindingType = "Signature"
	BindingPerfect     BindingType = "PerfectBinding"
	BindingSideStitch  BindingType = "SideStitch"
	BindingSpiral      BindingType = "Spiral"
	BindingCaseBinding BindingType = "CaseBinding"
)

// Folds reports whether this binding folds signatures. Straight bindings
// stack flat sheets and are cut apart instead of folded.
func (b BindingType) Folds() bool {
	return b == BindingSignature || b == BindingCaseBinding
}

// Valid reports whether b is one of the known binding types.
func (b BindingType) Valid() bool {
	switch b {
	case BindingSignature, BindingPerfect, BindingSideStitch, BindingSpiral, BindingCaseBinding:
		return true
	}
	return false
}

// ParseBindingType accepts the CLI spellings of a binding type.
func ParseBindingType(s string) (BindingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signature":
		return BindingSignature, nil
	case "perfect", "perfect-binding":
		return BindingPerfect, nil
	case "side-stitch", "sidestitch":
		return BindingSideStitch, nil
	case "spiral":
		return BindingSpiral, nil
	case "case", "case-binding":
		return BindingCaseBinding, nil
	}
	return "", fmt.Errorf("unknown binding type %q", s)
}

// ArrangementKind names the page arrangement families.
type ArrangementKind string

const (
	ArrangementFolio  ArrangementKind = "Folio"
	ArrangementQuarto ArrangementKind = "Quarto"
	ArrangementOctavo ArrangementKind = "Octavo"
	ArrangementCustom ArrangementKind = "Custom"
)

// Arrangement describes how many pages share a signature. The named kinds
// carry a fixed count; Custom carries an explicit pages-per-signature value
// that must be a positive multiple of four.
type Arrangement struct {
	Kind ArrangementKind
	// CustomPages is only meaningful when Kind is ArrangementCustom.
	CustomPages int
}

// Folio returns the 4-page arrangement (one fold).
func Folio() Arrangement { return Arrangement{Kind: ArrangementFolio} }

// Quarto returns the 8-page arrangement (two folds).
func Quarto() Arrangement { return Arrangement{Kind: ArrangementQuarto} }

// Octavo returns the 16-page arrangement (three folds).
func Octavo() Arrangement { return Arrangement{Kind: ArrangementOctavo} }

// CustomArrangement returns an arrangement with an explicit page count.
func CustomArrangement(pagesPerSignature int) Arrangement {
	return Arrangement{Kind: ArrangementCustom, CustomPages: pagesPerSignature}
}

// PagesPerSignature returns the number of source pages one signature holds.
func (a Arrangement) PagesPerSignature() int {
	switch a.Kind {
	case ArrangementFolio:
		return 4
	case ArrangementQuarto:
		return 8
	case ArrangementOctavo:
		return 16
	case ArrangementCustom:
		return a.CustomPages
	}
	return 0
}

// String names the arrangement for display.
func (a Arrangement) String() string {
	if a.Kind == ArrangementCustom {
		return fmt.Sprintf("Custom/%d", a.CustomPages)
	}
	return string(a.Kind)
}

// ParseArrangement accepts the CLI spellings of an arrangement. Custom
// arrangements are spelled as a bare page count, e.g. "12".
func ParseArrangement(s string) (Arrangement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folio":
		return Folio(), nil
	case "quarto":
		return Quarto(), nil
	case "octavo":
		return Octavo(), nil
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err == nil && n > 0 {
		return CustomArrangement(n), nil
	}
	return Arrangement{}, fmt.Errorf("unknown arrangement %q", s)
}

// MarshalJSON encodes named arrangements as their kind string and custom
// arrangements as an object with an explicit page count.
func (a Arrangement) MarshalJSON() ([]byte, error) {
	if a.Kind == ArrangementCustom {
		return json.Marshal(struct {
			PagesPerSignature int `json:"pages_per_signature"`
		}{a.CustomPages})
	}
	return json.Marshal(string(a.Kind))
}

// UnmarshalJSON accepts either a kind string or a custom-count object.
func (a *Arrangement) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch ArrangementKind(name) {
		case ArrangementFolio, ArrangementQuarto, ArrangementOctavo:
			*a = Arrangement{Kind: ArrangementKind(name)}
			return nil
		}
		return fmt.Errorf("unknown arrangement %q", name)
	}
	var custom struct {
		PagesPerSignature int `json:"pages_per_signature"`
	}
	if err := json.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("arrangement must be a name or a pages_per_signature object: %w", err)
	}
	*a = CustomArrangement(custom.PagesPerSignature)
	return nil
}

// -- Paper Schemas --

// PaperName identifies a stock paper size.
type PaperName string

const (
	PaperA3      PaperName = "A3"
	PaperA4      PaperName = "A4"
	PaperA5      PaperName = "A5"
	PaperLetter  PaperName = "Letter"
	PaperLegal   PaperName = "Legal"
	PaperTabloid PaperName = "Tabloid"
	PaperCustom  PaperName = "Custom"
)

// paperDimensionsMM holds portrait dimensions of the stock sizes.
var paperDimensionsMM = map[PaperName][2]float64{
	PaperA3:      {297.0, 420.0},
	PaperA4:      {210.0, 297.0},
	PaperA5:      {148.0, 210.0},
	PaperLetter:  {215.9, 279.4},
	PaperLegal:   {215.9, 355.6},
	PaperTabloid: {279.4, 431.8},
}

// PaperSize is either a stock size or an explicit custom size in millimeters.
type PaperSize struct {
	Name PaperName
	// WidthMM and HeightMM are only meaningful when Name is PaperCustom.
	WidthMM  float64
	HeightMM float64
}

// CustomPaper returns a paper size with explicit dimensions in millimeters.
func CustomPaper(widthMM, heightMM float64) PaperSize {
	return PaperSize{Name: PaperCustom, WidthMM: widthMM, HeightMM: heightMM}
}

// Dimensions returns the portrait width and height in millimeters.
func (p PaperSize) Dimensions() (widthMM, heightMM float64) {
	if p.Name == PaperCustom {
		return p.WidthMM, p.HeightMM
	}
	d, ok := paperDimensionsMM[p.Name]
	if !ok {
		return 0, 0
	}
	return d[0], d[1]
}

// DimensionsWithOrientation returns the sheet dimensions in millimeters with
// the orientation applied. Landscape swaps width and height.
func (p PaperSize) DimensionsWithOrientation(o Orientation) (widthMM, heightMM float64) {
	w, h := p.Dimensions()
	if o == Landscape {
		return h, w
	}
	return w, h
}

// String names the paper for display; custom sizes carry their dimensions.
func (p PaperSize) String() string {
	if p.Name == PaperCustom {
		return fmt.Sprintf("Custom %gx%gmm", p.WidthMM, p.HeightMM)
	}
	return string(p.Name)
}

// ParsePaperSize accepts the CLI spellings of a paper size.
func ParsePaperSize(s string) (PaperSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a3":
		return PaperSize{Name: PaperA3}, nil
	case "a4":
		return PaperSize{Name: PaperA4}, nil
	case "a5":
		return PaperSize{Name: PaperA5}, nil
	case "letter":
		return PaperSize{Name: PaperLetter}, nil
	case "legal":
		return PaperSize{Name: PaperLegal}, nil
	case "tabloid":
		return PaperSize{Name: PaperTabloid}, nil
	case "custom":
		return PaperSize{Name: PaperCustom}, nil
	}
	return PaperSize{}, fmt.Errorf("unknown paper size %q", s)
}

// MarshalJSON encodes stock sizes as their name and custom sizes as an
// object with explicit millimeter dimensions.
func (p PaperSize) MarshalJSON() ([]byte, error) {
	if p.Name == PaperCustom {
		return json.Marshal(struct {
			WidthMM  float64 `json:"width_mm"`
			HeightMM float64 `json:"height_mm"`
		}{p.WidthMM, p.HeightMM})
	}
	return json.Marshal(string(p.Name))
}

// UnmarshalJSON accepts either a stock size name or a custom-size object.
func (p *PaperSize) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if _, ok := paperDimensionsMM[PaperName(name)]; !ok {
			return fmt.Errorf("unknown paper size %q", name)
		}
		*p = PaperSize{Name: PaperName(name)}
		return nil
	}
	var custom struct {
		WidthMM  float64 `json:"width_mm"`
		HeightMM float64 `json:"height_mm"`
	}
	if err := json.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("paper size must be a name or a width_mm/height_mm object: %w", err)
	}
	*p = CustomPaper(custom.WidthMM, custom.HeightMM)
	return nil
}

// -- Orientation, Output Format, Scaling --

// Orientation selects how the sheet is turned.
type Orientation string

const (
	Portrait  Orientation = "Portrait"
	Landscape Orientation = "Landscape"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool { return o == Portrait || o == Landscape }

// ParseOrientation accepts the CLI spellings of an orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	}
	return "", fmt.Errorf("unknown orientation %q", s)
}

// OutputFormat controls how sheet sides become output pages.
type OutputFormat string

const (
	// DoubleSided interleaves front and back sides for duplex printing.
	DoubleSided OutputFormat = "DoubleSided"
	// TwoSided emits all fronts, then all backs, for two single-sided passes.
	TwoSided OutputFormat = "TwoSided"
	// SingleSidedSequence emits each side as its own page in side order.
	SingleSidedSequence OutputFormat = "SingleSidedSequence"
)

// Valid reports whether f is a known output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case DoubleSided, TwoSided, SingleSidedSequence:
		return true
	}
	return false
}

// ParseOutputFormat accepts the CLI spellings of an output format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "double-sided", "doublesided", "duplex":
		return DoubleSided, nil
	case "two-sided", "twosided":
		return TwoSided, nil
	case "single-sided", "single-sided-sequence", "singlesided":
		return SingleSidedSequence, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// ScalingMode controls how a source page fills its slot content area.
type ScalingMode string

const (
	// ScaleFit scales uniformly so the whole page fits, centered.
	ScaleFit ScalingMode = "Fit"
	// ScaleFill scales uniformly so the area is covered; overflow is clipped.
	ScaleFill ScalingMode = "Fill"
	// ScaleNone places the page at its native size, centered.
	ScaleNone ScalingMode = "None"
	// ScaleStretch scales each axis independently to fill the area exactly.
	ScaleStretch ScalingMode = "Stretch"
)

// Valid reports whether m is a known scaling mode.
func (m ScalingMode) Valid() bool {
	switch m {
	case ScaleFit, ScaleFill, ScaleNone, ScaleStretch:
		return true
	}
	return false
}

// ParseScalingMode accepts the CLI spellings of a scaling mode.
func ParseScalingMode(s string) (ScalingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit":
		return ScaleFit, nil
	case "fill":
		return ScaleFill, nil
	case "none":
		return ScaleNone, nil
	case "stretch":
		return ScaleStretch, nil
	}
	return "", fmt.Errorf("unknown scaling mode %q", s)
}

// -- Margins --

// MarginUnit tags a margin set with its unit of measure.
type MarginUnit string

const (
	UnitInches      MarginUnit = "Inches"
	UnitMillimeters MarginUnit = "Millimeters"
	UnitPoints      MarginUnit = "Points"
)

// PointsPerMM converts millimeters to PDF points (72 per inch, 25.4 mm per inch).
const PointsPerMM = 72.0 / 25.4

// Valid reports whether u is a known unit.
func (u MarginUnit) Valid() bool {
	switch u {
	case UnitInches, UnitMillimeters, UnitPoints:
		return true
	}
	return false
}

// Points converts a value in this unit to PDF points.
func (u MarginUnit) Points(v float64) float64 {
	switch u {
	case UnitInches:
		return v * 72.0
	case UnitMillimeters:
		return v * PointsPerMM
	default:
		return v
	}
}

// ParseMarginUnit accepts the CLI spellings of a margin unit.
func ParseMarginUnit(s string) (MarginUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "inch", "inches":
		return UnitInches, nil
	case "mm", "millimeter", "millimeters":
		return UnitMillimeters, nil
	case "pt", "point", "points":
		return UnitPoints, nil
	}
	return "", fmt.Errorf("unknown margin unit %q", s)
}

// SheetMargins frame the leaf area on the output sheet.
type SheetMargins struct {
	Top    float64    `json:"top"`
	Bottom float64    `json:"bottom"`
	Left   float64    `json:"left"`
	Right  float64    `json:"right"`
	Units  MarginUnit `json:"units"`
}

// UniformSheetMargins returns equal margins on all four sides.
func UniformSheetMargins(v float64, u MarginUnit) SheetMargins {
	return SheetMargins{Top: v, Bottom: v, Left: v, Right: v, Units: u}
}

// Points returns the four margins converted to PDF points.
func (m SheetMargins) Points() (top, bottom, left, right float64) {
	return m.Units.Points(m.Top), m.Units.Points(m.Bottom), m.Units.Points(m.Left), m.Units.Points(m.Right)
}

// LeafMargins frame the content inside each slot. Spine and fore-edge
// replace left/right because which physical edge they land on depends on
// the slot's fold edges and rotation.
type LeafMargins struct {
	Top      float64    `json:"top"`
	Bottom   float64    `json:"bottom"`
	Spine    float64    `json:"spine"`
	ForeEdge float64    `json:"fore_edge"`
	Units    MarginUnit `json:"units"`
}

// Points returns the four margins converted to PDF points.
func (m LeafMargins) Points() (top, bottom, spine, foreEdge float64) {
	return m.Units.Points(m.Top), m.Units.Points(m.Bottom), m.Units.Points(m.Spine), m.Units.Points(m.ForeEdge)
}

// -- Marks, Flyleaves, Supplemental Output Options --

// MarkOptions selects which printer's marks the assembler draws.
type MarkOptions struct {
	FoldLines         bool `json:"fold_lines"`
	CutLines          bool `json:"cut_lines"`
	CropMarks         bool `json:"crop_marks"`
	TrimMarks         bool `json:"trim_marks"`
	RegistrationMarks bool `json:"registration_marks"`
	SewingMarks       bool `json:"sewing_marks"`
	SpineMarks        bool `json:"spine_marks"`
}

// AllMarks enables every mark type.
func AllMarks() MarkOptions {
	return MarkOptions{
		FoldLines:         true,
		CutLines:          true,
		CropMarks:         true,
		TrimMarks:         true,
		RegistrationMarks: true,
		SewingMarks:       true,
		SpineMarks:        true,
	}
}

// Any reports whether at least one mark type is enabled.
func (m MarkOptions) Any() bool {
	return m.FoldLines || m.CutLines || m.CropMarks || m.TrimMarks ||
		m.RegistrationMarks || m.SewingMarks || m.SpineMarks
}

// Flyleaves are whole blank sheets around the book block. They are output
// sheets, not source pages.
type Flyleaves struct {
	Front int `json:"front"`
	Back  int `json:"back"`
}

// Total returns the number of flyleaf sheets.
func (f Flyleaves) Total() int { return f.Front + f.Back }

// PageNumberOptions control printed page numbers on the output sheets.
type PageNumberOptions struct {
	Enabled bool `json:"enabled"`
	Start   int  `json:"start"`
}

// Rotation rotates source pages before imposition, in degrees clockwise.
type Rotation int

// Valid reports whether r is a quarter-turn rotation.
func (r Rotation) Valid() bool {
	switch r {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// SplitKind names how rendered output is divided into files.
type SplitKind string

const (
	SplitNone       SplitKind = "None"
	SplitPages      SplitKind = "ByPages"
	SplitSheets     SplitKind = "BySheets"
	SplitSignatures SplitKind = "BySignatures"
)

// SplitMode divides the rendered output into numbered files every Every
// pages, sheets or signatures.
type SplitMode struct {
	Kind  SplitKind `json:"kind"`
	Every int       `json:"every,omitempty"`
}

// ParseSplitMode accepts "none", "pages:<k>", "sheets:<k>" or "signatures:<k>".
func ParseSplitMode(s string) (SplitMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return SplitMode{Kind: SplitNone}, nil
	}
	kind, every, ok := strings.Cut(s, ":")
	if !ok {
		return SplitMode{}, fmt.Errorf("split mode %q needs a count, e.g. pages:10", s)
	}
	var n int
	if _, err := fmt.Sscanf(every, "%d", &n); err != nil || n <= 0 {
		return SplitMode{}, fmt.Errorf("split count %q must be a positive integer", every)
	}
	switch kind {
	case "pages":
		return SplitMode{Kind: SplitPages, Every: n}, nil
	case "sheets":
		return SplitMode{Kind: SplitSheets, Every: n}, nil
	case "signatures":
		return SplitMode{Kind: SplitSignatures, Every: n}, nil
	}
	return SplitMode{}, fmt.Errorf("unknown split mode %q", kind)
}

// -- Imposition Configuration --

// ImpositionConfig is the complete description of one imposition job.
type ImpositionConfig struct {
	Binding        BindingType       `json:"binding_type"`
	Arrangement    Arrangement       `json:"arrangement"`
	Paper          PaperSize         `json:"paper_size"`
	Orientation    Orientation       `json:"orientation"`
	OutputFormat   OutputFormat      `json:"output_format"`
	Scaling        ScalingMode       `json:"scaling_mode"`
	SheetMargins   SheetMargins      `json:"sheet_margins"`
	LeafMargins    LeafMargins       `json:"leaf_margins"`
	Marks          MarkOptions       `json:"marks"`
	Flyleaves      Flyleaves         `json:"flyleaves"`
	PageNumbers    PageNumberOptions `json:"page_numbers"`
	SourceRotation Rotation          `json:"source_rotation"`
	Split          SplitMode         `json:"split_mode"`
}

// DefaultImpositionConfig returns the configuration used when nothing is
// specified: a quarto signature book on Letter stock, fitted and centered.
func DefaultImpositionConfig() ImpositionConfig {
	return ImpositionConfig{
		Binding:      BindingSignature,
		Arrangement:  Quarto(),
		Paper:        PaperSize{Name: PaperLetter},
		Orientation:  Portrait,
		OutputFormat: DoubleSided,
		Scaling:      ScaleFit,
		SheetMargins: UniformSheetMargins(10, UnitMillimeters),
		LeafMargins: LeafMargins{
			Top:      5,
			Bottom:   5,
			Spine:    10,
			ForeEdge: 5,
			Units:    UnitMillimeters,
		},
		Marks: MarkOptions{
			FoldLines: true,
			CutLines:  true,
		},
		PageNumbers: PageNumberOptions{Start: 1},
		Split:       SplitMode{Kind: SplitNone},
	}
}
