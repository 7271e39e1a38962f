package schemas

import "time"

// -- Statistics Schemas --

// ImpositionStats summarizes an imposition plan without rendering it.
type ImpositionStats struct {
	// SourcePageCount is the number of pages in the source document.
	SourcePageCount int `json:"source_page_count"`
	// PaddedPageCount is the page count rounded up to fill whole signatures.
	PaddedPageCount int `json:"padded_page_count"`
	// BlankPagesAdded is how many blanks pad the final signature.
	BlankPagesAdded int `json:"blank_pages_added"`
	// SignatureCount is the number of signatures in the book block.
	SignatureCount int `json:"signature_count"`
	// PagesPerSignature is the arrangement's signature size.
	PagesPerSignature int `json:"pages_per_signature"`
	// OutputSheetCount is the number of physical sheets, flyleaves included.
	OutputSheetCount int `json:"output_sheet_count"`
	// OutputPageCount is the number of PDF pages the assembler emits.
	OutputPageCount int `json:"output_page_count"`
}

// ImpositionReport is the envelope handed to the reporting layer after a
// job completes. One report describes one run; watch mode produces a
// stream of them.
type ImpositionReport struct {
	JobID       string           `json:"job_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Tool        string           `json:"tool"`
	Version     string           `json:"version"`
	Inputs      []string         `json:"inputs"`
	Output      string           `json:"output"`
	OutputFiles []string         `json:"output_files,omitempty"`
	Config      ImpositionConfig `json:"config"`
	Stats       ImpositionStats  `json:"stats"`
	Elapsed     string           `json:"elapsed,omitempty"`
}
