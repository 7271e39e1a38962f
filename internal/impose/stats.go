// internal/impose/stats.go
package impose

import "github.com/inkfold/bindery/api/schemas"

// computeStats derives the plan statistics from the configuration and page
// count alone. It assumes the configuration has already been validated.
func computeStats(cfg schemas.ImpositionConfig, pageCount int) schemas.ImpositionStats {
	n := cfg.Arrangement.PagesPerSignature()
	padded := roundUpToMultiple(pageCount, n)
	signatures := padded / n
	sheets := signatures*sheetsPerSignature(cfg.Binding, cfg.Arrangement) + cfg.Flyleaves.Total()

	return schemas.ImpositionStats{
		SourcePageCount:   pageCount,
		PaddedPageCount:   padded,
		BlankPagesAdded:   padded - pageCount,
		SignatureCount:    signatures,
		PagesPerSignature: n,
		OutputSheetCount:  sheets,
		OutputPageCount:   sheets * 2,
	}
}

// ComputeStats validates the configuration and derives statistics for a
// document of pageCount pages. No plan is built and no document is read.
func ComputeStats(cfg schemas.ImpositionConfig, pageCount int) (schemas.ImpositionStats, error) {
	if err := ValidateConfig(cfg); err != nil {
		return schemas.ImpositionStats{}, err
	}
	if pageCount < 0 {
		return schemas.ImpositionStats{}, NewConfigError("page_count", pageCount, "must not be negative")
	}
	return computeStats(cfg, pageCount), nil
}
