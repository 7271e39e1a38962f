// internal/pdfio/split.go
package pdfio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/inkfold/bindery/api/schemas"
	"github.com/inkfold/bindery/internal/impose"
)

// splitGroups divides the plan's ordered output sides into per-file groups.
// Pages split on the output page sequence; sheets and signatures split on
// the physical unit a side belongs to, so both sides of a sheet always land
// in the same file. Without a split mode everything goes into one group.
func splitGroups(plan *impose.Plan) [][]impose.SideRef {
	refs := plan.OutputSides()
	mode := plan.Config.Split
	if mode.Kind == schemas.SplitNone || mode.Every <= 0 {
		return [][]impose.SideRef{refs}
	}

	var groups [][]impose.SideRef
	for i, ref := range refs {
		var unit int
		switch mode.Kind {
		case schemas.SplitPages:
			unit = i
		case schemas.SplitSheets:
			unit = ref.Sheet.Index
		case schemas.SplitSignatures:
			unit = signatureOrdinal(plan, ref.Sheet)
		}
		file := unit / mode.Every
		for len(groups) <= file {
			groups = append(groups, nil)
		}
		groups[file] = append(groups[file], ref)
	}
	return groups
}

// signatureOrdinal maps a sheet to the signature it travels with. Flyleaf
// sheets have no signature of their own; front flyleaves join the first,
// back flyleaves the last.
func signatureOrdinal(plan *impose.Plan, sheet *impose.Sheet) int {
	if sheet.Signature >= 0 {
		return sheet.Signature
	}
	if sheet.Index < plan.Config.Flyleaves.Front {
		return 0
	}
	if n := plan.Stats.SignatureCount; n > 0 {
		return n - 1
	}
	return 0
}

// OutputPaths returns the files Assemble will write for the given plan and
// output path, in write order.
func OutputPaths(plan *impose.Plan, outputPath string) []string {
	groups := splitGroups(plan)
	paths := make([]string, len(groups))
	for i := range groups {
		paths[i] = splitPath(outputPath, i, len(groups))
	}
	return paths
}

// splitPath numbers the output path for group index i of total groups. A
// single group keeps the path unchanged.
func splitPath(path string, i, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s-%03d%s", base, i+1, ext)
}
