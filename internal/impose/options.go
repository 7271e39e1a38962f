// internal/impose/options.go
package impose

import (
	"fmt"
	"os"

	json "github.com/json-iterator/go"

	"github.com/inkfold/bindery/api/schemas"
)

// ValidateConfig rejects an imposition configuration before any page work
// happens. The returned error is always a *ConfigError naming the field.
func ValidateConfig(cfg schemas.ImpositionConfig) error {
	if !cfg.Binding.Valid() {
		return NewConfigError("binding_type", cfg.Binding, "unknown binding type")
	}

	switch cfg.Arrangement.Kind {
	case schemas.ArrangementFolio, schemas.ArrangementQuarto, schemas.ArrangementOctavo:
	case schemas.ArrangementCustom:
		n := cfg.Arrangement.CustomPages
		if n <= 0 {
			return NewConfigError("arrangement.pages_per_signature", n, "must be positive")
		}
		if n%4 != 0 {
			return NewConfigError("arrangement.pages_per_signature", n, "must be a multiple of 4")
		}
	default:
		return NewConfigError("arrangement", cfg.Arrangement.Kind, "unknown arrangement")
	}

	w, h := cfg.Paper.Dimensions()
	if w <= 0 || h <= 0 {
		return NewConfigError("paper_size", fmt.Sprintf("%gx%g mm", w, h), "dimensions must be positive")
	}

	if !cfg.Orientation.Valid() {
		return NewConfigError("orientation", cfg.Orientation, "unknown orientation")
	}
	if !cfg.OutputFormat.Valid() {
		return NewConfigError("output_format", cfg.OutputFormat, "unknown output format")
	}
	if cfg.OutputFormat == schemas.TwoSided && !cfg.Binding.Folds() {
		return NewConfigError("output_format", cfg.OutputFormat,
			"two-sided passes only apply to folded bindings")
	}
	if !cfg.Scaling.Valid() {
		return NewConfigError("scaling_mode", cfg.Scaling, "unknown scaling mode")
	}

	if !cfg.SheetMargins.Units.Valid() {
		return NewConfigError("sheet_margins.units", cfg.SheetMargins.Units, "unknown unit")
	}
	if cfg.SheetMargins.Top < 0 || cfg.SheetMargins.Bottom < 0 ||
		cfg.SheetMargins.Left < 0 || cfg.SheetMargins.Right < 0 {
		return NewConfigError("sheet_margins", cfg.SheetMargins, "margins must not be negative")
	}
	if !cfg.LeafMargins.Units.Valid() {
		return NewConfigError("leaf_margins.units", cfg.LeafMargins.Units, "unknown unit")
	}
	if cfg.LeafMargins.Top < 0 || cfg.LeafMargins.Bottom < 0 ||
		cfg.LeafMargins.Spine < 0 || cfg.LeafMargins.ForeEdge < 0 {
		return NewConfigError("leaf_margins", cfg.LeafMargins, "margins must not be negative")
	}

	if cfg.Flyleaves.Front < 0 || cfg.Flyleaves.Back < 0 {
		return NewConfigError("flyleaves", cfg.Flyleaves, "counts must not be negative")
	}
	if cfg.PageNumbers.Enabled && cfg.PageNumbers.Start < 0 {
		return NewConfigError("page_numbers.start", cfg.PageNumbers.Start, "must not be negative")
	}
	if !cfg.SourceRotation.Valid() {
		return NewConfigError("source_rotation", cfg.SourceRotation, "must be 0, 90, 180 or 270")
	}

	switch cfg.Split.Kind {
	case schemas.SplitNone:
	case schemas.SplitPages, schemas.SplitSheets, schemas.SplitSignatures:
		if cfg.Split.Every <= 0 {
			return NewConfigError("split_mode.every", cfg.Split.Every, "must be positive")
		}
	default:
		return NewConfigError("split_mode.kind", cfg.Split.Kind, "unknown split mode")
	}

	return nil
}

// SaveOptions writes an imposition configuration to path as indented JSON.
func SaveOptions(path string, cfg schemas.ImpositionConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding imposition config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing imposition config: %w", err)
	}
	return nil
}

// LoadOptions reads an imposition configuration from a JSON file and
// validates it.
func LoadOptions(path string) (schemas.ImpositionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schemas.ImpositionConfig{}, fmt.Errorf("reading imposition config: %w", err)
	}
	cfg := schemas.DefaultImpositionConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return schemas.ImpositionConfig{}, fmt.Errorf("decoding imposition config %s: %w", path, err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return schemas.ImpositionConfig{}, err
	}
	return cfg, nil
}
