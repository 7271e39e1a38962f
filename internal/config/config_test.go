// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfold/bindery/api/schemas"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "bindery", cfg.Logger.ServiceName)
	assert.Equal(t, "Signature", cfg.Impose.Binding)
	assert.Equal(t, "Quarto", cfg.Impose.Arrangement)
	assert.Equal(t, "Letter", cfg.Impose.Paper)
	assert.True(t, cfg.Impose.ValidateInputs)
	assert.Equal(t, 500*time.Millisecond, cfg.Jobs.Debounce)
	assert.Equal(t, 5*time.Second, cfg.Jobs.ShutdownGrace)
	assert.Equal(t, 3, cfg.Flashcards.Columns)
	assert.Equal(t, 2, cfg.Flashcards.Rows)
	assert.InDelta(t, 63.5, cfg.Flashcards.CardWidthMM, 1e-9)
	assert.InDelta(t, 10.0, cfg.Flashcards.MarginMM, 1e-9)
	assert.InDelta(t, 5.0, cfg.Flashcards.RowSpacingMM, 1e-9)

	assert.NoError(t, cfg.Validate(), "defaults must validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Impose Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		badBinding := *cfg
		badBinding.Impose.Binding = "StapleGun"
		err := badBinding.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "impose.binding")

		badPaper := *cfg
		badPaper.Impose.Paper = "B17"
		err = badPaper.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "impose.paper")

		customArrangement := *cfg
		customArrangement.Impose.Arrangement = "12"
		assert.NoError(t, customArrangement.Validate(), "numeric arrangements are custom signatures")
	})

	t.Run("Jobs Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		noDebounce := *cfg
		noDebounce.Jobs.Debounce = 0
		err := noDebounce.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "debounce must be a positive duration")

		negativeGrace := *cfg
		negativeGrace.Jobs.ShutdownGrace = -time.Second
		err = negativeGrace.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "shutdown_grace must be a positive duration")
	})

	t.Run("Flashcards Validation", func(t *testing.T) {
		valid := FlashcardsConfig{
			Paper:        "A4",
			Columns:      3,
			Rows:         4,
			CardWidthMM:  60,
			CardHeightMM: 90,
			RowSpacingMM: 5,
			FontFamily:   "Helvetica",
			FontSize:     10,
		}
		assert.NoError(t, valid.Validate())

		zeroColumns := valid
		zeroColumns.Columns = 0
		err := zeroColumns.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be at least 1")

		flatCard := valid
		flatCard.CardHeightMM = 0
		err = flatCard.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")

		negativeSpacing := valid
		negativeSpacing.ColumnSpacingMM = -1
		err = negativeSpacing.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")

		badFont := valid
		badFont.FontSize = -2
		err = badFont.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "font_size")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
logger:
  level: debug
impose:
  binding: PerfectBinding
  arrangement: Folio
jobs:
  debounce: 250ms
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		err := v.ReadConfig(bytes.NewBuffer(yamlBytes))
		require.NoError(t, err)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "PerfectBinding", cfg.Impose.Binding)
		assert.Equal(t, "Folio", cfg.Impose.Arrangement)
		assert.Equal(t, 250*time.Millisecond, cfg.Jobs.Debounce)
		// Values absent from the YAML keep their defaults.
		assert.Equal(t, "Letter", cfg.Impose.Paper)
		assert.Equal(t, 2, cfg.Flashcards.Rows)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("impose.scaling", "Squish") // Intentionally invalid

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "impose.scaling")
	})
}

// -- Seed Tests --

func TestImposeSeed(t *testing.T) {
	t.Run("applies app defaults over schema defaults", func(t *testing.T) {
		impose := ImposeConfig{
			Binding:     "Spiral",
			Arrangement: "8",
			Paper:       "A5",
			Orientation: "Landscape",
			Format:      "DoubleSided",
			Scaling:     "Fill",
		}

		seeded, err := impose.Seed()
		require.NoError(t, err)

		assert.Equal(t, schemas.BindingSpiral, seeded.Binding)
		assert.Equal(t, 8, seeded.Arrangement.PagesPerSignature())
		assert.Equal(t, schemas.PaperSize{Name: schemas.PaperA5}, seeded.Paper)
		assert.Equal(t, schemas.Landscape, seeded.Orientation)
		assert.Equal(t, schemas.DoubleSided, seeded.OutputFormat)
		assert.Equal(t, schemas.ScaleFill, seeded.Scaling)

		// Margin and mark defaults pass through untouched.
		defaults := schemas.DefaultImpositionConfig()
		assert.Equal(t, defaults.SheetMargins, seeded.SheetMargins)
		assert.Equal(t, defaults.LeafMargins, seeded.LeafMargins)
		assert.Equal(t, defaults.Marks, seeded.Marks)
		assert.Equal(t, defaults.PageNumbers.Start, seeded.PageNumbers.Start)
	})

	t.Run("rejects unparseable values", func(t *testing.T) {
		impose := NewDefaultConfig().Impose
		impose.Orientation = "Diagonal"

		_, err := impose.Seed()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "impose.orientation")
	})
}

// -- Struct and Mapping Tests --

func TestConfigStructureMapping(t *testing.T) {
	yamlInput := `
logger:
  level: warn
  log_file: /var/log/bindery.log
  colors:
    info: blue
impose:
  paper: A4
  validate_inputs: false
flashcards:
  card_width_mm: 50.8
  card_height_mm: 76.2
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewBufferString(yamlInput))
	require.NoError(t, err)

	var cfg Config
	err = v.Unmarshal(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "/var/log/bindery.log", cfg.Logger.LogFile)
	assert.Equal(t, "blue", cfg.Logger.Colors.Info)
	assert.Equal(t, "A4", cfg.Impose.Paper)
	assert.False(t, cfg.Impose.ValidateInputs)
	assert.InDelta(t, 50.8, cfg.Flashcards.CardWidthMM, 1e-9)
	assert.InDelta(t, 76.2, cfg.Flashcards.CardHeightMM, 1e-9)
	// Untouched sections keep defaults.
	assert.Equal(t, "Signature", cfg.Impose.Binding)
}
