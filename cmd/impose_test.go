// File: cmd/impose_test.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
	"github.com/inkfold/bindery/internal/config"
	"github.com/inkfold/bindery/internal/impose"
	"github.com/inkfold/bindery/internal/pdfio"
)

// writeSourcePDF writes a Letter-sized document with the given number of
// pages, for end to end runs.
func writeSourcePDF(t *testing.T, path string, pages int) {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("Page %d", i))
	}
	require.NoError(t, pdf.OutputFileAndClose(path))
}

// parseImposeFlags builds an isolated impose command with the given flags
// parsed, without executing anything.
func parseImposeFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := newImposeCmd()
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

// defaultAppConfig builds an application config from defaults only, on a
// private viper instance so tests stay isolated.
func defaultAppConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)
	return cfg
}

func countPages(t *testing.T, path string) int {
	t.Helper()
	provider, err := pdfio.NewFileProvider(path, zap.NewNop())
	require.NoError(t, err)
	pages, err := provider.PageCount(context.Background())
	require.NoError(t, err)
	return pages
}

func TestApplyLayoutFlags_NoFlagsKeepsDefaults(t *testing.T) {
	cmd := parseImposeFlags(t)

	cfg := schemas.DefaultImpositionConfig()
	require.NoError(t, applyLayoutFlags(cmd, &cfg))

	assert.Equal(t, schemas.DefaultImpositionConfig(), cfg)
}

func TestApplyLayoutFlags_Overrides(t *testing.T) {
	cmd := parseImposeFlags(t,
		"--pages-per-signature", "32",
		"--margin-units", "in",
		"--sheet-margin", "0.5",
		"--leaf-margin", "0.25",
		"--spine-margin", "0.6",
		"--fore-edge-margin", "0.2",
		"--front-flyleaves", "2",
		"--back-flyleaves", "1",
		"--page-numbers",
		"--page-number-start", "5",
		"--rotate-source", "180",
		"--split", "pages:10",
		"--sewing-marks",
		"--fold-lines=false",
	)

	cfg := schemas.DefaultImpositionConfig()
	require.NoError(t, applyLayoutFlags(cmd, &cfg))

	assert.Equal(t, schemas.ArrangementCustom, cfg.Arrangement.Kind)
	assert.Equal(t, 32, cfg.Arrangement.CustomPages)

	assert.Equal(t, schemas.UnitInches, cfg.SheetMargins.Units)
	assert.Equal(t, schemas.UnitInches, cfg.LeafMargins.Units)
	assert.InDelta(t, 0.5, cfg.SheetMargins.Top, 1e-9)
	assert.InDelta(t, 0.5, cfg.SheetMargins.Left, 1e-9)
	assert.InDelta(t, 0.25, cfg.LeafMargins.Top, 1e-9)
	assert.InDelta(t, 0.25, cfg.LeafMargins.Bottom, 1e-9)
	assert.InDelta(t, 0.6, cfg.LeafMargins.Spine, 1e-9)
	assert.InDelta(t, 0.2, cfg.LeafMargins.ForeEdge, 1e-9)

	assert.Equal(t, 2, cfg.Flyleaves.Front)
	assert.Equal(t, 1, cfg.Flyleaves.Back)

	assert.True(t, cfg.PageNumbers.Enabled)
	assert.Equal(t, 5, cfg.PageNumbers.Start)

	assert.Equal(t, schemas.Rotation(180), cfg.SourceRotation)
	assert.Equal(t, schemas.SplitMode{Kind: schemas.SplitPages, Every: 10}, cfg.Split)

	assert.True(t, cfg.Marks.SewingMarks)
	assert.False(t, cfg.Marks.FoldLines)
	assert.True(t, cfg.Marks.CutLines, "untouched marks keep their defaults")
}

func TestApplyLayoutFlags_CustomPaperNeedsBothDimensions(t *testing.T) {
	cmd := parseImposeFlags(t, "--paper-width", "200")
	cfg := schemas.DefaultImpositionConfig()

	err := applyLayoutFlags(cmd, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--paper-width and --paper-height must be given together")

	cmd = parseImposeFlags(t, "--paper-width", "200", "--paper-height", "300")
	cfg = schemas.DefaultImpositionConfig()
	require.NoError(t, applyLayoutFlags(cmd, &cfg))

	assert.Equal(t, schemas.PaperCustom, cfg.Paper.Name)
	w, h := cfg.Paper.Dimensions()
	assert.InDelta(t, 200.0, w, 1e-9)
	assert.InDelta(t, 300.0, h, 1e-9)
}

func TestApplyLayoutFlags_InvalidValues(t *testing.T) {
	cases := map[string][]string{
		"rotation":     {"--rotate-source", "45"},
		"split":        {"--split", "chapters:3"},
		"margin units": {"--margin-units", "furlongs"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := parseImposeFlags(t, args...)
			cfg := schemas.DefaultImpositionConfig()
			require.Error(t, applyLayoutFlags(cmd, &cfg))
		})
	}
}

func TestApplyStackFlags(t *testing.T) {
	cmd := parseImposeFlags(t,
		"--binding", "perfect",
		"--arrangement", "octavo",
		"--paper", "legal",
		"--orientation", "landscape",
		"--output-format", "single-sided",
		"--scaling", "none",
	)

	cfg := schemas.DefaultImpositionConfig()
	require.NoError(t, applyStackFlags(cmd, &cfg))

	assert.Equal(t, schemas.BindingPerfect, cfg.Binding)
	assert.Equal(t, schemas.ArrangementOctavo, cfg.Arrangement.Kind)
	assert.Equal(t, schemas.PaperLegal, cfg.Paper.Name)
	assert.Equal(t, schemas.Landscape, cfg.Orientation)
	assert.Equal(t, schemas.SingleSidedSequence, cfg.OutputFormat)
	assert.Equal(t, schemas.ScaleNone, cfg.Scaling)
}

func TestApplyStackFlags_BadValue(t *testing.T) {
	cmd := parseImposeFlags(t, "--binding", "staples")
	cfg := schemas.DefaultImpositionConfig()
	require.Error(t, applyStackFlags(cmd, &cfg))
}

func TestResolveImpositionConfig_JobFile(t *testing.T) {
	jobPath := filepath.Join(t.TempDir(), "job.json")
	saved := schemas.DefaultImpositionConfig()
	saved.Binding = schemas.BindingCaseBinding
	saved.Arrangement = schemas.Octavo()
	require.NoError(t, impose.SaveOptions(jobPath, saved))

	cmd := parseImposeFlags(t, "--job-config", jobPath, "--binding", "perfect", "--sheet-margin", "20")

	cfg, err := resolveImpositionConfig(cmd, defaultAppConfig(t))
	require.NoError(t, err)

	assert.Equal(t, schemas.BindingPerfect, cfg.Binding, "a changed flag wins over the job file")
	assert.Equal(t, schemas.ArrangementOctavo, cfg.Arrangement.Kind, "job file values survive otherwise")
	assert.InDelta(t, 20.0, cfg.SheetMargins.Left, 1e-9, "layout flags apply on top of the job file")
}

func TestResolveImpositionConfig_MissingJobFile(t *testing.T) {
	cmd := parseImposeFlags(t, "--job-config", filepath.Join(t.TempDir(), "absent.json"))

	_, err := resolveImpositionConfig(cmd, defaultAppConfig(t))
	require.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "book-imposed.pdf", defaultOutputPath("book.pdf"))
	assert.Equal(t, "notes-imposed.pdf", defaultOutputPath("notes"))
	assert.Equal(t, filepath.Join("docs", "zine-imposed.pdf"), defaultOutputPath(filepath.Join("docs", "zine.PDF")))
}

func TestImposeCommand_RequiresInput(t *testing.T) {
	resetTestState(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestImposeCommand_EndToEnd(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "book.pdf")
	writeSourcePDF(t, source, 8)
	output := filepath.Join(dir, "imposed.pdf")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose", source, "-o", output, "--arrangement", "quarto"})

	require.NoError(t, root.ExecuteContext(context.Background()))

	// Eight source pages fill exactly one quarto signature, front and back.
	assert.Equal(t, 2, countPages(t, output))
}

func TestImposeCommand_MergesMultipleInputs(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.pdf")
	second := filepath.Join(dir, "second.pdf")
	writeSourcePDF(t, first, 4)
	writeSourcePDF(t, second, 4)
	output := filepath.Join(dir, "imposed.pdf")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose", first, second, "-o", output})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, 2, countPages(t, output))
}

func TestImposeCommand_SplitBySheets(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "book.pdf")
	writeSourcePDF(t, source, 16)
	output := filepath.Join(dir, "imposed.pdf")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose", source, "-o", output, "--split", "sheets:1"})

	require.NoError(t, root.ExecuteContext(context.Background()))

	// Sixteen quarto pages make two sheets; one sheet per file.
	assert.Equal(t, 2, countPages(t, filepath.Join(dir, "imposed-001.pdf")))
	assert.Equal(t, 2, countPages(t, filepath.Join(dir, "imposed-002.pdf")))
	_, err := os.Stat(output)
	assert.Error(t, err, "the unnumbered path is not written when splitting")
}

func TestImposeCommand_StatsOnlyWritesNothing(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "book.pdf")
	writeSourcePDF(t, source, 8)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose", source, "--stats-only"})

	require.NoError(t, root.ExecuteContext(context.Background()))

	_, err := os.Stat(filepath.Join(dir, "book-imposed.pdf"))
	assert.Error(t, err)
}

func TestImposeCommand_SaveConfig(t *testing.T) {
	resetTestState(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "book.pdf")
	writeSourcePDF(t, source, 8)
	savePath := filepath.Join(dir, "job.json")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose", source, "--stats-only", "--binding", "perfect", "--save-config", savePath})

	require.NoError(t, root.ExecuteContext(context.Background()))

	loaded, err := impose.LoadOptions(savePath)
	require.NoError(t, err)
	assert.Equal(t, schemas.BindingPerfect, loaded.Binding)
}

// TestImposeJob_ReresolveErrorStopsRun covers watch mode picking up a job
// file edit that no longer parses: the run must fail before staging.
func TestImposeJob_ReresolveErrorStopsRun(t *testing.T) {
	job := &imposeJob{
		logger: zap.NewNop(),
		inputs: []string{"book.pdf"},
		reresolve: func() (schemas.ImpositionConfig, error) {
			return schemas.ImpositionConfig{}, errors.New("bad job file")
		},
	}

	err := job.run(context.Background())
	require.EqualError(t, err, "bad job file")
}

func TestImposeCommand_MissingInputFile(t *testing.T) {
	resetTestState(t)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"impose", filepath.Join(t.TempDir(), "absent.pdf")})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
}
