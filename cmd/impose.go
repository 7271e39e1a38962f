// File: cmd/impose.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
	"github.com/inkfold/bindery/internal/config"
	"github.com/inkfold/bindery/internal/impose"
	"github.com/inkfold/bindery/internal/jobs"
	"github.com/inkfold/bindery/internal/observability"
	"github.com/inkfold/bindery/internal/pdfio"
	"github.com/inkfold/bindery/internal/reporting"
)

// stackFlagKeys maps the viper keys of the impose section onto the flag
// names that override them.
var stackFlagKeys = map[string]string{
	"impose.binding":     "binding",
	"impose.arrangement": "arrangement",
	"impose.paper":       "paper",
	"impose.orientation": "orientation",
	"impose.format":      "output-format",
	"impose.scaling":     "scaling",
}

// newImposeCmd creates and configures the `impose` command.
func newImposeCmd() *cobra.Command {
	imposeCmd := &cobra.Command{
		Use:   "impose [input.pdf ...]",
		Short: "Imposes source pages onto printable, foldable sheets",
		Long: `Impose reorders and places the pages of one or more source PDFs onto
larger sheets so that printing, folding and binding them yields a book.
Multiple inputs are merged in argument order first.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line flags correctly
			// override values from the config file and environment.
			for key, name := range stackFlagKeys {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpose(cmd, args)
		},
	}

	imposeCmd.Flags().StringP("output", "o", "", "Output PDF path. Defaults to <first input>-imposed.pdf")

	// Imposition stack overrides.
	imposeCmd.Flags().String("binding", "", "Binding style: signature, perfect, side-stitch, spiral or case. (Overrides config/env)")
	imposeCmd.Flags().String("arrangement", "", "Signature arrangement: folio, quarto, octavo or a page count. (Overrides config/env)")
	imposeCmd.Flags().Int("pages-per-signature", 0, "Custom signature size; shorthand for --arrangement <n>")
	imposeCmd.Flags().String("paper", "", "Output paper size, e.g. letter, a4, tabloid. (Overrides config/env)")
	imposeCmd.Flags().Float64("paper-width", 0, "Custom paper width in mm, requires --paper-height")
	imposeCmd.Flags().Float64("paper-height", 0, "Custom paper height in mm, requires --paper-width")
	imposeCmd.Flags().String("orientation", "", "Sheet orientation: portrait or landscape. (Overrides config/env)")
	imposeCmd.Flags().String("output-format", "", "Side ordering: double-sided, two-sided or single-sided. (Overrides config/env)")
	imposeCmd.Flags().String("scaling", "", "Page scaling: fit, fill, none or stretch. (Overrides config/env)")

	// Margins.
	imposeCmd.Flags().Float64("sheet-margin", 10, "Uniform margin around each sheet")
	imposeCmd.Flags().Float64("leaf-margin", 5, "Top and bottom margin inside each placed page")
	imposeCmd.Flags().Float64("spine-margin", 10, "Margin on each page's spine edge")
	imposeCmd.Flags().Float64("fore-edge-margin", 5, "Margin on each page's outer edge")
	imposeCmd.Flags().String("margin-units", "mm", "Units for margin flags: mm, in or pt")

	// Book block extras.
	imposeCmd.Flags().Int("front-flyleaves", 0, "Blank sheets before the book block")
	imposeCmd.Flags().Int("back-flyleaves", 0, "Blank sheets after the book block")
	imposeCmd.Flags().Bool("page-numbers", false, "Print a folio under each placed page")
	imposeCmd.Flags().Int("page-number-start", 1, "First printed page number")
	imposeCmd.Flags().Int("rotate-source", 0, "Rotate source pages by 0, 90, 180 or 270 degrees first")

	// Printer's marks.
	imposeCmd.Flags().Bool("fold-lines", true, "Draw dashed fold lines")
	imposeCmd.Flags().Bool("cut-lines", true, "Draw solid cut lines")
	imposeCmd.Flags().Bool("crop-marks", false, "Draw corner crop marks on each sheet")
	imposeCmd.Flags().Bool("trim-marks", false, "Draw trim marks at placed page corners")
	imposeCmd.Flags().Bool("registration-marks", false, "Draw registration targets on each edge")
	imposeCmd.Flags().Bool("sewing-marks", false, "Draw sewing stations on the innermost fold")
	imposeCmd.Flags().Bool("spine-marks", false, "Draw collation blocks on the spine fold")

	// Run shape.
	imposeCmd.Flags().String("split", "none", "Split output into files: none, pages:<n>, sheets:<n> or signatures:<n>")
	imposeCmd.Flags().Int("preview", 0, "Impose only the first N signatures")
	imposeCmd.Flags().Bool("stats-only", false, "Print statistics without writing any output")
	imposeCmd.Flags().String("stats-format", "text", "Statistics format: text or json")
	imposeCmd.Flags().String("job-config", "", "Load the imposition setup from a saved job file")
	imposeCmd.Flags().String("save-config", "", "Save the resolved imposition setup to a job file")
	imposeCmd.Flags().Bool("watch", false, "Rerun whenever an input file changes")

	return imposeCmd
}

// runImpose executes one imposition request, optionally under a file
// watcher.
func runImpose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	appCfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return err
	}

	cfg, err := resolveImpositionConfig(cmd, appCfg)
	if err != nil {
		return err
	}
	if err := impose.ValidateConfig(cfg); err != nil {
		return err
	}

	flags := cmd.Flags()
	output, _ := flags.GetString("output")
	if output == "" {
		output = defaultOutputPath(args[0])
	}

	if savePath, _ := flags.GetString("save-config"); savePath != "" {
		if err := impose.SaveOptions(savePath, cfg); err != nil {
			return err
		}
		logger.Info("Job configuration saved", zap.String("path", savePath))
	}

	statsFormat, _ := flags.GetString("stats-format")
	reporter, err := reporting.New(statsFormat, "", logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			logger.Error("Failed to close reporter", zap.Error(err))
		}
	}()

	engine, err := impose.New(logger)
	if err != nil {
		return err
	}

	statsOnly, _ := flags.GetBool("stats-only")
	preview, _ := flags.GetInt("preview")
	job := &imposeJob{
		engine:    engine,
		reporter:  reporter,
		logger:    logger,
		inputs:    args,
		output:    output,
		config:    cfg,
		preview:   preview,
		statsOnly: statsOnly,
		validate:  appCfg.Impose.ValidateInputs,
	}

	if watch, _ := flags.GetBool("watch"); watch {
		// Later runs pick up edits to the job file, not just the inputs.
		job.reresolve = func() (schemas.ImpositionConfig, error) {
			cfg, err := resolveImpositionConfig(cmd, appCfg)
			if err != nil {
				return cfg, err
			}
			return cfg, impose.ValidateConfig(cfg)
		}
		watchPaths := append([]string(nil), job.inputs...)
		if jobPath, _ := flags.GetString("job-config"); jobPath != "" {
			watchPaths = append(watchPaths, jobPath)
		}
		return watchAndRun(ctx, appCfg.Jobs, job, watchPaths, logger)
	}
	return job.run(ctx)
}

// imposeJob bundles everything one run needs, so watch mode can replay it.
type imposeJob struct {
	engine    *impose.Engine
	reporter  reporting.Reporter
	logger    *zap.Logger
	inputs    []string
	output    string
	config    schemas.ImpositionConfig
	preview   int
	statsOnly bool
	validate  bool

	// reresolve, when set, rebuilds the configuration at the start of each
	// run. The dispatcher serializes runs, so replacing config is safe.
	reresolve func() (schemas.ImpositionConfig, error)
}

// run stages the source, imposes it and writes one report.
func (j *imposeJob) run(ctx context.Context) error {
	start := time.Now()

	if j.reresolve != nil {
		cfg, err := j.reresolve()
		if err != nil {
			return err
		}
		j.config = cfg
	}

	source, cleanup, err := j.stageSource(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := pdfio.NewFileProvider(source, j.logger)
	if err != nil {
		return err
	}

	req := impose.Request{Config: j.config, Preview: j.preview}

	var stats schemas.ImpositionStats
	var outputFiles []string
	if j.statsOnly {
		plan, err := j.engine.Plan(ctx, req, provider)
		if err != nil {
			return err
		}
		stats = plan.Stats
	} else {
		assembler, err := pdfio.NewAssembler(source, j.output, j.logger)
		if err != nil {
			return err
		}
		plan, err := j.engine.Impose(ctx, req, provider, assembler)
		if err != nil {
			return err
		}
		stats = plan.Stats
		outputFiles = pdfio.OutputPaths(plan, j.output)
	}

	return j.reporter.Write(&schemas.ImpositionReport{
		JobID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Tool:        "bindery",
		Version:     Version,
		Inputs:      j.inputs,
		Output:      j.output,
		OutputFiles: outputFiles,
		Config:      j.config,
		Stats:       stats,
		Elapsed:     time.Since(start).Round(time.Millisecond).String(),
	})
}

// stageSource returns the single document to impose, merging multiple
// inputs into a scratch file first. The cleanup function removes it.
func (j *imposeJob) stageSource(ctx context.Context) (string, func(), error) {
	if len(j.inputs) == 1 {
		if j.validate {
			if err := pdfio.ValidateInput(ctx, j.inputs[0]); err != nil {
				return "", nil, err
			}
		}
		return j.inputs[0], func() {}, nil
	}

	tmp, err := os.CreateTemp("", "bindery-merge-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("creating merge scratch file: %w", err)
	}
	tmp.Close()

	if err := pdfio.MergeInputs(ctx, j.inputs, tmp.Name(), j.logger); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// watchAndRun reruns the job whenever a watched file changes, until the
// context is canceled.
func watchAndRun(ctx context.Context, jobsCfg config.JobsConfig, job *imposeJob, watchPaths []string, logger *zap.Logger) error {
	dispatcher, err := jobs.NewDispatcher(jobsCfg, func(ctx context.Context, _ jobs.Job) error {
		return job.run(ctx)
	}, logger)
	if err != nil {
		return err
	}
	watcher, err := jobs.NewWatcher(watchPaths, logger)
	if err != nil {
		return err
	}

	dispatcher.Start(ctx)
	defer dispatcher.Stop()
	dispatcher.Submit("initial build")

	return watcher.Run(ctx, func(path string) {
		dispatcher.Submit(filepath.Base(path) + " changed")
	})
}

// resolveImpositionConfig builds the job's settings: a saved job file or
// the app config supplies the base, explicit flags win on top.
func resolveImpositionConfig(cmd *cobra.Command, appCfg *config.Config) (schemas.ImpositionConfig, error) {
	var cfg schemas.ImpositionConfig

	if jobPath, _ := cmd.Flags().GetString("job-config"); jobPath != "" {
		loaded, err := impose.LoadOptions(jobPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		if err := applyStackFlags(cmd, &cfg); err != nil {
			return cfg, err
		}
	} else {
		seeded, err := appCfg.Impose.Seed()
		if err != nil {
			return cfg, err
		}
		cfg = seeded
	}

	if err := applyLayoutFlags(cmd, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyStackFlags reapplies the viper-backed flags on top of a loaded job
// file. Without a job file these already flow in through viper.
func applyStackFlags(cmd *cobra.Command, cfg *schemas.ImpositionConfig) error {
	flags := cmd.Flags()

	if flags.Changed("binding") {
		s, _ := flags.GetString("binding")
		v, err := schemas.ParseBindingType(s)
		if err != nil {
			return err
		}
		cfg.Binding = v
	}
	if flags.Changed("arrangement") {
		s, _ := flags.GetString("arrangement")
		v, err := schemas.ParseArrangement(s)
		if err != nil {
			return err
		}
		cfg.Arrangement = v
	}
	if flags.Changed("paper") {
		s, _ := flags.GetString("paper")
		v, err := schemas.ParsePaperSize(s)
		if err != nil {
			return err
		}
		cfg.Paper = v
	}
	if flags.Changed("orientation") {
		s, _ := flags.GetString("orientation")
		v, err := schemas.ParseOrientation(s)
		if err != nil {
			return err
		}
		cfg.Orientation = v
	}
	if flags.Changed("output-format") {
		s, _ := flags.GetString("output-format")
		v, err := schemas.ParseOutputFormat(s)
		if err != nil {
			return err
		}
		cfg.OutputFormat = v
	}
	if flags.Changed("scaling") {
		s, _ := flags.GetString("scaling")
		v, err := schemas.ParseScalingMode(s)
		if err != nil {
			return err
		}
		cfg.Scaling = v
	}
	return nil
}

// applyLayoutFlags folds the remaining flags into the configuration.
// Each one applies only when the user actually set it, so job files and
// config defaults survive untouched flags.
func applyLayoutFlags(cmd *cobra.Command, cfg *schemas.ImpositionConfig) error {
	flags := cmd.Flags()

	if flags.Changed("pages-per-signature") {
		n, _ := flags.GetInt("pages-per-signature")
		cfg.Arrangement = schemas.Arrangement{Kind: schemas.ArrangementCustom, CustomPages: n}
	}

	wChanged, hChanged := flags.Changed("paper-width"), flags.Changed("paper-height")
	if wChanged != hChanged {
		return fmt.Errorf("--paper-width and --paper-height must be given together")
	}
	if wChanged {
		w, _ := flags.GetFloat64("paper-width")
		h, _ := flags.GetFloat64("paper-height")
		cfg.Paper = schemas.PaperSize{Name: schemas.PaperCustom, WidthMM: w, HeightMM: h}
	}

	units := cfg.SheetMargins.Units
	if flags.Changed("margin-units") {
		s, _ := flags.GetString("margin-units")
		u, err := schemas.ParseMarginUnit(s)
		if err != nil {
			return err
		}
		units = u
		cfg.SheetMargins.Units = u
		cfg.LeafMargins.Units = u
	}
	if flags.Changed("sheet-margin") {
		v, _ := flags.GetFloat64("sheet-margin")
		cfg.SheetMargins = schemas.UniformSheetMargins(v, units)
	}
	if flags.Changed("leaf-margin") {
		v, _ := flags.GetFloat64("leaf-margin")
		cfg.LeafMargins.Top = v
		cfg.LeafMargins.Bottom = v
	}
	if flags.Changed("spine-margin") {
		cfg.LeafMargins.Spine, _ = flags.GetFloat64("spine-margin")
	}
	if flags.Changed("fore-edge-margin") {
		cfg.LeafMargins.ForeEdge, _ = flags.GetFloat64("fore-edge-margin")
	}

	if flags.Changed("front-flyleaves") {
		cfg.Flyleaves.Front, _ = flags.GetInt("front-flyleaves")
	}
	if flags.Changed("back-flyleaves") {
		cfg.Flyleaves.Back, _ = flags.GetInt("back-flyleaves")
	}

	boolFlag := func(name string, dst *bool) {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	boolFlag("fold-lines", &cfg.Marks.FoldLines)
	boolFlag("cut-lines", &cfg.Marks.CutLines)
	boolFlag("crop-marks", &cfg.Marks.CropMarks)
	boolFlag("trim-marks", &cfg.Marks.TrimMarks)
	boolFlag("registration-marks", &cfg.Marks.RegistrationMarks)
	boolFlag("sewing-marks", &cfg.Marks.SewingMarks)
	boolFlag("spine-marks", &cfg.Marks.SpineMarks)
	boolFlag("page-numbers", &cfg.PageNumbers.Enabled)

	if flags.Changed("page-number-start") {
		cfg.PageNumbers.Start, _ = flags.GetInt("page-number-start")
	}

	if flags.Changed("rotate-source") {
		deg, _ := flags.GetInt("rotate-source")
		r := schemas.Rotation(deg)
		if !r.Valid() {
			return fmt.Errorf("--rotate-source must be 0, 90, 180 or 270")
		}
		cfg.SourceRotation = r
	}

	if flags.Changed("split") {
		s, _ := flags.GetString("split")
		mode, err := schemas.ParseSplitMode(s)
		if err != nil {
			return err
		}
		cfg.Split = mode
	}

	return nil
}

// defaultOutputPath derives <input>-imposed.pdf from the first input.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "-imposed.pdf"
}
