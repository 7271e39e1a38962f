// File: cmd/stats.go
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inkfold/bindery/internal/config"
	"github.com/inkfold/bindery/internal/impose"
	"github.com/inkfold/bindery/internal/observability"
	"github.com/inkfold/bindery/internal/reporting"
)

// newStatsCmd creates the `stats` command: the planning half of `impose`
// without any rendering.
func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats [input.pdf ...]",
		Short: "Prints imposition statistics without rendering anything",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range []string{"impose.binding", "impose.arrangement"} {
				name := stackFlagKeys[key]
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args)
		},
	}

	statsCmd.Flags().String("binding", "", "Binding style: signature, perfect, side-stitch, spiral or case. (Overrides config/env)")
	statsCmd.Flags().String("arrangement", "", "Signature arrangement: folio, quarto, octavo or a page count. (Overrides config/env)")
	statsCmd.Flags().Int("pages-per-signature", 0, "Custom signature size; shorthand for --arrangement <n>")
	statsCmd.Flags().Int("front-flyleaves", 0, "Blank sheets before the book block")
	statsCmd.Flags().Int("back-flyleaves", 0, "Blank sheets after the book block")
	statsCmd.Flags().String("job-config", "", "Load the imposition setup from a saved job file")
	statsCmd.Flags().String("format", "text", "Report format: text or json")

	return statsCmd
}

func runStats(cmd *cobra.Command, args []string) error {
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

	format, _ := cmd.Flags().GetString("format")
	reporter, err := reporting.New(format, "", logger)
	if err != nil {
		return err
	}
	defer reporter.Close()

	engine, err := impose.New(logger)
	if err != nil {
		return err
	}

	job := &imposeJob{
		engine:    engine,
		reporter:  reporter,
		logger:    logger,
		inputs:    args,
		config:    cfg,
		statsOnly: true,
		validate:  appCfg.Impose.ValidateInputs,
	}
	return job.run(ctx)
}
