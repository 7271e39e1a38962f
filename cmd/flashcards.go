// File: cmd/flashcards.go
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inkfold/bindery/internal/config"
	"github.com/inkfold/bindery/internal/flashcards"
	"github.com/inkfold/bindery/internal/observability"
)

// newFlashcardsCmd creates the `flashcards` command.
func newFlashcardsCmd() *cobra.Command {
	flashcardsCmd := &cobra.Command{
		Use:   "flashcards [cards.csv]",
		Short: "Renders duplex flashcard sheets from a two-column CSV",
		Long: `Flashcards lays a CSV deck (front,back per row, first row ignored as a
header) out as a grid of cards, fronts and backs on alternating pages.
Back pages mirror the columns so duplex printing puts each card's back
behind its front.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for key, name := range map[string]string{
				"flashcards.rows":    "rows",
				"flashcards.columns": "columns",
				"flashcards.paper":   "paper",
			} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlashcards(cmd, args)
		},
	}

	flashcardsCmd.Flags().StringP("output", "o", "", "Output PDF path. Defaults to <input>-cards.pdf")
	flashcardsCmd.Flags().Int("rows", 2, "Rows of cards per page. (Overrides config/env)")
	flashcardsCmd.Flags().Int("columns", 3, "Columns of cards per page. (Overrides config/env)")
	flashcardsCmd.Flags().String("paper", "", "Sheet size, e.g. letter, a4. (Overrides config/env)")
	flashcardsCmd.Flags().Float64("card-width-in", 2.5, "Card width in inches")
	flashcardsCmd.Flags().Float64("card-height-in", 3.5, "Card height in inches")
	flashcardsCmd.Flags().String("font", "", "Text font: a core PDF font name or a .ttf file to embed")
	flashcardsCmd.Flags().Float64("font-size", 12, "Text size in points")

	return flashcardsCmd
}

func runFlashcards(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()

	appCfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return err
	}

	opts, err := flashcards.OptionsFromConfig(appCfg.Flashcards)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("card-width-in") {
		v, _ := flags.GetFloat64("card-width-in")
		opts.CardWidthMM = v * 25.4
	}
	if flags.Changed("card-height-in") {
		v, _ := flags.GetFloat64("card-height-in")
		opts.CardHeightMM = v * 25.4
	}
	if flags.Changed("font") {
		opts.FontFamily, _ = flags.GetString("font")
	}
	if flags.Changed("font-size") {
		opts.FontSizePt, _ = flags.GetFloat64("font-size")
	}

	input := args[0]
	output, _ := flags.GetString("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "-cards.pdf"
	}

	cards, err := flashcards.LoadDeck(input)
	if err != nil {
		return err
	}

	generator, err := flashcards.NewGenerator(output, opts, logger)
	if err != nil {
		return err
	}
	if err := generator.Generate(cards); err != nil {
		return err
	}

	fmt.Printf("Generated %d flashcards → %s\n", len(cards), output)
	return nil
}
