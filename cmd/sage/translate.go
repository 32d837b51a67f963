package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/okulab/sage/internal/apperrors"
	"github.com/okulab/sage/internal/ui"
	"github.com/spf13/cobra"
)

func newTranslateCmd() *cobra.Command {
	opts := sessionOptions{}
	cmd := &cobra.Command{
		Use:   "translate --target <language> \"<text>\"",
		Short: "Translate text with a word-by-word breakdown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addSessionFlags(cmd, &opts)
	addTargetFlag(cmd, &opts)
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts *sessionOptions) error {
	if opts.targetLang == "" {
		return fmt.Errorf("--target is required (see 'sage languages')")
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("text to translate is required")
	}

	tut, err := newTutorSession(opts)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	sp := ui.NewSpinner("Translating...")
	sp.Start()

	startTime := time.Now()
	translation, err := tut.Translate(ctx, text)
	if err != nil {
		sp.Fail(apperrors.PublicMessage(err))
		if apperrors.IsMalformed(err) {
			return fmt.Errorf("translation failed; try again or rephrase the text")
		}
		return err
	}
	sp.Stop()

	ui.PrintTranslation(cmd.OutOrStdout(), translation)

	if opts.stats {
		printUsageStats(tut.Usage(), time.Since(startTime), opts.modelName)
	}
	return nil
}
