package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/okulab/sage/internal/stream"
	"github.com/okulab/sage/internal/tutor"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	opts := sessionOptions{}
	cmd := &cobra.Command{
		Use:   "grammar --target <language> \"<sentence>\"",
		Short: "Explain the grammar of a sentence in the target language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.targetLang == "" {
				return fmt.Errorf("--target is required (see 'sage languages')")
			}
			sentence := strings.TrimSpace(strings.Join(args, " "))
			if sentence == "" {
				return fmt.Errorf("a sentence is required")
			}
			return runStreaming(cmd, &opts, func(ctx context.Context, tut *tutor.Tutor, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
				return tut.ExplainGrammar(ctx, sentence, onUpdate)
			})
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addSessionFlags(cmd, &opts)
	addTargetFlag(cmd, &opts)
	return cmd
}
