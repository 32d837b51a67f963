package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/okulab/sage/internal/stream"
	"github.com/okulab/sage/internal/tutor"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	opts := sessionOptions{}
	cmd := &cobra.Command{
		Use:   "ask \"<question>\"",
		Short: "Answer a study question (default command)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addSessionFlags(cmd, &opts)
	addTargetFlag(cmd, &opts)
	cmd.Flags().BoolVar(&opts.ground, "ground", false, "Let the model consult web search and cite sources")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string, opts *sessionOptions) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}
	return runStreaming(cmd, opts, func(ctx context.Context, tut *tutor.Tutor, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
		return tut.Ask(ctx, question, onUpdate)
	})
}
