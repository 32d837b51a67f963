package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/okulab/sage/internal/stream"
	"github.com/okulab/sage/internal/tutor"
	"github.com/spf13/cobra"
)

func newLookupCmd() *cobra.Command {
	opts := sessionOptions{}
	cmd := &cobra.Command{
		Use:   "lookup \"<topic>\"",
		Short: "Summarize a topic with cited web sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("a topic is required")
			}
			return runStreaming(cmd, &opts, func(ctx context.Context, tut *tutor.Tutor, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
				return tut.LookUp(ctx, query, onUpdate)
			})
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addSessionFlags(cmd, &opts)
	return cmd
}
