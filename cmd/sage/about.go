package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "sage — Study Assistant with Grounded Explanations")
			fmt.Fprintln(out, "https://github.com/okulab/sage")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
