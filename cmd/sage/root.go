package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/okulab/sage/internal/cleanup"
	"github.com/okulab/sage/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func execute() {
	// A local .env is a convenient place for GEMINI_API_KEY during
	// development; absence is not an error.
	_ = godotenv.Load()

	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	askOpts := sessionOptions{}

	cmd := &cobra.Command{
		Use:   "sage",
		Short: "Study Assistant with Grounded Explanations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if hasAnyFlagSet(cmd) {
					_ = cmd.Usage()
					return fmt.Errorf("a question is required")
				}
				return cmd.Help()
			}
			if isSubcommand(cmd, args[0]) {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return runAsk(cmd, args, &askOpts)
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	addSessionFlags(cmd, &askOpts)
	cmd.Flags().BoolVar(&askOpts.ground, "ground", false, "Let the model consult web search and cite sources")

	cmd.AddCommand(
		newAskCmd(),
		newLookupCmd(),
		newGrammarCmd(),
		newTranslateCmd(),
		newLanguagesCmd(),
		newKeysCmd(),
		newAboutCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "sage — Study Assistant with Grounded Explanations"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
