package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okulab/sage/internal/apperrors"
	"github.com/okulab/sage/internal/auth"
	"github.com/okulab/sage/internal/cleanup"
	"github.com/okulab/sage/internal/gemini"
	"github.com/okulab/sage/internal/language"
	"github.com/okulab/sage/internal/logger"
	"github.com/okulab/sage/internal/metadata"
	"github.com/okulab/sage/internal/stream"
	"github.com/okulab/sage/internal/tutor"
	"github.com/okulab/sage/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
)

// sessionOptions are the flags shared by every tutoring mode.
type sessionOptions struct {
	modelName   string
	subject     string
	classLevel  string
	targetLang  string
	ground      bool
	stats       bool
	logFilePath string
	allowEnv    bool
	envOnly     bool
	debug       bool
}

func addSessionFlags(cmd *cobra.Command, opts *sessionOptions) {
	cmd.Flags().StringVar(&opts.modelName, "model", "gemini-3-flash-preview", "Gemini model name")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "School subject for tailored explanations (e.g. biology)")
	cmd.Flags().StringVar(&opts.classLevel, "level", "", "Class level the answer should target (e.g. 'grade 9')")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print token usage and estimated cost after the request")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API key from GEMINI_API_KEY")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only the environment for the API key")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func addTargetFlag(cmd *cobra.Command, opts *sessionOptions) {
	cmd.Flags().StringVar(&opts.targetLang, "target", "", "Target language code or name (see 'sage languages')")
}

// resolveAPIKey handles the logic for finding the API key.
func resolveAPIKey(allowEnv, envOnly bool) (string, string, error) {
	if envOnly {
		if key, ok := getEnvKey(); ok {
			return key, "Environment Variable", nil
		}
		return "", "", fmt.Errorf("env-only set but GEMINI_API_KEY is not set")
	}

	if key, source := getKey(false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(); ok {
			return key, "Environment Variable", nil
		}
	}

	if isTerminal(int(os.Stdin.Fd())) {
		key, err := promptForKey("Gemini API Key (press Enter to skip): ")
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), "Terminal Prompt", nil
		}
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no API key available (non-interactive shell); run 'sage keys setup' or use --allow-env")
	}
	if allowEnv {
		return "", "", fmt.Errorf("API key is required; not found in keychain or environment")
	}
	return "", "", fmt.Errorf("API key is required; not found in keychain (environment disabled by default; use --allow-env)")
}

func initLogging(opts *sessionOptions) error {
	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)
	return nil
}

// newTutorSession wires flags into a ready Tutor: logging, API key, target
// language, completion client.
func newTutorSession(opts *sessionOptions) (*tutor.Tutor, error) {
	if err := initLogging(opts); err != nil {
		return nil, err
	}

	key, source, err := resolveAPIKey(opts.allowEnv, opts.envOnly)
	if err != nil {
		return nil, err
	}
	logger.Info("Using API Key", "source", source)

	var target language.Language
	if opts.targetLang != "" {
		lang, ok := language.Get(opts.targetLang)
		if !ok {
			return nil, fmt.Errorf("unsupported language %q (see 'sage languages')", opts.targetLang)
		}
		target = lang
	}

	client := gemini.NewClient(gemini.Config{APIKey: key, Model: opts.modelName})
	cleanup.Register(client.Close)

	return tutor.New(client, tutor.Options{
		Subject:        opts.subject,
		ClassLevel:     opts.classLevel,
		TargetLanguage: target,
		GroundAnswers:  opts.ground,
	})
}

// runStreaming drives one streaming request end to end: spinner until the
// first token, incremental rendering per fold, citation list and optional
// stats afterwards.
func runStreaming(cmd *cobra.Command, opts *sessionOptions, open func(context.Context, *tutor.Tutor, func(stream.Accumulated)) (stream.Accumulated, error)) error {
	tut, err := newTutorSession(opts)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	sp := ui.NewSpinner("Thinking...")
	sp.Start()
	printer := ui.NewStreamPrinter(cmd.OutOrStdout(), sp)

	startTime := time.Now()
	acc, err := open(ctx, tut, printer.Update)
	if err != nil {
		sp.Fail(apperrors.PublicMessage(err))
		return err
	}
	printer.Finish(acc)

	if acc.Err != nil {
		// The readable message is already part of the rendered text.
		logger.Warn("Request ended with a provider error", "error", acc.Err)
	}
	if opts.stats {
		printUsageStats(tut.Usage(), time.Since(startTime), opts.modelName)
	}
	return nil
}

func printUsageStats(usage gemini.UsageMetadata, duration time.Duration, model string) {
	fmt.Println("\n--- Execution Stats ---")
	fmt.Printf("Time: %s\n", duration)
	fmt.Printf("Model: %s\n", model)
	if usage.TotalTokenCount > 0 {
		fmt.Printf("Tokens: In=%d, Out=%d, Total=%d, Web=%d\n",
			usage.PromptTokenCount, usage.CandidatesTokenCount, usage.TotalTokenCount, usage.WebSearchCount)

		// Reasoning tokens are billed as output tokens.
		// Reasoning Tokens = Total - (Prompt + Candidates)
		reasoningTokens := usage.TotalTokenCount - (usage.PromptTokenCount + usage.CandidatesTokenCount)
		if reasoningTokens < 0 {
			reasoningTokens = 0
		}
		billableOutput := usage.CandidatesTokenCount + reasoningTokens

		pricing, _ := metadata.GeminiPricing(model)
		inCost := (float64(usage.PromptTokenCount) / 1_000_000) * pricing.InputPerMillion
		outCost := (float64(billableOutput) / 1_000_000) * pricing.OutputPerMillion
		searchCost := float64(usage.WebSearchCount) * metadata.WebSearchCostPerCall

		fmt.Printf("Estimated Cost: $%.5f (Reasoning Tokens: %d)\n", inCost+outCost+searchCost, reasoningTokens)
	}
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Cancellation requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
