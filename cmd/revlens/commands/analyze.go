// Package commands implements CLI command handlers for revlens.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revlens/revlens/internal/config"
	"github.com/revlens/revlens/internal/observability"
	"github.com/revlens/revlens/internal/render"
	"github.com/revlens/revlens/pkg/analysis"
	"github.com/revlens/revlens/pkg/detect"
)

// metricsReadTimeout bounds header reads on the scrape endpoint.
const metricsReadTimeout = 5 * time.Second

// AnalyzeCommand holds configuration for the analyze command.
type AnalyzeCommand struct {
	configPath string
	path       string
	sourceRef  string
	targetRef  string

	include []string
	exclude []string

	rulesFile string
	workers   int
	backend   string
	format    string
	silent    bool
	noColor   bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze changed files between two revisions",
		Long: `Analyze collects the files that differ between the source and target
revisions plus any uncommitted changes, runs the detector catalog over
each one and prints the aggregated review.`,
		Args: cobra.MaximumNArgs(1),
		RunE: ac.run,
	}

	cmd.Flags().StringVar(&ac.configPath, "config", "", "Config file path (default: .revlens.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&ac.path, "path", "p", ".", "Repository path to analyze")
	cmd.Flags().StringVarP(&ac.sourceRef, "source", "s", "HEAD", "Source revision (branch, tag or SHA)")
	cmd.Flags().StringVarP(&ac.targetRef, "target", "t", "HEAD", "Target revision to compare against")
	cmd.Flags().StringSliceVar(&ac.include, "include", nil, "Only analyze paths matching these patterns")
	cmd.Flags().StringSliceVar(&ac.exclude, "exclude", nil, "Skip paths matching these patterns")
	cmd.Flags().StringVar(&ac.rulesFile, "rules", "", "Custom detection rules file (YAML)")
	cmd.Flags().IntVar(&ac.workers, "workers", 0, "Number of detection workers (0 = from config)")
	cmd.Flags().StringVar(&ac.backend, "backend", "", "Detection backend label: cpu or gpu")
	cmd.Flags().StringVar(&ac.format, "format", "", "Output format: summary, detailed, json, markdown")
	cmd.Flags().BoolVar(&ac.silent, "silent", false, "Disable progress output")
	cmd.Flags().BoolVar(&ac.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (ac *AnalyzeCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(ac.configPath)
	if err != nil {
		return err
	}

	ac.applyConfig(cfg)

	if ac.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	var rules []detect.CustomRule

	if ac.rulesFile != "" {
		rules, err = detect.LoadCustomRules(ac.rulesFile)
		if err != nil {
			return err
		}
	}

	recorder, metricsServer, err := setupMetrics(cfg)
	if err != nil {
		return err
	}

	if metricsServer != nil {
		defer func() { _ = metricsServer.Close() }()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := ac.path
	if len(args) > 0 {
		path = args[0]
	}

	silent := ac.isSilent(cmd)
	progressWriter := cmd.ErrOrStderr()

	opts := analysis.Options{
		RepoPath:        path,
		SourceRef:       ac.sourceRef,
		TargetRef:       ac.targetRef,
		IncludePatterns: ac.include,
		ExcludePatterns: ac.exclude,
		CustomRules:     rules,
		Workers:         ac.workers,
		CollectMetrics:  true,
		CollectStack:    true,
		Logger:          log.New(progressWriter, "", log.LstdFlags),
	}

	if recorder != nil {
		opts.Metrics = recorder
	}

	if !silent {
		opts.Progress = func(percent float64, message string) {
			fmt.Fprintf(progressWriter, "progress: %3.0f%% %s\n", percent, message)
		}
	}

	result, runErr := analysis.Run(ctx, opts)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	renderErr := render.New(cmd.OutOrStdout()).Render(ac.format, result, ac.backend)
	if renderErr != nil {
		return renderErr
	}

	// An interrupted run still prints the partial review above, but exits
	// non-zero.
	return runErr
}

// applyConfig fills unset flags from the loaded configuration.
func (ac *AnalyzeCommand) applyConfig(cfg *config.Config) {
	if len(ac.include) == 0 {
		ac.include = cfg.Analysis.Include
	}

	if len(ac.exclude) == 0 {
		ac.exclude = cfg.Analysis.Exclude
	}

	if ac.workers == 0 {
		ac.workers = cfg.Analysis.Workers
	}

	if ac.backend == "" {
		ac.backend = cfg.Analysis.Backend
	}

	if ac.format == "" {
		ac.format = cfg.Output.Format
	}

	if ac.rulesFile == "" {
		ac.rulesFile = cfg.Analysis.RulesFile
	}

	if cfg.Output.Silent {
		ac.silent = true
	}
}

func (ac *AnalyzeCommand) isSilent(cmd *cobra.Command) bool {
	if ac.silent {
		return true
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return false
	}

	return quiet
}

// setupMetrics starts the Prometheus scrape endpoint when enabled and
// returns the run recorder backed by it.
func setupMetrics(cfg *config.Config) (*observability.ReviewMetrics, io.Closer, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil, nil
	}

	meter, handler, err := observability.NewPrometheusMeter()
	if err != nil {
		return nil, nil, err
	}

	recorder, err := observability.NewReviewMetrics(meter)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}

	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Printf("metrics endpoint: %v", serveErr)
		}
	}()

	return recorder, server, nil
}
