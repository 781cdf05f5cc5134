// Package main provides the recipegraph binary entry point.
// Recipegraph unifies per-source recipe graphs into one knowledge graph:
// it merges the source datasets, links equivalent ingredients and recipes
// across them, and normalizes the result onto canonical structure.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/recipegraph/config"
	"github.com/c360studio/recipegraph/loader"
	"github.com/c360studio/recipegraph/metrics"
	"github.com/c360studio/recipegraph/pipeline"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "recipegraph"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Recipe knowledge graph unification pipeline",
		Long: `Recipegraph merges independently converted recipe datasets into a
single knowledge graph.

A run loads each source graph, unions the triples, links equivalent
ingredients and recipes across sources with owl:sameAs and SKOS mapping
triples, normalizes recipe structure onto canonical predicates, and
writes the unified document to the configured store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(configCmd())

	return cmd
}

func run(ctx context.Context, configPath, logLevel string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	m.Serve(ctx, cfg.Metrics.Listen, logger)

	p, err := pipeline.New(cfg, logger, m, nil)
	if err != nil {
		return err
	}

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers defaults, user config, project config, and the explicit
// --config file, latest wins.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg := config.DefaultConfig()
		override, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(override)
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("run %s complete in %s\n", s.RunID, s.Elapsed.Round(time.Millisecond))
	for _, tag := range sortedTags(s.SourceTriples) {
		fmt.Printf("  %-12s %d triples\n", tag, s.SourceTriples[tag])
	}
	for _, f := range s.Failures {
		fmt.Printf("  %-12s skipped: %v\n", f.Tag, f.Err)
	}
	fmt.Printf("  merged       %d triples\n", s.MergedTriples)
	fmt.Printf("  mappings     %d accepted (%d exact, %d fuzzy candidates, %d overrides)\n",
		s.Ingredients.Accepted+s.Recipes.Accepted,
		s.Ingredients.ExactCandidates+s.Recipes.ExactCandidates,
		s.Ingredients.FuzzyCandidates+s.Recipes.FuzzyCandidates,
		s.Ingredients.Overrides+s.Recipes.Overrides)
	fmt.Printf("  normalized   %d class triples, %d direct links\n",
		s.Normalized.ClassTriples, s.Normalized.DirectLinks)
	fmt.Printf("  output       %d triples\n", s.OutputTriples)
}

func sortedTags(m map[loader.SourceTag]int) []loader.SourceTag {
	tags := make([]loader.SourceTag, 0, len(m))
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
