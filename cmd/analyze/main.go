package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/senticlouds/config"
	"github.com/spacesedan/senticlouds/internal/logging"
	"github.com/spacesedan/senticlouds/internal/pipeline"
	"github.com/spacesedan/senticlouds/internal/report"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	outputDir   string
	overwrite   bool
	emptyCorpus string
	seed        uint64
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "analyze [input]",
	Short: "Label the sentiment of a table's text column and render a word cloud per label",
	Long: `analyze loads a CSV, TSV or XLSX table, picks the column with the longest
text on average, cleans and scores every row, labels it Positive, Negative or
Neutral, and writes one word cloud per label along with the augmented table.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML run configuration")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for every output file")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", true, "replace existing output files")
	rootCmd.Flags().StringVar(&emptyCorpus, "empty-corpus", "", "policy for labels without words: placeholder or skip")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "word cloud layout seed")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("overwrite") {
		cfg.Overwrite = overwrite
	}
	if flags.Changed("empty-corpus") {
		cfg.EmptyCorpus = emptyCorpus
	}
	if flags.Changed("seed") {
		cfg.WordCloud.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.DistributionTable(res.Counts))
	fmt.Fprintf(cmd.OutOrStdout(), "Sentiment analysis and word clouds complete (%d files written to %s)\n",
		len(res.Outputs), cfg.Output.Dir)
	return nil
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("[Main] Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
