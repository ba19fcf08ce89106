// Package run implements the batch categorization command.
package run

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/ynab-autocat/internal/config"
	"fjacquet/ynab-autocat/internal/engine"
	"fjacquet/ynab-autocat/internal/fallback"
	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/report"
	"fjacquet/ynab-autocat/internal/store"
	"fjacquet/ynab-autocat/internal/ynab"
)

var (
	dryRun     bool
	limit      int
	outputFile string
	aiEnabled  bool
)

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Categorize all uncategorized transactions",
	Long: `Fetch the budget's transaction history, build the matching index, decide a
category for every uncategorized transaction, and apply the accepted
decisions in one batch.`,
	RunE: runFunc,
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate and report without applying updates")
	Cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many accepted decisions (0 = no limit)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the decisions to this CSV file")
	Cmd.Flags().BoolVar(&aiEnabled, "ai", false, "Enable the Gemini fallback classifier")
}

func runFunc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	ctx := cmd.Context()

	budget := ynab.NewHTTPClient(cfg.Budget.Token, cfg.Budget.BudgetID, cfg.Budget.Endpoint, logger)

	var adapter *fallback.Adapter
	if cfg.AI.Enabled {
		client, err := fallback.NewGeminiClient(ctx, fallback.GeminiConfig{
			APIKey:          cfg.AI.APIKey,
			Model:           cfg.AI.Model,
			Temperature:     cfg.AI.Temperature,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
			Endpoint:        cfg.AI.Endpoint,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to configure fallback classifier: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close Gemini client")
			}
		}()
		adapter = fallback.NewAdapter(client, time.Duration(cfg.AI.TimeoutSeconds)*time.Second, logger)
	}

	var overrides *store.OverrideStore
	if cfg.Match.OverridesFile != "" {
		overrides = store.NewOverrideStore(cfg.Match.OverridesFile, logger)
		if err := overrides.Load(); err != nil {
			return fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	eng := engine.New(budget, adapter, overrides, engine.Options{
		MinConfidence: cfg.Match.MinConfidence,
		Limit:         cfg.Match.Limit,
		SinceDate:     cfg.Match.SinceDate,
		HistorySince:  cfg.Match.HistorySince,
		DryRun:        dryRun,
	}, logger)

	summary, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	report.WriteDecisions(os.Stdout, summary.Decisions)
	report.WriteSummary(os.Stdout, summary)

	if outputFile != "" && len(summary.Decisions) > 0 {
		if err := report.ExportCSV(outputFile, summary.Decisions, logger); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig loads the hierarchical configuration and merges command-line
// overrides on top, re-validating the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Match.Limit = limit
	}
	if flags.Changed("ai") {
		cfg.AI.Enabled = aiEnabled
	}
	if v, err := flags.GetString("budget"); err == nil && flags.Changed("budget") {
		cfg.Budget.BudgetID = v
	}
	if v, err := flags.GetString("since"); err == nil && flags.Changed("since") {
		cfg.Match.SinceDate = v
	}
	if v, err := flags.GetString("history-since"); err == nil && flags.Changed("history-since") {
		cfg.Match.HistorySince = v
	}
	if v, err := flags.GetFloat64("min-confidence"); err == nil && flags.Changed("min-confidence") {
		cfg.Match.MinConfidence = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
