// Package match implements a one-off probe: categorize a single described
// transaction against the budget's history without applying anything.
package match

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/ynab-autocat/internal/config"
	"fjacquet/ynab-autocat/internal/engine"
	"fjacquet/ynab-autocat/internal/fallback"
	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/models"
	"fjacquet/ynab-autocat/internal/report"
	"fjacquet/ynab-autocat/internal/ynab"
)

var (
	payeeName  string
	payeeID    string
	importName string
	accountID  string
	amount     int64
	date       string
	memo       string
	aiEnabled  bool
)

// Cmd represents the match command
var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Probe the matcher with a single described transaction",
	Long: `Build the history index and report which category the matcher would assign
to a hand-described transaction. Nothing is applied to the budget.`,
	RunE: matchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&payeeName, "payee", "p", "", "Display payee name")
	Cmd.Flags().StringVar(&payeeID, "payee-id", "", "Payee identifier")
	Cmd.Flags().StringVar(&importName, "import-name", "", "Imported payee text")
	Cmd.Flags().StringVar(&accountID, "account", "", "Account identifier")
	Cmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount in milliunits (negative for outflow)")
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Transaction date (YYYY-MM-DD)")
	Cmd.Flags().StringVarP(&memo, "memo", "m", "", "Memo text")
	Cmd.Flags().BoolVar(&aiEnabled, "ai", false, "Enable the Gemini fallback classifier")
}

func matchFunc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if payeeName == "" && payeeID == "" && importName == "" {
		return fmt.Errorf("at least one of --payee, --payee-id or --import-name is required")
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

	eng := engine.New(budget, adapter, nil, engine.Options{
		MinConfidence: cfg.Match.MinConfidence,
		HistorySince:  cfg.Match.HistorySince,
		DryRun:        true,
	}, logger)

	index, categories, err := eng.BuildIndex(ctx)
	if err != nil {
		return err
	}

	tx := models.Transaction{
		ID:              "probe",
		Date:            date,
		Amount:          amount,
		Memo:            memo,
		PayeeID:         payeeID,
		PayeeName:       payeeName,
		ImportPayeeName: importName,
		AccountID:       accountID,
	}

	decision, ok := eng.Evaluate(ctx, tx, index, categories)
	if !ok {
		fmt.Println("No category found.")
		return nil
	}

	report.WriteDecisions(os.Stdout, []models.Decision{decision})
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ai") {
		cfg.AI.Enabled = aiEnabled
	}
	if v, err := flags.GetString("budget"); err == nil && flags.Changed("budget") {
		cfg.Budget.BudgetID = v
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
