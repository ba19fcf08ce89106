// Package engine orchestrates a categorization run: it builds the history
// index once, evaluates uncategorized transactions strictly in the order
// received, and applies the accepted decisions as one batch.
package engine

import (
	"context"
	"fmt"

	"fjacquet/ynab-autocat/internal/fallback"
	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/matcher"
	"fjacquet/ynab-autocat/internal/models"
	"fjacquet/ynab-autocat/internal/store"
	"fjacquet/ynab-autocat/internal/ynab"
)

// Options controls one categorization run.
type Options struct {
	// MinConfidence rejects historical candidates below this confidence.
	MinConfidence float64
	// Limit caps the number of accepted decisions; 0 disables the cap.
	Limit int
	// SinceDate filters the uncategorized set (ISO date, optional).
	SinceDate string
	// HistorySince filters the historical set (ISO date, optional).
	HistorySince string
	// DryRun evaluates and reports without applying updates.
	DryRun bool
}

// Summary is the outcome of one run.
type Summary struct {
	Evaluated       int
	HistoryMatched  int
	FallbackMatched int
	OverrideMatched int
	Skipped         int
	Unmatched       int
	Applied         bool
	Decisions       []models.Decision
}

// Engine wires the budget service, the matcher, and the optional fallback
// classifier and override store into one sequential run.
type Engine struct {
	budget    ynab.Client
	ai        *fallback.Adapter    // nil disables the fallback
	overrides *store.OverrideStore // nil disables overrides
	logger    logging.Logger
	opts      Options
}

// New creates an engine. The fallback adapter and the override store may be
// nil to disable those stages.
func New(budget ynab.Client, ai *fallback.Adapter, overrides *store.OverrideStore, opts Options, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{
		budget:    budget,
		ai:        ai,
		overrides: overrides,
		logger:    logger,
		opts:      opts,
	}
}

// Run performs one categorization pass. Fetch failures before matching begins
// and the final update failure are run failures; everything per-transaction
// is a silent abstain surfaced only through the log.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	groups, err := e.budget.CategoryGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	categories := models.FlattenCategoryGroups(groups)

	history, err := e.budget.Transactions(ctx, e.opts.HistorySince)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	index := matcher.BuildIndex(history, categories)
	e.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(history)},
		logging.Field{Key: "keys", Value: len(index)},
	).Info("Built history index")

	candidates, err := e.budget.UncategorizedTransactions(ctx, e.opts.SinceDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}

	summary := &Summary{}
	for _, tx := range candidates {
		if e.opts.Limit > 0 && len(summary.Decisions) >= e.opts.Limit {
			break
		}
		if tx.Deleted || tx.IsCategorized() || tx.IsTransfer() || tx.IsSplit() {
			summary.Skipped++
			continue
		}
		summary.Evaluated++

		decision, ok := e.evaluate(ctx, tx, index, categories)
		if !ok {
			summary.Unmatched++
			continue
		}

		switch decision.Source {
		case models.SourceHistory:
			summary.HistoryMatched++
		case models.SourceFallback:
			summary.FallbackMatched++
		case models.SourceOverride:
			summary.OverrideMatched++
		}
		summary.Decisions = append(summary.Decisions, decision)
	}

	if !e.opts.DryRun && len(summary.Decisions) > 0 {
		updates := make([]models.Update, 0, len(summary.Decisions))
		for _, d := range summary.Decisions {
			updates = append(updates, models.Update{
				TransactionID: d.TransactionID,
				CategoryID:    d.CategoryID,
			})
		}
		if err := e.budget.UpdateTransactions(ctx, updates); err != nil {
			return summary, fmt.Errorf("failed to apply category updates: %w", err)
		}
		summary.Applied = true
	}

	return summary, nil
}

// Evaluate decides a single transaction against an existing index and
// category snapshot. Used by the one-off probe command.
func (e *Engine) Evaluate(ctx context.Context, tx models.Transaction, index matcher.Index, categories models.CategoryMap) (models.Decision, bool) {
	return e.evaluate(ctx, tx, index, categories)
}

// BuildIndex fetches the history and builds the index without evaluating
// anything. Used by the one-off probe command.
func (e *Engine) BuildIndex(ctx context.Context) (matcher.Index, models.CategoryMap, error) {
	groups, err := e.budget.CategoryGroups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}
	categories := models.FlattenCategoryGroups(groups)

	history, err := e.budget.Transactions(ctx, e.opts.HistorySince)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	return matcher.BuildIndex(history, categories), categories, nil
}

func (e *Engine) evaluate(ctx context.Context, tx models.Transaction, index matcher.Index, categories models.CategoryMap) (models.Decision, bool) {
	log := e.logger.WithFields(
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldPayee, Value: payeeLabel(tx)},
	)

	keys := matcher.GenerateKeys(tx)

	if e.overrides != nil {
		if categoryID, ok := e.overrides.Lookup(tx.PayeeName); ok {
			if cat, found := categories[categoryID]; found && cat.Eligible() {
				log.WithField(logging.FieldCategory, cat.Name).Debug("Categorized by manual override")
				return overrideDecision(tx, cat), true
			}
			log.WithField(logging.FieldCategoryID, categoryID).Warn("Override points at an unknown or ineligible category, ignoring")
		}
	}

	if match, ok := matcher.SelectBest(index, keys, categories, e.opts.MinConfidence); ok {
		log.WithFields(
			logging.Field{Key: logging.FieldCategory, Value: match.Category.Name},
			logging.Field{Key: logging.FieldConfidence, Value: match.Confidence},
			logging.Field{Key: logging.FieldOccurrences, Value: match.Occurrences},
		).Debug("Categorized from history")
		return historyDecision(tx, match), true
	}

	if e.ai != nil {
		if match, ok := e.ai.Classify(ctx, tx, keys, index, categories); ok {
			log.WithField(logging.FieldCategory, match.Category.Name).Debug("Categorized by fallback classifier")
			return fallbackDecision(tx, match), true
		}
	}

	log.Debug("No category found")
	return models.Decision{}, false
}

func historyDecision(tx models.Transaction, match matcher.Match) models.Decision {
	confidence := match.Confidence
	return models.Decision{
		TransactionID: tx.ID,
		Payee:         payeeLabel(tx),
		Date:          tx.Date,
		Amount:        models.FormatMilliunits(tx.Amount),
		CategoryID:    match.CategoryID,
		CategoryName:  match.Category.Name,
		Source:        models.SourceHistory,
		Confidence:    &confidence,
		Occurrences:   match.Occurrences,
		Total:         match.Total,
		LastDate:      match.LastDate,
		Specificity:   match.Specificity,
	}
}

func fallbackDecision(tx models.Transaction, match fallback.Match) models.Decision {
	return models.Decision{
		TransactionID: tx.ID,
		Payee:         payeeLabel(tx),
		Date:          tx.Date,
		Amount:        models.FormatMilliunits(tx.Amount),
		CategoryID:    match.CategoryID,
		CategoryName:  match.Category.Name,
		Source:        models.SourceFallback,
		Confidence:    match.Confidence,
		Reason:        match.Reason,
	}
}

func overrideDecision(tx models.Transaction, cat models.Category) models.Decision {
	return models.Decision{
		TransactionID: tx.ID,
		Payee:         payeeLabel(tx),
		Date:          tx.Date,
		Amount:        models.FormatMilliunits(tx.Amount),
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		Source:        models.SourceOverride,
	}
}

func payeeLabel(tx models.Transaction) string {
	if tx.PayeeName != "" {
		return tx.PayeeName
	}
	if tx.ImportPayeeName != "" {
		return tx.ImportPayeeName
	}
	return tx.ImportPayeeNameOriginal
}
