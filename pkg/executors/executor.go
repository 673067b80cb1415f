// Package executors drives one reconciliation pass: walk the budget
// transactions waiting for a memo, match each against the purchase pool,
// and write confirmed memos back to YNAB. All prompting goes through the
// Confirmer so the flow can be exercised in tests without a terminal.
package executors

import (
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"

	"github.com/yurifrl/ynamazon/pkg/ai"
	"github.com/yurifrl/ynamazon/pkg/config"
)

// Updater is the slice of the YNAB client the executor needs.
type Updater interface {
	UpdateMemo(budgetID string, tx *transaction.Transaction, memo string, payeeID string) error
}

type Executor struct {
	logger     *log.Logger
	cfg        *config.Config
	ynab       Updater
	summarizer ai.Summarizer
	confirm    Confirmer
}

// New wires an executor. The summarizer may be nil, which disables the AI
// path entirely; the capability is decided once here, never re-probed.
func New(logger *log.Logger, cfg *config.Config, updater Updater, summarizer ai.Summarizer, confirm Confirmer) *Executor {
	return &Executor{
		logger:     logger,
		cfg:        cfg,
		ynab:       updater,
		summarizer: summarizer,
		confirm:    confirm,
	}
}
