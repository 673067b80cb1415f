// Package ynab wraps the YNAB API client with the two operations the
// reconciler needs: listing the transactions parked on the "needs memo"
// payee, and writing a memo back while moving the transaction to the
// completed payee.
package ynab

import (
	"errors"
	"fmt"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api/payee"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/shopspring/decimal"
)

// ErrSetup signals that the budget is not prepared for reconciliation:
// either the required payees do not exist, or no transaction is waiting to
// be processed. Callers treat it as a clean early exit, not a failure.
var ErrSetup = errors.New("ynab budget is not set up for memo processing")

// Client wraps the upstream YNAB client.
type Client struct {
	client ynab.ClientServicer
}

func New(token string) *Client {
	return &Client{client: ynab.NewClient(token)}
}

// TransactionsNeedingMemo returns the budget transactions assigned to the
// to-be-processed payee, preserving the API ordering (oldest loaded first),
// together with the completed payee used when writing back.
func (c *Client) TransactionsNeedingMemo(budgetID, toProcessName, completedName string) ([]*transaction.Transaction, *payee.Payee, error) {
	snapshot, err := c.client.Payee().GetPayees(budgetID, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payees: %w", err)
	}

	all, err := c.client.Transaction().GetTransactions(budgetID, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return selectCandidates(snapshot.Payees, all, toProcessName, completedName)
}

// selectCandidates resolves both payees and keeps the transactions parked
// on the to-be-processed one.
func selectCandidates(payees []*payee.Payee, all []*transaction.Transaction, toProcessName, completedName string) ([]*transaction.Transaction, *payee.Payee, error) {
	toProcess := findPayee(payees, toProcessName)
	completed := findPayee(payees, completedName)
	if toProcess == nil || completed == nil {
		return nil, nil, fmt.Errorf("payees %q and %q must both exist in the budget: %w", toProcessName, completedName, ErrSetup)
	}

	var candidates []*transaction.Transaction
	for _, tx := range all {
		if tx.Deleted || tx.PayeeID == nil {
			continue
		}
		if *tx.PayeeID == toProcess.ID {
			candidates = append(candidates, tx)
		}
	}
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("no transactions assigned to payee %q: %w", toProcessName, ErrSetup)
	}

	return candidates, completed, nil
}

// UpdateMemo rewrites a single transaction with the given memo and payee.
// Every other field is carried over untouched.
func (c *Client) UpdateMemo(budgetID string, tx *transaction.Transaction, memo string, payeeID string) error {
	payload := transaction.PayloadTransaction{
		AccountID:  tx.AccountID,
		Date:       tx.Date,
		Amount:     tx.Amount,
		Cleared:    tx.Cleared,
		Approved:   tx.Approved,
		PayeeID:    &payeeID,
		CategoryID: tx.CategoryID,
		Memo:       &memo,
		FlagColor:  tx.FlagColor,
		ImportID:   tx.ImportID,
	}

	if _, err := c.client.Transaction().UpdateTransaction(budgetID, tx.ID, payload); err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", tx.ID, err)
	}
	return nil
}

func findPayee(payees []*payee.Payee, name string) *payee.Payee {
	for _, p := range payees {
		if !p.Deleted && p.Name == name {
			return p
		}
	}
	return nil
}

// AmountDecimal converts a YNAB milliunit amount into dollars. Expenses
// stay negative, the way the API reports them.
func AmountDecimal(tx *transaction.Transaction) decimal.Decimal {
	return decimal.New(tx.Amount, -3)
}
