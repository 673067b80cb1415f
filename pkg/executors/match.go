package executors

import (
	"context"
	"fmt"

	"github.com/brunomvsouza/ynab.go/api/payee"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/ynamazon/pkg/matcher"
	"github.com/yurifrl/ynamazon/pkg/memo"
	"github.com/yurifrl/ynamazon/pkg/models"
	"github.com/yurifrl/ynamazon/pkg/ynab"
)

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

// Run walks the budget transactions in their loaded order and resolves
// each one against the purchase pool. A purchase is only consumed from the
// pool on the date-mismatch-confirmed path; this mirrors the inherited
// behaviour and is locked in by tests, see the pool asymmetry note in
// DESIGN.md.
func (e *Executor) Run(ctx context.Context, purchases []models.PurchaseTransaction, budgetTxns []*transaction.Transaction, completed *payee.Payee) ([]matcher.Outcome, error) {
	pool := matcher.NewPool(purchases)
	opts := memo.Options{
		Markdown:                    e.cfg.YNAB.UseMarkdown,
		MultiAccount:                len(e.cfg.Accounts) > 1,
		SuppressPartialOrderWarning: e.cfg.SuppressPartialOrderWarning,
	}

	outcomes := make([]matcher.Outcome, 0, len(budgetTxns))
	for _, ytxn := range budgetTxns {
		amount := ynab.AmountDecimal(ytxn)
		fmt.Println(infoStyle.Render(fmt.Sprintf(
			"Looking for an Amazon transaction matching this YNAB transaction: %s $%s",
			ytxn.Date.Format("2006-01-02"), amount.Neg().StringFixed(2),
		)))

		idx, ok := pool.Find(amount.Neg())
		if !ok {
			fmt.Println(skipStyle.Render("**** Could not find a matching Amazon transaction!"))
			outcomes = append(outcomes, matcher.Outcome{TransactionID: ytxn.ID, Status: matcher.NoMatch})
			continue
		}

		purchase := pool.At(idx)
		fmt.Println(matchStyle.Render(fmt.Sprintf(
			"Matching Amazon transaction (%s): %s $%s",
			purchase.AccountName, purchase.Date(), purchase.TransactionTotal.StringFixed(2),
		)))

		composed := memo.Compose(purchase, opts)
		fmt.Println("Memo:")
		fmt.Println(composed)

		processed, err := memo.Process(ctx, composed, e.summarizer, opts, e.logger)
		if err != nil {
			return outcomes, fmt.Errorf("failed to process memo for order %s: %w", purchase.OrderNumber, err)
		}
		fmt.Println("Processed memo:")
		fmt.Println(processed)

		if !purchase.SameDay(ytxn.Date.Time) {
			fmt.Println(skipStyle.Render(fmt.Sprintf(
				"**** The dates don't match! YNAB: %s Amazon: %s",
				ytxn.Date.Format("2006-01-02"), purchase.Date(),
			)))
			if !e.confirm.Confirm("Continue matching this transaction anyway?") {
				fmt.Println(skipStyle.Render("Skipping this transaction..."))
				outcomes = append(outcomes, matcher.Outcome{TransactionID: ytxn.ID, Status: matcher.SkippedDateMismatch, OrderNumber: purchase.OrderNumber})
				continue
			}
			pool.Remove(idx)
			e.logger.Info("removing matched transaction from search", "order_number", purchase.OrderNumber)
		}

		if !e.confirm.Confirm("Update YNAB transaction memo?") {
			fmt.Println(skipStyle.Render("Skipping YNAB transaction update..."))
			fmt.Println("Memo preview:")
			fmt.Println(processed)
			outcomes = append(outcomes, matcher.Outcome{TransactionID: ytxn.ID, Status: matcher.PreviewOnly, OrderNumber: purchase.OrderNumber, Memo: processed})
			continue
		}

		fmt.Println(matchStyle.Render("Updating YNAB transaction memo..."))
		if err := e.ynab.UpdateMemo(e.cfg.YNAB.BudgetID, ytxn, processed, completed.ID); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, matcher.Outcome{TransactionID: ytxn.ID, Status: matcher.Updated, OrderNumber: purchase.OrderNumber, Memo: processed})
	}

	return outcomes, nil
}
