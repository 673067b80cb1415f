// Package matcher pairs budget transactions with Amazon purchases by
// amount. It is intentionally isolated from any prompting or YNAB I/O so
// the per-transaction state machine stays pure and unit-testable.
package matcher

import (
	"github.com/shopspring/decimal"

	"github.com/yurifrl/ynamazon/pkg/models"
)

// Status records how a single budget transaction fared.
//
//   - NoMatch: no purchase with the exact amount exists in the pool.
//   - SkippedDateMismatch: a purchase matched but the operator declined the
//     date-mismatch confirmation; the pool is left untouched.
//   - PreviewOnly: matched, but the operator declined the write; the memo
//     was printed for inspection.
//   - Updated: matched and written back to YNAB.
type Status int

const (
	NoMatch Status = iota
	SkippedDateMismatch
	PreviewOnly
	Updated
)

// Outcome is the tagged result for one budget transaction.
type Outcome struct {
	TransactionID string
	Status        Status
	OrderNumber   string
	Memo          string
}

// Pool holds the purchase transactions still available for matching.
// Purchases keep the order they were loaded in; matching always returns
// the first exact hit.
type Pool struct {
	purchases []models.PurchaseTransaction
}

func NewPool(purchases []models.PurchaseTransaction) *Pool {
	return &Pool{purchases: purchases}
}

// Find scans the pool in list order and returns the index of the first
// purchase whose transaction total equals the amount exactly. There is no
// tolerance and no ranking: first exact match wins.
func (p *Pool) Find(amount decimal.Decimal) (int, bool) {
	for i, purchase := range p.purchases {
		if purchase.TransactionTotal.Equal(amount) {
			return i, true
		}
	}
	return 0, false
}

func (p *Pool) At(i int) models.PurchaseTransaction {
	return p.purchases[i]
}

// Remove consumes a purchase so it cannot satisfy another budget
// transaction. Only the date-mismatch-confirmed path calls this; a plain
// confirmed match leaves the pool untouched.
func (p *Pool) Remove(i int) {
	p.purchases = append(p.purchases[:i], p.purchases[i+1:]...)
}

func (p *Pool) Len() int {
	return len(p.purchases)
}
