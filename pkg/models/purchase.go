package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single line item of an Amazon order. It is only used for
// display and memo composition, never for matching.
type Item struct {
	Title    string `yaml:"title"`
	Link     string `yaml:"link"`
	Quantity int    `yaml:"quantity"`
}

// Order is a raw order record scraped from the Amazon order history. One
// order may be charged through several transactions.
type Order struct {
	Number      string          `yaml:"number"`
	PlacedDate  time.Time       `yaml:"placed_date"`
	GrandTotal  decimal.Decimal `yaml:"grand_total"`
	DetailsLink string          `yaml:"details_link"`
	Items       []Item          `yaml:"items"`
}

// OrderTransaction is a raw charge event scraped from the Amazon
// transactions page. The grand total is signed the way Amazon reports it,
// with debits negative.
type OrderTransaction struct {
	CompletedDate time.Time       `yaml:"completed_date"`
	GrandTotal    decimal.Decimal `yaml:"grand_total"`
	OrderNumber   string          `yaml:"order_number"`
}

// PurchaseTransaction is a charge event joined with its order details and
// tagged with the account it came from. TransactionTotal is stored as a
// positive charge amount; it can legitimately differ from OrderTotal when
// the order was split across multiple charges.
type PurchaseTransaction struct {
	CompletedDate    time.Time       `yaml:"completed_date"`
	TransactionTotal decimal.Decimal `yaml:"transaction_total"`
	OrderTotal       decimal.Decimal `yaml:"order_total"`
	OrderNumber      string          `yaml:"order_number"`
	OrderLink        string          `yaml:"order_link"`
	Items            []Item          `yaml:"items"`
	AccountName      string          `yaml:"account_name"`
}

// DefaultAccountName is stamped on purchases when no account name is
// configured, which keeps single-account setups working unchanged.
const DefaultAccountName = "Account 1"

func (p PurchaseTransaction) Date() string {
	return p.CompletedDate.Format("2006/01/02")
}

func (p PurchaseTransaction) Payee() string {
	return p.AccountName
}

// Memo renders a short item summary for tabular or CSV output.
func (p PurchaseTransaction) Memo() string {
	titles := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		titles = append(titles, TruncateTitle(item.Title, 20))
	}
	return strings.Join(titles, " | ")
}

func (p PurchaseTransaction) Amount() float64 {
	return p.TransactionTotal.InexactFloat64()
}

// SameDay reports whether the purchase completed on the given calendar day.
func (p PurchaseTransaction) SameDay(t time.Time) bool {
	y1, m1, d1 := p.CompletedDate.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TruncateTitle shortens a title for display purposes only.
func TruncateTitle(title string, max int) string {
	if len(title) > max {
		return title[:max-3] + "..."
	}
	return title
}
