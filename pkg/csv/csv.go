package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"fmt"
)

// Record is the minimal surface a transaction-like type needs for export.
type Record interface {
	Date() string
	Payee() string
	Memo() string
	Amount() float64
}

type FilterFunc[T Record] func(T) bool

// Create renders records as CSV. Memos carry item titles with commas in
// them, so fields go through encoding/csv for quoting.
func Create[T Record](records []T, filter FilterFunc[T]) []byte {
	var buf bytes.Buffer
	w := stdcsv.NewWriter(&buf)

	_ = w.Write([]string{"Date", "Payee", "Memo", "Amount"})
	for _, r := range records {
		if filter == nil || filter(r) {
			_ = w.Write([]string{
				r.Date(),
				r.Payee(),
				r.Memo(),
				fmt.Sprintf("%.2f", r.Amount()),
			})
		}
	}
	w.Flush()
	return buf.Bytes()
}
