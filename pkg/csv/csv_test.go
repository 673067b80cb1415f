package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	date   string
	payee  string
	memo   string
	amount float64
}

func (r row) Date() string    { return r.date }
func (r row) Payee() string   { return r.payee }
func (r row) Memo() string    { return r.memo }
func (r row) Amount() float64 { return r.amount }

func TestCreate(t *testing.T) {
	records := []row{
		{date: "2025/03/17", payee: "Account 1", memo: "Coffee Beans", amount: 42.5},
		{date: "2025/03/18", payee: "Account 2", memo: "Sponges | Detergent, 2-pack", amount: 9.99},
	}

	out := string(Create(records, nil))
	want := "Date,Payee,Memo,Amount\n" +
		"2025/03/17,Account 1,Coffee Beans,42.50\n" +
		"2025/03/18,Account 2,\"Sponges | Detergent, 2-pack\",9.99\n"
	assert.Equal(t, want, out)
}

func TestCreateWithFilter(t *testing.T) {
	records := []row{
		{date: "2025/03/17", payee: "Account 1", amount: 42.5},
		{date: "2025/03/18", payee: "Account 2", amount: 9.99},
	}

	out := string(Create(records, func(r row) bool { return r.payee == "Account 2" }))
	assert.NotContains(t, out, "Account 1")
	assert.Contains(t, out, "Account 2")
}

func TestCreateEmpty(t *testing.T) {
	out := string(Create[row](nil, nil))
	assert.Equal(t, "Date,Payee,Memo,Amount\n", out)
}
