package memo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yurifrl/ynamazon/pkg/models"
)

func testPurchase(items ...models.Item) models.PurchaseTransaction {
	return models.PurchaseTransaction{
		CompletedDate:    time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		TransactionTotal: decimal.RequireFromString("42.50"),
		OrderTotal:       decimal.RequireFromString("42.50"),
		OrderNumber:      "113-1234567-1234567",
		OrderLink:        testOrderURL,
		Items:            items,
		AccountName:      "Account 2",
	}
}

func TestComposePlainMultipleItems(t *testing.T) {
	p := testPurchase(
		models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"},
		models.Item{Title: "Filters", Link: "https://www.amazon.com/dp/B000FILTER"},
	)

	out := Compose(p, Options{})
	want := "Items\n" +
		"1. Coffee Beans (https://www.amazon.com/dp/B000COFFEE)\n" +
		"2. Filters (https://www.amazon.com/dp/B000FILTER)\n" +
		"\nOrder #113-1234567-1234567\n" + testOrderURL
	assert.Equal(t, want, out)
}

func TestComposeMarkdownMultipleItems(t *testing.T) {
	p := testPurchase(
		models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"},
		models.Item{Title: "Filters", Link: "https://www.amazon.com/dp/B000FILTER"},
	)

	out := Compose(p, Options{Markdown: true})
	want := "**Items**\n" +
		"1. [Coffee Beans](https://www.amazon.com/dp/B000COFFEE)\n" +
		"2. [Filters](https://www.amazon.com/dp/B000FILTER)\n" +
		"\n[Order #113-1234567-1234567](" + testOrderURL + ")"
	assert.Equal(t, want, out)
}

func TestComposeSingleItemUsesBullet(t *testing.T) {
	p := testPurchase(models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"})

	out := Compose(p, Options{})
	assert.Contains(t, out, "- Coffee Beans (https://www.amazon.com/dp/B000COFFEE)")
	assert.NotContains(t, out, "Items\n")
}

func TestComposePartialOrderWarning(t *testing.T) {
	p := testPurchase(models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"})
	p.OrderTotal = decimal.RequireFromString("99.99")

	out := Compose(p, Options{})
	assert.Contains(t, out, "-This transaction doesn't represent the entire order. The order total is $99.99-")
}

func TestComposeSuppressedWarning(t *testing.T) {
	p := testPurchase(models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"})
	p.OrderTotal = decimal.RequireFromString("99.99")

	out := Compose(p, Options{SuppressPartialOrderWarning: true})
	assert.NotContains(t, out, "-This transaction")
}

func TestComposeEqualTotalsHaveNoWarning(t *testing.T) {
	p := testPurchase(models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"})
	out := Compose(p, Options{})
	assert.NotContains(t, out, "-This transaction")
}

func TestComposeMultiAccountPrefix(t *testing.T) {
	p := testPurchase(models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"})

	out := Compose(p, Options{MultiAccount: true})
	assert.True(t, len(out) > 0 && out[0] == '[')
	assert.Contains(t, out, "[Account 2]\n")

	out = Compose(p, Options{})
	assert.NotContains(t, out, "[Account 2]")
}

func TestComposeNoItems(t *testing.T) {
	p := testPurchase()
	out := Compose(p, Options{})
	assert.Equal(t, "\nOrder #113-1234567-1234567\n"+testOrderURL, out)
}

func TestComposedMemoRoundTripsThroughExtract(t *testing.T) {
	p := testPurchase(
		models.Item{Title: "Coffee Beans", Link: "https://www.amazon.com/dp/B000COFFEE"},
		models.Item{Title: "Filters", Link: "https://www.amazon.com/dp/B000FILTER"},
	)

	for _, markdown := range []bool{false, true} {
		url, ok := ExtractOrderURL(Compose(p, Options{Markdown: markdown}))
		assert.True(t, ok)
		assert.Equal(t, testOrderURL, url)
	}
}
