package matcher

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/ynamazon/pkg/models"
)

func purchase(orderNumber, amount string) models.PurchaseTransaction {
	return models.PurchaseTransaction{
		OrderNumber:      orderNumber,
		TransactionTotal: decimal.RequireFromString(amount),
	}
}

func TestFindFirstExactMatchWins(t *testing.T) {
	pool := NewPool([]models.PurchaseTransaction{
		purchase("order-a", "12.34"),
		purchase("order-b", "56.78"),
		purchase("order-c", "12.34"),
	})

	idx, ok := pool.Find(decimal.RequireFromString("12.34"))
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "order-a", pool.At(idx).OrderNumber)
}

func TestFindRequiresExactAmount(t *testing.T) {
	pool := NewPool([]models.PurchaseTransaction{purchase("order-a", "10.00")})

	_, ok := pool.Find(decimal.RequireFromString("10.01"))
	assert.False(t, ok)

	_, ok = pool.Find(decimal.RequireFromString("9.99"))
	assert.False(t, ok)

	idx, ok := pool.Find(decimal.RequireFromString("10.00"))
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestFindMatchesAcrossScales(t *testing.T) {
	// 10.0 and 10.00 are the same value in different representations.
	pool := NewPool([]models.PurchaseTransaction{purchase("order-a", "10.0")})

	_, ok := pool.Find(decimal.RequireFromString("10.00"))
	assert.True(t, ok)
}

func TestFindLeavesPoolIntact(t *testing.T) {
	pool := NewPool([]models.PurchaseTransaction{
		purchase("order-a", "12.34"),
		purchase("order-b", "56.78"),
	})

	// A successful find does not consume the purchase; only an explicit
	// Remove does. Two lookups of the same amount hit the same entry.
	for i := 0; i < 2; i++ {
		idx, ok := pool.Find(decimal.RequireFromString("12.34"))
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	}
	assert.Equal(t, 2, pool.Len())
}

func TestRemoveConsumesPurchase(t *testing.T) {
	pool := NewPool([]models.PurchaseTransaction{
		purchase("order-a", "12.34"),
		purchase("order-b", "56.78"),
		purchase("order-c", "12.34"),
	})

	idx, ok := pool.Find(decimal.RequireFromString("12.34"))
	require.True(t, ok)
	pool.Remove(idx)

	assert.Equal(t, 2, pool.Len())
	idx, ok = pool.Find(decimal.RequireFromString("12.34"))
	require.True(t, ok)
	assert.Equal(t, "order-c", pool.At(idx).OrderNumber)
}

func TestFindOnEmptyPool(t *testing.T) {
	pool := NewPool(nil)
	_, ok := pool.Find(decimal.RequireFromString("1.00"))
	assert.False(t, ok)
	assert.Zero(t, pool.Len())
}
