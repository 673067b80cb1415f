// Package amazon retrieves purchase transactions from the Amazon
// storefront and joins them with order details into account-tagged
// purchase records. Retrieval is sequential per account and results are
// cached on disk for a short window.
package amazon

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ynamazon/pkg/config"
	"github.com/yurifrl/ynamazon/pkg/models"
)

// Retriever fetches and aggregates the purchases of a single account.
type Retriever struct {
	account      config.AmazonAccount
	years        []string
	days         int
	forceRefresh bool

	source Source
	cache  *Cache
	logger *log.Logger
}

// NewRetriever wires a retriever for one account. A nil source gets the
// default scraping client.
func NewRetriever(account config.AmazonAccount, years []string, days int, forceRefresh bool, source Source, logger *log.Logger) *Retriever {
	if source == nil {
		source = NewClient(NewSession(account.Username, account.Password, logger), logger)
	}
	return &Retriever{
		account:      account,
		years:        years,
		days:         days,
		forceRefresh: forceRefresh,
		source:       source,
		cache:        NewCache(),
		logger:       logger,
	}
}

// Purchases returns the aggregated purchase transactions of the account,
// from cache when fresh unless a refresh was forced.
func (r *Retriever) Purchases(ctx context.Context) ([]models.PurchaseTransaction, error) {
	if !r.forceRefresh {
		if purchases, ok := r.cache.Load(r.account.Name, r.years, r.days); ok {
			r.logger.Debug("using cached purchases", "account", r.account.Name, "count", len(purchases))
			return purchases, nil
		}
	}

	if err := r.source.Login(ctx); err != nil {
		return nil, fmt.Errorf("amazon login failed for %s: %w", r.account.Name, err)
	}

	orders := make(map[string]models.Order)
	for _, year := range r.years {
		yearOrders, err := r.source.OrderHistory(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s orders for %s: %w", year, r.account.Name, err)
		}
		for _, order := range yearOrders {
			orders[order.Number] = order
		}
	}

	txns, err := r.source.Transactions(ctx, r.days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for %s: %w", r.account.Name, err)
	}

	purchases := BuildPurchases(orders, txns, r.account.Name, r.logger)

	if err := r.cache.Store(r.account.Name, r.years, r.days, purchases); err != nil {
		r.logger.Warn("failed to cache purchases", "account", r.account.Name, "error", err)
	}

	return purchases, nil
}
