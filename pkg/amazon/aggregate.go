package amazon

import (
	"github.com/charmbracelet/log"

	"github.com/yurifrl/ynamazon/pkg/models"
)

// BuildPurchases joins raw charge events with their orders. A charge whose
// order number is not in the index is dropped and logged, not failed:
// the transaction window routinely extends past the retrieved order
// history. The raw grand total arrives negative for debits and is negated
// so the purchase reads as a positive charge amount.
func BuildPurchases(orders map[string]models.Order, txns []models.OrderTransaction, accountName string, logger *log.Logger) []models.PurchaseTransaction {
	if accountName == "" {
		accountName = models.DefaultAccountName
	}

	purchases := make([]models.PurchaseTransaction, 0, len(txns))
	for _, txn := range txns {
		order, ok := orders[txn.OrderNumber]
		if !ok {
			logger.Debug("transaction not found in retrieved orders", "order_number", txn.OrderNumber)
			continue
		}
		purchases = append(purchases, models.PurchaseTransaction{
			CompletedDate:    txn.CompletedDate,
			TransactionTotal: txn.GrandTotal.Neg(),
			OrderTotal:       order.GrandTotal,
			OrderNumber:      order.Number,
			OrderLink:        order.DetailsLink,
			Items:            order.Items,
			AccountName:      accountName,
		})
	}

	return purchases
}
