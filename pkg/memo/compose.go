package memo

import (
	"fmt"

	"github.com/yurifrl/ynamazon/pkg/models"
)

// Options selects how memos are rendered and post-processed.
type Options struct {
	// Markdown renders item titles and the order line as markdown links.
	Markdown bool
	// MultiAccount prepends the "[Account N]" tag so memos stay
	// attributable when several Amazon accounts feed the same budget.
	MultiAccount bool
	// SuppressPartialOrderWarning drops the partial-order warning line.
	SuppressPartialOrderWarning bool
}

// Compose builds the descriptive memo for one matched purchase. The result
// is not yet length-bounded; Process takes care of fitting it.
func Compose(p models.PurchaseTransaction, opts Options) string {
	b := NewBuilder()

	if opts.MultiAccount {
		b.Appendf("[%s]", p.AccountName)
	}

	if !p.TransactionTotal.Equal(p.OrderTotal) && !opts.SuppressPartialOrderWarning {
		b.Appendf("-This transaction doesn't represent the entire order. The order total is $%s-", p.OrderTotal.StringFixed(2))
	}

	switch {
	case len(p.Items) > 1:
		if opts.Markdown {
			b.Append("**Items**")
		} else {
			b.Append("Items")
		}
		for i, item := range p.Items {
			b.Appendf("%d. %s", i+1, formatTitle(item, opts.Markdown))
		}
	case len(p.Items) == 1:
		b.Appendf("- %s", formatTitle(p.Items[0], opts.Markdown))
	}

	if opts.Markdown {
		b.Appendf("\n[Order #%s](%s)", p.OrderNumber, p.OrderLink)
	} else {
		b.Appendf("\nOrder #%s\n%s", p.OrderNumber, p.OrderLink)
	}

	return b.String()
}

func formatTitle(item models.Item, markdown bool) string {
	if markdown {
		return fmt.Sprintf("[%s](%s)", item.Title, item.Link)
	}
	return fmt.Sprintf("%s (%s)", item.Title, item.Link)
}
