package amazon

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/yurifrl/ynamazon/pkg/models"
)

// Source is the purchase-side collaborator contract: authenticate once,
// then list orders per year and charge events per trailing window.
type Source interface {
	Login(ctx context.Context) error
	OrderHistory(ctx context.Context, year string) ([]models.Order, error)
	Transactions(ctx context.Context, days int) ([]models.OrderTransaction, error)
}

var (
	orderNumberRe = regexp.MustCompile(`\d{3}-\d{7}-\d{7}`)
	amountRe      = regexp.MustCompile(`-?\$[\d,]+\.\d{2}`)
)

var dateLayouts = []string{"January 2, 2006", "Jan 2, 2006", "2 January 2006"}

// Client scrapes the order history and transactions pages of one account.
type Client struct {
	session *Session
	logger  *log.Logger
}

func NewClient(session *Session, logger *log.Logger) *Client {
	return &Client{session: session, logger: logger}
}

func (c *Client) Login(ctx context.Context) error {
	return c.session.Login(ctx)
}

// OrderHistory pages through one year of orders. Orders come back sorted
// by placed date ascending.
func (c *Client) OrderHistory(ctx context.Context, year string) ([]models.Order, error) {
	if !c.session.Authenticated() {
		return nil, fmt.Errorf("session must be authenticated")
	}

	var orders []models.Order
	for start := 0; start < 1000; start += 10 {
		pageURL := fmt.Sprintf("%s/gp/css/order-history?timeFilter=year-%s&startIndex=%d", c.session.baseURL, year, start)
		doc, err := c.session.fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch order history: %w", err)
		}

		cards := findAllByClass(doc, "order-card")
		if len(cards) == 0 {
			break
		}
		for _, card := range cards {
			if order, ok := c.parseOrderCard(card); ok {
				orders = append(orders, order)
			}
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedDate.Before(orders[j].PlacedDate)
	})

	c.logger.Debug("order history retrieved", "year", year, "orders", len(orders))
	return orders, nil
}

func (c *Client) parseOrderCard(card *html.Node) (models.Order, bool) {
	text := textContent(card)

	number := orderNumberRe.FindString(text)
	if number == "" {
		return models.Order{}, false
	}

	order := models.Order{
		Number:      number,
		DetailsLink: fmt.Sprintf("%s/gp/your-account/order-details?orderID=%s", c.session.baseURL, number),
	}

	if totals := findAllByClass(card, "yohtmlc-order-total"); len(totals) > 0 {
		if total, ok := parseMoney(amountRe.FindString(textContent(totals[0]))); ok {
			order.GrandTotal = total.Abs()
		}
	} else if m := amountRe.FindString(text); m != "" {
		if total, ok := parseMoney(m); ok {
			order.GrandTotal = total.Abs()
		}
	}

	order.PlacedDate = firstDate(text)

	for _, title := range findAllByClass(card, "yohtmlc-product-title") {
		item := models.Item{
			Title:    textContent(title),
			Quantity: 1,
		}
		if link := attr(title, "href"); link != "" {
			item.Link = c.session.baseURL + link
		} else if parent := title.Parent; parent != nil && parent.Data == "a" {
			item.Link = c.session.baseURL + attr(parent, "href")
		}
		order.Items = append(order.Items, item)
	}

	return order, true
}

// Transactions scrapes the charge events of the trailing window. Rows are
// grouped under date headers on the page; both are visited in document
// order. Results come back sorted by completed date ascending.
func (c *Client) Transactions(ctx context.Context, days int) ([]models.OrderTransaction, error) {
	if !c.session.Authenticated() {
		return nil, fmt.Errorf("session must be authenticated")
	}

	doc, err := c.session.fetch(ctx, c.session.baseURL+"/cpe/yourpayments/transactions")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var txns []models.OrderTransaction
	var current time.Time
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case hasClass(n, "apx-transaction-date-container"):
			if d := firstDate(textContent(n)); !d.IsZero() {
				current = d
			}
		case hasClass(n, "apx-transactions-line-item-component-container"):
			if current.IsZero() || current.Before(cutoff) {
				return
			}
			text := textContent(n)
			number := orderNumberRe.FindString(text)
			amount, ok := parseMoney(amountRe.FindString(text))
			if number == "" || !ok {
				return
			}
			txns = append(txns, models.OrderTransaction{
				CompletedDate: current,
				GrandTotal:    amount,
				OrderNumber:   number,
			})
		}
	})

	sort.Slice(txns, func(i, j int) bool {
		return txns[i].CompletedDate.Before(txns[j].CompletedDate)
	})

	c.logger.Debug("transactions retrieved", "days", days, "transactions", len(txns))
	return txns, nil
}

// firstDate scans text for the first parsable date in the layouts the
// storefront uses.
func firstDate(text string) time.Time {
	words := regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4}`).FindString(text)
	if words != "" {
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, words); err == nil {
				return d
			}
		}
	}
	return time.Time{}
}
