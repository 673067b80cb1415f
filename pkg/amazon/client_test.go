package amazon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSession("user@example.com", "secret", log.New(io.Discard))
	s.baseURL = srv.URL
	return s
}

func orderHistoryPage(withCard bool) string {
	if !withCard {
		return "<html><body></body></html>"
	}
	return `<html><body>
		<div class="order-card">
			<span>Order placed March 17, 2025</span>
			<div class="yohtmlc-order-total"><span>$42.50</span></div>
			<span>Order # 113-1234567-1234567</span>
			<a href="/dp/B000COFFEE"><span class="yohtmlc-product-title">Coffee Beans</span></a>
			<a href="/dp/B000FILTER"><span class="yohtmlc-product-title">Filters</span></a>
		</div>
	</body></html>`
}

func TestOrderHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gp/css/order-history", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, orderHistoryPage(r.URL.Query().Get("startIndex") == "0"))
	})

	session := testSession(t, mux)
	session.authenticated = true
	client := NewClient(session, log.New(io.Discard))

	orders, err := client.OrderHistory(context.Background(), "2025")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "113-1234567-1234567", order.Number)
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "2025-03-17", order.PlacedDate.Format("2006-01-02"))
	assert.Equal(t, session.baseURL+"/gp/your-account/order-details?orderID=113-1234567-1234567", order.DetailsLink)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Coffee Beans", order.Items[0].Title)
	assert.Equal(t, session.baseURL+"/dp/B000COFFEE", order.Items[0].Link)
	assert.Equal(t, "Filters", order.Items[1].Title)
}

func TestOrderHistoryRequiresAuth(t *testing.T) {
	session := testSession(t, http.NotFoundHandler())
	client := NewClient(session, log.New(io.Discard))

	_, err := client.OrderHistory(context.Background(), "2025")
	assert.Error(t, err)
}

func TestTransactionsFiltersByWindow(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -1).Format("January 2, 2006")
	old := time.Now().AddDate(0, 0, -100).Format("January 2, 2006")

	page := fmt.Sprintf(`<html><body>
		<div class="apx-transaction-date-container"><span>%s</span></div>
		<div class="apx-transactions-line-item-component-container">
			<a>Order #113-1234567-1234567</a><span>-$42.50</span>
		</div>
		<div class="apx-transaction-date-container"><span>%s</span></div>
		<div class="apx-transactions-line-item-component-container">
			<a>Order #113-0000000-0000000</a><span>-$10.00</span>
		</div>
	</body></html>`, recent, old)

	mux := http.NewServeMux()
	mux.HandleFunc("/cpe/yourpayments/transactions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, page)
	})

	session := testSession(t, mux)
	session.authenticated = true
	client := NewClient(session, log.New(io.Discard))

	txns, err := client.Transactions(context.Background(), 31)
	require.NoError(t, err)
	require.Len(t, txns, 1, "charges older than the window are dropped")

	assert.Equal(t, "113-1234567-1234567", txns[0].OrderNumber)
	assert.True(t, txns[0].GrandTotal.Equal(decimal.RequireFromString("-42.50")), "debits keep their sign")
	assert.Equal(t, recent, txns[0].CompletedDate.Format("January 2, 2006"))
}

func TestLogin(t *testing.T) {
	var posted map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/gp/sign-in.html", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body>
			<form name="signIn" action="/ap/signin">
				<input type="hidden" name="appActionToken" value="tok123">
				<input type="text" name="email">
				<input type="password" name="password">
			</form>
		</body></html>`)
	})
	mux.HandleFunc("/ap/signin", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		posted = r.PostForm
		io.WriteString(w, `<html><body><span id="nav-link-accountList">Hello, user</span></body></html>`)
	})

	session := testSession(t, mux)
	require.NoError(t, session.Login(context.Background()))
	assert.True(t, session.Authenticated())

	assert.Equal(t, "user@example.com", posted["email"][0])
	assert.Equal(t, "secret", posted["password"][0])
	assert.Equal(t, "tok123", posted["appActionToken"][0], "hidden tokens must be carried into the submission")
}

func TestLoginFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gp/sign-in.html", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><form name="signIn" action="/ap/signin"></form></body></html>`)
	})
	mux.HandleFunc("/ap/signin", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><div id="auth-error-message-box">Your password is incorrect</div></body></html>`)
	})

	session := testSession(t, mux)
	err := session.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your password is incorrect")
	assert.False(t, session.Authenticated())
}
