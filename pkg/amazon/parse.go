package amazon

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

// Small helpers over x/net/html. The storefront markup changes without
// notice, so everything here is lenient: not finding something yields a
// zero value, never an error.

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findForm(doc *html.Node, name string) *html.Node {
	var form *html.Node
	walk(doc, func(n *html.Node) {
		if form == nil && n.Type == html.ElementNode && n.Data == "form" && attr(n, "name") == name {
			form = n
		}
	})
	return form
}

func findByID(doc *html.Node, id string) *html.Node {
	var found *html.Node
	walk(doc, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
		}
	})
	return found
}

func findAllByClass(doc *html.Node, class string) []*html.Node {
	var nodes []*html.Node
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// parseMoney reads amounts like "$1,234.56" or "-$12.34". The boolean is
// false when the text holds no parsable amount.
func parseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
