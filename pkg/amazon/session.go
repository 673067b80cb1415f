package amazon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
)

const defaultBaseURL = "https://www.amazon.com"

// Session owns the authenticated HTTP state against the Amazon storefront.
// Scraping is best effort by nature: Amazon may answer with partial data,
// interstitials, or challenges, and callers are expected to cope with
// empty results.
type Session struct {
	username string
	password string
	baseURL  string

	client        *http.Client
	authenticated bool
	logger        *log.Logger
}

func NewSession(username, password string, logger *log.Logger) *Session {
	jar, _ := cookiejar.New(nil)
	return &Session{
		username: username,
		password: password,
		baseURL:  defaultBaseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Login walks the sign-in form: fetch it, carry over every hidden field,
// fill in the credentials, and submit. The session is only marked
// authenticated when the landing page shows a signed-in marker.
func (s *Session) Login(ctx context.Context) error {
	doc, err := s.fetch(ctx, s.baseURL+"/gp/sign-in.html")
	if err != nil {
		return fmt.Errorf("failed to load sign-in page: %w", err)
	}

	form := findForm(doc, "signIn")
	if form == nil {
		return fmt.Errorf("sign-in form not found")
	}

	values := hiddenInputs(form)
	values.Set("email", s.username)
	values.Set("password", s.password)

	action := attr(form, "action")
	if action == "" {
		action = s.baseURL + "/ap/signin"
	} else if strings.HasPrefix(action, "/") {
		action = s.baseURL + action
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	landing, err := html.Parse(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse sign-in response: %w", err)
	}

	if node := findByID(landing, "auth-error-message-box"); node != nil {
		return fmt.Errorf("authentication failed: %s", strings.TrimSpace(textContent(node)))
	}
	if !strings.Contains(textContent(landing), "Sign Out") && findByID(landing, "nav-link-accountList") == nil {
		return fmt.Errorf("authentication failed: no signed-in marker on landing page")
	}

	s.authenticated = true
	s.logger.Debug("amazon session authenticated", "user", s.username)
	return nil
}

func (s *Session) Authenticated() bool {
	return s.authenticated
}

// fetch GETs a page and parses it. Non-2xx answers are errors; the caller
// decides whether that aborts or degrades.
func (s *Session) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) ynamazon")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	return html.Parse(resp.Body)
}

// hiddenInputs collects the pre-filled hidden fields of a form so the
// submission carries the session tokens Amazon expects.
func hiddenInputs(form *html.Node) url.Values {
	values := url.Values{}
	walk(form, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" && attr(n, "type") == "hidden" {
			if name := attr(n, "name"); name != "" {
				values.Set(name, attr(n, "value"))
			}
		}
	})
	return values
}
