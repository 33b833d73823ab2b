// Package session obtains the opaque credential the pricing endpoint
// expects: the ERP portal's session cookies, serialized into a single
// Cookie header value. The rest of the pipeline only sees the
// CredentialProvider interface and an opaque string.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CredentialProvider yields the opaque credential for the fetch phase.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// StaticCredential is a pre-acquired credential, useful for tests and for
// operators pasting a session cookie by hand.
type StaticCredential string

func (s StaticCredential) Credential(context.Context) (string, error) {
	return string(s), nil
}

// PortalConfig configures the logon against the ERP portal.
type PortalConfig struct {
	LoginURL      string
	Username      string
	Password      string
	UsernameField string        // form field name (default ctl00$Corpo$edtUsername)
	PasswordField string        // form field name (default ctl00$Corpo$edtPassword)
	SubmitField   string        // submit button name (default ctl00$Corpo$btnConnect)
	Timeout       time.Duration // per-request timeout (default 30s)
	Logger        *slog.Logger
}

// PortalLogin drives the portal's ASP.NET logon form: it loads the form,
// harvests the hidden state fields, posts the credentials through a cookie
// jar and serializes the resulting session cookies.
type PortalLogin struct {
	config PortalConfig
	logger *slog.Logger
}

// NewPortalLogin creates a portal login provider with the given configuration.
func NewPortalLogin(config PortalConfig) *PortalLogin {
	if config.UsernameField == "" {
		config.UsernameField = "ctl00$Corpo$edtUsername"
	}
	if config.PasswordField == "" {
		config.PasswordField = "ctl00$Corpo$edtPassword"
	}
	if config.SubmitField == "" {
		config.SubmitField = "ctl00$Corpo$btnConnect"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PortalLogin{config: config, logger: logger}
}

// Credential performs the logon and returns the session cookies formatted
// as a Cookie header value ("name=value; name=value").
func (p *PortalLogin) Credential(ctx context.Context) (string, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: p.config.Timeout}

	form, err := p.loadForm(ctx, client)
	if err != nil {
		return "", err
	}

	if _, ok := form[p.config.UsernameField]; !ok {
		return "", fmt.Errorf("login form has no field %q", p.config.UsernameField)
	}
	if _, ok := form[p.config.PasswordField]; !ok {
		return "", fmt.Errorf("login form has no field %q", p.config.PasswordField)
	}
	form[p.config.UsernameField] = []string{p.config.Username}
	form[p.config.PasswordField] = []string{p.config.Password}

	p.logger.Info("Submitting portal login", "url", p.config.LoginURL)
	if err := p.submit(ctx, client, form); err != nil {
		return "", err
	}

	loginURL, err := url.Parse(p.config.LoginURL)
	if err != nil {
		return "", fmt.Errorf("invalid login URL: %w", err)
	}

	cookies := jar.Cookies(loginURL)
	if len(cookies) == 0 {
		return "", fmt.Errorf("portal returned no session cookies")
	}

	parts := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		parts = append(parts, fmt.Sprintf("%s=%s", cookie.Name, cookie.Value))
	}
	p.logger.Info("Portal login succeeded", "cookies", len(cookies))
	return strings.Join(parts, "; "), nil
}

// loadForm fetches the logon page and collects every named input,
// including the ASP.NET hidden state fields the postback requires
// (__VIEWSTATE and friends).
func (p *PortalLogin) loadForm(ctx context.Context, client *http.Client) (url.Values, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.LoginURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create login page request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load login page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse login page: %w", err)
	}

	form := url.Values{}
	doc.Find("form input").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			return
		}
		value, _ := sel.Attr("value")
		form.Set(name, value)
	})

	if len(form) == 0 {
		return nil, fmt.Errorf("no form inputs found on login page")
	}
	return form, nil
}

func (p *PortalLogin) submit(ctx context.Context, client *http.Client, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.LoginURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}
	return nil
}
