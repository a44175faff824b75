package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

// Session is an authenticated MediaWiki session: a cookie jar established by
// the bot-password login flow plus the CSRF token edits must carry.
type Session struct {
	apiURL    string
	http      *http.Client
	csrfToken string
}

// Login performs the two-step bot login (fetch login token, then post
// credentials) and retrieves a CSRF token for subsequent edits. The supplied
// client's cookie jar is replaced so the session cookies stick.
func Login(ctx context.Context, apiURL, user, password string, hc *http.Client) (*Session, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	hc.Jar = jar

	s := &Session{apiURL: apiURL, http: hc}

	loginToken, err := s.fetchToken(ctx, "login")
	if err != nil {
		return nil, fmt.Errorf("fetching login token: %w", err)
	}

	form := url.Values{}
	form.Set("action", "login")
	form.Set("lgname", user)
	form.Set("lgpassword", password)
	form.Set("lgtoken", loginToken)
	form.Set("format", "json")

	var loginResp struct {
		Login struct {
			Result string `json:"result"`
			Reason string `json:"reason,omitempty"`
		} `json:"login"`
	}
	if err := s.post(ctx, form, &loginResp); err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if loginResp.Login.Result != "Success" {
		return nil, fmt.Errorf("login failed for %q: %s %s", user, loginResp.Login.Result, loginResp.Login.Reason)
	}

	s.csrfToken, err = s.fetchToken(ctx, "csrf")
	if err != nil {
		return nil, fmt.Errorf("fetching csrf token: %w", err)
	}
	return s, nil
}

func (s *Session) fetchToken(ctx context.Context, kind string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("meta", "tokens")
	q.Set("type", kind)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	token, ok := out.Query.Tokens[kind+"token"]
	if !ok || token == "" {
		return "", fmt.Errorf("no %s token in response", kind)
	}
	return token, nil
}

// post sends a form-encoded POST to the action API and decodes the JSON reply.
func (s *Session) post(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, s.apiURL)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
