package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xy-planning-network/artmatch"
	"golang.org/x/oauth2"
)

const (
	supabaseLogout = "/auth/v1/logout"
	supabaseToken  = "/auth/v1/token"
	supabaseUser   = "/auth/v1/user"
)

// Supabase is the Provider backed by a Supabase project's auth REST API.
type Supabase struct {
	apiKey string
	base   *url.URL
	hc     *http.Client
	now    func() time.Time
}

// A SupabaseOpt configures Supabase when constructing one.
type SupabaseOpt func(*Supabase)

// WithHTTPClient sets the *http.Client Supabase sends requests with.
func WithHTTPClient(hc *http.Client) SupabaseOpt {
	return func(s *Supabase) {
		if hc != nil {
			s.hc = hc
		}
	}
}

// NewSupabase constructs a *Supabase for the project at projectURL,
// identifying itself with the project's public anon key.
func NewSupabase(projectURL, anonKey string, opts ...SupabaseOpt) (*Supabase, error) {
	if anonKey == "" {
		return nil, fmt.Errorf("%w: missing anon key", artmatch.ErrBadConfig)
	}

	u, err := url.ParseRequestURI(projectURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: project url %q", artmatch.ErrBadConfig, projectURL)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	s := &Supabase{
		apiKey: anonKey,
		base:   u,
		hc:     &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// GetUser implements Provider.
func (s *Supabase) GetUser(ctx context.Context, accessToken string) (*artmatch.User, error) {
	if accessToken == "" {
		return nil, nil
	}

	res, err := s.do(ctx, http.MethodGet, s.endpoint(supabaseUser, ""), nil, accessToken)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, decodeAPIError(res)
	}

	user := new(artmatch.User)
	if err := json.NewDecoder(res.Body).Decode(user); err != nil {
		return nil, fmt.Errorf("%w: decoding user: %s", ErrUnexpected, err)
	}

	return user, nil
}

// SignInWithPassword implements Provider.
func (s *Supabase) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	sess, status, err := s.token(ctx, "password", body)
	if status == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrBadCredentials, err)
	}

	return sess, err
}

// RefreshSession implements Provider.
func (s *Supabase) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	sess, status, err := s.token(ctx, "refresh_token", body)
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrNotValid, err)
	}

	return sess, err
}

// SignOut implements Provider.
// A token the provider no longer recognizes is already signed out.
func (s *Supabase) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}

	res, err := s.do(ctx, http.MethodPost, s.endpoint(supabaseLogout, ""), nil, accessToken)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK, http.StatusNoContent,
		http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil
	default:
		return decodeAPIError(res)
	}
}

// token exchanges a grant for a Session.
// When the provider answers with something other than 200,
// token returns the status alongside the error so callers can classify it.
func (s *Supabase) token(ctx context.Context, grant string, body map[string]string) (*Session, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	res, err := s.do(ctx, http.MethodPost, s.endpoint(supabaseToken, grant), bytes.NewReader(b), "")
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode, decodeAPIError(res)
	}

	sess := new(Session)
	if err := json.NewDecoder(res.Body).Decode(sess); err != nil {
		return nil, res.StatusCode, fmt.Errorf("%w: decoding session: %s", ErrUnexpected, err)
	}

	sess.stamp(s.now())
	return sess, res.StatusCode, nil
}

// do sends a request to the auth API.
// A non-empty accessToken is sent as a bearer token.
func (s *Supabase) do(ctx context.Context, method, endpoint string, body io.Reader, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := s.hc
	if accessToken != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
	} else {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %s", ErrUnexpected, method, req.URL.Path, err)
	}

	return res, nil
}

func (s *Supabase) endpoint(path, grant string) string {
	u := *s.base
	u.Path += path
	if grant != "" {
		u.RawQuery = url.Values{"grant_type": {grant}}.Encode()
	}

	return u.String()
}

// apiError is the error body the auth API responds with.
// Different versions of the API fill different fields.
type apiError struct {
	Code             any    `json:"code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
}

func (e apiError) message() string {
	for _, m := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if m != "" {
			return m
		}
	}

	return ""
}

func decodeAPIError(res *http.Response) error {
	var e apiError
	b, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err := json.Unmarshal(b, &e); err != nil || e.message() == "" {
		return fmt.Errorf("%w: auth api responded %d", ErrUnexpected, res.StatusCode)
	}

	return fmt.Errorf("%w: auth api responded %d: %s", ErrUnexpected, res.StatusCode, e.message())
}
