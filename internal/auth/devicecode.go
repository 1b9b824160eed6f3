package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Polling loop bounds: 60 attempts at 5 second intervals, roughly the five
// minutes the identity platform keeps a device code alive.
const (
	DefaultPollInterval = 5 * time.Second
	MaxPollAttempts     = 60
)

// DeviceCode is the result of device-code issuance: the code the user types,
// the URL they visit, and the polling parameters.
type DeviceCode struct {
	UserCode        string
	DeviceCode      string
	VerificationURL string
	ExpiresIn       uint64
	Interval        uint64
	Message         string
}

// Flow performs the OAuth2 device code flow against the identity platform.
// It holds no credential state; the refresh token it produces is handed to
// Manager for storage.
type Flow struct {
	http         *http.Client
	loginBase    string
	pollInterval time.Duration
	maxAttempts  int
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithFlowHTTPClient sets the HTTP client used for issuance and polling.
func WithFlowHTTPClient(c *http.Client) FlowOption {
	return func(f *Flow) {
		f.http = c
	}
}

// WithFlowLoginBase overrides the identity platform base URL.
func WithFlowLoginBase(base string) FlowOption {
	return func(f *Flow) {
		f.loginBase = strings.TrimSuffix(base, "/")
	}
}

// WithFlowPolling overrides the polling interval and attempt budget.
func WithFlowPolling(interval time.Duration, maxAttempts int) FlowOption {
	return func(f *Flow) {
		f.pollInterval = interval
		f.maxAttempts = maxAttempts
	}
}

// NewFlow creates a device code flow.
func NewFlow(opts ...FlowOption) *Flow {
	f := &Flow{
		http:        newHTTPClient(0),
		loginBase:   defaultLoginBase,
		maxAttempts: MaxPollAttempts,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Issue requests a device code for the tenant. No local state is mutated.
func (f *Flow) Issue(ctx context.Context, tenant string) (*DeviceCode, error) {
	form := url.Values{}
	form.Set("client_id", ClientID)
	form.Set("resource", deviceCodeResource)

	endpoint := f.loginBase + "/" + tenant + "/oauth2/devicecode"
	status, body, err := postForm(ctx, f.http, endpoint, form)
	if err != nil {
		return nil, &ExchangeError{Op: "device code issuance", Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &ExchangeError{Op: "device code issuance", StatusCode: status, Body: string(body)}
	}

	var res deviceCodeResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &ExchangeError{Op: "device code issuance", Err: err}
	}
	if res.DeviceCode == "" {
		return nil, &MalformedResponseError{Op: "device code issuance", Field: "device_code", Body: string(body)}
	}

	return &DeviceCode{
		UserCode:        res.UserCode,
		DeviceCode:      res.DeviceCode,
		VerificationURL: res.VerificationURL,
		ExpiresIn:       uint64(res.ExpiresIn),
		Interval:        uint64(res.Interval),
		Message:         res.Message,
	}, nil
}

// PollOnce performs a single token exchange attempt for the device code.
// While the user has not completed sign-in it returns ErrAuthorizationPending;
// a declined request returns ErrAuthorizationDenied. On success it returns
// the initial refresh token.
func (f *Flow) PollOnce(ctx context.Context, code *DeviceCode, tenant string) (AccessToken, error) {
	form := url.Values{}
	form.Set("client_id", ClientID)
	form.Set("code", code.DeviceCode)
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")

	endpoint := f.loginBase + "/" + tenant + "/oauth2/token"
	status, body, err := postForm(ctx, f.http, endpoint, form)
	if err != nil {
		return AccessToken{}, &ExchangeError{Op: "device code polling", Err: err}
	}
	if status < 200 || status >= 300 {
		// A non-2xx while the user hasn't finished signing in is the expected
		// keep-polling signal, not an error.
		var res tokenErrorResponse
		_ = json.Unmarshal(body, &res)
		switch res.Error {
		case "authorization_declined", "access_denied":
			return AccessToken{}, ErrAuthorizationDenied
		case "expired_token":
			return AccessToken{}, ErrAuthorizationTimeout
		default:
			return AccessToken{}, ErrAuthorizationPending
		}
	}

	var res tokenResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return AccessToken{}, &ExchangeError{Op: "device code polling", Err: err}
	}
	if res.RefreshToken == "" {
		return AccessToken{}, &MalformedResponseError{Op: "device code polling", Field: "refresh_token", Body: string(body)}
	}

	return AccessToken{
		Value:   res.RefreshToken,
		Expires: epochSeconds() + res.ExpiresIn.orDefault(),
	}, nil
}

// Wait drives the polling loop until the user completes sign-in, the attempt
// budget runs out, or ctx is cancelled. No state is persisted on any failure
// path.
func (f *Flow) Wait(ctx context.Context, code *DeviceCode, tenant string) (AccessToken, error) {
	interval := f.pollInterval
	if interval == 0 {
		interval = DefaultPollInterval
		if code.Interval > 0 {
			interval = time.Duration(code.Interval) * time.Second
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return AccessToken{}, ctx.Err()
		case <-ticker.C:
		}

		token, err := f.PollOnce(ctx, code, tenant)
		switch {
		case err == nil:
			return token, nil
		case errors.Is(err, ErrAuthorizationPending):
			continue
		default:
			return AccessToken{}, err
		}
	}

	return AccessToken{}, ErrAuthorizationTimeout
}

// postForm issues a form-encoded POST with the Teams client headers and
// returns the status code and raw body.
func postForm(ctx context.Context, client *http.Client, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", teamsOrigin)

	res, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, body, nil
}

// newHTTPClient builds the client used against the identity platform.
// Redirects are never followed: login.microsoftonline.com redirects would
// resend form bodies to the redirect target.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
