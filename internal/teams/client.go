// Package teams is a thin client for the Microsoft Graph and Teams service
// APIs. Every call obtains its bearer through the auth manager's token
// source for the scope that endpoint requires; token renewal is invisible
// here.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/aymericcousaert/squads-cli/internal/auth"
)

const (
	graphBase = "https://graph.microsoft.com/v1.0"
	teamsBase = "https://teams.microsoft.com/api"
)

// Client calls the remote REST APIs on the user's behalf.
type Client struct {
	manager *auth.Manager
	region  string
	timeout time.Duration
	base    http.RoundTripper

	// One HTTP client per resource scope, built once at construction so
	// connections are reused across requests.
	clients map[string]*http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRegion selects the Teams service region (emea, amer, apac).
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// WithTimeout bounds every single HTTP request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithBaseTransport sets the transport under the bearer-injecting one.
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.base = rt
	}
}

// NewClient creates a Client on top of the token manager.
func NewClient(manager *auth.Manager, opts ...ClientOption) *Client {
	c := &Client{
		manager: manager,
		region:  "emea",
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.clients = make(map[string]*http.Client)
	for _, scope := range []string{auth.ScopeGraph, auth.ScopeIC3, auth.ScopeChatSvcAgg} {
		c.clients[scope] = &http.Client{
			Timeout: c.timeout,
			Transport: &oauth2.Transport{
				Source: manager.TokenSource(context.Background(), scope),
				Base:   c.base,
			},
		}
	}
	return c
}

// Me returns the signed-in user's Graph profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, auth.ScopeGraph, graphBase+"/me", &profile); err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return &profile, nil
}

// Users lists directory users, at most top entries.
func (c *Client) Users(ctx context.Context, top int) (*UserList, error) {
	if top <= 0 {
		top = 100
	}
	var users UserList
	url := graphBase + "/users?$top=" + strconv.Itoa(top)
	if err := c.get(ctx, auth.ScopeGraph, url, &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return &users, nil
}

// UserDetails returns the signed-in user's teams and chats from the chat
// service aggregation API.
func (c *Client) UserDetails(ctx context.Context) (*UserDetails, error) {
	var details UserDetails
	url := teamsBase + "/csa/" + c.region + "/api/v2/teams/users/me?isPrefetch=false&enableMembershipSummary=true"
	if err := c.get(ctx, auth.ScopeChatSvcAgg, url, &details); err != nil {
		return nil, fmt.Errorf("getting user details: %w", err)
	}
	return &details, nil
}

// SendMessage posts an HTML message to a conversation and returns the
// service's response body.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (string, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	payload := map[string]any{
		"id":              "-1",
		"type":            "Message",
		"conversationid":  conversationID,
		"from":            "8:orgid:" + me.ID,
		"composetime":     now,
		"content":         content,
		"messagetype":     "RichText/Html",
		"contenttype":     "Text",
		"imdisplayname":   me.DisplayName,
		"clientmessageid": uuid.NewString(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := teamsBase + "/chatsvc/" + c.region + "/v1/users/ME/conversations/" + conversationID + "/messages"
	res, err := c.do(ctx, auth.ScopeIC3, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	return string(res), nil
}

// get performs an authorized GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, scope, url string, out any) error {
	body, err := c.do(ctx, scope, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// do performs an authorized request. The bearer for the scope is attached by
// oauth2.Transport on top of the manager's token source.
func (c *Client) do(ctx context.Context, scope, method, url string, body io.Reader) ([]byte, error) {
	httpClient, ok := c.clients[scope]
	if !ok {
		return nil, fmt.Errorf("no client configured for scope %s", scope)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(data)}
	}
	return data, nil
}

// APIError reports a non-2xx REST response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: status %d: %s", e.StatusCode, e.Body)
}
