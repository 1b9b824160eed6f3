package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aymericcousaert/squads-cli/internal/cache"
)

// Manager orchestrates token renewal and derivation. Given a resource scope
// it guarantees a non-expired token, performing the minimal chain of
// exchanges (renew refresh token → exchange for scope token → optionally
// derive the skype token) and persisting results through the cache store.
//
// Manager is safe for concurrent use. The in-memory token map is guarded by
// a lock held only for map access, never across network or cache I/O.
// Concurrent requests for the same expired scope are coalesced into a single
// exchange.
type Manager struct {
	cache     cache.Store
	http      *http.Client
	tenant    string
	loginBase string
	authzURL  string
	now       func() uint64

	mu     sync.RWMutex
	tokens tokenSet

	group singleflight.Group
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTenant sets the Azure AD tenant used for token exchanges.
func WithTenant(tenant string) ManagerOption {
	return func(m *Manager) {
		m.tenant = tenant
	}
}

// WithHTTPClient sets the HTTP client used for token exchanges.
func WithHTTPClient(c *http.Client) ManagerOption {
	return func(m *Manager) {
		m.http = c
	}
}

// WithLoginBase overrides the identity platform base URL.
func WithLoginBase(base string) ManagerOption {
	return func(m *Manager) {
		m.loginBase = strings.TrimSuffix(base, "/")
	}
}

// WithAuthzURL overrides the skype token derivation endpoint.
func WithAuthzURL(u string) ManagerOption {
	return func(m *Manager) {
		m.authzURL = u
	}
}

// NewManager creates a Manager backed by the given cache store and loads any
// previously persisted tokens. An unreadable or corrupt cache artifact
// degrades to an empty token set; the user re-authenticates instead of being
// stuck.
func NewManager(ctx context.Context, store cache.Store, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("missing cache store")
	}

	m := &Manager{
		cache:     store,
		http:      newHTTPClient(0),
		tenant:    DefaultTenant,
		loginBase: defaultLoginBase,
		authzURL:  defaultAuthzURL,
		now:       epochSeconds,
		tokens:    newTokenSet(),
	}
	for _, opt := range opts {
		opt(m)
	}

	var persisted tokenSet
	found, err := store.Load(ctx, tokensArtifact, &persisted)
	if err != nil {
		slog.WarnContext(ctx, "discarding unreadable token cache", "error", err)
	} else if found && persisted.Tokens != nil {
		m.tokens = persisted
	}

	return m, nil
}

// IsAuthenticated reports whether a refresh token is present. It does not
// verify the token against the identity platform.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.lookup(KeyRefreshToken)
	return ok
}

// StoreRefreshToken stores the refresh token produced by device-code sign-in
// and flushes it to the cache.
func (m *Manager) StoreRefreshToken(ctx context.Context, token AccessToken) error {
	return m.persist(ctx, KeyRefreshToken, token)
}

// ClearAll empties the token store and deletes the cache artifact (logout).
// The cache is deleted first so a failure leaves the store unchanged.
// Calling it when nothing is stored is a no-op.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.cache.Delete(ctx, tokensArtifact); err != nil {
		return fmt.Errorf("clearing token cache: %w", err)
	}

	m.mu.Lock()
	m.tokens = newTokenSet()
	m.mu.Unlock()
	return nil
}

// GetToken returns a non-expired access token for the resource scope,
// renewing the refresh token and exchanging for a scope token as needed.
// A cached unexpired token is returned without any network call.
func (m *Manager) GetToken(ctx context.Context, scope string) (AccessToken, error) {
	refresh, ok := m.lookup(KeyRefreshToken)
	if !ok {
		return AccessToken{}, ErrNotAuthenticated
	}

	if !refresh.Valid(m.now()) {
		renewed, err := m.renewRefreshToken(ctx)
		if err != nil {
			return AccessToken{}, err
		}
		refresh = renewed
	}

	if token, ok := m.lookup(scope); ok && token.Valid(m.now()) {
		return token, nil
	}

	v, err, _ := m.group.Do(scope, func() (any, error) {
		// Another caller may have completed the exchange while we waited.
		if token, ok := m.lookup(scope); ok && token.Valid(m.now()) {
			return token, nil
		}

		token, err := m.exchangeScopeToken(ctx, refresh, scope)
		if err != nil {
			return nil, err
		}
		if err := m.persist(ctx, scope, token); err != nil {
			return nil, err
		}
		return token, nil
	})
	if err != nil {
		return AccessToken{}, err
	}
	return v.(AccessToken), nil
}

// GetSkypeToken returns a non-expired skype token, deriving a new one from
// the spaces-scope access token if needed.
func (m *Manager) GetSkypeToken(ctx context.Context) (AccessToken, error) {
	if token, ok := m.lookup(KeySkypeToken); ok && token.Valid(m.now()) {
		return token, nil
	}

	v, err, _ := m.group.Do(KeySkypeToken, func() (any, error) {
		if token, ok := m.lookup(KeySkypeToken); ok && token.Valid(m.now()) {
			return token, nil
		}

		spaces, err := m.GetToken(ctx, ScopeSpaces)
		if err != nil {
			return nil, err
		}

		token, err := m.deriveSkypeToken(ctx, spaces)
		if err != nil {
			return nil, err
		}
		if err := m.persist(ctx, KeySkypeToken, token); err != nil {
			return nil, err
		}
		return token, nil
	})
	if err != nil {
		return AccessToken{}, err
	}
	return v.(AccessToken), nil
}

// renewRefreshToken exchanges the stored refresh token for a new one and
// flushes it before any dependent exchange proceeds. On failure the store is
// left unmodified. Concurrent renewals are coalesced.
func (m *Manager) renewRefreshToken(ctx context.Context) (AccessToken, error) {
	v, err, _ := m.group.Do(KeyRefreshToken, func() (any, error) {
		current, ok := m.lookup(KeyRefreshToken)
		if !ok {
			return nil, ErrNotAuthenticated
		}
		if current.Valid(m.now()) {
			return current, nil
		}

		renewed, err := m.exchangeRefreshToken(ctx, current)
		if err != nil {
			return nil, err
		}
		if err := m.persist(ctx, KeyRefreshToken, renewed); err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "renewed refresh token")
		return renewed, nil
	})
	if err != nil {
		return AccessToken{}, err
	}
	return v.(AccessToken), nil
}

func (m *Manager) lookup(key string) (AccessToken, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.get(key)
}

// persist writes the token to the in-memory map under the lock, then flushes
// a snapshot to the cache outside it. A flush failure surfaces: silently
// losing a fresh token would force an unnecessary re-authentication later.
func (m *Manager) persist(ctx context.Context, key string, token AccessToken) error {
	m.mu.Lock()
	m.tokens.put(key, token)
	snap := m.tokens.snapshot()
	m.mu.Unlock()

	if err := m.cache.Save(ctx, tokensArtifact, snap); err != nil {
		return fmt.Errorf("persisting token cache: %w", err)
	}
	return nil
}
