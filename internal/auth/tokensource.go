package auth

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource adapts the Manager to oauth2.TokenSource for one resource
// scope, so REST clients can attach bearers via oauth2.Transport.
//
// oauth2.TokenSource.Token has no context parameter (legacy interface), so
// the context is captured at construction time per the oauth2 package's
// documented pattern.
func (m *Manager) TokenSource(ctx context.Context, scope string) oauth2.TokenSource {
	return &scopeTokenSource{ctx: ctx, manager: m, scope: scope}
}

type scopeTokenSource struct {
	ctx     context.Context
	manager *Manager
	scope   string
}

// Compile-time check to ensure scopeTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*scopeTokenSource)(nil)

func (s *scopeTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.manager.GetToken(s.ctx, s.scope)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		Expiry:      time.Unix(int64(token.Expires), 0),
	}, nil
}
