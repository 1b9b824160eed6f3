package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// exchangeRefreshToken renews the refresh token via the v2 token endpoint.
func (m *Manager) exchangeRefreshToken(ctx context.Context, refresh AccessToken) (AccessToken, error) {
	const op = "refresh token renewal"

	form := url.Values{}
	form.Set("client_id", ClientID)
	form.Set("scope", baseScopes)
	form.Set("grant_type", "refresh_token")
	form.Set("client_info", "1")
	form.Set("x-client-SKU", clientSKU)
	form.Set("x-client-VER", clientVer)
	form.Set("refresh_token", refresh.Value)

	res, err := m.postToken(ctx, op, form)
	if err != nil {
		return AccessToken{}, err
	}
	if res.RefreshToken == "" {
		return AccessToken{}, &MalformedResponseError{Op: op, Field: "refresh_token", Body: res.raw}
	}

	return AccessToken{
		Value:   res.RefreshToken,
		Expires: m.now() + res.ExpiresIn.orDefault(),
	}, nil
}

// exchangeScopeToken mints an access token for the resource scope from the
// refresh token. Any refresh token returned alongside is ignored; renewal is
// driven solely by the stored one's expiry.
func (m *Manager) exchangeScopeToken(ctx context.Context, refresh AccessToken, scope string) (AccessToken, error) {
	op := "token exchange for " + scope

	form := url.Values{}
	form.Set("client_id", ClientID)
	form.Set("scope", scope+" "+baseScopes)
	form.Set("grant_type", "refresh_token")
	form.Set("client_info", "1")
	form.Set("x-client-SKU", clientSKU)
	form.Set("x-client-VER", clientVer)
	form.Set("refresh_token", refresh.Value)
	form.Set("claims", claimsParam)

	res, err := m.postToken(ctx, op, form)
	if err != nil {
		return AccessToken{}, err
	}
	if res.AccessToken == "" {
		return AccessToken{}, &MalformedResponseError{Op: op, Field: "access_token", Body: res.raw}
	}

	return AccessToken{
		Value:   res.AccessToken,
		Expires: m.now() + res.ExpiresIn.orDefault(),
	}, nil
}

// deriveSkypeToken exchanges a spaces-scope access token for a skype token
// at the authsvc authz endpoint.
func (m *Manager) deriveSkypeToken(ctx context.Context, spaces AccessToken) (AccessToken, error) {
	const op = "skype token derivation"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authzURL, nil)
	if err != nil {
		return AccessToken{}, &ExchangeError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+spaces.Value)
	req.Header.Set("User-Agent", userAgent)

	res, err := m.http.Do(req)
	if err != nil {
		return AccessToken{}, &ExchangeError{Op: op, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return AccessToken{}, &ExchangeError{Op: op, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return AccessToken{}, &ExchangeError{Op: op, StatusCode: res.StatusCode, Body: string(body)}
	}

	var authz authzResponse
	if err := json.Unmarshal(body, &authz); err != nil {
		return AccessToken{}, &ExchangeError{Op: op, Err: err}
	}
	if authz.Tokens.SkypeToken == "" {
		return AccessToken{}, &MalformedResponseError{Op: op, Field: "tokens.skypeToken", Body: string(body)}
	}

	return AccessToken{
		Value:   authz.Tokens.SkypeToken,
		Expires: m.now() + authz.Tokens.ExpiresIn.orDefault(),
	}, nil
}

// parsedTokenResponse pairs the decoded token endpoint response with its raw
// body for error reporting.
type parsedTokenResponse struct {
	tokenResponse
	raw string
}

func (m *Manager) postToken(ctx context.Context, op string, form url.Values) (parsedTokenResponse, error) {
	endpoint := m.loginBase + "/" + m.tenant + "/oauth2/v2.0/token"

	status, body, err := postForm(ctx, m.http, endpoint, form)
	if err != nil {
		return parsedTokenResponse{}, &ExchangeError{Op: op, Err: err}
	}
	if status < 200 || status >= 300 {
		return parsedTokenResponse{}, &ExchangeError{Op: op, StatusCode: status, Body: string(body)}
	}

	var res tokenResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return parsedTokenResponse{}, &ExchangeError{Op: op, Err: err}
	}
	return parsedTokenResponse{tokenResponse: res, raw: string(body)}, nil
}
