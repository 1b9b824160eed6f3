// Package auth implements the token lifecycle for the Microsoft identity
// platform as used by the Teams web client.
//
// Sign-in uses the OAuth2 device code flow: Flow.Issue obtains a one-time
// user code, and Flow.Wait polls the token endpoint until the user completes
// sign-in in a browser, producing the long-lived refresh token.
//
// Manager layers short-lived credentials on top of that refresh token:
//   - resource-scoped access tokens, minted on demand per scope
//   - the skype token, derived from the spaces-scope access token and
//     required by legacy real-time messaging endpoints
//
// All credentials carry an independent expiry in epoch seconds and are cached
// in memory and in a single on-disk artifact. Expired credentials are renewed
// transparently; consumers only ever see a valid bearer string.
package auth
