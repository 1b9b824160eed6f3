package auth

// ClientID is the public OAuth2 client identifier of the official Teams web
// client. Device-code sign-in and token exchanges impersonate it.
const ClientID = "1fec8e78-bce4-4aaf-ab1b-5451cc387264"

// DefaultTenant is the multi-tenant Azure AD endpoint.
const DefaultTenant = "organizations"

// Resource-scope identifiers. Scope tokens are cached under these literal
// strings.
const (
	ScopeGraph      = "https://graph.microsoft.com/.default"
	ScopeIC3        = "https://ic3.teams.office.com/.default"
	ScopeChatSvcAgg = "https://chatsvcagg.teams.microsoft.com/.default"
	ScopeSpaces     = "https://api.spaces.skype.com/Authorization.ReadWrite"
)

// Reserved token store keys. Everything else is a resource-scope identifier.
const (
	KeyRefreshToken = "refresh_token"
	KeySkypeToken   = "skype_token"
)

const (
	defaultLoginBase = "https://login.microsoftonline.com"
	defaultAuthzURL  = "https://teams.microsoft.com/api/authsvc/v1.0/authz"

	// The devicecode endpoint takes a v1-style resource rather than a scope.
	deviceCodeResource = "https://api.spaces.skype.com"

	// The identity platform rejects requests that don't look like the Teams
	// web client.
	userAgent   = "Mozilla/5.0 (X11; Linux x86_64; rv:131.0) Gecko/20100101 Firefox/131.0"
	teamsOrigin = "https://teams.microsoft.com"

	clientSKU = "msal.js.browser"
	clientVer = "3.7.1"

	// Requests CAE-capable access tokens, matching the web client.
	claimsParam = `{"access_token":{"xms_cc":{"values":["CP1"]}}}`

	baseScopes = "openid profile offline_access"
)

// defaultExpirySeconds is assumed when a provider response omits expires_in.
// A conservative guess beats failing an otherwise successful exchange.
const defaultExpirySeconds = 3600
