package auth

import (
	"bytes"
	"strconv"
)

// flexUint decodes a JSON number that the identity platform sometimes sends
// as a string. The v1 devicecode endpoint quotes expires_in and interval,
// the v2 token endpoint does not.
type flexUint uint64

func (f *flexUint) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = flexUint(n)
	return nil
}

// orDefault applies the documented default-expiry leniency: a missing or zero
// expires_in is treated as defaultExpirySeconds, not as a parsing error.
func (f flexUint) orDefault() uint64 {
	if f == 0 {
		return defaultExpirySeconds
	}
	return uint64(f)
}

// deviceCodeResponse is the body of POST /{tenant}/oauth2/devicecode.
type deviceCodeResponse struct {
	UserCode        string   `json:"user_code"`
	DeviceCode      string   `json:"device_code"`
	VerificationURL string   `json:"verification_url"`
	ExpiresIn       flexUint `json:"expires_in"`
	Interval        flexUint `json:"interval"`
	Message         string   `json:"message"`
}

// tokenResponse is the body of the v1 and v2 token endpoints. Which fields
// are present depends on the grant: device-code and renewal grants carry
// refresh_token, scope exchanges carry access_token.
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    flexUint `json:"expires_in"`
}

// tokenErrorResponse is the body of a non-2xx token endpoint response.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// authzResponse is the body of the authsvc authz endpoint used for skype
// token derivation.
type authzResponse struct {
	Tokens struct {
		SkypeToken string   `json:"skypeToken"`
		ExpiresIn  flexUint `json:"expiresIn"`
	} `json:"tokens"`
}
