package auth

import "time"

// AccessToken is an opaque bearer credential with its expiry in epoch seconds.
// Tokens are immutable once issued; renewal replaces them wholesale.
type AccessToken struct {
	Value   string `json:"value"`
	Expires uint64 `json:"expires"`
}

// Valid reports whether the token is still usable at the given epoch second.
func (t AccessToken) Valid(now uint64) bool {
	return t.Expires >= now
}

// epochSeconds returns the current wall-clock time in seconds since the Unix
// epoch, the sole time representation used for expiry comparisons.
func epochSeconds() uint64 {
	return uint64(time.Now().Unix())
}
