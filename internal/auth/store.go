package auth

// tokensArtifact is the single cache artifact holding every credential.
const tokensArtifact = "tokens.json"

// tokenSet is the persisted shape of the credential cache: one map from
// store key (reserved name or scope identifier) to token. It carries no
// locking; Manager serializes access.
type tokenSet struct {
	Tokens map[string]AccessToken `json:"tokens"`
}

func newTokenSet() tokenSet {
	return tokenSet{Tokens: make(map[string]AccessToken)}
}

func (s tokenSet) get(key string) (AccessToken, bool) {
	t, ok := s.Tokens[key]
	return t, ok
}

func (s tokenSet) put(key string, t AccessToken) {
	s.Tokens[key] = t
}

// snapshot returns a copy safe to serialize outside the store lock.
func (s tokenSet) snapshot() tokenSet {
	out := newTokenSet()
	for k, v := range s.Tokens {
		out.Tokens[k] = v
	}
	return out
}
