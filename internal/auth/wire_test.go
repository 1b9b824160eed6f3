package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUintDecodesBothEncodings(t *testing.T) {
	var res struct {
		Quoted flexUint `json:"quoted"`
		Bare   flexUint `json:"bare"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"quoted":"900","bare":3599}`), &res))
	assert.Equal(t, uint64(900), uint64(res.Quoted))
	assert.Equal(t, uint64(3599), uint64(res.Bare))
}

func TestFlexUintRejectsGarbage(t *testing.T) {
	var v flexUint
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &v))
}

func TestFlexUintOrDefault(t *testing.T) {
	var res tokenResponse
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"at"}`), &res))
	assert.Equal(t, uint64(defaultExpirySeconds), res.ExpiresIn.orDefault())

	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"at","expires_in":60}`), &res))
	assert.Equal(t, uint64(60), res.ExpiresIn.orDefault())
}
