package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/oauth2/devicecode", r.URL.Path)
		_ = r.ParseForm()
		assert.Equal(t, ClientID, r.Form.Get("client_id"))
		// The v1 endpoint encodes numbers as strings.
		fmt.Fprint(w, `{
			"user_code": "ABC123",
			"device_code": "dc-secret",
			"verification_url": "https://microsoft.com/devicelogin",
			"expires_in": "900",
			"interval": "5",
			"message": "Go to https://microsoft.com/devicelogin and enter ABC123"
		}`)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL))
	code, err := flow.Issue(context.Background(), DefaultTenant)
	require.NoError(t, err)

	assert.Equal(t, "ABC123", code.UserCode)
	assert.Equal(t, "dc-secret", code.DeviceCode)
	assert.Equal(t, uint64(900), code.ExpiresIn)
	assert.Equal(t, uint64(5), code.Interval)
	assert.Contains(t, code.Message, "ABC123")
}

func TestIssueRejectedByProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL))
	_, err := flow.Issue(context.Background(), DefaultTenant)
	var exchangeErr *ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.StatusCode)
	assert.Contains(t, exchangeErr.Body, "invalid_client")
}

func TestIssueMissingDeviceCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user_code": "ABC123"}`)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL))
	_, err := flow.Issue(context.Background(), DefaultTenant)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "device_code", malformed.Field)
}

func TestPollOncePending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"authorization_pending"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL))
	_, err := flow.PollOnce(context.Background(), &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	assert.ErrorIs(t, err, ErrAuthorizationPending)
}

func TestPollOnceDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"authorization_declined"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL))
	_, err := flow.PollOnce(context.Background(), &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestPollOnceExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"expired_token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL))
	_, err := flow.PollOnce(context.Background(), &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	assert.ErrorIs(t, err, ErrAuthorizationTimeout)
}

func TestWaitAuthorizedAfterPending(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) <= 2 {
			http.Error(w, `{"error":"authorization_pending"}`, http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"refresh_token":"rt-initial","expires_in":"1209600"}`)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL), WithFlowPolling(time.Millisecond, 10))
	token, err := flow.Wait(context.Background(), &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	require.NoError(t, err)

	assert.Equal(t, "rt-initial", token.Value)
	assert.Greater(t, token.Expires, epochSeconds())
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitExhaustsAttempts(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		http.Error(w, `{"error":"authorization_pending"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL), WithFlowPolling(time.Millisecond, 3))
	_, err := flow.Wait(context.Background(), &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	assert.ErrorIs(t, err, ErrAuthorizationTimeout)
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitDeniedStopsPolling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"access_denied"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	flow := NewFlow(WithFlowLoginBase(srv.URL), WithFlowPolling(time.Millisecond, 10))
	_, err := flow.Wait(context.Background(), &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestWaitCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"authorization_pending"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flow := NewFlow(WithFlowLoginBase(srv.URL), WithFlowPolling(time.Millisecond, 10))
	_, err := flow.Wait(ctx, &DeviceCode{DeviceCode: "dc"}, DefaultTenant)
	assert.ErrorIs(t, err, context.Canceled)
}
