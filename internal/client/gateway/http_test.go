package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *HTTPGateway {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewHTTPGateway(ts.URL+"/", 5*time.Second, WithHTTPClient(ts.Client()))
}

func TestRequestOTP_Success(t *testing.T) {
	var gotPath, gotUser, gotUA, gotReqID string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.URL.Query().Get("user")
		gotUA = r.Header.Get("User-Agent")
		gotReqID = r.Header.Get(requestIDHeader)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, g.RequestOTP(context.Background(), "alice"))
	assert.Equal(t, "/auth/loginlink", gotPath)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Len(t, gotReqID, 36)
}

func TestRequestOTP_ServerErrorIsUnavailable(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := g.RequestOTP(context.Background(), "alice")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Failed to send OTP", err.Error())
}

func TestRequestOTP_ClientErrorIsRemote(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := g.RequestOTP(context.Background(), "alice")
	require.ErrorIs(t, err, ErrRemote)
}

func TestVerify_Success(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			assert.Equal(t, "one two three four", r.URL.Query().Get("otp"))
			assert.Equal(t, "alice", r.URL.Query().Get("user"))
			_, _ = w.Write([]byte(`{"token":"login-token"}`))
		case "/email/dashboard":
			assert.Equal(t, "Bearer login-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{
				"user": {"email":"alice@example.com","username":"alice","access_token":"access","cohort":"c1"},
				"stats": {"addresses_generated": 12},
				"invites": [{}, {}]
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	snap, err := g.Verify(context.Background(), "alice", "one two three four")
	require.NoError(t, err)
	assert.Equal(t, &models.AccountSnapshot{
		Email:              "alice@example.com",
		Username:           "alice",
		SessionToken:       "access",
		Cohort:             "c1",
		AddressesGenerated: 12,
		InviteCount:        2,
	}, snap)
}

func TestVerify_NoTokenIsInvalidOTP(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"authentication_failed"}`))
	})

	_, err := g.Verify(context.Background(), "alice", "a b c d")
	require.ErrorIs(t, err, ErrInvalidOTP)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid OTP", err.Error())
}

func TestVerify_RejectedStatusIsInvalidOTP(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := g.Verify(context.Background(), "alice", "a b c d")
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerify_DashboardUnauthorized(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			_, _ = w.Write([]byte(`{"token":"t"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := g.Verify(context.Background(), "alice", "a b c d")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, errors.Is(err, ErrInvalidOTP))
}

func TestGenerateAddress(t *testing.T) {
	var gotMethod, gotAuth, gotCT string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"address":"xk29f"}`))
	})

	addr, err := g.GenerateAddress(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "xk29f", addr)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotCT)
}

func TestGenerateAddress_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{"empty address", http.StatusOK, `{}`, ErrRemote, "Invalid response format"},
		{"expired session", http.StatusUnauthorized, ``, ErrUnauthorized, "Failed to generate address: session expired, please log in again"},
		{"server down", http.StatusServiceUnavailable, ``, ErrUnavailable, "Failed to generate address"},
		{"rate limited", http.StatusTooManyRequests, ``, ErrRemote, "Failed to generate address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.GenerateAddress(context.Background(), "tok")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()

	g := NewHTTPGateway(base, time.Second)
	err := g.RequestOTP(context.Background(), "alice")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRateLimitThrottlesBurst(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(ts.Close)

	g := NewHTTPGateway(ts.URL, time.Second, WithHTTPClient(ts.Client()), WithRateLimit(0.001, 1))

	require.NoError(t, g.RequestOTP(context.Background(), "alice"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := g.RequestOTP(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
