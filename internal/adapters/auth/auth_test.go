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

	"github.com/olusolaa/flow-drift-detector/internal/errors"
	"github.com/olusolaa/flow-drift-detector/internal/log"
)

func newTokenServer(t *testing.T, calls *atomic.Int32, expiresIn int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/tenant-1/oauth2/v2.0/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "app-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "s3cret", r.PostForm.Get("client_secret"))
		fmt.Fprintf(w, `{"access_token":"tok-%d-%s","expires_in":%d}`, n, r.PostForm.Get("scope"), expiresIn)
	}))
	t.Cleanup(server.Close)
	return server
}

func newProvider(t *testing.T, authority string) *ClientCredentialsProvider {
	t.Helper()
	p, err := NewClientCredentialsProvider(Config{
		Type:          TypeClientCredentials,
		TenantID:      "tenant-1",
		ClientID:      "app-id",
		ClientSecret:  "s3cret",
		AuthorityHost: authority + "/",
	}, nil, log.NewNopLogger())
	require.NoError(t, err)
	return p
}

func TestClientCredentials_CachesPerEnvironment(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, &calls, 3600)
	p := newProvider(t, server.URL)
	ctx := context.Background()

	tok, err := p.Token(ctx, "https://dev.crm.dynamics.com/")
	require.NoError(t, err)
	assert.Equal(t, "tok-1-https://dev.crm.dynamics.com/.default", tok)

	again, err := p.Token(ctx, "https://dev.crm.dynamics.com")
	require.NoError(t, err)
	assert.Equal(t, tok, again)

	other, err := p.Token(ctx, "https://prod.crm.dynamics.com")
	require.NoError(t, err)
	assert.Equal(t, "tok-2-https://prod.crm.dynamics.com/.default", other)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientCredentials_RefreshesNearExpiry(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, &calls, 60)
	p := newProvider(t, server.URL)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := p.Token(ctx, "https://dev.crm.dynamics.com")
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	_, err = p.Token(ctx, "https://dev.crm.dynamics.com")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	// Inside the 30s skew window.
	now = now.Add(15 * time.Second)
	tok, err := p.Token(ctx, "https://dev.crm.dynamics.com")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Contains(t, tok, "tok-2-")
}

func TestClientCredentials_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer server.Close()
	p := newProvider(t, server.URL)

	_, err := p.Token(context.Background(), "https://dev.crm.dynamics.com")
	require.Error(t, err)
	assert.Equal(t, errors.CodeAuthError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestClientCredentials_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token_type":"Bearer"}`)
	}))
	defer server.Close()
	p := newProvider(t, server.URL)

	_, err := p.Token(context.Background(), "https://dev.crm.dynamics.com")
	require.Error(t, err)
	assert.Equal(t, errors.CodeAuthError, errors.GetCode(err))
}

func TestNewTokenProvider(t *testing.T) {
	logger := log.NewNopLogger()

	static, err := NewTokenProvider(&Config{Type: TypeStaticToken, Token: "abc"}, nil, logger)
	require.NoError(t, err)
	tok, err := static.Token(context.Background(), "https://any")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = NewTokenProvider(&Config{Type: TypeStaticToken}, nil, logger)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))

	_, err = NewTokenProvider(&Config{Type: TypeClientCredentials, TenantID: "t"}, nil, logger)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))

	_, err = NewTokenProvider(&Config{Type: "device_code"}, nil, logger)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
}

func TestScopeFor(t *testing.T) {
	assert.Equal(t, "https://org.crm.dynamics.com/.default", ScopeFor("https://org.crm.dynamics.com/api/data"))
	assert.Equal(t, "https://org.crm.dynamics.com/.default", ScopeFor("org.crm.dynamics.com"))
	assert.Equal(t, "http://127.0.0.1:8080/.default", ScopeFor("http://127.0.0.1:8080"))
	assert.Empty(t, ScopeFor(""))
}
