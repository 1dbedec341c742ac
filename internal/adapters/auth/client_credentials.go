// Package auth provides bearer tokens for Dataverse environments.
package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

// Tokens are refreshed this long before they expire.
const expirySkew = 30 * time.Second

type cachedToken struct {
	accessToken string
	expiresAt   time.Time
}

// ClientCredentialsProvider runs the OAuth2 client-credentials grant against
// Microsoft Entra ID, one token per environment.
type ClientCredentialsProvider struct {
	tenantID      string
	clientID      string
	clientSecret  string
	authorityHost string
	client        *http.Client
	logger        ports.Logger
	now           func() time.Time

	mu    sync.Mutex
	cache map[string]cachedToken
}

var _ ports.TokenProvider = (*ClientCredentialsProvider)(nil)

func NewClientCredentialsProvider(cfg Config, client *http.Client, logger ports.Logger) (*ClientCredentialsProvider, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			"client credentials auth requires tenant_id, client_id and client_secret",
			"Set auth.tenant_id, auth.client_id and auth.client_secret (or FLOWDRIFT_AUTH_* variables).")
	}
	authority := strings.TrimRight(cfg.AuthorityHost, "/")
	if authority == "" {
		authority = DefaultAuthorityHost
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ClientCredentialsProvider{
		tenantID:      cfg.TenantID,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		authorityHost: authority,
		client:        client,
		logger:        logger.WithFields(map[string]any{"component": "auth"}),
		now:           time.Now,
		cache:         make(map[string]cachedToken),
	}, nil
}

func (p *ClientCredentialsProvider) Token(ctx context.Context, environmentURL string) (string, error) {
	scope := ScopeFor(environmentURL)
	if scope == "" {
		return "", errors.New(errors.CodeAuthError, "cannot derive token scope from empty environment URL")
	}

	p.mu.Lock()
	if cached, ok := p.cache[scope]; ok && p.now().Before(cached.expiresAt.Add(-expirySkew)) {
		p.mu.Unlock()
		return cached.accessToken, nil
	}
	p.mu.Unlock()

	p.logger.Debugf(ctx, "Requesting client credentials token for scope %s", scope)
	token, err := p.requestToken(ctx, scope)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cache[scope] = token
	p.mu.Unlock()
	return token.accessToken, nil
}

func (p *ClientCredentialsProvider) tokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", p.authorityHost, url.PathEscape(p.tenantID))
}

func (p *ClientCredentialsProvider) requestToken(ctx context.Context, scope string) (cachedToken, error) {
	form := url.Values{}
	form.Set("grant_type", TypeClientCredentials)
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("scope", scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return cachedToken{}, errors.Wrap(err, errors.CodeInternal, "failed to create token request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return cachedToken{}, errors.Wrap(err, errors.CodeAuthError, "token request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return cachedToken{}, errors.Wrap(err, errors.CodeAuthError, "failed to read token response")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return cachedToken{}, errors.NewUserFacing(errors.CodeAuthError,
			fmt.Sprintf("token request failed with status %d: %s", resp.StatusCode, summarize(body)),
			"Check the tenant, client id and client secret of the app registration.")
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &tokenResponse); err != nil {
		return cachedToken{}, errors.Wrap(err, errors.CodeAuthError, "token response is not valid JSON")
	}
	if strings.TrimSpace(tokenResponse.AccessToken) == "" {
		return cachedToken{}, errors.New(errors.CodeAuthError, "token response does not include access_token")
	}

	expiresAt := p.now().Add(time.Hour)
	if tokenResponse.ExpiresIn > 0 {
		expiresAt = p.now().Add(time.Duration(tokenResponse.ExpiresIn) * time.Second)
	}
	return cachedToken{accessToken: tokenResponse.AccessToken, expiresAt: expiresAt}, nil
}

// ScopeFor returns the Dataverse resource scope "{scheme}://{host}/.default".
func ScopeFor(environmentURL string) string {
	u := strings.TrimSpace(environmentURL)
	if u == "" {
		return ""
	}
	scheme := "https"
	if i := strings.Index(u, "://"); i >= 0 {
		scheme = u[:i]
	}
	return fmt.Sprintf("%s://%s/.default", scheme, domain.HostFromURL(u))
}

func summarize(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		return s[:256] + "..."
	}
	return s
}
