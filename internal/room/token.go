// Package room resolves live room identity against the remote
// platform's web endpoints.
package room

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
)

// DefaultMsTokenLength is the msToken length the web client sends.
const DefaultMsTokenLength = 107

// msTokenAlphabet is the character set msToken values draw from.
const msTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789="

// MsToken returns a random token in the shape the web client sends.
//
// The value is client telemetry, not a credential, so it does not
// need a cryptographic source.
func MsToken(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = msTokenAlphabet[rand.IntN(len(msTokenAlphabet))]
	}
	return string(b)
}

// TokenProvider harvests the ttwid auth token from the platform
// home page and caches it.
//
// Token fetch is best effort: on failure the provider returns an
// empty token and the next call retries. A missing token degrades
// the session rather than failing it; the dial that follows surfaces
// any real network problem.
type TokenProvider struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger

	mu     sync.Mutex
	cached string
}

// TokenOption configures a TokenProvider.
type TokenOption func(*TokenProvider)

// WithTokenBaseURL overrides the platform endpoint.
func WithTokenBaseURL(baseURL string) TokenOption {
	return func(p *TokenProvider) {
		p.baseURL = baseURL
	}
}

// WithTokenHTTPClient overrides the HTTP client.
func WithTokenHTTPClient(client *http.Client) TokenOption {
	return func(p *TokenProvider) {
		p.client = client
	}
}

// WithTokenLogger sets the logger for the provider.
func WithTokenLogger(l logger.Logger) TokenOption {
	return func(p *TokenProvider) {
		p.logger = l
	}
}

// NewTokenProvider creates a token provider.
func NewTokenProvider(opts ...TokenOption) *TokenProvider {
	p := &TokenProvider{
		baseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Token returns the cached ttwid token, fetching it on first use.
// Returns an empty string when the token cannot be obtained.
func (p *TokenProvider) Token(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	token, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn("auth token fetch failed, continuing without cookie",
			"error", err,
		)
		return ""
	}

	p.cached = token
	return token
}

// fetch requests the home page and extracts the ttwid cookie.
func (p *TokenProvider) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return "", domain.ErrTokenFetch.WithCause(err)
	}

	req.Header.Set("User-Agent", UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", domain.ErrTokenFetch.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", domain.ErrTokenFetch.WithDetails(fmt.Sprintf("home page returned status %d", resp.StatusCode))
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "ttwid" {
			return cookie.Value, nil
		}
	}

	return "", domain.ErrTokenFetch.WithDetails("ttwid cookie not present in response")
}
