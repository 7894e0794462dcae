// Package room resolves live room identity against the remote
// platform's web endpoints.
package room

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
)

// UserAgent is the browser identity presented on every request to the
// remote platform, including the push socket handshake.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultBaseURL is the web endpoint of the remote platform.
const DefaultBaseURL = "https://live.douyin.com"

// acNonce is a fixed anti-crawl cookie value the room page accepts.
const acNonce = "0123407cc00a9e438deb4"

// roomIDPattern extracts the numeric room ID from the escaped JSON
// embedded in the room page.
var roomIDPattern = regexp.MustCompile(`roomId\\":\\"(\d+)\\"`)

// statusPattern extracts the room status. Status 2 means live.
var statusPattern = regexp.MustCompile(`"status":(\d+)`)

// Resolution is the outcome of resolving a live ID.
type Resolution struct {
	RoomID string
	IsLive bool
}

// TokenSource supplies the auth token for page requests.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Resolver resolves a live ID to its room identity.
//
// The result is cached for the lifetime of the process; a room keeps
// its ID across reconnects within one recording run.
type Resolver struct {
	liveID  string
	tokens  TokenSource
	baseURL string
	client  *http.Client
	logger  logger.Logger

	mu     sync.Mutex
	cached *Resolution
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverBaseURL overrides the platform endpoint.
func WithResolverBaseURL(baseURL string) ResolverOption {
	return func(r *Resolver) {
		r.baseURL = baseURL
	}
}

// WithResolverHTTPClient overrides the HTTP client.
func WithResolverHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithResolverLogger sets the logger for the resolver.
func WithResolverLogger(l logger.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a resolver for the given live ID.
func NewResolver(liveID string, tokens TokenSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		liveID:  liveID,
		tokens:  tokens,
		baseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the room identity for the configured live ID.
//
// Resolution is best effort: on any failure the live ID doubles as
// the room ID and the room is reported offline. The fallback is
// cached like a successful result.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return *r.cached
	}

	res, err := r.fetch(ctx)
	if err != nil {
		r.logger.Warn("room resolution failed, using live id as room id",
			"live_id", r.liveID,
			"error", err,
		)
		res = Resolution{RoomID: r.liveID, IsLive: false}
	} else {
		r.logger.Info("room resolved",
			"live_id", r.liveID,
			"room_id", res.RoomID,
			"is_live", res.IsLive,
		)
	}

	r.cached = &res
	return res
}

// fetch retrieves the room page and extracts the room identity.
func (r *Resolver) fetch(ctx context.Context) (Resolution, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+r.liveID, nil)
	if err != nil {
		return Resolution{}, domain.ErrRoomResolve.WithCause(err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Cookie", fmt.Sprintf("ttwid=%s&msToken=%s; __ac_nonce=%s",
		r.tokens.Token(ctx), MsToken(DefaultMsTokenLength), acNonce))

	resp, err := r.client.Do(req)
	if err != nil {
		return Resolution{}, domain.ErrRoomResolve.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Resolution{}, domain.ErrRoomResolve.WithDetails(fmt.Sprintf("room page returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Resolution{}, domain.ErrRoomResolve.WithCause(err)
	}

	m := roomIDPattern.FindSubmatch(body)
	if m == nil {
		return Resolution{}, domain.ErrRoomResolve.WithDetails("room id not found in page")
	}

	// A parseable room page implies a live room unless the embedded
	// status says otherwise.
	res := Resolution{RoomID: string(m[1]), IsLive: true}
	if sm := statusPattern.FindSubmatch(body); sm != nil {
		res.IsLive = string(sm[1]) == "2"
	}

	return res, nil
}
