package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/spetersoncode/lumina"
)

// DefaultUserAgent is sent with every image request. Many image hosts reject
// requests without one.
const DefaultUserAgent = "lumina/1.0"

// DefaultMaxBytes caps the size of a fetched image.
const DefaultMaxBytes = 20 << 20

// Encoder fetches remote images and encodes them as raw base64.
type Encoder struct {
	client       *http.Client
	userAgent    string
	maxBytes     int64
	allowPrivate bool
	lookup       LookupFunc
	cache        *cache.Cache
	inflight     singleflight.Group
	logger       *slog.Logger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Encoder) {
		e.client = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Encoder) {
		e.userAgent = ua
	}
}

// WithMaxBytes caps the number of bytes read from a response body.
func WithMaxBytes(n int64) Option {
	return func(e *Encoder) {
		e.maxBytes = n
	}
}

// AllowPrivateHosts disables the private and loopback address check.
func AllowPrivateHosts() Option {
	return func(e *Encoder) {
		e.allowPrivate = true
	}
}

// WithLookup replaces the host resolver used by the address check.
func WithLookup(fn LookupFunc) Option {
	return func(e *Encoder) {
		e.lookup = fn
	}
}

// WithCache keeps encoded payloads for ttl, keyed by URL, and shares one
// fetch between concurrent callers of the same URL. A ttl of zero leaves
// caching disabled.
func WithCache(ttl time.Duration) Option {
	return func(e *Encoder) {
		if ttl > 0 {
			e.cache = cache.New(ttl, 2*ttl)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) {
		e.logger = l
	}
}

// New creates an Encoder.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		client:    http.DefaultClient,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
		lookup:    defaultLookup,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Base64 fetches url and returns its body as standard base64 with no data URI prefix.
func (e *Encoder) Base64(ctx context.Context, url string) (string, error) {
	if e.cache == nil {
		return e.encode(ctx, url)
	}

	if v, ok := e.cache.Get(url); ok {
		e.logger.Debug("image cache hit", "url", url)
		return v.(string), nil
	}
	v, err, shared := e.inflight.Do(url, func() (any, error) {
		encoded, err := e.encode(ctx, url)
		if err != nil {
			return "", err
		}
		e.cache.Set(url, encoded, cache.DefaultExpiration)
		return encoded, nil
	})
	if shared {
		e.logger.Debug("image fetch shared", "url", url)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (e *Encoder) encode(ctx context.Context, url string) (string, error) {
	data, _, err := e.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Fetch performs a single GET of url and returns the body and its MIME type.
func (e *Encoder) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if err := CheckURL(url, e.allowPrivate, e.lookup); err != nil {
		return nil, "", &lumina.ImageError{Op: "fetch", URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &lumina.ImageError{Op: "fetch", URL: url, Err: err}
	}
	req.Header.Set("User-Agent", e.userAgent)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", &lumina.ImageError{Op: "fetch", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		cause := lumina.WrapStatusError(resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
		return nil, "", &lumina.ImageError{Op: "fetch", URL: url, Err: cause}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, "", &lumina.ImageError{Op: "read", URL: url, Err: err}
	}
	if int64(len(data)) > e.maxBytes {
		return nil, "", &lumina.ImageError{Op: "read", URL: url, Err: fmt.Errorf("image exceeds %d bytes", e.maxBytes)}
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = InferMIMEType(url)
	}

	e.logger.Debug("image fetched",
		"url", url,
		"bytes", len(data),
		"mime_type", mimeType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return data, mimeType, nil
}

var _ lumina.Encoder = (*Encoder)(nil)
