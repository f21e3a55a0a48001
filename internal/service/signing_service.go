package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	appconfig "github.com/shopupgh/shopup-api/internal/config"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// Transform describes an optional server-side image transformation applied
// when a resize proxy fronts the bucket.
type Transform struct {
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Resize  string `json:"resize,omitempty"` // cover | contain | fill
	Quality int    `json:"quality,omitempty"`
}

// SignRequest is a batch request for signed image URLs.
type SignRequest struct {
	Paths     []string   `json:"paths"`
	ExpiresIn int        `json:"expiresIn,omitempty"` // seconds
	Transform *Transform `json:"transform,omitempty"`
}

// URLSigner issues a time-limited signed URL for one object key.
type URLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// URLCache caches signed URLs keyed by path (and transform fingerprint).
type URLCache interface {
	Get(ctx context.Context, path string, signTTL time.Duration) string
	Put(ctx context.Context, path string, signTTL time.Duration, url string) error
}

// SigningService signs batches of product-image object keys. The response is
// always a map of path to URL: paths that fail to sign are simply absent, so
// nothing can silently misalign the way an order-dependent array would.
type SigningService struct {
	signer URLSigner
	cache  URLCache
	cfg    appconfig.ImagesConfig
}

// NewSigningService constructs a SigningService. cache may be nil.
func NewSigningService(signer URLSigner, cache URLCache, cfg appconfig.ImagesConfig) *SigningService {
	return &SigningService{signer: signer, cache: cache, cfg: cfg}
}

// SignPaths signs up to the configured batch cap of object keys and returns
// the path→URL map. Every key must live under the seller prefix; anything
// else is rejected outright since the bucket policy would never grant it.
func (s *SigningService) SignPaths(ctx context.Context, req *SignRequest) (map[string]string, error) {
	paths := make([]string, 0, len(req.Paths))
	for _, p := range req.Paths {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return map[string]string{}, nil
	}

	// Bound request cost.
	if len(paths) > s.cfg.MaxSignBatch {
		paths = paths[:s.cfg.MaxSignBatch]
	}

	for _, p := range paths {
		if !strings.HasPrefix(p, ObjectKeyPrefix) {
			return nil, fmt.Errorf("%w: invalid image path", utils.ErrValidation)
		}
	}

	ttl := s.cfg.SignTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Second
	}

	result := make(map[string]string, len(paths))
	for _, p := range paths {
		cacheKey := p + transformFingerprint(req.Transform)

		if s.cache != nil {
			if cached := s.cache.Get(ctx, cacheKey, ttl); cached != "" {
				result[p] = cached
				continue
			}
		}

		signed, err := s.signer.PresignGet(ctx, p, ttl)
		if err != nil {
			// Skip rather than fail the whole batch; the map shape makes the
			// omission visible to the caller.
			log.Warn().Err(err).Str("path", p).Msg("failed to sign image path")
			continue
		}

		signed = s.applyTransform(signed, req.Transform)
		result[p] = signed

		if s.cache != nil {
			if err := s.cache.Put(ctx, cacheKey, ttl, signed); err != nil {
				log.Warn().Err(err).Str("path", p).Msg("signed url cache write failed")
			}
		}
	}

	return result, nil
}

// applyTransform routes a signed URL through the resize proxy when one is
// configured. Without a proxy the transform is ignored and the plain signed
// URL is returned.
func (s *SigningService) applyTransform(signedURL string, t *Transform) string {
	if t == nil || s.cfg.ResizeProxyURL == "" {
		return signedURL
	}

	q := url.Values{}
	q.Set("url", signedURL)
	if t.Width > 0 {
		q.Set("w", strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		q.Set("h", strconv.Itoa(t.Height))
	}
	if t.Resize != "" {
		q.Set("fit", t.Resize)
	}
	if t.Quality > 0 {
		q.Set("q", strconv.Itoa(t.Quality))
	}
	return strings.TrimSuffix(s.cfg.ResizeProxyURL, "/") + "?" + q.Encode()
}

// transformFingerprint distinguishes cache entries for different transforms
// of the same path.
func transformFingerprint(t *Transform) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("|t:%d:%d:%s:%d", t.Width, t.Height, t.Resize, t.Quality)
}
