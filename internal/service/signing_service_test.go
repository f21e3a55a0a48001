package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appconfig "github.com/shopupgh/shopup-api/internal/config"
	"github.com/shopupgh/shopup-api/internal/utils"
)

type fakeSigner struct {
	calls    int
	failPath string
}

func (f *fakeSigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.calls++
	if key == f.failPath {
		return "", fmt.Errorf("presign failed")
	}
	return fmt.Sprintf("https://bucket.test/%s?sig=abc&ttl=%d", key, int(ttl.Seconds())), nil
}

type fakeURLCache struct {
	entries map[string]string
	puts    int
}

func newFakeURLCache() *fakeURLCache {
	return &fakeURLCache{entries: map[string]string{}}
}

func (f *fakeURLCache) Get(ctx context.Context, path string, signTTL time.Duration) string {
	return f.entries[path]
}

func (f *fakeURLCache) Put(ctx context.Context, path string, signTTL time.Duration, u string) error {
	f.entries[path] = u
	f.puts++
	return nil
}

func signingCfg() appconfig.ImagesConfig {
	return appconfig.ImagesConfig{SignTTL: 10 * time.Minute, MaxSignBatch: 60}
}

func TestSignPathsReturnsPathKeyedMap(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewSigningService(signer, nil, signingCfg())

	paths := []string{
		"seller/s1/product/p1/a.jpg",
		"seller/s1/product/p1/b.jpg",
	}
	got, err := svc.SignPaths(context.Background(), &SignRequest{Paths: paths})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range paths {
		require.Contains(t, got[p], p)
	}
}

func TestSignPathsRejectsForeignPrefix(t *testing.T) {
	svc := NewSigningService(&fakeSigner{}, nil, signingCfg())

	_, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{
		"seller/s1/product/p1/a.jpg",
		"private/other/secret.jpg",
	}})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestSignPathsCapsBatchSize(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewSigningService(signer, nil, signingCfg())

	paths := make([]string, 0, 70)
	for i := 0; i < 70; i++ {
		paths = append(paths, fmt.Sprintf("seller/s1/product/p1/%d.jpg", i))
	}
	got, err := svc.SignPaths(context.Background(), &SignRequest{Paths: paths})
	require.NoError(t, err)
	require.Len(t, got, 60)
	require.Equal(t, 60, signer.calls)
}

func TestSignPathsSkipsEmptyAndFailedPaths(t *testing.T) {
	signer := &fakeSigner{failPath: "seller/s1/product/p1/broken.jpg"}
	svc := NewSigningService(signer, nil, signingCfg())

	got, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{
		"",
		"seller/s1/product/p1/good.jpg",
		"seller/s1/product/p1/broken.jpg",
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Contains(t, got, "seller/s1/product/p1/good.jpg")
	require.NotContains(t, got, "seller/s1/product/p1/broken.jpg")
}

func TestSignPathsEmptyRequest(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewSigningService(signer, nil, signingCfg())

	got, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{"", ""}})
	require.NoError(t, err)
	require.Empty(t, got)
	require.Zero(t, signer.calls)
}

func TestSignPathsUsesCache(t *testing.T) {
	signer := &fakeSigner{}
	cache := newFakeURLCache()
	svc := NewSigningService(signer, cache, signingCfg())

	path := "seller/s1/product/p1/a.jpg"
	first, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{path}})
	require.NoError(t, err)
	require.Equal(t, 1, signer.calls)
	require.Equal(t, 1, cache.puts)

	second, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{path}})
	require.NoError(t, err)
	require.Equal(t, 1, signer.calls)
	require.Equal(t, first[path], second[path])
}

func TestSignPathsTransformCacheKeysDiffer(t *testing.T) {
	signer := &fakeSigner{}
	cache := newFakeURLCache()
	cfg := signingCfg()
	cfg.ResizeProxyURL = "https://resize.test/"
	svc := NewSigningService(signer, cache, cfg)

	path := "seller/s1/product/p1/a.jpg"
	_, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{path}})
	require.NoError(t, err)

	// A transformed request must not hit the plain cache entry.
	_, err = svc.SignPaths(context.Background(), &SignRequest{
		Paths:     []string{path},
		Transform: &Transform{Width: 300},
	})
	require.NoError(t, err)
	require.Equal(t, 2, signer.calls)
}

func TestSignPathsExpiresInOverride(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewSigningService(signer, nil, signingCfg())

	path := "seller/s1/product/p1/a.jpg"
	got, err := svc.SignPaths(context.Background(), &SignRequest{Paths: []string{path}, ExpiresIn: 600})
	require.NoError(t, err)
	require.Contains(t, got[path], "ttl=600")
}

func TestSignPathsTransformRoutesThroughProxy(t *testing.T) {
	signer := &fakeSigner{}
	cfg := signingCfg()
	cfg.ResizeProxyURL = "https://resize.test"
	svc := NewSigningService(signer, nil, cfg)

	path := "seller/s1/product/p1/a.jpg"
	got, err := svc.SignPaths(context.Background(), &SignRequest{
		Paths:     []string{path},
		Transform: &Transform{Width: 300, Height: 200, Resize: "cover", Quality: 80},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got[path], "https://resize.test?"))

	u, err := url.Parse(got[path])
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "300", q.Get("w"))
	require.Equal(t, "200", q.Get("h"))
	require.Equal(t, "cover", q.Get("fit"))
	require.Equal(t, "80", q.Get("q"))
	require.Contains(t, q.Get("url"), path)
}

func TestSignPathsTransformIgnoredWithoutProxy(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewSigningService(signer, nil, signingCfg())

	path := "seller/s1/product/p1/a.jpg"
	got, err := svc.SignPaths(context.Background(), &SignRequest{
		Paths:     []string{path},
		Transform: &Transform{Width: 300},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got[path], "https://bucket.test/"))
}
