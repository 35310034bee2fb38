package resource

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveDataURIPng(t *testing.T) {
	data := pngBytes(t, 8, 4)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	res, err := NewClient().Resolve(context.Background(), uri)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindImage {
		t.Errorf("kind = %v, want image", res.Kind)
	}
	if res.NaturalWidth != 8 || res.NaturalHeight != 4 {
		t.Errorf("natural = (%v, %v), want (8, 4)", res.NaturalWidth, res.NaturalHeight)
	}
}

func TestResolveInlineSvg(t *testing.T) {
	res, err := NewClient().Resolve(context.Background(), `<svg viewBox="0 0 24 16"></svg>`)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindSvg {
		t.Errorf("kind = %v, want svg", res.Kind)
	}
	if res.NaturalWidth != 24 || res.NaturalHeight != 16 {
		t.Errorf("natural = (%v, %v), want (24, 16)", res.NaturalWidth, res.NaturalHeight)
	}
}

func TestResolveHTTP(t *testing.T) {
	data := pngBytes(t, 3, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	res, err := NewClient().Resolve(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.NaturalWidth != 3 || res.NaturalHeight != 5 {
		t.Errorf("natural = (%v, %v), want (3, 5)", res.NaturalWidth, res.NaturalHeight)
	}
}

func TestResolveHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewClient().Resolve(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestResolveEmptySrc(t *testing.T) {
	if _, err := NewClient().Resolve(context.Background(), ""); err == nil {
		t.Error("expected error for empty src")
	}
}

type countingResolver struct {
	calls atomic.Int64
	inner Resolver
}

func (c *countingResolver) Resolve(ctx context.Context, src string) (*Resource, error) {
	c.calls.Add(1)
	return c.inner.Resolve(ctx, src)
}

func TestCacheResolvesOnce(t *testing.T) {
	counting := &countingResolver{inner: NewClient()}
	cache := NewCache(counting)

	src := `<svg viewBox="0 0 1 1"></svg>`
	for i := 0; i < 3; i++ {
		if _, err := cache.Resolve(context.Background(), src); err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
	}
	if got := counting.calls.Load(); got != 1 {
		t.Errorf("inner resolver called %d times, want 1", got)
	}
}

func TestCacheCachesFailures(t *testing.T) {
	counting := &countingResolver{inner: NewClient()}
	cache := NewCache(counting)

	for i := 0; i < 2; i++ {
		if _, err := cache.Resolve(context.Background(), ""); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := counting.calls.Load(); got != 1 {
		t.Errorf("inner resolver called %d times, want 1", got)
	}
}

func TestPrewarmDeduplicates(t *testing.T) {
	counting := &countingResolver{inner: NewClient()}
	cache := NewCache(counting)

	a := `<svg viewBox="0 0 1 1"></svg>`
	b := `<svg viewBox="0 0 2 2"></svg>`
	cache.Prewarm(context.Background(), []string{a, b, a, "", b})

	if got := counting.calls.Load(); got != 2 {
		t.Errorf("inner resolver called %d times, want 2", got)
	}
}
