// Package resource resolves image and SVG sources for the layout engine.
//
// A source is a URL, a data URI or a local file path. The resolver returns
// raw bytes plus the content kind and, for raster images, the natural pixel
// dimensions decoded from the header. The engine wraps a resolver in a
// per-render cache so each distinct src is fetched at most once.
package resource

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	// Raster formats beyond the stdlib set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lvillar/flexdoc/svg"
)

// Kind classifies resolved content.
type Kind int

const (
	KindImage Kind = iota
	KindSvg
)

// Resource is a resolved source.
type Resource struct {
	Bytes []byte
	Kind  Kind
	// Natural dimensions: pixels for raster images (1px = 1pt at 72 DPI),
	// viewBox units for SVG.
	NaturalWidth  float64
	NaturalHeight float64
}

// Resolver fetches a source. Implementations must be safe for concurrent
// use; Prewarm calls Resolve from multiple goroutines.
type Resolver interface {
	Resolve(ctx context.Context, src string) (*Resource, error)
}

// Client resolves http(s) URLs, data URIs and local file paths.
type Client struct {
	HTTP *http.Client
	// BaseDir anchors relative file paths; empty means the process working
	// directory.
	BaseDir string
}

// NewClient returns a Client with a 10 second HTTP timeout.
func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Resolve fetches src and classifies the content.
func (c *Client) Resolve(ctx context.Context, src string) (*Resource, error) {
	if src == "" {
		return nil, errors.New("resource: empty src")
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err = decodeDataURI(src)
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		data, err = c.fetch(ctx, src)
	case strings.HasPrefix(src, "<svg") || strings.HasPrefix(src, "<?xml"):
		// Inline SVG markup passed through the src/content field.
		data = []byte(src)
	default:
		path := src
		if c.BaseDir != "" && !strings.HasPrefix(path, "/") {
			path = c.BaseDir + "/" + path
		}
		data, err = os.ReadFile(path)
		err = errors.Wrapf(err, "resource: reading %s", src)
	}
	if err != nil {
		return nil, err
	}
	return classify(data)
}

func (c *Client) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "resource: building request for %s", src)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "resource: fetching %s", src)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("resource: fetching %s: status %d", src, resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, errors.Wrapf(err, "resource: reading %s", src)
	}
	return buf.Bytes(), nil
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errors.New("resource: malformed data URI")
	}
	header, payload := uri[:comma], uri[comma+1:]
	if strings.Contains(header, "base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		return data, errors.Wrap(err, "resource: decoding data URI")
	}
	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		// Not URL-encoded; use the payload as-is.
		return []byte(payload), nil
	}
	return []byte(decoded), nil
}

// classify detects SVG vs raster content and decodes natural dimensions.
func classify(data []byte) (*Resource, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<svg")) || bytes.HasPrefix(trimmed, []byte("<?xml")) {
		doc, err := svg.Parse(string(data))
		if err != nil {
			return nil, err
		}
		w, h := doc.IntrinsicSize()
		return &Resource{Bytes: data, Kind: KindSvg, NaturalWidth: w, NaturalHeight: h}, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "resource: decoding image header")
	}
	return &Resource{
		Bytes:         data,
		Kind:          KindImage,
		NaturalWidth:  float64(cfg.Width),
		NaturalHeight: float64(cfg.Height),
	}, nil
}
