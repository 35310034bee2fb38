package flexdoc

import (
	"go.uber.org/zap"

	"github.com/lvillar/flexdoc/resource"
)

// Option is a functional option for configuring a Renderer.
type Option func(*config)

type config struct {
	resolver resource.Resolver
	logger   *zap.Logger
	baseDir  string
	prewarm  bool
}

// WithResolver sets the resource resolver used for image and SVG sources.
// Without one, a default HTTP/file/data-URI client is used.
func WithResolver(r resource.Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithLogger sets a logger that receives accumulated warnings after each
// render. By default warnings are only returned in the Result.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithBaseDir anchors relative file paths in image and SVG sources. Only
// effective with the default resolver.
func WithBaseDir(dir string) Option {
	return func(c *config) {
		c.baseDir = dir
	}
}

// WithoutPrewarm disables the concurrent resource pre-fetch that normally
// runs before layout; sources are then resolved lazily during measure.
func WithoutPrewarm() Option {
	return func(c *config) {
		c.prewarm = false
	}
}
