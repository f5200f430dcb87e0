package container

import (
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
)

// Option configures a Container during creation.
type Option func(*options)

type options struct {
	catalog   *catalog.Catalog
	locations []string
	fs        afero.Fs
	logger    *logger.Logger
	strict    bool
	tracer    trace.Tracer
	metrics   *observability.ContainerMetrics
}

func resolveOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCatalog sets the catalog types are loaded from. Defaults to
// catalog.Default.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithLocations sets the scanned resource locations. Defaults to the catalog
// itself.
func WithLocations(locations ...string) Option {
	return func(o *options) {
		o.locations = append(o.locations, locations...)
	}
}

// WithFileSystem sets the file system file and zip locations are read from.
func WithFileSystem(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger sets the container logger. If not set, the global logger is used.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStrict makes Start return the collected wiring failures as one
// WIRING_FAILED error.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithTracer sets the tracer for container, creation and hook spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithMetrics sets the instruments updated during wiring and dispatch.
func WithMetrics(m *observability.ContainerMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
