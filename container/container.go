package container

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/di"
	"github.com/kbukum/iockit/errors"
	"github.com/kbukum/iockit/lifecycle"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
	"github.com/kbukum/iockit/registry"
	"github.com/kbukum/iockit/scan"
)

// Container owns the scanner, registry, resolver and dispatcher of one
// application. Containers are independent of each other.
type Container struct {
	id          string
	basePackage string
	strict      bool

	catalog    *catalog.Catalog
	scanner    *scan.Scanner
	registry   *registry.Registry
	resolver   *di.Resolver
	dispatcher *lifecycle.Dispatcher
	log        *logger.Logger
	tracer     trace.Tracer

	mu         sync.RWMutex
	started    bool
	state      State
	components []*catalog.ComponentType
	wiringErrs []error
	report     lifecycle.Report
}

var _ di.BeanFactory = (*Container)(nil)

// New creates a container rooted at basePackage, a Go package path such as
// "github.com/kbukum/iockit/demo".
func New(basePackage string, opts ...Option) (*Container, error) {
	ns := strings.TrimSpace(basePackage)
	if ns == "" {
		return nil, errors.InvalidArgument("basePackage", "must not be blank")
	}

	o := resolveOptions(opts)
	id := uuid.NewString()

	log := o.logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("container").WithContainerID(id)

	cat := o.catalog
	if cat == nil {
		cat = catalog.Default
	}

	tracer := o.tracer
	if tracer == nil {
		tracer = observability.Tracer(observability.InstrumentationName)
	}

	metrics := o.metrics
	if metrics == nil {
		m, err := observability.NewContainerMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			log.Warn("Container metrics unavailable", logger.ErrorFields("create_metrics", err))
		}
		metrics = m
	}

	scanOpts := []scan.Option{scan.WithLogger(log)}
	if len(o.locations) > 0 {
		scanOpts = append(scanOpts, scan.WithLocations(o.locations...))
	}
	if o.fs != nil {
		scanOpts = append(scanOpts, scan.WithFileSystem(o.fs))
	}

	reg := registry.New(log)
	c := &Container{
		id:          id,
		basePackage: ns,
		strict:      o.strict,
		catalog:     cat,
		scanner:     scan.New(cat, scanOpts...),
		registry:    reg,
		resolver: di.NewResolver(cat, reg,
			di.WithLogger(log), di.WithTracer(tracer), di.WithMetrics(metrics)),
		dispatcher: lifecycle.NewDispatcher(
			lifecycle.WithLogger(log), lifecycle.WithTracer(tracer), lifecycle.WithMetrics(metrics)),
		log:    log,
		tracer: tracer,
	}
	return c, nil
}

// Start scans the base package, creates every discovered component and runs
// the startup hooks. Per-type wiring failures are logged and collected; they
// are returned as one WIRING_FAILED error only in strict mode. Hooks run in
// either case. A second call fails with ALREADY_STARTED.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.AlreadyStarted(c.id)
	}
	c.started = true
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, observability.SpanContainerStart, trace.WithAttributes(
		attribute.String(observability.AttrContainerID, c.id),
	))
	defer span.End()

	start := time.Now()
	c.log.Info("Starting container", map[string]interface{}{
		logger.FieldNamespace: c.basePackage,
		"locations":           c.scanner.Locations(),
	})

	// Phase 1: scan
	components, err := c.scanner.Scan(c.basePackage)
	if err != nil {
		observability.SetSpanError(span, err)
		c.log.Error("Component scan failed", logger.ErrorFields("scan", err))
		return err
	}
	c.mu.Lock()
	c.components = components
	c.state = StateScanned
	c.mu.Unlock()
	c.log.Info("Phase 1: Components scanned", map[string]interface{}{
		logger.FieldPhase: StateScanned.String(),
		logger.FieldCount: len(components),
	})

	// Phase 2: eager wiring
	var failures []error
	for _, ct := range components {
		if _, err := c.resolver.GetBean(ctx, ct.Type); err != nil {
			failures = append(failures, err)
			c.log.Error("Component wiring failed", logger.MergeWithError(map[string]interface{}{
				logger.FieldType:      ct.QualifiedName,
				logger.FieldErrorKind: codeOf(err),
			}, err))
		}
	}
	c.mu.Lock()
	c.wiringErrs = failures
	c.state = StateWired
	c.mu.Unlock()
	c.log.Info("Phase 2: Components wired", map[string]interface{}{
		logger.FieldPhase: StateWired.String(),
		logger.FieldCount: c.registry.Count(),
		"failures":        len(failures),
	})

	// Phase 3: startup hooks
	report := c.dispatcher.Dispatch(ctx, c.registry.Snapshot())
	c.mu.Lock()
	c.report = report
	c.state = StateCallbacksInvoked
	c.mu.Unlock()

	span.SetAttributes(attribute.Int(observability.AttrCount, c.registry.Count()))
	c.log.Info("Container startup complete", logger.DurationFields("start", time.Since(start)))

	if c.strict && len(failures) > 0 {
		err := errors.WiringFailed(failures)
		observability.SetSpanError(span, err)
		return err
	}
	return nil
}

// GetBean returns the singleton of t, creating it on first use.
func (c *Container) GetBean(ctx context.Context, t reflect.Type) (any, error) {
	return c.resolver.GetBean(ctx, t)
}

// CreateInstance builds a new, unstored instance of t.
func (c *Container) CreateInstance(ctx context.Context, t reflect.Type) (any, error) {
	return c.resolver.CreateInstance(ctx, t)
}

// GetBeanByName returns the singleton bound to a declared component name.
func (c *Container) GetBeanByName(name string) (any, error) {
	if inst, ok := c.registry.GetByName(strings.TrimSpace(name)); ok {
		return inst, nil
	}
	return nil, errors.NotFound("bean", name)
}

// ScanComponents returns the component types under namespace without
// creating them.
func (c *Container) ScanComponents(namespace string) ([]*catalog.ComponentType, error) {
	return c.scanner.Scan(namespace)
}

// SingletonCount returns the number of stored singletons.
func (c *Container) SingletonCount() int { return c.registry.Count() }

// BasePackage returns the namespace the container was created with.
func (c *Container) BasePackage() string { return c.basePackage }

// ID returns the container instance id.
func (c *Container) ID() string { return c.id }

// State returns the current lifecycle state.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Components returns the component types found by Start.
func (c *Container) Components() []*catalog.ComponentType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*catalog.ComponentType(nil), c.components...)
}

// WiringErrors returns the per-type failures of the eager wiring pass.
func (c *Container) WiringErrors() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]error(nil), c.wiringErrs...)
}

// HookReport returns the outcome of the startup hook pass.
func (c *Container) HookReport() lifecycle.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

// Singletons returns the stored singletons in creation order.
func (c *Container) Singletons() []registry.Entry { return c.registry.Snapshot() }

func codeOf(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "UNKNOWN"
}
