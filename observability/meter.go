package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/iockit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, info ServiceInfo, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", info.Name,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricBeansCreated     = "ioc.beans.created"
	MetricBeansFailed      = "ioc.beans.failed"
	MetricBeanCreationTime = "ioc.beans.creation_duration"
	MetricHooksInvoked     = "ioc.hooks.invoked"
	MetricHooksFailed      = "ioc.hooks.failed"
)

// ContainerMetrics holds the instruments recorded while beans are created and
// startup hooks run. A nil *ContainerMetrics records nothing.
type ContainerMetrics struct {
	beansCreated     metric.Int64Counter
	beansFailed      metric.Int64Counter
	creationDuration metric.Float64Histogram
	hooksInvoked     metric.Int64Counter
	hooksFailed      metric.Int64Counter
}

// NewContainerMetrics creates metric instruments on the given meter.
func NewContainerMetrics(meter metric.Meter) (*ContainerMetrics, error) {
	beansCreated, err := meter.Int64Counter(MetricBeansCreated,
		metric.WithDescription("Number of singleton instances created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBeansCreated, err)
	}

	beansFailed, err := meter.Int64Counter(MetricBeansFailed,
		metric.WithDescription("Number of failed instance creations by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBeansFailed, err)
	}

	creationDuration, err := meter.Float64Histogram(MetricBeanCreationTime,
		metric.WithDescription("Duration of instance creation in seconds, dependencies included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricBeanCreationTime, err)
	}

	hooksInvoked, err := meter.Int64Counter(MetricHooksInvoked,
		metric.WithDescription("Number of startup hooks invoked"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricHooksInvoked, err)
	}

	hooksFailed, err := meter.Int64Counter(MetricHooksFailed,
		metric.WithDescription("Number of startup hooks that panicked or returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricHooksFailed, err)
	}

	return &ContainerMetrics{
		beansCreated:     beansCreated,
		beansFailed:      beansFailed,
		creationDuration: creationDuration,
		hooksInvoked:     hooksInvoked,
		hooksFailed:      hooksFailed,
	}, nil
}

// RecordBeanCreated records a successful instance creation.
func (m *ContainerMetrics) RecordBeanCreated(ctx context.Context, typeName string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrType, typeName))
	m.beansCreated.Add(ctx, 1, attrs)
	m.creationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordBeanFailed records a failed instance creation.
func (m *ContainerMetrics) RecordBeanFailed(ctx context.Context, typeName, code string) {
	if m == nil {
		return
	}
	m.beansFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
		attribute.String(AttrErrorCode, code),
	))
}

// RecordHookInvoked records a startup hook invocation.
func (m *ContainerMetrics) RecordHookInvoked(ctx context.Context, typeName, hook string) {
	if m == nil {
		return
	}
	m.hooksInvoked.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
		attribute.String(AttrHook, hook),
	))
}

// RecordHookFailed records a startup hook that panicked or returned an error.
func (m *ContainerMetrics) RecordHookFailed(ctx context.Context, typeName, hook, kind string) {
	if m == nil {
		return
	}
	m.hooksFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
		attribute.String(AttrHook, hook),
		attribute.String(AttrErrorKind, kind),
	))
}
