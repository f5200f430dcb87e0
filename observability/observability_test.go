package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
	if cfg.Enabled {
		t.Error("export must stay disabled unless asked for")
	}

	custom := Config{Endpoint: "collector:4318", SampleRate: 0.25, Interval: time.Second}
	custom.ApplyDefaults()
	if custom.Endpoint != "collector:4318" || custom.SampleRate != 0.25 || custom.Interval != time.Second {
		t.Errorf("defaults must not override explicit values: %+v", custom)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.rate), func(t *testing.T) {
			if got := samplerFor(tc.rate).Description(); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(ServiceInfo{Name: "iocdemo", Version: "1.2.3", Environment: "test"})
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "iocdemo" {
		t.Errorf("expected service.name iocdemo, got %q", found["service.name"])
	}
	if found["service.version"] != "1.2.3" {
		t.Errorf("expected service.version 1.2.3, got %q", found["service.version"])
	}
	if found["environment"] != "test" {
		t.Errorf("expected environment test, got %q", found["environment"])
	}
}

func TestTracerAndMeter(t *testing.T) {
	if Tracer("test-tracer") == nil {
		t.Fatal("expected non-nil tracer")
	}
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "failing")
	SetSpanError(span, fmt.Errorf("boom"))
	SetSpanError(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status())
	}
	if len(ended[0].Events()) != 1 {
		t.Errorf("expected one recorded error event, got %d", len(ended[0].Events()))
	}

	// non-recording spans are ignored
	SetSpanError(nil, fmt.Errorf("no span"))
}

func TestContainerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewContainerMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewContainerMetrics failed: %v", err)
	}

	ctx := context.Background()
	m.RecordBeanCreated(ctx, "demo.Alpha", 2*time.Millisecond)
	m.RecordBeanCreated(ctx, "demo.Beta", time.Millisecond)
	m.RecordBeanFailed(ctx, "demo.Broken", "INSTANTIATION_FAILED")
	m.RecordHookInvoked(ctx, "demo.Runner", "Run")
	m.RecordHookFailed(ctx, "demo.Runner", "Run", "*errors.errorString")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[md.Name] += dp.Value
				}
			}
		}
	}

	want := map[string]int64{
		MetricBeansCreated: 2,
		MetricBeansFailed:  1,
		MetricHooksInvoked: 1,
		MetricHooksFailed:  1,
	}
	for name, v := range want {
		if totals[name] != v {
			t.Errorf("%s = %d, want %d", name, totals[name], v)
		}
	}
}

func TestContainerMetricsNilSafe(t *testing.T) {
	var m *ContainerMetrics
	ctx := context.Background()
	m.RecordBeanCreated(ctx, "x", time.Millisecond)
	m.RecordBeanFailed(ctx, "x", "code")
	m.RecordHookInvoked(ctx, "x", "h")
	m.RecordHookFailed(ctx, "x", "h", "kind")
}

func TestContainerMetricsNoop(t *testing.T) {
	m, err := NewContainerMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	m.RecordBeanCreated(context.Background(), "x", time.Millisecond)
}

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"always sample", Config{Endpoint: "localhost:4318", Insecure: true, SampleRate: 1.0}},
		{"never sample", Config{Endpoint: "localhost:4318", Insecure: true, SampleRate: 0}},
		{"ratio based secure", Config{Endpoint: "localhost:4318", SampleRate: 0.5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tp, err := InitTracer(context.Background(), ServiceInfo{Name: "test", Version: "1.0.0", Environment: "test"}, tc.cfg)
			if err != nil {
				t.Fatalf("InitTracer failed: %v", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = tp.Shutdown(ctx)
		})
	}
}

func TestInitMeter(t *testing.T) {
	mp, err := InitMeter(context.Background(), ServiceInfo{Name: "test", Version: "1.0.0", Environment: "test"},
		Config{Endpoint: "localhost:4318", Insecure: true, Interval: time.Hour})
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}
