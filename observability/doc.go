// Package observability provides OpenTelemetry tracing and metrics for the
// container.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, info, cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, info, cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewContainerMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordBeanCreated(ctx, "demo/services.AlphaService", elapsed)
//
// Without initialisation the global no-op providers are used, so spans and
// counters cost nothing.
package observability
