package lifecycle

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
	"github.com/kbukum/iockit/registry"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Hook is one startup method bound to its instance.
type Hook struct {
	Type     *catalog.ComponentType
	Instance any
	Method   string
}

func (h Hook) String() string { return h.Type.QualifiedName + "." + h.Method }

// Outcome is the result of a single hook.
type Outcome string

const (
	OutcomeInvoked Outcome = "invoked"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Result records what happened to one hook.
type Result struct {
	Hook     Hook
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Report summarises a dispatch pass.
type Report struct {
	Invoked int
	Skipped int
	Failed  int
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeInvoked:
		r.Invoked++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// Dispatcher invokes startup hooks.
type Dispatcher struct {
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ContainerMetrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithTracer sets the tracer used for hook spans.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithMetrics sets the instruments updated per hook.
func WithMetrics(m *observability.ContainerMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:    logger.NewNop(),
		tracer: observability.Tracer(observability.InstrumentationName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Hooks lists the declared hooks of entries in entry order, then declaration
// order.
func Hooks(entries []registry.Entry) []Hook {
	var hooks []Hook
	for _, e := range entries {
		for _, m := range e.Type.StartHooks {
			hooks = append(hooks, Hook{Type: e.Type, Instance: e.Instance, Method: m})
		}
	}
	return hooks
}

// Dispatch runs every hook declared by entries. It never fails; the report
// tells what ran.
func (d *Dispatcher) Dispatch(ctx context.Context, entries []registry.Entry) Report {
	var report Report
	for _, h := range Hooks(entries) {
		report.add(d.run(ctx, h))
	}

	d.log.Info("Startup hooks dispatched", map[string]interface{}{
		"invoked": report.Invoked,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	})
	return report
}

func (d *Dispatcher) run(ctx context.Context, h Hook) Result {
	fields := map[string]interface{}{
		logger.FieldType: h.Type.QualifiedName,
		logger.FieldHook: h.Method,
	}

	m := reflect.ValueOf(h.Instance).MethodByName(h.Method)
	if !m.IsValid() {
		d.log.Warn("Skipping startup hook: no exported method with that name", fields)
		return Result{Hook: h, Outcome: OutcomeSkipped}
	}
	if n := m.Type().NumIn(); n != 0 {
		fields["params"] = n
		d.log.Warn("Skipping startup hook: method must take no arguments", fields)
		return Result{Hook: h, Outcome: OutcomeSkipped}
	}

	ctx, span := d.tracer.Start(ctx, observability.SpanStartupHook, trace.WithAttributes(
		attribute.String(observability.AttrType, h.Type.QualifiedName),
		attribute.String(observability.AttrHook, h.Method),
	))
	defer span.End()

	start := time.Now()
	kind, err := call(m)
	elapsed := time.Since(start)
	d.metrics.RecordHookInvoked(ctx, h.Type.QualifiedName, h.Method)

	if err != nil {
		observability.SetSpanError(span, err)
		d.metrics.RecordHookFailed(ctx, h.Type.QualifiedName, h.Method, kind)
		fields[logger.FieldErrorKind] = kind
		fields[logger.FieldError] = err.Error()
		d.log.Error("Startup hook failed", fields)
		return Result{Hook: h, Outcome: OutcomeFailed, Err: err, Duration: elapsed}
	}

	d.log.Debug("Startup hook invoked", fields)
	return Result{Hook: h, Outcome: OutcomeInvoked, Duration: elapsed}
}

// call invokes m and returns the dynamic type of the panic or returned error
// along with the error itself.
func call(m reflect.Value) (kind string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			kind = fmt.Sprintf("%T", rec)
			if e, ok := rec.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", rec)
			}
		}
	}()

	out := m.Call(nil)
	if n := len(out); n > 0 && m.Type().Out(n-1) == errorType {
		if e, _ := out[n-1].Interface().(error); e != nil {
			return fmt.Sprintf("%T", e), e
		}
	}
	return "", nil
}
