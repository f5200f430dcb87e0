package container

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/spf13/afero"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/iockit/annotation"
	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
	"github.com/kbukum/iockit/scan"
)

var hookOutput bytes.Buffer

type alphaService struct {
	annotation.Component `component:"alpha"`
}

func (a *alphaService) Name() string { return "AlphaService" }

type betaService struct {
	annotation.Component
	alpha *alphaService
}

func newBetaService(a *alphaService) *betaService { return &betaService{alpha: a} }

func (b *betaService) Ping() string { return "beta->" + b.alpha.Name() }

type greetingService struct {
	annotation.Component
}

func (g *greetingService) Hello() string { return "Hello, IOC!" }

type startupRunner struct {
	annotation.Component
	greeting *greetingService `inject:""`
}

func (r *startupRunner) Run() {
	fmt.Fprintln(&hookOutput, r.greeting.Hello())
	fmt.Fprintln(&hookOutput, "Container started.")
}

type brokenService struct {
	annotation.Component
}

type loopA struct {
	annotation.Component
	B *loopB `inject:""`
}

type loopB struct {
	annotation.Component
	A *loopA `inject:""`
}

type badHook struct {
	annotation.Component
}

func (b *badHook) Configure(string) {}

var testPackage = reflect.TypeOf(alphaService{}).PkgPath()

func demoCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	for _, err := range []error{
		catalog.Register[alphaService](c),
		catalog.Register[betaService](c, catalog.InjectConstructor(newBetaService)),
		catalog.Register[greetingService](c),
		catalog.Register[startupRunner](c, catalog.OnStart("Run")),
	} {
		if err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return c
}

func newContainer(t *testing.T, c *catalog.Catalog, opts ...Option) *Container {
	t.Helper()
	hookOutput.Reset()
	opts = append([]Option{WithCatalog(c), WithLogger(logger.NewNop())}, opts...)
	ctr, err := New(testPackage, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ctr
}

func TestNewRejectsBlankBasePackage(t *testing.T) {
	for _, ns := range []string{"", "  \t"} {
		if _, err := New(ns); !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("New(%q): expected INVALID_ARGUMENT, got %v", ns, err)
		}
	}
}

func TestStartEndToEnd(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, demoCatalog(t))

	if c.State() != StateUnstarted {
		t.Fatalf("expected unstarted, got %s", c.State())
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if c.State() != StateCallbacksInvoked {
		t.Errorf("expected callbacks_invoked, got %s", c.State())
	}
	if c.SingletonCount() != 4 {
		t.Errorf("expected 4 singletons, got %d", c.SingletonCount())
	}
	if len(c.Components()) != 4 {
		t.Errorf("expected 4 components, got %d", len(c.Components()))
	}
	if c.BasePackage() != testPackage {
		t.Errorf("unexpected base package %q", c.BasePackage())
	}

	alpha := MustGet[alphaService](ctx, c)
	beta := MustGet[betaService](ctx, c)
	if beta.alpha != alpha {
		t.Error("expected beta's alpha to be the registry instance")
	}
	if beta.Ping() != "beta->AlphaService" {
		t.Errorf("unexpected ping %q", beta.Ping())
	}

	if got, want := hookOutput.String(), "Hello, IOC!\nContainer started.\n"; got != want {
		t.Errorf("hook output = %q, want %q", got, want)
	}
	if r := c.HookReport(); r.Invoked != 1 || r.Failed != 0 || r.Skipped != 0 {
		t.Errorf("unexpected hook report %+v", r)
	}
	if c.SingletonCount() != 4 {
		t.Errorf("lookups after start must not create new singletons, got %d", c.SingletonCount())
	}
}

func TestSingletonIdempotence(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, demoCatalog(t))
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}

	for _, ct := range c.Components() {
		first, err := c.GetBean(ctx, ct.Type)
		if err != nil || first == nil {
			t.Fatalf("GetBean(%s) = %v, %v", ct, first, err)
		}
		for i := 0; i < 3; i++ {
			again, _ := c.GetBean(ctx, ct.Type)
			if again != first {
				t.Errorf("GetBean(%s) returned a different instance", ct)
			}
		}
	}
}

func TestStartTwice(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, demoCatalog(t))
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	out := hookOutput.String()

	err := c.Start(ctx)
	if !errors.HasCode(err, errors.ErrCodeAlreadyStarted) {
		t.Fatalf("expected ALREADY_STARTED, got %v", err)
	}
	if hookOutput.String() != out {
		t.Error("hooks must run only once")
	}
}

func TestGetNamed(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, demoCatalog(t))
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}

	named, err := GetNamed[alphaService](c, "alpha")
	if err != nil {
		t.Fatalf("GetNamed failed: %v", err)
	}
	if named != MustGet[alphaService](ctx, c) {
		t.Error("name alias must point at the type-keyed instance")
	}
	if _, err := GetNamed[betaService](c, "alpha"); err == nil {
		t.Error("expected type mismatch error")
	}
	if _, err := c.GetBeanByName("missing"); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestWiringFailuresAreCollected(t *testing.T) {
	cat := demoCatalog(t)
	_ = catalog.Register[brokenService](cat,
		catalog.InjectConstructor(func() *brokenService { return &brokenService{} }),
		catalog.InjectConstructor(func(*alphaService) *brokenService { return &brokenService{} }),
	)

	c := newContainer(t, cat)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("lenient Start must not fail: %v", err)
	}

	errs := c.WiringErrors()
	if len(errs) != 1 || !errors.HasCode(errs[0], errors.ErrCodeAmbiguousConstructor) {
		t.Fatalf("expected one AMBIGUOUS_CONSTRUCTOR failure, got %v", errs)
	}
	if c.SingletonCount() != 4 {
		t.Errorf("the rest of the graph must still wire, got %d", c.SingletonCount())
	}
	if hookOutput.Len() == 0 {
		t.Error("hooks must run despite wiring failures")
	}
}

func TestStrictStartReturnsBatch(t *testing.T) {
	cat := demoCatalog(t)
	_ = catalog.Register[brokenService](cat, catalog.Constructor(func(*alphaService) *brokenService { return nil }))
	_ = catalog.Register[loopA](cat)
	_ = catalog.Register[loopB](cat)

	c := newContainer(t, cat, WithStrict(true))
	err := c.Start(context.Background())
	if !errors.HasCode(err, errors.ErrCodeWiringFailed) {
		t.Fatalf("expected WIRING_FAILED, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["failures"] != 3 {
		t.Errorf("expected 3 failures, got %v", appErr.Details["failures"])
	}
	if c.State() != StateCallbacksInvoked {
		t.Errorf("hooks run in strict mode too, state %s", c.State())
	}
	if hookOutput.Len() == 0 {
		t.Error("expected the runner hook to run")
	}
}

func TestCycleDoesNotBlockOtherComponents(t *testing.T) {
	ctx := context.Background()
	cat := demoCatalog(t)
	_ = catalog.Register[loopA](cat)
	_ = catalog.Register[loopB](cat)

	c := newContainer(t, cat)
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for _, err := range c.WiringErrors() {
		if !errors.HasCode(err, errors.ErrCodeCircularDependency) {
			t.Errorf("expected CIRCULAR_DEPENDENCY, got %v", err)
		}
	}
	if len(c.WiringErrors()) != 2 {
		t.Errorf("expected both loop types to fail, got %d", len(c.WiringErrors()))
	}
	if _, err := Get[greetingService](ctx, c); err != nil {
		t.Errorf("unrelated component must resolve: %v", err)
	}
	if _, err := Get[loopA](ctx, c); !errors.HasCode(err, errors.ErrCodeCircularDependency) {
		t.Errorf("expected the cycle to be reported again, got %v", err)
	}
}

func TestBadHookIsSkipped(t *testing.T) {
	cat := demoCatalog(t)
	_ = catalog.Register[badHook](cat, catalog.OnStart("Configure"))

	c := newContainer(t, cat)
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	r := c.HookReport()
	if r.Skipped != 1 || r.Invoked != 1 {
		t.Errorf("unexpected report %+v", r)
	}
	if hookOutput.String() != "Hello, IOC!\nContainer started.\n" {
		t.Errorf("other hooks must still run, got %q", hookOutput.String())
	}
}

func TestScanComponents(t *testing.T) {
	c := newContainer(t, demoCatalog(t))

	cts, err := c.ScanComponents(testPackage)
	if err != nil {
		t.Fatal(err)
	}
	if len(cts) != 4 {
		t.Errorf("expected 4 components, got %d", len(cts))
	}
	if c.SingletonCount() != 0 {
		t.Error("scanning must not create instances")
	}
	if _, err := c.ScanComponents(" "); !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestFileLocation(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := scan.ExportManifest(fs, "/types", []string{
		catalog.QualifiedName(reflect.TypeOf(greetingService{})),
		catalog.QualifiedName(reflect.TypeOf(startupRunner{})),
	})
	if err != nil {
		t.Fatal(err)
	}

	c := newContainer(t, demoCatalog(t), WithFileSystem(fs), WithLocations(scan.FileLocation("/types")))
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(c.Components()) != 2 || c.SingletonCount() != 2 {
		t.Errorf("expected only the listed types, got %d components and %d singletons",
			len(c.Components()), c.SingletonCount())
	}
	if hookOutput.String() != "Hello, IOC!\nContainer started.\n" {
		t.Errorf("unexpected hook output %q", hookOutput.String())
	}
}

func TestIndependentContainers(t *testing.T) {
	ctx := context.Background()
	cat := demoCatalog(t)
	c1 := newContainer(t, cat)
	c2 := newContainer(t, cat)

	a1 := MustGet[alphaService](ctx, c1)
	a2 := MustGet[alphaService](ctx, c2)
	if a1 == a2 {
		t.Error("containers must not share singletons")
	}
	if c1.ID() == c2.ID() {
		t.Error("containers must have distinct ids")
	}
}

func TestCreateInstance(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, demoCatalog(t))

	inst, err := c.CreateInstance(ctx, reflect.TypeOf(betaService{}))
	if err != nil {
		t.Fatal(err)
	}
	if inst.(*betaService).alpha == nil {
		t.Error("expected constructor injection")
	}
	if _, err := c.GetBean(ctx, nil); !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestConcurrentGetBeanAfterStart(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, demoCatalog(t))

	var wg sync.WaitGroup
	seen := make(chan *betaService, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := Get[betaService](ctx, c)
			if err == nil {
				seen <- b
			}
		}()
	}
	wg.Wait()
	close(seen)

	var first *betaService
	for b := range seen {
		if first == nil {
			first = b
		} else if b != first {
			t.Fatal("expected one instance across goroutines")
		}
	}
	if c.SingletonCount() != 2 {
		t.Errorf("expected beta and alpha only, got %d", c.SingletonCount())
	}
}

func TestStartSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	c := newContainer(t, demoCatalog(t), WithTracer(tp.Tracer("test")))
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for _, s := range sr.Ended() {
		counts[s.Name()]++
	}
	if counts[observability.SpanContainerStart] != 1 {
		t.Errorf("expected one container span, got %d", counts[observability.SpanContainerStart])
	}
	if counts[observability.SpanCreateInstance] != 4 {
		t.Errorf("expected 4 creation spans, got %d", counts[observability.SpanCreateInstance])
	}
	if counts[observability.SpanStartupHook] != 1 {
		t.Errorf("expected 1 hook span, got %d", counts[observability.SpanStartupHook])
	}
}
