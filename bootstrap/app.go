package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/iockit/container"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
)

// App represents an iockit application with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config interface.
// Any struct embedding config.ServiceConfig automatically satisfies Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    greeter, err := container.Get[GreetingService](ctx, a.Container)
//	    ...
//	})
//	app.RunTask(ctx, task)
type App[C Config] struct {
	Name      string
	Version   string
	Cfg       C
	Container *container.Container
	Logger    *logger.Logger
	Summary   *Summary

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger and
// creates the container. Nothing is scanned or built until Run or RunTask.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	containerOpts := []container.Option{
		container.WithLocations(base.Container.Locations...),
		container.WithStrict(base.Container.Strict),
		container.WithLogger(app.Logger),
	}
	c, err := container.New(base.Container.BasePackage, append(containerOpts, o.containerOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	app.Container = c

	app.Summary = NewSummary(base.Name, base.Version, o.output)
	return app, nil
}

// OnConfigure registers a callback to run once the container is started.
// Use it to pull beans out of the container and hand them to the task.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck reports the components that failed to wire.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	failures := a.Container.WiringErrors()
	if len(failures) > 0 {
		return fmt.Errorf("%d component(s) not wired: %v", len(failures), failures[0])
	}
	return nil
}

// Run executes the full application lifecycle for long-running services:
// Telemetry → Container start → OnStart hooks → Configure → ReadyCheck →
// OnReady hooks → Block on signal → OnStop hooks → Graceful Shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// Unlike Run(), it does not block on shutdown signals. It runs the task
// function and gracefully shuts down when the task completes or the context
// is canceled (e.g., via SIGINT/SIGTERM).
//
// Example:
//
//	app, _ := bootstrap.NewApp(&cfg)
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    return report(app.Container)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.shutdownTelemetry(context.Background())
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.initTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry initialization failed: %w", err)
	}

	// Phase 1: Container - scan, wire and run component startup hooks
	a.Logger.Info("Phase 1: Starting container")
	if err := a.Container.Start(ctx); err != nil {
		return fmt.Errorf("container start failed: %w", err)
	}
	a.Logger.Info("Phase 1: Container started", logger.Fields(logger.FieldCount, a.Container.SingletonCount()))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	// Phase 2: Configure
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()
	return nil
}

// initTelemetry installs the OTLP tracer and meter providers when enabled.
func (a *App[C]) initTelemetry(ctx context.Context) error {
	base := a.Cfg.GetServiceConfig()
	if !base.Observability.Enabled {
		return nil
	}

	info := observability.ServiceInfo{Name: base.Name, Version: base.Version, Environment: base.Environment}
	tp, err := observability.InitTracer(ctx, info, base.Observability)
	if err != nil {
		return err
	}
	a.tracerProvider = tp

	mp, err := observability.InitMeter(ctx, info, base.Observability)
	if err != nil {
		return err
	}
	a.meterProvider = mp

	a.Logger.Info("Telemetry export enabled", logger.Fields("endpoint", base.Observability.Endpoint))
	return nil
}

// DisplaySummary prints the startup summary collected from the container.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.Container)
}

func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Phase 2: Running configuration callbacks", map[string]interface{}{
		"count": len(a.onConfigure),
	})

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}

	a.Logger.Info("Phase 2: Configuration complete")
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs the OnStop hooks and flushes telemetry within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", err))
		shutdownErr = err
	}

	a.shutdownTelemetry(ctx)

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

func (a *App[C]) shutdownTelemetry(ctx context.Context) {
	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(ctx); err != nil {
			a.Logger.Warn("Meter provider shutdown error", logger.ErrorFields("meter_shutdown", err))
		}
		a.meterProvider = nil
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.Logger.Warn("Tracer provider shutdown error", logger.ErrorFields("tracer_shutdown", err))
		}
		a.tracerProvider = nil
	}
}
