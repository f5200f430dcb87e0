// Package bootstrap orchestrates the lifecycle of iockit applications.
//
// It wires typed configuration, the logger, optional OTLP telemetry and the
// IoC container together, and adds application-level hooks around the
// container's own startup phases.
//
// # Quick Start
//
//	var cfg config.ServiceConfig
//	_ = config.LoadConfig("iocdemo", &cfg)
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = app.RunTask(ctx, func(ctx context.Context) error { return nil })
//
// Run blocks until SIGINT/SIGTERM; RunTask returns when the task does.
package bootstrap
