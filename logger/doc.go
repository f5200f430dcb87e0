// Package logger provides structured logging for iockit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("scanner")
//	log.Info("scan complete", logger.Fields("count", 4))
package logger
