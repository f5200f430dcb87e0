// Package errors provides the structured error type used across iockit.
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable ErrorCode, so callers can tell a circular dependency from
// an ambiguous constructor without matching on message text.
package errors
