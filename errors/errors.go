package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidArgument creates an AppError for a nil or blank argument.
func InvalidArgument(arg, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s %s", arg, reason),
		Details: map[string]any{"argument": arg},
	}
}

// InvalidConfig creates an AppError for a configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// InvalidRegistration creates an AppError for a malformed catalog registration.
func InvalidRegistration(typeName, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidRegistration, Message: fmt.Sprintf("invalid registration for %s: %s", typeName, reason),
		Details: map[string]any{"type": typeName},
	}
}

// UnsupportedType creates an AppError for a type the container cannot manage.
func UnsupportedType(typeName, reason string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedType, Message: fmt.Sprintf("unsupported type %s: %s", typeName, reason),
		Details: map[string]any{"type": typeName},
	}
}

// AmbiguousConstructor creates an AppError for a type with several injection constructors.
func AmbiguousConstructor(typeName string, count int) *AppError {
	return &AppError{
		Code: ErrCodeAmbiguousConstructor, Message: fmt.Sprintf("%s declares %d injection constructors, expected at most one", typeName, count),
		Details: map[string]any{"type": typeName, "count": count},
	}
}

// NoUsableConstructor creates an AppError for a type without a marked or zero-argument constructor.
func NoUsableConstructor(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeNoUsableConstructor, Message: fmt.Sprintf("%s has no injection constructor and no zero-argument constructor", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// InstantiationFailed creates an AppError for a constructor that failed.
func InstantiationFailed(typeName string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInstantiationFailed, Message: fmt.Sprintf("failed to instantiate %s", typeName),
		Details: map[string]any{"type": typeName}, Cause: cause,
	}
}

// CircularDependency creates an AppError for a cycle in the dependency graph.
// chain lists the types under construction, outermost first.
func CircularDependency(typeName string, chain []string) *AppError {
	path := append(append([]string{}, chain...), typeName)
	return &AppError{
		Code: ErrCodeCircularDependency, Message: fmt.Sprintf("circular dependency on %s: %s", typeName, strings.Join(path, " -> ")),
		Details: map[string]any{"type": typeName, "chain": path},
	}
}

// NotFound creates an AppError for an unknown type or bean name.
func NotFound(kind, name string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %q not found", kind, name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// AlreadyExists creates an AppError for a duplicate entry.
func AlreadyExists(kind, name string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("%s %q already exists", kind, name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// AlreadyStarted creates an AppError for a repeated Start call.
func AlreadyStarted(containerID string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyStarted, Message: "container already started",
		Details: map[string]any{"container_id": containerID},
	}
}

// WiringFailed aggregates the per-type failures of an eager wiring pass.
func WiringFailed(failures []error) *AppError {
	return &AppError{
		Code: ErrCodeWiringFailed, Message: fmt.Sprintf("%d component(s) failed to wire", len(failures)),
		Details: map[string]any{"failures": len(failures)}, Cause: stderrors.Join(failures...),
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether the first AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsConfigurationError reports whether err is a wiring configuration error.
func IsConfigurationError(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && IsConfigurationCode(appErr.Code)
}
