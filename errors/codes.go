package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidArgument indicates a nil or blank argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates a configuration struct failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidRegistration indicates a malformed catalog registration.
	ErrCodeInvalidRegistration ErrorCode = "INVALID_REGISTRATION"
)

// Wiring configuration errors (fatal to the type being built)
const (
	// ErrCodeUnsupportedType indicates a type the container cannot manage.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	// ErrCodeAmbiguousConstructor indicates more than one injection constructor.
	ErrCodeAmbiguousConstructor ErrorCode = "AMBIGUOUS_CONSTRUCTOR"
	// ErrCodeNoUsableConstructor indicates no marked and no zero-argument constructor.
	ErrCodeNoUsableConstructor ErrorCode = "NO_USABLE_CONSTRUCTOR"
	// ErrCodeInstantiationFailed indicates the constructor panicked, failed or returned nil.
	ErrCodeInstantiationFailed ErrorCode = "INSTANTIATION_FAILED"
)

// Graph errors
const (
	// ErrCodeCircularDependency indicates a type was requested while under construction.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
)

// Registry and lifecycle errors
const (
	// ErrCodeNotFound indicates a type or bean name is unknown.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates a duplicate registration or singleton.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeAlreadyStarted indicates Start was called more than once.
	ErrCodeAlreadyStarted ErrorCode = "ALREADY_STARTED"
	// ErrCodeWiringFailed aggregates per-type failures of the eager wiring pass.
	ErrCodeWiringFailed ErrorCode = "WIRING_FAILED"
)

var configurationCodes = map[ErrorCode]bool{
	ErrCodeUnsupportedType:      true,
	ErrCodeAmbiguousConstructor: true,
	ErrCodeNoUsableConstructor:  true,
	ErrCodeInstantiationFailed:  true,
	ErrCodeInvalidRegistration:  true,
	ErrCodeCircularDependency:   false,
}

// IsConfigurationCode returns true if the code describes a wiring
// configuration error.
func IsConfigurationCode(code ErrorCode) bool {
	return configurationCodes[code]
}
