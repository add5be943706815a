package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a generator configuration error.
	ErrMissingConfig = errors.New("equatable: missing configuration")
	// ErrInvalidConfiguration indicates an invalid per-type configuration,
	// such as a hook with the wrong signature.
	ErrInvalidConfiguration = errors.New("equatable: invalid configuration")
	// ErrAlreadyImplemented indicates a type that already carries the
	// equality contract.
	ErrAlreadyImplemented = errors.New("equatable: equality already implemented")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("equatable: code generation failed")
	// ErrInternal indicates a broken invariant of the generator itself.
	ErrInternal = errors.New("equatable: internal error")
	// ErrDerivationFailed indicates that at least one type of a pass failed.
	ErrDerivationFailed = errors.New("equatable: derivation failed")
)

// ConfigError represents a generator configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("equatable: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("equatable: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// ValidationError represents a fatal per-type configuration error: an
// invalid hook or getter signature, or an opt-in marker on a type without
// equality content.
type ValidationError struct {
	Type    string
	Member  string // Member or method name (if applicable)
	Pos     string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("equatable: validation error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewValidationError creates a new ValidationError.
func NewValidationError(typeName, member, pos, message string) *ValidationError {
	return &ValidationError{
		Type:    typeName,
		Member:  member,
		Pos:     pos,
		Message: message,
	}
}

// ContractError reports a type that already declares what the generator
// would produce.
type ContractError struct {
	Type string
	// Decl is the conflicting method, function or field.
	Decl    string
	Pos     string
	Message string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	var b strings.Builder
	b.WriteString("equatable: type ")
	b.WriteString(e.Type)
	b.WriteString(" already implements equality")
	if e.Decl != "" {
		b.WriteString(" (")
		b.WriteString(e.Decl)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ContractError.
func (e *ContractError) Is(target error) bool {
	return target == ErrAlreadyImplemented
}

// NewContractError creates a new ContractError.
func NewContractError(typeName, decl, pos, message string) *ContractError {
	return &ContractError{
		Type:    typeName,
		Decl:    decl,
		Pos:     pos,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "lower", "format", "write", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("equatable: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// InternalError reports a violated synthesis invariant. It indicates a bug
// in the generator, never a user error.
type InternalError struct {
	Type    string
	Routine string
	Message string
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	var b strings.Builder
	b.WriteString("equatable: internal error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Routine != "" {
		b.WriteString(" in routine ")
		b.WriteString(e.Routine)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for InternalError.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// NewInternalError creates a new InternalError.
func NewInternalError(typeName, routine, message string) *InternalError {
	return &InternalError{
		Type:    typeName,
		Routine: routine,
		Message: message,
	}
}

// DeriveError aggregates the per-type failures of one derivation pass.
type DeriveError struct {
	Package string
	Errs    []error
}

// Error implements the error interface.
func (e *DeriveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "equatable: derivation of package %s failed with %d error(s)", e.Package, len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the per-type errors.
func (e *DeriveError) Unwrap() []error {
	return e.Errs
}

// Is reports whether the target matches the sentinel error for DeriveError.
func (e *DeriveError) Is(target error) bool {
	return target == ErrDerivationFailed
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsContractError reports whether the error is a ContractError.
func IsContractError(err error) bool {
	var contractErr *ContractError
	return errors.As(err, &contractErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsInternalError reports whether the error is an InternalError.
func IsInternalError(err error) bool {
	var internalErr *InternalError
	return errors.As(err, &internalErr)
}
