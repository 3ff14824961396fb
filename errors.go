package msgbundle

import (
	"errors"
	"fmt"
)

var (
	// ErrContract marks programmer errors such as empty keys or nil sources.
	// Values wrapping it are raised with panic at the offending call.
	ErrContract = errors.New("msgbundle: contract violation")

	// ErrFormat indicates that a template was found but its placeholders do not
	// match the supplied arguments.
	ErrFormat = errors.New("msgbundle: format mismatch")

	// ErrNilReference is the kind of PreconditionError returned by CheckNotNil.
	ErrNilReference = errors.New("msgbundle: nil reference")

	// ErrIllegalArgument is the kind of PreconditionError returned by CheckArgument.
	ErrIllegalArgument = errors.New("msgbundle: illegal argument")

	// ErrSourceLoad wraps failures reported by a SourceLoader.
	ErrSourceLoad = errors.New("msgbundle: source load failed")

	// ErrInvalidLocale is returned when locale text cannot be parsed.
	ErrInvalidLocale = errors.New("msgbundle: invalid locale")

	// ErrUnsupportedFormat is returned for source files with an unknown extension.
	ErrUnsupportedFormat = errors.New("msgbundle: unsupported source format")

	// ErrRegistryLoad wraps every aggregation conflict.
	ErrRegistryLoad = errors.New("msgbundle: bundle registry load failed")

	// ErrRegistrySealed is returned when registering a provider after the
	// process-wide registry was populated.
	ErrRegistrySealed = errors.New("msgbundle: bundle registry already populated")
)

// ContractError reports a violated call contract. It is only ever panicked.
type ContractError struct {
	Message string
}

func (e *ContractError) Error() string {
	return e.Message
}

func (e *ContractError) Unwrap() error {
	return ErrContract
}

// contractViolation panics with a ContractError whose text comes from the
// library's own bundle.
func contractViolation(key string, args ...any) {
	msg, err := messages().Printf(Root, key, args...)
	if err != nil {
		msg = messages().MessageFor(Root, key)
	}
	panic(&ContractError{Message: msg})
}

// FormatError reports a template/argument mismatch.
type FormatError struct {
	Key      string
	Template string
	Reason   string
}

func (e *FormatError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("msgbundle: format %q: %s", e.Template, e.Reason)
	}
	return fmt.Sprintf("msgbundle: format key %q (%q): %s", e.Key, e.Template, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// PreconditionKind tells which precondition helper failed.
type PreconditionKind int

const (
	NilReference PreconditionKind = iota + 1
	IllegalArgument
)

func (k PreconditionKind) String() string {
	switch k {
	case NilReference:
		return "nil reference"
	case IllegalArgument:
		return "illegal argument"
	default:
		return "unknown"
	}
}

func (k PreconditionKind) sentinel() error {
	if k == NilReference {
		return ErrNilReference
	}
	return ErrIllegalArgument
}

// PreconditionError carries the resolved and formatted message of a failed
// CheckNotNil or CheckArgument call.
type PreconditionError struct {
	Kind    PreconditionKind
	Key     string
	Message string
	// Cause is set when the message template could not be formatted.
	Cause error
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func (e *PreconditionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind.sentinel(), e.Cause}
	}
	return []error{e.Kind.sentinel()}
}

// LoadError describes why a registry load was rejected.
type LoadError struct {
	Name   string
	Reason string
}

func (e *LoadError) Error() string {
	return e.Reason
}

func (e *LoadError) Unwrap() error {
	return ErrRegistryLoad
}
