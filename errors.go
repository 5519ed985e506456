package latfix

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ConfigurationError reports that a Module (or a FixpointSpec within it)
// is inconsistent: an unknown name, a sort mismatch in a declared axiom
// or rule, a missing spec entry. Generate refuses to start when
// ValidateModule returns one of these.
type ConfigurationError struct {
	err error
}

func (e *ConfigurationError) Error() string { return e.err.Error() }
func (e *ConfigurationError) Unwrap() error { return e.err }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{err: pkgerrors.Errorf(format, args...)}
}

func wrapConfigError(cause error, format string, args ...interface{}) error {
	return &ConfigurationError{err: pkgerrors.Wrapf(cause, format, args...)}
}

// InvariantKind enumerates the fatal, panic-style failure modes:
// conditions the engine treats as bugs in the caller or in a prior
// validation/normalization pass, never as recoverable run-time errors.
type InvariantKind uint8

const (
	// KindSortMismatch is SortMismatchDuringUnification: unifying (or
	// comparing) two terms of different sorts.
	KindSortMismatch InvariantKind = iota
	// KindMissingFunctionImplementation: a built-in referenced by the
	// program has no registered implementation.
	KindMissingFunctionImplementation
	// KindMalformedRuleShape: apply_rule was handed a rule whose head is
	// a bare Conclusion or a bare Filter with no premise to consume.
	KindMalformedRuleShape
	// KindNonConcreteResult: a Conclusion (or other term expected to be
	// ground) still contains a Var or unreduced Application after
	// substitution.
	KindNonConcreteResult
	// KindUnreachableVariable: EvaluateTerm reached a Var node; concrete
	// terms must never contain one.
	KindUnreachableVariable
)

// InvariantViolation is the panic payload for every fatal condition in
// A recovering caller can retrieve it with errors.As.
type InvariantViolation struct {
	Kind    InvariantKind
	Message string
}

func (e *InvariantViolation) Error() string { return e.Message }

func panicInvariant(kind InvariantKind, format string, args ...interface{}) {
	panic(&InvariantViolation{Kind: kind, Message: fmt.Sprintf(format, args...)})
}
