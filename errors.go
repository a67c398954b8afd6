package robotsyr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. A failed build returns a *BuildError wrapping one of the
// first six.
var (
	// ErrUnknownSymbol is returned for a symbol with no registered operation.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrStackOverflow is returned by a push beyond the configured maximum depth.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned by a pop on an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrSensorWithoutModule is returned when a sensor is mounted before any
	// module was spawned.
	ErrSensorWithoutModule = errors.New("sensor mounted without a module")

	// ErrInvalidParameterCount is returned when a symbol carries fewer
	// parameters than its operation requires.
	ErrInvalidParameterCount = errors.New("invalid parameter count")

	// ErrInvalidJointConfig is returned for limits with min > max, a
	// degenerate hinge axis, or a hinge spawned without an axis.
	ErrInvalidJointConfig = errors.New("invalid joint configuration")

	// ErrInvalidConfig is returned for an unusable interpreter configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// BuildError reports where in the input sequence a build was aborted.
type BuildError struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Index is the position of the offending symbol in the input sequence.
	Index  int
	Symbol SymbolID

	Detail string
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("index %d (symbol #%d): %v", e.Index, e.Symbol, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Kind
}
