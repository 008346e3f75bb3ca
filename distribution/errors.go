package distribution

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDivideByZero is returned when an operand is divided by a point mass
// located at zero. This is distinct from an operation being unsupported: the
// operation is supported, the divisor is degenerate.
var ErrDivideByZero = errors.New("division by a point mass at zero")

// NotImplementedError reports that a distribution family neither provides a
// requested capability (pdf, logpdf, cdf, logcdf, sample, mean, var, ...)
// directly nor can derive it from a counterpart. Evaluation never falls back
// to a silent default.
type NotImplementedError struct {
	Method string // the capability that was requested, e.g. "pdf"
	Family string // the concrete family name, e.g. "Dirac"
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%v is not implemented for %v distributions", e.Method, e.Family)
}

func notImplemented(method, family string) error {
	return &NotImplementedError{Method: method, Family: family}
}

// UnsupportedOpError reports that an arithmetic operation has no rule for the
// concrete families involved, e.g. multiplying two Normal distributions. For
// unary operations Right is empty.
type UnsupportedOpError struct {
	Op    string
	Left  string
	Right string
}

func (e *UnsupportedOpError) Error() string {
	if e.Right == "" {
		return fmt.Sprintf("%v is not supported for %v distributions", e.Op, e.Left)
	}
	return fmt.Sprintf("%v is not supported between %v and %v distributions",
		e.Op, e.Left, e.Right)
}

func unsupportedOp(op string, left, right Distribution) error {
	e := &UnsupportedOpError{Op: op, Left: left.Name()}
	if right != nil {
		e.Right = right.Name()
	}
	return e
}

// CoercionError reports a value that matches no recognized capability set and
// cannot be interpreted as an array either.
type CoercionError struct {
	Value interface{}
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert value of type %T to a distribution", e.Value)
}
