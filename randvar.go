// Package randvar provides random variables: the main objects probabilistic
// numerical methods consume and produce. A RandomVariable pairs a shape and
// dtype contract with a probability distribution, and arithmetic between
// random variables is defined entirely in terms of the arithmetic between
// their distributions. A method propagating uncertainty takes a random
// variable encoding its prior and returns a random variable whose
// distribution encodes the uncertainty arising from finite computation.
package randvar

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"

	"github.com/probkit/randvar/distribution"
)

// RandomVariable is an uncertain quantity with a given shape and dtype,
// described by a probability distribution. It owns its distribution
// one-to-one; the distribution's random state is the single source of truth
// for sampling randomness and is reachable through RandomState and
// SetRandomState. A RandomVariable is immutable after construction: all
// arithmetic returns new values.
type RandomVariable struct {
	shape tensor.Shape
	dtype tensor.Dtype
	dist  distribution.Distribution
}

// New returns a random variable with the given realization shape and dtype,
// described by dist. If the distribution has a defined mean, shape and dtype
// are derived from it, and a non-nil explicit shape that disagrees with the
// derived one fails construction.
func New(shape tensor.Shape, dt tensor.Dtype, dist distribution.Distribution) (*RandomVariable, error) {
	if dist == nil {
		return nil, errors.New("new: distribution must not be nil")
	}
	if mean, err := dist.Mean(); err == nil {
		if shape != nil && !mean.Shape().Eq(shape) {
			return nil, errors.Errorf("new: shape %v of the distribution mean and given "+
				"shape %v do not match", mean.Shape(), shape)
		}
		shape = mean.Shape().Clone()
		dt = mean.Dtype()
	}
	return &RandomVariable{shape: shape, dtype: dt, dist: dist}, nil
}

// FromDistribution returns a random variable described by dist, with shape
// and dtype derived from the distribution's mean where it has one.
func FromDistribution(dist distribution.Distribution) (*RandomVariable, error) {
	return New(nil, tensor.Dtype{}, dist)
}

// Shape returns the shape of realizations of the random variable.
func (rv *RandomVariable) Shape() tensor.Shape { return rv.shape }

// Dtype returns the data type of realizations of the random variable.
func (rv *RandomVariable) Dtype() tensor.Dtype { return rv.dtype }

// Distribution returns the probability distribution of the random variable.
func (rv *RandomVariable) Distribution() distribution.Distribution { return rv.dist }

// Mean returns the expected value of the random variable.
func (rv *RandomVariable) Mean() (tensor.Tensor, error) {
	return rv.dist.Mean()
}

// Cov returns the covariance operator of the random variable, as recorded in
// the distribution's parameters.
func (rv *RandomVariable) Cov() (tensor.Tensor, error) {
	if cov, ok := rv.dist.Parameters()["cov"]; ok {
		return cov, nil
	}
	return nil, &distribution.NotImplementedError{Method: "cov", Family: rv.dist.Name()}
}

// Var returns the per-component variance of the random variable.
func (rv *RandomVariable) Var() (tensor.Tensor, error) {
	return rv.dist.Var()
}

// Sample draws size realizations from the random variable.
func (rv *RandomVariable) Sample(size int) (tensor.Tensor, error) {
	return rv.dist.Sample(size)
}

// RandomState returns the random source of the underlying distribution.
func (rv *RandomVariable) RandomState() rand.Source {
	return rv.dist.RandomState()
}

// SetRandomState forwards the random source to the underlying distribution.
func (rv *RandomVariable) SetRandomState(src rand.Source) {
	rv.dist.SetRandomState(src)
}

// binOp coerces other to a random variable, applies op to the two underlying
// distributions and wraps the result in a fresh random variable with
// re-derived shape and dtype.
func (rv *RandomVariable) binOp(other interface{},
	op func(x, y distribution.Distribution) (distribution.Distribution, error)) (*RandomVariable, error) {
	otherRV, err := AsRandomVariable(other)
	if err != nil {
		return nil, err
	}
	d, err := op(rv.dist, otherRV.dist)
	if err != nil {
		return nil, err
	}
	return FromDistribution(d)
}

// Add returns the random variable of X + other. The other operand is coerced
// with AsRandomVariable.
func (rv *RandomVariable) Add(other interface{}) (*RandomVariable, error) {
	return rv.binOp(other, distribution.Add)
}

// Sub returns the random variable of X - other.
func (rv *RandomVariable) Sub(other interface{}) (*RandomVariable, error) {
	return rv.binOp(other, distribution.Sub)
}

// Mul returns the random variable of X * other (elementwise).
func (rv *RandomVariable) Mul(other interface{}) (*RandomVariable, error) {
	return rv.binOp(other, distribution.Mul)
}

// MatMul returns the random variable of X @ other.
func (rv *RandomVariable) MatMul(other interface{}) (*RandomVariable, error) {
	return rv.binOp(other, distribution.MatMul)
}

// Div returns the random variable of X / other.
func (rv *RandomVariable) Div(other interface{}) (*RandomVariable, error) {
	return rv.binOp(other, distribution.Div)
}

// Pow returns the random variable of X ** other.
func (rv *RandomVariable) Pow(other interface{}) (*RandomVariable, error) {
	return rv.binOp(other, distribution.Pow)
}

func (rv *RandomVariable) unaryOp(
	op func(x distribution.Distribution) (distribution.Distribution, error)) (*RandomVariable, error) {
	d, err := op(rv.dist)
	if err != nil {
		return nil, err
	}
	return New(rv.shape, rv.dtype, d)
}

// Neg returns the random variable of -X.
func (rv *RandomVariable) Neg() (*RandomVariable, error) {
	return rv.unaryOp(distribution.Neg)
}

// Pos returns the random variable of +X.
func (rv *RandomVariable) Pos() (*RandomVariable, error) {
	return rv.unaryOp(distribution.Pos)
}

// Abs returns the random variable of |X|.
func (rv *RandomVariable) Abs() (*RandomVariable, error) {
	return rv.unaryOp(distribution.Abs)
}
