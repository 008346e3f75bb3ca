// Package distribution provides probability distributions and the arithmetic
// between them.
//
// A Distribution is a capability set: density, log-density, cumulative,
// log-cumulative, sampling, mean and variance, each of which may be absent
// for a given family. The concrete families are Dirac (point mass), Normal
// (Gaussian), Generic (a bundle of optional capability functions) and the
// captured-environment results of arithmetic, Affine and LinearMap.
// Arithmetic between distributions is exposed as named operations (Add, Sub,
// Mul, MatMul, Div, Pow and the unary Neg, Pos, Abs, Inv) that dispatch on
// the concrete families of their operands: closed forms are used where they
// exist, lazy Affine/LinearMap results are constructed where only moments and
// samples compose, and everything else fails with an UnsupportedOpError.
package distribution

import (
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Parameters holds the named parameters of a distribution, such as mean,
// covariance or support.
type Parameters map[string]tensor.Tensor

// Distribution is a probability distribution.
//
// Values (evaluation points, samples, moments) are tensors; scalar
// distributions use scalar-shaped tensors. Capabilities a family does not
// provide and cannot derive return a *NotImplementedError carrying the family
// name. Distributions are not safe for concurrent sampling: the random state
// is owned by the instance and is not synchronized.
type Distribution interface {
	// Name returns the family name, e.g. "Dirac" or "Normal". It is used
	// in diagnostics.
	Name() string

	// Parameters returns the named parameters of the distribution. The
	// returned map must not be mutated.
	Parameters() Parameters

	// PDF returns the probability density or mass at x. If the family
	// only provides a log-density, the density is derived by
	// exponentiation.
	PDF(x tensor.Tensor) (tensor.Tensor, error)

	// LogPDF returns the natural logarithm of the probability density or
	// mass at x, derived from the density if only that is provided.
	LogPDF(x tensor.Tensor) (tensor.Tensor, error)

	// CDF returns the cumulative probability at x. If the family only
	// provides a log-cumulative, it is derived by exponentiation.
	CDF(x tensor.Tensor) (tensor.Tensor, error)

	// LogCDF returns the natural logarithm of the cumulative probability
	// at x, derived from the cumulative if only that is provided.
	LogCDF(x tensor.Tensor) (tensor.Tensor, error)

	// Sample draws size realizations. The leading dimension of the result
	// is size: scalar distributions return shape (size), multivariate
	// distributions of dimension d return shape (size, d).
	Sample(size int) (tensor.Tensor, error)

	// Mean returns the expected value.
	Mean() (tensor.Tensor, error)

	// Var returns the variance. For multivariate families this is the
	// per-component variance; the full covariance, where defined, is
	// available through Parameters.
	Var() (tensor.Tensor, error)

	// Median returns the median of the distribution.
	Median() (tensor.Tensor, error)

	// RandomState returns the random source used for sampling. A nil
	// source means the global source.
	RandomState() rand.Source

	// SetRandomState replaces the random source used for sampling.
	SetRandomState(src rand.Source)
}

// Quantiler is a Distribution that can return the inverse of the CDF
// function, sometimes called the quantile function.
type Quantiler interface {
	Distribution
	Quantile(p tensor.Tensor) (tensor.Tensor, error)
}

// Entropier is a Distribution with a closed-form differential entropy.
type Entropier interface {
	Distribution
	Entropy() (tensor.Tensor, error)
}

// Std returns the standard deviation of d, the elementwise square root of its
// variance.
func Std(d Distribution) (tensor.Tensor, error) {
	v, err := d.Var()
	if err != nil {
		return nil, err
	}
	return sqrtVal(v)
}
