// Package kernels provides covariance functions describing the spatial or
// temporal variation of a random process. Evaluated at two sets of points, a
// kernel is the covariance of the values of the process at those locations.
package kernels

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel is a symmetric positive definite covariance function on pairs of
// input points.
type Kernel interface {
	// Cov returns the covariance between the process values at x and y.
	Cov(x, y []float64) float64
}

// WhiteNoise is the white noise kernel
//
//	k(x, y) = σ² 1[x = y]
type WhiteNoise struct {
	// Sigma is the noise level σ.
	Sigma float64
}

func (k WhiteNoise) Cov(x, y []float64) float64 {
	if floats.Equal(x, y) {
		return k.Sigma * k.Sigma
	}
	return 0
}

// Linear is the linear kernel
//
//	k(x, y) = xᵀy + c
type Linear struct {
	// Constant is the offset c.
	Constant float64
}

func (k Linear) Cov(x, y []float64) float64 {
	return floats.Dot(x, y) + k.Constant
}

// Polynomial is the polynomial kernel
//
//	k(x, y) = (xᵀy + c)^q
type Polynomial struct {
	// Constant is the offset c.
	Constant float64
	// Exponent is the degree q of the polynomial.
	Exponent float64
}

func (k Polynomial) Cov(x, y []float64) float64 {
	return math.Pow(floats.Dot(x, y)+k.Constant, k.Exponent)
}

// ExpQuad is the exponentiated quadratic kernel, also known as the Gaussian
// or RBF kernel:
//
//	k(x, y) = exp(-‖x - y‖² / (2 l²))
type ExpQuad struct {
	// Lengthscale is the characteristic length scale l.
	Lengthscale float64
}

func (k ExpQuad) Cov(x, y []float64) float64 {
	d := floats.Distance(x, y, 2)
	return math.Exp(-d * d / (2 * k.Lengthscale * k.Lengthscale))
}

// RatQuad is the rational quadratic kernel
//
//	k(x, y) = (1 + ‖x - y‖² / (2 α l²))^(-α)
//
// which is a scale mixture of exponentiated quadratic kernels and converges
// to ExpQuad as α goes to infinity.
type RatQuad struct {
	// Lengthscale is the characteristic length scale l.
	Lengthscale float64
	// Alpha is the scale mixture parameter α > 0.
	Alpha float64
}

func (k RatQuad) Cov(x, y []float64) float64 {
	if k.Alpha <= 0 {
		panic("kernels: rational quadratic kernel requires alpha > 0")
	}
	d := floats.Distance(x, y, 2)
	return math.Pow(1+d*d/(2*k.Alpha*k.Lengthscale*k.Lengthscale), -k.Alpha)
}

// Matern is the Matérn kernel with smoothness parameter ν. Samples from a
// process with this kernel are ⌈ν⌉-1 times differentiable. Only the
// half-integer orders ν ∈ {1/2, 3/2, 5/2} and the ν → ∞ limit have closed
// forms and are supported; other values panic.
type Matern struct {
	// Lengthscale is the characteristic length scale l.
	Lengthscale float64
	// Nu is the smoothness parameter ν.
	Nu float64
}

func (k Matern) Cov(x, y []float64) float64 {
	d := floats.Distance(x, y, 2)
	switch k.Nu {
	case 0.5:
		return math.Exp(-d / k.Lengthscale)
	case 1.5:
		s := math.Sqrt(3) * d / k.Lengthscale
		return (1 + s) * math.Exp(-s)
	case 2.5:
		s := math.Sqrt(5) * d / k.Lengthscale
		return (1 + s + s*s/3) * math.Exp(-s)
	case math.Inf(1):
		return math.Exp(-d * d / (2 * k.Lengthscale * k.Lengthscale))
	}
	panic("kernels: matern kernel supports nu in {0.5, 1.5, 2.5, +Inf} only")
}

// Gram evaluates k on all pairs of rows of xs and ys and returns the
// resulting covariance matrix. With n rows in xs and m rows in ys the result
// is n×m.
func Gram(k Kernel, xs, ys *mat.Dense) *mat.Dense {
	n, _ := xs.Dims()
	m, _ := ys.Dims()
	g := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			g.Set(i, j, k.Cov(xs.RawRowView(i), ys.RawRowView(j)))
		}
	}
	return g
}

// GramSym evaluates k on all pairs of rows of xs, exploiting symmetry.
func GramSym(k Kernel, xs *mat.Dense) *mat.SymDense {
	n, _ := xs.Dims()
	g := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			g.SetSym(i, j, k.Cov(xs.RawRowView(i), xs.RawRowView(j)))
		}
	}
	return g
}
