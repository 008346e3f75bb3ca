package distribution

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Affine is the elementwise transform scale*X + shift of a base distribution
// whose family has no closed form for the operation. It is the result of
// adding, subtracting, multiplying or dividing such a distribution with a
// point mass, and keeps the captured base and coefficients introspectable
// instead of hiding them in closures. The base must stay valid for as long
// as the Affine is used; it is referenced, not copied.
//
// A nil scale means 1, a nil shift means 0. A zero scale never occurs: the
// degeneracy rule collapses multiplication by an exact-zero point mass to a
// Dirac before an Affine is built.
type Affine struct {
	base  Distribution
	scale tensor.Tensor
	shift tensor.Tensor
}

func newAffine(base Distribution, scale, shift tensor.Tensor) *Affine {
	return &Affine{base: base, scale: scale, shift: shift}
}

// Base returns the transformed distribution.
func (a *Affine) Base() Distribution { return a.base }

// Scale returns the multiplicative coefficient, nil meaning 1.
func (a *Affine) Scale() tensor.Tensor { return a.scale }

// Shift returns the additive coefficient, nil meaning 0.
func (a *Affine) Shift() tensor.Tensor { return a.shift }

func (a *Affine) Name() string { return "Affine" }

// Parameters is empty: parameter bookkeeping belongs to the concrete
// families, and the coefficients are exposed through Scale and Shift.
func (a *Affine) Parameters() Parameters { return Parameters{} }

// invert maps an evaluation point into the base distribution's coordinates:
// u = (x - shift) / scale.
func (a *Affine) invert(x tensor.Tensor) (tensor.Tensor, error) {
	u := x
	var err error
	if a.shift != nil {
		u, err = broadcastApply(u, a.shift, func(xi, s float64) float64 { return xi - s })
		if err != nil {
			return nil, err
		}
	}
	if a.scale != nil {
		u, err = broadcastApply(u, a.scale, func(xi, s float64) float64 { return xi / s })
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (a *Affine) PDF(x tensor.Tensor) (tensor.Tensor, error) {
	u, err := a.invert(x)
	if err != nil {
		return nil, errors.Wrap(err, "pdf")
	}
	return a.base.PDF(u)
}

func (a *Affine) LogPDF(x tensor.Tensor) (tensor.Tensor, error) {
	u, err := a.invert(x)
	if err != nil {
		return nil, errors.Wrap(err, "logpdf")
	}
	return a.base.LogPDF(u)
}

func (a *Affine) CDF(x tensor.Tensor) (tensor.Tensor, error) {
	u, err := a.invert(x)
	if err != nil {
		return nil, errors.Wrap(err, "cdf")
	}
	return a.base.CDF(u)
}

func (a *Affine) LogCDF(x tensor.Tensor) (tensor.Tensor, error) {
	u, err := a.invert(x)
	if err != nil {
		return nil, errors.Wrap(err, "logcdf")
	}
	return a.base.LogCDF(u)
}

// apply transforms a value of the base distribution into the Affine's
// coordinates: scale*v + shift. The coefficients broadcast over a leading
// sample dimension.
func (a *Affine) apply(v tensor.Tensor) (tensor.Tensor, error) {
	out := v
	var err error
	if a.scale != nil {
		out, err = broadcastApply(out, a.scale, func(vi, s float64) float64 { return vi * s })
		if err != nil {
			return nil, err
		}
	}
	if a.shift != nil {
		out, err = broadcastApply(out, a.shift, func(vi, s float64) float64 { return vi + s })
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Affine) Sample(size int) (tensor.Tensor, error) {
	s, err := a.base.Sample(size)
	if err != nil {
		return nil, err
	}
	return a.apply(s)
}

func (a *Affine) Mean() (tensor.Tensor, error) {
	m, err := a.base.Mean()
	if err != nil {
		return nil, err
	}
	return a.apply(m)
}

// Var scales the base variance by the square of the coefficient; the shift
// leaves it unchanged.
func (a *Affine) Var() (tensor.Tensor, error) {
	v, err := a.base.Var()
	if err != nil {
		return nil, err
	}
	if a.scale == nil {
		return v, nil
	}
	return broadcastApply(v, a.scale, func(vi, s float64) float64 { return vi * s * s })
}

func (a *Affine) Median() (tensor.Tensor, error) {
	m, err := a.base.Median()
	if err != nil {
		return nil, err
	}
	return a.apply(m)
}

func (a *Affine) RandomState() rand.Source { return a.base.RandomState() }

func (a *Affine) SetRandomState(src rand.Source) { a.base.SetRandomState(src) }

// addConst folds an additional shift into the transform.
func (a *Affine) addConst(delta tensor.Tensor) (Distribution, error) {
	shift := delta
	if a.shift != nil {
		var err error
		shift, err = addVals(a.shift, delta)
		if err != nil {
			return nil, errors.Wrap(err, "add")
		}
	}
	return newAffine(a.base, a.scale, shift), nil
}

// mulConst folds an additional scale into the transform; the existing shift
// scales along with it.
func (a *Affine) mulConst(delta tensor.Tensor) (Distribution, error) {
	scale := delta
	shift := a.shift
	var err error
	if a.scale != nil {
		scale, err = mulVals(a.scale, delta)
		if err != nil {
			return nil, errors.Wrap(err, "mul")
		}
	}
	if shift != nil {
		shift, err = mulVals(shift, delta)
		if err != nil {
			return nil, errors.Wrap(err, "mul")
		}
	}
	return newAffine(a.base, scale, shift), nil
}

// LinearMap is the matrix transform of a base distribution through a point
// mass: M @ X when left is set, X @ M otherwise. Mapping between dimensions
// leaves no well-defined density at this layer, so only sampling and moments
// are available.
type LinearMap struct {
	base Distribution
	m    tensor.Tensor
	left bool
}

// Base returns the mapped distribution.
func (l *LinearMap) Base() Distribution { return l.base }

// Matrix returns the mapping matrix.
func (l *LinearMap) Matrix() tensor.Tensor { return l.m }

func (l *LinearMap) Name() string { return "LinearMap" }

func (l *LinearMap) Parameters() Parameters { return Parameters{} }

func (l *LinearMap) PDF(x tensor.Tensor) (tensor.Tensor, error) {
	return nil, notImplemented("pdf", l.Name())
}

func (l *LinearMap) LogPDF(x tensor.Tensor) (tensor.Tensor, error) {
	return nil, notImplemented("logpdf", l.Name())
}

func (l *LinearMap) CDF(x tensor.Tensor) (tensor.Tensor, error) {
	return nil, notImplemented("cdf", l.Name())
}

func (l *LinearMap) LogCDF(x tensor.Tensor) (tensor.Tensor, error) {
	return nil, notImplemented("logcdf", l.Name())
}

// Sample draws from the base and maps every realization. The batch of base
// samples has the sample dimension leading, so M @ x per sample is computed
// as S @ Mᵀ on the whole batch.
func (l *LinearMap) Sample(size int) (tensor.Tensor, error) {
	s, err := l.base.Sample(size)
	if err != nil {
		return nil, err
	}
	if l.left {
		mT, err := transposeVal(l.m)
		if err != nil {
			return nil, errors.Wrap(err, "sample")
		}
		return matmulVals(s, mT)
	}
	return matmulVals(s, l.m)
}

func (l *LinearMap) Mean() (tensor.Tensor, error) {
	m, err := l.base.Mean()
	if err != nil {
		return nil, err
	}
	if l.left {
		return matmulVals(l.m, m)
	}
	return matmulVals(m, l.m)
}

// Var composes the base variance with the map as M @ var @ Mᵀ. The base
// variance must be a matrix for the composition to be defined.
func (l *LinearMap) Var() (tensor.Tensor, error) {
	v, err := l.base.Var()
	if err != nil {
		return nil, err
	}
	mT, err := transposeVal(l.m)
	if err != nil {
		return nil, err
	}
	out, err := matmulVals(l.m, v)
	if err != nil {
		return nil, err
	}
	return matmulVals(out, mT)
}

func (l *LinearMap) Median() (tensor.Tensor, error) {
	return nil, notImplemented("median", l.Name())
}

func (l *LinearMap) RandomState() rand.Source { return l.base.RandomState() }

func (l *LinearMap) SetRandomState(src rand.Source) { l.base.SetRandomState(src) }
