package distribution

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Capability set exposed by external frozen distributions, satisfied
// piecemeal by gonum's distuv families.
type (
	univariateSampler interface{ Rand() float64 }
	univariateMeaner  interface{ Mean() float64 }
	univariateVarer   interface{ Variance() float64 }
	univariateProber  interface {
		Prob(x float64) float64
	}
	univariateLogProber interface {
		LogProb(x float64) float64
	}
	univariateCDFer interface {
		CDF(x float64) float64
	}
)

// AsDistribution converts v to a Distribution. Distributions pass through
// unchanged; scalars, slices, tensors and gonum matrices become the point
// mass at their value; gonum's normal distributions become a native Normal;
// other values exposing the frozen-distribution capability set (sampling,
// density, cumulative, moments) are wrapped into a Generic referencing them
// directly. Anything else fails with a CoercionError naming the concrete
// type.
func AsDistribution(v interface{}) (Distribution, error) {
	switch x := v.(type) {
	case Distribution:
		return x, nil
	case float64:
		return NewDirac(Scalar(x), nil)
	case float32:
		return NewDirac(tensor.New(tensor.FromScalar(x)), nil)
	case int:
		return NewDirac(Scalar(float64(x)), nil)
	case int64:
		return NewDirac(Scalar(float64(x)), nil)
	case []float64:
		backing := make([]float64, len(x))
		copy(backing, x)
		return NewDirac(tensor.New(tensor.WithShape(len(x)), tensor.WithBacking(backing)), nil)
	case []float32:
		backing := make([]float32, len(x))
		copy(backing, x)
		return NewDirac(tensor.New(tensor.WithShape(len(x)), tensor.WithBacking(backing)), nil)
	case tensor.Tensor:
		return NewDirac(x, nil)
	case mat.Vector:
		n := x.Len()
		backing := make([]float64, n)
		for i := 0; i < n; i++ {
			backing[i] = x.AtVec(i)
		}
		return NewDirac(tensor.New(tensor.WithShape(n), tensor.WithBacking(backing)), nil)
	case mat.Matrix:
		r, c := x.Dims()
		backing := make([]float64, r*c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				backing[i*c+j] = x.At(i, j)
			}
		}
		return NewDirac(tensor.New(tensor.WithShape(r, c), tensor.WithBacking(backing)), nil)
	case distuv.Normal:
		return NewNormal(Scalar(x.Mu), Scalar(x.Sigma*x.Sigma), x.Src)
	case *distuv.Normal:
		return NewNormal(Scalar(x.Mu), Scalar(x.Sigma*x.Sigma), x.Src)
	case *distmv.Normal:
		return fromMVNormal(x)
	}

	if g, ok := wrapFrozen(v); ok {
		return g, nil
	}
	return nil, &CoercionError{Value: v}
}

func fromMVNormal(x *distmv.Normal) (Distribution, error) {
	d := x.Dim()
	mu := x.Mean(nil)
	var sym mat.SymDense
	x.CovarianceMatrix(&sym)
	covData := make([]float64, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			covData[i*d+j] = sym.At(i, j)
		}
	}
	return NewNormal(
		tensor.New(tensor.WithShape(d), tensor.WithBacking(mu)),
		tensor.New(tensor.WithShape(d, d), tensor.WithBacking(covData)),
		nil)
}

// wrapFrozen wraps whichever of the frozen-distribution capabilities v
// exposes into a Generic. The capabilities reference v directly; no state is
// copied.
func wrapFrozen(v interface{}) (*Generic, bool) {
	var funcs Funcs
	any := false

	if p, ok := v.(univariateProber); ok {
		any = true
		funcs.PDF = func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, p.Prob, func(xi float32) float32 {
				return float32(p.Prob(float64(xi)))
			})
		}
	}
	if lp, ok := v.(univariateLogProber); ok {
		any = true
		funcs.LogPDF = func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, lp.LogProb, func(xi float32) float32 {
				return float32(lp.LogProb(float64(xi)))
			})
		}
	}
	if c, ok := v.(univariateCDFer); ok {
		any = true
		funcs.CDF = func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, c.CDF, func(xi float32) float32 {
				return float32(c.CDF(float64(xi)))
			})
		}
		funcs.LogCDF = func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x,
				func(xi float64) float64 { return math.Log(c.CDF(xi)) },
				func(xi float32) float32 { return float32(math.Log(c.CDF(float64(xi)))) })
		}
	}
	if s, ok := v.(univariateSampler); ok {
		any = true
		funcs.Sample = func(size int) (tensor.Tensor, error) {
			backing := make([]float64, size)
			for i := range backing {
				backing[i] = s.Rand()
			}
			return tensor.New(tensor.WithShape(size), tensor.WithBacking(backing)), nil
		}
	}
	if m, ok := v.(univariateMeaner); ok {
		any = true
		funcs.Mean = func() (tensor.Tensor, error) { return Scalar(m.Mean()), nil }
	}
	if va, ok := v.(univariateVarer); ok {
		any = true
		funcs.Var = func() (tensor.Tensor, error) { return Scalar(va.Variance()), nil }
	}

	if !any {
		return nil, false
	}
	return NewGeneric(funcs, nil, nil), true
}
