package distribution

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// IID bundles n independent, identically distributed copies of a scalar base
// distribution into a single vector-valued one. Densities combine across the
// event dimension: the joint density is the product of the per-component
// densities and the joint log-density their sum. The event dimension is
// always the trailing one.
type IID struct {
	base Distribution
	n    int
}

// NewIID returns the distribution of n independent copies of base, which
// must be scalar-valued.
func NewIID(base Distribution, n int) (*IID, error) {
	if base == nil {
		return nil, errors.New("newIID: base must not be nil")
	}
	if n < 1 {
		return nil, errors.Errorf("newIID: expected a positive number of copies, got %v", n)
	}
	return &IID{base: base, n: n}, nil
}

// Base returns the replicated distribution.
func (i *IID) Base() Distribution { return i.base }

// Len returns the number of independent copies.
func (i *IID) Len() int { return i.n }

func (i *IID) Name() string { return "IID" }

func (i *IID) Parameters() Parameters { return i.base.Parameters() }

// reduce evaluates eval elementwise and combines the event dimension with
// combine, starting from unit. The point x must have shape (n) or (k, n).
func (i *IID) reduce(x tensor.Tensor, eval func(tensor.Tensor) (tensor.Tensor, error),
	combine func(a, b float64) float64, unit float64) (tensor.Tensor, error) {
	switch {
	case x.Shape().Dims() == 1 && x.Shape()[0] == i.n:
	case x.Shape().Dims() == 2 && x.Shape()[1] == i.n:
	default:
		return nil, errors.Errorf("expected a point of shape (%v) or a batch of "+
			"shape (k, %v) but got %v", i.n, i.n, x.Shape())
	}

	per, err := eval(x)
	if err != nil {
		return nil, err
	}
	data, err := toFloats(per)
	if err != nil {
		return nil, err
	}

	if x.Shape().Dims() == 1 {
		out := unit
		for _, v := range data {
			out = combine(out, v)
		}
		return Scalar(out), nil
	}

	rows := x.Shape()[0]
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		acc := unit
		for _, v := range data[r*i.n : (r+1)*i.n] {
			acc = combine(acc, v)
		}
		out[r] = acc
	}
	return tensor.New(tensor.WithShape(rows), tensor.WithBacking(out)), nil
}

func (i *IID) PDF(x tensor.Tensor) (tensor.Tensor, error) {
	return i.reduce(x, i.base.PDF, func(a, b float64) float64 { return a * b }, 1)
}

func (i *IID) LogPDF(x tensor.Tensor) (tensor.Tensor, error) {
	return i.reduce(x, i.base.LogPDF, func(a, b float64) float64 { return a + b }, 0)
}

func (i *IID) CDF(x tensor.Tensor) (tensor.Tensor, error) {
	return i.reduce(x, i.base.CDF, func(a, b float64) float64 { return a * b }, 1)
}

func (i *IID) LogCDF(x tensor.Tensor) (tensor.Tensor, error) {
	return i.reduce(x, i.base.LogCDF, func(a, b float64) float64 { return a + b }, 0)
}

// Sample draws size independent realizations of the n-vector, shape
// (size, n).
func (i *IID) Sample(size int) (tensor.Tensor, error) {
	if size < 1 {
		return nil, errors.Errorf("sample: size must be positive, got %v", size)
	}
	s, err := i.base.Sample(size * i.n)
	if err != nil {
		return nil, err
	}
	data, err := toFloats(s)
	if err != nil {
		return nil, err
	}
	return tensor.New(tensor.WithShape(size, i.n), tensor.WithBacking(data)), nil
}

// repeated tiles a scalar statistic of the base across the event dimension.
func (i *IID) repeated(stat func() (tensor.Tensor, error)) (tensor.Tensor, error) {
	v, err := stat()
	if err != nil {
		return nil, err
	}
	s, ok := scalarFloat(v)
	if !ok {
		return nil, errors.Errorf("expected a scalar base statistic, got shape %v", v.Shape())
	}
	backing := make([]float64, i.n)
	for j := range backing {
		backing[j] = s
	}
	return tensor.New(tensor.WithShape(i.n), tensor.WithBacking(backing)), nil
}

func (i *IID) Mean() (tensor.Tensor, error) {
	return i.repeated(i.base.Mean)
}

func (i *IID) Var() (tensor.Tensor, error) {
	return i.repeated(i.base.Var)
}

func (i *IID) Median() (tensor.Tensor, error) {
	return i.repeated(i.base.Median)
}

// Entropy is the sum of the per-component entropies when the base has one.
func (i *IID) Entropy() (tensor.Tensor, error) {
	e, ok := i.base.(Entropier)
	if !ok {
		return nil, notImplemented("entropy", i.Name())
	}
	h, err := e.Entropy()
	if err != nil {
		return nil, err
	}
	s, ok := scalarFloat(h)
	if !ok {
		return nil, errors.Errorf("entropy: expected a scalar base entropy, got shape %v", h.Shape())
	}
	if math.IsNaN(s) {
		return nil, errors.New("entropy: base entropy is undefined")
	}
	return Scalar(float64(i.n) * s), nil
}

func (i *IID) RandomState() rand.Source { return i.base.RandomState() }

func (i *IID) SetRandomState(src rand.Source) { i.base.SetRandomState(src) }
