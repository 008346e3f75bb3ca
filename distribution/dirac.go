package distribution

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Dirac is a point mass. It models a constant as a random variable, so that
// arithmetic between a Dirac and any other random variable behaves like
// arithmetic with that constant. A point mass does not admit a proper
// probability density; its PDF is the indicator of the support.
//
// All arithmetic on a Dirac returns a new value and never mutates the
// operands.
type Dirac struct {
	support tensor.Tensor
	src     rand.Source
}

// NewDirac returns the point mass at support, which may be a scalar, vector
// or matrix tensor.
func NewDirac(support tensor.Tensor, src rand.Source) (*Dirac, error) {
	if support == nil {
		return nil, errors.New("newDirac: support must not be nil")
	}
	return &Dirac{support: support, src: src}, nil
}

func (d *Dirac) Name() string { return "Dirac" }

func (d *Dirac) Parameters() Parameters {
	return Parameters{"support": d.support}
}

// Support returns the location of the point mass.
func (d *Dirac) Support() tensor.Tensor { return d.support }

// PDF returns the indicator of the support: 1 where x equals the support and
// 0 elsewhere.
func (d *Dirac) PDF(x tensor.Tensor) (tensor.Tensor, error) {
	return d.compare(x, func(xi, si float64) bool { return xi == si })
}

func (d *Dirac) LogPDF(x tensor.Tensor) (tensor.Tensor, error) {
	p, err := d.PDF(x)
	if err != nil {
		return nil, err
	}
	return logVal(p)
}

// CDF is the step function at the support: 0 below it, 1 at and above it.
func (d *Dirac) CDF(x tensor.Tensor) (tensor.Tensor, error) {
	return d.compare(x, func(xi, si float64) bool { return xi >= si })
}

func (d *Dirac) LogCDF(x tensor.Tensor) (tensor.Tensor, error) {
	q, err := d.CDF(x)
	if err != nil {
		return nil, err
	}
	return logVal(q)
}

// compare evaluates pred elementwise against a scalar support, or reduces to
// a single 0/1 value when the support and x share a non-scalar shape.
func (d *Dirac) compare(x tensor.Tensor, pred func(xi, si float64) bool) (tensor.Tensor, error) {
	if s, ok := scalarFloat(d.support); ok {
		return applyElem(x,
			func(v float64) float64 {
				if pred(v, s) {
					return 1
				}
				return 0
			},
			func(v float32) float32 {
				if pred(float64(v), s) {
					return 1
				}
				return 0
			})
	}

	if !x.Shape().Eq(d.support.Shape()) {
		return nil, errors.Errorf("expected shape %v to match support shape %v",
			x.Shape(), d.support.Shape())
	}
	xd, err := toFloats(x)
	if err != nil {
		return nil, err
	}
	sd, err := toFloats(d.support)
	if err != nil {
		return nil, err
	}
	for i := range xd {
		if !pred(xd[i], sd[i]) {
			return Scalar(0), nil
		}
	}
	return Scalar(1), nil
}

// Sample returns the support repeated size times. The result always carries
// the sample dimension, size == 1 included.
func (d *Dirac) Sample(size int) (tensor.Tensor, error) {
	if size < 1 {
		return nil, errors.Errorf("sample: size must be positive, got %v", size)
	}
	outShape := append(tensor.Shape{size}, d.support.Shape().Clone()...)
	switch data := d.support.Data().(type) {
	case float64:
		backing := make([]float64, size)
		for i := range backing {
			backing[i] = data
		}
		return tensor.New(tensor.WithShape(size), tensor.WithBacking(backing)), nil
	case []float64:
		backing := make([]float64, size*len(data))
		for i := 0; i < size; i++ {
			copy(backing[i*len(data):(i+1)*len(data)], data)
		}
		return tensor.New(tensor.WithShape(outShape...), tensor.WithBacking(backing)), nil
	case float32:
		backing := make([]float32, size)
		for i := range backing {
			backing[i] = data
		}
		return tensor.New(tensor.WithShape(size), tensor.WithBacking(backing)), nil
	case []float32:
		backing := make([]float32, size*len(data))
		for i := 0; i < size; i++ {
			copy(backing[i*len(data):(i+1)*len(data)], data)
		}
		return tensor.New(tensor.WithShape(outShape...), tensor.WithBacking(backing)), nil
	}
	return nil, errors.Errorf("sample: unsupported dtype %v", d.support.Dtype())
}

func (d *Dirac) Mean() (tensor.Tensor, error) {
	return cloneVal(d.support), nil
}

// Var is identically the zero element of the support's shape and dtype.
func (d *Dirac) Var() (tensor.Tensor, error) {
	return zeroLike(d.support)
}

func (d *Dirac) Median() (tensor.Tensor, error) {
	return cloneVal(d.support), nil
}

// Quantile is the support for every probability: the step CDF has a constant
// inverse.
func (d *Dirac) Quantile(p tensor.Tensor) (tensor.Tensor, error) {
	return cloneVal(d.support), nil
}

func (d *Dirac) RandomState() rand.Source { return d.src }

func (d *Dirac) SetRandomState(src rand.Source) { d.src = src }
