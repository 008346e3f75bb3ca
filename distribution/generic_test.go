package distribution

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// TestGenericDerivations checks that a density is derived from a supplied
// log-density and vice versa, and the same for the cumulative pair.
func TestGenericDerivations(t *testing.T) {
	const threshold = 0.0000001
	const tests = 30
	rand.Seed(time.Now().UnixNano())

	dist := distuv.Gamma{Alpha: 2, Beta: 1.5}

	fromLog := NewGeneric(Funcs{
		LogPDF: func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, dist.LogProb, func(v float32) float32 {
				return float32(dist.LogProb(float64(v)))
			})
		},
		LogCDF: func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x,
				func(v float64) float64 { return math.Log(dist.CDF(v)) },
				func(v float32) float32 { return float32(math.Log(dist.CDF(float64(v)))) })
		},
	}, nil, nil)

	for i := 0; i < tests; i++ {
		x := rand.Float64()*5 + 0.1

		p, err := fromLog.PDF(Scalar(x))
		if err != nil {
			t.Error(err)
		}
		if got := scalarFor(t, p); math.Abs(got-dist.Prob(x)) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", dist.Prob(x), got, x)
		}

		q, err := fromLog.CDF(Scalar(x))
		if err != nil {
			t.Error(err)
		}
		if got := scalarFor(t, q); math.Abs(got-dist.CDF(x)) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", dist.CDF(x), got, x)
		}
	}

	fromPlain := NewGeneric(Funcs{
		PDF: func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, dist.Prob, func(v float32) float32 {
				return float32(dist.Prob(float64(v)))
			})
		},
		CDF: func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, dist.CDF, func(v float32) float32 {
				return float32(dist.CDF(float64(v)))
			})
		},
	}, nil, nil)

	x := 1.25
	logp, err := fromPlain.LogPDF(Scalar(x))
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, logp); math.Abs(got-dist.LogProb(x)) > threshold {
		t.Errorf("expected: %v received: %v", dist.LogProb(x), got)
	}
	logq, err := fromPlain.LogCDF(Scalar(x))
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, logq); math.Abs(got-math.Log(dist.CDF(x))) > threshold {
		t.Errorf("expected: %v received: %v", math.Log(dist.CDF(x)), got)
	}
}

// TestGenericFloat32 checks that evaluating at float32 points keeps the
// float32 dtype.
func TestGenericFloat32(t *testing.T) {
	const threshold = 0.0001

	dist := distuv.Normal{Mu: 0, Sigma: 1}
	g := NewGeneric(Funcs{
		LogPDF: func(x tensor.Tensor) (tensor.Tensor, error) {
			return applyElem(x, dist.LogProb, func(v float32) float32 {
				return float32(dist.LogProb(float64(v)))
			})
		},
	}, nil, nil)

	x := tensor.New(tensor.WithShape(2), tensor.WithBacking([]float32{0, 1}))
	p, err := g.PDF(x)
	if err != nil {
		t.Error(err)
	}
	if p.Dtype() != tensor.Float32 {
		t.Errorf("expected dtype %v, received: %v", tensor.Float32, p.Dtype())
	}
	out, ok := p.Data().([]float32)
	if !ok {
		t.Fatalf("expected a []float32 backing, got %T", p.Data())
	}
	for i, xi := range []float64{0, 1} {
		if math.Abs(float64(out[i])-dist.Prob(xi)) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", dist.Prob(xi), out[i], xi)
		}
	}
}

func TestGenericNotImplemented(t *testing.T) {
	g := NewGeneric(Funcs{}, nil, nil)

	if _, err := g.PDF(Scalar(0)); err == nil {
		t.Error("expected an error for a missing density")
	} else {
		var niErr *NotImplementedError
		if !errors.As(err, &niErr) {
			t.Errorf("expected a NotImplementedError, received: %v", err)
		} else if niErr.Family != "Generic" {
			t.Errorf("expected family Generic, received: %v", niErr.Family)
		}
	}
	if _, err := g.Sample(3); err == nil {
		t.Error("expected an error for missing sampling")
	}
	if _, err := g.Mean(); err == nil {
		t.Error("expected an error for a missing mean")
	}
}

func TestGenericParameterMoments(t *testing.T) {
	g := NewGeneric(Funcs{}, Parameters{
		"mean": Scalar(1.5),
		"var":  Scalar(0.5),
	}, nil)

	m, err := g.Mean()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, m); got != 1.5 {
		t.Errorf("expected: 1.5 received: %v", got)
	}
	v, err := g.Var()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, v); got != 0.5 {
		t.Errorf("expected: 0.5 received: %v", got)
	}

	s, err := Std(g)
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, s); math.Abs(got-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("expected: %v received: %v", math.Sqrt(0.5), got)
	}
}

// TestGenericMedian exercises the weak default: the median evaluates the CDF
// at probability 0.5.
func TestGenericMedian(t *testing.T) {
	g := NewGeneric(Funcs{
		CDF: func(x tensor.Tensor) (tensor.Tensor, error) {
			s, _ := scalarFloat(x)
			return Scalar(s * 2), nil
		},
	}, nil, nil)

	m, err := g.Median()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, m); got != 1.0 {
		t.Errorf("expected: 1.0 received: %v", got)
	}
}
