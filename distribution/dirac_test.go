package distribution

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"gorgonia.org/tensor"
)

// floatsFor extracts a tensor's elements for checking.
func floatsFor(t *testing.T, v tensor.Tensor) []float64 {
	data, err := toFloats(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func scalarFor(t *testing.T, v tensor.Tensor) float64 {
	s, ok := scalarFloat(v)
	if !ok {
		t.Fatalf("expected a scalar tensor, got shape %v", v.Shape())
	}
	return s
}

// TestDiracArithmetic tests arithmetic between two point masses against the
// arithmetic of their (randomized) supports.
func TestDiracArithmetic(t *testing.T) {
	const threshold = 0.0000001 // Threshold at which floats are equal
	const tests = 30            // Number of tests to run
	rand.Seed(time.Now().UnixNano())

	for i := 0; i < tests; i++ {
		a := (rand.Float64() - 0.5) * 10
		b := (rand.Float64()-0.5)*10 + 11 // keep b away from 0

		x, err := NewDirac(Scalar(a), nil)
		if err != nil {
			t.Error(err)
		}
		y, err := NewDirac(Scalar(b), nil)
		if err != nil {
			t.Error(err)
		}

		cases := []struct {
			op       func(x, y Distribution) (Distribution, error)
			expected float64
		}{
			{Add, a + b},
			{Sub, a - b},
			{Mul, a * b},
			{Div, a / b},
			{Pow, math.Pow(a, b)},
		}
		for _, c := range cases {
			out, err := c.op(x, y)
			if err != nil {
				t.Error(err)
				continue
			}
			d, ok := out.(*Dirac)
			if !ok {
				t.Errorf("expected a point mass, got %v", out.Name())
				continue
			}
			mean, err := d.Mean()
			if err != nil {
				t.Error(err)
			}
			if got := scalarFor(t, mean); math.Abs(got-c.expected) > threshold {
				t.Errorf("expected: %v received: %v for supports %v, %v",
					c.expected, got, a, b)
			}
			variance, err := d.Var()
			if err != nil {
				t.Error(err)
			}
			if got := scalarFor(t, variance); got != 0 {
				t.Errorf("expected a zero variance, received: %v", got)
			}
		}
	}
}

// TestDiracValueSemantics checks that arithmetic never mutates the operands.
func TestDiracValueSemantics(t *testing.T) {
	x, err := NewDirac(Scalar(3), nil)
	if err != nil {
		t.Error(err)
	}
	y, err := NewDirac(Scalar(4), nil)
	if err != nil {
		t.Error(err)
	}

	if _, err := Add(x, y); err != nil {
		t.Error(err)
	}
	if _, err := Mul(x, y); err != nil {
		t.Error(err)
	}
	if _, err := Neg(x); err != nil {
		t.Error(err)
	}

	if got := scalarFor(t, x.Support()); got != 3 {
		t.Errorf("operand was mutated: expected support 3, received: %v", got)
	}
	if got := scalarFor(t, y.Support()); got != 4 {
		t.Errorf("operand was mutated: expected support 4, received: %v", got)
	}
}

func TestDiracSample(t *testing.T) {
	x, err := NewDirac(Scalar(0), nil)
	if err != nil {
		t.Error(err)
	}
	y, err := NewDirac(Scalar(1), nil)
	if err != nil {
		t.Error(err)
	}
	sum, err := Add(x, y)
	if err != nil {
		t.Error(err)
	}

	for _, size := range []int{1, 5, 100} {
		s, err := sum.Sample(size)
		if err != nil {
			t.Error(err)
		}
		if !s.Shape().Eq(tensor.Shape{size}) {
			t.Errorf("expected shape (%v), received: %v", size, s.Shape())
		}
		for _, v := range floatsFor(t, s) {
			if v != 1.0 {
				t.Errorf("expected every sample to equal 1.0, received: %v", v)
			}
		}
	}

	if _, err := sum.Sample(0); err == nil {
		t.Error("expected an error for a non-positive sample size")
	}
}

func TestDiracVectorSample(t *testing.T) {
	support := tensor.New(
		tensor.WithShape(3),
		tensor.WithBacking([]float64{1, 2, 3}),
	)
	d, err := NewDirac(support, nil)
	if err != nil {
		t.Error(err)
	}
	s, err := d.Sample(4)
	if err != nil {
		t.Error(err)
	}
	if !s.Shape().Eq(tensor.Shape{4, 3}) {
		t.Errorf("expected shape (4, 3), received: %v", s.Shape())
	}
	data := floatsFor(t, s)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			if data[i*3+j] != float64(j+1) {
				t.Errorf("expected: %v received: %v at row %v", j+1, data[i*3+j], i)
			}
		}
	}
}

// TestDiracCDF tests the step form of the cumulative: 0 strictly below the
// support and 1 at and above it.
func TestDiracCDF(t *testing.T) {
	d, err := NewDirac(Scalar(2), nil)
	if err != nil {
		t.Error(err)
	}

	x := tensor.New(
		tensor.WithShape(4),
		tensor.WithBacking([]float64{1.9, 2, 2.1, 100}),
	)
	q, err := d.CDF(x)
	if err != nil {
		t.Error(err)
	}
	expected := []float64{0, 1, 1, 1}
	for i, v := range floatsFor(t, q) {
		if v != expected[i] {
			t.Errorf("expected: %v received: %v at x = %v", expected[i], v, i)
		}
	}

	p, err := d.PDF(x)
	if err != nil {
		t.Error(err)
	}
	expected = []float64{0, 1, 0, 0}
	for i, v := range floatsFor(t, p) {
		if v != expected[i] {
			t.Errorf("expected pdf %v received: %v at x = %v", expected[i], v, i)
		}
	}
}

func TestDiracDivideByZero(t *testing.T) {
	x, err := NewDirac(Scalar(1), nil)
	if err != nil {
		t.Error(err)
	}
	zero, err := NewDirac(Scalar(0), nil)
	if err != nil {
		t.Error(err)
	}

	if _, err := Div(x, zero); err != ErrDivideByZero {
		t.Errorf("expected ErrDivideByZero, received: %v", err)
	}
	if _, err := Inv(zero); err != ErrDivideByZero {
		t.Errorf("expected ErrDivideByZero, received: %v", err)
	}
}

func TestDiracUnary(t *testing.T) {
	d, err := NewDirac(Scalar(-2.5), nil)
	if err != nil {
		t.Error(err)
	}

	neg, err := Neg(d)
	if err != nil {
		t.Error(err)
	}
	m, err := neg.Mean()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, m); got != 2.5 {
		t.Errorf("expected: 2.5 received: %v", got)
	}

	abs, err := Abs(d)
	if err != nil {
		t.Error(err)
	}
	m, err = abs.Mean()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, m); got != 2.5 {
		t.Errorf("expected: 2.5 received: %v", got)
	}

	inv, err := Inv(d)
	if err != nil {
		t.Error(err)
	}
	m, err = inv.Mean()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, m); got != -0.4 {
		t.Errorf("expected: -0.4 received: %v", got)
	}
}

func TestDiracQuantile(t *testing.T) {
	d, err := NewDirac(Scalar(7), nil)
	if err != nil {
		t.Error(err)
	}
	var q Quantiler = d
	out, err := q.Quantile(Scalar(0.3))
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, out); got != 7 {
		t.Errorf("expected: 7 received: %v", got)
	}

	med, err := d.Median()
	if err != nil {
		t.Error(err)
	}
	if got := scalarFor(t, med); got != 7 {
		t.Errorf("expected: 7 received: %v", got)
	}
}
