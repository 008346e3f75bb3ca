package distribution

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// The binary operations dispatch on the concrete families of their operands.
// Point masses compose exactly with everything: against another point mass
// the supports combine directly, against a Normal the affine closed forms
// apply, and against any other family the result is an Affine or LinearMap
// capturing the operand. Every pair without a rule fails with an
// UnsupportedOpError naming both families.

// Add returns the distribution of X + Y.
func Add(x, y Distribution) (Distribution, error) {
	if xd, ok := x.(*Dirac); ok {
		if _, ok := y.(*Dirac); !ok {
			// a point-mass shift commutes
			return addPointMass(y, xd.support)
		}
	}
	if yd, ok := y.(*Dirac); ok {
		return addPointMass(x, yd.support)
	}
	return nil, unsupportedOp("addition", x, y)
}

// Sub returns the distribution of X - Y, defined as X + (-Y) when Y is a
// point mass and as (-Y) + X when X is.
func Sub(x, y Distribution) (Distribution, error) {
	if yd, ok := y.(*Dirac); ok {
		delta, err := negVal(yd.support)
		if err != nil {
			return nil, errors.Wrap(err, "sub")
		}
		return addPointMass(x, delta)
	}
	if xd, ok := x.(*Dirac); ok {
		ny, err := Neg(y)
		if err != nil {
			return nil, errors.Wrap(err, "sub")
		}
		return addPointMass(ny, xd.support)
	}
	return nil, unsupportedOp("subtraction", x, y)
}

// Mul returns the distribution of X * Y (elementwise).
func Mul(x, y Distribution) (Distribution, error) {
	if yd, ok := y.(*Dirac); ok {
		return mulPointMass(x, yd.support)
	}
	if xd, ok := x.(*Dirac); ok {
		return mulPointMass(y, xd.support)
	}
	return nil, unsupportedOp("multiplication", x, y)
}

// MatMul returns the distribution of X @ Y. Matrix multiplication does not
// commute, so the side of the point-mass operand is preserved.
func MatMul(x, y Distribution) (Distribution, error) {
	xd, xok := x.(*Dirac)
	yd, yok := y.(*Dirac)
	switch {
	case xok && yok:
		s, err := matmulVals(xd.support, yd.support)
		if err != nil {
			return nil, errors.Wrap(err, "matmul")
		}
		return NewDirac(s, pickSrc(xd.src, yd.src))
	case yok: // X @ M
		if n, ok := x.(*Normal); ok {
			return n.matmulDirac(yd.support, false)
		}
		return &LinearMap{base: x, m: cloneVal(yd.support)}, nil
	case xok: // M @ X
		if n, ok := y.(*Normal); ok {
			return n.matmulDirac(xd.support, true)
		}
		return &LinearMap{base: y, m: cloneVal(xd.support), left: true}, nil
	}
	return nil, unsupportedOp("matrix multiplication", x, y)
}

// Div returns the distribution of X / Y, defined as X * (1/Y) for a
// point-mass divisor. Dividing by a point mass with any exact-zero element
// fails with ErrDivideByZero.
func Div(x, y Distribution) (Distribution, error) {
	if yd, ok := y.(*Dirac); ok {
		recip, err := recipVal(yd.support)
		if err != nil {
			return nil, err
		}
		return mulPointMass(x, recip)
	}
	return nil, unsupportedOp("division", x, y)
}

// Pow returns the distribution of X ** Y. Exponentiation is only defined
// between point masses.
func Pow(x, y Distribution) (Distribution, error) {
	xd, xok := x.(*Dirac)
	yd, yok := y.(*Dirac)
	if xok && yok {
		s, err := powVals(xd.support, yd.support)
		if err != nil {
			return nil, errors.Wrap(err, "pow")
		}
		return NewDirac(s, pickSrc(xd.src, yd.src))
	}
	return nil, unsupportedOp("exponentiation", x, y)
}

// addPointMass shifts x by the constant delta.
func addPointMass(x Distribution, delta tensor.Tensor) (Distribution, error) {
	switch xt := x.(type) {
	case *Dirac:
		s, err := addVals(xt.support, delta)
		if err != nil {
			return nil, errors.Wrap(err, "add")
		}
		return NewDirac(s, xt.src)
	case *Normal:
		return xt.addDirac(delta)
	case *Affine:
		return xt.addConst(delta)
	}
	return newAffine(x, nil, cloneVal(delta)), nil
}

// mulPointMass scales x by the constant delta. Scaling by an exact zero
// collapses any distribution with a defined mean to the point mass at the
// zero element of that mean.
func mulPointMass(x Distribution, delta tensor.Tensor) (Distribution, error) {
	if isZero(delta) {
		m, err := x.Mean()
		if err != nil {
			return nil, errors.Wrap(err, "mul: collapsing to a point mass requires a mean")
		}
		z, err := zeroLike(m)
		if err != nil {
			return nil, errors.Wrap(err, "mul")
		}
		return NewDirac(z, x.RandomState())
	}
	switch xt := x.(type) {
	case *Dirac:
		s, err := mulVals(xt.support, delta)
		if err != nil {
			return nil, errors.Wrap(err, "mul")
		}
		return NewDirac(s, xt.src)
	case *Normal:
		return xt.mulDirac(delta)
	case *Affine:
		return xt.mulConst(delta)
	}
	return newAffine(x, cloneVal(delta), nil), nil
}

// Neg returns the distribution of -X. The variance is unchanged.
func Neg(x Distribution) (Distribution, error) {
	switch xt := x.(type) {
	case *Dirac:
		s, err := negVal(xt.support)
		if err != nil {
			return nil, errors.Wrap(err, "neg")
		}
		return NewDirac(s, xt.src)
	case *Normal:
		return xt.neg()
	case *Affine:
		return xt.mulConst(Scalar(-1))
	}
	return newAffine(x, Scalar(-1), nil), nil
}

// Pos returns the distribution of +X, a fresh value with identical behavior.
func Pos(x Distribution) (Distribution, error) {
	switch xt := x.(type) {
	case *Dirac:
		return NewDirac(cloneVal(xt.support), xt.src)
	case *Normal:
		return xt.pos()
	case *Affine:
		return newAffine(xt.base, xt.scale, xt.shift), nil
	}
	return newAffine(x, nil, nil), nil
}

// Abs returns the distribution of |X|. For a point mass this is exact; for
// every other family only sampling composes, so the result is a
// sampling-only distribution whose densities and moments fail with a
// NotImplementedError when requested.
func Abs(x Distribution) (Distribution, error) {
	if xt, ok := x.(*Dirac); ok {
		s, err := absVal(xt.support)
		if err != nil {
			return nil, errors.Wrap(err, "abs")
		}
		return NewDirac(s, xt.src)
	}
	return NewGeneric(Funcs{
		Sample: func(size int) (tensor.Tensor, error) {
			s, err := x.Sample(size)
			if err != nil {
				return nil, err
			}
			return absVal(s)
		},
	}, nil, x.RandomState()), nil
}

// Inv returns the distribution of 1/X. Only point masses have a closed form;
// inverting any element at exact zero fails with ErrDivideByZero.
func Inv(x Distribution) (Distribution, error) {
	if xt, ok := x.(*Dirac); ok {
		r, err := recipVal(xt.support)
		if err != nil {
			return nil, err
		}
		return NewDirac(r, xt.src)
	}
	return nil, unsupportedOp("inversion", x, nil)
}

func pickSrc(a, b rand.Source) rand.Source {
	if a != nil {
		return a
	}
	return b
}
