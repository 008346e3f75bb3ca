package distribution

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Values flowing through the algebra (supports, means, covariances, samples,
// evaluation points) are tensors; scalars are scalar-shaped tensors. The
// helpers below implement the elementwise and matrix primitives the dispatch
// rules are built from. Numeric arithmetic is defined for Float64 and (where
// elementwise) Float32 tensors; other dtypes are rejected with a descriptive
// error rather than silently coerced.

// Scalar wraps a scalar value in a scalar-shaped tensor.
func Scalar(v float64) tensor.Tensor {
	return tensor.New(tensor.FromScalar(v))
}

func isScalarShaped(t tensor.Tensor) bool {
	return t.Shape().IsScalar()
}

// scalarFloat extracts a scalar tensor's value as a float64.
func scalarFloat(t tensor.Tensor) (float64, bool) {
	if !isScalarShaped(t) {
		return 0, false
	}
	switch v := t.Data().(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}

// unwrap converts scalar tensors to their bare value so that the tensor
// package's scalar-tensor arithmetic paths apply.
func unwrap(t tensor.Tensor) interface{} {
	if isScalarShaped(t) {
		return t.Data()
	}
	return t
}

func cloneVal(t tensor.Tensor) tensor.Tensor {
	return t.Clone().(tensor.Tensor)
}

type binOp func(a, b interface{}, opts ...tensor.FuncOpt) (tensor.Tensor, error)

func elemBin(op binOp, scalarOp func(a, b float64) float64, a, b tensor.Tensor) (tensor.Tensor, error) {
	if isScalarShaped(a) && isScalarShaped(b) {
		x, xok := scalarFloat(a)
		y, yok := scalarFloat(b)
		if !xok || !yok {
			return nil, errors.Errorf("unsupported scalar dtypes %v and %v", a.Dtype(), b.Dtype())
		}
		return Scalar(scalarOp(x, y)), nil
	}
	return op(unwrap(a), unwrap(b))
}

func addVals(a, b tensor.Tensor) (tensor.Tensor, error) {
	return elemBin(tensor.Add, func(x, y float64) float64 { return x + y }, a, b)
}

func subVals(a, b tensor.Tensor) (tensor.Tensor, error) {
	return elemBin(tensor.Sub, func(x, y float64) float64 { return x - y }, a, b)
}

func mulVals(a, b tensor.Tensor) (tensor.Tensor, error) {
	return elemBin(tensor.Mul, func(x, y float64) float64 { return x * y }, a, b)
}

func divVals(a, b tensor.Tensor) (tensor.Tensor, error) {
	return elemBin(tensor.Div, func(x, y float64) float64 { return x / y }, a, b)
}

func powVals(a, b tensor.Tensor) (tensor.Tensor, error) {
	return elemBin(tensor.Pow, math.Pow, a, b)
}

// applyElem maps a unary function over a tensor, computing float32 elements
// with the float32 variant so no precision is silently gained.
func applyElem(t tensor.Tensor, f64 func(float64) float64, f32 func(float32) float32) (tensor.Tensor, error) {
	switch data := t.Data().(type) {
	case float64:
		return Scalar(f64(data)), nil
	case []float64:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = f64(v)
		}
		return tensor.New(tensor.WithShape(t.Shape().Clone()...), tensor.WithBacking(out)), nil
	case float32:
		return tensor.New(tensor.FromScalar(f32(data))), nil
	case []float32:
		out := make([]float32, len(data))
		for i, v := range data {
			out[i] = f32(v)
		}
		return tensor.New(tensor.WithShape(t.Shape().Clone()...), tensor.WithBacking(out)), nil
	}
	return nil, errors.Errorf("unsupported dtype %v", t.Dtype())
}

func negVal(t tensor.Tensor) (tensor.Tensor, error) {
	return applyElem(t,
		func(v float64) float64 { return -v },
		func(v float32) float32 { return -v })
}

func absVal(t tensor.Tensor) (tensor.Tensor, error) {
	return applyElem(t, math.Abs, math32.Abs)
}

func expVal(t tensor.Tensor) (tensor.Tensor, error) {
	return applyElem(t, math.Exp, math32.Exp)
}

func logVal(t tensor.Tensor) (tensor.Tensor, error) {
	return applyElem(t, math.Log, math32.Log)
}

func sqrtVal(t tensor.Tensor) (tensor.Tensor, error) {
	return applyElem(t, math.Sqrt, math32.Sqrt)
}

// recipVal computes the elementwise reciprocal, failing on any exact zero.
func recipVal(t tensor.Tensor) (tensor.Tensor, error) {
	if hasZero(t) {
		return nil, ErrDivideByZero
	}
	return applyElem(t,
		func(v float64) float64 { return 1 / v },
		func(v float32) float32 { return 1 / v })
}

func hasZero(t tensor.Tensor) bool {
	switch data := t.Data().(type) {
	case float64:
		return data == 0
	case []float64:
		for _, v := range data {
			if v == 0 {
				return true
			}
		}
	case float32:
		return data == 0
	case []float32:
		for _, v := range data {
			if v == 0 {
				return true
			}
		}
	case int:
		return data == 0
	case int64:
		return data == 0
	case int32:
		return data == 0
	}
	return false
}

func isZero(t tensor.Tensor) bool {
	switch data := t.Data().(type) {
	case float64:
		return data == 0
	case []float64:
		for _, v := range data {
			if v != 0 {
				return false
			}
		}
		return true
	case float32:
		return data == 0
	case []float32:
		for _, v := range data {
			if v != 0 {
				return false
			}
		}
		return true
	case int:
		return data == 0
	case int64:
		return data == 0
	case int32:
		return data == 0
	}
	return false
}

// zeroLike returns the zero element of the same shape and dtype as t.
func zeroLike(t tensor.Tensor) (tensor.Tensor, error) {
	switch t.Data().(type) {
	case float64:
		return Scalar(0), nil
	case float32:
		return tensor.New(tensor.FromScalar(float32(0))), nil
	case []float64, []float32:
		return tensor.New(tensor.Of(t.Dtype()), tensor.WithShape(t.Shape().Clone()...)), nil
	case int:
		return tensor.New(tensor.FromScalar(int(0))), nil
	case int64:
		return tensor.New(tensor.FromScalar(int64(0))), nil
	case int32:
		return tensor.New(tensor.FromScalar(int32(0))), nil
	}
	return nil, errors.Errorf("unsupported dtype %v", t.Dtype())
}

// broadcastApply combines t with v elementwise in float64, where v is either
// a scalar, a tensor of t's shape, or a tensor matching t's trailing
// dimensions (v is then applied to each leading slice of t, e.g. to every
// sample in a batch).
func broadcastApply(t, v tensor.Tensor, f func(a, b float64) float64) (tensor.Tensor, error) {
	td, err := toFloats(t)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(td))

	if s, ok := scalarFloat(v); ok {
		for i, a := range td {
			out[i] = f(a, s)
		}
		return tensor.New(tensor.WithShape(t.Shape().Clone()...), tensor.WithBacking(out)), nil
	}

	vd, err := toFloats(v)
	if err != nil {
		return nil, err
	}
	tShape, vShape := t.Shape(), v.Shape()
	switch {
	case tShape.Eq(vShape):
		for i, a := range td {
			out[i] = f(a, vd[i])
		}
	case tShape.Dims() == vShape.Dims()+1 && tensor.Shape(tShape[1:]).Eq(vShape):
		stride := len(vd)
		for i, a := range td {
			out[i] = f(a, vd[i%stride])
		}
	default:
		return nil, errors.Errorf("shape mismatch between %v and %v", tShape, vShape)
	}
	return tensor.New(tensor.WithShape(tShape.Clone()...), tensor.WithBacking(out)), nil
}

// toFloats returns the float64 elements of t. The returned slice is a copy.
func toFloats(t tensor.Tensor) ([]float64, error) {
	switch data := t.Data().(type) {
	case float64:
		return []float64{data}, nil
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil
	case float32:
		return []float64{float64(data)}, nil
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	}
	return nil, errors.Errorf("unsupported dtype %v", t.Dtype())
}

// matmulVals multiplies vectors and matrices: (m,n)x(n,p), (n,)x(n,p),
// (m,n)x(n,) and (n,)x(n,) combinations are supported. Vector-vector
// multiplication contracts to a scalar.
func matmulVals(a, b tensor.Tensor) (tensor.Tensor, error) {
	ad, err := toFloats(a)
	if err != nil {
		return nil, errors.Wrap(err, "matmul")
	}
	bd, err := toFloats(b)
	if err != nil {
		return nil, errors.Wrap(err, "matmul")
	}

	aShape, bShape := a.Shape(), b.Shape()
	if aShape.Dims() < 1 || aShape.Dims() > 2 || bShape.Dims() < 1 || bShape.Dims() > 2 {
		return nil, errors.Errorf("matmul: operands must be vectors or matrices, got shapes %v and %v",
			aShape, bShape)
	}

	// Vectors are promoted to a single row (left operand) or a single
	// column (right operand).
	ar, ac := 1, aShape[0]
	if aShape.Dims() == 2 {
		ar, ac = aShape[0], aShape[1]
	}
	br, bc := bShape[0], 1
	if bShape.Dims() == 2 {
		br, bc = bShape[0], bShape[1]
	}
	if ac != br {
		return nil, errors.Errorf("matmul: inner dimensions do not agree for shapes %v and %v",
			aShape, bShape)
	}

	var out mat.Dense
	out.Mul(mat.NewDense(ar, ac, ad), mat.NewDense(br, bc, bd))
	raw := out.RawMatrix()
	data := make([]float64, ar*bc)
	for i := 0; i < ar; i++ {
		copy(data[i*bc:(i+1)*bc], raw.Data[i*raw.Stride:i*raw.Stride+bc])
	}

	switch {
	case aShape.Dims() == 1 && bShape.Dims() == 1:
		return Scalar(data[0]), nil
	case aShape.Dims() == 1:
		return tensor.New(tensor.WithShape(bc), tensor.WithBacking(data)), nil
	case bShape.Dims() == 1:
		return tensor.New(tensor.WithShape(ar), tensor.WithBacking(data)), nil
	}
	return tensor.New(tensor.WithShape(ar, bc), tensor.WithBacking(data)), nil
}

// transposeVal transposes a matrix; vectors and scalars pass through.
func transposeVal(t tensor.Tensor) (tensor.Tensor, error) {
	if t.Shape().Dims() < 2 {
		return cloneVal(t), nil
	}
	if t.Shape().Dims() > 2 {
		return nil, errors.Errorf("transpose: expected at most 2 dimensions, got shape %v", t.Shape())
	}
	data, err := toFloats(t)
	if err != nil {
		return nil, errors.Wrap(err, "transpose")
	}
	r, c := t.Shape()[0], t.Shape()[1]
	out := make([]float64, len(data))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[j*r+i] = data[i*c+j]
		}
	}
	return tensor.New(tensor.WithShape(c, r), tensor.WithBacking(out)), nil
}
