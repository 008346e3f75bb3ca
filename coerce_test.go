package randvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"

	"github.com/probkit/randvar/distribution"
)

func TestAsRandomVariablePassthrough(t *testing.T) {
	rv := normalRV(t, 0, 1, nil)
	out, err := AsRandomVariable(rv)
	require.NoError(t, err)
	assert.Same(t, rv, out)
}

func TestAsRandomVariableConstants(t *testing.T) {
	out, err := AsRandomVariable(2.5)
	require.NoError(t, err)
	assert.Equal(t, "Dirac", out.Distribution().Name())
	assert.True(t, out.Shape().IsScalar())
	m, err := out.Mean()
	require.NoError(t, err)
	assert.Equal(t, 2.5, scalarOf(t, m))
	v, err := out.Var()
	require.NoError(t, err)
	assert.Equal(t, 0.0, scalarOf(t, v))

	out, err = AsRandomVariable([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, out.Shape().Eq(tensor.Shape{3}))

	out, err = AsRandomVariable(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	require.NoError(t, err)
	assert.True(t, out.Shape().Eq(tensor.Shape{2, 2}))

	out, err = AsRandomVariable(tensor.New(tensor.FromScalar(7.0)))
	require.NoError(t, err)
	m, err = out.Mean()
	require.NoError(t, err)
	assert.Equal(t, 7.0, scalarOf(t, m))
}

// TestAsRandomVariableUnsupported checks that values that coerce to a
// distribution but not to a constant are rejected at this layer.
func TestAsRandomVariableUnsupported(t *testing.T) {
	_, err := AsRandomVariable(distuv.Normal{Mu: 0, Sigma: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not yet supported")

	_, err = AsRandomVariable(distuv.Gamma{Alpha: 2, Beta: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not yet supported")

	n, err := distribution.NewNormal(distribution.Scalar(0), distribution.Scalar(1), nil)
	require.NoError(t, err)
	_, err = AsRandomVariable(n)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not yet supported")
}

func TestAsRandomVariableUnknown(t *testing.T) {
	_, err := AsRandomVariable("nope")
	require.Error(t, err)
	var coErr *distribution.CoercionError
	assert.ErrorAs(t, err, &coErr)
}
