package distribution

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Normal is the (multivariate) normal distribution. It is closed under the
// affine operations of the algebra: shifting by a point mass, scaling by a
// scalar point mass and mapping through a matrix point mass all yield a new
// Normal. Everything non-affine is unsupported and fails explicitly.
//
// A Normal is univariate when mean and covariance are both scalar tensors,
// and multivariate when the mean is a vector of length n and the covariance
// an n by n matrix. Density, cumulative and sampling routines are delegated
// to gonum's distuv and distmv.
type Normal struct {
	mean         tensor.Tensor
	cov          tensor.Tensor
	multivariate bool
	src          rand.Source
}

// NewNormal returns a normal distribution with the given mean and
// (co)variance. Mean and cov must either both be scalars or be a length-n
// vector and an n by n matrix; anything else fails at construction.
func NewNormal(mean, cov tensor.Tensor, src rand.Source) (*Normal, error) {
	if mean == nil || cov == nil {
		return nil, errors.New("newNormal: mean and covariance must not be nil")
	}

	meanScalar, covScalar := isScalarShaped(mean), isScalarShaped(cov)
	switch {
	case meanScalar && covScalar:
		if _, ok := scalarFloat(mean); !ok {
			return nil, errors.Errorf("newNormal: unsupported mean dtype %v", mean.Dtype())
		}
		if _, ok := scalarFloat(cov); !ok {
			return nil, errors.Errorf("newNormal: unsupported covariance dtype %v", cov.Dtype())
		}
		return &Normal{mean: mean, cov: cov, src: src}, nil

	case !meanScalar && !covScalar:
		if mean.Shape().Dims() != 1 || cov.Shape().Dims() != 2 {
			return nil, errors.Errorf("newNormal: expected a vector mean and a matrix "+
				"covariance but got shapes %v and %v", mean.Shape(), cov.Shape())
		}
		if mean.Shape()[0] != cov.Shape()[0] || cov.Shape()[0] != cov.Shape()[1] {
			return nil, errors.Errorf("newNormal: shape mismatch of mean %v and covariance %v",
				mean.Shape(), cov.Shape())
		}
		return &Normal{mean: mean, cov: cov, multivariate: true, src: src}, nil
	}
	return nil, errors.Errorf("newNormal: cannot instantiate a normal distribution with "+
		"mean of shape %v and covariance of shape %v", mean.Shape(), cov.Shape())
}

func (n *Normal) Name() string { return "Normal" }

func (n *Normal) Parameters() Parameters {
	return Parameters{"mean": n.mean, "cov": n.cov}
}

// Multivariate reports whether the distribution is in multivariate mode.
func (n *Normal) Multivariate() bool { return n.multivariate }

func (n *Normal) dim() int { return n.mean.Shape()[0] }

func (n *Normal) univariate() distuv.Normal {
	m, _ := scalarFloat(n.mean)
	c, _ := scalarFloat(n.cov)
	return distuv.Normal{Mu: m, Sigma: math.Sqrt(c), Src: n.src}
}

func (n *Normal) dist() (*distmv.Normal, error) {
	mu, err := toFloats(n.mean)
	if err != nil {
		return nil, err
	}
	covData, err := toFloats(n.cov)
	if err != nil {
		return nil, err
	}
	dist, ok := distmv.NewNormal(mu, mat.NewSymDense(n.dim(), covData), n.src)
	if !ok {
		return nil, errors.New("covariance matrix is not positive definite")
	}
	return dist, nil
}

// evalMV applies f to x, treated either as a single point of the
// distribution's dimension or as a batch of such points along dimension 0.
func (n *Normal) evalMV(x tensor.Tensor, f func(point []float64) float64) (tensor.Tensor, error) {
	d := n.dim()
	data, err := toFloats(x)
	if err != nil {
		return nil, err
	}
	switch {
	case x.Shape().Dims() == 1 && x.Shape()[0] == d:
		return Scalar(f(data)), nil
	case x.Shape().Dims() == 2 && x.Shape()[1] == d:
		rows := x.Shape()[0]
		out := make([]float64, rows)
		for i := 0; i < rows; i++ {
			out[i] = f(data[i*d : (i+1)*d])
		}
		return tensor.New(tensor.WithShape(rows), tensor.WithBacking(out)), nil
	}
	return nil, errors.Errorf("expected a point of shape (%v) or a batch of shape (k, %v) "+
		"but got %v", d, d, x.Shape())
}

func (n *Normal) PDF(x tensor.Tensor) (tensor.Tensor, error) {
	if n.multivariate {
		dist, err := n.dist()
		if err != nil {
			return nil, errors.Wrap(err, "pdf")
		}
		return n.evalMV(x, func(p []float64) float64 { return math.Exp(dist.LogProb(p)) })
	}
	dist := n.univariate()
	return applyElem(x, dist.Prob, func(v float32) float32 {
		return float32(dist.Prob(float64(v)))
	})
}

func (n *Normal) LogPDF(x tensor.Tensor) (tensor.Tensor, error) {
	if n.multivariate {
		dist, err := n.dist()
		if err != nil {
			return nil, errors.Wrap(err, "logpdf")
		}
		return n.evalMV(x, dist.LogProb)
	}
	dist := n.univariate()
	return applyElem(x, dist.LogProb, func(v float32) float32 {
		return float32(dist.LogProb(float64(v)))
	})
}

// CDF evaluates the cumulative distribution function. No multivariate normal
// cumulative is available from the statistics layer, so multivariate mode
// fails with a NotImplementedError rather than approximating.
func (n *Normal) CDF(x tensor.Tensor) (tensor.Tensor, error) {
	if n.multivariate {
		return nil, notImplemented("cdf", n.Name())
	}
	dist := n.univariate()
	return applyElem(x, dist.CDF, func(v float32) float32 {
		return float32(dist.CDF(float64(v)))
	})
}

func (n *Normal) LogCDF(x tensor.Tensor) (tensor.Tensor, error) {
	if n.multivariate {
		return nil, notImplemented("logcdf", n.Name())
	}
	dist := n.univariate()
	return applyElem(x,
		func(v float64) float64 { return math.Log(dist.CDF(v)) },
		func(v float32) float32 { return float32(math.Log(dist.CDF(float64(v)))) })
}

func (n *Normal) Sample(size int) (tensor.Tensor, error) {
	if size < 1 {
		return nil, errors.Errorf("sample: size must be positive, got %v", size)
	}
	if n.multivariate {
		dist, err := n.dist()
		if err != nil {
			return nil, errors.Wrap(err, "sample")
		}
		d := n.dim()
		backing := make([]float64, size*d)
		for i := 0; i < size; i++ {
			dist.Rand(backing[i*d : (i+1)*d])
		}
		return tensor.New(tensor.WithShape(size, d), tensor.WithBacking(backing)), nil
	}
	dist := n.univariate()
	backing := make([]float64, size)
	for i := range backing {
		backing[i] = dist.Rand()
	}
	return tensor.New(tensor.WithShape(size), tensor.WithBacking(backing)), nil
}

func (n *Normal) Mean() (tensor.Tensor, error) {
	return cloneVal(n.mean), nil
}

// Var returns the per-component variance: the covariance itself in
// univariate mode and the covariance diagonal in multivariate mode. The full
// covariance stays available through Parameters.
func (n *Normal) Var() (tensor.Tensor, error) {
	if !n.multivariate {
		return cloneVal(n.cov), nil
	}
	covData, err := toFloats(n.cov)
	if err != nil {
		return nil, err
	}
	d := n.dim()
	diag := make([]float64, d)
	for i := range diag {
		diag[i] = covData[i*d+i]
	}
	return tensor.New(tensor.WithShape(d), tensor.WithBacking(diag)), nil
}

func (n *Normal) Median() (tensor.Tensor, error) {
	return cloneVal(n.mean), nil
}

// Quantile returns the inverse CDF at probability p, elementwise.
func (n *Normal) Quantile(p tensor.Tensor) (tensor.Tensor, error) {
	if n.multivariate {
		return nil, notImplemented("quantile", n.Name())
	}
	dist := n.univariate()
	return applyElem(p, dist.Quantile, func(v float32) float32 {
		return float32(dist.Quantile(float64(v)))
	})
}

// Entropy returns the differential entropy.
func (n *Normal) Entropy() (tensor.Tensor, error) {
	if !n.multivariate {
		return Scalar(n.univariate().Entropy()), nil
	}
	covData, err := toFloats(n.cov)
	if err != nil {
		return nil, err
	}
	d := n.dim()
	logDet, sign := mat.LogDet(mat.NewDense(d, d, covData))
	if sign <= 0 {
		return nil, errors.New("entropy: covariance matrix is not positive definite")
	}
	return Scalar(0.5*float64(d)*(1+math.Log(2*math.Pi)) + 0.5*logDet), nil
}

func (n *Normal) RandomState() rand.Source { return n.src }

func (n *Normal) SetRandomState(src rand.Source) { n.src = src }

// addDirac shifts the distribution: Normal(m, C) + Dirac(d) = Normal(m+d, C).
func (n *Normal) addDirac(delta tensor.Tensor) (Distribution, error) {
	m, err := addVals(n.mean, delta)
	if err != nil {
		return nil, errors.Wrap(err, "add")
	}
	return NewNormal(m, cloneVal(n.cov), n.src)
}

// mulDirac scales the distribution by a scalar point mass:
// d*Normal(m, C) = Normal(d*m, d²*C), collapsing to the point mass at zero
// when d == 0.
func (n *Normal) mulDirac(delta tensor.Tensor) (Distribution, error) {
	s, ok := scalarFloat(delta)
	if !ok {
		return nil, errors.Errorf("mul: only scalar point masses have a closed form "+
			"against Normal, got support shape %v", delta.Shape())
	}
	if s == 0 {
		z, err := zeroLike(n.mean)
		if err != nil {
			return nil, errors.Wrap(err, "mul")
		}
		return NewDirac(z, n.src)
	}
	m, err := mulVals(n.mean, Scalar(s))
	if err != nil {
		return nil, errors.Wrap(err, "mul")
	}
	c, err := mulVals(n.cov, Scalar(s*s))
	if err != nil {
		return nil, errors.Wrap(err, "mul")
	}
	return NewNormal(m, c, n.src)
}

// matmulDirac maps the distribution through a matrix point mass A:
// A @ Normal(m, C) = Normal(A@m, A@C@Aᵀ), and symmetrically for m@A on the
// right. Only multivariate normals can be mapped.
func (n *Normal) matmulDirac(delta tensor.Tensor, onLeft bool) (Distribution, error) {
	if !n.multivariate {
		return nil, errors.New("matmul: the Normal operand must be multivariate")
	}
	var m tensor.Tensor
	var err error
	if onLeft {
		m, err = matmulVals(delta, n.mean)
	} else {
		m, err = matmulVals(n.mean, delta)
	}
	if err != nil {
		return nil, err
	}
	deltaT, err := transposeVal(delta)
	if err != nil {
		return nil, err
	}
	c, err := matmulVals(delta, n.cov)
	if err != nil {
		return nil, err
	}
	c, err = matmulVals(c, deltaT)
	if err != nil {
		return nil, err
	}
	return NewNormal(m, c, n.src)
}

func (n *Normal) divDirac(delta tensor.Tensor) (Distribution, error) {
	s, ok := scalarFloat(delta)
	if !ok {
		return nil, errors.Errorf("div: only scalar point masses have a closed form "+
			"against Normal, got support shape %v", delta.Shape())
	}
	if s == 0 {
		return nil, ErrDivideByZero
	}
	return n.mulDirac(Scalar(1 / s))
}

func (n *Normal) neg() (Distribution, error) {
	m, err := negVal(n.mean)
	if err != nil {
		return nil, errors.Wrap(err, "neg")
	}
	return NewNormal(m, cloneVal(n.cov), n.src)
}

func (n *Normal) pos() (Distribution, error) {
	return NewNormal(cloneVal(n.mean), cloneVal(n.cov), n.src)
}
