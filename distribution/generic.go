package distribution

import (
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Funcs bundles the optional capability functions of a Generic distribution.
// Nil fields mark absent capabilities; a missing density (cumulative) is
// derived from the log-density (log-cumulative) and vice versa, everything
// else fails with a NotImplementedError when requested.
type Funcs struct {
	PDF    func(x tensor.Tensor) (tensor.Tensor, error)
	LogPDF func(x tensor.Tensor) (tensor.Tensor, error)
	CDF    func(x tensor.Tensor) (tensor.Tensor, error)
	LogCDF func(x tensor.Tensor) (tensor.Tensor, error)
	Sample func(size int) (tensor.Tensor, error)
	Mean   func() (tensor.Tensor, error)
	Var    func() (tensor.Tensor, error)
}

// Generic is a distribution described by whichever capability functions were
// supplied, typically one wrapping an external statistics routine. It is the
// extension point for families without a native implementation.
type Generic struct {
	funcs  Funcs
	params Parameters
	src    rand.Source
}

// NewGeneric returns a distribution backed by the given capability functions
// and parameters. Either may be partially or fully empty.
func NewGeneric(funcs Funcs, params Parameters, src rand.Source) *Generic {
	if params == nil {
		params = Parameters{}
	}
	return &Generic{funcs: funcs, params: params, src: src}
}

func (g *Generic) Name() string { return "Generic" }

func (g *Generic) Parameters() Parameters { return g.params }

func (g *Generic) PDF(x tensor.Tensor) (tensor.Tensor, error) {
	if g.funcs.PDF != nil {
		return g.funcs.PDF(x)
	}
	if g.funcs.LogPDF != nil {
		logp, err := g.funcs.LogPDF(x)
		if err != nil {
			return nil, err
		}
		return expVal(logp)
	}
	return nil, notImplemented("pdf", g.Name())
}

func (g *Generic) LogPDF(x tensor.Tensor) (tensor.Tensor, error) {
	if g.funcs.LogPDF != nil {
		return g.funcs.LogPDF(x)
	}
	if g.funcs.PDF != nil {
		p, err := g.funcs.PDF(x)
		if err != nil {
			return nil, err
		}
		return logVal(p)
	}
	return nil, notImplemented("logpdf", g.Name())
}

func (g *Generic) CDF(x tensor.Tensor) (tensor.Tensor, error) {
	if g.funcs.CDF != nil {
		return g.funcs.CDF(x)
	}
	if g.funcs.LogCDF != nil {
		logq, err := g.funcs.LogCDF(x)
		if err != nil {
			return nil, err
		}
		return expVal(logq)
	}
	return nil, notImplemented("cdf", g.Name())
}

func (g *Generic) LogCDF(x tensor.Tensor) (tensor.Tensor, error) {
	if g.funcs.LogCDF != nil {
		return g.funcs.LogCDF(x)
	}
	if g.funcs.CDF != nil {
		q, err := g.funcs.CDF(x)
		if err != nil {
			return nil, err
		}
		return logVal(q)
	}
	return nil, notImplemented("logcdf", g.Name())
}

func (g *Generic) Sample(size int) (tensor.Tensor, error) {
	if g.funcs.Sample != nil {
		return g.funcs.Sample(size)
	}
	return nil, notImplemented("sample", g.Name())
}

func (g *Generic) Mean() (tensor.Tensor, error) {
	if g.funcs.Mean != nil {
		return g.funcs.Mean()
	}
	if m, ok := g.params["mean"]; ok {
		return cloneVal(m), nil
	}
	return nil, notImplemented("mean", g.Name())
}

func (g *Generic) Var() (tensor.Tensor, error) {
	if g.funcs.Var != nil {
		return g.funcs.Var()
	}
	if v, ok := g.params["var"]; ok {
		return cloneVal(v), nil
	}
	return nil, notImplemented("var", g.Name())
}

// Median evaluates the CDF at probability 0.5. This is a weak default kept
// for capability parity; families with a proper inverse CDF override it.
func (g *Generic) Median() (tensor.Tensor, error) {
	return g.CDF(Scalar(0.5))
}

func (g *Generic) RandomState() rand.Source { return g.src }

func (g *Generic) SetRandomState(src rand.Source) { g.src = src }
