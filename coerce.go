package randvar

import (
	"github.com/pkg/errors"

	"github.com/probkit/randvar/distribution"
)

// AsRandomVariable converts v into a RandomVariable. Random variables pass
// through unchanged. Scalars, slices, tensors and gonum vectors and matrices
// become constant random variables with a point mass distribution at their
// value. Anything else fails with a descriptive error.
func AsRandomVariable(v interface{}) (*RandomVariable, error) {
	switch x := v.(type) {
	case *RandomVariable:
		return x, nil
	case distribution.Distribution:
		return nil, errors.Errorf("asrandomvariable: conversion of a bare distribution "+
			"(%s) is not yet supported", x.Name())
	}
	d, err := distribution.AsDistribution(v)
	if err != nil {
		return nil, errors.Wrap(err, "asrandomvariable")
	}
	if _, ok := d.(*distribution.Dirac); !ok {
		return nil, errors.Errorf("asrandomvariable: conversion of %T is not yet supported", v)
	}
	return FromDistribution(d)
}
