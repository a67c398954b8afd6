package genotype

import (
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/aabizri/robotsyr"
	"github.com/pkg/errors"
)

type expressionFunction func(env robotsyr.Environment) (float64, error)

type wrappedVariablesForExpression struct {
	robotsyr.Environment
}

func (wvfp wrappedVariablesForExpression) Get(name string) (interface{}, error) {
	val, err := wvfp.Environment.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't find %s", name)
	}
	return val, nil
}

func parseExpression(asString string) (expressionFunction, error) {
	// Plain numbers skip the evaluator
	if scalar, err := strconv.ParseFloat(strings.TrimSpace(asString), 64); err == nil {
		return func(_ robotsyr.Environment) (float64, error) {
			return scalar, nil
		}, nil
	}

	evaluable, err := govaluate.NewEvaluableExpression(asString)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing expression %q", asString)
	}

	return func(env robotsyr.Environment) (float64, error) {
		resAsInterface, err := evaluable.Eval(wrappedVariablesForExpression{env})
		if err != nil {
			return 0, errors.Wrapf(err, "evaluating %q", asString)
		}

		resAsFloat, ok := resAsInterface.(float64)
		if !ok {
			return 0, errors.Errorf("%q evaluates to %T, not a number", asString, resAsInterface)
		}
		return resAsFloat, nil
	}, nil
}
