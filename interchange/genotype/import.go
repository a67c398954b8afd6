package genotype

import (
	"github.com/aabizri/robotsyr"
	"github.com/aabizri/robotsyr/interchange"
	"github.com/pkg/errors"
)

var _ interchange.Format = (*Format)(nil)

// Import interns every token of the sequence in table and evaluates the
// parameters record by record. Tokens with no registered operation are still
// interned; the interpreter rejects them at build time.
func (format *Format) Import(table interchange.Table, env robotsyr.Environment) (robotsyr.Genotype, error) {
	// Parse every expression before evaluating any of them
	compiled := make([][]expressionFunction, len(format.Sequence))
	for i, rec := range format.Sequence {
		compiled[i] = make([]expressionFunction, len(rec.Params))
		for j, expr := range rec.Params {
			f, err := parseExpression(expr)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d (%s) parameter %d", i, rec.Sym, j)
			}
			compiled[i][j] = f
		}
	}

	seqEnv := robotsyr.NewSequenceEnvironment(env)
	genotype := make(robotsyr.Genotype, len(format.Sequence))
	for i, rec := range format.Sequence {
		id, err := table.Intern(rec.Sym)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}

		var parameters []float64
		if len(compiled[i]) > 0 {
			parameters = make([]float64, len(compiled[i]))
		}
		for j, f := range compiled[i] {
			v, err := f(seqEnv)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d (%s) parameter %d", i, rec.Sym, j)
			}
			parameters[j] = v
		}

		genotype[i] = robotsyr.Symbol{
			ID:         id,
			Primary:    rec.Primary,
			Parameters: parameters,
		}
		seqEnv.Prev = parameters
	}
	return genotype, nil
}
