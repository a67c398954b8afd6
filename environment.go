package robotsyr

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PrevPrefix names the parameters of the previous symbol in an expression:
// prev_0 is its first parameter.
const PrevPrefix = "prev_"

// Environment resolves variables used by parameter expressions.
type Environment interface {
	Get(v string) (float64, error)
}

// Get exposes the numeric options of c under their YAML names.
func (c Config) Get(v string) (float64, error) {
	switch v {
	case "default_length":
		return c.DefaultLength, nil
	case "default_width":
		return c.DefaultWidth, nil
	case "default_density":
		return c.DefaultDensity, nil
	case "default_angle":
		return c.DefaultAngle, nil
	case "max_stack_depth":
		return float64(c.MaxStackDepth), nil
	case "default_joint_effort":
		return c.DefaultJointEffort, nil
	case "default_joint_velocity":
		return c.DefaultJointVelocity, nil
	}
	return 0, errors.Errorf("undefined variable %q", v)
}

// SequenceEnvironment layers the previous symbol's parameters over an inner
// environment.
type SequenceEnvironment struct {
	Inner Environment

	Prev []float64
}

func (env *SequenceEnvironment) Get(v string) (float64, error) {
	if strings.HasPrefix(v, PrevPrefix) {
		n, err := strconv.Atoi(v[len(PrevPrefix):])
		if err != nil {
			return 0, errors.Wrapf(err, "malformed variable %q", v)
		}

		if n < 0 || n >= len(env.Prev) {
			return 0, errors.Errorf("%s: previous symbol has %d parameters", v, len(env.Prev))
		}

		return env.Prev[n], nil
	} else if env.Inner != nil {
		return env.Inner.Get(v)
	}
	return 0, errors.Errorf("undefined variable %q and no environment defined", v)
}

func NewSequenceEnvironment(inner Environment) *SequenceEnvironment {
	return &SequenceEnvironment{Inner: inner}
}
