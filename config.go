package robotsyr

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the interpreter defaults. Angles are in degrees, lengths in
// meters, densities in kg/m³.
type Config struct {
	// DefaultLength is used when MoveForward or a spawn omits its length.
	DefaultLength float64 `yaml:"default_length"`

	// DefaultWidth seeds the turtle's active width. Radii default to half of
	// the active width.
	DefaultWidth float64 `yaml:"default_width"`

	DefaultDensity float64 `yaml:"default_density"`

	// DefaultAngle is used by rotations that omit their angle.
	DefaultAngle float64 `yaml:"default_angle"`

	// MaxStackDepth caps PushState nesting.
	MaxStackDepth int `yaml:"max_stack_depth"`

	// DefaultJointEffort and DefaultJointVelocity fill the limits slots a
	// SetJointLimits symbol leaves out.
	DefaultJointEffort   float64 `yaml:"default_joint_effort"`
	DefaultJointVelocity float64 `yaml:"default_joint_velocity"`

	// StickyJoint keeps the active joint configuration across spawns instead
	// of resetting it to a fixed joint after each one.
	StickyJoint bool `yaml:"sticky_joint"`
}

// DefaultConfig returns the stock interpreter configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLength:        1.0,
		DefaultWidth:         0.2,
		DefaultDensity:       1000.0,
		DefaultAngle:         45.0,
		MaxStackDepth:        1024,
		DefaultJointEffort:   100.0,
		DefaultJointVelocity: 10.0,
	}
}

// Validate reports the first nonsensical option.
func (c Config) Validate() error {
	switch {
	case c.DefaultLength <= 0:
		return errors.Wrapf(ErrInvalidConfig, "default_length must be positive, got %g", c.DefaultLength)
	case c.DefaultWidth <= 0:
		return errors.Wrapf(ErrInvalidConfig, "default_width must be positive, got %g", c.DefaultWidth)
	case c.DefaultDensity <= 0:
		return errors.Wrapf(ErrInvalidConfig, "default_density must be positive, got %g", c.DefaultDensity)
	case c.MaxStackDepth < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_stack_depth must not be negative, got %d", c.MaxStackDepth)
	case c.DefaultJointEffort < 0 || c.DefaultJointVelocity < 0:
		return errors.Wrap(ErrInvalidConfig, "default joint effort and velocity must not be negative")
	}
	return nil
}

// LoadConfig reads a YAML file on top of DefaultConfig. Options absent from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, errors.Wrapf(err, "%s", path)
	}
	if err := c.Validate(); err != nil {
		return c, errors.Wrapf(err, "%s", path)
	}
	return c, nil
}
