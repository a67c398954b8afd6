package robotsyr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Get(t *testing.T) {
	c := DefaultConfig()

	for name, want := range map[string]float64{
		"default_length":         1,
		"default_width":          0.2,
		"default_density":        1000,
		"default_angle":          45,
		"max_stack_depth":        1024,
		"default_joint_effort":   100,
		"default_joint_velocity": 10,
	} {
		got, err := c.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := c.Get("sticky_joint")
	assert.Error(t, err)
}

func TestSequenceEnvironment(t *testing.T) {
	env := NewSequenceEnvironment(DefaultConfig())
	env.Prev = []float64{3, 4.5}

	v, err := env.Get("prev_1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	v, err = env.Get("default_angle")
	require.NoError(t, err)
	assert.Equal(t, 45.0, v)

	for _, bad := range []string{"prev_2", "prev_-1", "prev_x", "nope"} {
		_, err := env.Get(bad)
		assert.Error(t, err, bad)
	}

	_, err = (&SequenceEnvironment{}).Get("default_angle")
	assert.Error(t, err)
}
