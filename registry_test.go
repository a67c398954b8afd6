package robotsyr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PopulateStandard(t *testing.T) {
	_, table := testInterpreter(t)
	r := NewRegistry()
	r.PopulateStandard(table)

	assert.Equal(t, 24, r.Len())

	cases := map[string]Operation{
		"f":  MoveForward(),
		"^":  Rotate(Pitch, -1),
		"\\": Rotate(Roll, +1),
		"|":  TurnAround(),
		"K":  SpawnShape(ShapeCapsule),
		"J":  SetJointType(JointHinge),
		"Jl": SetJointLimits(),
		"S":  MountSensor(SensorCamera),
		"Sl": MountSensor(SensorLidar),
		"]":  PopState(),
	}
	for token, want := range cases {
		id, ok := table.Resolve(token)
		require.True(t, ok, token)
		got, ok := r.Lookup(id)
		require.True(t, ok, token)
		assert.Equal(t, want, got, token)
	}
}

func TestRegistry_SkipsUninternedTokens(t *testing.T) {
	table := NewInterner()
	_, err := table.Intern("x")
	require.NoError(t, err)
	_, err = table.Intern("B")
	require.NoError(t, err)

	r := NewRegistry()
	r.PopulateStandard(table)
	assert.Equal(t, 1, r.Len())

	op, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, SpawnShape(ShapeBox), op)

	_, ok = r.Lookup(0)
	assert.False(t, ok)
}

func TestRegistry_RegisterOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register(5, MoveForward())
	r.Register(5, PopState())

	op, ok := r.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, OpPopState, op.Kind)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	_, table := testInterpreter(t)
	r := NewRegistry()
	r.PopulateStandard(table)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := SymbolID(0); id < 24; id++ {
				_, ok := r.Lookup(id)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

func TestInterner(t *testing.T) {
	in := NewInterner()

	a, err := in.Intern("a")
	require.NoError(t, err)
	b, err := in.Intern("b")
	require.NoError(t, err)
	again, err := in.Intern("a")
	require.NoError(t, err)

	assert.Equal(t, SymbolID(0), a)
	assert.Equal(t, SymbolID(1), b)
	assert.Equal(t, a, again)
	assert.Equal(t, 2, in.Len())

	tok, ok := in.Token(b)
	assert.True(t, ok)
	assert.Equal(t, "b", tok)
	_, ok = in.Token(9)
	assert.False(t, ok)
}

func TestOperation_Arity(t *testing.T) {
	cases := []struct {
		op            Operation
		arity, needed int
	}{
		{MoveForward(), 1, 0},
		{Rotate(Yaw, 1), 1, 0},
		{TurnAround(), 0, 0},
		{SpawnShape(ShapeBox), 3, 0},
		{SpawnShape(ShapeCylinder), 2, 0},
		{SpawnShape(ShapeSphere), 1, 0},
		{SpawnShape(ShapeCapsule), 2, 0},
		{SetWidth(), 1, 1},
		{SetMaterial(), 1, 1},
		{SetJointType(JointHinge), 3, 0},
		{SetJointLimits(), 4, 2},
		{MountSensor(SensorIMU), 0, 0},
		{PushState(), 0, 0},
		{PopState(), 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.arity, c.op.Arity(), c.op.String())
		assert.Equal(t, c.needed, c.op.Required(), c.op.String())
	}
}
