package robotsyr

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleModule(shape Shape, rest Transform) *RobotBlueprint {
	root := ModuleID(0)
	return &RobotBlueprint{
		Modules: map[ModuleID]RobotModule{0: {ID: 0, Shape: shape, Rest: rest}},
		Joints:  []JointDefinition{},
		Root:    &root,
	}
}

func TestComputeAABB_Empty(t *testing.T) {
	assert.Equal(t, AABB{}, ComputeAABB(&RobotBlueprint{}, QuatIdentity))
	assert.Equal(t, AABB{}, ComputeAABB(nil, QuatIdentity))
}

func TestComputeAABB_SingleBox(t *testing.T) {
	bp := singleModule(Box(1, 0.1, 0.1), Transform{Orientation: QuatIdentity})

	box := ComputeAABB(bp, QuatIdentity)
	assertVec(t, Vec3{0.5, 0.05, 0.05}, box.HalfExtents())
	assertVec(t, Vec3{X: 0.5}, box.Center())

	yawed := ComputeAABB(bp, QuatFromAxisAngle(AxisUp, math.Pi/2))
	assertVec(t, Vec3{0.05, 0.5, 0.05}, yawed.HalfExtents())
	assertVec(t, Vec3{Y: 0.5}, yawed.Center())
}

func TestComputeAABB_Shapes(t *testing.T) {
	rest := Transform{Position: Vec3{1, 2, 3}, Orientation: QuatIdentity}

	cases := []struct {
		name  string
		shape Shape
		rot   Quat
		want  AABB
	}{
		{
			name:  "sphere",
			shape: Sphere(0.5),
			rot:   QuatIdentity,
			want:  AABB{Min: Vec3{1, 1.5, 2.5}, Max: Vec3{2, 2.5, 3.5}},
		},
		{
			name:  "cylinder",
			shape: Cylinder(2, 0.25),
			rot:   QuatIdentity,
			want:  AABB{Min: Vec3{1, 1.75, 2.75}, Max: Vec3{3, 2.25, 3.25}},
		},
		{
			name:  "capsule",
			shape: Capsule(1, 0.5),
			rot:   QuatIdentity,
			want:  AABB{Min: Vec3{1, 1.5, 2.5}, Max: Vec3{3, 2.5, 3.5}},
		},
		{
			// Turned half around the Z axis, the module lands at (-1,-2,3)
			// and grows along -X.
			name:  "cylinder turned around",
			shape: Cylinder(2, 0.25),
			rot:   QuatFromAxisAngle(AxisUp, math.Pi),
			want:  AABB{Min: Vec3{-3, -2.25, 2.75}, Max: Vec3{-1, -1.75, 3.25}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeAABB(singleModule(c.shape, rest), c.rot)
			assertVec(t, c.want.Min, got.Min, "min")
			assertVec(t, c.want.Max, got.Max, "max")
		})
	}
}

func TestComputeAABB_TiltedCylinder(t *testing.T) {
	// A cylinder pitched 90° points straight down: its disc lies in XY.
	rest := Transform{Orientation: QuatFromAxisAngle(AxisLeft, math.Pi/2)}
	got := ComputeAABB(singleModule(Cylinder(1, 0.5), rest), QuatIdentity)

	assertVec(t, Vec3{-0.5, -0.5, -1}, got.Min)
	assertVec(t, Vec3{0.5, 0.5, 0}, got.Max)
}

func TestComputeAABB_BuiltChain(t *testing.T) {
	in, table := testInterpreter(t)
	s := symbols(t, table)

	bp, err := in.Build(Genotype{s("B", 1, 0.1, 0.1), s("+", 90), s("B", 1, 0.1, 0.1)})
	require.NoError(t, err)

	box := ComputeAABB(bp, QuatIdentity)
	assertVec(t, Vec3{0, -0.05, -0.05}, box.Min)
	assertVec(t, Vec3{1.05, 1, 0.05}, box.Max)
}

func TestComputeAABB_Concurrent(t *testing.T) {
	in, table := testInterpreter(t)
	s := symbols(t, table)
	bp, err := in.Build(Genotype{s("B"), s("["), s("&"), s("C"), s("]"), s("K"), s("O")})
	require.NoError(t, err)

	want := ComputeAABB(bp, QuatFromEuler(0.3, 0.2, 0.1))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, ComputeAABB(bp, QuatFromEuler(0.3, 0.2, 0.1)))
		}()
	}
	wg.Wait()
}
