package robotsyr

import "math"

// JointConfig is the joint the next spawned module will be attached with.
type JointConfig struct {
	Kind JointKind

	// Axis is in the turtle-local frame.
	Axis   *Vec3
	Limits *JointLimits
}

// defaultHingeAxis is the turtle-local pitch axis.
var defaultHingeAxis = AxisLeft

// TurtleState is the cursor walking the genotype. Pointers in the joint
// configuration are never written through, so copying a state by value is a
// full snapshot.
type TurtleState struct {
	Position    Vec3
	Orientation Quat

	// CurrentModule is the last spawned module on this branch. It only names
	// the module; the builder owns it.
	CurrentModule *ModuleID

	Joint    JointConfig
	Width    float64
	Material MaterialID
}

func newTurtleState(c Config) TurtleState {
	return TurtleState{
		Orientation: QuatIdentity,
		Width:       c.DefaultWidth,
	}
}

// Transform is the turtle's current placement.
func (t *TurtleState) Transform() Transform {
	return Transform{Position: t.Position, Orientation: t.Orientation}
}

// Forward returns the turtle's local forward axis in world space.
func (t *TurtleState) Forward() Vec3 {
	return t.Orientation.Rotate(AxisForward)
}

// Advance moves the turtle along its forward axis.
func (t *TurtleState) Advance(distance float64) {
	t.Position = t.Position.Add(t.Forward().Scale(distance))
}

// Turn rotates the turtle by angle radians about one of its own axes.
func (t *TurtleState) Turn(axis RotationAxis, angle float64) {
	t.Orientation = t.Orientation.Mul(QuatFromAxisAngle(axis.Vector(), angle)).Normalize()
}

// TurnAround rotates the turtle half a turn about its yaw axis.
func (t *TurtleState) TurnAround() {
	t.Turn(Yaw, math.Pi)
}

// stateStack is a bounded LIFO of turtle snapshots.
type stateStack struct {
	states []TurtleState
	max    int
}

func newStateStack(limit int) *stateStack {
	return &stateStack{max: limit}
}

func (s *stateStack) push(t TurtleState) bool {
	if len(s.states) >= s.max {
		return false
	}
	s.states = append(s.states, t)
	return true
}

func (s *stateStack) pop() (TurtleState, bool) {
	if len(s.states) == 0 {
		return TurtleState{}, false
	}
	t := s.states[len(s.states)-1]
	s.states = s.states[:len(s.states)-1]
	return t, true
}

func (s *stateStack) len() int {
	return len(s.states)
}
