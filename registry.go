package robotsyr

import "sync"

// standardMapping is the fixed token table of the robot turtle.
var standardMapping = []struct {
	token string
	op    Operation
}{
	// Spatial
	{"f", MoveForward()},
	{"+", Rotate(Yaw, +1)},
	{"-", Rotate(Yaw, -1)},
	{"&", Rotate(Pitch, +1)},
	{"^", Rotate(Pitch, -1)},
	{"\\", Rotate(Roll, +1)},
	{"/", Rotate(Roll, -1)},
	{"|", TurnAround()},

	// Geometry
	{"B", SpawnShape(ShapeBox)},
	{"C", SpawnShape(ShapeCylinder)},
	{"O", SpawnShape(ShapeSphere)},
	{"K", SpawnShape(ShapeCapsule)},

	// Turtle defaults
	{"!", SetWidth()},
	{"'", SetMaterial()},

	// Joints: a bare J is a hinge
	{"J", SetJointType(JointHinge)},
	{"Jf", SetJointType(JointFixed)},
	{"Jb", SetJointType(JointBall)},
	{"Jl", SetJointLimits()},

	// Sensors: a bare S is a camera
	{"S", MountSensor(SensorCamera)},
	{"Si", MountSensor(SensorIMU)},
	{"St", MountSensor(SensorTouch)},
	{"Sl", MountSensor(SensorLidar)},

	// Branching
	{"[", PushState()},
	{"]", PopState()},
}

// StandardTokens lists the tokens PopulateStandard knows about, so a caller
// can intern them up front.
func StandardTokens() []string {
	tokens := make([]string, len(standardMapping))
	for i, m := range standardMapping {
		tokens[i] = m.token
	}
	return tokens
}

// Registry maps symbol identifiers to operations. It is meant to be filled once
// and then only read; reads may happen from several builds at once.
type Registry struct {
	mu  sync.RWMutex
	ops map[SymbolID]Operation
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[SymbolID]Operation)}
}

// Register inserts or replaces the operation bound to id.
func (r *Registry) Register(id SymbolID, op Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops[id] = op
}

// PopulateStandard registers the standard token table against the identifiers
// the table assigned. Tokens the table does not know are skipped.
func (r *Registry) PopulateStandard(table SymbolTable) {
	for _, m := range standardMapping {
		if id, ok := table.Resolve(m.token); ok {
			r.Register(id, m.op)
		}
	}
}

// Lookup returns the operation bound to id.
func (r *Registry) Lookup(id SymbolID) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[id]
	return op, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ops)
}
