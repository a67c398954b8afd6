package robotsyr

// builder accumulates the blueprint during a single build.
type builder struct {
	modules map[ModuleID]RobotModule
	joints  []JointDefinition
	root    *ModuleID
	nextID  ModuleID
}

func newBuilder() *builder {
	return &builder{modules: make(map[ModuleID]RobotModule)}
}

// addModule stores m under the next free id and returns that id. The first
// module added becomes the root.
func (b *builder) addModule(m RobotModule) ModuleID {
	id := b.nextID
	b.nextID++

	m.ID = id
	b.modules[id] = m
	if b.root == nil {
		root := id
		b.root = &root
	}
	return id
}

func (b *builder) module(id ModuleID) (RobotModule, bool) {
	m, ok := b.modules[id]
	return m, ok
}

func (b *builder) addJoint(j JointDefinition) {
	b.joints = append(b.joints, j)
}

func (b *builder) addSensor(id ModuleID, s SensorMount) {
	m := b.modules[id]
	m.Sensors = append(m.Sensors, s)
	b.modules[id] = m
}

// blueprint hands the accumulated graph over. The builder must not be used
// afterwards.
func (b *builder) blueprint() *RobotBlueprint {
	joints := b.joints
	if joints == nil {
		joints = []JointDefinition{}
	}
	return &RobotBlueprint{
		Modules: b.modules,
		Joints:  joints,
		Root:    b.root,
	}
}
