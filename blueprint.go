package robotsyr

import (
	"sort"

	"github.com/pkg/errors"
)

// ModuleID identifies a module within one blueprint. IDs are handed out from 0
// in spawn order and never reused within a build.
type ModuleID uint32

// MaterialID references an entry of an external material palette.
type MaterialID int

// ShapeKind enumerates the supported rigid-body primitives.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCylinder
	ShapeSphere
	ShapeCapsule
)

var shapeKindNames = []string{"box", "cylinder", "sphere", "capsule"}

func (k ShapeKind) String() string { return enumName(shapeKindNames, int(k)) }

func (k ShapeKind) MarshalText() ([]byte, error) { return marshalEnum(shapeKindNames, int(k), "shape") }

func (k *ShapeKind) UnmarshalText(b []byte) error {
	i, err := unmarshalEnum(shapeKindNames, b, "shape")
	*k = ShapeKind(i)
	return err
}

// JointKind is the mechanical type of a connection.
type JointKind uint8

const (
	JointFixed JointKind = iota
	JointHinge
	JointBall
)

var jointKindNames = []string{"fixed", "hinge", "ball"}

func (k JointKind) String() string { return enumName(jointKindNames, int(k)) }

func (k JointKind) MarshalText() ([]byte, error) { return marshalEnum(jointKindNames, int(k), "joint") }

func (k *JointKind) UnmarshalText(b []byte) error {
	i, err := unmarshalEnum(jointKindNames, b, "joint")
	*k = JointKind(i)
	return err
}

// SensorKind is the type of a mounted sensor.
type SensorKind uint8

const (
	SensorCamera SensorKind = iota
	SensorIMU
	SensorTouch
	SensorLidar
)

var sensorKindNames = []string{"camera", "imu", "touch", "lidar"}

func (k SensorKind) String() string { return enumName(sensorKindNames, int(k)) }

func (k SensorKind) MarshalText() ([]byte, error) {
	return marshalEnum(sensorKindNames, int(k), "sensor")
}

func (k *SensorKind) UnmarshalText(b []byte) error {
	i, err := unmarshalEnum(sensorKindNames, b, "sensor")
	*k = SensorKind(i)
	return err
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func marshalEnum(names []string, i int, what string) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, errors.Errorf("invalid %s kind %d", what, i)
	}
	return []byte(names[i]), nil
}

func unmarshalEnum(names []string, b []byte, what string) (int, error) {
	for i, n := range names {
		if n == string(b) {
			return i, nil
		}
	}
	return 0, errors.Errorf("unknown %s kind %q", what, b)
}

// Shape describes the geometry of a module in its local frame. The local
// origin is the proximal end: every shape starts at x=0 and grows along +X,
// centered on the X axis.
//
// Box uses Length (X), Width (Y) and Depth (Z). Cylinder uses Length and
// Radius. Sphere uses Radius. Capsule uses Length for its cylindrical section
// and Radius for both the section and its hemispherical caps.
type Shape struct {
	Kind   ShapeKind `json:"kind"`
	Length float64   `json:"length,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Depth  float64   `json:"depth,omitempty"`
	Radius float64   `json:"radius,omitempty"`
}

func Box(length, width, depth float64) Shape {
	return Shape{Kind: ShapeBox, Length: length, Width: width, Depth: depth}
}

func Cylinder(length, radius float64) Shape {
	return Shape{Kind: ShapeCylinder, Length: length, Radius: radius}
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func Capsule(length, radius float64) Shape {
	return Shape{Kind: ShapeCapsule, Length: length, Radius: radius}
}

// Extent is the distance the shape occupies along its forward axis.
func (s Shape) Extent() float64 {
	switch s.Kind {
	case ShapeSphere:
		return 2 * s.Radius
	case ShapeCapsule:
		return s.Length + 2*s.Radius
	default:
		return s.Length
	}
}

// Centroid is the geometric center of the shape in its local frame.
func (s Shape) Centroid() Vec3 {
	return Vec3{X: s.Extent() / 2}
}

// SensorMount is a sensor attached to a module.
type SensorMount struct {
	Kind SensorKind `json:"kind"`

	// Offset and Rotation are relative to the owning module's local frame.
	Offset   Vec3 `json:"offset"`
	Rotation Quat `json:"rotation"`
}

// RobotModule is a single rigid body of the robot.
type RobotModule struct {
	ID       ModuleID       `json:"id"`
	Shape    Shape          `json:"shape"`
	Rest     Transform      `json:"rest"`
	Density  float64        `json:"density"`
	Mass     MassProperties `json:"mass"`
	Material MaterialID     `json:"material"`
	Sensors  []SensorMount  `json:"sensors,omitempty"`
}

// JointLimits bound a joint's motion.
type JointLimits struct {
	// Min and Max are an angle in radians for hinges and ball joints.
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// Effort is the maximum torque the actuator may apply.
	Effort float64 `json:"effort"`

	// Velocity is the maximum angular speed.
	Velocity float64 `json:"velocity"`
}

// JointDefinition connects a parent module to a child module. It is created at
// the moment the child is spawned and never modified afterwards.
type JointDefinition struct {
	Parent ModuleID  `json:"parent"`
	Child  ModuleID  `json:"child"`
	Kind   JointKind `json:"kind"`

	// ParentAnchor and ChildAnchor are the same attachment point expressed in
	// each module's local frame.
	ParentAnchor Vec3 `json:"parent_anchor"`
	ChildAnchor  Vec3 `json:"child_anchor"`

	// Axis is expressed in the parent's local frame.
	Axis   *Vec3        `json:"axis,omitempty"`
	Limits *JointLimits `json:"limits,omitempty"`
}

// RobotBlueprint is the phenotype: a tree of modules linked by joints. It holds
// no reference to the interpreter that produced it and must not be modified
// once returned.
type RobotBlueprint struct {
	Modules map[ModuleID]RobotModule `json:"modules"`
	Joints  []JointDefinition        `json:"joints"`

	// Root is the first module ever spawned, nil for an empty blueprint.
	Root *ModuleID `json:"root,omitempty"`
}

// ModuleIDs returns every module id in ascending order.
func (bp *RobotBlueprint) ModuleIDs() []ModuleID {
	ids := make([]ModuleID, 0, len(bp.Modules))
	for id := range bp.Modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Children returns the joints whose parent is id, in creation order.
func (bp *RobotBlueprint) Children(id ModuleID) []JointDefinition {
	var out []JointDefinition
	for _, j := range bp.Joints {
		if j.Parent == id {
			out = append(out, j)
		}
	}
	return out
}

// Validate checks that the blueprint is a tree rooted at Root: every joint
// refers to existing modules, every non-root module is the child of exactly
// one joint, the root is the child of none, and every module is reachable
// from the root.
func (bp *RobotBlueprint) Validate() error {
	if len(bp.Modules) == 0 {
		if bp.Root != nil || len(bp.Joints) != 0 {
			return errors.New("empty blueprint has a root or joints")
		}
		return nil
	}
	if bp.Root == nil {
		return errors.New("blueprint has modules but no root")
	}
	root := *bp.Root
	if _, ok := bp.Modules[root]; !ok {
		return errors.Errorf("root module %d does not exist", root)
	}
	for id, m := range bp.Modules {
		if m.ID != id {
			return errors.Errorf("module keyed %d carries id %d", id, m.ID)
		}
	}

	incoming := make(map[ModuleID]int, len(bp.Modules))
	for i, j := range bp.Joints {
		if _, ok := bp.Modules[j.Parent]; !ok {
			return errors.Errorf("joint %d: parent module %d does not exist", i, j.Parent)
		}
		if _, ok := bp.Modules[j.Child]; !ok {
			return errors.Errorf("joint %d: child module %d does not exist", i, j.Child)
		}
		incoming[j.Child]++
	}
	for id := range bp.Modules {
		n := incoming[id]
		switch {
		case id == root && n != 0:
			return errors.Errorf("root module %d has %d incoming joints", id, n)
		case id != root && n != 1:
			return errors.Errorf("module %d has %d incoming joints, want 1", id, n)
		}
	}

	// With one parent per non-root module, reachability rules out cycles.
	seen := map[ModuleID]bool{root: true}
	queue := []ModuleID{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, j := range bp.Joints {
			if j.Parent == id && !seen[j.Child] {
				seen[j.Child] = true
				queue = append(queue, j.Child)
			}
		}
	}
	if len(seen) != len(bp.Modules) {
		return errors.Errorf("%d modules are unreachable from root %d", len(bp.Modules)-len(seen), root)
	}
	return nil
}
