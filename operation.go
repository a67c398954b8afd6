package robotsyr

import "fmt"

// OpKind tags the variant held by an Operation.
type OpKind uint8

const (
	OpMoveForward OpKind = iota
	OpRotate
	OpTurnAround
	OpSpawnShape
	OpSetWidth
	OpSetMaterial
	OpSetJointType
	OpSetJointLimits
	OpMountSensor
	OpPushState
	OpPopState
)

func (k OpKind) String() string {
	switch k {
	case OpMoveForward:
		return "MoveForward"
	case OpRotate:
		return "Rotate"
	case OpTurnAround:
		return "TurnAround"
	case OpSpawnShape:
		return "SpawnShape"
	case OpSetWidth:
		return "SetWidth"
	case OpSetMaterial:
		return "SetMaterial"
	case OpSetJointType:
		return "SetJointType"
	case OpSetJointLimits:
		return "SetJointLimits"
	case OpMountSensor:
		return "MountSensor"
	case OpPushState:
		return "PushState"
	case OpPopState:
		return "PopState"
	default:
		return "unknown"
	}
}

// RotationAxis names one of the turtle-local rotation axes.
type RotationAxis uint8

const (
	Yaw RotationAxis = iota
	Pitch
	Roll
)

func (a RotationAxis) String() string {
	switch a {
	case Yaw:
		return "yaw"
	case Pitch:
		return "pitch"
	case Roll:
		return "roll"
	default:
		return "unknown"
	}
}

// Vector returns the turtle-local unit axis.
func (a RotationAxis) Vector() Vec3 {
	switch a {
	case Pitch:
		return AxisLeft
	case Roll:
		return AxisForward
	default:
		return AxisUp
	}
}

// Operation is what a symbol means to the interpreter. Only the fields relevant
// to Kind are set. Operations are values and never change once registered.
type Operation struct {
	Kind OpKind

	Axis RotationAxis // OpRotate
	Sign float64      // OpRotate: +1 or -1

	Shape  ShapeKind  // OpSpawnShape
	Joint  JointKind  // OpSetJointType
	Sensor SensorKind // OpMountSensor
}

func MoveForward() Operation { return Operation{Kind: OpMoveForward} }

func Rotate(axis RotationAxis, sign float64) Operation {
	if sign < 0 {
		sign = -1
	} else {
		sign = 1
	}
	return Operation{Kind: OpRotate, Axis: axis, Sign: sign}
}

func TurnAround() Operation                 { return Operation{Kind: OpTurnAround} }
func SpawnShape(kind ShapeKind) Operation   { return Operation{Kind: OpSpawnShape, Shape: kind} }
func SetWidth() Operation                   { return Operation{Kind: OpSetWidth} }
func SetMaterial() Operation                { return Operation{Kind: OpSetMaterial} }
func SetJointType(kind JointKind) Operation { return Operation{Kind: OpSetJointType, Joint: kind} }
func SetJointLimits() Operation             { return Operation{Kind: OpSetJointLimits} }
func MountSensor(kind SensorKind) Operation { return Operation{Kind: OpMountSensor, Sensor: kind} }
func PushState() Operation                  { return Operation{Kind: OpPushState} }
func PopState() Operation                   { return Operation{Kind: OpPopState} }

// Arity is the number of parameters the operation consumes. Extra parameters
// are ignored.
func (op Operation) Arity() int {
	switch op.Kind {
	case OpMoveForward, OpRotate, OpSetWidth, OpSetMaterial:
		return 1
	case OpSpawnShape:
		switch op.Shape {
		case ShapeBox:
			return 3
		case ShapeSphere:
			return 1
		default:
			return 2
		}
	case OpSetJointType:
		return 3
	case OpSetJointLimits:
		return 4
	default:
		return 0
	}
}

// Required is the number of leading parameters that have no fallback and must
// be supplied.
func (op Operation) Required() int {
	switch op.Kind {
	case OpSetWidth, OpSetMaterial:
		return 1
	case OpSetJointLimits:
		return 2
	default:
		return 0
	}
}

func (op Operation) String() string {
	switch op.Kind {
	case OpRotate:
		sign := "+"
		if op.Sign < 0 {
			sign = "-"
		}
		return fmt.Sprintf("Rotate(%s%s)", sign, op.Axis)
	case OpSpawnShape:
		return fmt.Sprintf("SpawnShape(%s)", op.Shape)
	case OpSetJointType:
		return fmt.Sprintf("SetJointType(%s)", op.Joint)
	case OpMountSensor:
		return fmt.Sprintf("MountSensor(%s)", op.Sensor)
	default:
		return op.Kind.String()
	}
}
