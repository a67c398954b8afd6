package robotsyr

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pkg/errors"
)

// Interpreter turns genotypes into blueprints. It holds no per-build state, so
// one Interpreter may run several builds concurrently as long as its registry
// is no longer being written to.
type Interpreter struct {
	config   Config
	registry *Registry
	mass     MassFunc
	log      *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMassFunc replaces the mass-property computation. The default is
// SolidMassProperties.
func WithMassFunc(f MassFunc) Option {
	return func(in *Interpreter) {
		in.mass = f
	}
}

// WithLogger sets the logger receiving per-build debug records.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		in.log = l
	}
}

// New validates config and returns an interpreter dispatching through registry.
func New(config Config, registry *Registry, opts ...Option) (*Interpreter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, errors.New("nil registry")
	}

	in := &Interpreter{
		config:   config,
		registry: registry,
		mass:     SolidMassProperties,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.mass == nil {
		in.mass = SolidMassProperties
	}
	if in.log == nil {
		in.log = slog.Default()
	}
	return in, nil
}

func (in *Interpreter) Config() Config {
	return in.config
}

func (in *Interpreter) Registry() *Registry {
	return in.registry
}

// Build interprets genotype from left to right. On the first failing symbol the
// build is abandoned and a *BuildError is returned with no blueprint.
func (in *Interpreter) Build(genotype Genotype) (*RobotBlueprint, error) {
	r := in.newRun()
	for i, sym := range genotype {
		op, ok := in.registry.Lookup(sym.ID)
		if !ok {
			return nil, in.abort(fail(ErrUnknownSymbol, "no operation registered"), i, sym)
		}
		if err := r.step(op, sym); err != nil {
			return nil, in.abort(err, i, sym)
		}
	}

	bp := r.builder.blueprint()
	in.log.Debug("blueprint built",
		slog.Int("symbols", len(genotype)),
		slog.Int("modules", len(bp.Modules)),
		slog.Int("joints", len(bp.Joints)),
		slog.Int("max_depth", r.maxDepth),
	)
	return bp, nil
}

func (in *Interpreter) abort(err *BuildError, i int, sym Symbol) error {
	err.Index = i
	err.Symbol = sym.ID
	in.log.Debug("build aborted",
		slog.Int("index", i),
		slog.String("symbol", sym.String()),
		slog.String("error", err.Error()),
	)
	return err
}

// run is the state of a single build.
type run struct {
	*Interpreter

	turtle   TurtleState
	stack    *stateStack
	builder  *builder
	maxDepth int
}

func (in *Interpreter) newRun() *run {
	return &run{
		Interpreter: in,
		turtle:      newTurtleState(in.config),
		stack:       newStateStack(in.config.MaxStackDepth),
		builder:     newBuilder(),
	}
}

func fail(kind error, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

// step applies one operation.
func (r *run) step(op Operation, sym Symbol) *BuildError {
	if n := len(sym.Parameters); n < op.Required() {
		return fail(ErrInvalidParameterCount, "%s needs %d parameters, got %d", op, op.Required(), n)
	}

	t := &r.turtle
	switch op.Kind {
	case OpMoveForward:
		t.Advance(sym.Param(0, r.config.DefaultLength))

	case OpRotate:
		t.Turn(op.Axis, op.Sign*degrees(sym.Param(0, r.config.DefaultAngle)))

	case OpTurnAround:
		t.TurnAround()

	case OpSpawnShape:
		return r.spawn(op.Shape, sym)

	case OpSetWidth:
		t.Width = sym.Parameters[0]

	case OpSetMaterial:
		v := sym.Parameters[0]
		if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return fail(ErrInvalidParameterCount, "material %g is not a usable identifier", v)
		}
		t.Material = MaterialID(v)

	case OpSetJointType:
		return r.setJointType(op.Joint, sym)

	case OpSetJointLimits:
		lo, hi := sym.Parameters[0], sym.Parameters[1]
		if lo > hi {
			return fail(ErrInvalidJointConfig, "joint limits min %g > max %g", lo, hi)
		}
		t.Joint.Limits = &JointLimits{
			Min:      lo,
			Max:      hi,
			Effort:   sym.Param(2, r.config.DefaultJointEffort),
			Velocity: sym.Param(3, r.config.DefaultJointVelocity),
		}

	case OpMountSensor:
		return r.mountSensor(op.Sensor)

	case OpPushState:
		if !r.stack.push(r.turtle) {
			return fail(ErrStackOverflow, "depth limit %d reached", r.config.MaxStackDepth)
		}
		if d := r.stack.len(); d > r.maxDepth {
			r.maxDepth = d
		}

	case OpPopState:
		saved, ok := r.stack.pop()
		if !ok {
			return fail(ErrStackUnderflow, "no saved state")
		}
		r.turtle = saved

	default:
		return fail(ErrUnknownSymbol, "operation kind %d", op.Kind)
	}
	return nil
}

func (r *run) setJointType(kind JointKind, sym Symbol) *BuildError {
	t := &r.turtle
	switch n := len(sym.Parameters); {
	case n == 0:
		if kind == JointHinge && t.Joint.Axis == nil {
			axis := defaultHingeAxis
			t.Joint.Axis = &axis
		}
	case n < 3:
		return fail(ErrInvalidParameterCount, "joint axis needs 3 components, got %d", n)
	default:
		axis := Vec3{sym.Parameters[0], sym.Parameters[1], sym.Parameters[2]}
		if axis.Length() == 0 {
			return fail(ErrInvalidJointConfig, "zero-length joint axis")
		}
		axis = axis.Normalize()
		t.Joint.Axis = &axis
	}
	t.Joint.Kind = kind
	return nil
}

func (r *run) spawn(kind ShapeKind, sym Symbol) *BuildError {
	t := &r.turtle
	c := r.config

	var shape Shape
	switch kind {
	case ShapeBox:
		shape = Box(sym.Param(0, c.DefaultLength), sym.Param(1, t.Width), sym.Param(2, t.Width))
	case ShapeCylinder:
		shape = Cylinder(sym.Param(0, c.DefaultLength), sym.Param(1, t.Width/2))
	case ShapeSphere:
		shape = Sphere(sym.Param(0, t.Width/2))
	case ShapeCapsule:
		shape = Capsule(sym.Param(0, c.DefaultLength), sym.Param(1, t.Width/2))
	default:
		return fail(ErrUnknownSymbol, "shape kind %d", kind)
	}

	rest := t.Transform()

	var joint *JointDefinition
	if t.CurrentModule != nil {
		parent, ok := r.builder.module(*t.CurrentModule)
		if !ok {
			// current_module always names a built module; reaching this is a bug.
			panic(fmt.Sprintf("robotsyr: turtle refers to missing module %d", *t.CurrentModule))
		}
		if t.Joint.Kind == JointHinge && t.Joint.Axis == nil {
			return fail(ErrInvalidJointConfig, "hinge joint without an axis")
		}

		joint = &JointDefinition{
			Parent:       parent.ID,
			Kind:         t.Joint.Kind,
			ParentAnchor: parent.Rest.ToLocal(t.Position),
			ChildAnchor:  rest.ToLocal(t.Position),
		}
		if t.Joint.Axis != nil {
			world := t.Orientation.Rotate(*t.Joint.Axis)
			local := parent.Rest.Orientation.Conjugate().Rotate(world)
			joint.Axis = &local
		}
		if t.Joint.Limits != nil {
			limits := *t.Joint.Limits
			joint.Limits = &limits
		}
	}

	id := r.builder.addModule(RobotModule{
		Shape:    shape,
		Rest:     rest,
		Density:  c.DefaultDensity,
		Mass:     r.mass(shape, c.DefaultDensity),
		Material: t.Material,
	})
	if joint != nil {
		joint.Child = id
		r.builder.addJoint(*joint)
	}

	t.Advance(shape.Extent())
	t.CurrentModule = &id
	if !c.StickyJoint {
		t.Joint = JointConfig{}
	}
	return nil
}

func (r *run) mountSensor(kind SensorKind) *BuildError {
	t := &r.turtle
	if t.CurrentModule == nil {
		return fail(ErrSensorWithoutModule, "%s sensor", kind)
	}
	m, _ := r.builder.module(*t.CurrentModule)
	r.builder.addSensor(m.ID, SensorMount{
		Kind:     kind,
		Offset:   m.Rest.ToLocal(t.Position),
		Rotation: m.Rest.Orientation.Conjugate().Mul(t.Orientation).Normalize(),
	})
	return nil
}
