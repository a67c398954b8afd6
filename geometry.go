package robotsyr

import "math"

// Turtle-local axes. Forward is the growth direction of every shape.
var (
	AxisForward = Vec3{1, 0, 0}
	AxisLeft    = Vec3{0, 1, 0}
	AxisUp      = Vec3{0, 0, 1}
)

// Vec3 is a position or direction in 3D space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector pointing along v, or the zero vector if v
// has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Min and Max are component-wise.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// Quat is an orientation expressed as a unit quaternion.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// QuatIdentity is the orientation that leaves every vector unchanged.
var QuatIdentity = Quat{W: 1}

// QuatFromAxisAngle returns the rotation of angle radians about axis. The axis
// is normalized first.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{W: c, X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

// QuatFromEuler builds a world-frame orientation from yaw (about Z), pitch
// (about Y) and roll (about X), all in radians, applied in that order.
func QuatFromEuler(yaw, pitch, roll float64) Quat {
	return QuatFromAxisAngle(AxisUp, yaw).
		Mul(QuatFromAxisAngle(AxisLeft, pitch)).
		Mul(QuatFromAxisAngle(AxisForward, roll))
}

// Mul returns the Hamilton product q*o, i.e. o applied first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Conjugate is the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize rescales q to unit length. A degenerate quaternion becomes the
// identity.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return QuatIdentity
	}
	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Transform is a rigid placement: a position and an orientation.
type Transform struct {
	Position    Vec3 `json:"position"`
	Orientation Quat `json:"orientation"`
}

// ToLocal expresses the world-space point p in the frame described by t.
func (t Transform) ToLocal(p Vec3) Vec3 {
	return t.Orientation.Conjugate().Rotate(p.Sub(t.Position))
}

// ToWorld maps the local point p of frame t into world space.
func (t Transform) ToWorld(p Vec3) Vec3 {
	return t.Position.Add(t.Orientation.Rotate(p))
}

// AABB is an axis-aligned box given by its two extreme corners.
type AABB struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b AABB) HalfExtents() Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Size is the full edge length along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
