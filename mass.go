package robotsyr

import "math"

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Diag builds a diagonal matrix.
func Diag(x, y, z float64) Mat3 {
	return Mat3{{x, 0, 0}, {0, y, 0}, {0, 0, z}}
}

// MassProperties describe the inertial behaviour of a rigid body. CenterOfMass
// and Inertia are expressed in the body's local frame; Inertia is taken about
// the center of mass.
type MassProperties struct {
	Mass         float64 `json:"mass"`
	CenterOfMass Vec3    `json:"center_of_mass"`
	Inertia      Mat3    `json:"inertia"`
}

// MassFunc derives mass properties from a shape and a density.
type MassFunc func(shape Shape, density float64) MassProperties

// Volume of the solid shape.
func (s Shape) Volume() float64 {
	switch s.Kind {
	case ShapeBox:
		return s.Length * s.Width * s.Depth
	case ShapeCylinder:
		return math.Pi * s.Radius * s.Radius * s.Length
	case ShapeSphere:
		return 4.0 / 3.0 * math.Pi * math.Pow(s.Radius, 3)
	case ShapeCapsule:
		return math.Pi*s.Radius*s.Radius*s.Length + 4.0/3.0*math.Pi*math.Pow(s.Radius, 3)
	default:
		return 0
	}
}

// SolidMassProperties treats every shape as a homogeneous solid. The forward
// (X) axis is the symmetry axis of cylinders and capsules.
func SolidMassProperties(shape Shape, density float64) MassProperties {
	m := shape.Volume() * density
	props := MassProperties{Mass: m, CenterOfMass: shape.Centroid()}

	switch shape.Kind {
	case ShapeBox:
		l2, w2, d2 := shape.Length*shape.Length, shape.Width*shape.Width, shape.Depth*shape.Depth
		props.Inertia = Diag(m*(w2+d2)/12, m*(l2+d2)/12, m*(l2+w2)/12)
	case ShapeCylinder:
		r2, l2 := shape.Radius*shape.Radius, shape.Length*shape.Length
		transverse := m * (3*r2 + l2) / 12
		props.Inertia = Diag(m*r2/2, transverse, transverse)
	case ShapeSphere:
		i := 2 * m * shape.Radius * shape.Radius / 5
		props.Inertia = Diag(i, i, i)
	case ShapeCapsule:
		r, h := shape.Radius, shape.Length
		mc := density * math.Pi * r * r * h
		mh := density * 2.0 / 3.0 * math.Pi * r * r * r // one hemisphere
		axial := mc*r*r/2 + 2*mh*2*r*r/5
		transverse := mc*(h*h/12+r*r/4) + 2*mh*(2*r*r/5+h*h/4+3*h*r/8)
		props.Inertia = Diag(axial, transverse, transverse)
	}
	return props
}
