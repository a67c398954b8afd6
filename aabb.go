package robotsyr

import "math"

// ComputeAABB returns the axis-aligned box enclosing every module of bp once
// the whole blueprint is rotated by rotation about the world origin. Pass
// QuatIdentity for the rest pose. An empty blueprint yields a zero-size box at
// the origin.
//
// ComputeAABB only reads bp and may be called concurrently.
func ComputeAABB(bp *RobotBlueprint, rotation Quat) AABB {
	if bp == nil || len(bp.Modules) == 0 {
		return AABB{}
	}
	rotation = rotation.Normalize()

	var box AABB
	first := true
	for _, m := range bp.Modules {
		world := Transform{
			Position:    rotation.Rotate(m.Rest.Position),
			Orientation: rotation.Mul(m.Rest.Orientation),
		}
		b := shapeBounds(m.Shape, world)
		if first {
			box, first = b, false
			continue
		}
		box.Min = box.Min.Min(b.Min)
		box.Max = box.Max.Max(b.Max)
	}
	return box
}

// shapeBounds is the tight axis-aligned box of shape placed at t.
func shapeBounds(s Shape, t Transform) AABB {
	switch s.Kind {
	case ShapeBox:
		hy, hz := s.Width/2, s.Depth/2
		var b AABB
		for i, x := range []float64{0, s.Length} {
			for j, y := range []float64{-hy, hy} {
				for k, z := range []float64{-hz, hz} {
					p := t.ToWorld(Vec3{x, y, z})
					if i == 0 && j == 0 && k == 0 {
						b = AABB{Min: p, Max: p}
						continue
					}
					b.Min = b.Min.Min(p)
					b.Max = b.Max.Max(p)
				}
			}
		}
		return b

	case ShapeCylinder:
		a := t.ToWorld(Vec3{})
		c := t.ToWorld(Vec3{X: s.Length})
		axis := t.Orientation.Rotate(AxisForward)
		// A disc of radius r with normal n spans r*sqrt(1-n_i²) along world axis i.
		disc := Vec3{
			s.Radius * math.Sqrt(math.Max(0, 1-axis.X*axis.X)),
			s.Radius * math.Sqrt(math.Max(0, 1-axis.Y*axis.Y)),
			s.Radius * math.Sqrt(math.Max(0, 1-axis.Z*axis.Z)),
		}
		return AABB{Min: a.Min(c).Sub(disc), Max: a.Max(c).Add(disc)}

	case ShapeSphere:
		c := t.ToWorld(Vec3{X: s.Radius})
		r := Vec3{s.Radius, s.Radius, s.Radius}
		return AABB{Min: c.Sub(r), Max: c.Add(r)}

	case ShapeCapsule:
		a := t.ToWorld(Vec3{X: s.Radius})
		c := t.ToWorld(Vec3{X: s.Radius + s.Length})
		r := Vec3{s.Radius, s.Radius, s.Radius}
		return AABB{Min: a.Min(c).Sub(r), Max: a.Max(c).Add(r)}
	}
	return AABB{Min: t.Position, Max: t.Position}
}
