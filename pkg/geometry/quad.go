package geometry

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/material"
)

// Quad represents a rectangular surface defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Normal   core.Vec3         // Normal vector (computed from U × V)
	Material material.Material // Material of the quad
	D        float64           // Plane equation constant: ax + by + cz = d
	W        core.Vec3         // Cached cross product for barycentric coordinates

	// UVScale repeats the texture across the quad; zero means (1, 1)
	UVScale core.Vec2
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	// w = n / (n · (u × v))
	w := normal.Multiply(1.0 / normal.Dot(cross))

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		D:        normal.Dot(corner),
		W:        w,
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Parallel to the quad
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)

	// Barycentric coordinates along U and V
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	scale := q.UVScale
	if scale.X == 0 && scale.Y == 0 {
		scale = core.NewVec2(1, 1)
	}

	hit := &material.SurfaceInteraction{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
		UV:       core.NewVec2(alpha*scale.X, beta*scale.Y),
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() core.AABB {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}

	box := core.NewAABB(corners[0], corners[0])
	for _, c := range corners[1:] {
		box = box.Union(core.NewAABB(c, c))
	}

	// Pad flat boxes so slab tests stay robust
	const padding = 0.0001
	pad := core.NewVec3(padding, padding, padding)
	return core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad))
}

// Area returns the surface area of the quad
func (q *Quad) Area() float64 {
	return q.U.Cross(q.V).Length()
}
