package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a new AABB from min and max points
func NewAABB(minPoint, maxPoint Vec3) AABB {
	return AABB{Min: minPoint, Max: maxPoint}
}

// Hit tests if a ray intersects this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		lo, hi := aabb.Min.Axis(axis), aabb.Max.Axis(axis)
		origin, direction := ray.Origin.Axis(axis), ray.Direction.Axis(axis)

		// Parallel to this slab
		if math.Abs(direction) < 1e-8 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Union returns an AABB that bounds both boxes
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(aabb.Min.X, other.Min.X), math.Min(aabb.Min.Y, other.Min.Y), math.Min(aabb.Min.Z, other.Min.Z)},
		Max: Vec3{math.Max(aabb.Max.X, other.Max.X), math.Max(aabb.Max.Y, other.Max.Y), math.Max(aabb.Max.Z, other.Max.Z)},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}
