package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Hit tests if a ray intersects with this AABB using the slab method.
// The interval comparisons are closed, so a ray grazing a face or edge
// of the box still counts as a hit.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		var min, max, origin, direction float64

		switch axis {
		case 0: // X axis
			min = aabb.Min.X
			max = aabb.Max.X
			origin = ray.Origin.X
			direction = ray.Direction.X
		case 1: // Y axis
			min = aabb.Min.Y
			max = aabb.Max.Y
			origin = ray.Origin.Y
			direction = ray.Direction.Y
		case 2: // Z axis
			min = aabb.Min.Z
			max = aabb.Max.Z
			origin = ray.Origin.Z
			direction = ray.Direction.Z
		}

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-8 {
			// Ray is parallel to this axis
			if origin < min || origin > max {
				return false // Ray origin outside slab
			}
			continue
		}

		// Calculate intersection distances for this axis
		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection

		// Ensure t1 <= t2 (swap if needed)
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		// Update overall intersection interval
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		// No intersection if tMin > tMax
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Overlaps reports whether this AABB and another share any volume,
// face, edge or corner. Boxes that merely touch still overlap.
func (aabb AABB) Overlaps(other AABB) bool {
	return aabb.Min.X <= other.Max.X && aabb.Max.X >= other.Min.X &&
		aabb.Min.Y <= other.Max.Y && aabb.Max.Y >= other.Min.Y &&
		aabb.Min.Z <= other.Max.Z && aabb.Max.Z >= other.Min.Z
}

// Contains reports whether a point lies inside or on the boundary of the AABB
func (aabb AABB) Contains(point Vec3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Octant returns the i-th of the 8 equal child boxes produced by splitting
// the AABB at its center. Bit 0 of i selects the upper X half, bit 1 the
// upper Y half and bit 2 the upper Z half.
func (aabb AABB) Octant(i int) AABB {
	center := aabb.Center()

	child := AABB{Min: aabb.Min, Max: center}
	if i&1 != 0 {
		child.Min.X = center.X
		child.Max.X = aabb.Max.X
	}
	if i&2 != 0 {
		child.Min.Y = center.Y
		child.Max.Y = aabb.Max.Y
	}
	if i&4 != 0 {
		child.Min.Z = center.Z
		child.Max.Z = aabb.Max.Z
	}
	return child
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}
