package geometry

import "github.com/conor722/go-ray-tracer/pkg/core"

// intersectEpsilon rejects near-zero Möller-Trumbore determinants (rays
// parallel to the triangle plane and degenerate triangles) as well as hits
// at or behind the ray origin.
const intersectEpsilon = 1e-8

// Hit describes a ray-triangle intersection
type Hit struct {
	Triangle int     // index into the store's triangle list
	T        float64 // parametric distance along the ray
	U, V     float64 // barycentric coordinates of the hit; W = 1-U-V
}

// IntersectTriangle tests the ray against the triangle at index i using the
// Möller-Trumbore algorithm. It reports no hit when the ray is parallel to
// the triangle's plane, when the triangle is degenerate, when the hit point
// falls outside the triangle, or when t is not in (0, tMax). The test is
// read-only and safe to call concurrently.
func (s *Store) IntersectTriangle(i int, ray core.Ray, tMax float64) (Hit, bool) {
	tri := &s.Triangles[i]
	v0 := s.Positions[tri.P[0]]
	edge1 := s.Positions[tri.P[1]].Subtract(v0)
	edge2 := s.Positions[tri.P[2]].Subtract(v0)

	// Calculate determinant
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Near-zero determinant: the ray lies in the triangle's plane, or the
	// triangle has (near-)zero area
	if a > -intersectEpsilon && a < intersectEpsilon {
		return Hit{}, false
	}

	f := 1.0 / a
	toOrigin := ray.Origin.Subtract(v0)
	u := f * toOrigin.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := toOrigin.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	t := f * edge2.Dot(q)
	if t <= intersectEpsilon || t >= tMax {
		return Hit{}, false
	}

	return Hit{Triangle: i, T: t, U: u, V: v}, true
}

// IntersectBruteForce tests the ray against every triangle in the store and
// returns the nearest hit. It is the reference path the octree's answers
// must agree with, and the fallback for scenes too small to index.
func (s *Store) IntersectBruteForce(ray core.Ray, tMax float64) (Hit, bool) {
	var closest Hit
	found := false

	for i := range s.Triangles {
		if hit, ok := s.IntersectTriangle(i, ray, tMax); ok {
			closest = hit
			tMax = hit.T
			found = true
		}
	}

	return closest, found
}
