package geometry

import (
	"errors"
	"fmt"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/material"
)

// ErrInvalidGeometry is returned when a triangle references a vertex, normal,
// texture coordinate or material index that is out of range for its store.
var ErrInvalidGeometry = errors.New("geometry: invalid triangle index reference")

// Triangle references its vertex data by index into a Store. Normal and
// texture coordinate indices are optional; unbound slots hold -1.
type Triangle struct {
	P        [3]int // position indices
	N        [3]int // normal indices, -1 when unbound
	T        [3]int // texture coordinate indices, -1 when unbound
	Material int    // material index
}

// NewTriangle creates a triangle from three position indices and a material,
// with no normal or texture coordinate bindings.
func NewTriangle(p0, p1, p2, material int) Triangle {
	return Triangle{
		P:        [3]int{p0, p1, p2},
		N:        [3]int{-1, -1, -1},
		T:        [3]int{-1, -1, -1},
		Material: material,
	}
}

// HasNormals reports whether all three vertices bind a normal
func (t Triangle) HasNormals() bool {
	return t.N[0] >= 0 && t.N[1] >= 0 && t.N[2] >= 0
}

// HasTexCoords reports whether all three vertices bind a texture coordinate
func (t Triangle) HasTexCoords() bool {
	return t.T[0] >= 0 && t.T[1] >= 0 && t.T[2] >= 0
}

// Store holds the scene geometry as flat index-addressed arrays. Triangles
// and octree nodes reference entries by integer index, so the whole structure
// is immutable and freely shared between rendering workers once built.
type Store struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	TexCoords []core.Vec2
	Triangles []Triangle
	Materials []material.Material
}

// Validate checks that every triangle references only in-range positions,
// normals, texture coordinates and materials. It returns an error wrapping
// ErrInvalidGeometry for the first offending triangle. A render must not
// start from a store that fails validation.
func (s *Store) Validate() error {
	for i := range s.Triangles {
		t := &s.Triangles[i]

		for v := 0; v < 3; v++ {
			if t.P[v] < 0 || t.P[v] >= len(s.Positions) {
				return fmt.Errorf("%w: triangle %d position index %d out of range [0,%d)",
					ErrInvalidGeometry, i, t.P[v], len(s.Positions))
			}
			if t.N[v] >= len(s.Normals) {
				return fmt.Errorf("%w: triangle %d normal index %d out of range [0,%d)",
					ErrInvalidGeometry, i, t.N[v], len(s.Normals))
			}
			if t.T[v] >= len(s.TexCoords) {
				return fmt.Errorf("%w: triangle %d texture coordinate index %d out of range [0,%d)",
					ErrInvalidGeometry, i, t.T[v], len(s.TexCoords))
			}
		}

		if t.Material < 0 || t.Material >= len(s.Materials) {
			return fmt.Errorf("%w: triangle %d material index %d out of range [0,%d)",
				ErrInvalidGeometry, i, t.Material, len(s.Materials))
		}
	}
	return nil
}

// TriangleBounds returns the bounding box of the triangle at index i
func (s *Store) TriangleBounds(i int) core.AABB {
	t := &s.Triangles[i]
	return core.NewAABBFromPoints(s.Positions[t.P[0]], s.Positions[t.P[1]], s.Positions[t.P[2]])
}

// TriangleCentroid returns the centroid of the triangle at index i
func (s *Store) TriangleCentroid(i int) core.Vec3 {
	t := &s.Triangles[i]
	return s.Positions[t.P[0]].
		Add(s.Positions[t.P[1]]).
		Add(s.Positions[t.P[2]]).
		Multiply(1.0 / 3.0)
}

// FaceNormal returns the unit geometric normal of the triangle at index i,
// or the zero vector for a degenerate triangle
func (s *Store) FaceNormal(i int) core.Vec3 {
	t := &s.Triangles[i]
	edge1 := s.Positions[t.P[1]].Subtract(s.Positions[t.P[0]])
	edge2 := s.Positions[t.P[2]].Subtract(s.Positions[t.P[0]])
	return edge1.Cross(edge2).Normalize()
}

// Bounds returns the bounding box of all triangles in the store
func (s *Store) Bounds() core.AABB {
	if len(s.Triangles) == 0 {
		return core.AABB{}
	}

	bounds := s.TriangleBounds(0)
	for i := 1; i < len(s.Triangles); i++ {
		bounds = bounds.Union(s.TriangleBounds(i))
	}
	return bounds
}
