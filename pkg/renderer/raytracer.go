package renderer

import (
	"math"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/lights"
	"github.com/conor722/go-ray-tracer/pkg/material"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

// shadowBias is how far shadow ray origins are nudged along the light
// direction so a surface cannot occlude itself.
const shadowBias = 1e-4

// Raytracer traces primary and shadow rays for a single worker.
type Raytracer struct {
	store      *geometry.Store
	octree     *geometry.Octree
	lights     []lights.Light
	camera     *Camera
	background core.Color

	// Local counters, folded into the pool totals when the worker exits.
	primaryRays int64
	primaryHits int64
	shadowRays  int64
}

// NewRaytracer creates a tracing context for one worker. Workers never share
// an instance, so the counters need no synchronization, and no mutable shared
// state feeds the pixel math, which keeps output identical for any worker
// count.
func NewRaytracer(s *scene.Scene, octree *geometry.Octree, camera *Camera) *Raytracer {
	return &Raytracer{
		store:      s.Store,
		octree:     octree,
		lights:     s.Lights,
		camera:     camera,
		background: s.Background,
	}
}

// TracePixel computes the final color of one pixel. The result depends only
// on the pixel coordinates and the immutable scene, never on scheduling.
func (rt *Raytracer) TracePixel(px, py int) core.Color {
	ray := rt.camera.GetRay(px, py)
	rt.primaryRays++

	hit, ok := rt.octree.Intersect(ray, math.Inf(1))
	if !ok {
		return rt.background
	}
	rt.primaryHits++

	return rt.shadeHit(ray, hit)
}

// shadeHit resolves the surface attributes at a hit and applies the
// lighting model to the material's base color.
func (rt *Raytracer) shadeHit(ray core.Ray, hit geometry.Hit) core.Color {
	tri := rt.store.Triangles[hit.Triangle]
	mat := rt.store.Materials[tri.Material]

	point := ray.At(hit.T)
	normal := rt.surfaceNormal(tri, hit)

	uv := core.Vec2{}
	if mat.Kind == material.Textured && tri.HasTexCoords() {
		uv = rt.interpolateTexCoord(tri, hit)
	}
	base := mat.BaseColor(uv)

	return base.Shade(rt.lightingIntensity(point, normal, ray, mat.Specular))
}

// surfaceNormal interpolates the vertex normals with the hit's barycentric
// weights, falling back to the flat face normal when the triangle carries no
// normals or they cancel out.
func (rt *Raytracer) surfaceNormal(tri geometry.Triangle, hit geometry.Hit) core.Vec3 {
	if !tri.HasNormals() {
		return rt.store.FaceNormal(hit.Triangle)
	}

	w := 1 - hit.U - hit.V
	n0 := rt.store.Normals[tri.N[0]]
	n1 := rt.store.Normals[tri.N[1]]
	n2 := rt.store.Normals[tri.N[2]]

	normal := n0.Multiply(w).Add(n1.Multiply(hit.U)).Add(n2.Multiply(hit.V)).Normalize()
	if normal == (core.Vec3{}) {
		return rt.store.FaceNormal(hit.Triangle)
	}
	return normal
}

// interpolateTexCoord blends the three vertex texture coordinates with the
// hit's barycentric weights.
func (rt *Raytracer) interpolateTexCoord(tri geometry.Triangle, hit geometry.Hit) core.Vec2 {
	w := 1 - hit.U - hit.V
	t0 := rt.store.TexCoords[tri.T[0]]
	t1 := rt.store.TexCoords[tri.T[1]]
	t2 := rt.store.TexCoords[tri.T[2]]

	return core.Vec2{
		X: w*t0.X + hit.U*t1.X + hit.V*t2.X,
		Y: w*t0.Y + hit.U*t1.Y + hit.V*t2.Y,
	}
}

// lightingIntensity accumulates the scalar light arriving at a point: a
// constant term per ambient light, plus diffuse and, for shiny materials,
// specular terms per point and directional light. Point lights are
// shadow-tested first; ambient and directional lights are never occluded.
func (rt *Raytracer) lightingIntensity(point, normal core.Vec3, ray core.Ray, specular float64) float64 {
	view := ray.Direction.Negate().Normalize()

	total := 0.0
	for _, light := range rt.lights {
		if light.Kind == lights.Ambient {
			total += light.Intensity
			continue
		}

		toLight, lightDist := light.Incidence(point)
		if light.Kind == lights.Point && rt.occluded(point, toLight, lightDist) {
			continue
		}

		if diffuse := normal.Dot(toLight); diffuse > 0 {
			total += light.Intensity * diffuse
		}

		if specular > 0 {
			if alignment := toLight.Reflect(normal).Dot(view); alignment > 0 {
				total += light.Intensity * math.Pow(alignment, specular)
			}
		}
	}

	return total
}

// occluded reports whether any triangle blocks the segment from the point
// toward the light.
func (rt *Raytracer) occluded(point, toLight core.Vec3, lightDist float64) bool {
	rt.shadowRays++
	origin := point.Add(toLight.Multiply(shadowBias))
	_, hit := rt.octree.Intersect(core.NewRay(origin, toLight), lightDist)
	return hit
}
