package renderer

import (
	"math"
	"testing"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/lights"
	"github.com/conor722/go-ray-tracer/pkg/material"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

// testTracer builds a single-worker tracing context over a 101x101 frame,
// whose center pixel ray runs exactly along +z.
func testTracer(t *testing.T, s *scene.Scene) *Raytracer {
	t.Helper()

	octree, err := geometry.NewOctree(s.Store, geometry.OctreeConfig{})
	if err != nil {
		t.Fatalf("Expected scene geometry to validate, got %v", err)
	}
	return NewRaytracer(s, octree, NewCamera(s.Camera, 101, 101))
}

// facingTriangleStore holds one triangle in the z=0 plane whose face normal
// points back along -z toward the camera.
func facingTriangleStore(mat material.Material) *geometry.Store {
	return &geometry.Store{
		Positions: []core.Vec3{
			core.NewVec3(-1, -1, 0),
			core.NewVec3(0, 1, 0),
			core.NewVec3(1, -1, 0),
		},
		Triangles: []geometry.Triangle{geometry.NewTriangle(0, 1, 2, 0)},
		Materials: []material.Material{mat},
	}
}

func TestRaytracer_TracePixel(t *testing.T) {
	t.Run("Ambient light scales the base color exactly", func(t *testing.T) {
		s := &scene.Scene{
			Store:      facingTriangleStore(material.NewFlat(core.NewColor(220, 50, 40), 0)),
			Lights:     []lights.Light{lights.NewAmbient(0.5)},
			Camera:     scene.CameraConfig{Position: core.NewVec3(0, 0, -2.5)},
			Background: core.White,
		}
		tracer := testTracer(t, s)

		if got := tracer.TracePixel(50, 50); got != core.NewColor(110, 25, 20) {
			t.Errorf("Expected (110,25,20), got %v", got)
		}
		if got := tracer.TracePixel(0, 0); got != core.White {
			t.Errorf("Expected the background at the corner, got %v", got)
		}

		if tracer.primaryRays != 2 {
			t.Errorf("Expected 2 primary rays, got %d", tracer.primaryRays)
		}
		if tracer.primaryHits != 1 {
			t.Errorf("Expected 1 primary hit, got %d", tracer.primaryHits)
		}
		if tracer.shadowRays != 0 {
			t.Errorf("Expected no shadow rays under ambient light, got %d", tracer.shadowRays)
		}
	})

	t.Run("Nearest surface wins", func(t *testing.T) {
		// The far blue triangle comes first in the store
		store := &geometry.Store{
			Positions: []core.Vec3{
				core.NewVec3(-1, -1, 3), core.NewVec3(0, 1, 3), core.NewVec3(1, -1, 3),
				core.NewVec3(-1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0),
			},
			Triangles: []geometry.Triangle{
				geometry.NewTriangle(0, 1, 2, 0),
				geometry.NewTriangle(3, 4, 5, 1),
			},
			Materials: []material.Material{
				material.NewFlat(core.NewColor(0, 0, 255), 0),
				material.NewFlat(core.NewColor(255, 0, 0), 0),
			},
		}
		s := &scene.Scene{
			Store:      store,
			Lights:     []lights.Light{lights.NewAmbient(1)},
			Camera:     scene.CameraConfig{Position: core.NewVec3(0, 0, -2.5)},
			Background: core.Black,
		}
		tracer := testTracer(t, s)

		if got := tracer.TracePixel(50, 50); got != core.NewColor(255, 0, 0) {
			t.Errorf("Expected the near red triangle, got %v", got)
		}
	})

	t.Run("Empty scene is all background", func(t *testing.T) {
		s := &scene.Scene{
			Store:      &geometry.Store{},
			Lights:     scene.DefaultLights(),
			Camera:     scene.DefaultCamera(),
			Background: core.White,
		}
		tracer := testTracer(t, s)

		for _, px := range [][2]int{{0, 0}, {50, 50}, {100, 100}} {
			if got := tracer.TracePixel(px[0], px[1]); got != core.White {
				t.Errorf("Expected the background at %v, got %v", px, got)
			}
		}
		if tracer.primaryHits != 0 {
			t.Errorf("Expected no hits in an empty scene, got %d", tracer.primaryHits)
		}
	})

	t.Run("Oversaturated lighting clamps to white", func(t *testing.T) {
		s := &scene.Scene{
			Store:      facingTriangleStore(material.NewFlat(core.NewColor(220, 50, 40), 0)),
			Lights:     []lights.Light{lights.NewAmbient(10)},
			Camera:     scene.CameraConfig{Position: core.NewVec3(0, 0, -2.5)},
			Background: core.Black,
		}
		tracer := testTracer(t, s)

		if got := tracer.TracePixel(50, 50); got != core.White {
			t.Errorf("Expected clamped white, got %v", got)
		}
	})

	t.Run("Textured surface samples by interpolated coordinate", func(t *testing.T) {
		texture := material.NewTexture(2, 2, []core.Color{
			core.NewColor(255, 0, 0), core.NewColor(0, 255, 0),
			core.NewColor(0, 0, 255), core.NewColor(255, 255, 0),
		})

		store := facingTriangleStore(material.NewTextured(texture, 0))
		store.TexCoords = []core.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0, Y: 1}}
		store.Triangles[0].T = [3]int{0, 1, 2}

		s := &scene.Scene{
			Store:      store,
			Lights:     []lights.Light{lights.NewAmbient(1)},
			Camera:     scene.CameraConfig{Position: core.NewVec3(0, 0, -2.5)},
			Background: core.Black,
		}
		tracer := testTracer(t, s)

		// The center ray hits (0,0,0) at barycentric (u=0.5, v=0.25), which
		// interpolates to texture coordinate (0.25, 0.25): the bottom left
		// texel.
		if got := tracer.TracePixel(50, 50); got != core.NewColor(0, 0, 255) {
			t.Errorf("Expected the bottom left texel, got %v", got)
		}
	})
}

func TestRaytracer_LightingIntensity(t *testing.T) {
	// Shading a point on a surface facing -z, viewed head-on from -z
	normal := core.NewVec3(0, 0, -1)
	viewRay := core.NewRay(core.NewVec3(0, 0, -2.5), core.NewVec3(0, 0, 1))

	emptyScene := func(ls ...lights.Light) *scene.Scene {
		return &scene.Scene{Store: &geometry.Store{}, Lights: ls}
	}

	t.Run("Head-on directional light", func(t *testing.T) {
		tracer := testTracer(t, emptyScene(lights.NewDirectional(0.5, core.NewVec3(0, 0, -1))))

		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 0)
		if math.Abs(got-0.5) > tolerance {
			t.Errorf("Expected intensity 0.5, got %v", got)
		}
	})

	t.Run("Specular term adds on shiny surfaces", func(t *testing.T) {
		tracer := testTracer(t, emptyScene(lights.NewDirectional(0.5, core.NewVec3(0, 0, -1))))

		// Head-on, the reflection lines up with the view exactly, so the
		// highlight contributes the full light intensity at any exponent.
		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 64)
		if math.Abs(got-1.0) > tolerance {
			t.Errorf("Expected intensity 1.0, got %v", got)
		}
	})

	t.Run("Oblique light attenuates both terms", func(t *testing.T) {
		tracer := testTracer(t, emptyScene(lights.NewDirectional(1, core.NewVec3(0.6, 0, -0.8))))

		// diffuse = 0.8; the reflected direction (-0.6,0,-0.8) dots the view
		// at 0.8, squared by the exponent
		expected := 0.8 + math.Pow(0.8, 2)
		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 2)
		if math.Abs(got-expected) > tolerance {
			t.Errorf("Expected intensity %v, got %v", expected, got)
		}
	})

	t.Run("Light behind the surface contributes nothing", func(t *testing.T) {
		tracer := testTracer(t, emptyScene(lights.NewDirectional(0.5, core.NewVec3(0, 0, 1))))

		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 0)
		if got != 0 {
			t.Errorf("Expected no intensity from behind, got %v", got)
		}
	})

	t.Run("Ambient light needs no geometry terms", func(t *testing.T) {
		tracer := testTracer(t, emptyScene(lights.NewAmbient(0.4), lights.NewAmbient(0.1)))

		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 64)
		if math.Abs(got-0.5) > tolerance {
			t.Errorf("Expected intensity 0.5, got %v", got)
		}
	})
}

func TestRaytracer_Shadows(t *testing.T) {
	// A small blocker hangs at z=-1 between the shaded point at the origin
	// and anything further along -z.
	blockerStore := func() *geometry.Store {
		return &geometry.Store{
			Positions: []core.Vec3{
				core.NewVec3(-0.3, -0.3, -1),
				core.NewVec3(0, 0.6, -1),
				core.NewVec3(0.3, -0.3, -1),
			},
			Triangles: []geometry.Triangle{geometry.NewTriangle(0, 1, 2, 0)},
			Materials: []material.Material{material.NewFlat(core.White, 0)},
		}
	}

	normal := core.NewVec3(0, 0, -1)
	viewRay := core.NewRay(core.NewVec3(0, 0, -2.5), core.NewVec3(0, 0, 1))

	t.Run("Occluded point light leaves only ambient", func(t *testing.T) {
		s := &scene.Scene{
			Store: blockerStore(),
			Lights: []lights.Light{
				lights.NewAmbient(0.3),
				lights.NewPoint(0.7, core.NewVec3(0, 0, -5)),
			},
		}
		tracer := testTracer(t, s)

		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 0)
		if math.Abs(got-0.3) > tolerance {
			t.Errorf("Expected only the ambient term, got %v", got)
		}
		if tracer.shadowRays != 1 {
			t.Errorf("Expected 1 shadow ray, got %d", tracer.shadowRays)
		}
	})

	t.Run("Point beside the blocker stays lit", func(t *testing.T) {
		s := &scene.Scene{
			Store: blockerStore(),
			Lights: []lights.Light{
				lights.NewAmbient(0.3),
				lights.NewPoint(0.7, core.NewVec3(0, 0, -5)),
			},
		}
		tracer := testTracer(t, s)

		point := core.NewVec3(2, 0, 0)
		expected := 0.3 + 0.7*5/math.Sqrt(29)

		got := tracer.lightingIntensity(point, normal, viewRay, 0)
		if math.Abs(got-expected) > tolerance {
			t.Errorf("Expected intensity %v, got %v", expected, got)
		}
	})

	t.Run("Blocker past the light does not shadow", func(t *testing.T) {
		s := &scene.Scene{
			Store:  blockerStore(),
			Lights: []lights.Light{lights.NewPoint(0.7, core.NewVec3(0, 0, -0.5))},
		}
		tracer := testTracer(t, s)

		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 0)
		if math.Abs(got-0.7) > tolerance {
			t.Errorf("Expected full intensity, got %v", got)
		}
	})

	t.Run("Directional light ignores blockers", func(t *testing.T) {
		s := &scene.Scene{
			Store:  blockerStore(),
			Lights: []lights.Light{lights.NewDirectional(0.5, core.NewVec3(0, 0, -1))},
		}
		tracer := testTracer(t, s)

		got := tracer.lightingIntensity(core.Vec3{}, normal, viewRay, 0)
		if math.Abs(got-0.5) > tolerance {
			t.Errorf("Expected full intensity, got %v", got)
		}
		if tracer.shadowRays != 0 {
			t.Errorf("Expected no shadow rays for directional light, got %d", tracer.shadowRays)
		}
	})
}

func TestRaytracer_SurfaceNormal(t *testing.T) {
	baseStore := func() *geometry.Store {
		return facingTriangleStore(material.NewFlat(core.White, 0))
	}

	t.Run("Unbound normals fall back to the face normal", func(t *testing.T) {
		s := &scene.Scene{Store: baseStore(), Lights: nil}
		tracer := testTracer(t, s)

		got := tracer.surfaceNormal(s.Store.Triangles[0], geometry.Hit{U: 0.25, V: 0.25})
		if got.Subtract(core.NewVec3(0, 0, -1)).Length() > tolerance {
			t.Errorf("Expected the face normal (0,0,-1), got %v", got)
		}
	})

	t.Run("Vertex normals interpolate and renormalize", func(t *testing.T) {
		store := baseStore()
		store.Normals = []core.Vec3{core.NewVec3(0, 1, 0), core.NewVec3(0, 0, -1)}
		store.Triangles[0].N = [3]int{0, 1, 1}

		s := &scene.Scene{Store: store, Lights: nil}
		tracer := testTracer(t, s)

		t.Run("At a vertex", func(t *testing.T) {
			got := tracer.surfaceNormal(store.Triangles[0], geometry.Hit{U: 0, V: 0})
			if got.Subtract(core.NewVec3(0, 1, 0)).Length() > tolerance {
				t.Errorf("Expected the first vertex normal, got %v", got)
			}
		})

		t.Run("Between vertices", func(t *testing.T) {
			got := tracer.surfaceNormal(store.Triangles[0], geometry.Hit{U: 0.5, V: 0})
			expected := core.NewVec3(0, 1, -1).Normalize()
			if got.Subtract(expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", expected, got)
			}
		})
	})

	t.Run("Cancelling normals fall back to the face normal", func(t *testing.T) {
		store := baseStore()
		store.Normals = []core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)}
		store.Triangles[0].N = [3]int{0, 1, 1}

		s := &scene.Scene{Store: store, Lights: nil}
		tracer := testTracer(t, s)

		got := tracer.surfaceNormal(store.Triangles[0], geometry.Hit{U: 0.5, V: 0})
		if got.Subtract(core.NewVec3(0, 0, -1)).Length() > tolerance {
			t.Errorf("Expected the face normal fallback, got %v", got)
		}
	})
}
