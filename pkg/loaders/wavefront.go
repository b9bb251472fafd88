package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/log"
	"github.com/conor722/go-ray-tracer/pkg/material"
)

// ErrNonTriangularFace is returned for face statements with more or fewer
// than three vertices. Meshes must be triangulated on export.
var ErrNonTriangularFace = errors.New("loaders: non-triangular face")

// defaultSpecular is the exponent used when a material omits Ns.
const defaultSpecular = 240

// defaultBaseColor is the neutral gray used for faces without a material.
var defaultBaseColor = core.NewColor(178, 178, 178)

// objReader accumulates wavefront OBJ/MTL statements into a geometry store.
type objReader struct {
	logger log.Logger

	store *geometry.Store

	// Material names to indices in store.Materials.
	matNameToIndex map[string]int

	// Materials waiting on a decoded image, by the path of the last
	// map_Kd statement seen for each.
	pendingTextures map[int]string

	// Currently selected material, -1 until the first usemtl or face.
	curMaterial int

	// Error context pushed when descending into material libraries.
	errStack []string
}

// LoadOBJ parses a wavefront OBJ file plus any material libraries it
// references, decodes the referenced textures, and returns the finalized
// geometry store.
func LoadOBJ(path string) (*geometry.Store, error) {
	r := newObjReader()
	r.logger.Noticef(`parsing mesh from "%s"`, path)
	start := time.Now()

	if err := r.parseFile(path); err != nil {
		return nil, err
	}
	if err := r.resolveTextures(); err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d triangles in %d ms",
		len(r.store.Triangles), time.Since(start).Nanoseconds()/1e6)
	return r.store, nil
}

func newObjReader() *objReader {
	return &objReader{
		logger:          log.New("wavefront"),
		store:           &geometry.Store{},
		matNameToIndex:  make(map[string]int),
		pendingTextures: make(map[int]string),
		curMaterial:     -1,
	}
}

func (r *objReader) parseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return r.emitError("", 0, "%w", err)
	}
	defer f.Close()

	return r.parse(f, path)
}

// parse consumes wavefront OBJ statements. Geometry keywords append to the
// store; mtllib descends into the referenced material library; anything
// unrecognized is skipped.
func (r *objReader) parse(rd io.Reader, path string) error {
	lineNum := 0

	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(path, lineNum, "%w", err)
			}
			r.store.Positions = append(r.store.Positions, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(path, lineNum, "%w", err)
			}
			r.store.Normals = append(r.store.Normals, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(path, lineNum, "%w", err)
			}
			r.store.TexCoords = append(r.store.TexCoords, v)
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return r.emitError(path, lineNum, "%w", err)
			}
		case "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "mtllib"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			libPath := filepath.Join(filepath.Dir(path), lineTokens[1])
			r.pushFrame(fmt.Sprintf("referenced from %s:%d [mtllib]", path, lineNum))
			if err := r.parseMaterialFile(libPath); err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return r.emitError(path, lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = matIndex
		case "o", "g", "s":
			// Object grouping and smoothing carry no meaning for a flat
			// triangle store.
		default:
			r.logger.Debugf("%s:%d: skipping unknown keyword %q", path, lineNum, lineTokens[0])
		}
	}

	return scanner.Err()
}

// parseFace appends one triangle. Each of the three vertex arguments is of
// the form "p", "p/t", "p//n" or "p/t/n"; indices are 1-based, negative
// values count back from the end of the respective list.
func (r *objReader) parseFace(lineTokens []string) error {
	if len(lineTokens) != 4 {
		return fmt.Errorf("%w: expected 3 vertices; got %d. Select the triangulation option in your exporter",
			ErrNonTriangularFace, len(lineTokens)-1)
	}

	tri := geometry.Triangle{
		P: [3]int{-1, -1, -1},
		N: [3]int{-1, -1, -1},
		T: [3]int{-1, -1, -1},
	}

	expIndices := 0
	for arg := 0; arg < 3; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first argument defines the format for the rest.
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices",
				expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		index, err := selectCoordIndex(vTokens[0], len(r.store.Positions))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %v", arg, err)
		}
		tri.P[arg] = index

		if expIndices > 1 && vTokens[1] != "" {
			index, err = selectCoordIndex(vTokens[1], len(r.store.TexCoords))
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %v", arg, err)
			}
			tri.T[arg] = index
		}

		if expIndices > 2 && vTokens[2] != "" {
			index, err = selectCoordIndex(vTokens[2], len(r.store.Normals))
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %v", arg, err)
			}
			tri.N[arg] = index
		}
	}

	if r.curMaterial == -1 {
		r.curMaterial = r.defaultMaterial()
	}
	tri.Material = r.curMaterial

	r.store.Triangles = append(r.store.Triangles, tri)
	return nil
}

// defaultMaterial registers the neutral material used by faces that appear
// before any usemtl statement.
func (r *objReader) defaultMaterial() int {
	matIndex, exists := r.matNameToIndex[""]
	if !exists {
		r.store.Materials = append(r.store.Materials, material.NewFlat(defaultBaseColor, defaultSpecular))
		matIndex = len(r.store.Materials) - 1
		r.matNameToIndex[""] = matIndex
	}
	return matIndex
}

func (r *objReader) parseMaterialFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return r.emitError("", 0, "%w", err)
	}
	defer f.Close()

	return r.parseMaterials(f, path)
}

// parseMaterials consumes a wavefront material library. Kd sets the base
// color, Ns the specular exponent and map_Kd queues a texture for decoding;
// everything else is skipped.
func (r *objReader) parseMaterials(rd io.Reader, path string) error {
	r.logger.Infof(`parsing material library "%s"`, path)

	lineNum := 0
	curMaterial := -1

	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if lineTokens[0] == "newmtl" {
			if len(lineTokens) != 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(path, lineNum, `material "%s" already defined`, matName)
			}

			r.store.Materials = append(r.store.Materials, material.NewFlat(defaultBaseColor, defaultSpecular))
			curMaterial = len(r.store.Materials) - 1
			r.matNameToIndex[matName] = curMaterial
			continue
		}

		if curMaterial == -1 {
			return r.emitError(path, lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
		}

		switch lineTokens[0] {
		case "Kd":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(path, lineNum, "%w", err)
			}
			r.store.Materials[curMaterial].Color = core.NewColor(
				scaleChannel(v.X), scaleChannel(v.Y), scaleChannel(v.Z))
		case "Ns":
			v, err := parseFloat(lineTokens)
			if err != nil {
				return r.emitError(path, lineNum, "%w", err)
			}
			r.store.Materials[curMaterial].Specular = v
		case "map_Kd":
			if len(lineTokens) != 2 {
				return r.emitError(path, lineNum, `unsupported syntax for "map_Kd"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			r.pendingTextures[curMaterial] = filepath.Join(filepath.Dir(path), lineTokens[1])
		default:
			r.logger.Debugf("%s:%d: skipping unknown keyword %q", path, lineNum, lineTokens[0])
		}
	}

	return scanner.Err()
}

// resolveTextures decodes every referenced texture once and attaches it to
// the materials that use it. Decodes run concurrently; each material binds
// at most one path, so the attachment writes are disjoint.
func (r *objReader) resolveTextures() error {
	if len(r.pendingTextures) == 0 {
		return nil
	}

	byPath := make(map[string][]int)
	for matIndex, path := range r.pendingTextures {
		byPath[path] = append(byPath[path], matIndex)
	}

	var g errgroup.Group
	for path, matIndices := range byPath {
		path, matIndices := path, matIndices
		g.Go(func() error {
			tex, err := LoadTexture(path)
			if err != nil {
				return err
			}
			for _, matIndex := range matIndices {
				r.store.Materials[matIndex].Kind = material.Textured
				r.store.Materials[matIndex].Texture = tex
			}
			return nil
		})
	}
	return g.Wait()
}

// emitError prefixes parse errors with their file position and appends any
// stacked include context. Wrapped sentinels stay unwrappable through the
// prefix.
func (r *objReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	err := fmt.Errorf(msgFormat, args...)

	stack := strings.Join(r.errStack, "\n")
	if stack != "" {
		stack = "\n" + stack
	}

	if file != "" {
		return fmt.Errorf("[%s: %d] error: %w%s", file, line, err, stack)
	}
	return fmt.Errorf("error: %w%s", err, stack)
}

// pushFrame adds a frame to the error stack.
func (r *objReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// popFrame removes the most recent error stack frame.
func (r *objReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// selectCoordIndex resolves a 1-based face coordinate index against the
// current list length. Negative indices reference elements from the end of
// the list.
func selectCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

// scaleChannel maps a wavefront 0-1 color channel onto 0-255.
func scaleChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v * 255)
	}
}

// parseFloat parses a single float argument.
func parseFloat(lineTokens []string) (float64, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	return strconv.ParseFloat(lineTokens[1], 64)
}

// parseVec3 parses a three float row such as a vertex or normal.
func parseVec3(lineTokens []string) (core.Vec3, error) {
	if len(lineTokens) < 4 {
		return core.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var coords [3]float64
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return core.Vec3{}, err
		}
		coords[tokIdx-1] = coord
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// parseVec2 parses a two float row such as a texture coordinate.
func parseVec2(lineTokens []string) (core.Vec2, error) {
	if len(lineTokens) < 3 {
		return core.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var coords [2]float64
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return core.Vec2{}, err
		}
		coords[tokIdx-1] = coord
	}
	return core.NewVec2(coords[0], coords[1]), nil
}
