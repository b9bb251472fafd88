package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/log"
	"github.com/conor722/go-ray-tracer/pkg/material"
)

// plyProperty is one property declaration inside a PLY element
type plyProperty struct {
	name      string
	typ       string
	list      bool
	countType string // list count type
	dataType  string // list item type
}

// plyElement is one element declaration with its property layout
type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// plyHeader holds the parsed header: the data format plus the elements in
// their declared order, which is also the order of the data section.
type plyHeader struct {
	format   string
	elements []plyElement
}

// plyDecoder yields scalar values from the data section. The ascii and
// binary layouts differ only in how a single value is pulled off the stream.
type plyDecoder interface {
	scalar(typ string) (float64, error)
}

// plyReader accumulates decoded PLY elements into a geometry store.
type plyReader struct {
	logger   log.Logger
	store    *geometry.Store
	material int // lazily registered default material, -1 until the first face
}

// LoadPLY parses a PLY mesh in ascii or binary form and returns the
// finalized geometry store. Per-vertex normals and texture coordinates are
// carried over when present; PLY has no material model, so every face gets
// the neutral material.
func LoadPLY(path string) (*geometry.Store, error) {
	r := &plyReader{
		logger:   log.New("ply"),
		store:    &geometry.Store{},
		material: -1,
	}
	r.logger.Noticef(`parsing mesh from "%s"`, path)
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ply: %w", err)
	}
	defer f.Close()

	if err := r.parse(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("ply %q: %w", path, err)
	}

	r.logger.Noticef("parsed %d triangles in %d ms",
		len(r.store.Triangles), time.Since(start).Nanoseconds()/1e6)
	return r.store, nil
}

func (r *plyReader) parse(br *bufio.Reader) error {
	header, err := parsePLYHeader(br)
	if err != nil {
		return err
	}

	var dec plyDecoder
	switch header.format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		dec = &asciiDecoder{scanner: scanner}
	case "binary_little_endian":
		dec = &binaryDecoder{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		dec = &binaryDecoder{r: br, order: binary.BigEndian}
	default:
		return fmt.Errorf("unsupported format %q", header.format)
	}

	for _, elem := range header.elements {
		switch elem.name {
		case "vertex":
			err = r.readVertices(dec, elem)
		case "face":
			err = r.readFaces(dec, elem)
		default:
			err = skipPLYElement(dec, elem)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parsePLYHeader consumes the header lines up to and including end_header
func parsePLYHeader(br *bufio.Reader) (*plyHeader, error) {
	magic, err := readPLYLine(br)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, fmt.Errorf("missing ply magic; got %q", magic)
	}

	header := &plyHeader{}
	for lineNum := 2; ; lineNum++ {
		line, err := readPLYLine(br)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			if header.format == "" {
				return nil, fmt.Errorf("line %d: end_header before a format statement", lineNum)
			}
			return header, nil
		case "format":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: unsupported format statement", lineNum)
			}
			header.format = fields[1]
		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: unsupported element statement", lineNum)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("line %d: bad element count %q", lineNum, fields[2])
			}
			header.elements = append(header.elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(header.elements) == 0 {
				return nil, fmt.Errorf("line %d: property before any element", lineNum)
			}

			var prop plyProperty
			switch {
			case len(fields) == 5 && fields[1] == "list":
				prop = plyProperty{name: fields[4], list: true, countType: fields[2], dataType: fields[3]}
			case len(fields) == 3:
				prop = plyProperty{name: fields[2], typ: fields[1]}
			default:
				return nil, fmt.Errorf("line %d: unsupported property statement", lineNum)
			}

			elem := &header.elements[len(header.elements)-1]
			elem.props = append(elem.props, prop)
		case "comment", "obj_info":
			// Free-form metadata
		default:
			return nil, fmt.Errorf("line %d: unknown header keyword %q", lineNum, fields[0])
		}
	}
}

// vertexLayout maps the well-known vertex attributes onto property slots.
// Unmatched attributes stay -1.
type vertexLayout struct {
	x, y, z    int
	nx, ny, nz int
	u, v       int
}

func resolveVertexLayout(props []plyProperty) (vertexLayout, error) {
	layout := vertexLayout{x: -1, y: -1, z: -1, nx: -1, ny: -1, nz: -1, u: -1, v: -1}

	for i, prop := range props {
		if prop.list {
			return layout, fmt.Errorf("list property %q in vertex element", prop.name)
		}

		switch prop.name {
		case "x":
			layout.x = i
		case "y":
			layout.y = i
		case "z":
			layout.z = i
		case "nx":
			layout.nx = i
		case "ny":
			layout.ny = i
		case "nz":
			layout.nz = i
		case "u", "s":
			layout.u = i
		case "v", "t":
			layout.v = i
		}
	}

	if layout.x < 0 || layout.y < 0 || layout.z < 0 {
		return layout, fmt.Errorf("vertex element lacks x/y/z properties")
	}
	return layout, nil
}

// readVertices decodes the vertex element into the store's attribute arrays
func (r *plyReader) readVertices(dec plyDecoder, elem plyElement) error {
	layout, err := resolveVertexLayout(elem.props)
	if err != nil {
		return err
	}

	hasNormals := layout.nx >= 0 && layout.ny >= 0 && layout.nz >= 0
	hasTexCoords := layout.u >= 0 && layout.v >= 0

	row := make([]float64, len(elem.props))
	for i := 0; i < elem.count; i++ {
		for p, prop := range elem.props {
			if row[p], err = dec.scalar(prop.typ); err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
		}

		r.store.Positions = append(r.store.Positions,
			core.NewVec3(row[layout.x], row[layout.y], row[layout.z]))
		if hasNormals {
			r.store.Normals = append(r.store.Normals,
				core.NewVec3(row[layout.nx], row[layout.ny], row[layout.nz]))
		}
		if hasTexCoords {
			r.store.TexCoords = append(r.store.TexCoords,
				core.NewVec2(row[layout.u], row[layout.v]))
		}
	}
	return nil
}

// readFaces decodes the face element, fan-triangulating polygons with more
// than three vertices. Vertex indices double as normal and texture
// coordinate indices because PLY stores those attributes per vertex.
func (r *plyReader) readFaces(dec plyDecoder, elem plyElement) error {
	for i := 0; i < elem.count; i++ {
		for _, prop := range elem.props {
			if !prop.list {
				if _, err := dec.scalar(prop.typ); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			count, err := dec.scalar(prop.countType)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}

			if prop.name != "vertex_indices" && prop.name != "vertex_index" {
				if err := discardPLYValues(dec, prop.dataType, int(count)); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			indices := make([]int, int(count))
			for n := range indices {
				v, err := dec.scalar(prop.dataType)
				if err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				indices[n] = int(v)
				if indices[n] < 0 || indices[n] >= len(r.store.Positions) {
					return fmt.Errorf("%w: face %d references vertex %d of %d",
						geometry.ErrInvalidGeometry, i, indices[n], len(r.store.Positions))
				}
			}
			if len(indices) < 3 {
				return fmt.Errorf("face %d has %d vertices", i, len(indices))
			}

			r.appendFan(indices)
		}
	}
	return nil
}

// appendFan triangulates a convex polygon around its first vertex
func (r *plyReader) appendFan(indices []int) {
	if r.material == -1 {
		r.store.Materials = append(r.store.Materials,
			material.NewFlat(defaultBaseColor, defaultSpecular))
		r.material = len(r.store.Materials) - 1
	}

	bindNormals := len(r.store.Normals) > 0
	bindTexCoords := len(r.store.TexCoords) > 0

	for i := 2; i < len(indices); i++ {
		corners := [3]int{indices[0], indices[i-1], indices[i]}

		tri := geometry.NewTriangle(corners[0], corners[1], corners[2], r.material)
		if bindNormals {
			tri.N = corners
		}
		if bindTexCoords {
			tri.T = corners
		}
		r.store.Triangles = append(r.store.Triangles, tri)
	}
}

// skipPLYElement discards the data rows of an element the store has no use
// for, keeping the decoder aligned for the elements that follow.
func skipPLYElement(dec plyDecoder, elem plyElement) error {
	for i := 0; i < elem.count; i++ {
		for _, prop := range elem.props {
			if prop.list {
				count, err := dec.scalar(prop.countType)
				if err != nil {
					return fmt.Errorf("%s %d: %w", elem.name, i, err)
				}
				if err := discardPLYValues(dec, prop.dataType, int(count)); err != nil {
					return fmt.Errorf("%s %d: %w", elem.name, i, err)
				}
			} else if _, err := dec.scalar(prop.typ); err != nil {
				return fmt.Errorf("%s %d: %w", elem.name, i, err)
			}
		}
	}
	return nil
}

func discardPLYValues(dec plyDecoder, typ string, count int) error {
	for i := 0; i < count; i++ {
		if _, err := dec.scalar(typ); err != nil {
			return err
		}
	}
	return nil
}

// readPLYLine reads one header line, tolerating CRLF endings
func readPLYLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// asciiDecoder pulls whitespace-separated numbers off the data section
type asciiDecoder struct {
	scanner *bufio.Scanner
}

func (d *asciiDecoder) scalar(string) (float64, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(d.scanner.Text(), 64)
}

// binaryDecoder pulls fixed-width values off the data section
type binaryDecoder struct {
	r     io.Reader
	order binary.ByteOrder
}

func (d *binaryDecoder) scalar(typ string) (float64, error) {
	switch typ {
	case "char", "int8":
		var v int8
		err := d.read(&v)
		return float64(v), err
	case "uchar", "uint8":
		var v uint8
		err := d.read(&v)
		return float64(v), err
	case "short", "int16":
		var v int16
		err := d.read(&v)
		return float64(v), err
	case "ushort", "uint16":
		var v uint16
		err := d.read(&v)
		return float64(v), err
	case "int", "int32":
		var v int32
		err := d.read(&v)
		return float64(v), err
	case "uint", "uint32":
		var v uint32
		err := d.read(&v)
		return float64(v), err
	case "float", "float32":
		var v float32
		err := d.read(&v)
		return float64(v), err
	case "double", "float64":
		var v float64
		err := d.read(&v)
		return v, err
	default:
		return 0, fmt.Errorf("unsupported property type %q", typ)
	}
}

func (d *binaryDecoder) read(v interface{}) error {
	return binary.Read(d.r, d.order, v)
}
