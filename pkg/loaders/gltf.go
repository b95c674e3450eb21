package loaders

import (
	"fmt"
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/qmuntal/gltf"
)

// LoadGLTF loads the triangle primitives of every mesh in a glTF or GLB file
func LoadGLTF(filename string) (*MeshData, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	data, err := ReadGLTFDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadGLTFDocument merges all triangle primitives of doc into one mesh.
// Node transforms are not applied.
func ReadGLTFDocument(doc *gltf.Document) (*MeshData, error) {
	data := &MeshData{}
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if err := readGLTFPrimitive(doc, prim, data); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
		}
	}

	if err := data.validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func readGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, data *MeshData) error {
	// Skip lines, points and strips
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := readGLTFPositions(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	base := len(data.Vertices)
	data.Vertices = append(data.Vertices, positions...)

	var indices []int
	if prim.Indices != nil {
		indices, err = readGLTFIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// Unindexed primitives list their triangles vertex by vertex
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	if len(indices)%3 != 0 {
		return fmt.Errorf("%d indices: %w", len(indices), ErrNonTriangularFace)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		data.Faces = append(data.Faces, [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]})
	}
	return nil
}

// gltfBufferView returns the bytes an accessor reads from and its element stride
func gltfBufferView(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) || doc.BufferViews[*accessor.BufferView] == nil {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) || doc.Buffers[view.Buffer] == nil {
		return nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buffer := doc.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}
	if accessor.Count < 0 || view.ByteOffset < 0 || accessor.ByteOffset < 0 {
		return nil, 0, fmt.Errorf("negative accessor count or offset")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}

	start := view.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + elementSize
	if accessor.Count == 0 {
		end = start
	}
	if start > len(buffer.Data) || end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

// gltfAccessor returns the accessor at idx
func gltfAccessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func readGLTFPositions(doc *gltf.Document, accessorIdx int) ([]core.Vec3, error) {
	accessor, err := gltfAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	buf, stride, err := gltfBufferView(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	positions := make([]core.Vec3, accessor.Count)
	for i := range positions {
		offset := i * stride
		positions[i] = core.NewVec3(
			readFloat32(buf[offset:]),
			readFloat32(buf[offset+4:]),
			readFloat32(buf[offset+8:]),
		)
	}
	return positions, nil
}

func readGLTFIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := gltfAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", accessor.ComponentType)
	}

	buf, stride, err := gltfBufferView(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	indices := make([]int, accessor.Count)
	for i := range indices {
		b := buf[i*stride:]
		switch size {
		case 1:
			indices[i] = int(b[0])
		case 2:
			indices[i] = int(uint16(b[0]) | uint16(b[1])<<8)
		case 4:
			indices[i] = int(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
		}
	}
	return indices, nil
}

// readFloat32 reads a little-endian float32
func readFloat32(b []byte) float64 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return float64(math.Float32frombits(bits))
}
