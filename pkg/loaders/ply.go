package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/chess-pathtracer/pkg/core"
)

// plyElement is one "element" block of a PLY header
type plyElement struct {
	Name       string
	Count      int
	Properties []plyProperty
}

// plyProperty is a scalar or list property of a PLY element
type plyProperty struct {
	Name      string
	Type      string // Scalar type, or the item type of a list
	IsList    bool
	CountType string // Type of the list length prefix
}

// plyHeader is the parsed header of a PLY file
type plyHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Elements []plyElement
}

// LoadPLY loads vertex positions and triangular faces from a PLY file
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParsePLY reads the vertex and face elements of an ASCII or binary PLY stream
func ParsePLY(reader io.Reader) (*MeshData, error) {
	r := bufio.NewReader(reader)
	header, err := parsePLYHeader(r)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &plyASCIIReader{scanner: bufio.NewScanner(r)}
	case "binary_little_endian":
		values = &plyBinaryReader{r: r, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{r: r, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format %q", header.Format)
	}

	data := &MeshData{}
	for _, element := range header.Elements {
		for i := 0; i < element.Count; i++ {
			if err := readPLYRecord(values, element, data); err != nil {
				return nil, fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}

	if err := data.validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func parsePLYHeader(r *bufio.Reader) (*plyHeader, error) {
	magic, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("not a PLY file")
	}

	header := &plyHeader{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %w", err)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 2 {
				return nil, fmt.Errorf("invalid format line %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		}
	}
}

// maxPLYListLength bounds list properties read from a file before allocating them
const maxPLYListLength = 1024

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		return plyProperty{Name: parts[3], Type: parts[2], IsList: true, CountType: parts[1]}, nil
	}
	if len(parts) >= 2 {
		return plyProperty{Name: parts[1], Type: parts[0]}, nil
	}
	return plyProperty{}, fmt.Errorf("invalid property definition %v", parts)
}

func readPLYRecord(values plyValueReader, element plyElement, data *MeshData) error {
	var vertex [3]float64
	var face []int

	for _, prop := range element.Properties {
		if prop.IsList {
			n, err := values.next(prop.CountType)
			if err != nil {
				return err
			}
			if n != math.Trunc(n) || n < 0 || n > maxPLYListLength {
				return fmt.Errorf("invalid list length %v for %s", n, prop.Name)
			}
			items := make([]int, int(n))
			for i := range items {
				v, err := values.next(prop.Type)
				if err != nil {
					return err
				}
				items[i] = int(v)
			}
			if prop.Name == "vertex_indices" || prop.Name == "vertex_index" {
				face = items
			}
			continue
		}

		v, err := values.next(prop.Type)
		if err != nil {
			return err
		}
		switch prop.Name {
		case "x":
			vertex[0] = v
		case "y":
			vertex[1] = v
		case "z":
			vertex[2] = v
		}
	}

	switch element.Name {
	case "vertex":
		data.Vertices = append(data.Vertices, core.NewVec3(vertex[0], vertex[1], vertex[2]))
	case "face":
		if len(face) != 3 {
			return fmt.Errorf("face has %d vertices: %w", len(face), ErrNonTriangularFace)
		}
		data.Faces = append(data.Faces, [3]int{face[0], face[1], face[2]})
	}
	return nil
}

// plyValueReader yields the next value of the body converted to float64
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
	fields  []string
}

func (a *plyASCIIReader) next(dataType string) (float64, error) {
	for len(a.fields) == 0 {
		if !a.scanner.Scan() {
			if err := a.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		a.fields = strings.Fields(a.scanner.Text())
	}
	field := a.fields[0]
	a.fields = a.fields[1:]
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, field)
	}
	return v, nil
}

type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinaryReader) next(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown PLY type %q", dataType)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.r, raw); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default: // double, float64
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}

func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "float", "int32", "uint32", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}
