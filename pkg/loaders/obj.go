package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/chess-pathtracer/pkg/core"
)

// LoadOBJ loads vertex positions and triangular faces from a Wavefront OBJ file
func LoadOBJ(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads "v" and "f" records; every other record is ignored.
// Face indices are 1-based in the file (negative values count back from the last vertex).
func ParseOBJ(reader io.Reader) (*MeshData, error) {
	data := &MeshData{}
	scanner := bufio.NewScanner(reader)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			vertex, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			data.Vertices = append(data.Vertices, vertex)
		case "f":
			face, err := parseOBJFace(fields[1:], len(data.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			data.Faces = append(data.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	if err := data.validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func parseOBJVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var coords [3]float64
	for i := range coords {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid vertex coordinate %q: %w", fields[i], err)
		}
		coords[i] = value
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

func parseOBJFace(fields []string, numVertices int) ([3]int, error) {
	if len(fields) != 3 {
		return [3]int{}, fmt.Errorf("face has %d vertices: %w", len(fields), ErrNonTriangularFace)
	}

	var face [3]int
	for i, field := range fields {
		// v, v/vt, v//vn and v/vt/vn all start with the position index
		token, _, _ := strings.Cut(field, "/")
		index, err := strconv.Atoi(token)
		if err != nil {
			return [3]int{}, fmt.Errorf("invalid face index %q: %w", field, err)
		}
		if index < 0 {
			face[i] = numVertices + index
		} else {
			face[i] = index - 1
		}
	}
	return face, nil
}
