package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/material"
	"github.com/df07/chess-pathtracer/pkg/scene"
)

// InspectResponse represents the response from the inspect endpoint
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point,omitempty"`
	Normal       [3]float64             `json:"normal,omitempty"`
	Distance     float64                `json:"distance,omitempty"`
	FrontFace    bool                   `json:"frontFace,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo extracts material type and properties
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["fuzz"] = m.Fuzz
		properties["color"] = hexColor(m.Albedo)
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["albedo"] = vecArray(m.Albedo)
		properties["transparency"] = vecArray(m.Transparency)
		properties["color"] = hexColor(m.Albedo)
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(surface material.Surface) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := surface.(type) {
	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vecArray(geom.A), vecArray(geom.B), vecArray(geom.C)}
		properties["normal"] = vecArray(geom.Normal())
		return "triangle", properties

	case *geometry.TriangleMesh:
		bounds := geom.Bounds()
		properties["faces"] = geom.NumFaces()
		properties["vertices"] = len(geom.Vertices())
		properties["smooth"] = geom.Smooth
		properties["boundsMin"] = vecArray(bounds.Min)
		properties["boundsMax"] = vecArray(bounds.Max)
		return "mesh", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the ray through the center of a pixel and returns the first hit.
// Row 0 is the top of the image.
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) material.HitPayload {
	sampling := sceneObj.SamplingConfig
	xNorm := (float64(pixelX)+0.5)/float64(sampling.Width) - 0.5
	yNorm := (float64(sampling.Height-1-pixelY)+0.5)/float64(sampling.Height) - 0.5
	return sceneObj.Intersect(sceneObj.Camera.GetRay(xNorm, yNorm))
}

// handleInspect reports what the camera sees through a single pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, status, err := s.buildScene(req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	hit := inspectPixel(sceneObj, pixelX, pixelY)
	if !hit.IsHit() {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material())
	geometryType, geometryProps := extractGeometryInfo(hit.Surface)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.Distance,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a color with components in [0, 1] as #rrggbb
func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.X), channelByte(c.Y), channelByte(c.Z))
}

func channelByte(v float64) int {
	return int(max(0, min(1, v))*255 + 0.5)
}
