package material

import "github.com/df07/chess-pathtracer/pkg/core"

type stubSurface struct {
	material Material
}

func (s stubSurface) Material() Material { return s.material }

func hitAt(point, normal core.Vec3, frontFace bool, m Material) HitPayload {
	return HitPayload{
		Distance:  1.0,
		Point:     point,
		Normal:    normal,
		FrontFace: frontFace,
		Surface:   stubSurface{material: m},
	}
}
