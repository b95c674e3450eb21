package core

import "math"

// Ray represents a ray with an origin, the point it was aimed through and a unit direction.
// The direction is re-normalized whenever a ray is constructed.
type Ray struct {
	Origin    Vec3
	Target    Vec3
	Direction Vec3
}

// NewRay creates a ray from an origin along a direction. The direction is normalized.
func NewRay(origin, direction Vec3) Ray {
	direction = direction.Normalize()
	return Ray{Origin: origin, Target: origin.Add(direction), Direction: direction}
}

// NewRayThrough creates a ray starting at origin and passing through target
func NewRayThrough(origin, target Vec3) Ray {
	return Ray{Origin: origin, Target: target, Direction: target.Subtract(origin).Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Reflected returns the unit mirror direction of the ray about normal
func (r Ray) Reflected(normal Vec3) Vec3 {
	return Reflect(r.Direction, normal).Normalize()
}

// Refracted returns the refracted direction through a surface with the given normal.
// ratio is the relative index of refraction (incident over transmitted).
// The normal must face against the ray.
func (r Ray) Refracted(normal Vec3, ratio float64) Vec3 {
	return Refract(r.Direction, normal, ratio).Normalize()
}

// Reflect returns a new ray starting at start, travelling along the mirror direction
func (r Ray) Reflect(normal, start Vec3) Ray {
	return NewRay(start, r.Reflected(normal))
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n Vec3) Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract calculates the refraction of a unit vector using Snell's law
func Refract(uv, n Vec3, etaiOverEtat float64) Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}
