package geometry

import "math"

// Vector3 is a 3D vector. The array layout lets callers bind each component
// by address.
type Vector3 [3]float64

var (
	VNull = Vector3{0, 0, 0}
	VX    = Vector3{1, 0, 0}
	VY    = Vector3{0, 1, 0}
	VZ    = Vector3{0, 0, 1}
)

func Vec(x, y, z float64) Vector3 { return Vector3{x, y, z} }

func (v Vector3) X() float64 { return v[0] }
func (v Vector3) Y() float64 { return v[1] }
func (v Vector3) Z() float64 { return v[2] }

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vector3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector along v, or v itself when its length is zero.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v Vector3) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
