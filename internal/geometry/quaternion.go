package geometry

import "math"

// Quaternion stores e0 (scalar part) followed by e1, e2, e3.
type Quaternion [4]float64

// QUnit is the identity rotation.
var QUnit = Quaternion{1, 0, 0, 0}

func Quat(e0, e1, e2, e3 float64) Quaternion { return Quaternion{e0, e1, e2, e3} }

// QuatFromAngleAxis builds a rotation of angle radians about axis.
func QuatFromAngleAxis(angle float64, axis Vector3) Quaternion {
	a := axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quaternion{c, a[0] * s, a[1] * s, a[2] * s}
}

func (q Quaternion) E0() float64 { return q[0] }
func (q Quaternion) E1() float64 { return q[1] }
func (q Quaternion) E2() float64 { return q[2] }
func (q Quaternion) E3() float64 { return q[3] }

// Mul returns the Hamilton product q*o, i.e. rotation o followed by q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		q[0]*o[0] - q[1]*o[1] - q[2]*o[2] - q[3]*o[3],
		q[0]*o[1] + q[1]*o[0] + q[2]*o[3] - q[3]*o[2],
		q[0]*o[2] - q[1]*o[3] + q[2]*o[0] + q[3]*o[1],
		q[0]*o[3] + q[1]*o[2] - q[2]*o[1] + q[3]*o[0],
	}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q[0], -q[1], -q[2], -q[3]}
}

func (q Quaternion) Length() float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

func (q Quaternion) Normalize() Quaternion {
	l := q.Length()
	if l == 0 {
		return QUnit
	}
	return Quaternion{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Rotate applies the rotation q to v. q is assumed to be normalized.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	u := Vector3{q[1], q[2], q[3]}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q[0])).Add(u.Cross(t))
}

// Derivative returns dq/dt for angular velocity w expressed in the absolute frame.
func (q Quaternion) Derivative(w Vector3) Quaternion {
	d := Quaternion{0, w[0], w[1], w[2]}.Mul(q)
	return Quaternion{d[0] / 2, d[1] / 2, d[2] / 2, d[3] / 2}
}

// Integrate advances q by angular velocity w over dt and renormalizes.
func (q Quaternion) Integrate(w Vector3, dt float64) Quaternion {
	angle := w.Length() * dt
	if angle == 0 {
		return q
	}
	return QuatFromAngleAxis(angle, w).Mul(q).Normalize()
}
