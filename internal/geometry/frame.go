package geometry

// Coordsys is a position plus a rotation.
type Coordsys struct {
	Pos Vector3
	Rot Quaternion
}

// CsysNorm is the identity coordinate system.
var CsysNorm = Coordsys{Pos: VNull, Rot: QUnit}

// Frame is a coordinate system that transforms points from its local space
// into its parent space.
type Frame struct {
	Csys Coordsys
}

func NewFrame(pos Vector3, rot Quaternion) Frame {
	return Frame{Csys: Coordsys{Pos: pos, Rot: rot}}
}

// IdentityFrame returns a frame at the origin with no rotation.
func IdentityFrame() Frame { return Frame{Csys: CsysNorm} }

func (f Frame) Pos() Vector3    { return f.Csys.Pos }
func (f Frame) Rot() Quaternion { return f.Csys.Rot }

// Mul composes two frames: the result maps points of local's space through
// local and then through f.
func (f Frame) Mul(local Frame) Frame {
	return Frame{Csys: Coordsys{
		Pos: f.Csys.Pos.Add(f.Csys.Rot.Rotate(local.Csys.Pos)),
		Rot: f.Csys.Rot.Mul(local.Csys.Rot),
	}}
}

// TransformPointLocalToParent maps p from local coordinates into the parent.
func (f Frame) TransformPointLocalToParent(p Vector3) Vector3 {
	return f.Csys.Pos.Add(f.Csys.Rot.Rotate(p))
}

// FrameMoving is a frame with its first time derivative.
type FrameMoving struct {
	Frame
	CsysDt Coordsys
}

func NewFrameMoving(pos Vector3, rot Quaternion) FrameMoving {
	return FrameMoving{
		Frame:  NewFrame(pos, rot),
		CsysDt: Coordsys{Rot: Quaternion{}},
	}
}

func (f FrameMoving) PosDt() Vector3 { return f.CsysDt.Pos }

// AngVelParent returns the angular velocity expressed in the parent frame,
// recovered from the rotation derivative as 2 * rot_dt * conj(rot).
func (f FrameMoving) AngVelParent() Vector3 {
	w := f.CsysDt.Rot.Mul(f.Csys.Rot.Conjugate())
	return Vector3{2 * w[1], 2 * w[2], 2 * w[3]}
}

// SetAngVelParent sets the rotation derivative that corresponds to w.
func (f *FrameMoving) SetAngVelParent(w Vector3) {
	f.CsysDt.Rot = f.Csys.Rot.Derivative(w)
}
