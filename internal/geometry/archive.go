package geometry

import "github.com/san-kum/dynfmu/internal/archive"

func (v *Vector3) ArchiveOut(a *archive.Archive) {
	a.Float64("x", &v[0])
	a.Float64("y", &v[1])
	a.Float64("z", &v[2])
}

func (q *Quaternion) ArchiveOut(a *archive.Archive) {
	a.Float64("e0", &q[0])
	a.Float64("e1", &q[1])
	a.Float64("e2", &q[2])
	a.Float64("e3", &q[3])
}

func (c *Coordsys) ArchiveOut(a *archive.Archive) {
	a.Object("pos", &c.Pos)
	a.Object("rot", &c.Rot)
}

func (f *Frame) ArchiveOut(a *archive.Archive) {
	a.Object("coord", &f.Csys)
}

func (f *FrameMoving) ArchiveOut(a *archive.Archive) {
	f.Frame.ArchiveOut(a)
	a.Object("coord_dt", &f.CsysDt)
}
