package cosim

import (
	"errors"

	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/geometry"
)

var (
	vectorComponents     = [3]string{"x", "y", "z"}
	quaternionComponents = [4]string{"e0", "e1", "e2", "e3"}
)

func expandReals(r *fmu.Registry, xs []float64, comps []string, name, unit, description string, c fmu.Causality, v fmu.Variability) error {
	var errs []error
	for i, comp := range comps {
		_, err := r.Register(name+"."+comp, fmu.Pointer(&xs[i]), fmu.Meta{
			Unit:        unit,
			Description: description + " (" + comp + ")",
			Causality:   c,
			Variability: v,
		})
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ExpandVector3 registers name.x, name.y and name.z bound to the components
// of v.
func ExpandVector3(r *fmu.Registry, v *geometry.Vector3, name, unit, description string, c fmu.Causality, va fmu.Variability) error {
	return expandReals(r, v[:], vectorComponents[:], name, unit, description, c, va)
}

// ExpandQuaternion registers name.e0 to name.e3 with unit "1".
func ExpandQuaternion(r *fmu.Registry, q *geometry.Quaternion, name, description string, c fmu.Causality, va fmu.Variability) error {
	return expandReals(r, q[:], quaternionComponents[:], name, "1", description, c, va)
}

// ExpandCoordsys registers name.pos and name.rot.
func ExpandCoordsys(r *fmu.Registry, cs *geometry.Coordsys, name, unit, description string, c fmu.Causality, va fmu.Variability) error {
	return errors.Join(
		ExpandVector3(r, &cs.Pos, name+".pos", unit, description+" position", c, va),
		ExpandQuaternion(r, &cs.Rot, name+".rot", description+" orientation", c, va),
	)
}

func ExpandFrame(r *fmu.Registry, f *geometry.Frame, name, unit, description string, c fmu.Causality, va fmu.Variability) error {
	return ExpandCoordsys(r, &f.Csys, name, unit, description, c, va)
}

// ExpandMovingFrame registers the pose of f like ExpandFrame plus its time
// derivative under name.pos_dt and name.rot_dt.
func ExpandMovingFrame(r *fmu.Registry, f *geometry.FrameMoving, name, unit, unitDt, description string, c fmu.Causality, va fmu.Variability) error {
	return errors.Join(
		ExpandCoordsys(r, &f.Csys, name, unit, description, c, va),
		ExpandVector3(r, &f.CsysDt.Pos, name+".pos_dt", unitDt, description+" position derivative", c, va),
		ExpandQuaternion(r, &f.CsysDt.Rot, name+".rot_dt", description+" orientation derivative", c, va),
	)
}
