// Package cosim binds a physics system into an FMU.
//
// A [Serializer] walks objects that write themselves to an archive and
// registers one variable per scalar. Object members are joined with '.'
// and array elements with brackets:
//
//	sys.bodies[0].frame.coord.pos.x
//
// The expanders ([ExpandVector3], [ExpandQuaternion], [ExpandCoordsys],
// [ExpandFrame], [ExpandMovingFrame]) register geometry values directly
// under a chosen name.
//
// A [ShapeProjector] exposes every visual shape as a VISUALIZER[k] group:
//
//	VISUALIZER[k].frame.pos.{x,y,z}      world position of the shape
//	VISUALIZER[k].frame.rot.{e0,...,e3}  world orientation of the shape
//	VISUALIZER[k].shape.type             shape tag, e.g. ChVisualShapeBox
//	VISUALIZER[k].shape.owner_id         identifier of the owning item
//	VISUALIZER[k].shape.owner            name of the owning item, if any
//	VISUALIZER[k].shape.<member>         shape parameters
//
// World frames are computed on first read in each step and cached until the
// component epoch advances.
//
// [Component] ties these together for a scene described by a
// [config.Config].
package cosim
