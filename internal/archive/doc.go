// Package archive defines the "archive out" protocol used to walk an object
// graph of named values.
//
// Objects implement [Serializable] and describe their members by calling the
// typed writers of an [Archive]:
//
//	func (b *Body) ArchiveOut(a *archive.Archive) {
//	    a.String("name", &b.Name)
//	    a.Float64("mass", &b.Mass, archive.Parameter())
//	    a.Object("frame", &b.Frame)
//	}
//
// The [Archive] forwards every value to a [Sink], which decides what to do
// with it (write a file, build a variable table, ...). The archive keeps a
// visited set of object identities so that shared references and cycles are
// reported to the sink as already inserted rather than walked twice.
package archive
