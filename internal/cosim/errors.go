package cosim

import "errors"

var (
	// ErrUnknownShape indicates a shape type with no visual counterpart.
	ErrUnknownShape = errors.New("cosim: unknown shape type")

	// ErrUnknownBody indicates a link end that names no body.
	ErrUnknownBody = errors.New("cosim: unknown body")

	// ErrUnknownLink indicates a link type the physics system cannot build.
	ErrUnknownLink = errors.New("cosim: unknown link type")
)
