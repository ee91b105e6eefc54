// Package form3 builds closed primitive meshes and shapes them with pattern
// points. Constructors in must3 panic on bad input; the ones here return it
// as an error.
package form3

import (
	"runtime/debug"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Icosphere returns a subdivided icosahedron of the given radius.
func Icosphere(radius float64, subdivisions int, center r3.Vec) (m *brane.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Icosphere(radius, subdivisions, center), err
}

// Torus returns a torus about the Z axis.
func Torus(major, minor float64, segments, ringSegments int) (m *brane.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Torus(major, minor, segments, ringSegments), err
}

// Cube returns an axis aligned cube.
func Cube(size float64, center r3.Vec) (m *brane.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Cube(size, center), err
}

// HexPrism returns a hexagonal prism about the Z axis.
func HexPrism(radius, height float64, center r3.Vec) (m *brane.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.HexPrism(radius, height, center), err
}

// Pyramid returns a pyramid with a regular polygon base.
func Pyramid(baseRadius, height float64, sides int, center r3.Vec) (m *brane.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Pyramid(baseRadius, height, sides, center), err
}

// Cone approximates a cone with a 32 sided pyramid.
func Cone(baseRadius, height float64, center r3.Vec) (*brane.Mesh, error) {
	return Pyramid(baseRadius, height, 32, center)
}

// Helix returns a tube swept along a helix.
func Helix(p must3.HelixParms) (m *brane.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Helix(p), err
}
