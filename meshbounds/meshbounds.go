// Package meshbounds derives local bounding volumes from glTF meshes.
package meshbounds

import (
	"errors"
	"fmt"
	"io"

	"github.com/akmonengine/scenegraph/spatial"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var (
	ErrMeshNotFound = errors.New("mesh not found")
	ErrNoPositions  = errors.New("mesh has no vertex positions")
)

// Decode reads a glTF document. Buffers must be embedded (GLB or data URIs).
func Decode(r io.Reader) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding glTF: %w", err)
	}

	return doc, nil
}

// Open reads a .gltf or .glb file, resolving external buffers relative to it
func Open(path string) (*gltf.Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF %s: %w", path, err)
	}

	return doc, nil
}

// MeshIndex looks a mesh up by name
func MeshIndex(doc *gltf.Document, name string) (int, error) {
	for i, mesh := range doc.Meshes {
		if mesh.Name == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("mesh %q: %w", name, ErrMeshNotFound)
}

// MeshAABB returns the box enclosing the POSITION attribute of every primitive of the mesh
func MeshAABB(doc *gltf.Document, meshIndex int) (spatial.AABB, error) {
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return spatial.AABB{}, fmt.Errorf("mesh %d: %w", meshIndex, ErrMeshNotFound)
	}

	aabb := spatial.EmptyAABB()
	for i, primitive := range doc.Meshes[meshIndex].Primitives {
		accessorIndex, ok := primitive.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if int(accessorIndex) >= len(doc.Accessors) {
			return spatial.AABB{}, fmt.Errorf("mesh %d primitive %d: position accessor %d out of range", meshIndex, i, accessorIndex)
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[accessorIndex], nil)
		if err != nil {
			return spatial.AABB{}, fmt.Errorf("mesh %d primitive %d: reading positions: %w", meshIndex, i, err)
		}

		for _, p := range positions {
			aabb = aabb.ExpandByPoint(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		}
	}

	if aabb.IsEmpty() {
		return spatial.AABB{}, fmt.Errorf("mesh %d: %w", meshIndex, ErrNoPositions)
	}

	return aabb, nil
}

// MeshSphere returns the sphere circumscribing MeshAABB
func MeshSphere(doc *gltf.Document, meshIndex int) (*spatial.Sphere, error) {
	aabb, err := MeshAABB(doc, meshIndex)
	if err != nil {
		return nil, err
	}

	return spatial.BoundingSphere(aabb), nil
}

// MeshBox returns the box matching MeshAABB
func MeshBox(doc *gltf.Document, meshIndex int) (*spatial.Box, error) {
	aabb, err := MeshAABB(doc, meshIndex)
	if err != nil {
		return nil, err
	}

	return spatial.BoundingBox(aabb), nil
}
