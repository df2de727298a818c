package scenefile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/akmonengine/scenegraph"
	"github.com/akmonengine/scenegraph/meshbounds"
	"github.com/akmonengine/scenegraph/spatial"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"golang.org/x/sync/errgroup"
)

var defaultUp = mgl64.Vec3{0, 1, 0}

type builder struct {
	desc        *Description
	renderables map[string]scenegraph.Renderable
	documents   map[string]*gltf.Document
}

// Build creates the scene. Renderable names are resolved in renderables; several entities
// may share the same Renderable.
func (d *Description) Build(renderables map[string]scenegraph.Renderable) (*scenegraph.Scene, error) {
	camera, err := d.Camera.camera()
	if err != nil {
		return nil, err
	}
	if d.Workers < 0 {
		return nil, fmt.Errorf("%w: negative workers count %d", ErrInvalid, d.Workers)
	}

	scene := scenegraph.NewScene(camera)
	if d.Culling != nil {
		scene.Culling = *d.Culling
	}
	scene.Workers = max(scenegraph.DEFAULT_WORKERS, d.Workers)

	b := &builder{
		desc:        d,
		renderables: renderables,
		documents:   make(map[string]*gltf.Document),
	}
	if err := b.loadMeshes(scene.Workers); err != nil {
		return nil, err
	}
	if err := b.entity(scene.Root, &d.Root, "root"); err != nil {
		return nil, err
	}
	if err := checkCullSubtrees(scene); err != nil {
		return nil, err
	}

	return scene, nil
}

func (c CameraDescription) camera() (spatial.Camera, error) {
	switch {
	case c.Fov <= 0 || c.Fov >= 180:
		return spatial.Camera{}, fmt.Errorf("%w: camera fov %v out of (0, 180)", ErrInvalid, c.Fov)
	case c.Aspect <= 0:
		return spatial.Camera{}, fmt.Errorf("%w: camera aspect %v", ErrInvalid, c.Aspect)
	case c.Near <= 0 || c.Far <= c.Near:
		return spatial.Camera{}, fmt.Errorf("%w: camera near %v / far %v", ErrInvalid, c.Near, c.Far)
	}

	up := c.WorldUp()
	if up.Len() == 0 {
		return spatial.Camera{}, fmt.Errorf("%w: camera up vector is zero", ErrInvalid)
	}

	fovY := mgl64.DegToRad(c.Fov)
	var camera spatial.Camera
	if c.Target != nil {
		if *c.Target == c.Position {
			return spatial.Camera{}, fmt.Errorf("%w: camera target equals its position", ErrInvalid)
		}
		camera = spatial.NewCameraLookAt(c.Position, *c.Target, up, fovY, c.Aspect, c.Near, c.Far)
	} else {
		camera = spatial.NewCameraYawPitch(c.Position, c.Yaw, c.Pitch, up, fovY, c.Aspect, c.Near, c.Far)
	}

	// a view direction along up leaves the right axis undefined
	if camera.Forward.Cross(up.Normalize()).Len() < 1e-6 {
		return spatial.Camera{}, fmt.Errorf("%w: camera looks along its up vector %v", ErrInvalid, up)
	}

	return camera, nil
}

// WorldUp returns the up vector the camera is oriented with, (0, 1, 0) by default
func (c CameraDescription) WorldUp() mgl64.Vec3 {
	if c.Up != nil {
		return *c.Up
	}

	return defaultUp
}

func (b *builder) entity(entity *scenegraph.Entity, desc *EntityDescription, path string) error {
	if desc.Name != "" {
		path = desc.Name
	}
	entity.Name = desc.Name

	if desc.Renderable != "" {
		renderable, ok := b.renderables[desc.Renderable]
		if !ok {
			return fmt.Errorf("entity %q: %w: unknown renderable %q", path, ErrInvalid, desc.Renderable)
		}
		entity.Renderable = renderable
	}

	entity.Transform.SetPosition(desc.Position)
	if desc.Rotation != nil {
		axis := mgl64.Vec3(desc.Rotation.Axis)
		if axis.Len() == 0 {
			return fmt.Errorf("entity %q: %w: zero rotation axis", path, ErrInvalid)
		}
		entity.Transform.SetRotation(mgl64.QuatRotate(mgl64.DegToRad(desc.Rotation.Angle), axis.Normalize()))
	}
	if desc.Scale != nil {
		entity.Transform.SetScale(*desc.Scale)
	}

	if desc.Volume != nil {
		volume, err := b.volume(desc.Volume)
		if err != nil {
			return fmt.Errorf("entity %q: %w", path, err)
		}
		entity.Volume = volume
	}
	entity.CullSubtree = desc.CullSubtree

	for i := range desc.Children {
		child := entity.AddChild(nil)
		if err := b.entity(child, &desc.Children[i], fmt.Sprintf("%s/%d", path, i)); err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) volume(desc *VolumeDescription) (spatial.Volume, error) {
	switch desc.Kind {
	case "sphere":
		if desc.Radius < 0 {
			return nil, fmt.Errorf("%w: negative sphere radius %v", ErrInvalid, desc.Radius)
		}
		return &spatial.Sphere{Center: desc.Center, Radius: desc.Radius}, nil
	case "box":
		for _, h := range desc.HalfExtents {
			if h < 0 {
				return nil, fmt.Errorf("%w: negative box half extents %v", ErrInvalid, desc.HalfExtents)
			}
		}
		return &spatial.Box{Center: desc.Center, HalfExtents: desc.HalfExtents}, nil
	case "capsule":
		if desc.Radius < 0 || desc.HalfHeight < 0 {
			return nil, fmt.Errorf("%w: negative capsule radius %v or half height %v", ErrInvalid, desc.Radius, desc.HalfHeight)
		}
		return &spatial.Capsule{Center: desc.Center, HalfHeight: desc.HalfHeight, Radius: desc.Radius}, nil
	case "mesh":
		return b.meshVolume(desc)
	default:
		return nil, fmt.Errorf("%w: unknown volume kind %q", ErrInvalid, desc.Kind)
	}
}

// checkCullSubtrees rejects a cull_subtree entity whose volume does not enclose its children:
// culling it would hide descendants that are in view
func checkCullSubtrees(scene *scenegraph.Scene) error {
	scene.Root.UpdateSelfAndChild()

	var err error
	scene.Root.Walk(func(entity *scenegraph.Entity) bool {
		if err == nil && entity.CullSubtree && !entity.EnclosesChildren() {
			err = fmt.Errorf("entity %q: %w: cull_subtree volume %v does not enclose its children %v",
				entity.Name, ErrInvalid, entity.Bounds(), entity.SubtreeBounds())
		}
		return err == nil
	})

	return err
}

// loadMeshes decodes every glTF file referenced by a mesh volume once, with up to workers
// files decoded concurrently
func (b *builder) loadMeshes(workers int) error {
	paths := make(map[string]bool)
	var collect func(desc *EntityDescription)
	collect = func(desc *EntityDescription) {
		if desc.Volume != nil && desc.Volume.Kind == "mesh" && desc.Volume.Mesh != "" {
			paths[b.meshPath(desc.Volume.Mesh)] = true
		}
		for i := range desc.Children {
			collect(&desc.Children[i])
		}
	}
	collect(&b.desc.Root)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)
	for path := range paths {
		path := path
		g.Go(func() error {
			doc, err := meshbounds.Open(path)
			if err != nil {
				return err
			}

			mu.Lock()
			b.documents[path] = doc
			mu.Unlock()

			return nil
		})
	}

	return g.Wait()
}

func (b *builder) meshPath(mesh string) string {
	if filepath.IsAbs(mesh) {
		return mesh
	}

	return filepath.Join(b.desc.BaseDir, mesh)
}

func (b *builder) meshVolume(desc *VolumeDescription) (spatial.Volume, error) {
	if desc.Mesh == "" {
		return nil, fmt.Errorf("%w: mesh volume without mesh file", ErrInvalid)
	}
	doc := b.documents[b.meshPath(desc.Mesh)]

	meshIndex := 0
	if desc.MeshName != "" {
		var err error
		if meshIndex, err = meshbounds.MeshIndex(doc, desc.MeshName); err != nil {
			return nil, err
		}
	}

	switch desc.Shape {
	case "", "sphere":
		return meshbounds.MeshSphere(doc, meshIndex)
	case "box":
		return meshbounds.MeshBox(doc, meshIndex)
	default:
		return nil, fmt.Errorf("%w: unknown mesh volume shape %q", ErrInvalid, desc.Shape)
	}
}
