package scenegraph

import (
	"sync/atomic"

	"github.com/akmonengine/scenegraph/spatial"
)

const DEFAULT_WORKERS = 1

type Scene struct {
	// Root of the entity tree, created by NewScene
	Root *Entity
	// Camera the frustum is rebuilt from every frame
	Camera spatial.Camera
	// Culling gates the draw walk with the camera frustum
	Culling bool
	// Workers is the number of goroutines updating the root's subtrees
	Workers int

	Events Events
}

// FrameStats summarizes one call to Frame
type FrameStats struct {
	// Updated is the number of recomputed world matrices
	Updated int
	DrawStats
}

// NewScene creates a scene with an empty root entity and culling enabled
func NewScene(camera spatial.Camera) *Scene {
	return &Scene{
		Root:    NewEntity(nil),
		Camera:  camera,
		Culling: true,
		Workers: DEFAULT_WORKERS,
		Events:  NewEvents(),
	}
}

// Frame runs one frame: world matrices update, frustum culling, draw submission,
// then buffered events are sent to their listeners
func (s *Scene) Frame(shader Shader) FrameStats {
	s.Events.init()

	var stats FrameStats
	if s.Root == nil {
		s.Events.flush()
		return stats
	}

	stats.Updated = s.Update()

	var frustum *spatial.Frustum
	if s.Culling {
		f := s.Camera.Frustum()
		frustum = &f
	}
	s.Root.drawSelfAndChild(shader, frustum, &stats.DrawStats, s.Events.recordVisible)

	s.Events.flush()

	return stats
}

// Update refreshes the world matrices of the tree.
// The root is updated first, then its children subtrees are split between Workers goroutines.
func (s *Scene) Update() int {
	s.Workers = max(DEFAULT_WORKERS, s.Workers)
	root := s.Root
	if root == nil {
		return 0
	}
	if s.Workers == 1 || len(root.children) < 2 {
		return root.UpdateSelfAndChild()
	}

	var updated atomic.Int64
	force := false
	if root.Transform.IsDirty() {
		root.computeWorldMatrix()
		force = true
		updated.Add(1)
	}

	// sibling subtrees share no state: only their common parent is read
	task(s.Workers, root.children, func(child *Entity) {
		updated.Add(int64(child.updateSelfAndChild(force)))
	})

	return int(updated.Load())
}

// Visible returns the entities inside the camera frustum, in pre-order.
// The world matrices must be up to date. Entities of a culled CullSubtree entity are skipped.
func (s *Scene) Visible() []*Entity {
	s.Workers = max(DEFAULT_WORKERS, s.Workers)
	if s.Root == nil {
		return nil
	}

	frustum := s.Camera.Frustum()

	var entities []*Entity
	index := make(map[*Entity]int)
	s.Root.Walk(func(entity *Entity) bool {
		index[entity] = len(entities)
		entities = append(entities, entity)
		return true
	})

	indices := make([]int, len(entities))
	for i := range indices {
		indices[i] = i
	}
	visible := make([]bool, len(entities))
	task(s.Workers, indices, func(i int) {
		visible[i] = entities[i].IsVisible(&frustum)
	})

	result := make([]*Entity, 0, len(entities))
	s.Root.Walk(func(entity *Entity) bool {
		if visible[index[entity]] {
			result = append(result, entity)
			return true
		}
		return !entity.CullSubtree
	})

	return result
}

// Remove destroys the entity and its subtree, sending an EntityDestroyedEvent for each
// released entity at the next flush. The root cannot be removed.
func (s *Scene) Remove(entity *Entity) int {
	if entity == nil || entity == s.Root {
		return 0
	}
	s.Events.init()

	return entity.Destroy(func(released *Entity) {
		s.Events.forget(released)
		s.Events.emitDestroyed(released)
	})
}

// Bounds returns the world box enclosing every entity of the tree.
// The world matrices must be up to date.
func (s *Scene) Bounds() spatial.AABB {
	if s.Root == nil {
		return spatial.EmptyAABB()
	}

	return s.Root.SubtreeBounds()
}

// Count returns the number of entities in the tree, root included
func (s *Scene) Count() int {
	if s.Root == nil {
		return 0
	}

	count := 0
	s.Root.Walk(func(*Entity) bool {
		count++
		return true
	})

	return count
}
