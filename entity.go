package scenegraph

import "github.com/akmonengine/scenegraph/spatial"

// Entity is a scene graph node.
// It owns its Transform, its optional Volume and its children; the parent link is a
// back-reference used for transform lookups only. Tree edits must not happen during a walk.
type Entity struct {
	Name string

	// Transform is relative to the parent entity
	Transform spatial.Transform
	// Volume bounds the entity in local space. Entities without volume are never culled.
	Volume spatial.Volume
	// Renderable is not owned by the entity. Entities without one only group their children.
	Renderable Renderable
	// CullSubtree skips the children too when the Volume is outside the frustum.
	// Only set it when the Volume encloses the whole subtree.
	CullSubtree bool

	parent    *Entity
	children  []*Entity
	destroyed bool
}

// DrawStats counts the entities walked by DrawSelfAndChild
type DrawStats struct {
	Visited int
	Drawn   int
	Culled  int
}

// NewEntity creates a root entity with an identity transform
func NewEntity(renderable Renderable) *Entity {
	return &Entity{
		Transform:  spatial.NewTransform(),
		Renderable: renderable,
	}
}

// AddChild creates a child entity owned by e
func (e *Entity) AddChild(renderable Renderable) *Entity {
	child := NewEntity(renderable)
	child.parent = e
	e.children = append(e.children, child)

	return child
}

// Attach moves child, with its subtree, under e.
// It returns false when the move would break the tree: attaching e under itself or
// one of its descendants, or attaching a destroyed entity.
func (e *Entity) Attach(child *Entity) bool {
	if child == nil || child.destroyed || e.destroyed {
		return false
	}
	for ancestor := e; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == child {
			return false
		}
	}

	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	child.MarkDirty()

	return true
}

// RemoveChild detaches and destroys one of e's children
func (e *Entity) RemoveChild(child *Entity) bool {
	if child == nil || child.parent != e {
		return false
	}
	child.Destroy(nil)

	return true
}

func (e *Entity) detach(child *Entity) {
	k := -1
	for i, c := range e.children {
		if c == child {
			k = i
			break
		}
	}

	if k != -1 {
		e.children = append(e.children[:k], e.children[k+1:]...)
	}
	child.parent = nil
}

// Destroy detaches e from its parent and releases its whole subtree, children first.
// onRelease, when not nil, is called exactly once per released entity.
// It returns the number of released entities; destroying twice releases nothing.
func (e *Entity) Destroy(onRelease func(entity *Entity)) int {
	if e.destroyed {
		return 0
	}
	if e.parent != nil {
		e.parent.detach(e)
	}

	return e.destroy(onRelease)
}

func (e *Entity) destroy(onRelease func(entity *Entity)) int {
	released := 0
	for _, child := range e.children {
		released += child.destroy(onRelease)
	}

	if onRelease != nil {
		onRelease(e)
	}

	e.children = nil
	e.parent = nil
	e.Volume = nil
	e.Renderable = nil
	e.destroyed = true

	return released + 1
}

func (e *Entity) IsDestroyed() bool {
	return e.destroyed
}

func (e *Entity) Parent() *Entity {
	return e.parent
}

// Children returns the owned children. The slice must not be modified.
func (e *Entity) Children() []*Entity {
	return e.children
}

func (e *Entity) Root() *Entity {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Depth is 0 for a root entity
func (e *Entity) Depth() int {
	depth := 0
	for p := e.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Walk visits the subtree in pre-order. Returning false from fn skips the entity's children.
func (e *Entity) Walk(fn func(entity *Entity) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.children {
		child.Walk(fn)
	}
}

// MarkDirty forces the world matrices of e and its subtree to be recomputed on the next update
func (e *Entity) MarkDirty() {
	e.Walk(func(entity *Entity) bool {
		entity.Transform.MarkDirty()
		return true
	})
}

// UpdateSelfAndChild refreshes the world matrices of the subtree, parents before children.
// A world matrix is recomputed when its transform is dirty or when an ancestor's was recomputed
// during this walk, so it must be called from the root. It returns the number of recomputed matrices.
func (e *Entity) UpdateSelfAndChild() int {
	return e.updateSelfAndChild(false)
}

// ForceUpdateSelfAndChild recomputes every world matrix of the subtree
func (e *Entity) ForceUpdateSelfAndChild() int {
	return e.updateSelfAndChild(true)
}

func (e *Entity) updateSelfAndChild(force bool) int {
	updated := 0
	if force || e.Transform.IsDirty() {
		e.computeWorldMatrix()
		force = true
		updated++
	}

	for _, child := range e.children {
		updated += child.updateSelfAndChild(force)
	}

	return updated
}

func (e *Entity) computeWorldMatrix() {
	if e.parent != nil {
		e.Transform.ComputeWorldMatrix(e.parent.Transform.WorldMatrix())
	} else {
		e.Transform.ComputeLocalWorldMatrix()
	}
}

// IsVisible tests the entity's Volume against the frustum with the cached world matrix.
// A nil frustum or a missing Volume always counts as visible.
func (e *Entity) IsVisible(frustum *spatial.Frustum) bool {
	if frustum == nil || e.Volume == nil {
		return true
	}

	return e.Volume.IsOnFrustum(frustum, &e.Transform)
}

// Bounds returns the world box of the entity's Volume, or its world origin without Volume.
// The world matrix must be up to date.
func (e *Entity) Bounds() spatial.AABB {
	if e.Volume == nil {
		origin := e.Transform.WorldPosition()
		return spatial.AABB{Min: origin, Max: origin}
	}

	return e.Volume.Bounds(&e.Transform)
}

// SubtreeBounds returns the world box enclosing the Bounds of e and all its descendants
func (e *Entity) SubtreeBounds() spatial.AABB {
	bounds := spatial.EmptyAABB()
	e.Walk(func(entity *Entity) bool {
		bounds = bounds.Union(entity.Bounds())
		return true
	})

	return bounds
}

// EnclosesChildren reports whether the world box of the Volume contains the subtree bounds of
// every child, the condition for CullSubtree to never hide a visible descendant.
// The test is conservative for spheres and capsules, whose box is larger than the shape.
// An entity without Volume is never culled, so it always passes.
func (e *Entity) EnclosesChildren() bool {
	if e.Volume == nil {
		return true
	}

	bounds := e.Volume.Bounds(&e.Transform)
	for _, child := range e.children {
		if !bounds.Contains(child.SubtreeBounds()) {
			return false
		}
	}
	return true
}

// DrawSelfAndChild submits the subtree to the shader in pre-order.
// Entities outside the frustum are not drawn; with a nil frustum every entity is drawn.
func (e *Entity) DrawSelfAndChild(shader Shader, frustum *spatial.Frustum, stats *DrawStats) {
	if stats == nil {
		stats = &DrawStats{}
	}
	e.drawSelfAndChild(shader, frustum, stats, nil)
}

func (e *Entity) drawSelfAndChild(shader Shader, frustum *spatial.Frustum, stats *DrawStats, onVisible func(entity *Entity)) {
	stats.Visited++

	if !e.IsVisible(frustum) {
		stats.Culled++
		if e.CullSubtree {
			return
		}
	} else {
		if onVisible != nil {
			onVisible(e)
		}
		if e.Renderable != nil {
			shader.SetMatrixParameter(ModelParameter, e.Transform.WorldMatrix())
			e.Renderable.Draw(shader)
			stats.Drawn++
		}
	}

	for _, child := range e.children {
		child.drawSelfAndChild(shader, frustum, stats, onVisible)
	}
}
