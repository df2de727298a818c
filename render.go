package scenegraph

import "github.com/go-gl/mathgl/mgl64"

// ModelParameter is the shader uniform receiving each drawn entity's world matrix
const ModelParameter = "model"

// Shader receives per-draw uniforms
type Shader interface {
	SetMatrixParameter(name string, value mgl64.Mat4)
}

// Renderable is a GPU-resident payload (mesh, material...) an Entity draws.
// The same Renderable may be shared by several entities; the scene graph never mutates or frees it.
type Renderable interface {
	Draw(shader Shader)
}
