// Package scenefile decodes declarative scene descriptions (YAML or TOML) and builds them
// into a scenegraph.Scene.
package scenefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalid           = errors.New("invalid scene description")
	ErrUnsupportedFormat = errors.New("unsupported scene file format")
)

// Description is the root of a scene file
type Description struct {
	Camera CameraDescription `yaml:"camera" toml:"camera"`
	// Culling defaults to true
	Culling *bool             `yaml:"culling" toml:"culling"`
	Workers int               `yaml:"workers" toml:"workers"`
	Root    EntityDescription `yaml:"root" toml:"root"`

	// BaseDir resolves relative mesh paths; Load sets it to the scene file directory
	BaseDir string `yaml:"-" toml:"-"`
}

// CameraDescription orients the camera toward Target when set, by Yaw and Pitch otherwise.
// Angles are in degrees.
type CameraDescription struct {
	Position [3]float64  `yaml:"position" toml:"position"`
	Target   *[3]float64 `yaml:"target" toml:"target"`
	Yaw      float64     `yaml:"yaw" toml:"yaw"`
	Pitch    float64     `yaml:"pitch" toml:"pitch"`
	Up       *[3]float64 `yaml:"up" toml:"up"`
	Fov      float64     `yaml:"fov" toml:"fov"`
	Aspect   float64     `yaml:"aspect" toml:"aspect"`
	Near     float64     `yaml:"near" toml:"near"`
	Far      float64     `yaml:"far" toml:"far"`
}

type EntityDescription struct {
	Name string `yaml:"name" toml:"name"`
	// Renderable is a key of the map given to Build. Empty for grouping entities.
	Renderable  string               `yaml:"renderable" toml:"renderable"`
	Position    [3]float64           `yaml:"position" toml:"position"`
	Rotation    *RotationDescription `yaml:"rotation" toml:"rotation"`
	Scale       *[3]float64          `yaml:"scale" toml:"scale"`
	Volume      *VolumeDescription   `yaml:"volume" toml:"volume"`
	CullSubtree bool                 `yaml:"cull_subtree" toml:"cull_subtree"`
	Children    []EntityDescription  `yaml:"children" toml:"children"`
}

// RotationDescription is an axis-angle rotation, the angle in degrees
type RotationDescription struct {
	Axis  [3]float64 `yaml:"axis" toml:"axis"`
	Angle float64    `yaml:"angle" toml:"angle"`
}

// VolumeDescription selects a bounding volume by Kind: sphere, box, capsule or mesh.
// A mesh volume is computed from the glTF file Mesh, as a Shape (sphere or box) around
// the mesh named MeshName, or the first mesh.
type VolumeDescription struct {
	Kind        string     `yaml:"kind" toml:"kind"`
	Center      [3]float64 `yaml:"center" toml:"center"`
	Radius      float64    `yaml:"radius" toml:"radius"`
	HalfExtents [3]float64 `yaml:"half_extents" toml:"half_extents"`
	HalfHeight  float64    `yaml:"half_height" toml:"half_height"`
	Mesh        string     `yaml:"mesh" toml:"mesh"`
	MeshName    string     `yaml:"mesh_name" toml:"mesh_name"`
	Shape       string     `yaml:"shape" toml:"shape"`
}

func DecodeYAML(r io.Reader) (*Description, error) {
	var desc Description
	if err := yaml.NewDecoder(r).Decode(&desc); err != nil {
		return nil, fmt.Errorf("decoding YAML scene: %w", err)
	}

	return &desc, nil
}

func DecodeTOML(r io.Reader) (*Description, error) {
	var desc Description
	if err := toml.NewDecoder(r).Decode(&desc); err != nil {
		return nil, fmt.Errorf("decoding TOML scene: %w", err)
	}

	return &desc, nil
}

// Load decodes a .yaml, .yml or .toml scene file
func Load(path string) (*Description, error) {
	var decode func(io.Reader) (*Description, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = DecodeYAML
	case ".toml":
		decode = DecodeTOML
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	desc, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	desc.BaseDir = filepath.Dir(path)

	return desc, nil
}
