package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/akmonengine/scenegraph"
	"github.com/akmonengine/scenegraph/scenefile"
	"github.com/akmonengine/scenegraph/spatial"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	ViewParameter       = "view"
	ProjectionParameter = "projection"
)

// LoggingShader only records the uniforms it receives
type LoggingShader struct {
	logger     *slog.Logger
	parameters map[string]mgl64.Mat4
}

func (s *LoggingShader) SetMatrixParameter(name string, value mgl64.Mat4) {
	s.parameters[name] = value
	s.logger.Debug("uniform", "name", name, "translation", value.Col(3).Vec3())
}

// Mesh counts its draw calls
type Mesh struct {
	Name  string
	Draws int
}

func (m *Mesh) Draw(shader scenegraph.Shader) {
	m.Draws++
}

type options struct {
	frames     int
	sweep      float64
	fps        float64
	billboards []string
	place      string
	verbose    bool
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:          "orbit [scene.yaml|scene.toml]",
		Short:        "Sweep the camera around a scene and report frustum culling per frame",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example/orbit/scene.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			return run(path, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 120, "number of frames to run")
	cmd.Flags().Float64Var(&opts.sweep, "sweep", 360, "camera yaw sweep, in degrees")
	cmd.Flags().Float64Var(&opts.fps, "fps", 60, "simulated frame rate")
	cmd.Flags().StringSliceVar(&opts.billboards, "billboard", []string{"sign"}, "entities turned toward the camera every frame")
	cmd.Flags().StringVar(&opts.place, "place", "", "entity moved in front of the camera before the first frame")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log uniforms and visibility events")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string, opts options) error {
	if opts.frames <= 0 || opts.fps <= 0 {
		return fmt.Errorf("frames and fps must be positive")
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	desc, err := scenefile.Load(path)
	if err != nil {
		return err
	}

	meshes := map[string]*Mesh{
		"crate":  {Name: "crate"},
		"barrel": {Name: "barrel"},
		"sign":   {Name: "sign"},
	}
	renderables := make(map[string]scenegraph.Renderable, len(meshes))
	for name, mesh := range meshes {
		renderables[name] = mesh
	}

	scene, err := desc.Build(renderables)
	if err != nil {
		return fmt.Errorf("building %s: %w", path, err)
	}
	logger.Info("scene loaded", "path", path, "entities", scene.Count(), "workers", scene.Workers, "culling", scene.Culling)

	scene.Events.Subscribe(scenegraph.VISIBILITY_ENTER, func(event scenegraph.Event) {
		logger.Debug("entered view", "entity", event.(scenegraph.VisibilityEnterEvent).Entity.Name)
	})
	scene.Events.Subscribe(scenegraph.VISIBILITY_EXIT, func(event scenegraph.Event) {
		logger.Debug("left view", "entity", event.(scenegraph.VisibilityExitEvent).Entity.Name)
	})

	logger.Info("scene bounds", "bounds", scene.Bounds())

	billboards := make([]*scenegraph.Entity, 0, len(opts.billboards))
	for _, name := range opts.billboards {
		entity := findEntity(scene, name)
		if entity == nil {
			logger.Warn("billboard not found", "entity", name)
			continue
		}
		billboards = append(billboards, entity)
	}
	if opts.place != "" {
		entity := findEntity(scene, opts.place)
		if entity == nil {
			return fmt.Errorf("entity %q not found", opts.place)
		}
		head := toParentSpace(entity, scene.Camera.Position)
		lookAt := toParentSpace(entity, scene.Camera.Position.Add(scene.Camera.Forward)).Sub(head)
		entity.Transform.SetPose(spatial.PlaceInView(head, lookAt, spatial.DEFAULT_PLACE_DISTANCE))
	}

	shader := &LoggingShader{logger: logger, parameters: make(map[string]mgl64.Mat4)}
	up := desc.Camera.WorldUp()
	yaw, pitch := scene.Camera.YawPitch()

	dt := float32(1 / opts.fps)
	tween := gween.New(float32(yaw), float32(yaw+opts.sweep), float32(opts.frames)*dt, ease.InOutSine)

	var total scenegraph.FrameStats
	start := time.Now()
	for frame := 0; frame < opts.frames; frame++ {
		current, _ := tween.Update(dt)
		scene.Camera.SetYawPitch(float64(current), pitch, up)
		for _, entity := range billboards {
			camera := toParentSpace(entity, scene.Camera.Position)
			entity.Transform.SetPose(spatial.FaceCamera(entity.Transform.Position(), camera, spatial.DEFAULT_SIZE_DIVISOR))
		}

		shader.SetMatrixParameter(ViewParameter, scene.Camera.ViewMatrix())
		shader.SetMatrixParameter(ProjectionParameter, scene.Camera.ProjectionMatrix())

		stats := scene.Frame(shader)
		logger.Info("frame", "frame", frame, "yaw", current, "updated", stats.Updated,
			"visited", stats.Visited, "drawn", stats.Drawn, "culled", stats.Culled)

		total.Updated += stats.Updated
		total.Visited += stats.Visited
		total.Drawn += stats.Drawn
		total.Culled += stats.Culled
	}

	logger.Info("done", "frames", opts.frames, "elapsed", time.Since(start), "updated", total.Updated,
		"visited", total.Visited, "drawn", total.Drawn, "culled", total.Culled)
	for name, mesh := range meshes {
		logger.Info("mesh", "name", name, "draws", mesh.Draws)
	}

	return nil
}

func findEntity(scene *scenegraph.Scene, name string) *scenegraph.Entity {
	var found *scenegraph.Entity
	scene.Root.Walk(func(entity *scenegraph.Entity) bool {
		if entity.Name == name {
			found = entity
		}
		return found == nil
	})

	return found
}

// toParentSpace maps a world point into the space the entity's transform is expressed in.
// World matrices are up to date between frames.
func toParentSpace(entity *scenegraph.Entity, point mgl64.Vec3) mgl64.Vec3 {
	parent := entity.Parent()
	if parent == nil {
		return point
	}

	return parent.Transform.WorldMatrix().Inv().Mul4x1(point.Vec4(1)).Vec3()
}
