package sketch

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/camerapath"
	"sketch-renderer/internal/curve"
	"sketch-renderer/internal/logging"
	"sketch-renderer/internal/mathutil"
	"sketch-renderer/internal/model"
	"sketch-renderer/internal/pointer"
	"sketch-renderer/internal/scene"
	"sketch-renderer/internal/scroll"
)

// Sketch owns a scene and animates it from scroll, pointer and time.
//
// OnScroll, OnPointerMove and Resize may be called from an input goroutine;
// Tick and Snapshot belong to a single tick goroutine.
type Sketch struct {
	def *Definition

	scene   *scene.Scene
	monitor *scroll.Monitor
	tracker *pointer.Tracker
	camera  *camerapath.CurveCamera
	path    *curve.CatmullRom
	lights  []orbitLight
	models  []*animated
	elapsed time.Duration // time of the last Tick

	ratio       atomic.Uint64 // math.Float64bits of the last scroll ratio
	unsubscribe func()

	loaded  chan loadedModel
	pending sync.WaitGroup
	cancel  context.CancelFunc

	closeOnce sync.Once
}

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

type orbitLight struct {
	orbit camerapath.Orbit
	light *scene.PointLight
}

// animated is a mesh with its per-tick motion.
type animated struct {
	mesh         *scene.Mesh
	spinX, spinY float64
	tilt         float64
	boost        float64
	angX, angY   float64 // accumulated spin
}

type loadedModel struct {
	spec ModelSpec
	geo  *scene.Geometry
}

// Option configures a Sketch.
type Option func(*options)

type options struct {
	monitor *scroll.Monitor
	slerp   camerapath.SlerpFunc
	ctx     context.Context
}

// WithMonitor subscribes the sketch to an existing scroll monitor instead of
// a private one.
func WithMonitor(m *scroll.Monitor) Option {
	return func(o *options) { o.monitor = m }
}

// WithSlerp replaces the camera's quaternion interpolation.
func WithSlerp(fn camerapath.SlerpFunc) Option {
	return func(o *options) { o.slerp = fn }
}

// WithContext bounds model loading; cancelling it abandons pending loads.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// New builds the scene for def, subscribes to scroll events and starts
// loading models through loader. loader may be nil when def has no model
// sources.
func New(def *Definition, loader model.Loader, opts ...Option) (*Sketch, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.monitor == nil {
		o.monitor = scroll.NewMonitor()
	}

	path, err := def.Camera.Path.Build()
	if err != nil {
		return nil, fmt.Errorf("sketch: camera path: %w", err)
	}
	tracker, err := pointer.NewTracker(def.Pointer.Damping)
	if err != nil {
		return nil, fmt.Errorf("sketch: %w", err)
	}

	look := def.Camera.Look
	start, err := look.Start.Vec3(mgl64.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("sketch: camera look start: %w", err)
	}
	end, err := look.End.Vec3(mgl64.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("sketch: camera look end: %w", err)
	}
	up, err := look.Up.Vec3(mgl64.Vec3{0, 1, 0})
	if err != nil {
		return nil, fmt.Errorf("sketch: camera look up: %w", err)
	}
	var camOpts []camerapath.Option
	if o.slerp != nil {
		camOpts = append(camOpts, camerapath.WithSlerp(o.slerp))
	}

	s := &Sketch{
		def:     def,
		monitor: o.monitor,
		tracker: tracker,
		path:    path,
		camera:  camerapath.LookAt(path, camerapath.Targets{Start: start, End: end, Up: up}, camOpts...),
		scene: &scene.Scene{
			Background: def.Background.Or(black),
			Ambient:    def.Ambient,
		},
	}
	s.ratio.Store(math.Float64bits(0))

	vp := def.Viewport
	cam := scene.NewCamera(def.Camera.FOV, float64(vp.Width)/float64(vp.Height), def.Camera.Near, def.Camera.Far)
	s.scene.Camera = cam
	s.camera.Apply(cam, 0)

	if err := s.buildLights(); err != nil {
		return nil, err
	}

	var sources []ModelSpec
	for _, m := range def.Models {
		if m.Source != "" {
			sources = append(sources, m)
			continue
		}
		s.attach(m, scene.Box(m.Box))
	}
	if len(sources) > 0 && loader == nil {
		return nil, fmt.Errorf("sketch: %d model sources but no loader", len(sources))
	}

	s.unsubscribe = s.monitor.Subscribe(func(ratio float64) {
		s.ratio.Store(math.Float64bits(ratio))
	})

	ctx, cancel := context.WithCancel(o.ctx)
	s.cancel = cancel
	s.loaded = make(chan loadedModel, len(sources))
	for _, m := range sources {
		s.load(ctx, loader, m)
	}

	return s, nil
}

func (s *Sketch) buildLights() error {
	if len(s.def.Lights.Orbits) == 0 {
		return nil
	}
	lc, err := s.def.Lights.Curve.Build()
	if err != nil {
		return fmt.Errorf("sketch: light curve: %w", err)
	}
	for i, spec := range s.def.Lights.Orbits {
		base, err := spec.Base.Vec3(mgl64.Vec3{})
		if err != nil {
			return fmt.Errorf("sketch: orbit %d base: %w", i, err)
		}
		orbit := camerapath.Orbit{Base: base, Curve: lc, Period: spec.Period}
		light := s.scene.AddLight(&scene.PointLight{
			Position:  orbit.PositionAt(0),
			Color:     linear(spec.Color.Or(white)),
			Intensity: spec.Intensity,
			Decay:     spec.Decay,
		})
		s.lights = append(s.lights, orbitLight{orbit: orbit, light: light})
	}
	return nil
}

func (s *Sketch) load(ctx context.Context, loader model.Loader, m ModelSpec) {
	log := logging.Logger().With("model", m.Name, "source", m.Source)
	s.pending.Add(1)
	loader.Load(ctx, m.Source, model.Callbacks{
		OnProgress: func(f float64) {
			log.Debug("loading", "progress", f)
		},
		OnComplete: func(g *scene.Geometry) {
			s.loaded <- loadedModel{spec: m, geo: g}
			s.pending.Done()
		},
		OnError: func(err error) {
			log.Warn("model load failed", "err", err)
			s.pending.Done()
		},
	})
}

// attach adds a mesh for spec with geometry g. The spec was validated.
func (s *Sketch) attach(spec ModelSpec, g *scene.Geometry) {
	mesh := scene.NewMesh(spec.Name, g)
	mesh.Texture = spec.Texture
	mesh.Tint = spec.Tint.Or(mesh.Tint)
	mesh.Additive = spec.Additive
	mesh.Position, _ = spec.Position.Vec3(mgl64.Vec3{})
	mesh.Scale, _ = spec.scale()

	a := &animated{mesh: mesh, tilt: spec.Tilt, boost: spec.Boost}
	a.spinX, a.spinY = spec.spin()
	a.angX = s.elapsed.Seconds() * a.spinX
	a.angY = s.elapsed.Seconds() * a.spinY
	s.scene.AddMesh(mesh)
	s.models = append(s.models, a)
}

// OnScroll is the host's scroll event.
func (s *Sketch) OnScroll(doc scroll.Document) {
	s.monitor.OnScroll(doc)
}

// OnPointerMove is the host's pointer event in viewport pixels.
func (s *Sketch) OnPointerMove(x, y, viewportWidth, viewportHeight float64) {
	s.tracker.OnPointerMove(x, y, viewportWidth, viewportHeight)
}

// Resize updates the camera aspect for a new viewport.
func (s *Sketch) Resize(width, height int) {
	s.scene.Camera.Resize(width, height)
}

// Document returns the virtual page scrolled to top.
func (s *Sketch) Document(top float64) scroll.Document {
	return scroll.Document{Root: scroll.Element{
		ScrollTop:    top,
		ScrollHeight: s.def.Document.Height,
		ClientHeight: float64(s.def.Viewport.Height),
	}}
}

// Tick advances the scene to elapsed time since start.
func (s *Sketch) Tick(elapsed time.Duration) {
	s.drainLoaded()
	s.tracker.Update()

	if r := s.Ratio(); mathutil.IsFinite(r) {
		s.camera.Apply(s.scene.Camera, r)
	}

	sec := elapsed.Seconds()
	for _, ol := range s.lights {
		ol.light.SetPosition(ol.orbit.PositionAt(sec))
	}

	dt := max(elapsed-s.elapsed, 0).Seconds()
	s.elapsed = elapsed

	// Speed describes the latest pointer move and holds until the next one.
	p := s.tracker.Sample()
	speed := max(p.Speed[0], p.Speed[1])
	for _, a := range s.models {
		rate := dt * (1 + a.boost*speed)
		a.angX += a.spinX * rate
		a.angY += a.spinY * rate
		rx := a.angX + a.tilt*(p.DPos[1]-0.5)
		ry := a.angY + a.tilt*(p.DPos[0]-0.5)
		a.mesh.SetOrientation(mathutil.EulerToQuat(rx, ry, 0))
	}
}

func (s *Sketch) drainLoaded() {
	for {
		select {
		case m := <-s.loaded:
			s.attach(m.spec, m.geo)
			logging.Logger().Debug("model attached", "model", m.spec.Name, "triangles", len(m.geo.Tris))
		default:
			return
		}
	}
}

// WaitForAssets blocks until every model load has completed or failed.
// Loaded models are attached on the next Tick.
func (s *Sketch) WaitForAssets(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot copies the scene for rendering.
func (s *Sketch) Snapshot() *scene.Snapshot {
	return s.scene.Snapshot()
}

// Ratio returns the last scroll ratio the sketch received, 0 before any
// scroll event. It may be NaN or ±Inf.
func (s *Sketch) Ratio() float64 {
	return math.Float64frombits(s.ratio.Load())
}

// Pointer returns the tracker's current sample.
func (s *Sketch) Pointer() pointer.Sample { return s.tracker.Sample() }

// Camera returns the scroll-driven camera path.
func (s *Sketch) Camera() *camerapath.CurveCamera { return s.camera }

// Path returns the camera's position curve.
func (s *Sketch) Path() *curve.CatmullRom { return s.path }

// Definition returns the definition the sketch was built from.
func (s *Sketch) Definition() *Definition { return s.def }

// Close unsubscribes from the scroll monitor and abandons pending loads.
func (s *Sketch) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.cancel()
	})
}
