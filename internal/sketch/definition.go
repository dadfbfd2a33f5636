// Package sketch wires scroll and pointer input to a small animated scene:
// a camera flying along a curve, lights orbiting a loop, and spinning models.
package sketch

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"

	"sketch-renderer/internal/curve"
	"sketch-renderer/internal/pointer"
	"sketch-renderer/internal/timeline"
)

// Definition is a sketch file.
type Definition struct {
	Name       string          `yaml:"name"`
	Viewport   Viewport        `yaml:"viewport"`
	Document   DocumentSpec    `yaml:"document"`
	Background Color           `yaml:"background"`
	Ambient    float64         `yaml:"ambient"`
	Camera     CameraSpec      `yaml:"camera"`
	Lights     LightsSpec      `yaml:"lights"`
	Pointer    PointerSpec     `yaml:"pointer"`
	Models     []ModelSpec     `yaml:"models"`
	Post       PostSpec        `yaml:"post"`
	Input      timeline.Script `yaml:"input"`

	// dir is the directory of the sketch file; model sources resolve against it.
	dir string
}

type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DocumentSpec describes the virtual page being scrolled. Height is the full
// scrollHeight; the visible clientHeight is the viewport height.
type DocumentSpec struct {
	Height float64 `yaml:"height"`
}

type CameraSpec struct {
	FOV  float64   `yaml:"fov"`
	Near float64   `yaml:"near"`
	Far  float64   `yaml:"far"`
	Path CurveSpec `yaml:"path"`
	Look LookSpec  `yaml:"look"`
}

// CurveSpec describes a Catmull-Rom curve.
type CurveSpec struct {
	Points  []Vec   `yaml:"points"`
	Closed  bool    `yaml:"closed"`
	Type    string  `yaml:"type"`
	Tension float64 `yaml:"tension"`
}

// LookSpec gives the points the camera faces at the start and the end of
// the path.
type LookSpec struct {
	Start Vec `yaml:"start"`
	End   Vec `yaml:"end"`
	Up    Vec `yaml:"up"`
}

type LightsSpec struct {
	Curve  CurveSpec   `yaml:"curve"`
	Orbits []OrbitSpec `yaml:"orbits"`
}

// OrbitSpec is a point light travelling the shared light curve.
type OrbitSpec struct {
	Base      Vec     `yaml:"base"`
	Period    float64 `yaml:"period"` // seconds per loop
	Color     Color   `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
	Decay     float64 `yaml:"decay"`
}

type PointerSpec struct {
	Damping float64 `yaml:"damping"`
}

// ModelSpec is a mesh. Exactly one of Box and Source is set.
type ModelSpec struct {
	Name     string  `yaml:"name"`
	Box      float64 `yaml:"box"`    // edge length of a primitive cube
	Source   string  `yaml:"source"` // OBJ or STL file, relative to the sketch
	Texture  string  `yaml:"texture"`
	Tint     Color   `yaml:"tint"`
	Additive bool    `yaml:"additive"`
	Position Vec     `yaml:"position"`
	Scale    Vec     `yaml:"scale"` // one uniform value or three
	Spin     Vec     `yaml:"spin"`  // radians per second around X and Y
	Tilt     float64 `yaml:"tilt"`  // radians of lean at the viewport edge
	Boost    float64 `yaml:"boost"` // extra spin at full pointer speed, as a multiple of spin
}

type PostSpec struct {
	Vignette float64 `yaml:"vignette"`
}

// Vec is a YAML sequence of numbers.
type Vec []float64

// Vec3 converts v to a 3D vector. An empty Vec yields def.
func (v Vec) Vec3(def mgl64.Vec3) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
}

// Color is a CSS colour string ("#ff8800", "rebeccapurple", "rgb(0 0 0 / 50%)").
type Color struct {
	color.NRGBA
	Set bool
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := csscolorparser.Parse(value.Value)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", value.Value, err)
	}
	r, g, b, a := parsed.RGBA255()
	c.NRGBA = color.NRGBA{R: r, G: g, B: b, A: a}
	c.Set = true
	return nil
}

// Or returns c, or def when c was not given.
func (c Color) Or(def color.NRGBA) color.NRGBA {
	if !c.Set {
		return def
	}
	return c.NRGBA
}

// linear returns the colour channels scaled to [0, 1].
func linear(c color.NRGBA) [3]float64 {
	return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Load reads and validates a sketch file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sketch: read %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sketch: %s: %w", path, err)
	}
	def.dir = filepath.Dir(path)
	return def, nil
}

// Parse decodes and validates a sketch definition, filling in defaults.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	def.applyDefaults()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Dir returns the directory the definition was loaded from, or "" when it
// was parsed from memory.
func (d *Definition) Dir() string { return d.dir }

func (d *Definition) applyDefaults() {
	if d.Viewport.Width <= 0 {
		d.Viewport.Width = 960
	}
	if d.Viewport.Height <= 0 {
		d.Viewport.Height = 540
	}
	if d.Document.Height <= 0 {
		d.Document.Height = 4 * float64(d.Viewport.Height)
	}
	if d.Camera.FOV <= 0 {
		d.Camera.FOV = 50
	}
	if d.Camera.Near <= 0 {
		d.Camera.Near = 0.1
	}
	if d.Camera.Far <= 0 {
		d.Camera.Far = 1000
	}
	if d.Pointer.Damping == 0 {
		d.Pointer.Damping = pointer.DefaultDamping
	}
	if d.Input.FPS <= 0 {
		d.Input.FPS = 30
	}
	for i := range d.Lights.Orbits {
		if d.Lights.Orbits[i].Intensity == 0 {
			d.Lights.Orbits[i].Intensity = 1
		}
	}
}

// Validate reports the first configuration error in d.
func (d *Definition) Validate() error {
	if d.Document.Height < float64(d.Viewport.Height) {
		return fmt.Errorf("document height %v is shorter than the viewport", d.Document.Height)
	}
	if d.Camera.Near >= d.Camera.Far {
		return fmt.Errorf("camera: near %v must be less than far %v", d.Camera.Near, d.Camera.Far)
	}
	if _, err := d.Camera.Path.Build(); err != nil {
		return fmt.Errorf("camera path: %w", err)
	}
	for name, v := range map[string]Vec{"start": d.Camera.Look.Start, "end": d.Camera.Look.End, "up": d.Camera.Look.Up} {
		if _, err := v.Vec3(mgl64.Vec3{}); err != nil {
			return fmt.Errorf("camera look %s: %w", name, err)
		}
	}
	if len(d.Lights.Orbits) > 0 {
		if _, err := d.Lights.Curve.Build(); err != nil {
			return fmt.Errorf("light curve: %w", err)
		}
	}
	for i, o := range d.Lights.Orbits {
		if _, err := o.Base.Vec3(mgl64.Vec3{}); err != nil {
			return fmt.Errorf("orbit %d base: %w", i, err)
		}
	}
	if d.Pointer.Damping <= 0 || d.Pointer.Damping > 1 {
		return fmt.Errorf("pointer: %w, got %v", pointer.ErrDamping, d.Pointer.Damping)
	}
	for i, m := range d.Models {
		if err := m.validate(); err != nil {
			return fmt.Errorf("model %d (%s): %w", i, m.Name, err)
		}
	}
	if d.Post.Vignette < 0 || d.Post.Vignette > 1 {
		return fmt.Errorf("post: vignette %v outside [0, 1]", d.Post.Vignette)
	}
	if err := d.Input.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

func (m ModelSpec) validate() error {
	if (m.Box > 0) == (m.Source != "") {
		return fmt.Errorf("exactly one of box and source is required")
	}
	if _, err := m.Position.Vec3(mgl64.Vec3{}); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if _, err := m.scale(); err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	if len(m.Spin) > 2 {
		return fmt.Errorf("spin: want at most 2 components, got %d", len(m.Spin))
	}
	if m.Boost < 0 {
		return fmt.Errorf("boost: must not be negative, got %v", m.Boost)
	}
	return nil
}

func (m ModelSpec) scale() (mgl64.Vec3, error) {
	if len(m.Scale) == 1 {
		s := m.Scale[0]
		return mgl64.Vec3{s, s, s}, nil
	}
	return m.Scale.Vec3(mgl64.Vec3{1, 1, 1})
}

func (m ModelSpec) spin() (x, y float64) {
	if len(m.Spin) > 0 {
		x = m.Spin[0]
	}
	if len(m.Spin) > 1 {
		y = m.Spin[1]
	}
	return x, y
}

func (c CurveSpec) points() ([]mgl64.Vec3, error) {
	pts := make([]mgl64.Vec3, len(c.Points))
	for i, p := range c.Points {
		v, err := p.Vec3(mgl64.Vec3{})
		if err != nil || len(p) == 0 {
			return nil, fmt.Errorf("point %d: want 3 components, got %d", i, len(p))
		}
		pts[i] = v
	}
	return pts, nil
}

func (c CurveSpec) options() ([]curve.Option, error) {
	typ, err := curve.ParseType(c.Type)
	if err != nil {
		return nil, err
	}
	opts := []curve.Option{curve.Closed(c.Closed), curve.WithType(typ)}
	if c.Tension != 0 {
		opts = append(opts, curve.WithTension(c.Tension))
	}
	return opts, nil
}

// Build constructs the curve. Fewer than two points fails with
// curve.ErrTooFewPoints.
func (c CurveSpec) Build() (*curve.CatmullRom, error) {
	pts, err := c.points()
	if err != nil {
		return nil, err
	}
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	return curve.New(pts, opts...)
}
