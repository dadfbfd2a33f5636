package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/camerapath"
	"sketch-renderer/internal/mathutil"
	"sketch-renderer/internal/model"
	"sketch-renderer/internal/sketch"
)

func main() {
	samples := flag.Int("samples", 10, "Number of camera samples along the scroll range")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-samples N] sketch.yaml")
		os.Exit(2)
	}
	path := flag.Arg(0)

	def, err := sketch.Load(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sketch %q: viewport %dx%d, document %.0fpx\n",
		def.Name, def.Viewport.Width, def.Viewport.Height, def.Document.Height)

	cam, err := def.Camera.Path.Build()
	if err != nil {
		fmt.Printf("Error: camera path: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Camera path: %s, closed=%v, %d points, length %.2f\n",
		cam.Type(), cam.IsClosed(), len(cam.Points()), cam.Length())

	start, _ := def.Camera.Look.Start.Vec3(mgl64.Vec3{})
	end, _ := def.Camera.Look.End.Vec3(mgl64.Vec3{})
	up, _ := def.Camera.Look.Up.Vec3(mgl64.Vec3{0, 1, 0})
	cc := camerapath.LookAt(cam, camerapath.Targets{Start: start, End: end, Up: up})

	n := max(*samples, 1)
	fmt.Println("    ratio   position                     forward                   ease    arc-uniform position")
	for i := 0; i <= n; i++ {
		r := float64(i) / float64(n)
		pose := cc.Update(r)
		fwd := pose.Orientation.Rotate(mathutil.Forward)
		arc := cam.PointAtArc(r)
		fmt.Printf("    %.3f   (%7.2f, %7.2f, %7.2f)   (%6.3f, %6.3f, %6.3f)   %.3f   (%7.2f, %7.2f, %7.2f)\n",
			r, pose.Position[0], pose.Position[1], pose.Position[2], fwd[0], fwd[1], fwd[2], camerapath.Ease(r),
			arc[0], arc[1], arc[2])
	}

	if len(def.Lights.Orbits) > 0 {
		lc, err := def.Lights.Curve.Build()
		if err != nil {
			fmt.Printf("Error: light curve: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Light curve: %s, closed=%v, length %.2f\n", lc.Type(), lc.IsClosed(), lc.Length())
		for i, o := range def.Lights.Orbits {
			base, _ := o.Base.Vec3(mgl64.Vec3{})
			orbit := camerapath.Orbit{Base: base, Curve: lc, Period: o.Period}
			p := orbit.PositionAt(0)
			fmt.Printf("  Orbit[%d]: period %.1fs, intensity %.2f, start (%.2f, %.2f, %.2f)\n",
				i, o.Period, o.Intensity, p[0], p[1], p[2])
		}
	}

	for i, m := range def.Models {
		if m.Source == "" {
			fmt.Printf("  Model[%d] %s: box %.2f, texture=%q\n", i, m.Name, m.Box, m.Texture)
			continue
		}
		src := m.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(def.Dir(), src)
		}
		g, err := model.LoadMesh(src)
		if err != nil {
			fmt.Printf("  Model[%d] %s: %v\n", i, m.Name, err)
			continue
		}
		lo, hi := g.Bounds()
		fmt.Printf("  Model[%d] %s: verts=%d, uvs=%d, tris=%d, texture=%q\n", i, m.Name, len(g.Verts), len(g.UVs), len(g.Tris), m.Texture)
		fmt.Printf("    BBox: X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		size := hi.Sub(lo)
		fmt.Printf("    Size: %.1f x %.1f x %.1f\n", size[0], size[1], size[2])
	}
}
