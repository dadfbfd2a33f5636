package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/scene"
)

func boxSnapshot() *scene.Snapshot {
	s := &scene.Scene{Background: color.NRGBA{0, 0, 0, 255}, Ambient: 0.5}
	s.Camera = scene.NewCamera(60, 2, 0.1, 100)
	s.Camera.SetPosition(mgl64.Vec3{0, 0, 5})
	s.AddMesh(scene.NewMesh("box", scene.Box(2)))
	return s.Snapshot()
}

func TestRunnerWritesFramesAndManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := Config{OutputDir: dir, Width: 16, Height: 8, Supersample: 2, Vignette: 0.3, Workers: 2}

	r, err := NewRunner(context.Background(), cfg, 3)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	ratios := []float64{0, 0.5, math.NaN()}
	for i, ratio := range ratios {
		job := Job{Index: i, Elapsed: time.Duration(i) * 100 * time.Millisecond, Ratio: ratio, Snapshot: boxSnapshot()}
		if err := r.Submit(job); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	results, err := r.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	for i, res := range results {
		if res.Index != i || !res.Success {
			t.Errorf("result %d = %+v", i, res)
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, res.Image))
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if len(data) < 12 || !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
			t.Errorf("%s is not a WebP file", res.Image)
		}
	}

	manifest := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[1].Image != "frame_00001.webp" || entries[1].Elapsed != 0.1 {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[1].Ratio == nil || *entries[1].Ratio != 0.5 {
		t.Errorf("entry 1 ratio = %v, want 0.5", entries[1].Ratio)
	}
	if entries[2].Ratio != nil {
		t.Errorf("NaN ratio written as %v", *entries[2].Ratio)
	}
}

func TestSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, err := NewRunner(ctx, Config{OutputDir: t.TempDir(), Width: 4, Height: 4}, 1)
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := r.Submit(Job{Snapshot: boxSnapshot()}); err == nil {
		t.Errorf("Submit succeeded after cancel")
	}
	if _, err := r.Wait(); err != nil {
		t.Errorf("Wait: %v", err)
	}
}

func TestManifestSkipsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{
		{Index: 0, Image: FrameName(0), Success: true},
		{Index: 1, Image: FrameName(1), Error: "disk full"},
	}
	if err := WriteManifest(path, results); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Image != "frame_00000.webp" {
		t.Errorf("entries = %+v", entries)
	}
}
