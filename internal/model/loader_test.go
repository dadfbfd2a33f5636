package model

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sketch-renderer/internal/scene"
)

type outcome struct {
	mu        sync.Mutex
	progress  []float64
	completes int
	errors    []error
	geometry  *scene.Geometry
	done      chan struct{}
}

func newOutcome() *outcome {
	return &outcome{done: make(chan struct{})}
}

func (o *outcome) callbacks() Callbacks {
	return Callbacks{
		OnProgress: func(f float64) {
			o.mu.Lock()
			o.progress = append(o.progress, f)
			o.mu.Unlock()
		},
		OnComplete: func(g *scene.Geometry) {
			o.mu.Lock()
			o.completes++
			o.geometry = g
			o.mu.Unlock()
			close(o.done)
		},
		OnError: func(err error) {
			o.mu.Lock()
			o.errors = append(o.errors, err)
			o.mu.Unlock()
			close(o.done)
		},
	}
}

func (o *outcome) wait(t *testing.T) {
	t.Helper()
	select {
	case <-o.done:
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
}

func TestFileLoaderCompletes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	o := newOutcome()
	NewFileLoader(dir).Load(context.Background(), "quad.obj", o.callbacks())
	o.wait(t)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.completes != 1 || len(o.errors) != 0 {
		t.Fatalf("completes=%d errors=%v, want 1 and none", o.completes, o.errors)
	}
	if len(o.geometry.Tris) != 2 {
		t.Errorf("geometry has %d triangles, want 2", len(o.geometry.Tris))
	}
	if len(o.progress) != 2 || o.progress[0] != 0 || o.progress[1] != 1 {
		t.Errorf("progress = %v, want [0 1]", o.progress)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	o := newOutcome()
	NewFileLoader(t.TempDir()).Load(context.Background(), "missing.obj", o.callbacks())
	o.wait(t)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.completes != 0 || len(o.errors) != 1 {
		t.Errorf("completes=%d errors=%d, want 0 and 1", o.completes, len(o.errors))
	}
}

func TestFileLoaderMalformed(t *testing.T) {
	dir := t.TempDir()
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.obj"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	o := newOutcome()
	NewFileLoader(dir).Load(context.Background(), "bad.obj", o.callbacks())
	o.wait(t)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.completes != 0 || len(o.errors) != 1 {
		t.Errorf("completes=%d errors=%d, want 0 and 1", o.completes, len(o.errors))
	}
}

func TestFileLoaderCancelled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOutcome()
	NewFileLoader(dir).Load(ctx, "quad.obj", o.callbacks())
	o.wait(t)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.completes != 0 || len(o.errors) != 1 {
		t.Errorf("completes=%d errors=%d, want 0 and 1", o.completes, len(o.errors))
	}
}
