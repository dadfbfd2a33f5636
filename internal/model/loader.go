package model

import (
	"context"
	"fmt"
	"path/filepath"

	"sketch-renderer/internal/scene"
)

// Callbacks receive the outcome of one load. Exactly one of OnComplete and
// OnError is called; OnProgress may be called any number of times before it
// with a non-decreasing fraction in [0, 1]. Nil callbacks are skipped.
// Callbacks run on the loader's goroutine.
type Callbacks struct {
	OnComplete func(g *scene.Geometry)
	OnProgress func(fraction float64)
	OnError    func(err error)
}

func (cb Callbacks) complete(g *scene.Geometry) {
	if cb.OnComplete != nil {
		cb.OnComplete(g)
	}
}

func (cb Callbacks) progress(f float64) {
	if cb.OnProgress != nil {
		cb.OnProgress(f)
	}
}

func (cb Callbacks) fail(err error) {
	if cb.OnError != nil {
		cb.OnError(err)
	}
}

// Loader loads a model asynchronously and reports through callbacks.
type Loader interface {
	Load(ctx context.Context, locator string, cb Callbacks)
}

// FileLoader reads mesh files from disk. Relative locators resolve against Root.
type FileLoader struct {
	Root string
}

// NewFileLoader returns a loader rooted at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Root: dir}
}

// Load starts reading locator on a new goroutine and returns immediately.
func (l *FileLoader) Load(ctx context.Context, locator string, cb Callbacks) {
	go func() {
		g, err := l.load(ctx, locator, cb)
		if err != nil {
			cb.fail(err)
			return
		}
		cb.complete(g)
	}()
}

func (l *FileLoader) load(ctx context.Context, locator string, cb Callbacks) (*scene.Geometry, error) {
	path := locator
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("model: load %s: %w", locator, err)
	}

	cb.progress(0)
	g, err := LoadMesh(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("model: load %s: %w", locator, err)
	}
	cb.progress(1)
	return g, nil
}
