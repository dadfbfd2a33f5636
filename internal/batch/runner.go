package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/sync/errgroup"

	"sketch-renderer/internal/logging"
	"sketch-renderer/internal/postprocess"
	"sketch-renderer/internal/raster"
	"sketch-renderer/internal/scene"
	"sketch-renderer/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	TexResolver texture.Resolver
	Width       int
	Height      int
	Supersample int
	Vignette    float64
	Workers     int
}

// Job is one snapshot to render.
type Job struct {
	Index    int
	Elapsed  time.Duration
	Ratio    float64
	Snapshot *scene.Snapshot
}

// Result holds the outcome of processing one frame.
type Result struct {
	Index   int
	Elapsed time.Duration
	Ratio   float64
	Image   string // file name relative to OutputDir
	Success bool
	Error   string
}

// Runner renders and encodes submitted frames on a bounded set of workers
// while the caller keeps producing snapshots.
type Runner struct {
	cfg   Config
	total int
	g     *errgroup.Group
	ctx   context.Context

	mu      sync.Mutex
	results []Result

	processed atomic.Int64
	start     time.Time
	done      chan struct{}
}

// NewRunner prepares the output directory and starts the progress reporter.
// total is only used for progress lines.
func NewRunner(ctx context.Context, cfg Config, total int) (*Runner, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: output dir %s: %w", cfg.OutputDir, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	r := &Runner{
		cfg:   cfg,
		total: total,
		g:     g,
		ctx:   gctx,
		start: time.Now(),
		done:  make(chan struct{}),
	}
	go r.report()
	return r, nil
}

// Progress reporter
func (r *Runner) report() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			p := r.processed.Load()
			if p > 0 {
				elapsed := time.Since(r.start).Seconds()
				rate := float64(p) / elapsed
				fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, r.total, rate)
			}
		}
	}
}

// Submit queues a frame, blocking while all workers are busy. It fails once
// the run has been cancelled or a frame could not be written.
func (r *Runner) Submit(job Job) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.g.Go(func() error {
		res := r.processFrame(job)
		r.processed.Add(1)

		r.mu.Lock()
		r.results = append(r.results, res)
		r.mu.Unlock()

		if !res.Success {
			return fmt.Errorf("batch: frame %d: %s", job.Index, res.Error)
		}
		return nil
	})
	return nil
}

// Wait blocks until every submitted frame is done and returns the results
// in frame order, with the first write error if any.
func (r *Runner) Wait() ([]Result, error) {
	err := r.g.Wait()
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()
	slices.SortFunc(r.results, func(a, b Result) int { return a.Index - b.Index })
	return r.results, err
}

func (r *Runner) processFrame(job Job) Result {
	cfg := r.cfg
	res := Result{
		Index:   job.Index,
		Elapsed: job.Elapsed,
		Ratio:   job.Ratio,
		Image:   FrameName(job.Index),
	}

	img := raster.Render(job.Snapshot, cfg.TexResolver, cfg.Width, cfg.Height, cfg.Supersample)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	img = postprocess.Vignette(img, cfg.Vignette)

	// Save as WebP
	outPath := filepath.Join(cfg.OutputDir, res.Image)
	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	logging.Logger().Debug("frame written", "frame", job.Index, "path", outPath)
	res.Success = true
	return res
}

// FrameName returns the file name for frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%05d.webp", i)
}
