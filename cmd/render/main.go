package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"sketch-renderer/internal/batch"
	"sketch-renderer/internal/config"
	"sketch-renderer/internal/logging"
	"sketch-renderer/internal/model"
	"sketch-renderer/internal/sketch"
	"sketch-renderer/internal/texture"
	"sketch-renderer/internal/timeline"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to render.yaml config file")
	sketchFile := flag.String("sketch", "", "Path to sketch YAML (overrides config)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	workers := flag.Int("workers", 0, "Number of render workers (default: physical cores)")
	size := flag.String("size", "", "Output size WxH (default: sketch viewport)")
	testN := flag.Int("test", 0, "Render only first N frames for testing")
	verbose := flag.Bool("v", false, "Verbose diagnostics on stderr")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	if *sketchFile == "" && flag.NArg() > 0 {
		*sketchFile = flag.Arg(0)
	}
	err := cfg.Resolve(config.Flags{
		Sketch:    *sketchFile,
		OutputDir: *outputDir,
		Workers:   *workers,
		Size:      *size,
		Verbose:   *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Sketch == "" {
		fmt.Fprintln(os.Stderr, "Error: no sketch. Use -sketch or set sketch in the config file.")
		os.Exit(1)
	}

	logging.SetLogger(logging.NewText(os.Stderr, cfg.Verbose))

	def, err := sketch.Load(cfg.Sketch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sketch: %v\n", err)
		os.Exit(1)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Viewport.Width, def.Viewport.Height
	}
	if cfg.Vignette == 0 {
		cfg.Vignette = def.Post.Vignette
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	sk, err := sketch.New(def, model.NewFileLoader(def.Dir()), sketch.WithContext(ctx))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sk.Close()
	sk.Resize(cfg.Width, cfg.Height)

	if err := sk.WaitForAssets(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading models: %v\n", err)
		os.Exit(1)
	}

	player, err := timeline.NewPlayer(def.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	total := player.Len()
	frames := player.Frames()
	if *testN > 0 && *testN < total {
		total = *testN
		frames = limit(frames, total)
	}

	// Print summary
	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Sketch %q → WebP%s\n", def.Name, mode)
	fmt.Printf("Frames: %d at %.0f fps, %dx%d, Workers: %d\n", total, def.Input.FPS, cfg.Width, cfg.Height, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	runner, err := batch.NewRunner(ctx, batch.Config{
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Vignette:    cfg.Vignette,
		Workers:     cfg.Workers,
	}, total)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	driveErr := sketch.Drive(ctx, sk, frames, func(st sketch.Step) error {
		return runner.Submit(batch.Job{
			Index:    st.Frame.Index,
			Elapsed:  st.Frame.Elapsed,
			Ratio:    st.Ratio,
			Snapshot: st.Snapshot,
		})
	})
	results, runErr := runner.Wait()

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, total)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", batch.FrameName(e.Index), e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	for _, err := range []error{driveErr, runErr} {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// limit yields at most the first n frames of seq.
func limit(seq iter.Seq[timeline.Frame], n int) iter.Seq[timeline.Frame] {
	return func(yield func(timeline.Frame) bool) {
		i := 0
		for f := range seq {
			if i >= n || !yield(f) {
				return
			}
			i++
		}
	}
}
