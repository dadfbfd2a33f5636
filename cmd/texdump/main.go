package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"sketch-renderer/internal/sketch"
	"sketch-renderer/internal/texture"
)

type texFile struct {
	model   string
	name    string
	srcPath string
	dstName string
}

// dumpTexture decodes one texture through the cache, reports its alpha
// coverage and writes it back out as PNG.
func dumpTexture(cache *texture.Cache, outDir string, f texFile) error {
	tex := cache.Resolve(f.name)
	if tex == nil {
		return fmt.Errorf("%s: texture %q could not be decoded", f.model, f.name)
	}
	checkNRGBAAlpha(tex, f.name)

	dst := filepath.Join(outDir, f.dstName)
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	defer out.Close()
	if err := png.Encode(out, tex); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	fmt.Printf("OK  %s -> %s\n", f.srcPath, dst)
	return nil
}

func main() {
	texDir := flag.String("textures", "", "Texture directory (default: next to the sketch)")
	outDir := flag.String("out", ".", "Directory for PNG dumps")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: texdump [-textures dir] [-out dir] sketch.yaml")
		os.Exit(2)
	}

	def, err := sketch.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dir := *texDir
	if dir == "" {
		dir = def.Dir()
	}

	// Build texture index
	idx := texture.BuildIndex(dir)
	cache := texture.NewCache(idx)
	fmt.Printf("Textures: %d indexed under %s\n", idx.Len(), dir)

	var files []texFile
	for _, m := range def.Models {
		if m.Texture == "" {
			continue
		}
		src, ok := idx.ResolvePath(m.Texture)
		if !ok {
			fmt.Fprintf(os.Stderr, "ERR %s: texture %q not found\n", m.Name, m.Texture)
			continue
		}
		files = append(files, texFile{
			model:   m.Name,
			name:    m.Texture,
			srcPath: src,
			dstName: m.Name + "_" + filepath.Base(m.Texture) + "_dump.png",
		})
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, f := range files {
		if err := dumpTexture(cache, *outDir, f); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Printf("\nDone. %d texture(s) dumped.\n", len(files))
}

func checkNRGBAAlpha(tex *image.NRGBA, name string) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	var minA, maxA uint8 = 255, 0
	total := 0
	opaque := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := tex.Pix[y*tex.Stride+x*4+3]
			total++
			if a < minA {
				minA = a
			}
			if a > maxA {
				maxA = a
			}
			if a == 255 {
				opaque++
			}
		}
	}
	if total == 0 {
		fmt.Printf("%s: empty\n", name)
		return
	}
	fmt.Printf("%s: %dx%d, alpha: min=%d max=%d opaque=%d/%d (%.0f%%)\n",
		name, w, h, minA, maxA, opaque, total, 100*float64(opaque)/float64(total))
}
