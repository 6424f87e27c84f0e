// Command facedump opens font files through one shared fontface.Library and
// prints what each face reports.
//
// Usage:
//
//	facedump [-engine sfnt|gotext|freetype] [-index N] [-workers N] [-v] font...
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/fontface"
	_ "github.com/gogpu/fontface/freetype"
	"github.com/gogpu/fontface/internal/parallel"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// result is the outcome of opening one font.
type result struct {
	info fontface.FaceInfo
	err  error
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("facedump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		engine  = fs.String("engine", "sfnt", "font engine: "+strings.Join(fontface.Engines(), ", "))
		index   = fs.Int("index", 0, "face index within each file")
		workers = fs.Int("workers", 0, "concurrent opens (0 = GOMAXPROCS)")
		verbose = fs.Bool("v", false, "log library and face lifecycle to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: facedump [flags] font...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}

	if *verbose {
		fontface.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer fontface.SetLogger(nil)
	}

	lib, err := fontface.NewLibrary(fontface.WithEngine(*engine))
	if err != nil {
		fmt.Fprintf(stderr, "facedump: %v\n", err)
		return 1
	}

	results := open(lib, paths, *index, *workers)

	if err := lib.Release(); err != nil {
		fmt.Fprintf(stderr, "facedump: %v\n", err)
		return 1
	}

	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "facedump: %v\n", r.err)
			continue
		}
		fmt.Fprintf(stdout, "%s[%d]\tfamily=%q style=%q glyphs=%d upem=%d faces=%d\n",
			paths[i], *index, r.info.Family, r.info.Style, r.info.NumGlyphs, r.info.UnitsPerEm, r.info.NumFaces)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// open creates one face per path concurrently on lib, describes it and
// releases it again.
func open(lib *fontface.Library, paths []string, index, workers int) []result {
	pool := parallel.NewPool(workers)
	defer pool.Close()

	results := make([]result, len(paths))
	pool.Map(len(paths), func(i int) {
		face, err := fontface.NewGeneratorFile(paths[i], index).CreateFace(lib)
		if err != nil {
			results[i].err = err
			return
		}
		info, err := face.Info()
		results[i] = result{info: info, err: errors.Join(err, face.Release())}
	})
	return results
}
