package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/esimov/flashcards"
	"github.com/esimov/flashcards/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┬  ┬┌─┐┌─┐┌─┐┌┐┌┌─┐
└─┐└┐┌┘│ ┬┌─┘├─┘││││ ┬
└─┘ └┘ └─┘└──┴  ┘└┘└─┘

Bulk SVG to PNG flashcard converter.
    Version: %s

`

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitNoSource = 2
	exitFailures = 3
)

const (
	defaultWidth  = 1500
	defaultHeight = 2500
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Version indicates the current build version.
var Version string

// result holds the outcome of one conversion.
type result struct {
	src string
	dst string
	err error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("svg2png", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		source     = fs.String("src", ".", "Folder containing the SVG files")
		dest       = fs.String("out", "./png", "Output folder of the PNG files")
		width      = fs.Int("width", defaultWidth, "PNG width in pixels")
		height     = fs.Int("height", defaultHeight, "PNG height in pixels")
		pattern    = fs.String("pattern", "*.svg", "Glob matching the SVG files (** matches subfolders)")
		background = fs.String("background", "#FFFFFF", "Background color")
		fontSrc    = fs.String("font", "", "Font file, URL or builtin name used for the text")
		dryRun     = fs.Bool("dry-run", false, "Show what would be converted without writing files")
		workers    = fs.Int("conc", runtime.NumCPU(), "Number of files to convert concurrently")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, HelpBanner, Version)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFatal
	}
	utils.NoColor = !isTerminal(stderr)

	bg, err := flashcards.ParseColor(*background)
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}
	if *width < 0 || *height < 0 {
		fatal(stderr, fmt.Errorf("invalid output size %dx%d", *width, *height))
		return exitFatal
	}

	srcDir, err := filepath.Abs(*source)
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}
	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		fatal(stderr, fmt.Errorf("source folder not found: %s", srcDir))
		return exitNoSource
	}
	outDir, err := filepath.Abs(*dest)
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}

	matches, err := doublestar.Glob(os.DirFS(srcDir), *pattern, doublestar.WithFilesOnly())
	if err != nil {
		fatal(stderr, fmt.Errorf("invalid pattern %q: %w", *pattern, err))
		return exitFatal
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		fmt.Fprintf(stdout, "No SVGs found in %s matching %s\n", srcDir, *pattern)
		return exitOK
	}

	fmt.Fprintf(stdout, "Found %d SVGs in %s\n", len(matches), srcDir)
	fmt.Fprintf(stdout, "Output → %s at %d×%dpx\n", outDir, *width, *height)

	jobs := make([]result, len(matches))
	for i, m := range matches {
		rel := filepath.FromSlash(m)
		jobs[i] = result{
			src: filepath.Join(srcDir, rel),
			dst: filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".png"),
		}
	}

	if *dryRun {
		for _, j := range jobs {
			fmt.Fprintf(stdout, "[dry-run] %s  ->  %s\n", filepath.Base(j.src), filepath.Base(j.dst))
		}
		return exitOK
	}

	candidates := flashcards.DefaultFonts
	if *fontSrc != "" {
		candidates = append([]string{*fontSrc}, candidates...)
	}
	tf, warnings := flashcards.ResolveTypeface(candidates, "")
	for _, w := range warnings {
		fmt.Fprintln(stderr, utils.DecorateText("Warning: "+w, utils.WarningMessage))
	}
	rasterizer := &flashcards.NativeRasterizer{Typeface: tf}

	// Limit the concurrently running workers to maxWorkers.
	if *workers <= 0 || *workers > maxWorkers {
		*workers = runtime.NumCPU()
	}

	paths := make(chan result)
	res := make(chan result)
	go func() {
		defer close(paths)
		for _, j := range jobs {
			paths <- j
		}
	}()

	var wg sync.WaitGroup
	wg.Add(*workers)
	for i := 0; i < *workers; i++ {
		go func() {
			defer wg.Done()
			consumer(paths, rasterizer, *width, *height, bg, res)
		}()
	}
	// Close the channel after the values are consumed.
	go func() {
		defer close(res)
		wg.Wait()
	}()

	var failures int
	for r := range res {
		if r.err != nil {
			failures++
			fmt.Fprintln(stderr, utils.DecorateText(fmt.Sprintf("✘ FAILED: %s  (%v)", filepath.Base(r.src), r.err), utils.ErrorMessage))
			continue
		}
		fmt.Fprintf(stdout, "%s %s  →  %s\n", utils.DecorateText("✔", utils.SuccessMessage), filepath.Base(r.src), filepath.Base(r.dst))
	}

	if failures > 0 {
		fmt.Fprintf(stderr, "Done with %d failure(s).\n", failures)
		return exitFailures
	}
	fmt.Fprintln(stdout, "All done.")
	return exitOK
}

// consumer converts the files received on the jobs channel and sends the outcome on res.
func consumer(
	jobs <-chan result,
	r flashcards.Rasterizer,
	width, height int,
	bg color.Color,
	res chan<- result,
) {
	for j := range jobs {
		j.err = convert(j.src, j.dst, r, width, height, bg)
		res <- j
	}
}

// convert rasterizes the src SVG file into the dst PNG file.
func convert(src, dst string, r flashcards.Rasterizer, width, height int, bg color.Color) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	img, err := r.Rasterize(data, width, height, bg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return utils.WriteFile(dst, buf.Bytes(), 0o644)
}

func fatal(w io.Writer, err error) {
	fmt.Fprintln(w, utils.DecorateText("ERROR: "+err.Error(), utils.ErrorMessage))
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
