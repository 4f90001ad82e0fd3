package flashcards

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/esimov/flashcards/utils"
)

// Output subdirectories of a deck.
const (
	SVGDir = "svgs"
	PNGDir = "pngs"
)

// ItemError is a per card failure recorded by the generator.
type ItemError struct {
	Name string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// Report summarizes a deck run.
type Report struct {
	Sizes     DeckSizes
	Generated []string
	Skipped   []Pair
	Failed    []ItemError
}

// OK reports whether every card was generated.
func (r *Report) OK() bool {
	return len(r.Skipped) == 0 && len(r.Failed) == 0
}

// Stage identifies the progress callback events.
type Stage int

// The generator stages.
const (
	StageSizing Stage = iota
	StageCard
	StageDone
)

// Generator produces the SVG and PNG files of a deck.
type Generator struct {
	Composer
	Illustrations Illustrations

	// Overrides forces the deck font sizes when positive.
	Overrides  DeckSizes
	LettersFit FitOptions
	WordFit    FitOptions

	// OutDir receives the svgs and pngs subdirectories.
	OutDir string
	Logger *slog.Logger
	// Progress, when set, is called before every stage with the current pair, if any.
	Progress func(stage Stage, p Pair, index, total int)
}

// Run generates the cards of pairs in two passes. The first pass computes the
// font sizes shared by the whole deck, the second renders and writes every card.
//
// Pairs without an illustration are skipped and the ones failing to render are
// recorded in the report; neither stops the run. The returned error is reserved
// to problems which prevent the deck from being produced at all, in which case
// no output is written.
func (g *Generator) Run(pairs []Pair) (*Report, error) {
	if g.Illustrations == nil {
		return nil, errors.New("generator: no illustration source")
	}
	if g.OutDir == "" {
		return nil, errors.New("generator: empty output directory")
	}
	lettersFit, wordFit := g.fitOptions()
	for _, o := range []FitOptions{lettersFit, wordFit} {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
	}
	logger := g.logger()

	g.progress(StageSizing, Pair{}, 0, len(pairs))
	sizes, err := SharedSizes(pairs, g.Layout, g.measurer(), lettersFit, wordFit, g.Overrides)
	if err != nil {
		return nil, fmt.Errorf("compute deck font sizes: %w", err)
	}
	logger.Info("deck font sizes", "letters", sizes.Letters, "word", sizes.Word, "fallback", g.measurer().IsFallback())

	svgDir := filepath.Join(g.OutDir, SVGDir)
	pngDir := filepath.Join(g.OutDir, PNGDir)
	for _, dir := range []string{svgDir, pngDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	report := &Report{Sizes: sizes}
	for i, p := range pairs {
		g.progress(StageCard, p, i, len(pairs))

		name := p.BaseName()
		path, ok := g.Illustrations.Find(p.Word)
		if !ok {
			logger.Warn("illustration not found", "card", name)
			report.Skipped = append(report.Skipped, p)
			continue
		}
		if err := g.render(p, path, sizes, svgDir, pngDir); err != nil {
			logger.Error("card failed", "card", name, "error", err)
			report.Failed = append(report.Failed, ItemError{Name: name, Err: err})
			continue
		}
		logger.Debug("card generated", "card", name, "illustration", path)
		report.Generated = append(report.Generated, name)
	}
	g.progress(StageDone, Pair{}, len(pairs), len(pairs))

	logger.Info("deck generated",
		"generated", len(report.Generated),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
	)
	return report, nil
}

// render composes one card and writes both of its files.
func (g *Generator) render(p Pair, illustration string, sizes DeckSizes, svgDir, pngDir string) error {
	img, err := decodeImg(illustration)
	if err != nil {
		return err
	}
	card, err := g.Compose(p, img, sizes)
	if err != nil {
		return err
	}
	data, err := encodePNG(card.Raster)
	if err != nil {
		return err
	}

	// The PNG goes first and is removed again when the SVG cannot be written,
	// so a card is either complete or absent.
	name := p.BaseName()
	pngPath := filepath.Join(pngDir, name+".png")
	if err := utils.WriteFile(pngPath, data, 0o644); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	if err := utils.WriteFile(filepath.Join(svgDir, name+".svg"), card.SVG, 0o644); err != nil {
		os.Remove(pngPath)
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func (g *Generator) fitOptions() (FitOptions, FitOptions) {
	lf, wf := g.LettersFit, g.WordFit
	if lf == (FitOptions{}) {
		lf = LettersFit
	}
	if wf == (FitOptions{}) {
		wf = WordFit
	}
	return lf, wf
}

func (g *Generator) measurer() Measurer {
	if g.Typeface == nil {
		return FallbackTypeface()
	}
	return g.Typeface
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.Logger
}

func (g *Generator) progress(stage Stage, p Pair, i, n int) {
	if g.Progress != nil {
		g.Progress(stage, p, i, n)
	}
}
