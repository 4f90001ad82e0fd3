package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/esimov/flashcards"
	"github.com/esimov/flashcards/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┬  ┌─┐┌─┐┬ ┬┌─┐┌─┐┬─┐┌┬┐┌─┐
├┤ │  ├─┤└─┐├─┤│  ├─┤├┬┘ ││└─┐
└  ┴─┘┴ ┴└─┘┴ ┴└─┘┴ ┴┴└──┴┘└─┘

Illustrated letter/word flashcard generator.
    Version: %s

`

// Exit codes.
const (
	exitOK      = 0
	exitFatal   = 1
	exitFailure = 3
)

// Version indicates the current build version.
var Version string

// options holds the command line flags.
type options struct {
	mapping string
	images  string
	out     string
	config  string

	width, height   int
	font            string
	fontCache       string
	letterColor     string
	wordColor       string
	svgFontFamily   string
	lettersFontSize int
	wordFontSize    int

	trim          bool
	trimTolerance int
	trimPad       float64

	logFile  string
	logLevel string
	watch    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	defaults := flashcards.DefaultConfig()

	opts := options{}
	fs := flag.NewFlagSet("flashcards", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.mapping, "mapping", "", "Letter to word mapping file (JSON object or TOML table)")
	fs.StringVar(&opts.images, "images", "", "Directory of the illustrations")
	fs.StringVar(&opts.out, "out", "output", "Output directory")
	fs.StringVar(&opts.config, "config", "", "TOML configuration file")
	fs.IntVar(&opts.width, "width", defaults.Width, "Card width")
	fs.IntVar(&opts.height, "height", defaults.Height, "Card height")
	fs.StringVar(&opts.font, "font", "", "Font file, URL or builtin name (gofont:regular, gofont:bold)")
	fs.StringVar(&opts.fontCache, "font_cache", "", "Directory of the downloaded fonts")
	fs.StringVar(&opts.letterColor, "letter_color", defaults.LetterColor, "Letter pair color")
	fs.StringVar(&opts.wordColor, "word_color", defaults.WordColor, "Word color")
	fs.StringVar(&opts.svgFontFamily, "svg_font_family", defaults.SVGFontFamily, "Preferred font family of the SVG text")
	fs.IntVar(&opts.lettersFontSize, "letters_font_size", 0, "Fixed letter pair font size (0 for autofit)")
	fs.IntVar(&opts.wordFontSize, "word_font_size", 0, "Fixed word font size (0 for autofit)")
	fs.BoolVar(&opts.trim, "trim", defaults.Trim.Enabled, "Trim the illustration background")
	fs.IntVar(&opts.trimTolerance, "trim_tolerance", defaults.Trim.Tolerance, "Background trimming tolerance")
	fs.Float64Var(&opts.trimPad, "trim_pad", defaults.Trim.PadRatio, "Padding kept around the trimmed illustration")
	fs.StringVar(&opts.logFile, "log", "", "Log file, rotated by size")
	fs.StringVar(&opts.logLevel, "log_level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate the deck on mapping or illustration changes")

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

	if opts.mapping == "" || opts.images == "" {
		fs.Usage()
		fatal(stderr, errors.New("please provide the -mapping file and the -images directory"))
		return exitFatal
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}

	// The console belongs to the progress indicator when attached to a terminal.
	logOut := stderr
	if isTerminal(stderr) {
		logOut = io.Discard
	}
	logger, closer := utils.NewLogger(logOut, cfg.Log.File, utils.ParseLevel(cfg.Log.Level))
	defer closer.Close()

	gen, err := newGenerator(cfg, opts, logger, stderr)
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}

	code := generate(gen, opts, stderr)
	if !opts.watch {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(stderr, utils.DecorateText("Watching for changes, press CTRL-C to quit...", utils.StatusMessage))
	err = flashcards.Watch(ctx, []string{opts.mapping, opts.images}, 300*time.Millisecond, func() {
		if err := reload(gen, opts); err != nil {
			logger.Error("reload failed", "error", err)
			fmt.Fprintln(stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
			return
		}
		code = generate(gen, opts, stderr)
	})
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}
	return code
}

// loadConfig merges the configuration file with the flags set on the command line.
func loadConfig(fs *flag.FlagSet, opts options) (flashcards.Config, error) {
	cfg := flashcards.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = flashcards.LoadConfig(opts.config); err != nil {
			return cfg, err
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	override := func(name string, apply func()) {
		if set[name] || opts.config == "" {
			apply()
		}
	}

	override("width", func() { cfg.Width = opts.width })
	override("height", func() { cfg.Height = opts.height })
	override("letter_color", func() { cfg.LetterColor = opts.letterColor })
	override("word_color", func() { cfg.WordColor = opts.wordColor })
	override("svg_font_family", func() { cfg.SVGFontFamily = opts.svgFontFamily })
	override("letters_font_size", func() { cfg.LettersFontSize = opts.lettersFontSize })
	override("word_font_size", func() { cfg.WordFontSize = opts.wordFontSize })
	override("trim", func() { cfg.Trim.Enabled = opts.trim })
	override("trim_tolerance", func() { cfg.Trim.Tolerance = opts.trimTolerance })
	override("trim_pad", func() { cfg.Trim.PadRatio = opts.trimPad })
	override("log_level", func() { cfg.Log.Level = opts.logLevel })
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.fontCache != "" {
		cfg.FontCache = opts.fontCache
	}
	if opts.font != "" {
		cfg.Fonts = append([]string{opts.font}, cfg.Fonts...)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newGenerator validates the inputs and builds the deck generator.
// Nothing is written to the output directory before it succeeds.
func newGenerator(cfg flashcards.Config, opts options, logger *slog.Logger, stderr io.Writer) (*flashcards.Generator, error) {
	letterColor, wordColor, err := cfg.Colors()
	if err != nil {
		return nil, err
	}
	crop, err := cfg.CropOptions()
	if err != nil {
		return nil, err
	}
	layout, err := flashcards.NewLayout(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	tf, warnings := flashcards.ResolveTypeface(cfg.Fonts, cfg.FontCache)
	for _, w := range warnings {
		logger.Warn("font candidate rejected", "reason", w)
	}
	if tf.IsFallback() {
		logger.Warn("no usable font found, using the builtin bitmap font")
		fmt.Fprintln(stderr, utils.DecorateText("Warning: no usable font found, text is rendered with the builtin bitmap font.", utils.WarningMessage))
	} else {
		logger.Info("font loaded", "source", tf.Source, "family", tf.Family())
	}

	gen := &flashcards.Generator{
		Composer: flashcards.Composer{
			Layout:      layout,
			Typeface:    tf,
			LetterColor: letterColor,
			WordColor:   wordColor,
			FontFamily:  cfg.SVGFontFamily,
			Crop:        crop,
		},
		Overrides: cfg.Overrides(),
		OutDir:    opts.out,
		Logger:    logger,
	}
	if err := reload(gen, opts); err != nil {
		return nil, err
	}
	return gen, nil
}

// reload reads the mapping and rescans the illustrations directory.
func reload(gen *flashcards.Generator, opts options) error {
	if _, err := flashcards.LoadMapping(opts.mapping); err != nil {
		return err
	}
	images, err := flashcards.NewDirIllustrations(opts.images)
	if err != nil {
		return err
	}
	gen.Illustrations = images
	return nil
}

// generate runs the generator over the mapping and prints the summary.
func generate(gen *flashcards.Generator, opts options, stderr io.Writer) int {
	pairs, err := flashcards.LoadMapping(opts.mapping)
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}

	var spinner *utils.Spinner
	if isTerminal(stderr) {
		spinner = utils.NewSpinner(stderr, "", 100*time.Millisecond, true)
		gen.Progress = func(stage flashcards.Stage, p flashcards.Pair, i, n int) {
			switch stage {
			case flashcards.StageSizing:
				spinner.SetMessage(utils.DecorateText("⚡ FLASHCARDS ", utils.StatusMessage) +
					utils.DecorateText("is fitting the fonts...", utils.DefaultMessage))
				spinner.Start()
			case flashcards.StageCard:
				spinner.SetMessage(utils.DecorateText("⚡ FLASHCARDS ", utils.StatusMessage) +
					utils.DecorateText(fmt.Sprintf("is rendering %s (%d/%d)...", p.BaseName(), i+1, n), utils.DefaultMessage))
			case flashcards.StageDone:
				spinner.Stop()
			}
		}
		// Capture CTRL-C signal and restore the cursor visibility back.
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer func() {
			signal.Stop(sig)
			close(sig)
		}()
		go func() {
			if _, ok := <-sig; ok {
				spinner.RestoreCursor()
				os.Exit(exitFatal)
			}
		}()
	}

	now := time.Now()
	report, err := gen.Run(pairs)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		fatal(stderr, err)
		return exitFatal
	}
	printReport(stderr, report, gen.OutDir)
	fmt.Fprintf(stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	if len(report.Failed) > 0 {
		return exitFailure
	}
	return exitOK
}

// printReport displays the relevant information about the generated deck.
func printReport(w io.Writer, r *flashcards.Report, out string) {
	fmt.Fprintf(w, "\nFont sizes: letters %s, word %s\n",
		utils.DecorateText(fmt.Sprint(r.Sizes.Letters), utils.StatusMessage),
		utils.DecorateText(fmt.Sprint(r.Sizes.Word), utils.StatusMessage),
	)
	fmt.Fprintf(w, "Generated %s cards in %s\n",
		utils.DecorateText(fmt.Sprint(len(r.Generated)), utils.SuccessMessage),
		filepath.Clean(out),
	)
	if len(r.Skipped) > 0 {
		fmt.Fprintln(w, utils.DecorateText(fmt.Sprintf("Skipped %d cards without illustration:", len(r.Skipped)), utils.WarningMessage))
		for _, p := range r.Skipped {
			fmt.Fprintf(w, "\t%s\n", p.BaseName())
		}
	}
	if len(r.Failed) > 0 {
		fmt.Fprintln(w, utils.DecorateText(fmt.Sprintf("Failed to render %d cards:", len(r.Failed)), utils.ErrorMessage))
		for _, e := range r.Failed {
			fmt.Fprintf(w, "\t%s\n\t\tReason: %v\n", e.Name, e.Err)
		}
	}
}

func fatal(w io.Writer, err error) {
	fmt.Fprintln(w, utils.DecorateText("Error: "+err.Error(), utils.ErrorMessage))
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
