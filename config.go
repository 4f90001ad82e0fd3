package flashcards

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the deck settings which can be read from a TOML file.
//
//	fonts = ["fonts/Andika-Regular.ttf", "gofont:bold"]
//	width = 1500
//	height = 2500
//	letter_color = "#FF0000"
//
//	[trim]
//	enabled = true
//	tolerance = 10
type Config struct {
	Fonts     []string `toml:"fonts"`
	FontCache string   `toml:"font_cache"`

	Width  int `toml:"width"`
	Height int `toml:"height"`

	LetterColor   string `toml:"letter_color"`
	WordColor     string `toml:"word_color"`
	SVGFontFamily string `toml:"svg_font_family"`

	LettersFontSize int `toml:"letters_font_size"`
	WordFontSize    int `toml:"word_font_size"`

	Trim TrimConfig `toml:"trim"`
	Log  LogConfig  `toml:"log"`
}

// TrimConfig is the illustration trimming section of Config.
type TrimConfig struct {
	Enabled    bool    `toml:"enabled"`
	Background string  `toml:"background"`
	Tolerance  int     `toml:"tolerance"`
	PadRatio   float64 `toml:"pad_ratio"`
}

// LogConfig is the logging section of Config.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns the settings used when no configuration file is given.
func DefaultConfig() Config {
	crop := DefaultCropOptions()
	return Config{
		Fonts:         append([]string(nil), DefaultFonts...),
		Width:         1500,
		Height:        2500,
		LetterColor:   "#FF0000",
		WordColor:     "#000000",
		SVGFontFamily: DefaultFontFamily,
		Trim: TrimConfig{
			Enabled:    true,
			Background: HexColor(crop.Background),
			Tolerance:  int(crop.Tolerance),
			PadRatio:   crop.PadRatio,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML configuration file over the default settings.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks the settings, reporting every problem found.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height))
	}
	if _, err := ParseColor(c.LetterColor); err != nil {
		errs = append(errs, fmt.Errorf("letter color: %w", err))
	}
	if _, err := ParseColor(c.WordColor); err != nil {
		errs = append(errs, fmt.Errorf("word color: %w", err))
	}
	if c.LettersFontSize < 0 || c.WordFontSize < 0 {
		errs = append(errs, errors.New("font sizes must not be negative"))
	}
	if c.Trim.Enabled {
		if _, err := ParseColor(c.Trim.Background); err != nil {
			errs = append(errs, fmt.Errorf("trim background: %w", err))
		}
		if c.Trim.Tolerance < 0 || c.Trim.Tolerance > 255 {
			errs = append(errs, fmt.Errorf("trim tolerance must be within [0, 255], got %d", c.Trim.Tolerance))
		}
		if c.Trim.PadRatio < 0 || c.Trim.PadRatio >= 0.5 {
			errs = append(errs, fmt.Errorf("trim pad ratio must be within [0, 0.5), got %g", c.Trim.PadRatio))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Colors returns the parsed letter and word colors.
func (c Config) Colors() (letter, word color.NRGBA, err error) {
	if letter, err = ParseColor(c.LetterColor); err != nil {
		return letter, word, fmt.Errorf("letter color: %w", err)
	}
	if word, err = ParseColor(c.WordColor); err != nil {
		return letter, word, fmt.Errorf("word color: %w", err)
	}
	return letter, word, nil
}

// CropOptions returns the trimming options, nil when trimming is disabled.
func (c Config) CropOptions() (*CropOptions, error) {
	if !c.Trim.Enabled {
		return nil, nil
	}
	bg, err := ParseColor(c.Trim.Background)
	if err != nil {
		return nil, fmt.Errorf("trim background: %w", err)
	}
	return &CropOptions{
		Background: bg,
		Tolerance:  uint8(c.Trim.Tolerance),
		PadRatio:   c.Trim.PadRatio,
	}, nil
}

// Overrides returns the fixed deck font sizes, zero meaning autofit.
func (c Config) Overrides() DeckSizes {
	return DeckSizes{Letters: c.LettersFontSize, Word: c.WordFontSize}
}
