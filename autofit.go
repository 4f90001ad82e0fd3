package flashcards

import (
	"errors"
	"fmt"

	"github.com/esimov/flashcards/utils"
)

// minFontSize is the smallest size tried by the autofit search.
const minFontSize = 8

// FitOptions controls the stepped font size search.
type FitOptions struct {
	// Start is the first size tried. Values below 8 are raised to 8.
	Start int
	// Step is the size increment between two tries.
	Step int
	// Ceiling is the largest size the search may return.
	Ceiling int
}

var (
	// LettersFit is the search used for the letter pair text ("A a").
	LettersFit = FitOptions{Start: 32, Step: 4, Ceiling: 2048}
	// WordFit is the search used for the word text.
	WordFit = FitOptions{Start: 28, Step: 3, Ceiling: 2048}
)

// FitResult is the font size chosen by Autofit together with the measured
// ink extents of the text at that size.
type FitResult struct {
	Size     int
	Width    int
	Height   int
	Fallback bool
}

// Validate checks that the options describe a terminating search.
func (o FitOptions) Validate() error {
	if o.Step <= 0 {
		return fmt.Errorf("autofit step must be positive, got %d", o.Step)
	}
	if o.Ceiling < minFontSize {
		return fmt.Errorf("autofit ceiling must be at least %d, got %d", minFontSize, o.Ceiling)
	}
	return nil
}

// Autofit finds the largest font size, in steps of opts.Step, for which text fits
// inside a maxW × maxH pixel box.
//
// Sizes are tried in increasing order starting at opts.Start; the first size which
// does not fit ends the search and the last fitting one is returned. When the very
// first size does not fit, it is returned anyway as the minimum size. The search
// never goes past opts.Ceiling.
//
// Without a real font (m.IsFallback) no reliable measurement exists: the size is
// derived from the box, max(24, min(maxW, maxH)/2), and the result is flagged.
func Autofit(m Measurer, text string, maxW, maxH int, opts FitOptions) (FitResult, error) {
	if m == nil {
		return FitResult{}, errors.New("autofit: nil measurer")
	}
	if err := opts.Validate(); err != nil {
		return FitResult{}, err
	}

	if m.IsFallback() {
		size := utils.Max(24, utils.Min(maxW, maxH)/2)
		w, h, err := m.Measure(text, size)
		if err != nil {
			return FitResult{}, err
		}
		return FitResult{Size: size, Width: w, Height: h, Fallback: true}, nil
	}

	size := utils.Min(utils.Max(minFontSize, opts.Start), opts.Ceiling)
	var (
		best  FitResult
		found bool
	)
	for ; size <= opts.Ceiling; size += opts.Step {
		w, h, err := m.Measure(text, size)
		if err != nil {
			return FitResult{}, err
		}
		if w > maxW || h > maxH {
			if !found {
				best = FitResult{Size: size, Width: w, Height: h}
			}
			break
		}
		best = FitResult{Size: size, Width: w, Height: h}
		found = true
	}
	return best, nil
}

// DeckSizes holds the font sizes shared by every card of a deck.
type DeckSizes struct {
	Letters int
	Word    int
}

// SharedSizes computes the font sizes used by the whole deck: for each text
// role it runs Autofit for every pair and keeps the smallest result, so that
// every card is rendered with the same type size. Positive override values
// are used as is, without any search.
func SharedSizes(pairs []Pair, layout Layout, m Measurer, lettersFit, wordFit FitOptions, overrides DeckSizes) (DeckSizes, error) {
	sizes := overrides
	if sizes.Letters > 0 && sizes.Word > 0 {
		return sizes, nil
	}

	var lettersMin, wordMin int
	for _, p := range pairs {
		if overrides.Letters <= 0 {
			res, err := Autofit(m, p.LettersText(), layout.Letters.W, layout.Letters.H, lettersFit)
			if err != nil {
				return DeckSizes{}, fmt.Errorf("fit %q: %w", p.LettersText(), err)
			}
			if lettersMin == 0 || res.Size < lettersMin {
				lettersMin = res.Size
			}
		}
		if overrides.Word <= 0 {
			res, err := Autofit(m, p.Word, layout.Word.W, layout.Word.H, wordFit)
			if err != nil {
				return DeckSizes{}, fmt.Errorf("fit %q: %w", p.Word, err)
			}
			if wordMin == 0 || res.Size < wordMin {
				wordMin = res.Size
			}
		}
	}

	if overrides.Letters <= 0 {
		sizes.Letters = lettersMin
	}
	if overrides.Word <= 0 {
		sizes.Word = wordMin
	}
	return sizes, nil
}
