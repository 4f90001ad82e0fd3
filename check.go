package flashcards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NamingReport compares the files of a generated deck with the names expected from its mapping.
type NamingReport struct {
	Expected []string
	SVGs     []string
	PNGs     []string

	MissingSVG []string
	MissingPNG []string
	ExtraSVG   []string
	ExtraPNG   []string
}

// OK reports whether both directories hold exactly the expected files.
func (r *NamingReport) OK() bool {
	return len(r.MissingSVG) == 0 && len(r.MissingPNG) == 0 &&
		len(r.ExtraSVG) == 0 && len(r.ExtraPNG) == 0
}

// CheckNames lists the *.svg files of svgDir and the *.png files of pngDir and
// compares their base names with the "<Letter> (<Word>)" names of pairs.
// A missing directory counts as an empty one.
func CheckNames(pairs []Pair, svgDir, pngDir string) (*NamingReport, error) {
	r := &NamingReport{}
	for _, p := range pairs {
		r.Expected = append(r.Expected, p.BaseName())
	}
	sort.Strings(r.Expected)

	var err error
	if r.SVGs, err = baseNames(svgDir, "*.svg"); err != nil {
		return nil, err
	}
	if r.PNGs, err = baseNames(pngDir, "*.png"); err != nil {
		return nil, err
	}

	r.MissingSVG, r.ExtraSVG = diffNames(r.Expected, r.SVGs)
	r.MissingPNG, r.ExtraPNG = diffNames(r.Expected, r.PNGs)
	return r, nil
}

// baseNames returns the sorted names, without extension, of the files of dir matching pattern.
func baseNames(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(filepath.FromSlash(m))
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names, nil
}

// diffNames returns the expected names absent from got and the names of got which were not expected.
func diffNames(expected, got []string) (missing, extra []string) {
	want := make(map[string]bool, len(expected))
	for _, n := range expected {
		want[n] = true
	}
	have := make(map[string]bool, len(got))
	for _, n := range got {
		have[n] = true
		if !want[n] {
			extra = append(extra, n)
		}
	}
	for _, n := range expected {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	return missing, extra
}
