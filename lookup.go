package flashcards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// IllustrationExts are the supported illustration file extensions, in tie-break priority order.
var IllustrationExts = []string{".png", ".jpg", ".jpeg", ".webp"}

// Illustrations locates the illustration image of a word.
type Illustrations interface {
	Find(word string) (path string, ok bool)
}

// IllustrationsFunc adapts an ordinary function to the Illustrations interface.
type IllustrationsFunc func(word string) (string, bool)

// Find calls f(word).
func (f IllustrationsFunc) Find(word string) (string, bool) {
	return f(word)
}

// DirIllustrations indexes the illustrations stored in a single directory.
// A file matches a word when its extension is supported and its normalized
// stem equals the normalized word, e.g. "Ice-Cream.PNG" matches "ice cream".
type DirIllustrations struct {
	Dir   string
	index map[string]string
}

var _ Illustrations = (*DirIllustrations)(nil)

// NewDirIllustrations scans dir, non recursively, and indexes the supported image files.
// When several files map to the same word, the extension priority of IllustrationExts
// decides, then the file name.
func NewDirIllustrations(dir string) (*DirIllustrations, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read illustrations directory: %w", err)
	}

	type candidate struct {
		name string
		rank int
	}
	best := make(map[string]candidate)

	for _, e := range entries {
		name := e.Name()
		if !isRegularFile(dir, e) {
			continue
		}
		rank := extRank(filepath.Ext(name))
		if rank < 0 {
			continue
		}
		key := Normalize(strings.TrimSuffix(name, filepath.Ext(name)))
		if key == "" {
			continue
		}
		c, ok := best[key]
		if !ok || rank < c.rank || (rank == c.rank && name < c.name) {
			best[key] = candidate{name: name, rank: rank}
		}
	}

	index := make(map[string]string, len(best))
	for k, c := range best {
		index[k] = filepath.Join(dir, c.name)
	}
	return &DirIllustrations{Dir: dir, index: index}, nil
}

// Find returns the path of the illustration matching word.
func (d *DirIllustrations) Find(word string) (string, bool) {
	p, ok := d.index[Normalize(word)]
	return p, ok
}

// Words returns the normalized keys of the indexed illustrations, sorted.
func (d *DirIllustrations) Words() []string {
	keys := make([]string, 0, len(d.index))
	for k := range d.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize lowercases s and drops every rune which is not a letter or a digit.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isRegularFile reports whether e is a regular file, following symbolic links.
func isRegularFile(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		return err == nil && info.Mode().IsRegular()
	}
	return e.Type().IsRegular()
}

// extRank returns the priority of a file extension, -1 when it is not supported.
func extRank(ext string) int {
	ext = strings.ToLower(ext)
	for i, e := range IllustrationExts {
		if e == ext {
			return i
		}
	}
	return -1
}
