package flashcards

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// ErrMalformedMapping is returned when the letter → word mapping cannot be used.
var ErrMalformedMapping = errors.New("malformed mapping")

// Pair is one card of the deck: an upper case letter and its word.
type Pair struct {
	Letter string
	Word   string
}

// LettersText returns the upper and lower case letter pair shown on the card, e.g. "A a".
func (p Pair) LettersText() string {
	return p.Letter + " " + strings.ToLower(p.Letter)
}

// BaseName returns the output file name of the card without extension, e.g. "A (Apple)".
func (p Pair) BaseName() string {
	return fmt.Sprintf("%s (%s)", p.Letter, p.Word)
}

// LoadMapping reads a letter → word mapping file. Files with a .toml extension
// are read as a TOML table, everything else as a JSON object.
func LoadMapping(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	format := "json"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	pairs, err := ParseMapping(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

// ParseMapping decodes a mapping in the given format ("json" or "toml") and
// returns the pairs sorted by letter. Keys are case-insensitive and must be a
// single letter; words must not be empty.
func ParseMapping(data []byte, format string) ([]Pair, error) {
	raw := make(map[string]string)

	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrMalformedMapping, format)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(raw))
	seen := make(map[string]string, len(raw))
	for _, k := range keys {
		v := raw[k]
		key := strings.TrimSpace(k)
		r, n := utf8.DecodeRuneInString(key)
		if n == 0 || n != len(key) || !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: key %q is not a single letter", ErrMalformedMapping, k)
		}
		letter := strings.ToUpper(key)
		if prev, ok := seen[letter]; ok {
			return nil, fmt.Errorf("%w: letter %s defined twice (%q and %q)", ErrMalformedMapping, letter, prev, k)
		}
		seen[letter] = k

		word := strings.TrimSpace(v)
		if word == "" {
			return nil, fmt.Errorf("%w: empty word for letter %s", ErrMalformedMapping, letter)
		}
		pairs = append(pairs, Pair{Letter: letter, Word: word})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Letter < pairs[j].Letter
	})
	return pairs, nil
}
