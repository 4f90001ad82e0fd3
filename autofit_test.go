package flashcards

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearMeasurer measures every rune as half the size wide and the text as size tall.
type linearMeasurer struct {
	fallback bool
	calls    int
}

func (m *linearMeasurer) Measure(text string, size int) (int, int, error) {
	m.calls++
	return len([]rune(text)) * size / 2, size, nil
}

func (m *linearMeasurer) IsFallback() bool { return m.fallback }

type failingMeasurer struct{}

func (failingMeasurer) Measure(string, int) (int, int, error) { return 0, 0, errors.New("boom") }
func (failingMeasurer) IsFallback() bool                      { return false }

func TestAutofit_LargestFittingSize(t *testing.T) {
	testCases := []struct {
		name       string
		text       string
		maxW, maxH int
		opts       FitOptions
		want       FitResult
	}{
		{
			name: "height bound",
			text: "ab", maxW: 100, maxH: 50,
			opts: FitOptions{Start: 8, Step: 4, Ceiling: 2048},
			want: FitResult{Size: 48, Width: 48, Height: 48},
		},
		{
			name: "width bound",
			text: "abcdefghij", maxW: 100, maxH: 500,
			opts: FitOptions{Start: 8, Step: 4, Ceiling: 2048},
			want: FitResult{Size: 20, Width: 100, Height: 20},
		},
		{
			name: "nothing fits returns the first size",
			text: "ab", maxW: 100, maxH: 5,
			opts: FitOptions{Start: 32, Step: 4, Ceiling: 2048},
			want: FitResult{Size: 32, Width: 32, Height: 32},
		},
		{
			name: "start raised to the minimum",
			text: "ab", maxW: 100, maxH: 9,
			opts: FitOptions{Start: 1, Step: 3, Ceiling: 2048},
			want: FitResult{Size: 8, Width: 8, Height: 8},
		},
		{
			name: "ceiling caps the search",
			text: "ab", maxW: 1000, maxH: 1000,
			opts: FitOptions{Start: 8, Step: 4, Ceiling: 20},
			want: FitResult{Size: 20, Width: 20, Height: 20},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Autofit(&linearMeasurer{}, tc.text, tc.maxW, tc.maxH, tc.opts)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Autofit() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAutofit_StopsAtFirstFailure(t *testing.T) {
	m := &linearMeasurer{}
	_, err := Autofit(m, "ab", 100, 50, FitOptions{Start: 8, Step: 4, Ceiling: 2048})
	require.NoError(t, err)
	// 8..48 fit, 52 is the first failure.
	assert.Equal(t, 12, m.calls)
}

func TestAutofit_InvalidOptions(t *testing.T) {
	for _, opts := range []FitOptions{
		{Start: 8, Step: 0, Ceiling: 100},
		{Start: 8, Step: -2, Ceiling: 100},
		{Start: 8, Step: 2, Ceiling: 4},
	} {
		_, err := Autofit(&linearMeasurer{}, "A a", 100, 100, opts)
		assert.Error(t, err, "options %+v", opts)
	}
	_, err := Autofit(nil, "A a", 100, 100, LettersFit)
	assert.Error(t, err)
}

func TestAutofit_MeasureError(t *testing.T) {
	_, err := Autofit(failingMeasurer{}, "A a", 100, 100, LettersFit)
	assert.EqualError(t, err, "boom")
}

func TestAutofit_Fallback(t *testing.T) {
	got, err := Autofit(&linearMeasurer{fallback: true}, "ab", 100, 30, LettersFit)
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Equal(t, 24, got.Size)

	got, err = Autofit(&linearMeasurer{fallback: true}, "ab", 400, 300, LettersFit)
	require.NoError(t, err)
	assert.Equal(t, 150, got.Size)
}

func TestAutofit_RealFont(t *testing.T) {
	tf := testTypeface(t)
	maxW, maxH := 630, 400
	opts := LettersFit

	got, err := Autofit(tf, "A a", maxW, maxH, opts)
	require.NoError(t, err)
	assert.False(t, got.Fallback)
	assert.LessOrEqual(t, got.Width, maxW)
	assert.LessOrEqual(t, got.Height, maxH)
	assert.Greater(t, got.Size, opts.Start)

	w, h, err := tf.Measure("A a", got.Size+opts.Step)
	require.NoError(t, err)
	assert.True(t, w > maxW || h > maxH, "the next size should not fit")
}

func TestAutofit_MonotonicInBox(t *testing.T) {
	tf := testTypeface(t)
	prev := 0
	for _, w := range []int{100, 200, 400, 800} {
		got, err := Autofit(tf, "Elephant", w, 300, WordFit)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Size, prev)
		prev = got.Size
	}
}

func TestAutofit_LargerStepNeverFitsLarger(t *testing.T) {
	tf := testTypeface(t)
	for _, w := range []int{150, 300, 450, 700, 1000, 1350} {
		for _, text := range []string{"A a", "Watermelon"} {
			fine, err := Autofit(tf, text, w, 400, FitOptions{Start: 16, Step: 2, Ceiling: 2048})
			require.NoError(t, err)
			coarse, err := Autofit(tf, text, w, 400, FitOptions{Start: 16, Step: 4, Ceiling: 2048})
			require.NoError(t, err)
			coarser, err := Autofit(tf, text, w, 400, FitOptions{Start: 16, Step: 8, Ceiling: 2048})
			require.NoError(t, err)

			assert.LessOrEqual(t, coarse.Size, fine.Size, "%q in %dpx", text, w)
			assert.LessOrEqual(t, coarser.Size, coarse.Size, "%q in %dpx", text, w)
		}
	}
}

func TestSharedSizes(t *testing.T) {
	layout, err := NewLayout(1500, 2500)
	require.NoError(t, err)
	pairs := []Pair{{"C", "Cat"}, {"E", "Elephant"}, {"O", "Ox"}}
	tf := testTypeface(t)

	sizes, err := SharedSizes(pairs, layout, tf, LettersFit, WordFit, DeckSizes{})
	require.NoError(t, err)

	for _, p := range pairs {
		res, err := Autofit(tf, p.Word, layout.Word.W, layout.Word.H, WordFit)
		require.NoError(t, err)
		assert.LessOrEqual(t, sizes.Word, res.Size, p.Word)

		res, err = Autofit(tf, p.LettersText(), layout.Letters.W, layout.Letters.H, LettersFit)
		require.NoError(t, err)
		assert.LessOrEqual(t, sizes.Letters, res.Size, p.Letter)
	}

	longest, err := Autofit(tf, "Elephant", layout.Word.W, layout.Word.H, WordFit)
	require.NoError(t, err)
	assert.Equal(t, longest.Size, sizes.Word)
}

func TestSharedSizes_Overrides(t *testing.T) {
	layout, err := NewLayout(1500, 2500)
	require.NoError(t, err)
	pairs := []Pair{{"A", "Apple"}}

	m := &linearMeasurer{}
	sizes, err := SharedSizes(pairs, layout, m, LettersFit, WordFit, DeckSizes{Letters: 100, Word: 90})
	require.NoError(t, err)
	assert.Equal(t, DeckSizes{Letters: 100, Word: 90}, sizes)
	assert.Zero(t, m.calls)

	sizes, err = SharedSizes(pairs, layout, m, LettersFit, WordFit, DeckSizes{Word: 90})
	require.NoError(t, err)
	assert.Equal(t, 90, sizes.Word)
	assert.Greater(t, sizes.Letters, 0)
}

func TestSharedSizes_IsDeterministic(t *testing.T) {
	layout, err := NewLayout(600, 1000)
	require.NoError(t, err)
	pairs := []Pair{{"A", "Apple"}, {"B", "Ball"}, {"Z", "Zebra"}}
	tf := testTypeface(t)

	first, err := SharedSizes(pairs, layout, tf, LettersFit, WordFit, DeckSizes{})
	require.NoError(t, err)
	second, err := SharedSizes(pairs, layout, tf, LettersFit, WordFit, DeckSizes{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
