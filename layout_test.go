package flashcards

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_DefaultCanvas(t *testing.T) {
	got, err := NewLayout(1500, 2500)
	require.NoError(t, err)

	want := Layout{
		Width:        1500,
		Height:       2500,
		Margin:       75,
		TextPadding:  15,
		Letters:      Box{X: 75, Y: 150, W: 630, H: 400},
		Word:         Box{X: 75, Y: 2000, W: 1350, H: 300},
		Illustration: Box{X: 75, Y: 625, W: 1350, H: 1300},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewLayout() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_BoxesStayInsideCanvas(t *testing.T) {
	for _, size := range [][2]int{{300, 500}, {1500, 2500}, {1000, 1000}, {2500, 1500}} {
		l, err := NewLayout(size[0], size[1])
		require.NoError(t, err)

		canvas := Box{W: l.Width, H: l.Height}.Rect()
		for name, b := range map[string]Box{"letters": l.Letters, "word": l.Word, "illustration": l.Illustration} {
			assert.True(t, b.Rect().In(canvas), "%s box %v outside %v", name, b, canvas)
		}
		assert.LessOrEqual(t, l.Letters.Y+l.Letters.H, l.Illustration.Y)
		assert.LessOrEqual(t, l.Illustration.Y+l.Illustration.H, l.Word.Y)
		// The word box is centred.
		assert.InDelta(t, l.Width/2, l.Word.X+l.Word.W/2, 1)
	}
}

func TestLayout_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 100}, {100, 0}, {-5, 10}, {100, 1}} {
		_, err := NewLayout(size[0], size[1])
		assert.Error(t, err, "size %v", size)
	}
}
