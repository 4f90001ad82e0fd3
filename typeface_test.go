package flashcards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func testTypeface(t *testing.T) *Typeface {
	t.Helper()
	tf, err := ParseTypeface("gofont:regular", goregular.TTF)
	require.NoError(t, err)
	return tf
}

func TestTypeface_Resolve(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "broken.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0o644))
	good := filepath.Join(dir, "go.ttf")
	require.NoError(t, os.WriteFile(good, goregular.TTF, 0o644))

	t.Run("first loadable candidate wins", func(t *testing.T) {
		tf, warnings := ResolveTypeface([]string{filepath.Join(dir, "missing.ttf"), garbage, good}, dir)
		assert.False(t, tf.IsFallback())
		assert.Equal(t, good, tf.Source)
		// Missing files are silent, broken ones are reported.
		assert.Len(t, warnings, 1)
	})

	t.Run("builtin", func(t *testing.T) {
		tf, warnings := ResolveTypeface([]string{"gofont:bold"}, "")
		assert.False(t, tf.IsFallback())
		assert.Equal(t, "gofont:bold", tf.Source)
		assert.Empty(t, warnings)
	})

	t.Run("fallback", func(t *testing.T) {
		tf, warnings := ResolveTypeface([]string{filepath.Join(dir, "missing.ttf")}, "")
		assert.True(t, tf.IsFallback())
		assert.Empty(t, warnings)
		assert.Equal(t, "basicfont", tf.Family())
	})
}

func TestTypeface_Family(t *testing.T) {
	tf := testTypeface(t)
	assert.NotEmpty(t, tf.Family())
	assert.NotEqual(t, "basicfont", tf.Family())
}

func TestTypeface_MeasureGrowsWithSize(t *testing.T) {
	tf := testTypeface(t)

	w1, h1, err := tf.Measure("Apple", 40)
	require.NoError(t, err)
	w2, h2, err := tf.Measure("Apple", 80)
	require.NoError(t, err)
	assert.Greater(t, w2, w1)
	assert.Greater(t, h2, h1)

	wShort, _, err := tf.Measure("Ox", 40)
	require.NoError(t, err)
	assert.Greater(t, w1, wShort)
}

func TestTypeface_FallbackIgnoresSize(t *testing.T) {
	tf := FallbackTypeface()
	face, err := tf.Face(100)
	require.NoError(t, err)
	assert.Equal(t, basicfont.Face7x13, face)

	w1, h1, err := tf.Measure("A a", 10)
	require.NoError(t, err)
	w2, h2, err := tf.Measure("A a", 200)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
	assert.Greater(t, w1, 0)

	var nilTypeface *Typeface
	assert.True(t, nilTypeface.IsFallback())
}
