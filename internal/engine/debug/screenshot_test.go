package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
}

func TestGenerateFilename(t *testing.T) {
	sc := NewScreenshotCapture("shots", "blockwalk", FormatWebP)
	sc.now = fixedClock
	assert.Equal(t, filepath.Join("shots", "blockwalk_2024-03-01_12-30-45.000.webp"), sc.GenerateFilename())

	sc = NewScreenshotCapture("", "x", "gif")
	sc.now = fixedClock
	assert.Equal(t, FormatPNG, sc.Format())
	assert.Equal(t, "x_2024-03-01_12-30-45.000.png", sc.GenerateFilename())
}

func TestCaptureFromPixelsFlipsPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sc := NewScreenshotCapture(dir, "shot", FormatPNG)
	sc.now = fixedClock

	// Bottom row red, top row green, as OpenGL returns them.
	pixels := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, g, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), g)
	r, _, _, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestCaptureWebP(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot", FormatWebP)
	path, err := sc.CaptureFromPixels(make([]byte, 4*4*4), 4, 4)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Equal(t, ".webp", filepath.Ext(path))
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot", FormatPNG)
	_, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1)
	assert.Error(t, err)
}
