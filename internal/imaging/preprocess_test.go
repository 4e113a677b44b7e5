package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestSmallImagePassesThroughUntouched(t *testing.T) {
	p := NewPreprocessor(1600)
	original := encodePNG(t, 640, 480)

	out, format, err := p.Prepare(original)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, original, out)
}

func TestOversizedImageIsDownscaled(t *testing.T) {
	p := NewPreprocessor(800)

	out, format, err := p.Prepare(encodeJPEG(t, 3200, 1600))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	cfg, decodedFormat, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", decodedFormat)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestPortraitAspectRatioIsPreserved(t *testing.T) {
	p := NewPreprocessor(1000)

	out, _, err := p.Prepare(encodePNG(t, 500, 2000))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Width)
	assert.Equal(t, 1000, cfg.Height)
}

func TestGarbageIsRejected(t *testing.T) {
	p := NewPreprocessor(1600)

	_, _, err := p.Prepare([]byte("definitely not pixels"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
