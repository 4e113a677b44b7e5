package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ErrUnsupportedImage marks uploads that do not decode as JPEG or PNG.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Preprocessor validates scan uploads and bounds their dimensions before
// they are forwarded to the inference backend.
type Preprocessor struct {
	maxDim  int
	quality int
}

func NewPreprocessor(maxDim int) *Preprocessor {
	if maxDim <= 0 {
		maxDim = 1600
	}
	return &Preprocessor{
		maxDim:  maxDim,
		quality: 85,
	}
}

// Prepare decodes the upload, downscales anything larger than maxDim on
// its longest side and re-encodes in the original format. Images already
// within bounds pass through untouched.
func (p *Preprocessor) Prepare(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= p.maxDim && bounds.Dy() <= p.maxDim {
		return data, format, nil
	}

	resized := p.resize(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality})
	case "png":
		err = png.Encode(&buf, resized)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to re-encode image: %w", err)
	}
	return buf.Bytes(), format, nil
}

func (p *Preprocessor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := p.maxDim
	newHeight := p.maxDim
	if ratio > 1 {
		newHeight = int(float64(p.maxDim) / ratio)
	} else {
		newWidth = int(float64(p.maxDim) * ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
