// Package imagemeta derives the classifier inputs from an uploaded product photo.
package imagemeta

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"

	"ecotrack-backend/internal/ecoscore"
)

// ErrUnsupportedFormat is returned for input none of the registered decoders accept.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// MaxDecodePixels caps the pixel area Extract fully decodes. A small compressed
// upload can declare dimensions that would need gigabytes once decoded.
const MaxDecodePixels = 40_000_000

const (
	maxSamples = 1 << 16
	// A quantized color must cover at least 1/predominantShare of the samples to count.
	predominantShare = 50
	// defaultColorCount is used when no color is predominant.
	defaultColorCount = 3
)

// Extract reads r and returns its dimensions, file size and predominant color count.
// sizeBytes is the stored object size; when it is not positive the bytes read are used.
//
// Dimensions come from the image header. Images above MaxDecodePixels are not
// decoded: they keep their real dimensions and report the default color count.
func Extract(r io.Reader, sizeBytes int64) (ecoscore.Metadata, error) {
	cr := &countingReader{r: r}
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(cr, &header))
	if err != nil {
		return ecoscore.Metadata{}, decodeError(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ecoscore.Metadata{}, fmt.Errorf("decode image: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}

	md := ecoscore.Metadata{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ColorCount: defaultColorCount,
	}
	if int64(cfg.Width)*int64(cfg.Height) <= MaxDecodePixels {
		img, _, err := image.Decode(io.MultiReader(&header, cr))
		if err != nil {
			return ecoscore.Metadata{}, decodeError(err)
		}
		md.ColorCount = PredominantColors(img)
	}

	if sizeBytes <= 0 {
		// Drain so the count covers bytes neither decoder consumed.
		_, _ = io.Copy(io.Discard, cr)
		sizeBytes = cr.n
	}
	md.FileSizeKB = float64(sizeBytes) / 1024
	return md, nil
}

func decodeError(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return ErrUnsupportedFormat
	}
	return fmt.Errorf("decode image: %w", err)
}

// PredominantColors samples img on a regular grid, quantizes each sample to 4 bits
// per channel and counts the buckets that hold at least 2% of the samples.
func PredominantColors(img image.Image) int {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return defaultColorCount
	}

	step := 1
	if area := w * h; area > maxSamples {
		step = int(math.Ceil(math.Sqrt(float64(area) / maxSamples)))
	}

	buckets := make(map[uint16]int)
	samples := 0
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, _ := img.At(x, y).RGBA()
			key := uint16(r>>12)<<8 | uint16(g>>12)<<4 | uint16(bl>>12)
			buckets[key]++
			samples++
		}
	}

	count := 0
	for _, n := range buckets {
		if n*predominantShare >= samples {
			count++
		}
	}
	if count == 0 {
		return defaultColorCount
	}
	return count
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
