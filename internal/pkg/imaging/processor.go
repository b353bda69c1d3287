package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Config for image processing
type Config struct {
	Width   int // output width (default 500)
	Height  int // output height (default 500)
	Quality int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns the profile picture transformation
func DefaultConfig() Config {
	return Config{
		Width:   500,
		Height:  500,
		Quality: 85,
	}
}

// Processor center-crops images to a fixed size
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Fill decodes data, scales and center-crops it to the configured size and
// re-encodes it as JPEG
func (p *Processor) Fill(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	out := imaging.Fill(img, p.config.Width, p.config.Height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType of the images produced by Fill
func (p *Processor) ContentType() string {
	return "image/jpeg"
}
