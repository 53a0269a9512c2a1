package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// combineGap is the vertical spacing between stacked captures, in pixels
const combineGap = 16

// Combine stacks several PNG captures into one image. The result is as wide
// as the widest input, sections are separated by a fixed gap, and background
// fills behind any transparent regions.
func (s *Service) Combine(images [][]byte, background string) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to combine")
	}

	decoded := make([]image.Image, len(images))
	width, height := 0, 0
	for i, raw := range images {
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		decoded[i] = img
		if w := img.Bounds().Dx(); w > width {
			width = w
		}
		height += img.Bounds().Dy()
	}
	height += combineGap * (len(decoded) - 1)

	if background == "" {
		background = "#ffffff"
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(hexToColor(background)), image.Point{}, draw.Src)

	y := 0
	for _, img := range decoded {
		b := img.Bounds()
		target := image.Rect(0, y, b.Dx(), y+b.Dy())
		draw.Draw(out, target, img, b.Min, draw.Over)
		y += b.Dy() + combineGap
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode combined image: %w", err)
	}
	return buf.Bytes(), nil
}
