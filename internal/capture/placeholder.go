package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const placeholderNotice = "Chart rendering unavailable"

// placeholderPNG paints a background-filled image of the requested capture
// dimensions with a short textual notice, standing in for a real capture
func placeholderPNG(opts Options) ([]byte, error) {
	width := int(float64(opts.Width) * opts.Scale)
	height := int(float64(opts.Height) * opts.Scale)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := hexToColor(opts.Background)
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, placeholderNotice).Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 90, G: 96, B: 114, A: 255}),
		Face: face,
		Dot: fixed.P(
			(width-textWidth)/2,
			height/2,
		),
	}
	drawer.DrawString(placeholderNotice)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func hexToColor(hex string) color.RGBA {
	r, g, b := parseHexColor(hex)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
