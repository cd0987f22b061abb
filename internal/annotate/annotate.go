// Package annotate draws scan results over a device screenshot.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is one element to outline. Bounds are device pixels [x, y, w, h].
type Box struct {
	Bounds   [4]int
	Label    string
	Match    bool // Drawn highlighted
	Excluded bool // Dropped by the scanner; drawn dimmed
}

var (
	candidateColor = color.RGBA{R: 255, G: 0, B: 0, A: 200}
	excludedColor  = color.RGBA{R: 128, G: 128, B: 128, A: 160}
	matchColor     = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor   = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// maxLabel caps drawn label length in characters.
const maxLabel = 32

// Annotate returns a copy of img with every box outlined and labelled. The
// matched box is drawn last so it stays on top.
func Annotate(img image.Image, boxes []Box) *image.RGBA {
	rgba := ImageToRGBA(img)
	var match []Box
	for _, b := range boxes {
		if b.Match {
			match = append(match, b)
			continue
		}
		c := candidateColor
		if b.Excluded {
			c = excludedColor
		}
		drawBox(rgba, b, c, 1)
	}
	for _, b := range match {
		drawBox(rgba, b, matchColor, 3)
	}
	return rgba
}

// AnnotatePNG decodes a PNG screenshot, annotates it and scales the result
// by scale (1 keeps the device resolution).
func AnnotatePNG(data []byte, boxes []Box, scale float64) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	var out image.Image = Annotate(img, boxes)
	if scale > 0 && scale != 1 {
		out = Scale(out, scale)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode annotated screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Scale resizes img by factor.
func Scale(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// ImageToRGBA converts any image to RGBA
func ImageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func drawBox(img *image.RGBA, b Box, c color.Color, thickness int) {
	x, y, w, h := b.Bounds[0], b.Bounds[1], b.Bounds[2], b.Bounds[3]
	for i := 0; i < thickness; i++ {
		drawRectangle(img, x+i, y+i, x+w-i, y+h-i, c)
	}
	if label := truncateLabel(b.Label); label != "" {
		// basicfont.Face7x13 glyphs are 7 pixels wide; baseline 11 below the top.
		drawTextWithOutline(img, label, x+3, y+13, textColor, outlineColor)
	}
}

// truncateLabel shortens s to maxLabel characters, cutting on rune
// boundaries.
func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabel {
		return s
	}
	return string(r[:maxLabel-3]) + "..."
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawTextWithOutline draws text with its baseline starting at (x, y) and a
// one-pixel outline for contrast.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	draw1 := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+dx, y+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				draw1(dx, dy, outline)
			}
		}
	}
	draw1(0, 0, fg)
}
