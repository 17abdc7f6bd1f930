// Package stream serves the live MJPEG preview with recognition
// overlays.
package stream

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kozaktomas/classwatch/internal/recognize"
)

var (
	colorKnown   = color.RGBA{R: 0, G: 200, B: 83, A: 255}
	colorUnknown = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	colorLate    = color.RGBA{R: 255, G: 152, B: 0, A: 255}
	colorBanner  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const boxThickness = 2

// drawRect draws an axis-aligned rectangle outline, clipped to the
// image bounds.
func drawRect(img *image.RGBA, r recognize.Region, c color.RGBA) {
	b := img.Bounds()
	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	x1 := clamp(r.X1, b.Min.X, b.Max.X-1)
	y1 := clamp(r.Y1, b.Min.Y, b.Max.Y-1)
	x2 := clamp(r.X2, b.Min.X, b.Max.X-1)
	y2 := clamp(r.Y2, b.Min.Y, b.Max.Y-1)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for t := 0; t < boxThickness; t++ {
		top := image.Rect(x1, clamp(y1+t, y1, y2), x2, clamp(y1+t+1, y1, y2))
		bottom := image.Rect(x1, clamp(y2-t-1, y1, y2), x2, clamp(y2-t, y1, y2))
		left := image.Rect(clamp(x1+t, x1, x2), y1, clamp(x1+t+1, x1, x2), y2)
		right := image.Rect(clamp(x2-t-1, x1, x2), y1, clamp(x2-t, x1, x2), y2)
		for _, rect := range []image.Rectangle{top, bottom, left, right} {
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}
}

// drawLabel renders text with its baseline at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: c},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// NameFunc maps a person reference to a display name for the overlay.
type NameFunc func(ref string) string

// Annotate draws recognition boxes and labels onto a frame. Known
// faces are green (orange when the window is in its late phase),
// unknown faces red.
func Annotate(img *image.RGBA, result *recognize.Result, name NameFunc, late bool) {
	if result == nil {
		return
	}
	for _, m := range result.Matches {
		if !m.Known() {
			drawRect(img, m.Region, colorUnknown)
			drawLabel(img, m.Region.X1, m.Region.Y1-4, "unknown", colorUnknown)
			continue
		}
		c := colorKnown
		if late {
			c = colorLate
		}
		drawRect(img, m.Region, c)
		label := m.PersonRef
		if name != nil {
			if n := name(m.PersonRef); n != "" {
				label = n
			}
		}
		drawLabel(img, m.Region.X1, m.Region.Y1-4, label, c)
	}
}

// Banner draws a status line in the top-left corner.
func Banner(img *image.RGBA, text string) {
	if text == "" {
		return
	}
	// Dark backing strip keeps the text readable over bright frames.
	h := 18
	w := 7*len(text) + 12
	b := img.Bounds()
	if w > b.Dx() {
		w = b.Dx()
	}
	strip := image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h)
	draw.Draw(img, strip, &image.Uniform{C: color.RGBA{A: 200}}, image.Point{}, draw.Over)
	drawLabel(img, b.Min.X+6, b.Min.Y+13, text, colorBanner)
}

// Placeholder builds a frame shown when no camera feed is available.
func Placeholder(width, height int, text string) *image.RGBA {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 32, G: 32, B: 32, A: 255}}, image.Point{}, draw.Src)
	x := width/2 - 7*len(text)/2
	if x < 4 {
		x = 4
	}
	drawLabel(img, x, height/2, text, colorBanner)
	return img
}
