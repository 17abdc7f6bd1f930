package camera

import (
	"image"
	"time"
)

// Frame is one captured image in packed RGB (3 bytes per pixel) with a
// monotonically increasing sequence number. Frames are copied on
// publish; a Frame handed to a reader is never mutated afterwards.
type Frame struct {
	Seq        uint64
	CapturedAt time.Time
	Width      int
	Height     int
	Pix        []byte // RGB24, len = Width*Height*3
}

// Empty reports whether the frame carries no pixel data.
func (f Frame) Empty() bool {
	return len(f.Pix) == 0 || f.Width <= 0 || f.Height <= 0
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	out := f
	out.Pix = make([]byte, len(f.Pix))
	copy(out.Pix, f.Pix)
	return out
}

// ToImage converts the packed RGB data into an RGBA image for drawing
// and JPEG encoding. Returns nil for an empty frame.
func (f Frame) ToImage() *image.RGBA {
	if f.Empty() || len(f.Pix) < f.Width*f.Height*3 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := y * f.Width * 3
		dst := y * img.Stride
		for x := 0; x < f.Width; x++ {
			img.Pix[dst+0] = f.Pix[src+0]
			img.Pix[dst+1] = f.Pix[src+1]
			img.Pix[dst+2] = f.Pix[src+2]
			img.Pix[dst+3] = 0xff
			src += 3
			dst += 4
		}
	}
	return img
}
