package rcp

import (
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Frame dimensions of the placeholder video output.
const (
	FrameWidth  = 320
	FrameHeight = 240
)

// FrameRGBA renders the current frame into a FrameWidth×FrameHeight
// RGBA8888 byte slice. The output is a deterministic gradient derived only
// from pixel position, so repeated calls are pixel-identical and the method
// has no side effects.
func (r *RDP) FrameRGBA() []byte {
	pixels := make([]byte, FrameWidth*FrameHeight*4)
	for y := 0; y < FrameHeight; y++ {
		for x := 0; x < FrameWidth; x++ {
			i := (y*FrameWidth + x) * 4
			pixels[i+0] = byte(x * 255 / FrameWidth)
			pixels[i+1] = byte(y * 255 / FrameHeight)
			pixels[i+2] = byte((x + y) * 255 / (FrameWidth + FrameHeight))
			pixels[i+3] = 0xFF
		}
	}
	return pixels
}

// FrameImage returns the current frame as an *image.RGBA.
func (r *RDP) FrameImage() *image.RGBA {
	return &image.RGBA{
		Pix:    r.FrameRGBA(),
		Stride: FrameWidth * 4,
		Rect:   image.Rect(0, 0, FrameWidth, FrameHeight),
	}
}

// SaveScreenshot encodes the current frame as a PNG at the given integer
// scale factor and writes it to filename.
func (r *RDP) SaveScreenshot(filename string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	src := r.FrameImage()
	dst := image.NewRGBA(image.Rect(0, 0, FrameWidth*scale, FrameHeight*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}
