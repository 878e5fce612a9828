package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format names an output image encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ErrUnknownFormat indicates an unsupported image format name.
var ErrUnknownFormat = errors.New("raster: unknown image format")

// Formats lists the encodings accepted by Encode.
var Formats = []Format{PNG, BMP, TIFF}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	if c, ok := img.(*Canvas); ok {
		img = c.Gray()
	}
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// grayPalette maps every 8-bit gray level to its own palette entry.
var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// Paletted converts a gray image into a paletted frame for GIF output.
func Paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, grayPalette)
	if c, ok := img.(*Canvas); ok {
		copy(out.Pix, c.pix)
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			out.SetColorIndex(x, y, g.Y)
		}
	}
	return out
}

// EncodeGIF writes frames as a looping animation. delay is in hundredths
// of a second; the last frame is held four times as long.
func EncodeGIF(w io.Writer, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return errors.New("raster: no frames to encode")
	}
	anim := gif.GIF{LoopCount: 0}
	for i, f := range frames {
		anim.Image = append(anim.Image, Paletted(f))
		d := delay
		if i == len(frames)-1 {
			d *= 4
		}
		anim.Delay = append(anim.Delay, d)
	}
	return gif.EncodeAll(w, &anim)
}
