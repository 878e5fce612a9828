package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Scale resamples img into a width x height gray image with Catmull-Rom
// filtering. Thin lines survive downscaling as lighter strokes.
func Scale(img image.Image, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Fit returns the largest size with img's aspect ratio that fits in max x max.
func Fit(img image.Image, max int) (int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || max <= 0 {
		return 0, 0
	}
	if w >= h {
		return max, max * h / w
	}
	return max * w / h, max
}

// Caption draws text in the top-left corner of img on a light plate.
func Caption(img draw.Image, text string, ink uint8) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: ink}),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	plate := image.Rect(2, 2, 2+width+6, 2+face.Height+4)
	draw.Draw(img, plate, image.NewUniform(color.Gray{Y: 255 - ink}), image.Point{}, draw.Src)

	d.Dot = fixed.P(5, 2+face.Ascent+2)
	d.DrawString(text)
}
