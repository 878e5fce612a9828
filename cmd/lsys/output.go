package main

import (
	"fmt"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/render"
)

// writeOut writes the frame to path in the format named by its extension,
// applying --thumb and --caption.
func writeOut(path string, f *render.Frame, name string) error {
	imgFormat, err := raster.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	var img draw.Image = f.Canvas.Gray()
	if thumb > 0 {
		w, h := raster.Fit(img, thumb)
		img = raster.Scale(img, w, h)
	}
	if caption {
		raster.Caption(img, fmt.Sprintf("%s  n=%d", name, f.Iteration), 0)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := raster.Encode(file, img, imgFormat); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
