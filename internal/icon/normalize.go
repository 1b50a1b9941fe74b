package icon

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path/filepath"
	"strings"

	ico "github.com/sergeymakinen/go-ico"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// decodeImage decodes an icon file, choosing the decoder from the file name.
// SVG documents are rasterized straight at the target size.
func decodeImage(data []byte, name string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".svg":
		return rasterizeSVG(data)
	case ".ico":
		// The generic image.Decode sniffing trips over ICO files carrying cursor data.
		img, err := ico.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode ico: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func rasterizeSVG(data []byte) (image.Image, error) {
	svg, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	svg.SetTarget(0, 0, Size, Size)

	rgba := image.NewRGBA(image.Rect(0, 0, Size, Size))
	scanner := rasterx.NewScannerGV(Size, Size, rgba, rgba.Bounds())
	svg.Draw(rasterx.NewDasher(Size, Size, scanner), 1.0)
	return rgba, nil
}

// normalize fits img into a transparent Size x Size square, preserving the
// aspect ratio, and returns it as a PNG Info.
func normalize(img image.Image) (Info, error) {
	src := img.Bounds()
	if src.Empty() {
		return Info{}, fmt.Errorf("%w: image has no pixels", ErrNoIconFound)
	}

	scale := math.Min(float64(Size)/float64(src.Dx()), float64(Size)/float64(src.Dy()))
	w := int(math.Round(float64(src.Dx()) * scale))
	h := int(math.Round(float64(src.Dy()) * scale))
	offX := (Size - w) / 2
	offY := (Size - h) / 2

	dst := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	xdraw.CatmullRom.Scale(dst, image.Rect(offX, offY, offX+w, offY+h), img, src, xdraw.Over, nil)

	data, err := encodePNG(dst)
	if err != nil {
		return Info{}, err
	}
	return Info{Width: Size, Height: Size, Data: data, Format: FormatPNG}, nil
}
