package icon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/example/iconbridge/internal/logging"
)

const pngDataURIPrefix = "data:image/png;base64,"

// MIMEPrefix returns the data URI prefix used for icons of the given format.
// Raw rasters are shipped as PNG, so both tags share a prefix.
func MIMEPrefix(format Format) string {
	switch format {
	case FormatPNG, FormatRGBA:
		return pngDataURIPrefix
	default:
		return ""
	}
}

// DataURI encodes info as a data URI. An empty Info, or one that cannot be
// encoded, yields the empty string.
func DataURI(info Info) string {
	if info.Empty() {
		return ""
	}
	format, data, err := Payload(info)
	if err != nil {
		logging.Debugf("encode icon: %v", err)
		return ""
	}
	if len(data) == 0 {
		return ""
	}
	return MIMEPrefix(format) + base64.StdEncoding.EncodeToString(data)
}

// Payload returns the transport form of info: PNG bytes for any raster, and
// nothing for an empty Info.
func Payload(info Info) (Format, []byte, error) {
	switch info.Format {
	case FormatNone:
		return FormatNone, nil, nil
	case FormatPNG:
		if len(info.Data) == 0 {
			return FormatNone, nil, nil
		}
		return FormatPNG, info.Data, nil
	case FormatRGBA:
		img, err := info.Image()
		if err != nil {
			return FormatNone, nil, err
		}
		data, err := encodePNG(img)
		if err != nil {
			return FormatNone, nil, err
		}
		return FormatPNG, data, nil
	default:
		return FormatNone, nil, fmt.Errorf("unsupported icon format %q", info.Format)
	}
}

// Image decodes info into an image. RGBA rasters are swizzled from BGRA.
func (i Info) Image() (image.Image, error) {
	switch i.Format {
	case FormatRGBA:
		if err := i.Validate(); err != nil {
			return nil, err
		}
		img := image.NewNRGBA(image.Rect(0, 0, int(i.Width), int(i.Height)))
		for p := 0; p+3 < len(i.Data); p += 4 {
			img.Pix[p+0] = i.Data[p+2]
			img.Pix[p+1] = i.Data[p+1]
			img.Pix[p+2] = i.Data[p+0]
			img.Pix[p+3] = i.Data[p+3]
		}
		return img, nil
	case FormatPNG:
		img, err := png.Decode(bytes.NewReader(i.Data))
		if err != nil {
			return nil, fmt.Errorf("decode png icon: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("icon format %q has no image", i.Format)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
