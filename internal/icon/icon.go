// Package icon resolves the icon that represents a filesystem entry.
//
// A path is classified, shortcut files are resolved to their target, the
// platform Source extracts and rasterizes the native icon, and the result is
// encoded as a data URI. Icon absence is a normal outcome: the Service never
// reports an error to its caller, it returns an empty string instead.
package icon

import (
	"errors"
	"fmt"
)

// Format tags the encoding of Info.Data.
type Format string

const (
	// FormatNone marks an Info that carries no icon.
	FormatNone Format = ""
	// FormatRGBA is raw 32-bit pixels in blue, green, red, alpha order, rows top-to-bottom.
	FormatRGBA Format = "rgba"
	// FormatPNG is a self-contained PNG stream.
	FormatPNG Format = "png"
)

// Size is the edge length, in pixels, of every raster this package produces.
const Size = 32

var (
	// ErrUnsupported reports a capability that the current platform does not implement.
	ErrUnsupported = errors.New("icon extraction is not supported on this platform")
	// ErrNoIconFound reports that a path carries no extractable icon.
	ErrNoIconFound = errors.New("no icon found")
	// ErrIconInfoUnavailable reports that the bitmaps of a native icon could not be queried.
	ErrIconInfoUnavailable = errors.New("failed to get icon info")
	// ErrSurfaceCreationFailed reports that no off-screen drawing surface could be created.
	ErrSurfaceCreationFailed = errors.New("failed to create compatible DC")
	// ErrBitmapCreationFailed reports that no bitmap compatible with the surface could be created.
	ErrBitmapCreationFailed = errors.New("failed to create compatible bitmap")
)

// Info is an icon image together with the tag describing its encoding.
type Info struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Data   []byte `json:"data"`
	Format Format `json:"format"`
}

// Empty reports whether the Info carries no icon.
func (i Info) Empty() bool {
	return i.Format == FormatNone || len(i.Data) == 0
}

// Validate checks that Data matches the size implied by Format and dimensions.
func (i Info) Validate() error {
	switch i.Format {
	case FormatNone:
		if len(i.Data) != 0 || i.Width != 0 || i.Height != 0 {
			return fmt.Errorf("untagged icon must be empty, got %dx%d with %d bytes", i.Width, i.Height, len(i.Data))
		}
	case FormatRGBA:
		want := int(i.Width) * int(i.Height) * 4
		if len(i.Data) != want {
			return fmt.Errorf("rgba icon %dx%d needs %d bytes, got %d", i.Width, i.Height, want, len(i.Data))
		}
	default:
		if len(i.Data) == 0 {
			return fmt.Errorf("%s icon has no data", i.Format)
		}
	}
	return nil
}
