package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// icnsPNGSizes lists the element types that may hold PNG data and the edge
// length of the image they carry.
var icnsPNGSizes = map[string]int{
	"icp4": 16,
	"icp5": 32,
	"icp6": 64,
	"ic07": 128,
	"ic08": 256,
	"ic09": 512,
	"ic10": 1024,
	"ic11": 64,
	"ic12": 128,
	"ic13": 512,
	"ic14": 1024,
}

// pickICNSImage returns the PNG element of an .icns container that best fits
// Size: the smallest one at least Size wide, or the largest one otherwise.
func pickICNSImage(data []byte) ([]byte, error) {
	if len(data) < 8 || string(data[:4]) != "icns" {
		return nil, errors.New("not an icns container")
	}
	total := int(binary.BigEndian.Uint32(data[4:8]))
	if total > len(data) {
		return nil, fmt.Errorf("icns header claims %d bytes, have %d", total, len(data))
	}

	var (
		best     []byte
		bestSize int
	)
	for off := 8; off+8 <= total; {
		kind := string(data[off : off+4])
		length := int(binary.BigEndian.Uint32(data[off+4 : off+8]))
		if length < 8 || off+length > total {
			return nil, fmt.Errorf("icns element %q at %d has invalid length %d", kind, off, length)
		}
		payload := data[off+8 : off+length]
		off += length

		size, ok := icnsPNGSizes[kind]
		if !ok || !bytes.HasPrefix(payload, pngMagic) {
			continue
		}
		if best == nil || betterICNSSize(size, bestSize) {
			best, bestSize = payload, size
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: icns has no png element", ErrNoIconFound)
	}
	return best, nil
}

func betterICNSSize(candidate, current int) bool {
	switch {
	case current < Size:
		return candidate > current
	case candidate < Size:
		return false
	default:
		return candidate < current
	}
}
