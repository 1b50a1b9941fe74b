package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

type icnsElement struct {
	kind string
	data []byte
}

func buildICNS(elements ...icnsElement) []byte {
	var body bytes.Buffer
	for _, e := range elements {
		body.WriteString(e.kind)
		binary.Write(&body, binary.BigEndian, uint32(len(e.data)+8))
		body.Write(e.data)
	}
	var out bytes.Buffer
	out.WriteString("icns")
	binary.Write(&out, binary.BigEndian, uint32(body.Len()+8))
	out.Write(body.Bytes())
	return out.Bytes()
}

func fakePNG(tag string) []byte {
	return append(append([]byte(nil), pngMagic...), tag...)
}

func TestPickICNSImagePrefersSmallestAtLeastSize(t *testing.T) {
	data := buildICNS(
		icnsElement{"ic09", fakePNG("512")},
		icnsElement{"icp4", fakePNG("16")},
		icnsElement{"icp6", fakePNG("64")},
		icnsElement{"ic07", fakePNG("128")},
	)

	got, err := pickICNSImage(data)
	if err != nil {
		t.Fatalf("pickICNSImage: %v", err)
	}
	if !bytes.Equal(got, fakePNG("64")) {
		t.Fatalf("picked %q, want the 64px element", got[len(pngMagic):])
	}
}

func TestPickICNSImageFallsBackToLargest(t *testing.T) {
	data := buildICNS(
		icnsElement{"icp4", fakePNG("16")},
		icnsElement{"is32", []byte{1, 2, 3}},
	)

	got, err := pickICNSImage(data)
	if err != nil {
		t.Fatalf("pickICNSImage: %v", err)
	}
	if !bytes.Equal(got, fakePNG("16")) {
		t.Fatalf("picked %q, want the 16px element", got)
	}
}

func TestPickICNSImageErrors(t *testing.T) {
	truncated := buildICNS(icnsElement{"ic07", fakePNG("128")})
	binary.BigEndian.PutUint32(truncated[12:16], 4096)

	cases := map[string][]byte{
		"not icns":       []byte("nope nope"),
		"short":          []byte("icns"),
		"bad total":      append([]byte("icns"), 0, 0, 1, 0),
		"bad element":    truncated,
		"no png element": buildICNS(icnsElement{"ic07", []byte("jpeg2000")}),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := pickICNSImage(data); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := pickICNSImage(buildICNS()); !errors.Is(err, ErrNoIconFound) {
		t.Fatalf("expected ErrNoIconFound for empty container, got %v", err)
	}
}
