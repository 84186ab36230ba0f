package watermark

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestApply_StampsBottomRight(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	base := solidPNG(t, 400, 300, white)
	logo := solidPNG(t, 200, 100, color.RGBA{0, 0, 0, 255})

	out, err := Apply(base, "image/png", logo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Fatalf("image size changed: %v", img.Bounds())
	}

	// Logo is scaled to 100x50 and placed 16px from the bottom-right corner.
	r, _, _, _ := img.At(400-16-10, 300-16-10).RGBA()
	if r>>8 == 255 || r>>8 == 0 {
		t.Errorf("expected a blended pixel under the logo, got red=%d", r>>8)
	}
	r, _, _, _ = img.At(10, 10).RGBA()
	if r>>8 != 255 {
		t.Errorf("expected top-left untouched, got red=%d", r>>8)
	}
	r, _, _, _ = img.At(400-16-110, 300-16-10).RGBA()
	if r>>8 != 255 {
		t.Errorf("logo wider than a quarter of the image, red=%d", r>>8)
	}
}

func TestApply_PassThrough(t *testing.T) {
	pdf := []byte("%PDF-1.4")
	out, err := Apply(pdf, "application/pdf", []byte("logo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, pdf) {
		t.Error("expected PDF to pass through unchanged")
	}

	base := solidPNG(t, 10, 10, color.White)
	out, err = Apply(base, "image/png", []byte("not an image"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, base) {
		t.Error("expected undecodable logo to leave image unchanged")
	}

	out, _ = Apply(base, "image/png", nil)
	if !bytes.Equal(out, base) {
		t.Error("expected missing logo to leave image unchanged")
	}
}

func TestApply_BadImage(t *testing.T) {
	logo := solidPNG(t, 4, 4, color.Black)
	if _, err := Apply([]byte("garbage"), "image/png", logo); err == nil {
		t.Error("expected decode error for invalid image")
	}
}

func TestApplyText(t *testing.T) {
	data := []byte{1, 2, 3}
	out, err := ApplyText(data, "image/png", "Dr. Smith")
	if err != nil || !bytes.Equal(out, data) {
		t.Errorf("expected pass-through, got %v, %v", out, err)
	}
}

// pngHeader returns only the signature and IHDR chunk of an 8-bit RGB PNG
// claiming the given dimensions. It is enough for image.DecodeConfig.
func pngHeader(w, h uint32) []byte {
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolour

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr[:]...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestApply_RejectsHugeDimensions(t *testing.T) {
	logo := solidPNG(t, 20, 10, color.Black)

	_, err := Apply(pngHeader(30000, 30000), "image/png", logo)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestApply_IgnoresHugeLogo(t *testing.T) {
	base := solidPNG(t, 40, 30, color.White)

	out, err := Apply(base, "image/png", pngHeader(50000, 50000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, base) {
		t.Error("expected image unchanged when the logo is too large")
	}
}
