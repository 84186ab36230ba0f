// Package watermark stamps a doctor's logo onto prescription images.
package watermark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"
)

const (
	// The logo never covers more than this fraction of the image width.
	maxLogoFraction = 4
	opacity         = 0.4
	margin          = 16

	// maxPixels bounds the decoded size of an image or logo. A decoded RGBA
	// canvas takes four bytes per pixel.
	maxPixels = 40_000_000
)

// ErrImageTooLarge is returned for images whose header declares more than
// maxPixels pixels.
var ErrImageTooLarge = errors.New("watermark: image dimensions too large")

// Supported reports whether contentType can be watermarked.
func Supported(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	}
	return false
}

// Apply overlays logo in the bottom-right corner of a PNG or JPEG image.
// Other content types, an empty logo, or a logo that cannot be decoded
// return data unchanged. An image that cannot be decoded, or whose header
// declares more than maxPixels pixels, is an error.
func Apply(data []byte, contentType string, logo []byte) ([]byte, error) {
	if !Supported(contentType) || len(logo) == 0 {
		return data, nil
	}

	src, err := decode(data)
	if err != nil {
		return nil, err
	}
	mark, err := decode(logo)
	if err != nil {
		return data, nil
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	scaled := fit(mark, bounds.Dx()/maxLogoFraction)
	size := scaled.Bounds().Size()
	offset := image.Pt(
		max(bounds.Max.X-size.X-margin, bounds.Min.X),
		max(bounds.Max.Y-size.Y-margin, bounds.Min.Y),
	)
	target := image.Rectangle{Min: offset, Max: offset.Add(size)}
	alpha := image.NewUniform(color.Alpha{A: uint8(opacity * 255)})
	draw.DrawMask(canvas, target, scaled, scaled.Bounds().Min, alpha, image.Point{}, draw.Over)

	var out bytes.Buffer
	if strings.ToLower(contentType) == "image/png" {
		err = png.Encode(&out, canvas)
	} else {
		err = jpeg.Encode(&out, canvas, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}

// decode reads the image header first so oversized images are rejected
// before any pixel buffer is allocated.
func decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ApplyText returns data unchanged. Text stamps are rendered client side.
func ApplyText(data []byte, contentType, text string) ([]byte, error) {
	return data, nil
}

// fit scales img down with nearest-neighbour sampling so it is at most
// maxWidth pixels wide. Smaller images are returned as is.
func fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	w := maxWidth
	h := max(b.Dy()*w/b.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := b.Min.Y + y*b.Dy()/h
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}
