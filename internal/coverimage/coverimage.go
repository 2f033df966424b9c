// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package coverimage inspects and normalises handout cover images before
// they are uploaded to object storage.
package coverimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxBytes is the largest cover accepted for upload (10 MB).
	MaxBytes = 10 << 20

	// MaxWidth is the widest cover stored. Wider JPEG and PNG covers are
	// scaled down to it.
	MaxWidth = 1200

	// maxPixels guards against decompression bombs.
	maxPixels = 40_000_000

	jpegQuality = 85
)

var (
	// ErrEmpty is returned for a zero-length upload.
	ErrEmpty = errors.New("cover image is empty")
	// ErrTooLarge is returned when the file or its pixel count is too big.
	ErrTooLarge = errors.New("cover image is too large")
	// ErrUnsupportedType is returned for anything but JPEG, PNG, GIF and WebP.
	ErrUnsupportedType = errors.New("cover image type is not supported")
)

// allowedTypes maps accepted sniffed MIME types to their file extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a cover ready for upload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Prepare validates data as an image and scales it down when it is wider
// than MaxWidth. GIF and WebP covers are passed through unchanged. The
// extension is taken from filename when it agrees with the sniffed type,
// otherwise from the type itself.
func Prepare(filename string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img := &Image{
		Data:        data,
		ContentType: contentType,
		Ext:         extension(filename, contentType, ext),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}

	if cfg.Width <= MaxWidth || (contentType != "image/jpeg" && contentType != "image/png") {
		return img, nil
	}

	scaled, w, h, err := downscale(data, contentType, MaxWidth)
	if err != nil {
		return nil, err
	}
	img.Data, img.Width, img.Height = scaled, w, h
	return img, nil
}

// extension prefers the uploaded file's own extension when it names the
// same format, so "capa.jpeg" keeps ".jpeg".
func extension(filename, contentType, fallback string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".jpeg" && contentType == "image/jpeg":
		return ext
	case ext == fallback:
		return ext
	}
	return fallback
}

// downscale resizes to maxWidth preserving aspect ratio and re-encodes in
// the original format.
func downscale(data []byte, contentType string, maxWidth int) ([]byte, int, int, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := max(1, int(float64(bounds.Dy())*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, 0, 0, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), newWidth, newHeight, nil
}
