// Package imaging decodes uploads and prepares display copies of them.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode returns the image and its format name.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("error decoding image: %w", err)
	}

	return img, format, nil
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("error encoding png: %w", err)
	}

	return buf.Bytes(), nil
}

// MIMEType sniffs the content type of data.
func MIMEType(data []byte) string {
	return http.DetectContentType(data)
}

// DataURL embeds data in a data: URL using its sniffed content type.
func DataURL(data []byte) string {
	return "data:" + MIMEType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Thumbnail scales img to fit in maxW x maxH, keeping the aspect ratio. Images that already fit are returned as is.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return img
	}

	w, h := Fit(b.Dx(), b.Dy(), float64(maxW), float64(maxH))
	dst := image.NewNRGBA(image.Rect(0, 0, max(1, int(w)), max(1, int(h))))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	return dst
}

// Fit returns the largest size with the aspect ratio of w x h that fits in boxW x boxH.
func Fit(w, h int, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}

	scale := min(boxW/float64(w), boxH/float64(h))
	return float64(w) * scale, float64(h) * scale
}
