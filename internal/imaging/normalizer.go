// Package imaging decodes uploaded images and produces the provider-ready
// payload. Normalization happens once per request so every model receives
// byte-identical input.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	apperrors "go-model-comparator/internal/errors"
	"go-model-comparator/pkg/models"
)

// NormalizedImage carries the decoded metadata and the shared base64 payload.
// It is read-only after creation and safe to share across concurrent invokers.
type NormalizedImage struct {
	Info   models.ImageInfo
	Base64 string
	MIME   string
}

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize validates that data decodes as a supported raster format and
// extracts format, color mode and dimensions. The declared content type is
// checked first so obvious non-image uploads fail cheaply.
func (n *Normalizer) Normalize(data []byte, contentType string) (*NormalizedImage, error) {
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.NewImageError(
			fmt.Sprintf("uploaded file must be an image, got content type %q", contentType), nil)
	}
	if len(data) == 0 {
		return nil, apperrors.NewImageError("uploaded file is empty", nil)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewImageError("unsupported or corrupted image", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperrors.NewImageError(
			fmt.Sprintf("image has invalid dimensions %dx%d", cfg.Width, cfg.Height), nil)
	}

	return &NormalizedImage{
		Info: models.ImageInfo{
			Format: strings.ToUpper(format),
			Mode:   colorMode(cfg.ColorModel),
			Width:  cfg.Width,
			Height: cfg.Height,
		},
		Base64: base64.StdEncoding.EncodeToString(data),
		MIME:   "image/" + format,
	}, nil
}

// colorMode maps Go color models to the conventional mode names callers
// expect (RGB, RGBA, L, P, CMYK).
func colorMode(m color.Model) string {
	// color.Palette is a slice type and cannot be compared with ==
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	switch m {
	case color.YCbCrModel:
		return "RGB"
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model:
		return "RGBA"
	case color.GrayModel, color.Gray16Model:
		return "L"
	case color.CMYKModel:
		return "CMYK"
	}
	return "RGB"
}
