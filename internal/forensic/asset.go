package forensic

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageAsset is the decoded view of a submitted file. It is created once per
// analysis and never mutated afterwards.
type ImageAsset struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ColorSpace string `json:"color_space"`
	Format     string `json:"format"`
	ByteSize   int    `json:"byte_size"`

	pixels image.Image
}

// DecodeAsset decodes raw file bytes into an ImageAsset. A decode failure is
// fatal for the whole analysis.
func DecodeAsset(data []byte) (*ImageAsset, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Error("asset decode failed", "error", err, "byte_size", len(data))
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	bounds := img.Bounds()
	asset := &ImageAsset{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		ColorSpace: colorSpaceOf(img),
		Format:     format,
		ByteSize:   len(data),
		pixels:     img,
	}

	slog.Debug("asset decoded",
		"format", asset.Format,
		"width", asset.Width,
		"height", asset.Height,
		"color_space", asset.ColorSpace)
	return asset, nil
}

// Pixels returns the decoded pixel buffer.
func (a *ImageAsset) Pixels() image.Image {
	return a.pixels
}

func colorSpaceOf(img image.Image) string {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return "Grayscale"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr, *image.NYCbCrA:
		return "sRGB"
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return "sRGB"
	default:
		return "Unknown"
	}
}
