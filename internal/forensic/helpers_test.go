package forensic

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// makeTestImage builds a deterministic gradient-plus-noise pattern so repeated
// test runs see identical pixel data.
func makeTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	seed := uint32(42)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			seed = seed*1664525 + 1013904223
			noise := uint8(seed >> 24)
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: noise,
				A: 255,
			})
		}
	}
	return img
}

// makeFlatImage builds a uniform mid-gray image.
func makeFlatImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

// unknownMetadata returns a record with every field confirmed absent.
func unknownMetadata() *MetadataRecord {
	return &MetadataRecord{
		DeviceMake:  StringField{State: FieldAbsent},
		DeviceModel: StringField{State: FieldAbsent},
		Software:    StringField{State: FieldAbsent},
		CapturedAt:  TimeField{State: FieldAbsent},
		BlockState:  FieldAbsent,
	}
}
