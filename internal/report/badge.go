// Package report renders triage artifacts from finished forensic results.
package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/claimlens/claimlens/internal/forensic"
)

// badgeTemplate is a self-contained SVG gauge: a colored backdrop, a neutral
// track and a fill bar proportional to the overall score. No text elements,
// the rasterizer does not render them. Colors must be 3- or 6-digit hex; the
// rasterizer rejects 8-digit alpha notation, so the track is a pre-blended
// dark gray.
const badgeTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 240 48">
  <rect x="0" y="0" width="240" height="48" rx="8" fill="%s"/>
  <rect x="12" y="18" width="216" height="12" rx="6" fill="#3d3d3d"/>
  <rect x="12" y="18" width="%d" height="12" rx="6" fill="#ffffff"/>
</svg>`

// labelColors maps each risk label to its badge backdrop.
var labelColors = map[forensic.RiskLabel]string{
	forensic.RiskHighlyAuthentic:    "#2e7d32",
	forensic.RiskPartiallyAuthentic: "#9e9d24",
	forensic.RiskSuspicious:         "#ef6c00",
	forensic.RiskHighFraud:          "#c62828",
}

// RenderBadgePNG renders a PNG score badge for embedding in triage UIs.
func RenderBadgePNG(overallScore int, label forensic.RiskLabel, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid badge dimensions: %dx%d", width, height)
	}
	if overallScore < 0 {
		overallScore = 0
	}
	if overallScore > 100 {
		overallScore = 100
	}
	backdrop, ok := labelColors[label]
	if !ok {
		return nil, fmt.Errorf("unknown risk label %q", label)
	}

	barWidth := 216 * overallScore / 100
	svg := fmt.Sprintf(badgeTemplate, width, height, backdrop, barWidth)
	return renderSVGToPNG([]byte(svg), width, height)
}

// renderSVGToPNG rasterizes an SVG byte slice into a PNG with the given
// target dimensions.
func renderSVGToPNG(svgData []byte, targetW, targetH int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	// Set drawing target rectangle
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	// Prepare target canvas (transparent background)
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	// Rasterize SVG into the target canvas
	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)

	// Encode to PNG
	var buf bytes.Buffer
	buf.Grow(targetW * targetH)
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
