package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"terrafill/internal/core"
)

// Mode selects how heights are coloured.
type Mode int

const (
	ModeGray Mode = iota
	ModeHypsometric
	ModeShaded
)

func (m Mode) String() string {
	switch m {
	case ModeGray:
		return "gray"
	case ModeHypsometric:
		return "hypsometric"
	case ModeShaded:
		return "shaded"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// DepressionTint colours cells raised by the fill.
var DepressionTint = color.RGBA{R: 64, G: 164, B: 223, A: 255}

// HeightPixels writes RGBA pixels for g into buf, which must hold
// 4*g.Len() bytes. Heights are normalised by the grid's own range.
func HeightPixels(buf []byte, g *core.Grid, mode Mode) {
	lo, hi := g.Range()
	switch mode {
	case ModeGray:
		fillGrayRGBA(buf, g.Cells(), lo, hi)
	case ModeHypsometric:
		fillRampRGBA(buf, g.Cells(), lo, hi, Hypsometric)
	default:
		fillRampRGBA(buf, g.Cells(), lo, hi, Hypsometric)
		shadeRGBA(buf, g.Side, g.Cells(), lo, hi)
	}
}

// DepressionPixels writes an overlay marking every cell filled above its
// raw height into buf.
func DepressionPixels(buf []byte, raw, filled *core.Grid) {
	maxDepth := 0.0
	for i, h := range filled.Cells() {
		maxDepth = max(maxDepth, h-raw.Cells()[i])
	}
	fillDepthRGBA(buf, raw.Cells(), filled.Cells(), maxDepth, DepressionTint)
}

// Heightmap renders g as an image.
func Heightmap(g *core.Grid, mode Mode) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Side, g.Side))
	HeightPixels(img.Pix, g, mode)
	return img
}

// Depressions renders the depression overlay of a fill as an image.
func Depressions(raw, filled *core.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, raw.Side, raw.Side))
	DepressionPixels(img.Pix, raw, filled)
	return img
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path, replacing any existing file.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("render: %w", cerr)
		}
	}()
	return WritePNG(f, img)
}
