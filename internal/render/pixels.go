package render

import (
	"image/color"
	"math"
)

// Stop is one entry of a colour ramp over normalised heights.
type Stop struct {
	T   float64
	Col color.RGBA
}

// Hypsometric is the default elevation ramp: deep basins blue, lowlands
// green, highlands ochre, peaks pale.
var Hypsometric = []Stop{
	{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 255}},
	{0.25, color.RGBA{R: 70, G: 105, B: 160, A: 255}},
	{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 255}},
	{0.75, color.RGBA{R: 190, G: 160, B: 80, A: 255}},
	{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 255}},
}

// fillGrayRGBA maps heights linearly from [lo, hi] to black..white.
func fillGrayRGBA(buf []byte, heights []float64, lo, hi float64) {
	span := hi - lo
	for i, h := range heights {
		base := i * 4
		v := uint8(0)
		if span > 0 {
			v = uint8(math.Round(clamp01((h-lo)/span) * 255))
		}
		buf[base+0] = v
		buf[base+1] = v
		buf[base+2] = v
		buf[base+3] = 255
	}
}

// fillRampRGBA converts heights into RGBA pixels using a colour ramp. When
// the ramp is empty the buffer is cleared to transparent black.
func fillRampRGBA(buf []byte, heights []float64, lo, hi float64, ramp []Stop) {
	if len(ramp) == 0 {
		clear(buf[:4*len(heights)])
		return
	}
	span := hi - lo
	for i, h := range heights {
		t := 0.0
		if span > 0 {
			t = (h - lo) / span
		}
		col := rampColor(ramp, t)
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// shadeRGBA darkens already filled pixels by local relief so that slopes
// read at a glance. Flat cells keep 55% of their brightness.
func shadeRGBA(buf []byte, side int, heights []float64, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		return
	}
	inv := 1 / span
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			idx := y*side + x
			h := heights[idx]
			maxDiff := 0.0
			if x > 0 {
				maxDiff = math.Max(maxDiff, math.Abs(h-heights[idx-1]))
			}
			if x+1 < side {
				maxDiff = math.Max(maxDiff, math.Abs(h-heights[idx+1]))
			}
			if y > 0 {
				maxDiff = math.Max(maxDiff, math.Abs(h-heights[idx-side]))
			}
			if y+1 < side {
				maxDiff = math.Max(maxDiff, math.Abs(h-heights[idx+side]))
			}
			// Relief is amplified since neighbouring cells differ by a small
			// fraction of the full range.
			f := 0.55 + 0.45*clamp01(maxDiff*inv*float64(side)/8)
			base := idx * 4
			buf[base+0] = scaleComponent(buf[base+0], f)
			buf[base+1] = scaleComponent(buf[base+1], f)
			buf[base+2] = scaleComponent(buf[base+2], f)
		}
	}
}

// fillDepthRGBA tints cells the fill raised, with alpha growing with the
// depth of water they would hold. Untouched cells are transparent.
func fillDepthRGBA(buf []byte, raw, filled []float64, maxDepth float64, tint color.RGBA) {
	const maxAlpha = 200.0
	for i := range raw {
		base := i * 4
		depth := filled[i] - raw[i]
		if depth <= 0 || maxDepth <= 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		intensity := clamp01(depth / maxDepth)
		alpha := math.Round(60 + (maxAlpha-60)*math.Sqrt(intensity))
		// Pixels are alpha-premultiplied, as image.RGBA and ebiten expect.
		buf[base+0] = scaleComponent(tint.R, alpha/255)
		buf[base+1] = scaleComponent(tint.G, alpha/255)
		buf[base+2] = scaleComponent(tint.B, alpha/255)
		buf[base+3] = uint8(alpha)
	}
}

func rampColor(ramp []Stop, t float64) color.RGBA {
	t = clamp01(t)
	if t <= ramp[0].T {
		return ramp[0].Col
	}
	for i := 1; i < len(ramp); i++ {
		curr := ramp[i]
		if t <= curr.T {
			prev := ramp[i-1]
			span := curr.T - prev.T
			var local float64
			if span > 0 {
				local = (t - prev.T) / span
			}
			return lerpRGBA(prev.Col, curr.Col, clamp01(local))
		}
	}
	return ramp[len(ramp)-1].Col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func scaleComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
