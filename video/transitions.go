package video

import (
	"fmt"
	"math"
	"math/rand"
)

// Anchor names the point a zoom keeps fixed in frame.
type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorTopLeft     Anchor = "topleft"
	AnchorTopRight    Anchor = "topright"
	AnchorBottomLeft  Anchor = "bottomleft"
	AnchorBottomRight Anchor = "bottomright"
)

const defaultZoomSpeed = 3.0

// Zoom describes a pan/zoom transition over a clip's full duration.
// "in" tightens from neutral; "out" starts tight and relaxes.
type Zoom struct {
	Mode     string
	Position Anchor
	Speed    float64
	Duration float64
	FPS      float64
}

func NewZoom(mode string, duration, fps float64) Zoom {
	return Zoom{
		Mode:     mode,
		Position: AnchorCenter,
		Speed:    defaultZoomSpeed,
		Duration: duration,
		FPS:      fps,
	}
}

// TotalFrames is the clip's frame count, never less than one.
func (z Zoom) TotalFrames() int {
	n := int(z.Duration * z.FPS)
	if n < 1 {
		return 1
	}
	return n
}

// Transform is the affine mapping applied to one frame: scale then
// translate, so dst(x, y) = src(x/Scale + Tx, y/Scale + Ty).
type Transform struct {
	Scale float64
	Tx    float64
	Ty    float64
}

// FrameAt computes the transform for the frame sampled at time t on a
// w x h image. The mapping is deterministic in (mode, position, speed,
// duration, fps); calling it twice with the same inputs must agree.
func (z Zoom) FrameAt(t float64, w, h int) Transform {
	totalFrames := float64(z.TotalFrames())
	i := t * z.FPS
	if z.Mode == "out" {
		i = totalFrames - i
	}

	zoom := 1 + i*(0.1*z.Speed/totalFrames)

	// keep the magnified frame one pixel inside each border
	fw, fh := float64(w), float64(h)
	zoom *= math.Max(fw/(fw-2), fh/(fh-2))

	dw := fw - fw/zoom
	dh := fh - fh/zoom
	tx, ty := anchorOffset(z.Position, dw, dh)
	return Transform{Scale: zoom, Tx: tx, Ty: ty}
}

func anchorOffset(position Anchor, dw, dh float64) (tx, ty float64) {
	switch position {
	case AnchorLeft:
		return 0, dh / 2
	case AnchorRight:
		return dw, dh / 2
	case AnchorTop:
		return dw / 2, 0
	case AnchorBottom:
		return dw / 2, dh
	case AnchorTopLeft:
		return 0, 0
	case AnchorTopRight:
		return dw, 0
	case AnchorBottomLeft:
		return 0, dh
	case AnchorBottomRight:
		return dw, dh
	default:
		return dw / 2, dh / 2
	}
}

// Filter renders the same progression as FrameAt as an ffmpeg zoompan
// chain. The input is upscaled first so subpixel pans stay smooth.
func (z Zoom) Filter(width, height int) string {
	totalFrames := z.TotalFrames()
	increment := 0.1 * z.Speed / float64(totalFrames)

	fw, fh := float64(width), float64(height)
	extra := math.Max(fw/(fw-2), fh/(fh-2))

	var zoomExpr string
	if z.Mode == "out" {
		zoomExpr = fmt.Sprintf("%.6f*(1+%.6f*(%d-on))", extra, increment, totalFrames)
	} else {
		zoomExpr = fmt.Sprintf("%.6f*(1+%.6f*on)", extra, increment)
	}

	xExpr, yExpr := anchorExprs(z.Position)
	return fmt.Sprintf("scale=%d:%d,zoompan=z='%s':d=%d:x='%s':y='%s':s=%dx%d:fps=%g",
		width*2, height*2, zoomExpr, totalFrames, xExpr, yExpr, width, height, z.FPS)
}

func anchorExprs(position Anchor) (x, y string) {
	switch position {
	case AnchorLeft:
		return "0", "ih/2-(ih/zoom/2)"
	case AnchorRight:
		return "iw-(iw/zoom)", "ih/2-(ih/zoom/2)"
	case AnchorTop:
		return "iw/2-(iw/zoom/2)", "0"
	case AnchorBottom:
		return "iw/2-(iw/zoom/2)", "ih-(ih/zoom)"
	case AnchorTopLeft:
		return "0", "0"
	case AnchorTopRight:
		return "iw-(iw/zoom)", "0"
	case AnchorBottomLeft:
		return "0", "ih-(ih/zoom)"
	case AnchorBottomRight:
		return "iw-(iw/zoom)", "ih-(ih/zoom)"
	default:
		return "iw/2-(iw/zoom/2)", "ih/2-(ih/zoom/2)"
	}
}

// Shake displaces frames by a bounded random offset for a lead-in
// period, compositing onto a black canvas. Part of the transition
// vocabulary; the generation pipeline does not use it.
type Shake struct {
	EffectDuration float64
	MaxOffset      int
	rng            *rand.Rand
}

func NewShake(effectDuration float64, maxOffset int, seed int64) *Shake {
	return &Shake{
		EffectDuration: effectDuration,
		MaxOffset:      maxOffset,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// OffsetAt returns the displacement for time t. Past the lead-in the
// frame is left untouched.
func (s *Shake) OffsetAt(t float64) (dx, dy int) {
	if t >= s.EffectDuration {
		return 0, 0
	}
	dx = s.rng.Intn(2*s.MaxOffset+1) - s.MaxOffset
	dy = s.rng.Intn(2*s.MaxOffset+1) - s.MaxOffset
	return dx, dy
}
