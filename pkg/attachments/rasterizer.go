package attachments

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/go-go-golems/inkline/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RasterizationError marks an ink export that produced no drawable content or
// exceeded the pixel ceiling with downscaling disabled. It is fatal for the
// turn being sent and silently drops an ancestor turn.
type RasterizationError struct {
	Reason string
}

func (e *RasterizationError) Error() string {
	return "ink rasterization failed: " + e.Reason
}

// IsRasterizationError reports whether err is a RasterizationError.
func IsRasterizationError(err error) bool {
	var re *RasterizationError
	return errors.As(err, &re)
}

// RasterOptions controls the ink export.
type RasterOptions struct {
	// Padding in pixels added around the cropped stroke bounds.
	Padding int
	// MaxDimension caps the longer output edge; 0 uses the default.
	MaxDimension int
	// DisableDownscale turns the ceiling into a hard error instead of a
	// downscale.
	DisableDownscale bool
}

const defaultMaxDimension = 2048

// RasterizeInk renders strokes into a cropped, padded PNG. The drawing is
// cropped to its content bounds, padded, and downscaled when it exceeds the
// dimension ceiling (unless downscaling is disabled, which fails instead).
func RasterizeInk(strokes []turns.Stroke, opts RasterOptions) ([]byte, error) {
	if opts.Padding <= 0 {
		opts.Padding = 16
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = defaultMaxDimension
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	points := 0
	for _, s := range strokes {
		for _, p := range s.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
			points++
		}
	}
	if points == 0 {
		return nil, &RasterizationError{Reason: "no strokes"}
	}

	w := maxX - minX + float64(2*opts.Padding)
	h := maxY - minY + float64(2*opts.Padding)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scale := 1.0
	if longest := math.Max(w, h); longest > float64(opts.MaxDimension) {
		if opts.DisableDownscale {
			return nil, &RasterizationError{Reason: "drawing exceeds pixel ceiling"}
		}
		scale = float64(opts.MaxDimension) / longest
		w *= scale
		h *= scale
	}

	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	pad := float64(opts.Padding) * scale
	for _, s := range strokes {
		width := s.Width
		if width <= 0 {
			width = 2
		}
		radius := math.Max(width*scale/2, 0.5)
		var prev *turns.Point
		for i := range s.Points {
			p := s.Points[i]
			x := (p.X-minX)*scale + pad
			y := (p.Y-minY)*scale + pad
			if prev != nil {
				px := (prev.X-minX)*scale + pad
				py := (prev.Y-minY)*scale + pad
				stampSegment(img, px, py, x, y, radius)
			} else {
				stampDot(img, x, y, radius)
			}
			prev = &s.Points[i]
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode ink png")
	}
	log.Debug().
		Int("strokes", len(strokes)).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("rasterized ink drawing")
	return buf.Bytes(), nil
}

// stampSegment draws a line between two points by stamping dots along it.
func stampSegment(img *image.RGBA, x0, y0, x1, y1, radius float64) {
	dist := math.Hypot(x1-x0, y1-y0)
	steps := int(dist/math.Max(radius, 1)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDot(img, x0+(x1-x0)*t, y0+(y1-y0)*t, radius)
	}
}

func stampDot(img *image.RGBA, cx, cy, radius float64) {
	r2 := radius * radius
	for y := int(cy - radius); y <= int(cy+radius)+1; y++ {
		for x := int(cx - radius); x <= int(cx+radius)+1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				img.Set(x, y, color.Black)
			}
		}
	}
}
