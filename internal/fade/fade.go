// Package fade computes the entry/exit transition of a lyric line.
//
// There are two regimes and they are kept apart on purpose. Export samples
// an envelope at discrete frame times against an absolute fade length, while
// the live preview follows a continuous curve whose keyframes sit at fixed
// percentages of the line's duration. For lines around 2.0-2.7s the two do
// not line up exactly.
package fade

const (
	// FadeDuration is the export-side fade length in seconds.
	FadeDuration = 0.4
	// FadeOffsetPx is how far the line travels during a fade.
	FadeOffsetPx = 10.0
)

// Envelope is the opacity and vertical offset of a line at one instant.
// Positive OffsetY moves the text down.
type Envelope struct {
	Opacity float64
	OffsetY float64
}

// Visible is the steady-zone envelope.
var Visible = Envelope{Opacity: 1, OffsetY: 0}

// Export samples the export envelope of an event [start, end] at time t.
func Export(start, end, t float64) Envelope {
	return ExportElapsed(end-start, t-start)
}

// ExportElapsed is Export expressed as (duration, elapsed).
func ExportElapsed(dur, elapsed float64) Envelope {
	if dur <= 0 {
		return Visible
	}

	const f = FadeDuration
	if dur > 2*f {
		switch {
		case elapsed < f:
			p := clamp01(elapsed / f)
			return Envelope{Opacity: p, OffsetY: FadeOffsetPx * (1 - p)}
		case elapsed > dur-f:
			p := clamp01((dur - elapsed) / f)
			return Envelope{Opacity: p, OffsetY: -FadeOffsetPx * (1 - p)}
		default:
			return Visible
		}
	}

	// Short line: triangular ramp over the two halves, no travel.
	half := dur / 2
	if elapsed < half {
		return Envelope{Opacity: clamp01(elapsed / half)}
	}
	return Envelope{Opacity: clamp01((dur - elapsed) / half)}
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

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
