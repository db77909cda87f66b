package fade

// Keyframe is a point of the preview curve at a fraction of the line duration.
type Keyframe struct {
	At      float64 // 0.0-1.0 of the event duration
	Opacity float64
	OffsetY float64
}

// PreviewKeyframes is the continuous curve the live preview animates along.
var PreviewKeyframes = []Keyframe{
	{At: 0.00, Opacity: 0, OffsetY: FadeOffsetPx},
	{At: 0.15, Opacity: 1, OffsetY: 0},
	{At: 0.85, Opacity: 1, OffsetY: 0},
	{At: 1.00, Opacity: 0, OffsetY: -FadeOffsetPx},
}

// Preview evaluates the preview curve of an event [start, end] at time t.
func Preview(start, end, t float64) Envelope {
	return PreviewElapsed(end-start, t-start)
}

// PreviewElapsed evaluates the preview curve with linear interpolation
// between keyframes. Outside the event the curve holds its end values.
func PreviewElapsed(dur, elapsed float64) Envelope {
	if dur <= 0 {
		return Visible
	}
	return interpolate(PreviewKeyframes, elapsed/dur)
}

func interpolate(keyframes []Keyframe, progress float64) Envelope {
	first := keyframes[0]
	if progress <= first.At {
		return Envelope{Opacity: first.Opacity, OffsetY: first.OffsetY}
	}
	last := keyframes[len(keyframes)-1]
	if progress >= last.At {
		return Envelope{Opacity: last.Opacity, OffsetY: last.OffsetY}
	}

	for i := 0; i < len(keyframes)-1; i++ {
		prev, next := keyframes[i], keyframes[i+1]
		if progress < prev.At || progress >= next.At {
			continue
		}
		span := next.At - prev.At
		if span <= 0 {
			return Envelope{Opacity: next.Opacity, OffsetY: next.OffsetY}
		}
		p := (progress - prev.At) / span
		return Envelope{
			Opacity: lerp(prev.Opacity, next.Opacity, p),
			OffsetY: lerp(prev.OffsetY, next.OffsetY, p),
		}
	}
	return Envelope{Opacity: last.Opacity, OffsetY: last.OffsetY}
}
