package video

import (
	"fmt"
	"math"
)

// MuxParams describe the single ffmpeg invocation that turns the numbered
// frame images and the audio track into the final video.
type MuxParams struct {
	FPS          int
	FramePattern string // e.g. frame_%06d.png
	Audio        string // input name, empty for a silent video
	Output       string
	VideoEncoder string
	Quality      int
}

// MuxArgs builds the ffmpeg arguments. With audio the output is cut to the
// shorter stream (-shortest); neither stream is padded.
func MuxArgs(p MuxParams) []string {
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", p.FramePattern,
	}
	if p.Audio != "" {
		args = append(args, "-i", p.Audio)
	}

	args = append(args, "-map", "0:v")
	if p.Audio != "" {
		args = append(args, "-map", "1:a", "-c:a", "aac", "-b:a", "192k")
	}

	encoder := p.VideoEncoder
	if encoder == "" {
		encoder = "libx264"
	}
	args = append(args, "-c:v", encoder, "-pix_fmt", "yuv420p", "-r", fmt.Sprintf("%d", p.FPS))
	args = append(args, QualityArgs(encoder, p.Quality)...)

	if p.Audio != "" {
		args = append(args, "-shortest")
	}
	args = append(args, "-movflags", "+faststart", p.Output)
	return args
}

// QualityArgs translates a quality number into encoder-specific flags.
func QualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox не везде поддерживает -q:v, поэтому битрейт.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// MuxedDuration is the length of a "shortest" mux: the video part lasts
// frames/fps seconds and the result stops with whichever stream ends first.
// audio <= 0 means there is no audio track.
func MuxedDuration(frames, fps int, audio float64) float64 {
	if fps <= 0 {
		return 0
	}
	v := float64(frames) / float64(fps)
	if audio <= 0 {
		return v
	}
	return math.Min(v, audio)
}
