package config

// FrameRate is fixed for exported videos.
const FrameRate = 30

type Config struct {
	ProjectPath  string // reported in the benchmark line
	OutputVideo  string
	FPS          int
	Workers      int
	VideoEncoder string
	Quality      int
	ShowStats    bool
	BuildVersion string
	KeepFrames   bool
}

// Default returns a Config with the export frame rate and one worker.
func Default() Config {
	return Config{
		FPS:          FrameRate,
		Workers:      1,
		VideoEncoder: "libx264",
		Quality:      23,
	}
}

// DefaultQuality picks the quality value that suits the encoder:
// x264 CRF, NVENC cq, VideoToolbox bitrate/100k.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
