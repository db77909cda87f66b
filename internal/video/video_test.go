package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func indexOf(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}

func TestMuxArgsWithAudio(t *testing.T) {
	args := MuxArgs(MuxParams{
		FPS:          30,
		FramePattern: "frame_%06d.png",
		Audio:        "audio.mp3",
		Output:       "out.mp4",
		VideoEncoder: "libx264",
		Quality:      23,
	})

	if i := indexOf(args, "-framerate"); i < 0 || args[i+1] != "30" {
		t.Errorf("framerate missing: %v", args)
	}
	if i := indexOf(args, "frame_%06d.png"); i < 1 || args[i-1] != "-i" {
		t.Errorf("frame pattern input missing: %v", args)
	}
	if i := indexOf(args, "audio.mp3"); i < 1 || args[i-1] != "-i" {
		t.Errorf("audio input missing: %v", args)
	}
	if indexOf(args, "-shortest") < 0 {
		t.Errorf("-shortest missing: %v", args)
	}
	if i := indexOf(args, "-pix_fmt"); i < 0 || args[i+1] != "yuv420p" {
		t.Errorf("pixel format missing: %v", args)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output should be last, got %q", args[len(args)-1])
	}
	// Frame input must come before audio so "0:v" / "1:a" maps are right.
	if indexOf(args, "frame_%06d.png") > indexOf(args, "audio.mp3") {
		t.Error("frames must be input 0")
	}
}

func TestMuxArgsSilent(t *testing.T) {
	args := MuxArgs(MuxParams{FPS: 30, FramePattern: "frame_%06d.png", Output: "out.mp4"})
	if indexOf(args, "-shortest") >= 0 {
		t.Error("-shortest without audio")
	}
	if indexOf(args, "1:a") >= 0 {
		t.Error("audio map without audio")
	}
	if i := indexOf(args, "-c:v"); i < 0 || args[i+1] != "libx264" {
		t.Errorf("default encoder not libx264: %v", args)
	}
}

func TestQualityArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		want    string
	}{
		{"h264_videotoolbox", 75, "-b:v 7500k"},
		{"h264_nvenc", 28, "-cq 28"},
		{"libx264", 23, "-crf 23 -preset medium"},
	}
	for _, tt := range tests {
		if got := strings.Join(QualityArgs(tt.encoder, tt.quality), " "); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.encoder, got, tt.want)
		}
	}
}

func TestMuxedDurationShortest(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		audio  float64
		want   float64
	}{
		{"video limited", 90 * 30, 120, 90},
		{"audio limited", 150 * 30, 120, 120},
		{"no audio", 300, 0, 10},
	}
	for _, tt := range tests {
		if got := MuxedDuration(tt.frames, 30, tt.audio); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFFmpegEncoderRequiresLoad(t *testing.T) {
	e := &FFmpegEncoder{}
	if err := e.WriteInput("a.png", []byte("x")); err == nil {
		t.Error("WriteInput before Load should fail")
	}
	if err := e.Run(context.Background(), []string{"-version"}); err == nil {
		t.Error("Run before Load should fail")
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close on unloaded encoder: %v", err)
	}
}

func TestFFmpegEncoderMissingBinary(t *testing.T) {
	e := &FFmpegEncoder{Binary: "definitely-not-ffmpeg-binary"}
	err := e.Load(context.Background())
	if !errors.Is(err, ErrEncoderUnavailable) {
		t.Errorf("expected ErrEncoderUnavailable, got %v", err)
	}
}

func TestFFmpegEncoderWorkdir(t *testing.T) {
	// Exercise the file handling without needing ffmpeg.
	e := &FFmpegEncoder{dir: t.TempDir(), binary: "ffmpeg"}

	if err := e.WriteInput("frame_000001.png", []byte("data")); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	got, err := e.ReadOutput("frame_000001.png")
	if err != nil || string(got) != "data" {
		t.Fatalf("ReadOutput = %q, %v", got, err)
	}
	if err := e.WriteInput("../escape.png", nil); err == nil {
		t.Error("path traversal accepted")
	}

	src := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(src, []byte("mp3"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := e.LinkInput("audio.mp3", src); err != nil {
		t.Fatalf("LinkInput: %v", err)
	}
	if got, _ := e.ReadOutput("audio.mp3"); string(got) != "mp3" {
		t.Errorf("linked audio = %q", got)
	}

	dir := e.Dir()
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("working directory not removed")
	}
}
