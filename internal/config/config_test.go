package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultStyleIsValid(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
}

func TestStyleSize(t *testing.T) {
	tests := []struct {
		preset string
		w, h   int
	}{
		{"720p", 1280, 720},
		{"1080p", 1920, 1080},
		{"1080P", 1920, 1080},
		{"unknown", 1280, 720},
	}

	for _, tt := range tests {
		s := DefaultStyle()
		s.Resolution = tt.preset
		w, h := s.Size()
		if w != tt.w || h != tt.h {
			t.Errorf("%s: got %dx%d, want %dx%d", tt.preset, w, h, tt.w, tt.h)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StyleConfig)
	}{
		{"position", func(s *StyleConfig) { s.LyricPosition = "middle" }},
		{"alignment", func(s *StyleConfig) { s.TextAlignment = "justify" }},
		{"album art", func(s *StyleConfig) { s.AlbumArt = "top" }},
		{"resolution", func(s *StyleConfig) { s.Resolution = "8k" }},
		{"font size", func(s *StyleConfig) { s.FontSize = 0 }},
		{"blur", func(s *StyleConfig) { s.BackgroundBlur = -1 }},
		{"color", func(s *StyleConfig) { s.ActiveColor = "red" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#ff8000", color.NRGBA{255, 128, 0, 255}},
		{"ff800080", color.NRGBA{255, 128, 0, 128}},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseColor("#12"); err == nil {
		t.Error("expected error for short colour")
	}
	if _, err := ParseColor("#gggggg"); err == nil {
		t.Error("expected error for non-hex colour")
	}
}

func TestLoadStyleOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	content := "font_size: 64\nlyric_position: bottom\nalbum_art: left\nresolution: 1080p\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	style, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("LoadStyle failed: %v", err)
	}

	if style.FontSize != 64 {
		t.Errorf("FontSize = %d, want 64", style.FontSize)
	}
	if style.LyricPosition != PositionBottom {
		t.Errorf("LyricPosition = %q, want bottom", style.LyricPosition)
	}
	if style.AlbumArt != AlbumArtLeft {
		t.Errorf("AlbumArt = %q, want left", style.AlbumArt)
	}
	if style.ActiveColor != DefaultStyle().ActiveColor {
		t.Errorf("ActiveColor = %q, want default", style.ActiveColor)
	}
}

func TestStyleWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	style := DefaultStyle()
	style.ShareLink = "https://example.com/song"
	style.TextAlignment = AlignRight

	if err := WriteStyle(style, path); err != nil {
		t.Fatalf("WriteStyle failed: %v", err)
	}
	got, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("LoadStyle failed: %v", err)
	}
	if got != style {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, style)
	}
}

func TestDefaultQuality(t *testing.T) {
	if DefaultQuality("h264_videotoolbox") != 75 || DefaultQuality("h264_nvenc") != 28 || DefaultQuality("libx264") != 23 {
		t.Error("unexpected default quality mapping")
	}
}
