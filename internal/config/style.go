package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type LyricPosition string

const (
	PositionTop    LyricPosition = "top"
	PositionCenter LyricPosition = "center"
	PositionBottom LyricPosition = "bottom"
)

type TextAlignment string

const (
	AlignLeft   TextAlignment = "left"
	AlignCenter TextAlignment = "center"
	AlignRight  TextAlignment = "right"
)

type AlbumArtPlacement string

const (
	AlbumArtLeft   AlbumArtPlacement = "left"
	AlbumArtRight  AlbumArtPlacement = "right"
	AlbumArtHidden AlbumArtPlacement = "hidden"
)

// Resolutions maps preset names to output frame sizes.
var Resolutions = map[string][2]int{
	"480p":   {854, 480},
	"720p":   {1280, 720},
	"1080p":  {1920, 1080},
	"square": {1080, 1080},
}

// StyleConfig is a snapshot of every visual parameter of one render.
// It is passed by value and never modified by the renderer.
type StyleConfig struct {
	FontFamily     string `yaml:"font_family"`
	FontWeight     string `yaml:"font_weight"`
	FontSize       int    `yaml:"font_size"`
	FontFile       string `yaml:"font_file,omitempty"`
	ActiveColor    string `yaml:"active_color"`
	InactiveColor1 string `yaml:"inactive_color_1"`
	InactiveColor2 string `yaml:"inactive_color_2"`

	LyricPosition LyricPosition `yaml:"lyric_position"`
	TextAlignment TextAlignment `yaml:"text_alignment"`

	AlbumArt     AlbumArtPlacement `yaml:"album_art"`
	AlbumArtSize int               `yaml:"album_art_size"`

	BackgroundBlur int    `yaml:"background_blur"`
	ShowSongInfo   bool   `yaml:"show_song_info"`
	Resolution     string `yaml:"resolution"`

	// ShareLink, when set, is drawn as a QR code in a bottom corner.
	ShareLink string `yaml:"share_link,omitempty"`
}

func DefaultStyle() StyleConfig {
	return StyleConfig{
		FontFamily:     "sans-serif",
		FontWeight:     "bold",
		FontSize:       48,
		ActiveColor:    "#ffffff",
		InactiveColor1: "#ffffff80",
		InactiveColor2: "#ffffff40",
		LyricPosition:  PositionCenter,
		TextAlignment:  AlignCenter,
		AlbumArt:       AlbumArtHidden,
		AlbumArtSize:   300,
		BackgroundBlur: 8,
		ShowSongInfo:   true,
		Resolution:     "720p",
	}
}

// Size resolves the resolution preset. Unknown presets fall back to 720p.
func (s StyleConfig) Size() (int, int) {
	if wh, ok := Resolutions[strings.ToLower(s.Resolution)]; ok {
		return wh[0], wh[1]
	}
	wh := Resolutions["720p"]
	return wh[0], wh[1]
}

// Validate checks enum fields and colours.
func (s StyleConfig) Validate() error {
	switch s.LyricPosition {
	case PositionTop, PositionCenter, PositionBottom:
	default:
		return fmt.Errorf("неизвестная позиция текста: %q", s.LyricPosition)
	}
	switch s.TextAlignment {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("неизвестное выравнивание: %q", s.TextAlignment)
	}
	switch s.AlbumArt {
	case AlbumArtLeft, AlbumArtRight, AlbumArtHidden:
	default:
		return fmt.Errorf("неизвестное положение обложки: %q", s.AlbumArt)
	}
	if _, ok := Resolutions[strings.ToLower(s.Resolution)]; !ok {
		return fmt.Errorf("неизвестное разрешение: %q", s.Resolution)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("размер шрифта должен быть положительным: %d", s.FontSize)
	}
	if s.BackgroundBlur < 0 {
		return fmt.Errorf("радиус размытия не может быть отрицательным: %d", s.BackgroundBlur)
	}
	if _, err := ParseColor(s.ActiveColor); err != nil {
		return err
	}
	return nil
}

// LoadStyle reads a YAML style file on top of DefaultStyle, so a file
// only needs the fields it changes.
func LoadStyle(path string) (StyleConfig, error) {
	style := DefaultStyle()

	data, err := os.ReadFile(path)
	if err != nil {
		return style, err
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return style, fmt.Errorf("ошибка разбора стиля %s: %w", path, err)
	}
	return style, style.Validate()
}

// WriteStyle writes a style file that LoadStyle can read back.
func WriteStyle(style StyleConfig, path string) error {
	data, err := yaml.Marshal(style)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseColor understands #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("некорректный цвет: %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("некорректный цвет: %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
