package compositor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/lyric2video/internal/config"
)

// faceSet holds one goroutine's faces. opentype faces keep internal
// buffers and must not be shared between concurrent draws.
type faceSet struct {
	lyric  font.Face
	title  font.Face
	artist font.Face
}

// loadLyricFont picks the font for lyric lines: an explicit font file wins,
// otherwise the family and weight select one of the bundled Go fonts.
func loadLyricFont(style config.StyleConfig) (*opentype.Font, error) {
	if style.FontFile != "" {
		data, err := os.ReadFile(style.FontFile)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать шрифт %s: %w", style.FontFile, err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("не удалось разобрать шрифт %s: %w", style.FontFile, err)
		}
		return f, nil
	}
	return opentype.Parse(bundledFont(style.FontFamily, style.FontWeight))
}

func bundledFont(family, weight string) []byte {
	w := weightValue(weight)
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "monospace", "mono", "go mono", "courier", "courier new":
		if w >= 600 {
			return gomonobold.TTF
		}
		return gomono.TTF
	}
	switch {
	case w >= 700:
		return gobold.TTF
	case w >= 500:
		return gomedium.TTF
	default:
		return goregular.TTF
	}
}

// weightValue maps CSS weights ("bold", "600", ...) to a number.
func weightValue(weight string) int {
	weight = strings.ToLower(strings.TrimSpace(weight))
	switch weight {
	case "", "normal", "regular":
		return 400
	case "medium":
		return 500
	case "semibold":
		return 600
	case "bold":
		return 700
	case "extrabold", "black":
		return 800
	case "light", "thin":
		return 300
	}
	if n, err := strconv.Atoi(weight); err == nil {
		return n
	}
	return 400
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
