package compositor

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/lyric2video/internal/config"
)

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// wrapText splits text on explicit newlines and then greedily on spaces so
// that no line is wider than maxWidth. A single word wider than maxWidth
// stays on its own line.
func wrapText(face font.Face, text string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if measure(face, candidate) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// drawLines draws a block of lines whose vertical centre is at cy.
// x is the left edge, centre or right edge depending on align.
func drawLines(dst *image.RGBA, face font.Face, lines []string, x, cy float64, align config.TextAlignment, col color.NRGBA) {
	if len(lines) == 0 {
		return
	}
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	lineHeight := (ascent + descent) * lineSpacing

	blockHeight := lineHeight*float64(len(lines)-1) + ascent + descent
	baseline := cy - blockHeight/2 + ascent

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range lines {
		lx := x
		switch align {
		case config.AlignCenter:
			lx -= measure(face, line) / 2
		case config.AlignRight:
			lx -= measure(face, line)
		}
		d.Dot = fixed.Point26_6{X: toFixed(lx), Y: toFixed(baseline + float64(i)*lineHeight)}
		d.DrawString(line)
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
