package compositor

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Blur applies a gaussian blur with standard deviation sigma (the CSS
// blur() radius) to img in place.
func Blur(img *image.RGBA, sigma float64) {
	if sigma <= 0 || img.Rect.Empty() {
		return
	}
	blurred := imaging.Blur(img, sigma)
	draw.Draw(img, img.Rect, blurred, image.Point{}, draw.Src)
}
