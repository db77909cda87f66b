// Package compositor draws complete lyric video frames.
//
// A Compositor is prepared once per render (fonts, blurred backdrop,
// album art crop) and then used read-only, so Composite may be called for
// different surfaces from several goroutines at once.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/lyric2video/internal/config"
	"github.com/ivlev/lyric2video/internal/fade"
	"github.com/ivlev/lyric2video/internal/timeline"
)

const (
	// album art size in the style is given for a 1080px tall frame
	albumArtBaseline = 1080.0
	albumArtMargin   = 0.05
	albumArtBorder   = 2

	overlayAlpha = 0.4

	titleSizeRatio  = 0.04
	artistSizeRatio = 0.025
	textMarginRatio = 0.10
	maxLineRatio    = 0.80
	lineSpacing     = 1.2

	qrSizeRatio   = 0.12
	qrMarginRatio = 0.03
)

var (
	baseColor   = color.NRGBA{0, 0, 0, 255}
	borderColor = color.NRGBA{255, 255, 255, 77}
	titleColor  = color.NRGBA{255, 255, 255, 255}
	artistColor = color.NRGBA{255, 255, 255, 204}
)

// SongMeta is shown in the song-info block.
type SongMeta struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
}

// Frame is everything that varies between two frames of one render.
// Event and Envelope are either both set or both nil.
type Frame struct {
	Event    *timeline.Event
	Envelope *fade.Envelope
	Meta     SongMeta
}

type Compositor struct {
	style  config.StyleConfig
	width  int
	height int

	active color.NRGBA

	backdrop *image.RGBA
	art      *image.RGBA
	artRect  image.Rectangle
	qr       image.Image
	qrRect   image.Rectangle

	lyricFont *opentype.Font
	uiFont    *opentype.Font
	faces     sync.Pool
}

// New prepares a compositor for the given style. background may be nil,
// in which case only the base colour and overlay are drawn beneath the text.
func New(style config.StyleConfig, background image.Image) (*Compositor, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	active, err := config.ParseColor(style.ActiveColor)
	if err != nil {
		return nil, err
	}

	w, h := style.Size()
	c := &Compositor{
		style:  style,
		width:  w,
		height: h,
		active: active,
	}

	if c.lyricFont, err = loadLyricFont(style); err != nil {
		return nil, err
	}
	if c.uiFont, err = opentype.Parse(bundledFont("sans-serif", "normal")); err != nil {
		return nil, err
	}
	// Build one face set up front so option errors surface here
	// rather than in the middle of a render.
	fs, err := c.newFaceSet()
	if err != nil {
		return nil, err
	}
	c.faces.Put(fs)

	if background != nil {
		c.backdrop = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(c.backdrop, c.backdrop.Bounds(), background, background.Bounds(), draw.Src, nil)
		Blur(c.backdrop, float64(style.BackgroundBlur))

		if style.AlbumArt != config.AlbumArtHidden {
			c.prepareAlbumArt(background)
		}
	}

	if style.ShareLink != "" {
		if err := c.prepareQR(style.ShareLink); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Size returns the surface size this compositor draws.
func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

// NewSurface allocates a surface of the right size.
func (c *Compositor) NewSurface() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, c.width, c.height))
}

// Composite draws one frame onto dst. Every pixel of dst is overwritten.
func (c *Compositor) Composite(dst *image.RGBA, f Frame) error {
	if b := dst.Bounds(); b.Dx() != c.width || b.Dy() != c.height {
		return fmt.Errorf("размер поверхности %dx%d не совпадает с %dx%d", b.Dx(), b.Dy(), c.width, c.height)
	}
	if (f.Event == nil) != (f.Envelope == nil) {
		return fmt.Errorf("строка и огибающая должны передаваться вместе")
	}

	fs, err := c.acquireFaces()
	if err != nil {
		return err
	}
	defer c.faces.Put(fs)

	bounds := dst.Bounds()

	// 1. Base
	draw.Draw(dst, bounds, image.NewUniform(baseColor), image.Point{}, draw.Src)

	// 2. Blurred background
	if c.backdrop != nil {
		draw.Draw(dst, bounds, c.backdrop, image.Point{}, draw.Over)
	}

	// 3. Dark overlay for legibility
	draw.Draw(dst, bounds, image.NewUniform(color.NRGBA{0, 0, 0, uint8(math.Round(255 * overlayAlpha))}), image.Point{}, draw.Over)

	// 4. Album art
	if c.art != nil {
		c.drawAlbumArt(dst)
	}

	// 5. Active lyric
	if f.Event != nil && f.Envelope != nil {
		c.drawLyric(dst, fs, f.Event.Text, *f.Envelope)
	}

	// 6. Song info
	if c.style.ShowSongInfo {
		c.drawSongInfo(dst, fs, f.Meta)
	}

	if c.qr != nil {
		draw.Draw(dst, c.qrRect, c.qr, c.qr.Bounds().Min, draw.Over)
	}

	return nil
}

func (c *Compositor) acquireFaces() (*faceSet, error) {
	if fs, ok := c.faces.Get().(*faceSet); ok && fs != nil {
		return fs, nil
	}
	return c.newFaceSet()
}

func (c *Compositor) newFaceSet() (*faceSet, error) {
	lyric, err := newFace(c.lyricFont, float64(c.style.FontSize))
	if err != nil {
		return nil, err
	}
	title, err := newFace(c.uiFont, float64(c.height)*titleSizeRatio)
	if err != nil {
		return nil, err
	}
	artist, err := newFace(c.uiFont, float64(c.height)*artistSizeRatio)
	if err != nil {
		return nil, err
	}
	return &faceSet{lyric: lyric, title: title, artist: artist}, nil
}

// prepareAlbumArt crops the centre square of the background and scales it
// to the configured size.
func (c *Compositor) prepareAlbumArt(background image.Image) {
	size := int(math.Round(float64(c.style.AlbumArtSize) * float64(c.height) / albumArtBaseline))
	if size <= 0 {
		return
	}

	margin := int(math.Round(float64(c.width) * albumArtMargin))
	x := margin
	if c.style.AlbumArt == config.AlbumArtRight {
		x = c.width - margin - size
	}
	y := (c.height - size) / 2
	c.artRect = image.Rect(x, y, x+size, y+size)

	c.art = image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(c.art, c.art.Bounds(), background, centerSquare(background.Bounds()), draw.Src, nil)
}

func centerSquare(r image.Rectangle) image.Rectangle {
	side := r.Dx()
	if r.Dy() < side {
		side = r.Dy()
	}
	x := r.Min.X + (r.Dx()-side)/2
	y := r.Min.Y + (r.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

func (c *Compositor) drawAlbumArt(dst *image.RGBA) {
	draw.Draw(dst, c.artRect, c.art, image.Point{}, draw.Src)

	r := c.artRect.Inset(-albumArtBorder)
	border := image.NewUniform(borderColor)
	b := albumArtBorder
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+b), border, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-b, r.Max.X, r.Max.Y), border, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y+b, r.Min.X+b, r.Max.Y-b), border, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Max.X-b, r.Min.Y+b, r.Max.X, r.Max.Y-b), border, image.Point{}, draw.Over)
}

func (c *Compositor) prepareQR(link string) error {
	size := int(math.Round(float64(c.height) * qrSizeRatio))
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("не удалось создать QR-код: %w", err)
	}
	img := q.Image(size)

	margin := int(math.Round(float64(c.height) * qrMarginRatio))
	x := c.width - margin - size
	if c.style.AlbumArt == config.AlbumArtRight {
		x = margin
	}
	y := c.height - margin - size
	c.qr = img
	c.qrRect = image.Rect(x, y, x+size, y+size)
	return nil
}

// anchor returns the x anchor and the vertical centre of the lyric block.
func (c *Compositor) anchor() (float64, float64) {
	w, h := float64(c.width), float64(c.height)

	var y float64
	switch c.style.LyricPosition {
	case config.PositionTop:
		y = h * 0.25
	case config.PositionBottom:
		y = h * 0.80
	default:
		y = h * 0.50
	}

	var x float64
	switch c.style.TextAlignment {
	case config.AlignLeft:
		x = w * textMarginRatio
	case config.AlignRight:
		x = w * (1 - textMarginRatio)
	default:
		x = w / 2
	}
	return x, y
}

func (c *Compositor) drawLyric(dst *image.RGBA, fs *faceSet, text string, env fade.Envelope) {
	alpha := clampUnit(env.Opacity)
	if alpha == 0 {
		return
	}
	col := c.active
	col.A = uint8(math.Round(float64(col.A) * alpha))

	x, y := c.anchor()
	lines := wrapText(fs.lyric, text, float64(c.width)*maxLineRatio)
	drawLines(dst, fs.lyric, lines, x, y+env.OffsetY, c.style.TextAlignment, col)
}

func (c *Compositor) drawSongInfo(dst *image.RGBA, fs *faceSet, meta SongMeta) {
	h := float64(c.height)
	x := float64(c.width) / 2
	if meta.Title != "" {
		drawLines(dst, fs.title, []string{meta.Title}, x, h*0.88, config.AlignCenter, titleColor)
	}
	if meta.Artist != "" {
		drawLines(dst, fs.artist, []string{meta.Artist}, x, h*0.93, config.AlignCenter, artistColor)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
