package mapper

import (
	"errors"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"keycap-layout/internal/layout/models"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ============================================================
// Renderer
// ============================================================

const (
	exportMargin = 50.0
	cornerRadius = 4.0
	borderWidth  = 1.5
	borderColor  = "#333333"
	canvasColor  = "#f0f0f0"

	// Сторона холста в пикселях; 8192x8192 RGBA это 256 МБ.
	maxCanvasSide = 8192
)

var (
	ErrEmptyLayout    = errors.New("layout has no keys")
	ErrCanvasTooLarge = errors.New("layout does not fit the export canvas")
)

type Renderer struct {
	once  sync.Once
	font  *opentype.Font
	err   error
	mu    sync.Mutex
	faces map[float64]font.Face
}

func NewRenderer() *Renderer {
	return &Renderer{faces: make(map[float64]font.Face)}
}

// RenderPNG рисует выбранный слой раскладки в PNG.
func (r *Renderer) RenderPNG(w io.Writer, layout *models.Layout, layer string) error {
	if layout == nil || len(layout.Keys) == 0 {
		return ErrEmptyLayout
	}
	if layer == "" {
		layer = models.BaseLayer
	}

	width, height, err := canvasSize(layout.Keys)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(mustColor(canvasColor, color.RGBA{240, 240, 240, 255})), image.Point{}, draw.Src)

	for _, key := range layout.Keys {
		style := key.Style(layer)
		r.drawKey(img, key, style)
		if err := r.drawLabel(img, key, style); err != nil {
			return err
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// RenderSVG собирает SVG того же слоя.
func (r *Renderer) RenderSVG(layout *models.Layout, layer string) (string, error) {
	if layout == nil || len(layout.Keys) == 0 {
		return "", ErrEmptyLayout
	}
	if layer == "" {
		layer = models.BaseLayer
	}

	width, height, err := canvasSize(layout.Keys)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s" />`, canvasColor))
	builder.WriteString("\n")

	for _, key := range layout.Keys {
		style := key.Style(layer)
		x := key.X - key.Width/2
		y := key.Y - key.Height/2

		builder.WriteString(fmt.Sprintf(`  <rect id="%s" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="%s" />`,
			html.EscapeString(key.ID), formatFloat(x), formatFloat(y), formatFloat(key.Width), formatFloat(key.Height),
			formatFloat(cornerRadius), html.EscapeString(bgOrDefault(style.BG)), borderColor, formatFloat(borderWidth)))
		builder.WriteString("\n")

		if style.Text == "" {
			continue
		}
		builder.WriteString(fmt.Sprintf(`  <text x="%s" y="%s" font-family="monospace" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`,
			formatFloat(key.X), formatFloat(key.Y), formatFloat(fontSizeOrDefault(style.FontSize)),
			html.EscapeString(style.InkColor()), html.EscapeString(style.Text)))
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Drawing helpers
// ============================================================

// canvasSize считает холст по правому нижнему краю клавиш плюс отступ.
func canvasSize(keys []models.Key) (int, int, error) {
	var maxX, maxY float64
	for _, k := range keys {
		maxX = math.Max(maxX, k.X+k.Width/2)
		maxY = math.Max(maxY, k.Y+k.Height/2)
	}

	w := math.Ceil(maxX + exportMargin)
	h := math.Ceil(maxY + exportMargin)
	if math.IsNaN(w) || math.IsNaN(h) || w > maxCanvasSide || h > maxCanvasSide {
		return 0, 0, fmt.Errorf("%w: %vx%v, limit %d", ErrCanvasTooLarge, w, h, maxCanvasSide)
	}
	return int(w), int(h), nil
}

func (r *Renderer) drawKey(dst *image.RGBA, key models.Key, style models.LayerStyle) {
	x0 := key.X - key.Width/2
	y0 := key.Y - key.Height/2

	border := mustColor(borderColor, color.RGBA{51, 51, 51, 255})
	bg := mustColor(style.BG, color.RGBA{255, 255, 255, 255})

	fillRoundedRect(dst, x0, y0, key.Width, key.Height, cornerRadius, border)
	fillRoundedRect(dst, x0+borderWidth, y0+borderWidth,
		key.Width-2*borderWidth, key.Height-2*borderWidth, cornerRadius-borderWidth/2, bg)
}

// fillRoundedRect растеризует прямоугольник со скруглёнными углами в маску
// размером с сам прямоугольник и накладывает её на dst.
func fillRoundedRect(dst *image.RGBA, x, y, w, h, radius float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}

	ox := int(math.Floor(x))
	oy := int(math.Floor(y))
	bw := int(math.Ceil(x+w)) - ox
	bh := int(math.Ceil(y+h)) - oy
	if bw <= 0 || bh <= 0 {
		return
	}

	radius = math.Max(0, math.Min(radius, math.Min(w, h)/2))

	lx := float32(x - float64(ox))
	ly := float32(y - float64(oy))
	rx := lx + float32(w)
	ry := ly + float32(h)
	rr := float32(radius)

	z := vector.NewRasterizer(bw, bh)
	z.MoveTo(lx+rr, ly)
	z.LineTo(rx-rr, ly)
	z.QuadTo(rx, ly, rx, ly+rr)
	z.LineTo(rx, ry-rr)
	z.QuadTo(rx, ry, rx-rr, ry)
	z.LineTo(lx+rr, ry)
	z.QuadTo(lx, ry, lx, ry-rr)
	z.LineTo(lx, ly+rr)
	z.QuadTo(lx, ly, lx+rr, ly)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, bw, bh))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	target := image.Rect(ox, oy, ox+bw, oy+bh)
	draw.DrawMask(dst, target, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *Renderer) drawLabel(dst *image.RGBA, key models.Key, style models.LayerStyle) error {
	if style.Text == "" {
		return nil
	}

	face, err := r.face(fontSizeOrDefault(style.FontSize))
	if err != nil {
		return err
	}

	ink := mustColor(style.InkColor(), color.RGBA{0, 0, 0, 255})
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height
	if lineHeight == 0 {
		lineHeight = metrics.Ascent + metrics.Descent
	}

	lines := strings.Split(style.Text, "\n")
	total := lineHeight.Mul(fixed.I(len(lines)))
	top := fixed.Int26_6(key.Y*64) - total/2

	for i, line := range lines {
		advance := drawer.MeasureString(line)
		baseline := top + lineHeight.Mul(fixed.I(i)) + metrics.Ascent
		drawer.Dot = fixed.Point26_6{
			X: fixed.Int26_6(key.X*64) - advance/2,
			Y: baseline,
		}
		drawer.DrawString(line)
	}

	return nil
}

// face кеширует шрифт по размеру.
func (r *Renderer) face(size float64) (font.Face, error) {
	r.once.Do(func() {
		r.font, r.err = opentype.Parse(gomono.TTF)
	})
	if r.err != nil {
		return nil, fmt.Errorf("parse font: %w", r.err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.faces[size]; ok {
		return f, nil
	}

	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %v: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

// ============================================================
// Colors
// ============================================================

// ParseHexColor разбирает #rgb и #rrggbb.
func ParseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return color.RGBA{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, true
}

func mustColor(s string, def color.RGBA) color.RGBA {
	if c, ok := ParseHexColor(s); ok {
		return c
	}
	return def
}

func bgOrDefault(bg string) string {
	if bg == "" {
		return models.DefaultBG
	}
	return bg
}

func fontSizeOrDefault(size float64) float64 {
	if size <= 0 {
		return models.DefaultFontSize
	}
	return size
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
