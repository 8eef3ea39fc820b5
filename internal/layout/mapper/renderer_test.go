package mapper

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"keycap-layout/internal/layout/models"
)

func testLayout() *models.Layout {
	red := "#ff0000"
	k1 := key("k1", 50, 50, 80, 80)
	k1.Layers[models.BaseLayer] = models.LayerStyle{BG: "#00ff00", FontSize: 18}
	k1.Layers["fn"] = models.LayerStyle{Text: "<Fn>", BG: "#0000ff", FontSize: 12, Color: &red}

	k2 := key("k2", 170, 50, 80, 80)
	k2.Layers[models.BaseLayer] = models.LayerStyle{Text: "Esc\nKey", BG: "#fff", FontSize: 14}

	return &models.Layout{
		Version: models.LayoutVersion,
		Layers:  []string{models.BaseLayer, "fn"},
		Keys:    []models.Key{k1, k2},
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().RenderPNG(&buf, testLayout(), ""); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 260 || b.Dy() != 140 {
		t.Fatalf("canvas %dx%d, want 260x140", b.Dx(), b.Dy())
	}

	r, g, bl, _ := img.At(50, 50).RGBA()
	if r>>8 != 0 || g>>8 != 255 || bl>>8 != 0 {
		t.Fatalf("key centre = %v, want base bg green", img.At(50, 50))
	}

	r, _, _, _ = img.At(2, 2).RGBA()
	if r>>8 != 240 {
		t.Fatalf("canvas colour = %v", img.At(2, 2))
	}
}

func TestRenderPNGLayerFallback(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().RenderPNG(&buf, testLayout(), "fn"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	// k1 есть на слое fn: синий фон (угол клавиши, без текста)
	r, g, b, _ := img.At(20, 20).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Fatalf("k1 on fn = %v, want blue", img.At(20, 20))
	}
	// k2 на fn нет, берётся стиль base (#fff)
	r, g, b, _ = img.At(140, 20).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Fatalf("k2 fallback = %v, want white", img.At(140, 20))
	}
}

func TestRenderEmptyLayout(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer().RenderPNG(&buf, &models.Layout{Version: 1}, "")
	if !errors.Is(err, ErrEmptyLayout) {
		t.Fatalf("got %v, want ErrEmptyLayout", err)
	}
	if _, err := NewRenderer().RenderSVG(nil, ""); !errors.Is(err, ErrEmptyLayout) {
		t.Fatalf("got %v, want ErrEmptyLayout", err)
	}
}

func TestRenderCanvasTooLarge(t *testing.T) {
	for _, pos := range []float64{1e12, 60000, 8200} {
		layout := &models.Layout{Version: 1, Keys: []models.Key{
			{ID: "far", X: pos, Y: 10, Width: 80, Height: 80, Layers: map[string]models.LayerStyle{
				models.BaseLayer: models.DefaultStyle(),
			}},
		}}

		var buf bytes.Buffer
		if err := NewRenderer().RenderPNG(&buf, layout, ""); !errors.Is(err, ErrCanvasTooLarge) {
			t.Errorf("png at x=%v: got %v, want ErrCanvasTooLarge", pos, err)
		}
		if buf.Len() != 0 {
			t.Errorf("png at x=%v: nothing must be written", pos)
		}
		if _, err := NewRenderer().RenderSVG(layout, ""); !errors.Is(err, ErrCanvasTooLarge) {
			t.Errorf("svg at x=%v: got %v, want ErrCanvasTooLarge", pos, err)
		}
	}

	// Ровно по границе холста.
	edge := &models.Layout{Version: 1, Keys: []models.Key{
		{ID: "edge", X: 8192 - 50 - 40, Y: 40, Width: 80, Height: 80},
	}}
	if _, err := NewRenderer().RenderSVG(edge, ""); err != nil {
		t.Fatalf("key at the canvas edge must render: %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := NewRenderer().RenderSVG(testLayout(), "fn")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{
		`width="260" height="140"`,
		`<rect id="k1" x="10" y="10" width="80" height="80"`,
		`fill="#0000ff"`,
		`&lt;Fn&gt;</text>`,
		`fill="#ff0000"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ffffff", color.RGBA{255, 255, 255, 255}, true},
		{"#0a0B0c", color.RGBA{10, 11, 12, 255}, true},
		{"#f00", color.RGBA{255, 0, 0, 255}, true},
		{"abc", color.RGBA{170, 187, 204, 255}, true},
		{"#12345", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseHexColor(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseHexColor(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
