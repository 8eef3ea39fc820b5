package models

import (
	"encoding/json"
	"math"
	"time"
)

// ============================================================
// CAD entities
// ============================================================

const EntityLine = "LINE"

// RawPoint: точка в том виде, в котором её отдал декодер.
// Отсутствующая координата остаётся nil.
type RawPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Resolved возвращает точку, если обе координаты заданы и конечны.
func (p RawPoint) Resolved() (Point, bool) {
	if p.X == nil || p.Y == nil {
		return Point{}, false
	}
	x, y := *p.X, *p.Y
	if !finite(x) || !finite(y) {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// UnmarshalJSON не падает на плохих координатах: нечисловое значение
// остаётся nil, и группа с такой точкой отбрасывается при сборке.
func (p *RawPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
	}
	*p = RawPoint{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	p.X = number(raw.X)
	p.Y = number(raw.Y)
	return nil
}

func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func Raw(x, y float64) RawPoint {
	return RawPoint{X: &x, Y: &y}
}

// Entity — одна сущность чертежа. Концы отрезка приходят либо парой
// start/end, либо списком vertices.
type Entity struct {
	Type     string     `json:"type"`
	Layer    string     `json:"layer,omitempty"`
	Start    *RawPoint  `json:"start,omitempty"`
	End      *RawPoint  `json:"end,omitempty"`
	Vertices []RawPoint `json:"vertices,omitempty"`
}

func (e Entity) IsLine() bool {
	return e.Type == EntityLine
}

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect: восстановленный прямоугольник клавиши в координатах чертежа.
type Rect struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ============================================================
// Keys
// ============================================================

const (
	BaseLayer       = "base"
	DefaultBG       = "#ffffff"
	DefaultInk      = "#000000"
	DefaultFontSize = 18.0
)

// LayerStyle — оформление клавиши на одном слое.
// Color == nil означает цвет текста по умолчанию (DefaultInk).
type LayerStyle struct {
	Text     string  `json:"text"`
	BG       string  `json:"bg"`
	FontSize float64 `json:"fontSize"`
	Color    *string `json:"color,omitempty"`
}

func DefaultStyle() LayerStyle {
	return LayerStyle{
		Text:     "",
		BG:       DefaultBG,
		FontSize: DefaultFontSize,
	}
}

// InkColor разрешает цвет текста с учётом значения по умолчанию.
func (s LayerStyle) InkColor() string {
	if s.Color == nil || *s.Color == "" {
		return DefaultInk
	}
	return *s.Color
}

type Key struct {
	ID       string                `json:"id"`
	X        float64               `json:"x"`
	Y        float64               `json:"y"`
	Width    float64               `json:"width"`
	Height   float64               `json:"height"`
	Rotation float64               `json:"rotation"`
	Layers   map[string]LayerStyle `json:"layers"`
}

// Style возвращает стиль слоя, а если его нет, стиль base.
func (k Key) Style(layer string) LayerStyle {
	if s, ok := k.Layers[layer]; ok {
		return s
	}
	if s, ok := k.Layers[BaseLayer]; ok {
		return s
	}
	return DefaultStyle()
}

// Clone копирует ключ вместе с картой слоёв.
func (k Key) Clone() Key {
	out := k
	out.Layers = make(map[string]LayerStyle, len(k.Layers))
	for name, s := range k.Layers {
		if s.Color != nil {
			c := *s.Color
			s.Color = &c
		}
		out.Layers[name] = s
	}
	return out
}

// ============================================================
// Persisted layout
// ============================================================

const LayoutVersion = 1

type Layout struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
	Layers  []string  `json:"layers"`
	Keys    []Key     `json:"keys"`
}

// LayoutSummary: строка списка сохранённых раскладок.
type LayoutSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	KeyCount  int       `json:"keyCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
