package layoutfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"keycap-layout/internal/layout/models"
)

// ============================================================
// Layout file format
// ============================================================

var (
	ErrUnsupportedVersion = errors.New("unsupported layout version")
	ErrKeyNotFound        = errors.New("key not found")
	ErrInvalidLayer       = errors.New("invalid layer name")
)

// New собирает раскладку версии 1 из клавиш импорта.
func New(keys []models.Key, now time.Time) *models.Layout {
	layout := &models.Layout{
		Version: models.LayoutVersion,
		SavedAt: now.UTC(),
		Keys:    keys,
	}
	layout.Layers = collectLayers(nil, keys)
	return layout
}

// Encode пишет раскладку, проставляя версию и время сохранения.
func Encode(w io.Writer, layout *models.Layout, now time.Time) error {
	if layout == nil {
		return fmt.Errorf("layout is nil")
	}

	out := *layout
	out.Version = models.LayoutVersion
	out.SavedAt = now.UTC()
	out.Layers = collectLayers(layout.Layers, layout.Keys)
	if out.Keys == nil {
		out.Keys = []models.Key{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// Decode читает и проверяет раскладку.
func Decode(r io.Reader) (*models.Layout, error) {
	var layout models.Layout
	if err := json.NewDecoder(r).Decode(&layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := Validate(&layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

// Validate проверяет версию, id клавиш и наличие слоя base.
// Список слоёв восстанавливается по клавишам.
func Validate(layout *models.Layout) error {
	if layout.Version != models.LayoutVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, layout.Version)
	}

	seen := make(map[string]struct{}, len(layout.Keys))
	for i, key := range layout.Keys {
		if key.ID == "" {
			return fmt.Errorf("key %d: empty id", i)
		}
		if _, dup := seen[key.ID]; dup {
			return fmt.Errorf("key %d: duplicate id %q", i, key.ID)
		}
		seen[key.ID] = struct{}{}

		if _, ok := key.Layers[models.BaseLayer]; !ok {
			return fmt.Errorf("key %q: missing %q layer", key.ID, models.BaseLayer)
		}
	}

	if layout.Keys == nil {
		layout.Keys = []models.Key{}
	}
	layout.Layers = collectLayers(layout.Layers, layout.Keys)
	return nil
}

// collectLayers: base первым, затем объявленные слои, затем найденные у клавиш.
func collectLayers(declared []string, keys []models.Key) []string {
	layers := []string{models.BaseLayer}
	seen := map[string]struct{}{models.BaseLayer: {}}

	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		layers = append(layers, name)
	}

	for _, name := range declared {
		add(name)
	}

	var extra []string
	for _, key := range keys {
		for name := range key.Layers {
			if _, ok := seen[name]; !ok {
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		add(name)
	}

	return layers
}

// ============================================================
// Editing
// ============================================================

// AddLayer объявляет слой и даёт каждой клавише стиль по умолчанию на нём.
// Уже существующие стили не трогаются.
func AddLayer(layout *models.Layout, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidLayer
	}

	for i := range layout.Keys {
		if layout.Keys[i].Layers == nil {
			layout.Keys[i].Layers = make(map[string]models.LayerStyle)
		}
		if _, ok := layout.Keys[i].Layers[name]; !ok {
			layout.Keys[i].Layers[name] = models.DefaultStyle()
		}
	}

	layout.Layers = collectLayers(append(layout.Layers, name), layout.Keys)
	return nil
}

// StylePatch описывает частичное изменение стиля, nil поля не меняются.
// Пустая строка в Color сбрасывает цвет к значению по умолчанию.
type StylePatch struct {
	Text     *string  `json:"text"`
	BG       *string  `json:"bg"`
	FontSize *float64 `json:"fontSize"`
	Color    *string  `json:"color"`
}

// PatchStyle меняет стиль клавиши на слое. Если стиля на этом слое нет,
// он создаётся из значений по умолчанию.
func PatchStyle(layout *models.Layout, keyID, layer string, patch StylePatch) (*models.Key, error) {
	layer = strings.TrimSpace(layer)
	if layer == "" {
		return nil, ErrInvalidLayer
	}

	for i := range layout.Keys {
		key := &layout.Keys[i]
		if key.ID != keyID {
			continue
		}

		if key.Layers == nil {
			key.Layers = make(map[string]models.LayerStyle)
		}
		style, ok := key.Layers[layer]
		if !ok {
			style = models.DefaultStyle()
		}

		if patch.Text != nil {
			style.Text = *patch.Text
		}
		if patch.BG != nil {
			style.BG = *patch.BG
		}
		if patch.FontSize != nil && *patch.FontSize > 0 {
			style.FontSize = *patch.FontSize
		}
		if patch.Color != nil {
			if *patch.Color == "" {
				style.Color = nil
			} else {
				c := *patch.Color
				style.Color = &c
			}
		}

		key.Layers[layer] = style
		layout.Layers = collectLayers(layout.Layers, layout.Keys)
		return key, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
}
