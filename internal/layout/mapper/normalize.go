package mapper

import (
	"errors"

	"keycap-layout/internal/layout/models"

	"gonum.org/v1/gonum/floats"
)

// ============================================================
// Normalization
// ============================================================

const (
	DefaultScale  = 4.0
	DefaultMargin = 50.0
)

var ErrNoKeys = errors.New("normalize: no keys")

type NormalizeOptions struct {
	Scale  float64
	Margin float64
}

func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{Scale: DefaultScale, Margin: DefaultMargin}
}

// Normalize переводит клавиши из координат чертежа (Y вверх) в экранные
// (Y вниз). Крайняя левая клавиша получает x = margin, самая верхняя y = margin.
// Считается по всей пачке сразу, вход не изменяется.
func Normalize(keys []models.Key, opts NormalizeOptions) ([]models.Key, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		xs[i] = k.X
		ys[i] = k.Y
	}
	minX := floats.Min(xs)
	maxY := floats.Max(ys)

	out := make([]models.Key, len(keys))
	for i, k := range keys {
		n := k.Clone()
		n.X = (k.X-minX)*opts.Scale + opts.Margin
		n.Y = (maxY-k.Y)*opts.Scale + opts.Margin
		n.Width = k.Width * opts.Scale
		n.Height = k.Height * opts.Scale
		out[i] = n
	}

	return out, nil
}
