package geometry

import (
	"errors"
	"fmt"
	"log"

	"keycap-layout/internal/layout/models"
	"keycap-layout/internal/layout/parser"

	"gonum.org/v1/gonum/floats"
)

// ============================================================
// Rect Builder
// ============================================================

const (
	DefaultGroupSize = 4    // Отрезков на контур клавиши
	DefaultMinSize   = 10.0 // Нижняя граница ширины/высоты клавиши (включительно)
	DefaultMaxSize   = 40.0 // Верхняя граница (включительно)
	minGroupPoints   = 4
)

var ErrInvalidBand = errors.New("invalid key size band")

type Options struct {
	GroupSize int
	MinSize   float64
	MaxSize   float64
}

func DefaultOptions() Options {
	return Options{
		GroupSize: DefaultGroupSize,
		MinSize:   DefaultMinSize,
		MaxSize:   DefaultMaxSize,
	}
}

// Stats: счётчики для диагностики импорта.
type Stats struct {
	Segments            int `json:"segments"`
	Groups              int `json:"groups"`
	Accepted            int `json:"accepted"`
	TrailingSegments    int `json:"trailingSegments"`
	UnresolvedSegments  int `json:"unresolvedSegments"`
	RejectedFewPoints   int `json:"rejectedFewPoints"`
	RejectedInvalid     int `json:"rejectedInvalid"`
	RejectedOutOfBounds int `json:"rejectedOutOfBounds"`
}

type RectBuilder struct {
	opts Options
}

// Validate проверяет опции после подстановки значений по умолчанию.
// Нулевая нижняя граница допустима.
func (o Options) Validate() error {
	if o.MinSize < 0 {
		return fmt.Errorf("%w: min %v < 0", ErrInvalidBand, o.MinSize)
	}
	if o.MinSize > o.MaxSize {
		return fmt.Errorf("%w: min %v > max %v", ErrInvalidBand, o.MinSize, o.MaxSize)
	}
	return nil
}

// NewRectBuilder: пустые Options означают значения по умолчанию целиком.
// Иначе по умолчанию заполняются только GroupSize и MaxSize, а MinSize
// берётся как есть, чтобы нижнюю границу можно было снять нулём.
func NewRectBuilder(opts Options) *RectBuilder {
	def := DefaultOptions()
	if opts == (Options{}) {
		opts = def
	}
	if opts.GroupSize <= 0 {
		opts.GroupSize = def.GroupSize
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = def.MaxSize
	}
	if err := opts.Validate(); err != nil {
		log.Printf("[IMPORT] %v: every group will be rejected", err)
	}
	return &RectBuilder{opts: opts}
}

func (b *RectBuilder) Options() Options {
	return b.opts
}

// Build режет отрезки на группы по GroupSize подряд и строит по каждой
// группе ограничивающий прямоугольник. Неполная хвостовая группа и группы,
// не похожие на клавишу, молча отбрасываются.
func (b *RectBuilder) Build(segments []models.Entity) ([]models.Rect, Stats) {
	stats := Stats{Segments: len(segments)}
	size := b.opts.GroupSize

	groups := len(segments) / size
	stats.Groups = groups
	stats.TrailingSegments = len(segments) - groups*size

	rects := make([]models.Rect, 0, groups)
	for g := 0; g < groups; g++ {
		group := segments[g*size : (g+1)*size]

		rect, reason := b.buildGroup(group, &stats)
		switch reason {
		case rejectNone:
			rects = append(rects, rect)
			stats.Accepted++
		case rejectFewPoints:
			stats.RejectedFewPoints++
		case rejectInvalid:
			stats.RejectedInvalid++
		case rejectBounds:
			stats.RejectedOutOfBounds++
		}
	}

	return rects, stats
}

type rejectReason int

const (
	rejectNone rejectReason = iota
	rejectFewPoints
	rejectInvalid
	rejectBounds
)

func (b *RectBuilder) buildGroup(group []models.Entity, stats *Stats) (models.Rect, rejectReason) {
	var raw []models.RawPoint
	for _, seg := range group {
		ends, ok := parser.ResolveEndpoints(seg)
		if !ok {
			stats.UnresolvedSegments++
			continue
		}
		raw = append(raw, ends[0], ends[1])
	}

	if len(raw) < minGroupPoints {
		return models.Rect{}, rejectFewPoints
	}

	xs := make([]float64, 0, len(raw))
	ys := make([]float64, 0, len(raw))
	for _, rp := range raw {
		p, ok := rp.Resolved()
		if !ok {
			return models.Rect{}, rejectInvalid
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	width := maxX - minX
	height := maxY - minY
	if !b.inBand(width) || !b.inBand(height) {
		return models.Rect{}, rejectBounds
	}

	return models.Rect{
		CX:     minX + width/2,
		CY:     minY + height/2,
		Width:  width,
		Height: height,
	}, rejectNone
}

func (b *RectBuilder) inBand(v float64) bool {
	return v >= b.opts.MinSize && v <= b.opts.MaxSize
}
