package mapper

import (
	"strings"
	"testing"

	"keycap-layout/internal/layout/geometry"
	"keycap-layout/internal/layout/models"
)

func seg(x1, y1, x2, y2 float64) models.Entity {
	start, end := models.Raw(x1, y1), models.Raw(x2, y2)
	return models.Entity{Type: models.EntityLine, Start: &start, End: &end}
}

func square(cx, cy, size float64) []models.Entity {
	h := size / 2
	return []models.Entity{
		seg(cx-h, cy-h, cx+h, cy-h),
		seg(cx+h, cy-h, cx+h, cy+h),
		seg(cx+h, cy+h, cx-h, cy+h),
		seg(cx-h, cy+h, cx-h, cy-h),
	}
}

func TestAssembleKeysDefaults(t *testing.T) {
	rects := []models.Rect{{CX: 1, CY: 2, Width: 20, Height: 15}}
	keys := AssembleKeys(rects, NewSequenceProvider("k"))

	if len(keys) != 1 {
		t.Fatalf("got %d keys", len(keys))
	}
	k := keys[0]
	if k.ID != "k-1" || k.X != 1 || k.Y != 2 || k.Width != 20 || k.Height != 15 || k.Rotation != 0 {
		t.Fatalf("unexpected key %+v", k)
	}
	if len(k.Layers) != 1 {
		t.Fatalf("expected only base layer, got %v", k.Layers)
	}
	base, ok := k.Layers[models.BaseLayer]
	if !ok {
		t.Fatalf("base layer missing")
	}
	if base.Text != "" || base.BG != "#ffffff" || base.FontSize != 18 || base.Color != nil {
		t.Fatalf("unexpected default style %+v", base)
	}
	if base.InkColor() != models.DefaultInk {
		t.Fatalf("ink fallback = %q", base.InkColor())
	}
}

func TestImportEndToEnd(t *testing.T) {
	entities := append(square(0, 0, 20), square(30, 0, 20)...)
	entities = append(entities, models.Entity{Type: "CIRCLE"})

	conv := New(geometry.DefaultOptions(), DefaultNormalizeOptions(), NewSequenceProvider("key"))
	res, err := conv.Import(entities)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if res.Stats.Entities != 9 || res.Stats.Lines != 8 || res.Stats.Accepted != 2 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
	if len(res.Keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(res.Keys))
	}

	// minX = 0, maxY = 0 по центрам клавиш
	first, second := res.Keys[0], res.Keys[1]
	if first.X != 50 || first.Y != 50 {
		t.Errorf("first key at (%v, %v), want (50, 50)", first.X, first.Y)
	}
	if second.X != 170 || second.Y != 50 {
		t.Errorf("second key at (%v, %v), want (170, 50)", second.X, second.Y)
	}
	if first.Width != 80 || first.Height != 80 {
		t.Errorf("size %vx%v, want 80x80", first.Width, first.Height)
	}
	if first.ID == second.ID {
		t.Errorf("ids must be distinct")
	}
}

func TestImportTwiceHasNoIDCollisions(t *testing.T) {
	entities := append(square(0, 0, 20), square(30, 0, 20)...)
	entities = append(entities, square(60, 0, 20)...)

	conv := NewDefault()
	seen := map[string]bool{}
	for run := 0; run < 2; run++ {
		res, err := conv.Import(entities)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		for _, k := range res.Keys {
			if seen[k.ID] {
				t.Fatalf("id %s reused", k.ID)
			}
			seen[k.ID] = true
		}
	}
	if len(seen) != 6 {
		t.Fatalf("got %d ids, want 6", len(seen))
	}
}

func TestImportNothingAccepted(t *testing.T) {
	entities := square(0, 0, 200) // рамка, а не клавиша
	entities = append(entities, seg(0, 0, 1, 1))

	res, err := NewDefault().Import(entities)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(res.Keys) != 0 {
		t.Fatalf("expected no keys, got %d", len(res.Keys))
	}
	if res.Stats.RejectedOutOfBounds != 1 || res.Stats.TrailingSegments != 1 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}

func TestImportJSON(t *testing.T) {
	payload := `[
		{"type":"LINE","vertices":[{"x":0,"y":0},{"x":18,"y":0}]},
		{"type":"LINE","vertices":[{"x":18,"y":0},{"x":18,"y":18}]},
		{"type":"LINE","vertices":[{"x":18,"y":18},{"x":0,"y":18}]},
		{"type":"LINE","vertices":[{"x":0,"y":18},{"x":0,"y":0}]}
	]`

	res, err := NewDefault().ImportJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(res.Keys) != 1 || res.Keys[0].Width != 72 {
		t.Fatalf("unexpected keys %+v", res.Keys)
	}
}

func TestImportJSONBadCoordinateRejectsOnlyItsGroup(t *testing.T) {
	payload := `[
		{"type":"LINE","start":{"x":-10,"y":-10},"end":{"x":10,"y":-10}},
		{"type":"LINE","start":{"x":10,"y":-10},"end":{"x":10,"y":10}},
		{"type":"LINE","start":{"x":10,"y":10},"end":{"x":-10,"y":10}},
		{"type":"LINE","start":{"x":-10,"y":10},"end":{"x":-10,"y":-10}},
		{"type":"LINE","start":{"x":"abc","y":-10},"end":{"x":40,"y":-10}},
		{"type":"LINE","start":{"x":40,"y":-10},"end":{"x":40,"y":10}},
		{"type":"LINE","start":{"x":40,"y":10},"end":{"x":20,"y":10}},
		{"type":"LINE","start":{"x":20,"y":10},"end":{"x":20,"y":-10}}
	]`

	res, err := NewDefault().ImportJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(res.Keys) != 1 {
		t.Fatalf("got %d keys, want 1", len(res.Keys))
	}
	if res.Stats.Groups != 2 || res.Stats.Accepted != 1 || res.Stats.RejectedInvalid != 1 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}
