package parser

import (
	"fmt"
	"strings"
	"testing"
)

// dxfDrawing собирает минимальный DXF: секция ENTITIES из отрезков LINE.
func dxfDrawing(segments [][4]float64) string {
	var b strings.Builder
	b.WriteString("  0\nSECTION\n  2\nENTITIES\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "  0\nLINE\n  8\n0\n 10\n%g\n 20\n%g\n 30\n0.0\n 11\n%g\n 21\n%g\n 31\n0.0\n",
			s[0], s[1], s[2], s[3])
	}
	b.WriteString("  0\nENDSEC\n  0\nEOF\n")
	return b.String()
}

func TestDecodeDXFLines(t *testing.T) {
	square := [][4]float64{
		{0, 0, 20, 0},
		{20, 0, 20, 20},
		{20, 20, 0, 20},
		{0, 20, 0, 0},
	}

	list, err := DecodeDXF(strings.NewReader(dxfDrawing(square)))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("got %d entities, want 4", len(list))
	}

	for i, e := range list {
		if !e.IsLine() {
			t.Fatalf("entity %d: type %q, want LINE", i, e.Type)
		}
		ends, ok := ResolveEndpoints(e)
		if !ok {
			t.Fatalf("entity %d: endpoints not resolved", i)
		}
		start, ok0 := ends[0].Resolved()
		end, ok1 := ends[1].Resolved()
		if !ok0 || !ok1 {
			t.Fatalf("entity %d: invalid coordinates", i)
		}
		want := square[i]
		if start.X != want[0] || start.Y != want[1] || end.X != want[2] || end.Y != want[3] {
			t.Errorf("entity %d: got %v-%v, want %v", i, start, end, want)
		}
	}
}

func TestDecodeDXFMalformed(t *testing.T) {
	if _, err := DecodeDXF(strings.NewReader("SECTION\n  2\nENTITIES\n")); err == nil {
		t.Fatalf("expected error for malformed drawing")
	}
}
