package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Fatalf("Dots() = %d, %d", w, h)
	}

	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != brailleBlank {
		t.Errorf("cell 0 after Unset = %U", c.Grid[0][0])
	}

	// Out of range writes are dropped.
	c.Set(-1, 0)
	c.Set(100, 100)
	c.Unset(-1, -1)

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Errorf("String() after Clear = %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 0, 0, 3, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical", 1, 0, 1, 3, [][2]int{{1, 0}, {1, 1}, {1, 2}, {1, 3}}},
		{"diagonal", 3, 3, 0, 0, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"point", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(2, 1)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			lit := 0
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if c.IsSet(x, y) {
						lit++
					}
				}
			}
			if lit != len(tt.want) {
				t.Errorf("lit %d dots, want %d", lit, len(tt.want))
			}
			for _, p := range tt.want {
				if !c.IsSet(p[0], p[1]) {
					t.Errorf("dot %v not set", p)
				}
			}
		})
	}
}
