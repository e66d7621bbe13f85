package dungeon

import (
	"strings"
	"testing"
)

func TestRenderGrid_RoundTrip(t *testing.T) {
	layout := `#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######`

	m, roster, err := ParseBattle(layout)
	if err != nil {
		t.Fatalf("ParseBattle failed: %v", err)
	}

	got := strings.Join(RenderGrid(m, roster), "\n")
	if got != layout {
		t.Errorf("Render round trip mismatch:\n%s\nwant:\n%s", got, layout)
	}
}

func TestRender_Annotations(t *testing.T) {
	m, roster, err := ParseBattle("#######\n#G..E.#\n#######")
	if err != nil {
		t.Fatal(err)
	}
	roster.ApplyDamage(roster.Unit(1), 3)

	want := "#######\n#G..E.#   G(200), E(197)\n#######\n"
	if got := Render(m, roster); got != want {
		t.Errorf("Expected:\n%q\ngot:\n%q", want, got)
	}

	// Мертвые не рисуются
	roster.ApplyDamage(roster.Unit(0), 1000)
	if got := RenderGrid(m, roster)[1]; got != "#...E.#" {
		t.Errorf("Dead unit still rendered: %q", got)
	}
}
