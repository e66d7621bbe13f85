package dungeon

import (
	"fmt"
	"strings"

	"cavern-combat/internal/domain"
)

// RenderGrid возвращает строки карты с живыми юнитами, без аннотаций.
func RenderGrid(m *domain.GridMap, roster *domain.Roster) []string {
	lines := make([]string, m.Height())
	for y := 0; y < m.Height(); y++ {
		row := make([]byte, m.Width())
		for x := 0; x < m.Width(); x++ {
			p := domain.Position{X: x, Y: y}
			switch {
			case roster != nil && roster.IsOccupied(p):
				row[x] = roster.OccupantAt(p).Faction.Symbol()
			case m.IsOpen(p):
				row[x] = domain.GlyphOpen
			default:
				row[x] = domain.GlyphWall
			}
		}
		lines[y] = string(row)
	}
	return lines
}

// Render - текстовый снимок боя: карта и HP юнитов справа от каждой строки.
//
//	#G....#   G(200)
//	#..E..#   E(197)
func Render(m *domain.GridMap, roster *domain.Roster) string {
	lines := RenderGrid(m, roster)

	byRow := make(map[int][]string)
	if roster != nil {
		for _, u := range roster.Living() {
			byRow[u.Pos.Y] = append(byRow[u.Pos.Y], fmt.Sprintf("%c(%d)", u.Faction.Symbol(), u.Stats.HP))
		}
	}

	var sb strings.Builder
	for y, line := range lines {
		sb.WriteString(line)
		if hp := byRow[y]; len(hp) > 0 {
			sb.WriteString("   ")
			sb.WriteString(strings.Join(hp, ", "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
