package dungeon

import (
	"fmt"
	"strings"

	"cavern-combat/internal/domain"
)

// ParseLayout разбирает текстовую раскладку пещеры:
//
//	#  стена
//	.  открытая клетка
//	E  открытая клетка с эльфом
//	G  открытая клетка с гоблином
//
// Пустые строки в начале и в конце игнорируются, '\r' отбрасывается.
// Юниты возвращаются в порядке чтения. Проверку состава (обе стороны на месте)
// делает domain.NewRoster.
func ParseLayout(text string) (*domain.GridMap, []domain.Unit, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: empty layout", domain.ErrMalformedMap)
	}

	grid := make([][]domain.Terrain, len(lines))
	var units []domain.Unit

	for y, line := range lines {
		row := make([]domain.Terrain, len(line))
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case domain.GlyphWall:
				row[x] = domain.TerrainWall
			case domain.GlyphOpen:
				row[x] = domain.TerrainOpen
			case domain.GlyphElf:
				row[x] = domain.TerrainOpen
				units = append(units, domain.NewUnit(domain.FactionElf, domain.Position{X: x, Y: y}))
			case domain.GlyphGoblin:
				row[x] = domain.TerrainOpen
				units = append(units, domain.NewUnit(domain.FactionGoblin, domain.Position{X: x, Y: y}))
			default:
				return nil, nil, fmt.Errorf("%w: unexpected glyph %q at (%d,%d)", domain.ErrMalformedMap, line[x], x, y)
			}
		}
		grid[y] = row
	}

	m, err := domain.NewGridMap(grid)
	if err != nil {
		return nil, nil, err
	}
	return m, units, nil
}

// ParseBattle разбирает раскладку и сразу собирает Roster.
func ParseBattle(text string) (*domain.GridMap, *domain.Roster, error) {
	m, units, err := ParseLayout(text)
	if err != nil {
		return nil, nil, err
	}
	roster, err := domain.NewRoster(units)
	if err != nil {
		return nil, nil, err
	}
	return m, roster, nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	start, end := 0, len(raw)
	for start < end && strings.TrimSpace(raw[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}

	lines := raw[start:end]
	for i := range lines {
		// Хвостовые пробелы - артефакт копипасты из редакторов
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return lines
}
