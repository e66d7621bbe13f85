package engine

import (
	"os"
	"testing"

	"cavern-combat/internal/domain"
	"cavern-combat/pkg/dungeon"
	"cavern-combat/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()

	os.Exit(m.Run())
}

func mustParse(t *testing.T, layout string) (*domain.GridMap, *domain.Roster) {
	t.Helper()
	m, roster, err := dungeon.ParseBattle(layout)
	if err != nil {
		t.Fatalf("ParseBattle failed: %v", err)
	}
	return m, roster
}

func testConfig() Config {
	cfg := NewConfig()
	cfg.SearchWorkers = 4
	cfg.RoundDelay = 0
	return cfg
}

// Опубликованные примеры боев: раскладка и ожидаемые итоги обеих частей задачи.
var publishedBattles = []struct {
	name      string
	layout    string
	rounds    int
	hitPoints int
	winner    domain.Faction

	// Поиск силы эльфов: 0 - пример без опубликованного ответа
	power       int
	powerRounds int
	powerHP     int
}{
	{
		name: "Example 1",
		layout: `
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######`,
		rounds: 47, hitPoints: 590, winner: domain.FactionGoblin,
		power: 15, powerRounds: 29, powerHP: 172,
	},
	{
		name: "Example 2",
		layout: `
#######
#G..#E#
#E#E.E#
#G.##.#
#...#E#
#...E.#
#######`,
		rounds: 37, hitPoints: 982, winner: domain.FactionElf,
	},
	{
		name: "Example 3",
		layout: `
#######
#E..EG#
#.#G.E#
#E.##E#
#G..#.#
#..E#.#
#######`,
		rounds: 46, hitPoints: 859, winner: domain.FactionElf,
		power: 4, powerRounds: 33, powerHP: 948,
	},
	{
		name: "Example 4",
		layout: `
#######
#E.G#.#
#.#G..#
#G.#.G#
#G..#.#
#...E.#
#######`,
		rounds: 35, hitPoints: 793, winner: domain.FactionGoblin,
		power: 15, powerRounds: 37, powerHP: 94,
	},
	{
		name: "Example 5",
		layout: `
#######
#.E...#
#.#..G#
#.###.#
#E#G#G#
#...#G#
#######`,
		rounds: 54, hitPoints: 536, winner: domain.FactionGoblin,
		power: 12, powerRounds: 39, powerHP: 166,
	},
	{
		name: "Example 6",
		layout: `
#########
#G......#
#.E.#...#
#..##..G#
#...##..#
#...#...#
#.G...G.#
#.....G.#
#########`,
		rounds: 20, hitPoints: 937, winner: domain.FactionGoblin,
		power: 34, powerRounds: 30, powerHP: 38,
	},
}
