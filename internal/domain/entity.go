package domain

import "fmt"

// Faction - сторона конфликта. Бой заканчивается, когда у одной из сторон не осталось живых.
type Faction uint8

const (
	FactionElf Faction = iota
	FactionGoblin
)

// Factions - все стороны в фиксированном порядке.
var Factions = [2]Faction{FactionElf, FactionGoblin}

func (f Faction) Enemy() Faction {
	if f == FactionElf {
		return FactionGoblin
	}
	return FactionElf
}

// Symbol возвращает символ стороны на карте.
func (f Faction) Symbol() byte {
	if f == FactionElf {
		return GlyphElf
	}
	return GlyphGoblin
}

func (f Faction) String() string {
	if f == FactionElf {
		return "elf"
	}
	return "goblin"
}

// ParseFaction разбирает имя стороны (elf/goblin или E/G).
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "elf", "Elf", "elves", "E":
		return FactionElf, nil
	case "goblin", "Goblin", "goblins", "G":
		return FactionGoblin, nil
	}
	return 0, fmt.Errorf("unknown faction %q", s)
}

// UnitID - стабильный индекс юнита в арене Roster.
// Не меняется при перемещении и смерти, поэтому хэндлы не протухают посреди раунда.
type UnitID int

type Unit struct {
	ID      UnitID          `json:"id"`
	Faction Faction         `json:"faction"`
	Pos     Position        `json:"pos"`
	Stats   *StatsComponent `json:"stats"`
}

// NewUnit создает юнита со стартовыми характеристиками.
func NewUnit(f Faction, pos Position) Unit {
	return Unit{
		Faction: f,
		Pos:     pos,
		Stats: &StatsComponent{
			HP:          DefaultHitPoints,
			MaxHP:       DefaultHitPoints,
			AttackPower: DefaultAttackPower,
		},
	}
}

func (u *Unit) IsAlive() bool {
	return u.Stats != nil && !u.Stats.IsDead
}

// IsEnemyOf - юниты разных сторон.
func (u *Unit) IsEnemyOf(other *Unit) bool {
	return u.Faction != other.Faction
}

func (u *Unit) String() string {
	hp := 0
	if u.Stats != nil {
		hp = u.Stats.HP
	}
	return fmt.Sprintf("%c#%d%v(%d)", u.Faction.Symbol(), u.ID, u.Pos, hp)
}

// clone делает глубокую копию (Stats - указатель).
func (u *Unit) clone() *Unit {
	c := *u
	if u.Stats != nil {
		stats := *u.Stats
		c.Stats = &stats
	}
	return &c
}
