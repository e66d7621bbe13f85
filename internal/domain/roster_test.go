package domain

import (
	"errors"
	"testing"
)

func newTestRoster(t *testing.T, units ...Unit) *Roster {
	t.Helper()
	r, err := NewRoster(units)
	if err != nil {
		t.Fatalf("NewRoster failed: %v", err)
	}
	return r
}

func TestNewRoster_Validation(t *testing.T) {
	t.Run("One faction only", func(t *testing.T) {
		_, err := NewRoster([]Unit{
			NewUnit(FactionElf, Position{X: 1, Y: 1}),
			NewUnit(FactionElf, Position{X: 2, Y: 1}),
		})
		if !errors.Is(err, ErrMalformedMap) {
			t.Errorf("Expected ErrMalformedMap, got %v", err)
		}
	})

	t.Run("Shared cell", func(t *testing.T) {
		_, err := NewRoster([]Unit{
			NewUnit(FactionElf, Position{X: 1, Y: 1}),
			NewUnit(FactionGoblin, Position{X: 1, Y: 1}),
		})
		if !errors.Is(err, ErrMalformedMap) {
			t.Errorf("Expected ErrMalformedMap, got %v", err)
		}
	})

	t.Run("IDs follow input order", func(t *testing.T) {
		r := newTestRoster(t,
			NewUnit(FactionGoblin, Position{X: 5, Y: 5}),
			NewUnit(FactionElf, Position{X: 1, Y: 1}),
		)
		if r.Unit(0).Faction != FactionGoblin || r.Unit(1).Faction != FactionElf {
			t.Error("Unexpected ID assignment")
		}
		if r.Unit(2) != nil {
			t.Error("Unknown ID must return nil")
		}
	})
}

func TestRoster_AdjacentEnemies(t *testing.T) {
	r := newTestRoster(t,
		NewUnit(FactionElf, Position{X: 2, Y: 2}),
		NewUnit(FactionGoblin, Position{X: 2, Y: 3}), // снизу
		NewUnit(FactionGoblin, Position{X: 1, Y: 2}), // слева
		NewUnit(FactionElf, Position{X: 3, Y: 2}),    // союзник справа
		NewUnit(FactionGoblin, Position{X: 3, Y: 3}), // диагональ
	)

	enemies := r.AdjacentEnemies(r.Unit(0))
	if len(enemies) != 2 {
		t.Fatalf("Expected 2 adjacent enemies, got %d", len(enemies))
	}
	if enemies[0].Pos != (Position{X: 1, Y: 2}) || enemies[1].Pos != (Position{X: 2, Y: 3}) {
		t.Errorf("Expected reading order [left, down], got %v", enemies)
	}
}

func TestRoster_DamageRemovesFromOccupancy(t *testing.T) {
	r := newTestRoster(t,
		NewUnit(FactionElf, Position{X: 1, Y: 1}),
		NewUnit(FactionGoblin, Position{X: 2, Y: 1}),
	)
	goblin := r.Unit(1)

	if r.ApplyDamage(goblin, 150) {
		t.Fatal("Goblin should survive 150 damage")
	}
	if goblin.Stats.HP != 50 {
		t.Errorf("Expected HP 50, got %d", goblin.Stats.HP)
	}

	if !r.ApplyDamage(goblin, 50) {
		t.Fatal("Goblin should die at 0 HP")
	}
	if r.IsOccupied(goblin.Pos) {
		t.Error("Dead unit must not occupy its cell")
	}
	if len(r.AdjacentEnemies(r.Unit(0))) != 0 {
		t.Error("Dead unit must not be an adjacent enemy")
	}
	if r.HasEnemies(FactionElf) {
		t.Error("Elf should have no enemies left")
	}
	if r.Losses(FactionGoblin) != 1 {
		t.Errorf("Expected 1 goblin loss, got %d", r.Losses(FactionGoblin))
	}
	if r.TotalHitPoints() != DefaultHitPoints {
		t.Errorf("Expected total HP %d, got %d", DefaultHitPoints, r.TotalHitPoints())
	}
}

func TestRoster_MoveOntoOccupiedCell(t *testing.T) {
	r := newTestRoster(t,
		NewUnit(FactionElf, Position{X: 1, Y: 1}),
		NewUnit(FactionGoblin, Position{X: 2, Y: 1}),
	)

	err := r.Move(0, Position{X: 2, Y: 1})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("Expected invariant violation, got %v", err)
	}

	if err := r.Move(0, Position{X: 1, Y: 2}); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if r.OccupantAt(Position{X: 1, Y: 2}) != r.Unit(0) || r.IsOccupied(Position{X: 1, Y: 1}) {
		t.Error("Occupancy index not updated after move")
	}
}

func TestRoster_CloneIsIndependent(t *testing.T) {
	r := newTestRoster(t,
		NewUnit(FactionElf, Position{X: 1, Y: 1}),
		NewUnit(FactionGoblin, Position{X: 3, Y: 1}),
	)
	c := r.Clone()

	c.SetAttackPower(FactionElf, 20)
	c.ApplyDamage(c.Unit(1), 500)
	_ = c.Move(0, Position{X: 2, Y: 1})

	if r.Unit(0).Stats.AttackPower != DefaultAttackPower {
		t.Error("Clone shares stats with original")
	}
	if !r.Unit(1).IsAlive() || !r.IsOccupied(Position{X: 3, Y: 1}) {
		t.Error("Damage in clone leaked into original")
	}
	if r.Unit(0).Pos != (Position{X: 1, Y: 1}) {
		t.Error("Move in clone leaked into original")
	}
}

func TestRoster_LivingIsReadingOrdered(t *testing.T) {
	r := newTestRoster(t,
		NewUnit(FactionElf, Position{X: 4, Y: 2}),
		NewUnit(FactionGoblin, Position{X: 1, Y: 3}),
		NewUnit(FactionGoblin, Position{X: 5, Y: 1}),
	)
	living := r.Living()
	for i := 1; i < len(living); i++ {
		if !living[i-1].Pos.Less(living[i].Pos) {
			t.Errorf("Living() not in reading order: %v", living)
		}
	}
}

func TestRoster_CheckOccupancy(t *testing.T) {
	m := buildTestMap(t,
		"#####",
		"#...#",
		"#####",
	)
	r := newTestRoster(t,
		NewUnit(FactionElf, Position{X: 1, Y: 1}),
		NewUnit(FactionGoblin, Position{X: 3, Y: 1}),
	)
	if err := r.CheckOccupancy(m); err != nil {
		t.Fatalf("Unexpected violation: %v", err)
	}

	// Ломаем состояние в обход Move
	r.Unit(0).Pos = Position{X: 0, Y: 1}
	if err := r.CheckOccupancy(m); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("Expected invariant violation for unit on wall, got %v", err)
	}
}
