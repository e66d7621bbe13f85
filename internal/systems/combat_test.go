package systems

import (
	"errors"
	"testing"

	"cavern-combat/internal/domain"
)

func TestApplyAttack(t *testing.T) {
	_, roster := parseBattle(t, `
#####
#EG.#
#####`)
	elf, goblin := roster.Unit(0), roster.Unit(1)
	elf.Stats.AttackPower = 5

	res := ApplyAttack(elf, goblin, roster)
	if goblin.Stats.HP != 195 || res.HPAfter != 195 || res.Damage != 5 {
		t.Errorf("Expected goblin HP 195 after 5 damage, got %d (%+v)", goblin.Stats.HP, res)
	}
	if res.Died {
		t.Error("Goblin should survive")
	}

	// Kill shot
	elf.Stats.AttackPower = 500
	res = ApplyAttack(elf, goblin, roster)
	if !res.Died || !goblin.Stats.IsDead {
		t.Error("Expected goblin to die")
	}
	if roster.IsOccupied(goblin.Pos) {
		t.Error("Dead goblin still occupies its cell")
	}
}

func TestStrike(t *testing.T) {
	_, roster := parseBattle(t, `
#######
#..G..#
#.GEG.#
#..G..#
#######`)
	elf := roster.OccupantAt(domain.Position{X: 3, Y: 2})
	roster.OccupantAt(domain.Position{X: 3, Y: 1}).Stats.HP = 4
	roster.OccupantAt(domain.Position{X: 4, Y: 2}).Stats.HP = 2
	roster.OccupantAt(domain.Position{X: 3, Y: 3}).Stats.HP = 2

	res, ok := Strike(elf, roster)
	if !ok {
		t.Fatal("Expected the elf to strike")
	}
	target := roster.Unit(res.Target)
	if target.Pos != (domain.Position{X: 4, Y: 2}) {
		t.Errorf("Expected target at (4,2), got %v", target.Pos)
	}
	if !res.Died {
		t.Error("2 HP goblin should die from a 3 power hit")
	}

	// Теперь в списке остались (3,1) с 4 HP и (3,3) с 2 HP
	res, _ = Strike(elf, roster)
	if roster.Unit(res.Target).Pos != (domain.Position{X: 3, Y: 3}) {
		t.Errorf("Expected target at (3,3), got %v", roster.Unit(res.Target).Pos)
	}
}

func TestApplyMove(t *testing.T) {
	m, roster := parseBattle(t, `
######
#E.#G#
######`)
	elf := roster.Unit(0)

	t.Run("Stay is a no-op", func(t *testing.T) {
		moved, err := ApplyMove(elf, MoveDecision{Kind: MoveStay}, m, roster)
		if moved || err != nil {
			t.Errorf("Expected no move, got moved=%v err=%v", moved, err)
		}
	})

	t.Run("Inconsistent decision is a defect", func(t *testing.T) {
		d := MoveDecision{Kind: MoveInconsistent, Target: domain.Position{X: 2, Y: 1}, Distance: 1}
		moved, err := ApplyMove(elf, d, m, roster)
		if moved || !errors.Is(err, domain.ErrInvariantViolation) {
			t.Fatalf("Expected invariant violation, got moved=%v err=%v", moved, err)
		}
		if elf.Pos != (domain.Position{X: 1, Y: 1}) {
			t.Errorf("Unit moved on an inconsistent decision: %v", elf.Pos)
		}
	})

	t.Run("Step into wall is a defect", func(t *testing.T) {
		_, err := ApplyMove(elf, MoveDecision{Kind: MoveStep, Step: domain.Position{X: 1, Y: 0}}, m, roster)
		if err == nil {
			t.Fatal("Expected invariant violation")
		}
	})

	t.Run("Jump is a defect", func(t *testing.T) {
		_, err := ApplyMove(elf, MoveDecision{Kind: MoveStep, Step: domain.Position{X: 4, Y: 1}}, m, roster)
		if err == nil {
			t.Fatal("Expected invariant violation")
		}
	})

	t.Run("Valid step", func(t *testing.T) {
		moved, err := ApplyMove(elf, MoveDecision{Kind: MoveStep, Step: domain.Position{X: 2, Y: 1}}, m, roster)
		if !moved || err != nil {
			t.Fatalf("Expected move, got moved=%v err=%v", moved, err)
		}
		if elf.Pos != (domain.Position{X: 2, Y: 1}) {
			t.Errorf("Expected pos (2,1), got %v", elf.Pos)
		}
	})
}
