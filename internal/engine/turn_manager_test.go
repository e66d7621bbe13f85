package engine

import (
	"testing"

	"cavern-combat/internal/domain"
)

func TestTurnManager_RoundOrder(t *testing.T) {
	_, roster := mustParse(t, `
#######
#.G.E.#
#E.G..#
#..G.E#
#######`)

	tm := NewTurnManager()
	tm.BeginRound(roster)

	order := tm.Order()
	if len(order) != roster.Len() {
		t.Fatalf("Expected %d units in order, got %d", roster.Len(), len(order))
	}
	for i := 1; i < len(order); i++ {
		prev, cur := roster.Unit(order[i-1]), roster.Unit(order[i])
		if !prev.Pos.Less(cur.Pos) {
			t.Errorf("Order not increasing in reading order: %v then %v", prev.Pos, cur.Pos)
		}
	}
}

func TestTurnManager_SkipsDeadAndKeepsStartPositions(t *testing.T) {
	_, roster := mustParse(t, `
#######
#G.E..#
#..G..#
#######`)

	tm := NewTurnManager()
	tm.BeginRound(roster)

	first := tm.Next(roster)
	if first.Pos != (domain.Position{X: 1, Y: 1}) {
		t.Fatalf("Expected first unit at (1,1), got %v", first.Pos)
	}

	// Первый юнит переехал "вниз" - очередь от этого не меняется
	if err := roster.Move(first.ID, domain.Position{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	// Эльф погиб до своего хода
	elf := roster.OccupantAt(domain.Position{X: 3, Y: 1})
	roster.ApplyDamage(elf, 1000)

	next := tm.Next(roster)
	if next == nil || next.Pos != (domain.Position{X: 3, Y: 2}) {
		t.Fatalf("Expected goblin at (3,2) after the dead elf was skipped, got %v", next)
	}
	if tm.Next(roster) != nil {
		t.Error("Expected the round to be exhausted")
	}
}

func TestTurnManager_ExcludesDeadAtRoundStart(t *testing.T) {
	_, roster := mustParse(t, "#####\n#GEG#\n#####")
	roster.ApplyDamage(roster.Unit(0), 500)

	tm := NewTurnManager()
	tm.BeginRound(roster)
	if tm.Len() != 2 {
		t.Errorf("Expected 2 living units in the queue, got %d", tm.Len())
	}
	for _, id := range tm.Order() {
		if id == 0 {
			t.Error("Dead unit present in turn order")
		}
	}
}

func TestTurnManager_DebugDump(t *testing.T) {
	_, roster := mustParse(t, "#######\n#E.G.E#\n#######")

	tm := NewTurnManager()
	if dump := tm.DebugDump(); dump == nil || len(dump) != 0 {
		t.Errorf("Expected an empty non-nil dump, got %v", dump)
	}

	tm.BeginRound(roster)
	tm.Next(roster)

	dump := tm.DebugDump()
	if len(dump) != 2 {
		t.Fatalf("Expected 2 pending entries, got %d", len(dump))
	}
	seen := map[domain.UnitID]bool{}
	for _, entry := range dump {
		seen[entry["unit"].(domain.UnitID)] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("Expected units 1 and 2 in the dump, got %v", dump)
	}
}
