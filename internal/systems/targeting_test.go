package systems

import (
	"testing"

	"cavern-combat/internal/domain"
)

func unitAt(f domain.Faction, x, y, hp int) *domain.Unit {
	u := domain.NewUnit(f, domain.Position{X: x, Y: y})
	u.Stats.HP = hp
	return &u
}

func TestSelectAttackTarget(t *testing.T) {
	tests := []struct {
		name       string
		candidates []*domain.Unit
		want       domain.Position
	}{
		{
			name: "Fewest hit points wins",
			candidates: []*domain.Unit{
				unitAt(domain.FactionGoblin, 2, 1, 4),
				unitAt(domain.FactionGoblin, 3, 2, 2),
			},
			want: domain.Position{X: 3, Y: 2},
		},
		{
			name: "Tie broken by reading order",
			candidates: []*domain.Unit{
				unitAt(domain.FactionGoblin, 2, 1, 4),
				unitAt(domain.FactionGoblin, 2, 3, 2), // снизу
				unitAt(domain.FactionGoblin, 3, 2, 2), // справа, выше по порядку чтения
			},
			want: domain.Position{X: 3, Y: 2},
		},
		{
			name: "Equal hit points, left before right",
			candidates: []*domain.Unit{
				unitAt(domain.FactionElf, 3, 2, 200),
				unitAt(domain.FactionElf, 1, 2, 200),
			},
			want: domain.Position{X: 1, Y: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectAttackTarget(tt.candidates)
			if got == nil {
				t.Fatal("Expected a target, got nil")
			}
			if got.Pos != tt.want {
				t.Errorf("Expected target at %v, got %v", tt.want, got.Pos)
			}
		})
	}
}

func TestSelectAttackTarget_SkipsDead(t *testing.T) {
	dead := unitAt(domain.FactionGoblin, 1, 1, 0)
	dead.Stats.IsDead = true

	if got := SelectAttackTarget([]*domain.Unit{dead}); got != nil {
		t.Errorf("Dead unit must not be selected, got %v", got)
	}
	if got := SelectAttackTarget(nil); got != nil {
		t.Errorf("Expected nil for no candidates, got %v", got)
	}
}
