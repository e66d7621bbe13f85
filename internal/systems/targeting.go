package systems

import (
	"slices"

	"cavern-combat/internal/domain"
)

// SelectAttackTarget выбирает, кого бить: врага с наименьшим HP,
// при равенстве - первого в порядке чтения. nil, если кандидатов нет.
func SelectAttackTarget(candidates []*domain.Unit) *domain.Unit {
	var best *domain.Unit
	for _, c := range candidates {
		if c == nil || !c.IsAlive() {
			continue
		}
		if best == nil ||
			c.Stats.HP < best.Stats.HP ||
			(c.Stats.HP == best.Stats.HP && c.Pos.Less(best.Pos)) {
			best = c
		}
	}
	return best
}

func sortPositions(ps []domain.Position) {
	slices.SortFunc(ps, domain.Position.Compare)
}
