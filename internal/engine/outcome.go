package engine

import (
	"fmt"

	"cavern-combat/internal/domain"
)

// Outcome - итог одного боя
type Outcome struct {
	// Rounds - число полностью сыгранных раундов (оборванный раунд не считается).
	Rounds int
	// HitPoints - сумма HP всех выживших.
	HitPoints int
	// Score = Rounds * HitPoints
	Score  int
	Winner domain.Faction
	// Losses - потери каждой стороны.
	Losses map[domain.Faction]int
	// Aborted - бой прерван досрочно при первой потере защищаемой стороны.
	Aborted bool
}

func newOutcome(rounds int, r *domain.Roster) Outcome {
	o := Outcome{
		Rounds:    rounds,
		HitPoints: r.TotalHitPoints(),
		Losses:    make(map[domain.Faction]int, len(domain.Factions)),
	}
	o.Score = o.Rounds * o.HitPoints
	for _, f := range domain.Factions {
		o.Losses[f] = r.Losses(f)
		if r.CountAlive(f) > 0 && !r.HasEnemies(f) {
			o.Winner = f
		}
	}
	return o
}

func (o Outcome) String() string {
	if o.Aborted {
		return fmt.Sprintf("aborted after %d rounds (losses: elves %d, goblins %d)",
			o.Rounds, o.Losses[domain.FactionElf], o.Losses[domain.FactionGoblin])
	}
	return fmt.Sprintf("%ss win after %d rounds with %d HP left: score %d",
		o.Winner, o.Rounds, o.HitPoints, o.Score)
}
