package systems

import (
	"cavern-combat/internal/domain"
	"cavern-combat/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AttackResult - итог одного удара
type AttackResult struct {
	Attacker domain.UnitID
	Target   domain.UnitID
	Damage   int
	HPBefore int
	HPAfter  int
	Died     bool
}

// ApplyAttack наносит удар силой атаки атакующего.
// Погибшая цель сразу исключается из занятости и целеуказания через Roster.
func ApplyAttack(attacker, target *domain.Unit, roster *domain.Roster) AttackResult {
	res := AttackResult{
		Attacker: attacker.ID,
		Target:   target.ID,
		Damage:   attacker.Stats.AttackPower,
		HPBefore: target.Stats.HP,
	}

	res.Died = roster.ApplyDamage(target, res.Damage)
	res.HPAfter = target.Stats.HP

	if logger.Log.IsLevelEnabled(logrus.DebugLevel) {
		logger.Log.WithFields(logrus.Fields{
			"component":   "combat_system",
			"attacker":    attacker.String(),
			"target":      target.String(),
			"damage":      res.Damage,
			"hp_before":   res.HPBefore,
			"hp_after":    res.HPAfter,
			"target_died": res.Died,
		}).Debug("Attack resolved.")
	}

	return res
}

// Strike - фаза атаки хода: ищет соседних врагов после движения,
// выбирает цель и бьет. ok=false, если бить некого.
func Strike(attacker *domain.Unit, roster *domain.Roster) (AttackResult, bool) {
	target := SelectAttackTarget(roster.AdjacentEnemies(attacker))
	if target == nil {
		return AttackResult{}, false
	}
	return ApplyAttack(attacker, target, roster), true
}
