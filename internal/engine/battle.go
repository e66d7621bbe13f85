package engine

import (
	"context"
	"errors"
	"fmt"

	"cavern-combat/internal/domain"
	"cavern-combat/internal/systems"
	"cavern-combat/pkg/dungeon"
	"cavern-combat/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrRoundLimit - бой не закончился за Config.MaxRounds раундов.
var ErrRoundLimit = errors.New("round limit reached")

// RoundStatus - чем закончился раунд
type RoundStatus uint8

const (
	// RoundComplete - все живые на начало раунда юниты успели походить.
	RoundComplete RoundStatus = iota
	// RoundPrematureEnd - очередному юниту некого атаковать: бой окончен, раунд не засчитывается.
	RoundPrematureEnd
	// RoundAborted - погиб юнит защищаемой стороны (режим поиска силы атаки).
	RoundAborted
)

func (s RoundStatus) String() string {
	switch s {
	case RoundComplete:
		return "complete"
	case RoundPrematureEnd:
		return "premature_end"
	default:
		return "aborted"
	}
}

// RoundReport - что видно снаружи после каждого завершенного раунда.
type RoundReport struct {
	Round  int
	Status RoundStatus
	Roster *domain.Roster
}

// Battle представляет собой один изолированный прогон боя.
// Карта и Roster принадлежат бою целиком, никаких общих изменяемых данных между боями нет.
type Battle struct {
	ID     string
	Map    *domain.GridMap
	Roster *domain.Roster
	Rounds int

	cfg        Config
	turns      *TurnManager
	pathfinder *systems.Pathfinder
	log        *logrus.Entry

	// stopOnLoss - прервать бой при первой потере этой стороны.
	stopOnLoss *domain.Faction

	// OnRound вызывается после каждого раунда (включая последний, оборванный).
	OnRound func(RoundReport)
	// OnTurn вызывается после хода каждого юнита.
	OnTurn func(domain.TurnRecord)
}

// NewBattle проверяет стартовое состояние и создает бой.
// Roster должен быть свежим: бой будет менять его на месте.
func NewBattle(id string, m *domain.GridMap, roster *domain.Roster, cfg Config) (*Battle, error) {
	if m == nil || roster == nil {
		return nil, fmt.Errorf("%w: map and roster are required", domain.ErrMalformedMap)
	}
	for _, f := range domain.Factions {
		if roster.CountAlive(f) == 0 {
			return nil, fmt.Errorf("%w: no living %s units", domain.ErrMalformedMap, f)
		}
	}
	for _, u := range roster.All() {
		if u.IsAlive() && !m.IsOpen(u.Pos) {
			return nil, fmt.Errorf("%w: unit %d placed on wall %v", domain.ErrMalformedMap, u.ID, u.Pos)
		}
	}
	if err := roster.CheckOccupancy(m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedMap, err)
	}

	return &Battle{
		ID:         id,
		Map:        m,
		Roster:     roster,
		cfg:        cfg,
		turns:      NewTurnManager(),
		pathfinder: systems.NewPathfinder(m),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "battle",
			"battle_id": id,
		}),
	}, nil
}

// StopOnLoss включает досрочное завершение при гибели юнита стороны f.
func (b *Battle) StopOnLoss(f domain.Faction) {
	b.stopOnLoss = &f
}

// PlayRound играет один раунд:
//
//	SelectNextUnit -> (нет врагов: PrematureEnd) -> Move -> Attack -> SelectNextUnit ... -> RoundComplete
//
// Ошибка означает нарушение инварианта и фатальна для боя.
func (b *Battle) PlayRound() (RoundStatus, error) {
	b.turns.BeginRound(b.Roster)

	for {
		// 1. SelectNextUnit
		u := b.turns.Next(b.Roster)
		if u == nil {
			return RoundComplete, nil
		}

		// 2. Врагов не осталось - бой окончен посреди раунда
		if !b.Roster.HasEnemies(u.Faction) {
			return RoundPrematureEnd, nil
		}

		// 3. Move
		from := u.Pos
		decision := b.pathfinder.Decide(u, b.Roster)
		if _, err := systems.ApplyMove(u, decision, b.Map, b.Roster); err != nil {
			return RoundComplete, b.violation(err)
		}

		// 4. Attack - соседи пересчитываются уже после движения
		res, attacked := systems.Strike(u, b.Roster)
		if b.OnTurn != nil {
			turn := domain.TurnRecord{Round: b.Rounds + 1, Unit: u.ID, From: from, To: u.Pos, Target: -1}
			if attacked {
				turn.Target, turn.Damage, turn.Killed = res.Target, res.Damage, res.Died
			}
			b.OnTurn(turn)
		}
		if !attacked || !res.Died {
			continue
		}

		dead := b.Roster.Unit(res.Target)
		b.log.WithFields(logrus.Fields{
			"round":  b.Rounds + 1,
			"killer": u.String(),
			"victim": dead.String(),
		}).Debug("Unit died.")

		if b.stopOnLoss != nil && dead.Faction == *b.stopOnLoss {
			return RoundAborted, nil
		}
	}
}

// Run играет раунды до конца боя и считает итог.
// Контекст проверяется между раундами: внутри раунда ожиданий нет.
func (b *Battle) Run(ctx context.Context) (Outcome, error) {
	b.log.WithFields(logrus.Fields{
		"elves":   b.Roster.CountAlive(domain.FactionElf),
		"goblins": b.Roster.CountAlive(domain.FactionGoblin),
		"width":   b.Map.Width(),
		"height":  b.Map.Height(),
	}).Debug("Battle started.")

	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if b.cfg.MaxRounds > 0 && b.Rounds >= b.cfg.MaxRounds {
			return Outcome{}, fmt.Errorf("%w: %d rounds", ErrRoundLimit, b.Rounds)
		}

		status, err := b.PlayRound()
		if err != nil {
			return Outcome{}, err
		}
		if status == RoundComplete {
			if b.cfg.CheckInvariants {
				if err := b.Roster.CheckOccupancy(b.Map); err != nil {
					return Outcome{}, b.violation(err)
				}
			}
			b.Rounds++
		}

		if b.OnRound != nil {
			b.OnRound(RoundReport{Round: b.Rounds, Status: status, Roster: b.Roster})
		}

		switch status {
		case RoundPrematureEnd:
			outcome := newOutcome(b.Rounds, b.Roster)
			b.log.WithFields(logrus.Fields{
				"rounds":     outcome.Rounds,
				"hit_points": outcome.HitPoints,
				"score":      outcome.Score,
				"winner":     outcome.Winner.String(),
			}).Debug("Battle finished.")
			return outcome, nil
		case RoundAborted:
			outcome := newOutcome(b.Rounds, b.Roster)
			outcome.Aborted = true
			return outcome, nil
		}
	}
}

// Snapshot - текстовый снимок поля.
func (b *Battle) Snapshot() string {
	return dungeon.Render(b.Map, b.Roster)
}

// violation дополняет нарушение инварианта номером раунда и дампом поля.
func (b *Battle) violation(err error) error {
	var iv *domain.InvariantViolation
	if !errors.As(err, &iv) {
		iv = &domain.InvariantViolation{UnitID: -1, Reason: err.Error()}
	}
	iv.Round = b.Rounds + 1
	iv.Dump = b.Snapshot()
	iv.Pending = b.turns.Order()

	b.log.WithFields(logrus.Fields{
		"round":         iv.Round,
		"unit":          iv.UnitID,
		"reason":        iv.Reason,
		"pending_turns": b.turns.DebugDump(),
	}).Error("Invariant violation, battle aborted.\n" + iv.Dump)
	return iv
}

// Simulate - полный бой на копии Roster с параметрами из конфига.
// Исходный Roster не меняется.
func Simulate(ctx context.Context, m *domain.GridMap, initial *domain.Roster, cfg Config) (Outcome, error) {
	roster := initial.Clone()
	cfg.Apply(roster)

	b, err := NewBattle("simulation", m, roster, cfg)
	if err != nil {
		return Outcome{}, err
	}
	return b.Run(ctx)
}
