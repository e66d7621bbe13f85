package engine

import (
	"context"
	"errors"
	"fmt"

	"cavern-combat/internal/domain"
	"cavern-combat/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNoWinningPower - до MaxAttackPower так и не нашлось силы атаки без потерь.
var ErrNoWinningPower = errors.New("no winning attack power found")

// Trial - один прогон поиска
type Trial struct {
	Power   int
	Outcome Outcome
}

// Flawless - защищаемая сторона победила без потерь.
func (t Trial) Flawless(protected domain.Faction) bool {
	return !t.Outcome.Aborted &&
		t.Outcome.Winner == protected &&
		t.Outcome.Losses[protected] == 0
}

// SearchResult - итог поиска минимальной силы атаки
type SearchResult struct {
	Protected domain.Faction
	Power     int
	Outcome   Outcome
	// Trials - все сыгранные прогоны по возрастанию силы.
	Trials []Trial
}

// FindMinimumWinningPower ищет минимальную силу атаки стороны protected, при которой
// она выигрывает без единой потери.
//
// Поиск линейный по возрастанию, начиная с силы из конфига. Монотонность потерь по
// силе атаки не гарантирована, поэтому бинарного поиска нет. Прогоны идут окнами по
// SearchWorkers штук параллельно: каждый на своей копии Roster, карта только читается.
// Из окна берется минимальная удачная сила, так что ответ совпадает с последовательным обходом.
func FindMinimumWinningPower(ctx context.Context, m *domain.GridMap, initial *domain.Roster, protected domain.Faction, cfg Config) (SearchResult, error) {
	result := SearchResult{Protected: protected}
	searchLog := logger.Log.WithFields(logrus.Fields{
		"component": "power_search",
		"protected": protected.String(),
	})

	window := cfg.SearchWorkers
	if window < 1 {
		window = 1
	}

	for start := cfg.AttackPower(protected); start <= cfg.MaxAttackPower; start += window {
		end := min(start+window-1, cfg.MaxAttackPower)

		trials, err := runWindow(ctx, m, initial, protected, cfg, start, end)
		if err != nil {
			return result, err
		}
		result.Trials = append(result.Trials, trials...)

		searchLog.WithFields(logrus.Fields{
			"from": start,
			"to":   end,
		}).Debug("Search window finished.")

		for _, trial := range trials {
			if trial.Flawless(protected) {
				result.Power = trial.Power
				result.Outcome = trial.Outcome
				if !FlawlessIsMonotonic(result.Trials, protected) {
					searchLog.Warn("Flawless victories are not monotonic in attack power.")
				}
				searchLog.WithFields(logrus.Fields{
					"power": result.Power,
					"score": result.Outcome.Score,
				}).Info("Minimum winning power found.")
				return result, nil
			}
		}
	}

	return result, fmt.Errorf("%w: %s up to power %d", ErrNoWinningPower, protected, cfg.MaxAttackPower)
}

// runWindow играет прогоны для сил [from, to] параллельно.
func runWindow(ctx context.Context, m *domain.GridMap, initial *domain.Roster, protected domain.Faction, cfg Config, from, to int) ([]Trial, error) {
	trials := make([]Trial, to-from+1)
	g, gctx := errgroup.WithContext(ctx)

	for i := range trials {
		power := from + i
		trials[i].Power = power

		g.Go(func() error {
			outcome, err := RunTrial(gctx, m, initial, protected, power, cfg, true)
			if err != nil {
				return fmt.Errorf("trial with power %d: %w", power, err)
			}
			trials[i].Outcome = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trials, nil
}

// RunTrial - один независимый прогон с заданной силой атаки защищаемой стороны.
// abortOnLoss прерывает бой при первой потере: такой прогон уже не может быть удачным.
func RunTrial(ctx context.Context, m *domain.GridMap, initial *domain.Roster, protected domain.Faction, power int, cfg Config, abortOnLoss bool) (Outcome, error) {
	roster := initial.Clone()
	cfg.Apply(roster)
	roster.SetAttackPower(protected, power)

	b, err := NewBattle(fmt.Sprintf("trial-%s-%d", protected, power), m, roster, cfg)
	if err != nil {
		return Outcome{}, err
	}
	if abortOnLoss {
		b.StopOnLoss(protected)
	}
	return b.Run(ctx)
}

// LossCurve играет полные бои (без досрочного прерывания) для каждой силы из powers
// и возвращает потери защищаемой стороны. Нужна для проверки монотонности на конкретной карте.
func LossCurve(ctx context.Context, m *domain.GridMap, initial *domain.Roster, protected domain.Faction, cfg Config, powers []int) ([]int, error) {
	losses := make([]int, len(powers))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.SearchWorkers > 0 {
		g.SetLimit(cfg.SearchWorkers)
	}

	for i, power := range powers {
		g.Go(func() error {
			outcome, err := RunTrial(gctx, m, initial, protected, power, cfg, false)
			if err != nil {
				return err
			}
			losses[i] = outcome.Losses[protected]
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return losses, nil
}

// IsMonotonic - потери не растут с ростом силы атаки (powers идут по возрастанию).
func IsMonotonic(losses []int) bool {
	for i := 1; i < len(losses); i++ {
		if losses[i] > losses[i-1] {
			return false
		}
	}
	return true
}

// FlawlessIsMonotonic - после первой победы без потерь все более сильные прогоны тоже без потерь.
// trials должны идти по возрастанию силы.
func FlawlessIsMonotonic(trials []Trial, protected domain.Faction) bool {
	seen := false
	for _, t := range trials {
		ok := t.Flawless(protected)
		if seen && !ok {
			return false
		}
		seen = seen || ok
	}
	return true
}
