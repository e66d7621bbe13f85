package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cavern-combat/internal/domain"
	"cavern-combat/pkg/dungeon"
)

// ErrRecordMismatch - переигрывание записи разошлось с записанными ходами.
var ErrRecordMismatch = errors.New("battle record mismatch")

// Record играет бой по раскладке и возвращает итог вместе с записью всех ходов.
func Record(ctx context.Context, layout string, cfg Config) (Outcome, *domain.BattleRecord, error) {
	m, roster, err := dungeon.ParseBattle(layout)
	if err != nil {
		return Outcome{}, nil, err
	}
	cfg.Apply(roster)

	b, err := NewBattle("record", m, roster, cfg)
	if err != nil {
		return Outcome{}, nil, err
	}

	rec := &domain.BattleRecord{
		Timestamp:   time.Now().Unix(),
		HitPoints:   cfg.HitPoints,
		ElfPower:    cfg.ElfPower,
		GoblinPower: cfg.GoblinPower,
		Layout:      layout,
	}
	b.OnTurn = func(t domain.TurnRecord) {
		rec.Turns = append(rec.Turns, t)
	}

	outcome, err := b.Run(ctx)
	if err != nil {
		return Outcome{}, nil, err
	}
	return outcome, rec, nil
}

// VerifyRecord переигрывает бой с параметрами из записи и сверяет каждый ход.
func VerifyRecord(ctx context.Context, rec *domain.BattleRecord, cfg Config) (Outcome, error) {
	cfg.HitPoints = rec.HitPoints
	cfg.ElfPower = rec.ElfPower
	cfg.GoblinPower = rec.GoblinPower

	outcome, replayed, err := Record(ctx, rec.Layout, cfg)
	if err != nil {
		return Outcome{}, err
	}

	for i, want := range rec.Turns {
		if i >= len(replayed.Turns) {
			return outcome, fmt.Errorf("%w: replay ended after %d of %d turns", ErrRecordMismatch, len(replayed.Turns), len(rec.Turns))
		}
		if got := replayed.Turns[i]; got != want {
			return outcome, fmt.Errorf("%w: turn %d (round %d): recorded %+v, replayed %+v", ErrRecordMismatch, i, want.Round, want, got)
		}
	}
	if len(replayed.Turns) != len(rec.Turns) {
		return outcome, fmt.Errorf("%w: replay has %d turns, record has %d", ErrRecordMismatch, len(replayed.Turns), len(rec.Turns))
	}
	return outcome, nil
}
