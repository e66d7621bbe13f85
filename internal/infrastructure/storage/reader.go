package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"cavern-combat/internal/domain"
)

func (s *RecordStore) Load(path string) (*domain.BattleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadRecord(bufio.NewReader(f))
}

// maxTurnPrealloc - сколько ходов резервируем заранее
const maxTurnPrealloc = 4096

// ReadRecord читает запись, записанную WriteRecord
func ReadRecord(r io.Reader) (*domain.BattleRecord, error) {
	// 1. Читаем заголовок целиком
	var header RecordFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.LayoutLen > MaxLayoutLen || header.TurnCount < 0 {
		return nil, fmt.Errorf("corrupted header")
	}

	rec := &domain.BattleRecord{
		Timestamp:   header.Timestamp,
		HitPoints:   int(header.HitPoints),
		ElfPower:    int(header.ElfPower),
		GoblinPower: int(header.GoblinPower),
		// Заголовку не доверяем: память под ходы растет по мере чтения
		Turns: make([]domain.TurnRecord, 0, min(int(header.TurnCount), maxTurnPrealloc)),
	}

	// 2. Раскладка
	layout := make([]byte, header.LayoutLen)
	if _, err := io.ReadFull(r, layout); err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	rec.Layout = string(layout)

	// 3. Ходы
	for i := 0; i < int(header.TurnCount); i++ {
		var e TurnEntry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return nil, fmt.Errorf("failed to read turn %d: %w", i, err)
		}
		rec.Turns = append(rec.Turns, domain.TurnRecord{
			Round:  int(e.Round),
			Unit:   domain.UnitID(e.Unit),
			From:   domain.Position{X: int(e.FromX), Y: int(e.FromY)},
			To:     domain.Position{X: int(e.ToX), Y: int(e.ToY)},
			Target: domain.UnitID(e.Target),
			Damage: int(e.Damage),
			Killed: e.Killed != 0,
		})
	}

	return rec, nil
}
