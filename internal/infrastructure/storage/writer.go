package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cavern-combat/internal/domain"
)

const (
	MagicHeader string = `CCBR` // 4 байта
	Version1    uint32 = 1

	// MaxLayoutLen - раскладка длиннее не пишется
	MaxLayoutLen = 1 << 20
)

// RecordFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type RecordFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Timestamp   int64   // 8 байт
	HitPoints   int32   // 4 байта
	ElfPower    int32   // 4 байта
	GoblinPower int32   // 4 байта
	LayoutLen   uint32  // 4 байта
	TurnCount   int32   // 4 байта
}

// TurnEntry - запись одного хода фиксированного размера (33 байта).
type TurnEntry struct {
	Round  int32
	Unit   int32
	FromX  int32
	FromY  int32
	ToX    int32
	ToY    int32
	Target int32
	Damage int32
	Killed uint8
}

type RecordStore struct {
	SaveDir string
}

func NewRecordStore(dir string) (*RecordStore, error) {
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	return &RecordStore{SaveDir: dir}, nil
}

// Save пишет запись в новый файл и возвращает путь к нему
func (s *RecordStore) Save(rec *domain.BattleRecord) (string, error) {
	filename := fmt.Sprintf("battle_e%d_g%d_%d.ccbr", rec.ElfPower, rec.GoblinPower, rec.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteRecord(w, rec); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRecord пишет запись в бинарном формате
func WriteRecord(w io.Writer, rec *domain.BattleRecord) error {
	if len(rec.Layout) > MaxLayoutLen {
		return fmt.Errorf("layout too long: %d", len(rec.Layout))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := RecordFileHeader{
		Version:     Version1,
		Timestamp:   rec.Timestamp,
		HitPoints:   int32(rec.HitPoints),
		ElfPower:    int32(rec.ElfPower),
		GoblinPower: int32(rec.GoblinPower),
		LayoutLen:   uint32(len(rec.Layout)),
		TurnCount:   int32(len(rec.Turns)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Раскладка
	if _, err := io.WriteString(w, rec.Layout); err != nil {
		return fmt.Errorf("failed to write layout: %w", err)
	}

	// 3. Ходы
	for _, t := range rec.Turns {
		entry := TurnEntry{
			Round:  int32(t.Round),
			Unit:   int32(t.Unit),
			FromX:  int32(t.From.X),
			FromY:  int32(t.From.Y),
			ToX:    int32(t.To.X),
			ToY:    int32(t.To.Y),
			Target: int32(t.Target),
			Damage: int32(t.Damage),
		}
		if t.Killed {
			entry.Killed = 1
		}
		if err := binary.Write(w, binary.LittleEndian, &entry); err != nil {
			return err
		}
	}

	return nil
}
