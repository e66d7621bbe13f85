package api

import (
	"errors"
	"strings"
)

// MaxLayoutSize ограничивает размер раскладки в запросе (байты).
const MaxLayoutSize = 64 * 1024

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (r StartBattleRequest) Validate() error {
	if strings.TrimSpace(r.Layout) == "" {
		return errors.New("layout is required")
	}
	if len(r.Layout) > MaxLayoutSize {
		return errors.New("layout too large")
	}
	if r.ElfPower < 0 || r.GoblinPower < 0 {
		return errors.New("attack power cannot be negative")
	}
	return nil
}
