package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMap - карта или начальный состав не годятся для симуляции.
	ErrMalformedMap = errors.New("malformed map")
	// ErrOutOfBounds - координата вне карты. После валидации означает баг.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrInvariantViolation - нарушен инвариант симуляции (два юнита в клетке, шаг в стену).
	ErrInvariantViolation = errors.New("invariant violation")
)

// InvariantViolation несет диагностику для фатальной ошибки симуляции.
// Dump - текстовый снимок поля на момент ошибки, Pending - кто еще не успел походить в этом раунде.
type InvariantViolation struct {
	Round   int
	UnitID  UnitID
	Reason  string
	Dump    string
	Pending []UnitID
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in round %d (unit %d): %s", e.Round, e.UnitID, e.Reason)
}

func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariantViolation
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedMap, fmt.Sprintf(format, args...))
}
