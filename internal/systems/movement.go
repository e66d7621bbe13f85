package systems

import (
	"fmt"

	"cavern-combat/internal/domain"
)

// ApplyMove применяет решение Pathfinder. Stay и NoPath ничего не делают,
// Inconsistent сразу превращается в InvariantViolation.
//
// Шаг должен вести в соседнюю открытую свободную клетку. Все остальное -
// дефект поиска пути, а не игровая ситуация: возвращается InvariantViolation.
func ApplyMove(u *domain.Unit, d MoveDecision, m *domain.GridMap, roster *domain.Roster) (bool, error) {
	switch d.Kind {
	case MoveStep:
	case MoveInconsistent:
		return false, &domain.InvariantViolation{
			UnitID: u.ID,
			Reason: fmt.Sprintf("target %v reachable in %d steps from %v, but no first step found", d.Target, d.Distance, u.Pos),
		}
	default:
		return false, nil
	}

	// 1. Проверка границ и стен
	if !m.IsOpen(d.Step) {
		return false, &domain.InvariantViolation{
			UnitID: u.ID,
			Reason: fmt.Sprintf("step %v -> %v into wall", u.Pos, d.Step),
		}
	}

	// 2. Шаг ровно на одну клетку по стороне
	if !u.Pos.IsAdjacent(d.Step) {
		return false, &domain.InvariantViolation{
			UnitID: u.ID,
			Reason: fmt.Sprintf("step %v -> %v is not orthogonal", u.Pos, d.Step),
		}
	}

	// 3. Занятость проверяет сам Roster
	if err := roster.Move(u.ID, d.Step); err != nil {
		return false, err
	}
	return true, nil
}
