package engine

import (
	"container/heap"
	"slices"

	"cavern-combat/internal/domain"
)

// TurnManager хранит порядок ходов текущего раунда.
//
// Порядок фиксируется в BeginRound по позициям на начало раунда и дальше не
// пересчитывается: юнит, сдвинувшийся раньше, не меняет своего места в очереди.
type TurnManager struct {
	queue TurnQueue
}

func NewTurnManager() *TurnManager {
	return &TurnManager{queue: make(TurnQueue, 0)}
}

// BeginRound кладет в очередь всех живых юнитов.
func (tm *TurnManager) BeginRound(r *domain.Roster) {
	tm.queue = tm.queue[:0]
	for _, u := range r.All() {
		if !u.IsAlive() {
			continue
		}
		tm.queue = append(tm.queue, &TurnItem{Unit: u.ID, Pos: u.Pos})
	}
	for i, item := range tm.queue {
		item.Index = i
	}
	heap.Init(&tm.queue)
}

// Next возвращает следующего живого юнита. Погибшие с начала раунда пропускаются.
// nil - раунд исчерпан.
func (tm *TurnManager) Next(r *domain.Roster) *domain.Unit {
	for tm.queue.Len() > 0 {
		item := heap.Pop(&tm.queue).(*TurnItem)
		u := r.Unit(item.Unit)
		if u != nil && u.IsAlive() {
			return u
		}
	}
	return nil
}

// Order возвращает оставшийся порядок ходов (без извлечения из очереди).
func (tm *TurnManager) Order() []domain.UnitID {
	items := slices.Clone(tm.queue)
	slices.SortFunc(items, func(a, b *TurnItem) int {
		return a.Pos.Compare(b.Pos)
	})
	ids := make([]domain.UnitID, len(items))
	for i, item := range items {
		ids[i] = item.Unit
	}
	return ids
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]interface{} {
	// Пустой слайс, а не nil: в JSON это будет "[]", а не "null"
	result := make([]map[string]interface{}, 0, tm.queue.Len())

	for _, item := range tm.queue {
		result = append(result, map[string]interface{}{
			"unit":  item.Unit,
			"pos":   item.Pos,
			"index": item.Index,
		})
	}
	return result
}
