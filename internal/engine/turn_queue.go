package engine

import (
	"cavern-combat/internal/domain"
)

// TurnItem обертка для элемента очереди ходов
type TurnItem struct {
	Unit  domain.UnitID   // Чей ход
	Pos   domain.Position // Позиция на момент начала раунда - по ней и сортируем
	Index int             // Индекс в куче
}

// TurnQueue реализует heap.Interface: min-heap по порядку чтения.
// Позиции живых юнитов уникальны, поэтому порядок извлечения детерминирован.
type TurnQueue []*TurnItem

func (pq TurnQueue) Len() int { return len(pq) }

func (pq TurnQueue) Less(i, j int) bool {
	return pq[i].Pos.Less(pq[j].Pos)
}

func (pq TurnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TurnQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TurnItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TurnQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}
