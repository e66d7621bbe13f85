package domain

import "fmt"

// readingOffsets - смещения к соседям в порядке чтения: вверх, влево, вправо, вниз.
// Этот порядок используется в BFS и при всех тай-брейках.
var readingOffsets = [4]Position{
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
}

// Less сравнивает позиции в порядке чтения: сначала строка, потом столбец.
func (p Position) Less(other Position) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// Compare возвращает -1, 0 или 1 (удобно для slices.SortFunc).
func (p Position) Compare(other Position) int {
	switch {
	case p.Less(other):
		return -1
	case other.Less(p):
		return 1
	default:
		return 0
	}
}

// Shift возвращает новую позицию со смещением, не меняя текущую.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Around возвращает четыре ортогональных соседа в порядке чтения.
// Границы карты не проверяются.
func (p Position) Around() [4]Position {
	var out [4]Position
	for i, off := range readingOffsets {
		out[i] = p.Shift(off.X, off.Y)
	}
	return out
}

// IsAdjacent возвращает true, если клетки соседние по стороне (диагонали не считаются).
func (p Position) IsAdjacent(other Position) bool {
	return p.ManhattanTo(other) == 1
}

// ManhattanTo - манхэттенское расстояние.
func (p Position) ManhattanTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
