package domain

import "fmt"

// NewGridMap строит карту из строк рельефа и заранее считает смежность.
// Возвращает ErrMalformedMap, если строки разной длины или нет ни одной открытой клетки.
func NewGridMap(rows [][]Terrain) (*GridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, malformed("empty grid")
	}

	width := len(rows[0])
	tiles := make([][]Terrain, len(rows))
	open := 0
	for y, row := range rows {
		if len(row) != width {
			return nil, malformed("row %d has length %d, expected %d", y, len(row), width)
		}
		tiles[y] = append([]Terrain(nil), row...)
		for _, t := range row {
			if t == TerrainOpen {
				open++
			}
		}
	}
	if open == 0 {
		return nil, malformed("no open cells")
	}

	m := &GridMap{
		width:     width,
		height:    len(rows),
		tiles:     tiles,
		adjacency: make(map[Position][]Position, open),
	}

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := Position{X: x, Y: y}
			if !m.IsOpen(p) {
				continue
			}
			neighbors := make([]Position, 0, 4)
			for _, n := range p.Around() {
				if m.IsOpen(n) {
					neighbors = append(neighbors, n)
				}
			}
			m.adjacency[p] = neighbors
		}
	}

	return m, nil
}

func (m *GridMap) Width() int  { return m.width }
func (m *GridMap) Height() int { return m.height }

// InBounds проверяет, что координата лежит внутри прямоугольника карты.
func (m *GridMap) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// Terrain возвращает тип клетки. За пределами карты - стена.
func (m *GridMap) Terrain(p Position) Terrain {
	if !m.InBounds(p) {
		return TerrainWall
	}
	return m.tiles[p.Y][p.X]
}

func (m *GridMap) IsOpen(p Position) bool {
	return m.Terrain(p) == TerrainOpen
}

// Neighbors возвращает открытых соседей клетки в порядке чтения.
// Для стены внутри карты список пуст. Слайс общий - не модифицировать.
func (m *GridMap) Neighbors(p Position) ([]Position, error) {
	if !m.InBounds(p) {
		return nil, fmt.Errorf("%w: %v not in %dx%d map", ErrOutOfBounds, p, m.width, m.height)
	}
	return m.adjacency[p], nil
}

// OpenCells возвращает все открытые клетки в порядке чтения.
func (m *GridMap) OpenCells() []Position {
	cells := make([]Position, 0, len(m.adjacency))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := Position{X: x, Y: y}
			if m.tiles[y][x] == TerrainOpen {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

