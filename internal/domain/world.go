package domain

// Position - координата клетки. X растет вправо, Y - вниз.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Terrain - тип клетки карты. После постройки карты не меняется.
type Terrain uint8

const (
	TerrainWall Terrain = iota
	TerrainOpen
)

func (t Terrain) String() string {
	if t == TerrainOpen {
		return "open"
	}
	return "wall"
}

// GridMap - неизменяемая карта пещеры.
//
// Смежность открытых клеток считается один раз в NewGridMap: рельеф не меняется,
// поэтому пересчитывать соседей на каждый запрос незачем. Занятость клеток юнитами
// сюда НЕ входит - она меняется каждый ход и проверяется через Roster.
type GridMap struct {
	width  int
	height int
	tiles  [][]Terrain

	// adjacency: открытая клетка -> открытые соседи (вверх, влево, вправо, вниз)
	adjacency map[Position][]Position
}
