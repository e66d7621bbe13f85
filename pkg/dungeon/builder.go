package dungeon

import (
	"math/rand"
	"strings"

	"cavern-combat/internal/domain"
)

// Константы генерации
const (
	CavernWidth  = 32
	CavernHeight = 32
	MinRoomSize  = 3
	MaxRoomSize  = 8
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// CavernBuilder предоставляет fluent API для генерации случайных пещер.
// Результат - обычная текстовая раскладка, которую потом разбирает ParseLayout.
type CavernBuilder struct {
	width  int
	height int
	rooms  []Rect
	grid   [][]byte
	rng    *rand.Rand
}

// NewCavern создает builder для пещеры, целиком залитой камнем.
func NewCavern(rng *rand.Rand) *CavernBuilder {
	return (&CavernBuilder{rng: rng}).WithSize(CavernWidth, CavernHeight)
}

// WithSize задает размер и заново заливает карту стенами
func (b *CavernBuilder) WithSize(width, height int) *CavernBuilder {
	b.width = width
	b.height = height
	b.rooms = nil
	b.grid = make([][]byte, height)
	for y := range b.grid {
		b.grid[y] = []byte(strings.Repeat(string(rune(domain.GlyphWall)), width))
	}
	return b
}

// WithRooms вырезает комнаты и соединяет каждую новую с предыдущей коридором
func (b *CavernBuilder) WithRooms(maxRooms int) *CavernBuilder {
	for i := 0; i < maxRooms; i++ {
		w := b.randRange(MinRoomSize, MaxRoomSize)
		h := b.randRange(MinRoomSize, MaxRoomSize)
		if w+2 >= b.width || h+2 >= b.height {
			continue
		}
		x := b.randRange(0, b.width-w-2)
		y := b.randRange(0, b.height-h-2)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		b.carveRoom(newRoom)

		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := newRoom.Center()

			if b.rng.Intn(2) == 0 {
				b.carveH(prevX, currX, prevY)
				b.carveV(prevY, currY, currX)
			} else {
				b.carveV(prevY, currY, prevX)
				b.carveH(prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}
	return b
}

// SpawnUnits ставит count юнитов стороны в случайные свободные открытые клетки
func (b *CavernBuilder) SpawnUnits(f domain.Faction, count int) *CavernBuilder {
	var free []domain.Position
	for y := range b.grid {
		for x := range b.grid[y] {
			if b.grid[y][x] == domain.GlyphOpen {
				free = append(free, domain.Position{X: x, Y: y})
			}
		}
	}

	b.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for i := 0; i < count && i < len(free); i++ {
		b.grid[free[i].Y][free[i].X] = f.Symbol()
	}
	return b
}

// Layout возвращает текстовую раскладку
func (b *CavernBuilder) Layout() string {
	lines := make([]string, len(b.grid))
	for y, row := range b.grid {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// Build собирает карту и Roster через тот же парсер, что и для файлов
func (b *CavernBuilder) Build() (*domain.GridMap, *domain.Roster, error) {
	return ParseBattle(b.Layout())
}

// --- Helper functions ---

func (b *CavernBuilder) randRange(min, max int) int {
	if max < min {
		return min
	}
	return b.rng.Intn(max-min+1) + min
}

func (b *CavernBuilder) carveRoom(room Rect) {
	for y := room.Y + 1; y <= room.Y+room.H; y++ {
		for x := room.X + 1; x <= room.X+room.W; x++ {
			b.grid[y][x] = domain.GlyphOpen
		}
	}
}

func (b *CavernBuilder) carveH(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		b.grid[y][x] = domain.GlyphOpen
	}
}

func (b *CavernBuilder) carveV(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		b.grid[y][x] = domain.GlyphOpen
	}
}
