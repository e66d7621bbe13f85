package systems

import (
	"cavern-combat/internal/domain"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// MoveKind - итог решения о движении
type MoveKind uint8

const (
	// MoveStay - враг уже рядом, идти никуда не нужно.
	MoveStay MoveKind = iota
	// MoveStep - шаг в соседнюю клетку.
	MoveStep
	// MoveNoPath - целевых клеток нет или до них не добраться.
	MoveNoPath
	// MoveInconsistent - цель достижима, а первого шага к ней нет. Дефект поиска пути.
	MoveInconsistent
)

func (k MoveKind) String() string {
	switch k {
	case MoveStay:
		return "stay"
	case MoveStep:
		return "step"
	case MoveInconsistent:
		return "inconsistent"
	default:
		return "no_path"
	}
}

// MoveDecision - результат вычисления движения. Не меняет состояние мира!
type MoveDecision struct {
	Kind MoveKind
	// Step - клетка, куда шагнуть (только для MoveStep).
	Step domain.Position
	// Target - выбранная целевая клетка и расстояние до нее (для MoveStep и MoveInconsistent).
	Target   domain.Position
	Distance int
}

// DistanceField - расстояния BFS от исходной клетки до всех достижимых.
type DistanceField map[domain.Position]int

// Pathfinder решает, куда шагнуть юниту. Чистая функция от карты и снимка Roster.
type Pathfinder struct {
	Map *domain.GridMap
}

func NewPathfinder(m *domain.GridMap) *Pathfinder {
	return &Pathfinder{Map: m}
}

// Decide вычисляет ход юнита:
//  1. враг рядом - MoveStay;
//  2. собираем целевые клетки (свободные соседи врагов);
//  3. BFS от юнита, ближайшая цель с тай-брейком по порядку чтения;
//  4. BFS от цели, первый шаг с тай-брейком по порядку чтения.
//
// Выбор цели и выбор шага - два независимых тай-брейка, поэтому и поиска два.
func (pf *Pathfinder) Decide(mover *domain.Unit, roster *domain.Roster) MoveDecision {
	if len(roster.AdjacentEnemies(mover)) > 0 {
		return MoveDecision{Kind: MoveStay}
	}

	targets := pf.TargetCells(mover, roster)
	if len(targets) == 0 {
		return MoveDecision{Kind: MoveNoPath}
	}

	fromMover := pf.DistancesFrom(mover.Pos, roster)
	target, dist, ok := ChooseTarget(fromMover, targets)
	if !ok {
		return MoveDecision{Kind: MoveNoPath}
	}

	step, ok := pf.ChooseStep(mover, target, dist, roster)
	if !ok {
		// Цель достижима, а шага к ней нет - такого быть не может.
		return MoveDecision{Kind: MoveInconsistent, Target: target, Distance: dist}
	}

	return MoveDecision{Kind: MoveStep, Step: step, Target: target, Distance: dist}
}

// TargetCells возвращает открытые свободные клетки рядом с живыми врагами, в порядке чтения.
func (pf *Pathfinder) TargetCells(mover *domain.Unit, roster *domain.Roster) []domain.Position {
	seen := mapset.New[domain.Position]()
	var cells []domain.Position

	for _, enemy := range roster.LivingOf(mover.Faction.Enemy()) {
		neighbors, err := pf.Map.Neighbors(enemy.Pos)
		if err != nil {
			continue
		}
		for _, p := range neighbors {
			if seen.Has(p) || roster.IsOccupied(p) {
				continue
			}
			seen.Put(p)
			cells = append(cells, p)
		}
	}

	sortPositions(cells)
	return cells
}

// DistancesFrom - обход в ширину от origin по открытым незанятым клеткам.
// Сама origin считается проходимой, даже если в ней стоит юнит (это ходящий).
// Соседи раскрываются в порядке чтения.
func (pf *Pathfinder) DistancesFrom(origin domain.Position, roster *domain.Roster) DistanceField {
	dist := DistanceField{origin: 0}
	frontier := queue.New[domain.Position]()
	frontier.Enqueue(origin)

	for !frontier.Empty() {
		cur := frontier.Dequeue()

		neighbors, err := pf.Map.Neighbors(cur)
		if err != nil {
			continue
		}
		for _, next := range neighbors {
			if _, visited := dist[next]; visited {
				continue
			}
			if roster.IsOccupied(next) {
				continue
			}
			dist[next] = dist[cur] + 1
			frontier.Enqueue(next)
		}
	}

	return dist
}

// ChooseTarget выбирает ближайшую достижимую целевую клетку.
// При равных расстояниях - первую в порядке чтения.
func ChooseTarget(dist DistanceField, targets []domain.Position) (domain.Position, int, bool) {
	var (
		best     domain.Position
		bestDist = -1
	)
	for _, t := range targets {
		d, ok := dist[t]
		if !ok {
			continue
		}
		if bestDist < 0 || d < bestDist || (d == bestDist && t.Less(best)) {
			best, bestDist = t, d
		}
	}
	return best, bestDist, bestDist >= 0
}

// ChooseStep выбирает первый шаг к target: среди свободных соседей ходящего берет те,
// что лежат на кратчайшем пути (расстояние до цели = dist-1), и из них первый в порядке чтения.
func (pf *Pathfinder) ChooseStep(mover *domain.Unit, target domain.Position, dist int, roster *domain.Roster) (domain.Position, bool) {
	fromTarget := pf.DistancesFrom(target, roster)

	neighbors, err := pf.Map.Neighbors(mover.Pos)
	if err != nil {
		return domain.Position{}, false
	}
	// neighbors уже в порядке чтения, первый подходящий - ответ
	for _, n := range neighbors {
		if roster.IsOccupied(n) {
			continue
		}
		if d, ok := fromTarget[n]; ok && d == dist-1 {
			return n, true
		}
	}
	return domain.Position{}, false
}
