package domain

import (
	"fmt"
	"slices"
)

// Roster - арена всех юнитов обеих сторон.
//
// Юниты адресуются по UnitID (индекс в units). Смерть - это флаг IsDead плюс удаление
// из индекса занятости, а не удаление из слайса, поэтому ID остаются валидными весь бой.
type Roster struct {
	units []*Unit

	// occupancy: клетка -> живой юнит в ней. Инвариант: не больше одного живого юнита на клетку.
	occupancy map[Position]UnitID
}

// NewRoster копирует юнитов в арену и назначает им ID по порядку.
// Возвращает ErrMalformedMap, если какая-то сторона пуста или два юнита стоят в одной клетке.
func NewRoster(units []Unit) (*Roster, error) {
	r := &Roster{
		units:     make([]*Unit, 0, len(units)),
		occupancy: make(map[Position]UnitID, len(units)),
	}

	for i := range units {
		u := units[i].clone()
		if u.Stats == nil {
			u.Stats = NewUnit(u.Faction, u.Pos).Stats
		}
		u.ID = UnitID(len(r.units))
		if u.Stats.HP <= 0 {
			return nil, malformed("unit %v starts with %d hit points", u.Pos, u.Stats.HP)
		}
		if _, taken := r.occupancy[u.Pos]; taken {
			return nil, malformed("two units at %v", u.Pos)
		}
		r.units = append(r.units, u)
		r.occupancy[u.Pos] = u.ID
	}

	for _, f := range Factions {
		if r.CountAlive(f) == 0 {
			return nil, malformed("no %s units", f)
		}
	}

	return r, nil
}

// Unit возвращает юнита по ID (живого или мертвого). nil для неизвестного ID.
func (r *Roster) Unit(id UnitID) *Unit {
	if id < 0 || int(id) >= len(r.units) {
		return nil
	}
	return r.units[id]
}

// Len - число юнитов в арене, включая мертвых.
func (r *Roster) Len() int {
	return len(r.units)
}

// All возвращает всех юнитов в порядке ID.
func (r *Roster) All() []*Unit {
	return r.units
}

// Living возвращает живых юнитов в порядке чтения.
func (r *Roster) Living() []*Unit {
	out := make([]*Unit, 0, len(r.occupancy))
	for _, u := range r.units {
		if u.IsAlive() {
			out = append(out, u)
		}
	}
	SortReadingOrder(out)
	return out
}

// LivingOf возвращает живых юнитов стороны в порядке чтения.
func (r *Roster) LivingOf(f Faction) []*Unit {
	out := make([]*Unit, 0)
	for _, u := range r.units {
		if u.IsAlive() && u.Faction == f {
			out = append(out, u)
		}
	}
	SortReadingOrder(out)
	return out
}

func (r *Roster) CountAlive(f Faction) int {
	n := 0
	for _, u := range r.units {
		if u.IsAlive() && u.Faction == f {
			n++
		}
	}
	return n
}

// Losses - сколько юнитов стороны погибло с начала боя.
func (r *Roster) Losses(f Faction) int {
	n := 0
	for _, u := range r.units {
		if u.Faction == f && !u.IsAlive() {
			n++
		}
	}
	return n
}

// HasEnemies - остался ли в живых хоть один противник стороны f.
func (r *Roster) HasEnemies(f Faction) bool {
	return r.CountAlive(f.Enemy()) > 0
}

// TotalHitPoints - сумма HP всех живых юнитов.
func (r *Roster) TotalHitPoints() int {
	sum := 0
	for _, u := range r.units {
		if u.IsAlive() {
			sum += u.Stats.HP
		}
	}
	return sum
}

// OccupantAt возвращает живого юнита в клетке или nil.
func (r *Roster) OccupantAt(p Position) *Unit {
	id, ok := r.occupancy[p]
	if !ok {
		return nil
	}
	return r.units[id]
}

// IsOccupied - занята ли клетка живым юнитом.
func (r *Roster) IsOccupied(p Position) bool {
	_, ok := r.occupancy[p]
	return ok
}

// AdjacentEnemies возвращает живых врагов в соседних (по стороне) клетках, в порядке чтения.
func (r *Roster) AdjacentEnemies(u *Unit) []*Unit {
	var out []*Unit
	for _, p := range u.Pos.Around() {
		other := r.OccupantAt(p)
		if other != nil && other.IsEnemyOf(u) {
			out = append(out, other)
		}
	}
	return out
}

// Move переставляет живого юнита в клетку to.
// Занятая клетка - нарушение инварианта, а не штатная ситуация.
func (r *Roster) Move(id UnitID, to Position) error {
	u := r.Unit(id)
	if u == nil || !u.IsAlive() {
		return &InvariantViolation{UnitID: id, Reason: "move of a dead or unknown unit"}
	}
	if other, taken := r.occupancy[to]; taken && other != id {
		return &InvariantViolation{
			UnitID: id,
			Reason: fmt.Sprintf("step %v -> %v onto unit %d", u.Pos, to, other),
		}
	}

	delete(r.occupancy, u.Pos)
	u.Pos = to
	r.occupancy[to] = id
	return nil
}

// ApplyDamage наносит урон цели. Погибший юнит сразу уходит из индекса занятости,
// поэтому больше не может быть выбран целью или помехой на пути.
// Возвращает true, если цель погибла.
func (r *Roster) ApplyDamage(target *Unit, amount int) bool {
	died := target.Stats.TakeDamage(amount)
	if died {
		if id, ok := r.occupancy[target.Pos]; ok && id == target.ID {
			delete(r.occupancy, target.Pos)
		}
	}
	return died
}

// SetAttackPower меняет силу атаки всем юнитам стороны (вариант с поиском силы эльфов).
func (r *Roster) SetAttackPower(f Faction, power int) {
	for _, u := range r.units {
		if u.Faction == f {
			u.Stats.AttackPower = power
		}
	}
}

// Clone возвращает полностью независимую копию: у каждого прогона поиска своя арена.
func (r *Roster) Clone() *Roster {
	c := &Roster{
		units:     make([]*Unit, len(r.units)),
		occupancy: make(map[Position]UnitID, len(r.occupancy)),
	}
	for i, u := range r.units {
		c.units[i] = u.clone()
	}
	for p, id := range r.occupancy {
		c.occupancy[p] = id
	}
	return c
}

// CheckOccupancy сверяет индекс занятости с позициями живых юнитов и картой.
// Используется движком как проверка инвариантов после раунда.
func (r *Roster) CheckOccupancy(m *GridMap) error {
	seen := make(map[Position]UnitID, len(r.occupancy))
	for _, u := range r.units {
		if !u.IsAlive() {
			continue
		}
		if !m.IsOpen(u.Pos) {
			return &InvariantViolation{UnitID: u.ID, Reason: fmt.Sprintf("unit stands on wall %v", u.Pos)}
		}
		if other, dup := seen[u.Pos]; dup {
			return &InvariantViolation{UnitID: u.ID, Reason: fmt.Sprintf("units %d and %d share %v", other, u.ID, u.Pos)}
		}
		seen[u.Pos] = u.ID
		if id, ok := r.occupancy[u.Pos]; !ok || id != u.ID {
			return &InvariantViolation{UnitID: u.ID, Reason: fmt.Sprintf("occupancy index out of sync at %v", u.Pos)}
		}
	}
	if len(seen) != len(r.occupancy) {
		return &InvariantViolation{UnitID: -1, Reason: "occupancy index holds dead units"}
	}
	return nil
}

// SortReadingOrder сортирует юнитов по позиции в порядке чтения.
func SortReadingOrder(units []*Unit) {
	slices.SortFunc(units, func(a, b *Unit) int {
		return a.Pos.Compare(b.Pos)
	})
}
