package domain

// StatsComponent - характеристики юнита
type StatsComponent struct {
	HP          int  `json:"hp"`
	MaxHP       int  `json:"maxHp"`
	AttackPower int  `json:"attackPower"`
	IsDead      bool `json:"isDead"`
}

// TakeDamage наносит урон. Возвращает true, если цель погибла от этого удара.
func (s *StatsComponent) TakeDamage(amount int) bool {
	if s.IsDead {
		return false
	}

	if amount < 0 {
		amount = 0
	}

	s.HP -= amount

	if s.HP <= 0 {
		s.HP = 0
		s.IsDead = true
		return true
	}
	return false
}
