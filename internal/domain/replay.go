package domain

// TurnRecord - запись одного хода юнита
type TurnRecord struct {
	Round int      `json:"round"`
	Unit  UnitID   `json:"unit"`
	From  Position `json:"from"`
	To    Position `json:"to"`
	// Target - кого ударил, -1 если никого.
	Target UnitID `json:"target"`
	Damage int    `json:"damage,omitempty"`
	Killed bool   `json:"killed,omitempty"`
}

// BattleRecord - полная запись боя: стартовая раскладка, параметры и все ходы.
// По записи бой можно переиграть и сверить, что симуляция детерминирована.
type BattleRecord struct {
	Timestamp   int64        `json:"timestamp"`
	HitPoints   int          `json:"hitPoints"`
	ElfPower    int          `json:"elfPower"`
	GoblinPower int          `json:"goblinPower"`
	Layout      string       `json:"layout"`
	Turns       []TurnRecord `json:"turns"`
}
