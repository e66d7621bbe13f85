package api

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений потока зрителя
const (
	SnapshotRound   = "ROUND"
	SnapshotOutcome = "OUTCOME"
	SnapshotError   = "ERROR"
)

// RoundSnapshot это корневой объект, который сервер отправляет зрителю боя.
// Полный "снимок" поля после очередного раунда: клиенту не нужно хранить состояние.
type RoundSnapshot struct {
	// Type тип сообщения: ROUND, OUTCOME или ERROR.
	Type string `json:"type"`

	// BattleID идентификатор боя, к которому относится снимок.
	BattleID string `json:"battleId"`

	// Round число завершенных раундов на момент снимка.
	Round int `json:"round"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map строки карты в текстовом виде (`#`, `.`, `E`, `G`).
	Map []string `json:"map,omitempty"`

	// Units живые юниты в порядке чтения.
	Units []UnitView `json:"units,omitempty"`

	// Outcome итог боя. Есть только в сообщении OUTCOME.
	Outcome *OutcomeView `json:"outcome,omitempty"`

	// Error текст ошибки для сообщения ERROR.
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// UnitView это DTO для одного юнита.
type UnitView struct {
	ID      int    `json:"id"`
	Faction string `json:"faction"` // elf, goblin
	Symbol  string `json:"symbol"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	HP          int `json:"hp"`
	AttackPower int `json:"attackPower"`
}

// OutcomeView итог боя или поиска силы атаки.
type OutcomeView struct {
	Winner    string         `json:"winner"`
	Rounds    int            `json:"rounds"`
	HitPoints int            `json:"hitPoints"`
	Score     int            `json:"score"`
	Losses    map[string]int `json:"losses"`

	// ElfPower сила атаки эльфов, с которой сыгран бой (для поиска - найденный минимум).
	ElfPower int `json:"elfPower"`
}

// BattleView краткое описание боя для списка и ответа на POST /battles.
type BattleView struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"` // RUNNING, FINISHED, FAILED
	Search    bool         `json:"search"`
	Round     int          `json:"round"`
	Grid      GridMeta     `json:"grid"`
	StartedAt int64        `json:"startedAt"` // Unix milliseconds
	Outcome   *OutcomeView `json:"outcome,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Статусы боя в BattleView
const (
	StatusRunning  = "RUNNING"
	StatusFinished = "FINISHED"
	StatusFailed   = "FAILED"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// StartBattleRequest тело POST /battles.
type StartBattleRequest struct {
	// Layout раскладка пещеры в текстовом виде.
	Layout string `json:"layout"`

	// ElfPower и GoblinPower переопределяют силу атаки из конфига (0 - не менять).
	ElfPower    int `json:"elfPower,omitempty"`
	GoblinPower int `json:"goblinPower,omitempty"`

	// Search вместо одного боя ищет минимальную силу эльфов для победы без потерь
	// и транслирует удачный прогон.
	Search bool `json:"search,omitempty"`
}
