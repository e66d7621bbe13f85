package engine

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"cavern-combat/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры симуляции
type Config struct {
	// HitPoints - стартовое здоровье каждого юнита.
	HitPoints int `yaml:"hit_points"`
	// ElfPower / GoblinPower - сила атаки сторон.
	ElfPower    int `yaml:"elf_power"`
	GoblinPower int `yaml:"goblin_power"`

	// ProtectedFaction - чьи потери минимизирует поиск силы атаки ("elf"/"goblin").
	ProtectedFaction string `yaml:"protected_faction"`
	// MaxAttackPower - верхняя граница поиска; дальше - ErrNoWinningPower.
	MaxAttackPower int `yaml:"max_attack_power"`
	// SearchWorkers - сколько прогонов поиска идут параллельно (размер окна).
	SearchWorkers int `yaml:"search_workers"`

	// MaxRounds - аварийный предел числа раундов (0 - без предела).
	MaxRounds int `yaml:"max_rounds"`
	// CheckInvariants - сверять индекс занятости после каждого раунда.
	CheckInvariants bool `yaml:"check_invariants"`

	// RoundDelay - пауза между раундами в режиме трансляции зрителям.
	RoundDelay time.Duration `yaml:"round_delay"`
	// SessionTTL - сколько законченный бой остается в /battles (0 - пока жив процесс).
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		HitPoints:        domain.DefaultHitPoints,
		ElfPower:         domain.DefaultAttackPower,
		GoblinPower:      domain.DefaultAttackPower,
		ProtectedFaction: domain.FactionElf.String(),
		MaxAttackPower:   domain.DefaultHitPoints,
		SearchWorkers:    runtime.NumCPU(),
		MaxRounds:        0,
		CheckInvariants:  true,
		RoundDelay:       250 * time.Millisecond,
		SessionTTL:       10 * time.Minute,
	}
}

// LoadConfig читает YAML поверх значений по умолчанию:
// отсутствующие в файле поля остаются дефолтными.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет значения конфига
func (c Config) Validate() error {
	if c.HitPoints <= 0 {
		return fmt.Errorf("hit_points must be positive, got %d", c.HitPoints)
	}
	if c.ElfPower <= 0 || c.GoblinPower <= 0 {
		return fmt.Errorf("attack power must be positive (elf %d, goblin %d)", c.ElfPower, c.GoblinPower)
	}
	if _, err := domain.ParseFaction(c.ProtectedFaction); err != nil {
		return err
	}
	if c.MaxRounds < 0 || c.SearchWorkers < 0 {
		return fmt.Errorf("max_rounds and search_workers must not be negative")
	}
	if c.RoundDelay < 0 || c.SessionTTL < 0 {
		return fmt.Errorf("round_delay and session_ttl must not be negative")
	}
	return nil
}

// Protected возвращает защищаемую сторону (по умолчанию эльфы).
func (c Config) Protected() domain.Faction {
	f, err := domain.ParseFaction(c.ProtectedFaction)
	if err != nil {
		return domain.FactionElf
	}
	return f
}

// AttackPower - сила атаки стороны по конфигу.
func (c Config) AttackPower(f domain.Faction) int {
	if f == domain.FactionElf {
		return c.ElfPower
	}
	return c.GoblinPower
}

// Apply выставляет юнитам свежего Roster здоровье и силу атаки из конфига.
func (c Config) Apply(r *domain.Roster) {
	for _, u := range r.All() {
		u.Stats.HP = c.HitPoints
		u.Stats.MaxHP = c.HitPoints
	}
	for _, f := range domain.Factions {
		r.SetAttackPower(f, c.AttackPower(f))
	}
}

// WithAttackPower возвращает копию конфига с другой силой атаки стороны f.
func (c Config) WithAttackPower(f domain.Faction, power int) Config {
	if f == domain.FactionElf {
		c.ElfPower = power
	} else {
		c.GoblinPower = power
	}
	return c
}
