package domain

// Параметры юнитов по умолчанию
const (
	DefaultHitPoints   = 200
	DefaultAttackPower = 3
)

// Символы раскладки
const (
	GlyphWall   = '#'
	GlyphOpen   = '.'
	GlyphElf    = 'E'
	GlyphGoblin = 'G'
)
