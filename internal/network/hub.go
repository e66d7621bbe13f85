package network

import (
	"sync"

	"cavern-combat/pkg/api"
)

// SubscriberBuffer - размер личного канала зрителя
const SubscriberBuffer = 100

type topic struct {
	subscribers map[uint64]chan api.RoundSnapshot
}

// Broadcaster занимается только рассылкой снимков зрителям.
// Каждый бой - отдельная тема, у темы может быть сколько угодно подписчиков.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID uint64
	// Мапа: BattleID -> подписчики
	topics map[string]*topic
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		topics: make(map[string]*topic),
	}
}

// OpenTopic заводит тему боя. Повторный вызов ничего не меняет.
func (b *Broadcaster) OpenTopic(battleID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.topics[battleID]; !ok {
		b.topics[battleID] = &topic{subscribers: make(map[uint64]chan api.RoundSnapshot)}
	}
}

// Subscribe создает личный канал зрителя боя.
// Если темы нет (бой закончен или не начинался), канал возвращается закрытым.
func (b *Broadcaster) Subscribe(battleID string) (uint64, <-chan api.RoundSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	ch := make(chan api.RoundSnapshot, SubscriberBuffer)

	t, ok := b.topics[battleID]
	if !ok {
		close(ch)
		return b.nextID, ch
	}
	t.subscribers[b.nextID] = ch
	return b.nextID, ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unsubscribe(battleID string, subID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[battleID]
	if !ok {
		return
	}
	if ch, ok := t.subscribers[subID]; ok {
		close(ch)
		delete(t.subscribers, subID)
	}
}

// Publish отправляет снимок всем зрителям боя. Не блокируется:
// если канал зрителя переполнен, снимок для него теряется.
// Возвращает число зрителей, получивших снимок.
func (b *Broadcaster) Publish(battleID string, msg api.RoundSnapshot) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.topics[battleID]
	if !ok {
		return 0
	}

	delivered := 0
	for _, ch := range t.subscribers {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// CloseTopic закрывает каналы всех зрителей боя и удаляет тему.
// Новые подписчики получат закрытый канал.
func (b *Broadcaster) CloseTopic(battleID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[battleID]
	if !ok {
		return
	}
	for _, ch := range t.subscribers {
		close(ch)
	}
	delete(b.topics, battleID)
}

// TopicCount - число открытых тем.
func (b *Broadcaster) TopicCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics)
}

// SubscriberCount возвращает количество активных зрителей боя.
func (b *Broadcaster) SubscriberCount(battleID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if t, ok := b.topics[battleID]; ok {
		return len(t.subscribers)
	}
	return 0
}
