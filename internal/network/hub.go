package network

import (
	"sync"

	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// OutboxSize - размер буфера подписчика. Отставший подписчик теряет снапшоты,
// а игра не ждет его.
const OutboxSize = 32

// Broadcaster занимается только рассылкой снапшотов подписчикам.
// Игровая горутина публикует, каждый клиент читает свой канал.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID клиента -> Личный канал
	subscribers map[string]chan *api.Snapshot
	last        *api.Snapshot
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan *api.Snapshot),
	}
}

// Register создает личный канал для клиента. Если канал был, закрываем.
// Последний снапшот сразу кладется в канал, чтобы опоздавший клиент не ждал
// следующего хода.
func (b *Broadcaster) Register(clientID string) chan *api.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan *api.Snapshot, OutboxSize)
	if b.last != nil {
		ch <- b.last
	}
	b.subscribers[clientID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[clientID]; ok {
		close(ch)
		delete(b.subscribers, clientID)
	}
}

// SendTo отправляет снапшот конкретному клиенту (Unicast), не блокируясь.
func (b *Broadcaster) SendTo(clientID string, snap *api.Snapshot) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[clientID]
	if !ok {
		return false
	}
	return offer(clientID, ch, snap)
}

// Broadcast отправляет всем, не блокируясь, и запоминает снапшот для
// опоздавших. Снапшот общий, получатели не должны его менять.
func (b *Broadcaster) Broadcast(snap *api.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = snap
	for id, ch := range b.subscribers {
		offer(id, ch, snap)
	}
}

func (b *Broadcaster) Last() *api.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// HasSubscriber проверяет, подключен ли клиент
func (b *Broadcaster) HasSubscriber(clientID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[clientID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func offer(clientID string, ch chan *api.Snapshot, snap *api.Snapshot) bool {
	select {
	case ch <- snap:
		return true
	default:
		logger.Log.WithFields(logrus.Fields{
			"component": "broadcaster",
			"client":    clientID,
		}).Warn("Outbox full, snapshot dropped")
		return false
	}
}
