package blocklist

import (
	"slices"
	"sync"
)

// Blocklist - множество заблокированных пользователей. Проверка прав - на вызывающей стороне.
type Blocklist struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func New() *Blocklist {
	return &Blocklist{ids: make(map[int64]struct{})}
}

func (b *Blocklist) IsBlocked(userID int64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.ids[userID]
	return ok
}

func (b *Blocklist) Block(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ids[userID] = struct{}{}
}

// Unblock возвращает true, только если пользователь действительно был в списке.
func (b *Blocklist) Unblock(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.ids[userID]; !ok {
		return false
	}
	delete(b.ids, userID)
	return true
}

// List - id по возрастанию.
func (b *Blocklist) List() []int64 {
	b.mu.RLock()
	ids := make([]int64, 0, len(b.ids))
	for id := range b.ids {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.ids)
}
