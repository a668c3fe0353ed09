package correlation

import (
	"sync"
	"zapata/internal/app/infrastructure/storage"
	"zapata/internal/app/ports"
)

// Store связывает баннеры в группе с авторами и хранит кэш имён для админских списков.
// Баннер живёт, пока на него не доставлен ответ; у пользователя может быть сколько угодно открытых баннеров.
type Store struct {
	mu      sync.RWMutex
	banners map[int64]int64

	identities ports.CachePort[int64, ports.Identity]
}

func New() *Store {
	return &Store{
		banners:    make(map[int64]int64),
		identities: storage.NewCache[int64, ports.Identity](0, 0),
	}
}

func (s *Store) RecordBanner(bannerID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.banners[bannerID] = userID
}

func (s *Store) ResolveBanner(bannerID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.banners[bannerID]
	return userID, ok
}

// RetireBanner вызывается только после успешной доставки ответа.
func (s *Store) RetireBanner(bannerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.banners, bannerID)
}

func (s *Store) OpenBanners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.banners)
}

func (s *Store) RememberIdentity(userID int64, info ports.Identity) {
	s.identities.Set(userID, info)
}

func (s *Store) LookupIdentity(userID int64) (ports.Identity, bool) {
	return s.identities.Get(userID)
}
