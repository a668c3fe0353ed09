package ratelimit

import (
	"sync"
	"time"
	"zapata/internal/app/adapters/metrics"
	"zapata/internal/app/infrastructure/storage"
	"zapata/internal/app/ports"
)

const (
	DefaultMaxMessages = 5
	DefaultWindow      = 10 * time.Second
)

// Limiter - скользящее окно на пользователя: не больше max принятых событий за window.
// Окна заводятся лениво при первом сообщении. Без idleEviction они живут до рестарта,
// и память растёт с числом уникальных пользователей.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	windows ports.CachePort[int64, *window]
}

type window struct {
	stamps []time.Time
}

type Option func(l *Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithIdleEviction выкидывает окна пользователей, которые молчат дольше idle.
func WithIdleEviction(idle time.Duration) Option {
	return func(l *Limiter) {
		if idle > 0 {
			l.windows = storage.NewCache[int64, *window](0, idle,
				storage.WithEvictionHook(func(int64, *window) {
					metrics.RateWindowsEvicted.Inc()
				}),
			)
		}
	}
}

func New(max int, per time.Duration, opts ...Option) *Limiter {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	if per <= 0 {
		per = DefaultWindow
	}

	l := &Limiter{
		max:    max,
		window: per,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.windows == nil {
		l.windows = storage.NewCache[int64, *window](0, 0)
	}

	return l
}

// Admit решает, принять ли очередное событие. Отклонённое событие в окно не пишется.
func (l *Limiter) Admit(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows.Get(userID)
	if !ok {
		w = &window{stamps: make([]time.Time, 0, l.max)}
		l.windows.Set(userID, w)
	}

	now := l.now()
	cutoff := now.Add(-l.window)

	// метки монотонны, достаточно срезать голову
	drop := 0
	for drop < len(w.stamps) && w.stamps[drop].Before(cutoff) {
		drop++
	}
	if drop > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[drop:]...)
	}

	if len(w.stamps) >= l.max {
		return false
	}

	w.stamps = append(w.stamps, now)
	return true
}

// Tracked - сколько пользователей сейчас имеют окно.
func (l *Limiter) Tracked() int {
	return l.windows.Len()
}
