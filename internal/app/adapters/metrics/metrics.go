package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelayedMessages - сообщения пользователей, переданные в группу, по типу контента.
	RelayedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_total",
			Help: "Total number of private messages relayed into the group",
		},
		[]string{"kind"},
	)

	// DeliveredReplies - ответы группы, доставленные пользователям.
	DeliveredReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_replies_total",
			Help: "Total number of group replies delivered to users",
		},
		[]string{"kind"},
	)

	// Rejections - отказы по причинам: unsupported, rate_limited, blocked, unknown_banner, permission_denied, transport.
	Rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_rejections_total",
			Help: "Total number of rejected events per reason",
		},
		[]string{"flow", "reason"},
	)

	// ModerationActions - блокировки и разблокировки.
	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_moderation_actions_total",
			Help: "Number of moderation actions",
		},
		[]string{"action"},
	)

	// BlockedUsers - размер блоклиста.
	BlockedUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_blocked_users",
		Help: "Current number of blocked users",
	})

	// OpenBanners - баннеры, на которые ещё не ответили.
	OpenBanners = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_open_banners",
		Help: "Current number of banners awaiting a reply",
	})

	// RateWindowsEvicted - окна лимитера, выкинутые после простоя.
	RateWindowsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_rate_windows_evicted_total",
		Help: "Number of idle per-user rate windows evicted",
	})

	// UpdateProcessingTime - время обработки одного апдейта, регистрируется в app.
	UpdateProcessingTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_update_processing_seconds",
			Help:    "Time to process one platform update",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"type"},
	)
)
