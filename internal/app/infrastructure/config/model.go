package config

type Config struct {
	App        App        `json:"app"`
	Proxy      *Proxy     `json:"proxy"`
	Telegram   Telegram   `json:"telegram"`
	Limiter    Limiter    `json:"limiter"`
	Moderation Moderation `json:"moderation"`
}

type App struct {
	LogLevel    string   `json:"log_level"`
	LogFile     string   `json:"log_file"`
	GinMode     string   `json:"gin_mode"`
	AuthToken   string   `json:"auth_token"`   // basic auth для /metrics и pprof
	ListenAddr  string   `json:"listen_addr"`  // игнорируется, если заданы cert_domains
	CertDomains []string `json:"cert_domains"` // autocert, слушаем :443
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Telegram struct {
	Token              string  `json:"token"`
	GroupChatID        int64   `json:"group_chat_id"`
	APIBaseURL         string  `json:"api_base_url"`
	Mode               string  `json:"mode"` // polling/webhook
	WebhookURL         string  `json:"webhook_url"`
	WebhookSecret      string  `json:"webhook_secret"`
	PollTimeoutSeconds int     `json:"poll_timeout_seconds"`
	Workers            int     `json:"workers"`
	RequestsPerSecond  float64 `json:"requests_per_second"` // исходящие запросы к Bot API
}

type Limiter struct {
	MaxMessages         int `json:"max_messages"`
	WindowSeconds       int `json:"window_seconds"`
	IdleEvictionMinutes int `json:"idle_eviction_minutes"` // 0 - окна пользователей живут до рестарта
}

type Moderation struct {
	RequireAdminForBlock bool `json:"require_admin_for_block"`
}
