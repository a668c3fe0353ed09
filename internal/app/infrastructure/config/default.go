package config

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel:   "info",
			LogFile:    "logs/relay.log",
			GinMode:    "release",
			ListenAddr: ":8080",
		},
		Telegram: Telegram{
			APIBaseURL:         "https://api.telegram.org",
			Mode:               ModePolling,
			PollTimeoutSeconds: 30,
			Workers:            4,
			RequestsPerSecond:  25,
		},
		Limiter: Limiter{
			MaxMessages:   5,
			WindowSeconds: 10,
		},
		Moderation: Moderation{
			RequireAdminForBlock: false,
		},
	}
}
