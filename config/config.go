package config

import (
	"os"
	"time"
)

type Configs struct {
	Env     string
	Discord DiscordConfigs
	Auth    AuthConfigs
}

type DiscordConfigs struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// BotToken is only required by operations authorized as the application
	// itself (guild join, application fetch).
	BotToken string
}

type AuthConfigs struct {
	StateSecret     string
	StateExpiration time.Duration
}

func Load() Configs {
	return Configs{
		Env: getEnv("ENV", "local"),
		Discord: DiscordConfigs{
			ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("DISCORD_REDIRECT_URI"),
			BotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		},
		Auth: AuthConfigs{
			StateSecret:     os.Getenv("AUTH_STATE_SECRET"),
			StateExpiration: getDuration("AUTH_STATE_EXPIRATION", 5*time.Minute),
		},
	}
}

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return value
}
