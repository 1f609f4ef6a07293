package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/discord-oauth2/config"
)

func SampleConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Discord: config.DiscordConfigs{
			ClientID:     "1096975833982541824",
			ClientSecret: "client-secret",
			RedirectURI:  "https://questx.com/oauth2/callback",
			BotToken:     "bot-token",
		},
		Auth: config.AuthConfigs{
			StateSecret:     "state-secret",
			StateExpiration: time.Minute,
		},
	}
}

// SampleState returns a unique opaque state value for tests that do not care
// about its contents.
func SampleState() string {
	return uuid.NewString()
}
