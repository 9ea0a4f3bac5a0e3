package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken        string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath          string `envconfig:"DB_PATH" default:"./data/timezone.db"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr        string `envconfig:"HTTP_ADDR" default:":8080"`
	DisplayLimit    int    `envconfig:"DISPLAY_LIMIT" default:"10"` // 0 = unlimited
	ShowUsernames   bool   `envconfig:"SHOW_USERNAMES" default:"true"`
	CooldownSeconds int    `envconfig:"COOLDOWN_SECONDS" default:"0"` // 0 = no cooldown
	NominatimURL    string `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org"`
	CapturePath     string `envconfig:"CAPTURE_CONFIG" default:""` // empty = embedded default
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
