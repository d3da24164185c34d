package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
}

// SarvamConfig carries the vendor credential and endpoints. An empty key is
// not an error: the widget degrades to its documented demo/offline mode.
type SarvamConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// PiperConfig points at the optional local TTS sidecar used when the remote
// synthesis service is unavailable or unconfigured.
type PiperConfig struct {
	URL   string `mapstructure:"url"`
	Voice string `mapstructure:"voice"`
}

type Settings struct {
	Server       ServerConfig   `mapstructure:"server"`
	Redis        RedisConfig    `mapstructure:"redis"`
	Sarvam       SarvamConfig   `mapstructure:"sarvam"`
	Piper        PiperConfig    `mapstructure:"piper"`
	Widget       map[string]any `mapstructure:"widget"` // page-level override defaults
	Env          string         `mapstructure:"env"`
	Debug        bool           `mapstructure:"debug"`
	RequestTTL   time.Duration  `mapstructure:"request_ttl"`
	TranscriptDB int            `mapstructure:"transcript_db"`
}

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("sarvam.base_url", "https://api.sarvam.ai")
	viper.SetDefault("request_ttl", 20*time.Second)

	viper.SetEnvPrefix("widget")
	viper.AutomaticEnv()
	_ = viper.BindEnv("sarvam.api_key", "SARVAM_API_KEY")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("piper.url", "PIPER_URL")

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional, env vars can carry everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (s *Settings) validate() error {
	if s.Sarvam.BaseURL != "" {
		if _, err := url.Parse(s.Sarvam.BaseURL); err != nil {
			return fmt.Errorf("invalid sarvam base url: %w", err)
		}
	}
	if s.Piper.URL != "" {
		if _, err := url.Parse(s.Piper.URL); err != nil {
			return fmt.Errorf("invalid piper url: %w", err)
		}
	}
	return nil
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
