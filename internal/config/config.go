package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Mode         string `mapstructure:"mode"`
	Port         int    `mapstructure:"port"`
	StaticPath   string `mapstructure:"static_path"`
	Secret       string `mapstructure:"secret"`
	LogLevel     string `mapstructure:"log_level"`
	Backpressure string `mapstructure:"backpressure"`

	WS     WS     `mapstructure:"ws"`
	Audio  Audio  `mapstructure:"audio"`
	Limits Limits `mapstructure:"limits"`
}

type WS struct {
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
}

type Audio struct {
	DefaultMimeType string `mapstructure:"default_mime_type"`
	SniffMimeType   bool   `mapstructure:"sniff_mime_type"`
}

// Limits bounds how often one connection may join.
type Limits struct {
	JoinBurst    int           `mapstructure:"join_burst"`
	JoinInterval time.Duration `mapstructure:"join_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "radio-dev-secret")
	v.SetDefault("log_level", "info")
	v.SetDefault("backpressure", "log")

	// audio chunks arrive inside JSON as base64 or byte arrays
	v.SetDefault("ws.read_limit", 1<<20)
	v.SetDefault("ws.ping_period", "54s")
	v.SetDefault("ws.pong_wait", "60s")
	v.SetDefault("ws.write_wait", "10s")
	v.SetDefault("ws.send_buffer", 256)

	v.SetDefault("audio.default_mime_type", "audio/webm")
	v.SetDefault("audio.sniff_mime_type", false)

	v.SetDefault("limits.join_burst", 5)
	v.SetDefault("limits.join_interval", "10s")
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default).
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName on top of the defaults. A missing file is not an
// error. RADIO_* environment variables override both, e.g. RADIO_WS_SEND_BUFFER.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("RADIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	case c.Secret == "":
		return fmt.Errorf("%w: empty secret", ErrInvalidConfig)
	case c.WS.SendBuffer <= 0:
		return fmt.Errorf("%w: ws.send_buffer must be positive", ErrInvalidConfig)
	case c.WS.PingPeriod <= 0 || c.WS.PongWait <= c.WS.PingPeriod:
		return fmt.Errorf("%w: ws.pong_wait must exceed ws.ping_period", ErrInvalidConfig)
	case c.Limits.JoinBurst <= 0 || c.Limits.JoinInterval <= 0:
		return fmt.Errorf("%w: join limits must be positive", ErrInvalidConfig)
	}
	return nil
}
