package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"penaltyshot/internal/simulation"
)

// ErrInvalidConfig is wrapped by Load when a value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. SHOOTOUT_SERVER_ADDR.
const EnvPrefix = "SHOOTOUT"

// ServerConfig holds game server settings.
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	TickHz      int    `mapstructure:"tickHz"`
	FrameBuffer int    `mapstructure:"frameBuffer"`
}

// TickInterval is the simulation cadence derived from TickHz.
func (s ServerConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickHz)
}

// LogConfig holds logging settings. File is used by the terminal client,
// which cannot log to the screen it draws on.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// FieldConfig is the reference play area for server-hosted sessions.
type FieldConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// TelemetryConfig sizes the in-memory event ring.
type TelemetryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// AudioConfig toggles terminal client sound cues.
type AudioConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the full runtime configuration.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       LogConfig         `mapstructure:"log"`
	Field     FieldConfig       `mapstructure:"field"`
	Telemetry TelemetryConfig   `mapstructure:"telemetry"`
	Audio     AudioConfig       `mapstructure:"audio"`
	Tuning    simulation.Tuning `mapstructure:"tuning"`
}

// Load builds a Config from defaults, an optional file at path (YAML, JSON
// or TOML by extension) and SHOOTOUT_* environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":9003", TickHz: 60, FrameBuffer: 8},
		Log:       LogConfig{Level: "info"},
		Field:     FieldConfig{Width: 800, Height: 400},
		Telemetry: TelemetryConfig{Capacity: 5000},
		Audio:     AudioConfig{Enabled: true},
		Tuning:    simulation.DefaultTuning(),
	}
}

// Validate checks ranges the simulation and server rely on.
func (c Config) Validate() error {
	if c.Server.TickHz <= 0 || c.Server.TickHz > 1000 {
		return fmt.Errorf("%w: server.tickHz must be in (0, 1000], got %d", ErrInvalidConfig, c.Server.TickHz)
	}
	if c.Server.FrameBuffer < 1 {
		return fmt.Errorf("%w: server.frameBuffer must be >= 1, got %d", ErrInvalidConfig, c.Server.FrameBuffer)
	}
	if !(c.Field.Width > 0) || !(c.Field.Height > 0) {
		return fmt.Errorf("%w: field must be positive, got %vx%v", ErrInvalidConfig, c.Field.Width, c.Field.Height)
	}
	if c.Telemetry.Capacity < 1 {
		return fmt.Errorf("%w: telemetry.capacity must be >= 1, got %d", ErrInvalidConfig, c.Telemetry.Capacity)
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) error {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.tickHz", d.Server.TickHz)
	v.SetDefault("server.frameBuffer", d.Server.FrameBuffer)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("field.width", d.Field.Width)
	v.SetDefault("field.height", d.Field.Height)
	v.SetDefault("telemetry.capacity", d.Telemetry.Capacity)
	v.SetDefault("audio.enabled", d.Audio.Enabled)

	// Every tuning key gets a default so env overrides can reach it.
	tuning := map[string]interface{}{}
	if err := mapstructure.Decode(d.Tuning, &tuning); err != nil {
		return fmt.Errorf("tuning defaults: %w", err)
	}
	for key, val := range tuning {
		v.SetDefault("tuning."+key, val)
	}
	return nil
}
