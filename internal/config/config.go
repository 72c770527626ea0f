package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"ubloxd/internal/logging"
	"ubloxd/internal/ubx"
)

type Config struct {
	GPS    GPSConfig      `yaml:"gps" toml:"gps"`
	Output OutputConfig   `yaml:"output" toml:"output"`
	Record RecordConfig   `yaml:"record" toml:"record"`
	Replay ReplayConfig   `yaml:"replay" toml:"replay"`
	PPS    PPSConfig      `yaml:"pps" toml:"pps"`
	Web    WebConfig      `yaml:"web" toml:"web"`
	Log    logging.Config `yaml:"log" toml:"log"`
}

type GPSConfig struct {
	Enable bool `yaml:"enable" toml:"enable"`

	// Device may be empty to auto-detect /dev/ttyACM* then /dev/ttyUSB*.
	Device string `yaml:"device" toml:"device"`
	Baud   int    `yaml:"baud" toml:"baud"`

	// MaxPayload is the scanner's payload ceiling in bytes.
	MaxPayload int `yaml:"max_payload" toml:"max_payload"`

	// Configure sends CFG-MSG requests enabling Messages at Rate on start.
	Configure bool     `yaml:"configure" toml:"configure"`
	Messages  []string `yaml:"messages" toml:"messages"`
	Rate      int      `yaml:"rate" toml:"rate"`

	// StaleAfter marks the fix stale when no update arrives in time.
	StaleAfter time.Duration `yaml:"stale_after" toml:"stale_after"`
}

type OutputConfig struct {
	// Dest is host:port for UDP fix messages. Empty disables output.
	Dest     string        `yaml:"dest" toml:"dest"`
	Interval time.Duration `yaml:"interval" toml:"interval"`
	Format   string        `yaml:"format" toml:"format"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable" toml:"enable"`
	Path   string `yaml:"path" toml:"path"`
}

type ReplayConfig struct {
	Enable bool    `yaml:"enable" toml:"enable"`
	Path   string  `yaml:"path" toml:"path"`
	Speed  float64 `yaml:"speed" toml:"speed"`
	Loop   bool    `yaml:"loop" toml:"loop"`
}

type PPSConfig struct {
	Enable bool   `yaml:"enable" toml:"enable"`
	Chip   string `yaml:"chip" toml:"chip"`
	Line   int    `yaml:"line" toml:"line"`
}

type WebConfig struct {
	// Listen is the status API address. Empty disables it.
	Listen string `yaml:"listen" toml:"listen"`
}

// Load reads a YAML file, or TOML when the path ends in .toml, applies
// defaults and validates.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	} else {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if !cfg.GPS.Enable && !cfg.Replay.Enable {
		return fmt.Errorf("either gps.enable or replay.enable must be true")
	}
	if cfg.GPS.Enable && cfg.Replay.Enable {
		return fmt.Errorf("gps.enable and replay.enable cannot both be true")
	}

	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 9600
	}
	if cfg.GPS.Baud < 0 {
		return fmt.Errorf("gps.baud must be > 0")
	}
	if cfg.GPS.MaxPayload == 0 {
		cfg.GPS.MaxPayload = ubx.DefaultMaxPayload
	}
	if cfg.GPS.MaxPayload < 0 || cfg.GPS.MaxPayload > ubx.MaxWirePayload {
		return fmt.Errorf("gps.max_payload must be between 1 and %d", ubx.MaxWirePayload)
	}
	if len(cfg.GPS.Messages) == 0 {
		cfg.GPS.Messages = []string{"NAV-PVT"}
	}
	for _, m := range cfg.GPS.Messages {
		if _, err := ubx.ParseKind(strings.TrimSpace(m)); err != nil {
			return fmt.Errorf("gps.messages: %v", err)
		}
	}
	if cfg.GPS.Rate == 0 {
		cfg.GPS.Rate = 1
	}
	if cfg.GPS.Rate < 0 || cfg.GPS.Rate > 255 {
		return fmt.Errorf("gps.rate must be between 1 and 255")
	}
	if cfg.GPS.StaleAfter <= 0 {
		cfg.GPS.StaleAfter = 3 * time.Second
	}

	if cfg.Output.Interval <= 0 {
		cfg.Output.Interval = 1 * time.Second
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.Format == "" {
		cfg.Output.Format = "cbor"
	}
	if cfg.Output.Format != "cbor" && cfg.Output.Format != "json" {
		return fmt.Errorf("output.format must be 'cbor' or 'json'")
	}

	if cfg.Record.Enable {
		if cfg.Replay.Enable {
			return fmt.Errorf("record and replay cannot both be enabled")
		}
		if cfg.Record.Path == "" {
			return fmt.Errorf("record.path is required when record.enable is true")
		}
	}

	if cfg.Replay.Enable {
		if cfg.Replay.Path == "" {
			return fmt.Errorf("replay.path is required when replay.enable is true")
		}
		if cfg.Replay.Speed == 0 {
			cfg.Replay.Speed = 1
		}
		if cfg.Replay.Speed < 0 {
			return fmt.Errorf("replay.speed must be > 0")
		}
	}

	if cfg.PPS.Enable {
		if cfg.PPS.Chip == "" {
			cfg.PPS.Chip = "gpiochip0"
		}
		if cfg.PPS.Line < 0 {
			return fmt.Errorf("pps.line must be >= 0")
		}
	}
	return nil
}
