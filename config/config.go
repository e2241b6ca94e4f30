// Package config loads and validates caminatusd's configuration, using
// the same koanf defaults-then-file-override chain
// cmd/multiserver/main.go uses, expanded to the kiln domain's key set
// (original_source/src/config.rs plus spec.md section 6's full table).
package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

// WebConfig holds the HTTP/SSE surface's listen parameters.
type WebConfig struct {
	Port              uint16 `koanf:"port"`
	HostIP            string `koanf:"host_ip"`
	KeepAliveInterval uint32 `koanf:"keep_alive_interval"`
}

// KilnConfig holds the PID gains and fuzzy-overlay parameters.
type KilnConfig struct {
	Proportional  float64 `koanf:"proportional"`
	Integral      float64 `koanf:"integral"`
	Derivative    float64 `koanf:"derivative"`
	FuzzyStepSize float32 `koanf:"fuzzy_step_size"`
	MaxDifference float32 `koanf:"max_difference"`
}

// GPIOConfig holds the BCM pin assignments.
type GPIOConfig struct {
	Heater uint8 `koanf:"heater"`
}

// Config is caminatusd's full configuration, populated from defaults and
// then overridden by an on-disk YAML file, mirroring
// cmd/multiserver/main.go's setupconfig/run split.
type Config struct {
	LogLevel            string     `koanf:"log_level"`
	SchedulesFolder     string     `koanf:"schedules_folder"`
	PollInterval        uint32     `koanf:"poll_interval"`
	ThermocoupleAddress uint16     `koanf:"thermocouple_address"`
	Web                 WebConfig  `koanf:"web"`
	Kiln                KilnConfig `koanf:"kiln"`
	GPIO                GPIOConfig `koanf:"gpio"`
	MQTTBroker          string     `koanf:"mqtt_broker"`
}

// Default returns the configuration used before any file override is
// applied, matching original_source's implied defaults and spec.md
// section 6 ("?" keys).
func Default() Config {
	return Config{
		LogLevel:        "info",
		SchedulesFolder: "./schedules",
		PollInterval:    1000,
		Web: WebConfig{
			Port:              8080,
			HostIP:            "0.0.0.0",
			KeepAliveInterval: 5000,
		},
		Kiln: KilnConfig{
			FuzzyStepSize: 5,
			MaxDifference: 10,
		},
	}
}

// Load reads path (if present) over Default(), the same
// structs.Provider-then-file.Provider chain cmd/multiserver/main.go
// uses. A missing file is not an error; defaults stand as-is.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such file") {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshalling: %w", err)
	}

	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the invariants spec.md section 6 requires of a loaded
// configuration: schedules_folder must exist and be a directory,
// web.host_ip must parse as IPv4.
func Validate(c Config) error {
	info, err := os.Stat(c.SchedulesFolder)
	if err != nil {
		return fmt.Errorf("config: schedules_folder %q: %w", c.SchedulesFolder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config: schedules_folder %q is not a directory", c.SchedulesFolder)
	}

	if ip := net.ParseIP(c.Web.HostIP); ip == nil || ip.To4() == nil {
		return fmt.Errorf("config: web.host_ip %q is not a valid IPv4 address", c.Web.HostIP)
	}

	return nil
}
