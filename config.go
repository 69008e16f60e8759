package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"gregoryjjb/buzzd/display"
	"gregoryjjb/buzzd/gpio"
)

const (
	defaultHost        = "0.0.0.0"
	defaultPort        = "8080"
	defaultPulse       = 500 * time.Millisecond
	defaultRefresh     = time.Second
	defaultLogLines    = 10
	defaultNetworkWait = 60 * time.Second
	defaultModbusUnit  = 1
)

// Flags are the command line arguments.
type Flags struct {
	ConfigPath string
}

type fileConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	LogLevel string `toml:"log_level"`

	Relay   relayFileConfig   `toml:"relay"`
	Display displayFileConfig `toml:"display"`
	Network networkFileConfig `toml:"network"`
	MQTT    mqttFileConfig    `toml:"mqtt"`
	Chime   chimeFileConfig   `toml:"chime"`
}

type relayFileConfig struct {
	Driver        string `toml:"driver"`
	Pin           int    `toml:"pin"`
	PulseMillis   int    `toml:"pulse_ms"`
	Chip          string `toml:"chip"`
	ModbusAddress string `toml:"modbus_address"`
	ModbusUnit    int    `toml:"modbus_unit"`
	ModbusCoil    int    `toml:"modbus_coil"`
}

type displayFileConfig struct {
	Driver        string `toml:"driver"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	RefreshMillis int    `toml:"refresh_ms"`
	LogLines      int    `toml:"log_lines"`
}

type networkFileConfig struct {
	WaitSeconds int `toml:"wait_s"`
}

type mqttFileConfig struct {
	Broker string `toml:"broker"`
}

type chimeFileConfig struct {
	Path string `toml:"path"`
}

// Config merges the TOML config file with environment overrides. Zero
// values fall back to defaults in the accessors, so an empty file and a
// missing file behave the same.
type Config struct {
	file   fileConfig
	getenv func(string) string
}

func NewConfig(fs BuzzdFS, flags Flags, getenv func(string) string) (*Config, error) {
	c := &Config{getenv: getenv}

	path, err := findConfigFile(fs, flags)
	if err != nil {
		return nil, err
	}
	if path == "" {
		log.Debug().Msg("No config file found, using defaults")
		return c, nil
	}

	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &c.file); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Loaded config file")
	return c, nil
}

// findConfigFile returns the path to load, or "" when running on defaults.
// An explicitly flagged path must exist; the search locations are optional.
func findConfigFile(fs BuzzdFS, flags Flags) (string, error) {
	if flags.ConfigPath != "" {
		abs, err := fs.Abs(flags.ConfigPath)
		if err != nil {
			return "", err
		}
		exists, err := afero.Exists(fs, abs)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("config file %s does not exist", flags.ConfigPath)
		}
		return abs, nil
	}

	var candidates []string
	if abs, err := fs.Abs("buzzd.toml"); err == nil {
		candidates = append(candidates, abs)
	}
	if home, err := fs.HomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "buzzd", "buzzd.toml"))
	}
	candidates = append(candidates, "/etc/buzzd/buzzd.toml")

	for _, p := range candidates {
		exists, err := afero.Exists(fs, p)
		if err != nil {
			return "", err
		}
		if exists {
			return p, nil
		}
	}
	return "", nil
}

func (c *Config) Host() string {
	if v := c.getenv("HOST"); v != "" {
		return v
	}
	if c.file.Host != "" {
		return c.file.Host
	}
	return defaultHost
}

func (c *Config) Port() string {
	if v := c.getenv("PORT"); v != "" {
		return v
	}
	if c.file.Port != "" {
		return c.file.Port
	}
	return defaultPort
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host(), c.Port())
}

func (c *Config) LogLevel() zerolog.Level {
	if c.file.LogLevel == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(c.file.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", c.file.LogLevel).Msg("Unknown log level, using info")
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) PulseDuration() time.Duration {
	if c.file.Relay.PulseMillis <= 0 {
		return defaultPulse
	}
	return time.Duration(c.file.Relay.PulseMillis) * time.Millisecond
}

func (c *Config) RelayConfig() gpio.Config {
	driver := c.file.Relay.Driver
	if driver == "" {
		driver = gpio.DriverRPIO
	}
	pin := c.file.Relay.Pin
	if pin == 0 {
		pin = gpio.DefaultPin
	}
	unit := c.file.Relay.ModbusUnit
	if unit == 0 {
		unit = defaultModbusUnit
	}

	return gpio.Config{
		Driver:        driver,
		Pin:           pin,
		Chip:          c.file.Relay.Chip,
		ModbusAddress: c.file.Relay.ModbusAddress,
		ModbusUnit:    byte(unit),
		ModbusCoil:    uint16(c.file.Relay.ModbusCoil),
	}
}

func (c *Config) DisplayDriver() string {
	if c.file.Display.Driver == "" {
		return "term"
	}
	return c.file.Display.Driver
}

func (c *Config) DisplayWidth() int {
	if c.file.Display.Width <= 0 {
		return display.Width
	}
	return c.file.Display.Width
}

func (c *Config) DisplayHeight() int {
	if c.file.Display.Height <= 0 {
		return display.Height
	}
	return c.file.Display.Height
}

func (c *Config) RefreshInterval() time.Duration {
	if c.file.Display.RefreshMillis <= 0 {
		return defaultRefresh
	}
	return time.Duration(c.file.Display.RefreshMillis) * time.Millisecond
}

func (c *Config) LogLines() int {
	if c.file.Display.LogLines <= 0 {
		return defaultLogLines
	}
	return c.file.Display.LogLines
}

func (c *Config) NetworkWait() time.Duration {
	if c.file.Network.WaitSeconds <= 0 {
		return defaultNetworkWait
	}
	return time.Duration(c.file.Network.WaitSeconds) * time.Second
}

func (c *Config) MQTTBroker() string {
	return c.file.MQTT.Broker
}

func (c *Config) ChimePath() string {
	return c.file.Chime.Path
}
