package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProgramPath  string // hcl file or directory
	ProgramLabel string // program to build; empty selects the first one

	UIURL              string // socket.io renderer; empty runs headless
	UINamespace        string
	InsecureSkipVerify bool
	Triggers           bool // buttons for trigger variables

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	Dump  bool // print the element tree and exit
	Watch bool // rebuild when program files change
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProgramPath == "" {
		return nil, errors.New("ProgramPath is a required configuration field and cannot be empty")
	}
	if cfg.Dump && cfg.Watch {
		return nil, errors.New("dump and watch cannot be combined")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// fileConfig is the layout of a TOML configuration file.
type fileConfig struct {
	Program struct {
		Path  string `toml:"path"`
		Label string `toml:"label"`
		Watch bool   `toml:"watch"`
	} `toml:"program"`
	UI struct {
		URL                string `toml:"url"`
		Namespace          string `toml:"namespace"`
		InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
		Triggers           bool   `toml:"triggers"`
	} `toml:"ui"`
	Log struct {
		Format string `toml:"format"`
		Level  string `toml:"level"`
	} `toml:"log"`
	Healthcheck struct {
		Port int `toml:"port"`
	} `toml:"healthcheck"`
}

// LoadConfigFile reads a TOML configuration file. The result is not
// validated; callers merge flags over it and pass it to NewConfig.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&fc); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return Config{
		ProgramPath:        fc.Program.Path,
		ProgramLabel:       fc.Program.Label,
		Watch:              fc.Program.Watch,
		UIURL:              fc.UI.URL,
		UINamespace:        fc.UI.Namespace,
		InsecureSkipVerify: fc.UI.InsecureSkipVerify,
		Triggers:           fc.UI.Triggers,
		LogFormat:          fc.Log.Format,
		LogLevel:           fc.Log.Level,
		HealthcheckPort:    fc.Healthcheck.Port,
	}, nil
}
