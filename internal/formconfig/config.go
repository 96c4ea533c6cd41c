// Package formconfig holds the runtime configuration of the form engine.
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. Command-line flags are applied last, in main.
package formconfig

import (
	"os"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/hrinsight/onboardform/internal/errl"
)

// Config is the configuration for the engine.
type Config struct {
	// Development switches on the stub backend and debug logging.
	Development bool `yaml:"development"`

	// Port of the form session server.
	Port string `yaml:"port"`

	// BackendURL is the base URL of the recruitment backend.
	BackendURL string `yaml:"backend_url"`

	// DraftDBPath is the SQLite file holding draft slots.
	DraftDBPath string `yaml:"draft_db_path"`

	// DraftSlot is the storage slot drafts are kept under.
	DraftSlot string `yaml:"draft_slot"`

	// StubPort is where the dev-mode stub backend listens.
	StubPort string `yaml:"stub_port"`

	// StubCodes are the access codes the stub backend accepts.
	StubCodes []string `yaml:"stub_codes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:        "8020",
		BackendURL:  "https://gw-staging.vissoft.vn/insight-service",
		DraftDBPath: "./onboardform.db",
		DraftSlot:   "employeeFormData",
		StubPort:    "8021",
		StubCodes:   []string{"DEVCODE"},
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errl.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errl.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ONBOARDFORM_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ONBOARDFORM_DEVELOPMENT"); v != "" {
		c.Development = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("ONBOARDFORM_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("ONBOARDFORM_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("ONBOARDFORM_DRAFT_DB"); v != "" {
		c.DraftDBPath = v
	}
	if v := os.Getenv("ONBOARDFORM_DRAFT_SLOT"); v != "" {
		c.DraftSlot = v
	}
	if v := os.Getenv("ONBOARDFORM_STUB_PORT"); v != "" {
		c.StubPort = v
	}
}
