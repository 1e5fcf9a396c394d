package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	// DataDirName is the data directory under the home directory
	DataDirName = "WorkTrackerData"
	EnvPrefix   = "WORKTRACK"
)

// Config represents the worktrack configuration
type Config struct {
	DataDir       string              `yaml:"data_dir" mapstructure:"data_dir"`
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Report        ReportConfig        `yaml:"report" mapstructure:"report"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	UI            UIConfig            `yaml:"ui" mapstructure:"ui"`
}

// StorageConfig selects where state is kept
type StorageConfig struct {
	// Backend is "json" (tasks.json) or "sqlite" (worktrack.db)
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// ReportConfig configures spreadsheet export
type ReportConfig struct {
	// Dir defaults to the current working directory when empty
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// NotificationsConfig configures desktop notifications
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// UIConfig configures the terminal UI
type UIConfig struct {
	Theme string `yaml:"theme" mapstructure:"theme"`
}

// DefaultDataDir returns ~/WorkTrackerData
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

// DefaultPath returns the config file location used when none is given
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "worktrack", "config.yaml")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend: BackendJSON,
		},
		Report: ReportConfig{
			Prefix: "Work_Summary",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Theme: "nord",
		},
	}
}

// Load reads configuration from path, falling back to DefaultPath when path
// is empty. A missing default file is not an error; a missing explicit one
// is. WORKTRACK_* environment variables override both.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("report.dir", def.Report.Dir)
	v.SetDefault("report.prefix", def.Report.Prefix)
	v.SetDefault("notifications.enabled", def.Notifications.Enabled)
	v.SetDefault("ui.theme", def.UI.Theme)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			switch {
			case explicit:
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			default:
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Report.Dir = expandHome(cfg.Report.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir must not be empty")
	}
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown storage backend %q (want %s or %s)", c.Storage.Backend, BackendJSON, BackendSQLite)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// WriteDefault writes a commented default configuration to path
func WriteDefault(path string) error {
	content := `# worktrack configuration

# Where tasks.json (or worktrack.db) is kept
data_dir: ~/WorkTrackerData

storage:
  backend: json  # "json" or "sqlite"

report:
  dir: ""        # empty = current directory
  prefix: Work_Summary

notifications:
  enabled: true

ui:
  theme: nord    # nord, dracula, gruvbox, catppuccin
`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
