// Package config handles pipeline configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the pipeline configuration stored in config.yaml.
type Config struct {
	InputPaths InputPaths `yaml:"input_paths"`
	OutputPath OutputPath `yaml:"output_path"`
	Workers    int        `yaml:"workers,omitempty"`   // 0 means one per CPU
	LogLevel   string     `yaml:"log_level,omitempty"` // logrus level name
}

// InputPaths lists where raw data is read from.
type InputPaths struct {
	RawDataDir string `yaml:"raw_data_dir"`
}

// OutputPath lists where results are written to.
type OutputPath struct {
	DrugGraph string `yaml:"drug_graph"`
}

const (
	// AppName names the per-user config directory.
	AppName = "pharmagraph"
	// DefaultConfigFile is the config file used when none is given.
	DefaultConfigFile = "config.yaml"

	// Environment variables overriding the config file.
	EnvRawDataDir = "PHARMAGRAPH_RAW_DATA_DIR"
	EnvDrugGraph  = "PHARMAGRAPH_DRUG_GRAPH"
	EnvLogLevel   = "PHARMAGRAPH_LOG_LEVEL"
	EnvWorkers    = "PHARMAGRAPH_WORKERS"
)

// Dotted names of the required keys.
const (
	KeyRawDataDir = "input_paths.raw_data_dir"
	KeyDrugGraph  = "output_path.drug_graph"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// MissingKeyError reports a required key that is absent or empty.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing configuration key %q", e.Key)
}

// UserConfigPath returns the per-user config file under XDG_CONFIG_HOME.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultConfigFile)
}

// Resolve picks the config file to read. An explicitly given path is always
// used. Otherwise path is used if it exists, then the per-user config.
func Resolve(path string, explicit bool) string {
	if explicit || fileExists(ExpandPath(path)) {
		return path
	}
	if user := UserConfigPath(); fileExists(user) {
		return user
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the configuration at path and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrEnv is like Load but falls back to an environment-only
// configuration when the file does not exist.
func LoadOrEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) {
		cfg = &Config{}
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// ApplyEnv overrides fields with any PHARMAGRAPH_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvRawDataDir); v != "" {
		c.InputPaths.RawDataDir = v
	}
	if v := os.Getenv(EnvDrugGraph); v != "" {
		c.OutputPath.DrugGraph = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ExpandPath(path), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks that every key needed by a full pipeline run is set.
func (c *Config) Validate() error {
	if c.InputPaths.RawDataDir == "" {
		return &MissingKeyError{Key: KeyRawDataDir}
	}
	if _, err := c.DrugGraphPath(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be >= 0)", c.Workers)
	}
	return nil
}

// RawDataDir returns the expanded raw data directory.
func (c *Config) RawDataDir() string {
	return ExpandPath(c.InputPaths.RawDataDir)
}

// DrugGraphPath returns the expanded graph output path, or a MissingKeyError
// if it is not configured.
func (c *Config) DrugGraphPath() (string, error) {
	if c.OutputPath.DrugGraph == "" {
		return "", &MissingKeyError{Key: KeyDrugGraph}
	}
	return ExpandPath(c.OutputPath.DrugGraph), nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// HelpfulConfigMessage returns a message explaining how to create a config
// file at path.
func HelpfulConfigMessage(path string) string {
	return fmt.Sprintf(`No configuration found at %s.

Tip: Create it with the input and output locations:
  cat > %s <<'EOF'
  input_paths:
    raw_data_dir: data/raw
  output_path:
    drug_graph: data/output/drug_graph.json
  EOF

Or set %s and %s.`,
		path, path, EnvRawDataDir, EnvDrugGraph)
}
