package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a TOML file-based implementation of driven.ConfigStore.
// Values are decoded over the defaults, so a partial file only overrides
// the keys it names and absent booleans keep their default of true.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a TOML-based config store. If configPath is
// empty, defaults to ~/.docsweep/config.toml.
func NewConfigStore(configPath string) (*ConfigStore, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(home, ".docsweep", "config.toml")
	}

	return &ConfigStore{filePath: configPath}, nil
}

// Load reads the configuration file and normalises the result. A
// missing file yields the defaults.
func (s *ConfigStore) Load() (domain.DetectionConfig, error) {
	cfg := domain.DefaultDetectionConfig()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", s.filePath, err)
	}

	return cfg.Normalise(), nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
