package driven

import (
	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

// ConfigStore loads the detection configuration from wherever it is
// persisted. Implementations return a fully-normalised config: every
// field valid, missing values filled with defaults.
type ConfigStore interface {
	// Load reads and normalises the configuration. A missing source
	// yields the defaults, not an error.
	Load() (domain.DetectionConfig, error)

	// Path returns where the configuration is read from.
	Path() string
}
