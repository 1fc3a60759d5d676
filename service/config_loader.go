package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
)

// DetectorSelection narrows the detectors of one run from the command line
type DetectorSelection struct {
	// Select runs only the named detectors when non-empty
	Select []string

	// Disable turns the named detectors off
	Disable []string
}

// ConfigurationLoaderImpl loads configuration files and applies command line overrides
type ConfigurationLoaderImpl struct {
	logger *zap.Logger
}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader(logger *zap.Logger) *ConfigurationLoaderImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationLoaderImpl{logger: logger}
}

// LoadConfig loads the configuration at path, or discovers one from target when path is empty
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads a discovered configuration, falling back to the built-in one
func (c *ConfigurationLoaderImpl) LoadDefaultConfig(target string) *config.Config {
	cfg, err := config.LoadConfigWithTarget("", target)
	if err == nil {
		return cfg
	}
	c.logger.Warn("ignoring unreadable configuration", zap.Error(err))
	return config.DefaultConfig()
}

// DetectorConfig folds a configuration and a selection into the detector
// configuration of one run. Unknown names in the selection are logged and ignored.
func (c *ConfigurationLoaderImpl) DetectorConfig(cfg *config.Config, sel DetectorSelection, known []string) domain.DetectorConfig {
	dc := cfg.DetectorConfig()

	isKnown := make(map[string]bool, len(known))
	for _, name := range known {
		isKnown[name] = true
	}
	check := func(flag string, names []string) []string {
		var valid []string
		for _, name := range normalizeNames(names) {
			if isKnown[name] {
				valid = append(valid, name)
				continue
			}
			msg := fmt.Sprintf("unknown detector %q in --%s", name, flag)
			if s := config.Suggest(name, known); s != "" {
				msg += fmt.Sprintf(", did you mean %q?", s)
			}
			c.logger.Warn("ignoring detector selection", zap.Error(domain.NewConfigError(msg, nil)))
		}
		return valid
	}

	selected := check("select", sel.Select)
	if len(sel.Select) > 0 {
		chosen := make(map[string]bool, len(selected))
		for _, name := range selected {
			chosen[name] = true
		}
		for _, name := range known {
			setEnabled(dc, name, chosen[name])
		}
	}
	for _, name := range check("disable", sel.Disable) {
		setEnabled(dc, name, false)
	}
	return dc
}

func setEnabled(dc domain.DetectorConfig, name string, enabled bool) {
	s := dc[name]
	s.Enabled = domain.BoolPtr(enabled)
	dc[name] = s
}

// normalizeNames splits comma separated values and trims them
func normalizeNames(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
