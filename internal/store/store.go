// Package store provides the optional manual override store: a YAML map from
// normalized payee names to category identifiers, checked before historical
// scoring. The budget service stays the system of record, so the store is
// read-only; it is never written back.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/matcher"
)

// OverrideStore manages loading of the payee override file.
type OverrideStore struct {
	OverridesFile string

	overrides map[string]string
	logger    logging.Logger
}

// overridesConfig is the YAML shape of the override file.
type overridesConfig struct {
	Overrides map[string]string `yaml:"overrides"`
}

// NewOverrideStore creates a store backed by the given file. An empty
// filename yields an empty store.
func NewOverrideStore(overridesFile string, logger logging.Logger) *OverrideStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &OverrideStore{
		OverridesFile: overridesFile,
		overrides:     make(map[string]string),
		logger:        logger,
	}
}

// Load reads the override file. A missing file is not an error; a malformed
// one is.
func (s *OverrideStore) Load() error {
	if s.OverridesFile == "" {
		return nil
	}

	path, err := s.findConfigFile(s.OverridesFile)
	if err != nil {
		s.logger.WithField("file", s.OverridesFile).Debug("Override file not found, starting empty")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read overrides file: %w", err)
	}

	var cfg overridesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil || cfg.Overrides == nil {
		// tolerate the bare-map format without the top-level key
		direct := make(map[string]string)
		if err2 := yaml.Unmarshal(data, &direct); err2 != nil {
			return fmt.Errorf("could not parse overrides file: %w", err2)
		}
		cfg.Overrides = direct
	}

	s.overrides = make(map[string]string, len(cfg.Overrides))
	for payee, categoryID := range cfg.Overrides {
		s.overrides[matcher.Normalize(payee)] = categoryID
	}

	s.logger.WithField(logging.FieldCount, len(s.overrides)).Debug("Loaded payee overrides")
	return nil
}

// Lookup returns the category id configured for a payee name, if any. The
// name is normalized the same way lookup keys are.
func (s *OverrideStore) Lookup(payeeName string) (string, bool) {
	normalized := matcher.Normalize(payeeName)
	if normalized == "" {
		return "", false
	}
	categoryID, ok := s.overrides[normalized]
	return categoryID, ok
}

// Len returns the number of loaded overrides.
func (s *OverrideStore) Len() int {
	return len(s.overrides)
}

// findConfigFile looks for the file in standard locations.
func (s *OverrideStore) findConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "ynab-autocat", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}
