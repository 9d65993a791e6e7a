package engine

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-sequent/internal/ports"
)

// Config is the engine's declarative configuration: observability knobs
// and the solver strategy tag handed to knowledge base handles. It
// carries no rule content; rules are code.
type Config struct {
	// Version is the configuration schema version.
	Version string `yaml:"version" validate:"required"`
	// Solver selects the proof strategy for knowledge base handles.
	Solver string `yaml:"solver" validate:"required,oneof=coinductive-sld"`
	// Logging configures the run logger.
	Logging LoggingConfig `yaml:"logging"`
	// Suggestions configures registry lookup suggestions.
	Suggestions SuggestionsConfig `yaml:"suggestions"`
}

// LoggingConfig controls the structured logger attached to runs.
type LoggingConfig struct {
	// Level is the minimum level emitted. An empty level disables
	// logging entirely.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// SuggestionsConfig controls the registry's "did you mean" behavior.
type SuggestionsConfig struct {
	// MaxDistance is the largest edit distance a suggested name may
	// have.
	MaxDistance int `yaml:"max_distance" validate:"omitempty,min=1,max=16"`
	// MaxResults caps how many suggestions a lookup error carries.
	MaxResults int `yaml:"max_results" validate:"omitempty,min=1,max=10"`
}

// SolverConfiguration maps the configured strategy name onto the
// knowledge base contract's tag.
func (c *Config) SolverConfiguration() ports.SolverConfiguration {
	// Validation restricts Solver to the names handled here.
	return ports.SolverCoinductiveSLD
}

// RunOptions translates the configuration into options for NewRun.
// Logger construction errors degrade to a no-op logger rather than
// failing evaluation.
func (c *Config) RunOptions() []RunOption {
	if c.Logging.Level == "" {
		return nil
	}
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	logger, err := zapCfg.Build()
	if err != nil {
		return nil
	}
	return []RunOption{WithLogger(logger)}
}

// RegistryOptions translates the configuration into options for
// NewRegistry.
func (c *Config) RegistryOptions() []RegistryOption {
	if c.Suggestions.MaxDistance == 0 && c.Suggestions.MaxResults == 0 {
		return nil
	}
	maxDistance, maxResults := c.Suggestions.MaxDistance, c.Suggestions.MaxResults
	if maxDistance == 0 {
		maxDistance = 3
	}
	if maxResults == 0 {
		maxResults = 3
	}
	return []RegistryOption{WithSuggestionLimits(maxDistance, maxResults)}
}

// ConfigLoader parses, validates, and caches engine configuration.
// Identical documents, keyed by SHA256 of the raw bytes, are compiled
// once; concurrent loads of the same document are deduplicated with
// singleflight.
type ConfigLoader struct {
	validator *validator.Validate

	cache   map[string]*Config
	cacheMu sync.RWMutex
	sf      singleflight.Group
}

// NewConfigLoader creates a loader with an empty cache.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		validator: validator.New(),
		cache:     make(map[string]*Config),
	}
}

// LoadFromFile loads configuration from a YAML file.
func (l *ConfigLoader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ports.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return l.load(data)
}

// LoadFromReader loads configuration from any reader.
func (l *ConfigLoader) LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return l.load(data)
}

func (l *ConfigLoader) load(data []byte) (*Config, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	l.cacheMu.RLock()
	cached, ok := l.cache[key]
	l.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := l.sf.Do(key, func() (any, error) {
		config, err := l.parse(data)
		if err != nil {
			return nil, err
		}
		l.cacheMu.Lock()
		l.cache[key] = config
		l.cacheMu.Unlock()
		return config, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Config), nil
}

func (l *ConfigLoader) parse(data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	// Unknown fields are almost always typos; reject them.
	decoder.KnownFields(true)

	var config Config
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := l.validator.Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
