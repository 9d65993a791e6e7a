package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-sequent/internal/ports"
)

const validConfigYAML = `
version: "1.0"
solver: coinductive-sld
logging:
  level: debug
suggestions:
  max_distance: 2
  max_results: 5
`

// TestConfigLoader_Valid verifies parsing and validation of a complete
// document.
func TestConfigLoader_Valid(t *testing.T) {
	loader := NewConfigLoader()

	config, err := loader.LoadFromReader(strings.NewReader(validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, ports.SolverCoinductiveSLD, config.SolverConfiguration())
	assert.Equal(t, "debug", config.Logging.Level)
	assert.NotEmpty(t, config.RunOptions(), "a configured level should yield a logger option")
	assert.NotEmpty(t, config.RegistryOptions())
}

// TestConfigLoader_Invalid verifies rejection of malformed documents.
func TestConfigLoader_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing solver",
			yaml:    "version: \"1.0\"\n",
			wantErr: "validation failed",
		},
		{
			name:    "unknown solver strategy",
			yaml:    "version: \"1.0\"\nsolver: tabling\n",
			wantErr: "validation failed",
		},
		{
			name:    "unknown field",
			yaml:    "version: \"1.0\"\nsolver: coinductive-sld\nbogus: true\n",
			wantErr: "failed to parse",
		},
		{
			name:    "bad logging level",
			yaml:    "version: \"1.0\"\nsolver: coinductive-sld\nlogging:\n  level: loud\n",
			wantErr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewConfigLoader()
			_, err := loader.LoadFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestConfigLoader_Cache verifies that identical documents compile once.
func TestConfigLoader_Cache(t *testing.T) {
	loader := NewConfigLoader()

	first, err := loader.LoadFromReader(strings.NewReader(validConfigYAML))
	require.NoError(t, err)
	second, err := loader.LoadFromReader(strings.NewReader(validConfigYAML))
	require.NoError(t, err)

	assert.Same(t, first, second, "identical documents must hit the cache")
}

// TestConfigLoader_MissingFile verifies the sentinel for absent files.
func TestConfigLoader_MissingFile(t *testing.T) {
	loader := NewConfigLoader()

	_, err := loader.LoadFromFile("testdata/does-not-exist.yaml")
	assert.ErrorIs(t, err, ports.ErrConfigNotFound)
}
