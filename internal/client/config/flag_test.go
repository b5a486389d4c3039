package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
	}{
		{
			name:     "all flags",
			args:     []string{"-d", "x.db", "-g", "http://gw", "-l", "debug"},
			expected: &Config{DatabasePath: "x.db", GatewayURL: "http://gw", LogLevel: "debug"},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-v", "-d=y.db"},
			expected: &Config{DatabasePath: "y.db"},
		},
		{
			name:     "none",
			expected: &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			require.NoError(t, parseFlags(cfg, tt.args))
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
