package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	valid := Config{ConfigPaths: []string{"ninjagen.hcl"}, NinjaFile: "build.ninja", BuildDir: "_build"}

	testCases := []struct {
		name     string
		mutate   func(*Config)
		errParts []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "json logs", mutate: func(c *Config) { c.LogFormat = "json"; c.LogLevel = "warn" }},
		{
			name:     "no paths",
			mutate:   func(c *Config) { c.ConfigPaths = nil },
			errParts: []string{"at least one configuration path"},
		},
		{
			name: "every problem is reported",
			mutate: func(c *Config) {
				c.NinjaFile = ""
				c.BuildDir = ""
				c.LogFormat = "xml"
				c.LogLevel = "loud"
			},
			errParts: []string{"ninja file", "build directory", `invalid log format "xml"`, `invalid log level "loud"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)
			if len(tc.errParts) == 0 {
				require.NoError(t, err)
				assert.Equal(t, cfg, *got)
				return
			}
			require.Error(t, err)
			for _, part := range tc.errParts {
				assert.Contains(t, err.Error(), part)
			}
		})
	}
}
