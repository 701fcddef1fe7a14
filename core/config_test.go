package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, 512, cfg.MaxChunkSize)
	assert.Equal(t, 0.7, cfg.DenseWeight)
	assert.Equal(t, 0.3, cfg.SparseWeight)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		issues int
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
			issues: 0,
		},
		{
			name:   "weights do not sum to one",
			mutate: func(c *Config) { c.DenseWeight = 0.7; c.SparseWeight = 0.5 },
			issues: 1,
		},
		{
			name:   "negative weight",
			mutate: func(c *Config) { c.DenseWeight = 1.3; c.SparseWeight = -0.3 },
			issues: 1,
		},
		{
			name:   "min not below max",
			mutate: func(c *Config) { c.MinChunkSize = 512 },
			issues: 1,
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.SimilarityThreshold = 1.5 },
			issues: 1,
		},
		{
			name:   "zero max results",
			mutate: func(c *Config) { c.MaxResults = 0 },
			issues: 1,
		},
		{
			name:   "zero history capacity",
			mutate: func(c *Config) { c.MaxDecisionHistory = 0 },
			issues: 1,
		},
		{
			name: "multiple violations reported together",
			mutate: func(c *Config) {
				c.DenseWeight = 0.9
				c.SimilarityThreshold = -1
				c.MaxResults = 0
			},
			issues: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			issues := cfg.Validate()
			assert.Len(t, issues, tt.issues)
			for _, err := range issues {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
