// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"testing"

	"github.com/neighborly-labs/feedengine/internal/models"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero recency decay", func(c *Config) { c.Scoring.RecencyDecayHours = 0 }},
		{"zero affinity saturation", func(c *Config) { c.Scoring.AffinitySaturation = 0 }},
		{"zero similarity cap", func(c *Config) { c.Scoring.SimilarityCap = 0 }},
		{"zero similarity window", func(c *Config) { c.Scoring.SimilarityWindow = 0 }},
		{"negative type weight", func(c *Config) { c.TypeWeights[models.PostRequest] = -1 }},
		{"zero interest cap", func(c *Config) { c.InterestMatch.Cap = 0 }},
		{"zero learning rate", func(c *Config) { c.Interests.LearningRate = 0 }},
		{"negative author window", func(c *Config) { c.Diversity.AuthorWindow = -1 }},
		{"zero gravity", func(c *Config) { c.Trending.Gravity = 0 }},
		{"zero age offset", func(c *Config) { c.Trending.AgeOffsetHours = 0 }},
		{"default page exceeds max", func(c *Config) { c.Limits.DefaultPageSize = 100 }},
		{"zero overfetch factor", func(c *Config) { c.Limits.OverfetchFactor = 0 }},
		{"zero max candidates", func(c *Config) { c.Limits.MaxCandidates = 0 }},
		{"enabled cache without ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"enabled cache without capacity", func(c *Config) { c.Cache.MaxEntries = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTypeWeightsFor(t *testing.T) {
	weights := DefaultConfig().TypeWeights

	if got := weights.For(models.PostSafetyAlert); got != 1.5 {
		t.Errorf("safety_alert weight = %v, want 1.5", got)
	}
	if got := weights.For(models.PostType("hologram")); got != 1.0 {
		t.Errorf("unknown type weight = %v, want 1.0", got)
	}
}

func TestInterestWeightFor(t *testing.T) {
	cfg := DefaultConfig().Interests

	if got := cfg.WeightFor(models.ActionShare); got != 1.0 {
		t.Errorf("share weight = %v, want 1.0", got)
	}
	if got := cfg.WeightFor("levitate"); got != 0 {
		t.Errorf("unknown action weight = %v, want 0", got)
	}
}

func TestConfigClone(t *testing.T) {
	orig := DefaultConfig()
	clone := orig.Clone()

	clone.TypeWeights[models.PostRequest] = 9.9
	clone.Interests.ActionWeights[models.ActionView] = 9.9
	clone.Scoring.RecencyWeight = 9.9

	if orig.TypeWeights[models.PostRequest] == 9.9 {
		t.Error("clone shares the type weight table")
	}
	if orig.Interests.ActionWeights[models.ActionView] == 9.9 {
		t.Error("clone shares the action weight table")
	}
	if orig.Scoring.RecencyWeight == 9.9 {
		t.Error("clone shares scalar fields")
	}
}
