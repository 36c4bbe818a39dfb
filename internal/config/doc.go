// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

/*
Package config loads application configuration with koanf v2.

Precedence, lowest to highest:

 1. Built-in defaults (defaultConfig)
 2. YAML config file (config.yaml, or FEED_CONFIG_PATH)
 3. FEED_-prefixed environment variables

All ranking parameters live under feed.* and are injected into the
engine at construction. Changing a weight is a config change, not a
code change:

	feed:
	  scoring:
	    recency_weight: 0.3
	  diversity:
	    author_window: 3
	    type_window: 2

	FEED_SERVER__PORT=9090 FEED_STORE__IN_MEMORY=true ./feedengine
*/
package config
