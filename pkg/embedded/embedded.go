// Package embedded provides embedded static assets for the application.
package embedded

import (
	_ "embed"
)

// Presets is the default weight preset file, used when no PRESETS_PATH is configured
//
//go:embed presets.yaml
var Presets []byte
