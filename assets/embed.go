package assets

import _ "embed"

//go:embed capture.yaml
var captureYAML []byte

// DefaultCapture returns the built-in capture tables (regex patterns and
// per-language keyword sets) used when no external file is configured.
func DefaultCapture() []byte {
	return captureYAML
}
