// Package identity derives deterministic fingerprints from a block's semantic
// payload. The fingerprint stands in for an explicit id so that re-parsing
// unchanged text yields the same block identity every time, keeping editor
// render keys stable.
//
// This is a fingerprint, not a cryptographic hash: rare collisions degrade to
// duplicate ids and are an accepted trade-off.
package identity

import (
	"encoding/json"
	"strconv"
)

// payload is the canonical shape fed to the hash. Field order is fixed;
// encoding/json sorts map keys, so the encoded form is fully deterministic.
type payload struct {
	Type    string                 `json:"type"`
	Content map[string]interface{} `json:"content"`
	Config  map[string]interface{} `json:"config"`
}

// Fingerprint returns the stable id derived from a block's type, content, and
// config. Regions and any explicit id are deliberately excluded: identity
// follows the block's own payload, not its children.
func Fingerprint(blockType string, content, config map[string]interface{}) string {
	if content == nil {
		content = map[string]interface{}{}
	}
	if config == nil {
		config = map[string]interface{}{}
	}

	encoded, err := json.Marshal(payload{
		Type:    blockType,
		Content: content,
		Config:  config,
	})
	if err != nil {
		// Maps of scalars always encode; a non-encodable value is a caller
		// contract violation. Fall back to hashing the type alone rather
		// than panicking inside a pure function.
		encoded = []byte(blockType)
	}

	return hash32(encoded)
}

// hash32 applies a 31-multiplier rolling hash with wrapping 32-bit signed
// arithmetic, then renders the absolute value in base-36.
func hash32(data []byte) string {
	var h int32
	for _, b := range data {
		h = h*31 + int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
