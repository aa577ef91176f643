// Package decoder decodes fence payloads into semantic block bodies.
//
// A fence body is a YAML mapping with reserved top-level keys: id, type,
// content, and config. Content and config are kept as opaque generic mappings
// at this layer; interpreting them per block type is the job of downstream
// consumers. Unrecognized top-level keys are preserved opaquely so that
// round-trips do not drop author data.
package decoder

import (
	"fmt"

	"gopkg.in/yaml.v3"

	blockerrors "github.com/sparktype/blockdown/internal/errors"
)

// Body is the decoded semantic payload of one fence.
type Body struct {
	// ID is the explicit block id, empty when the body carries none
	ID string
	// Type is the namespaced block kind, empty when the body carries none
	Type string
	// Content is the semantic payload mapping, never nil
	Content map[string]interface{}
	// Config is the presentation mapping, never nil
	Config map[string]interface{}
	// Extra holds any other top-level keys, nil when there are none
	Extra map[string]interface{}
}

// Decode parses a fence payload into a Body. line is the 1-based source line
// of the fence opener, attached to decode errors for reporting. An empty
// payload decodes to an empty body.
func Decode(payload string, line int) (Body, error) {
	body := Body{
		Content: map[string]interface{}{},
		Config:  map[string]interface{}{},
	}

	if payload == "" {
		return body, nil
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(payload), &raw); err != nil {
		return Body{}, blockerrors.MalformedBlockBody(line, err)
	}

	for key, value := range raw {
		switch key {
		case "id":
			s, err := stringValue(key, value)
			if err != nil {
				return Body{}, blockerrors.MalformedBlockBody(line, err)
			}
			body.ID = s
		case "type":
			s, err := stringValue(key, value)
			if err != nil {
				return Body{}, blockerrors.MalformedBlockBody(line, err)
			}
			body.Type = s
		case "content":
			m, err := mappingValue(key, value)
			if err != nil {
				return Body{}, blockerrors.MalformedBlockBody(line, err)
			}
			body.Content = m
		case "config":
			m, err := mappingValue(key, value)
			if err != nil {
				return Body{}, blockerrors.MalformedBlockBody(line, err)
			}
			body.Config = m
		default:
			if body.Extra == nil {
				body.Extra = map[string]interface{}{}
			}
			body.Extra[key] = value
		}
	}

	return body, nil
}

// stringValue coerces a reserved scalar key to its string form.
func stringValue(key string, value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("key %q must be a string, got %T", key, value)
	}
}

// mappingValue coerces a reserved mapping key to a generic string-keyed map.
func mappingValue(key string, value interface{}) (map[string]interface{}, error) {
	switch v := value.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return v, nil
	default:
		return nil, fmt.Errorf("key %q must be a mapping, got %T", key, value)
	}
}
