// Package i18n manages translation bundles keyed by locale, and the active locale.
package i18n

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Bundle maps message keys to message templates for one locale.
// Nested keys are joined with dots.
type Bundle map[string]string

// ParseBundle decodes a YAML document into a Bundle.
// Nested mappings are flattened, so
//
//	counter:
//	  label: Clicks
//
// yields the key "counter.label".
func ParseBundle(data []byte) (Bundle, error) {
	doc := map[string]any{}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}

	bundle := Bundle{}

	if err := flatten(bundle, "", doc); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}

	return bundle, nil
}

func flatten(bundle Bundle, prefix string, doc map[string]any) error {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch v := v.(type) {
		case map[string]any:
			if err := flatten(bundle, key, v); err != nil {
				return err
			}

		case string:
			bundle[key] = v

		case int, float64, bool:
			bundle[key] = fmt.Sprint(v)

		default:
			return fmt.Errorf("key %q: unsupported value of type %T", key, v)
		}
	}

	return nil
}

// Merge returns a new bundle with the messages of b, overridden by the messages of other.
func (b Bundle) Merge(other Bundle) Bundle {
	merged := make(Bundle, len(b)+len(other))

	for k, v := range b {
		merged[k] = v
	}

	for k, v := range other {
		merged[k] = v
	}

	return merged
}
