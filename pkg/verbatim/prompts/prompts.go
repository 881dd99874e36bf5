// Package prompts holds the prompt template registry and the prompt-specific
// glue around matching: decoding obfuscated model output, and filtering
// matches that only reproduce text the prompt itself contained.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/cognicore/verbatim/pkg/verbatim/internalerr"
)

// Templates maps prompt IDs to prompt templates. Templates contain {key}
// placeholders filled from book metadata.
type Templates map[string]string

// LoadTemplates loads the template registry from a JSON file.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var t Templates
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// IDs returns the prompt IDs in sorted order, so iteration over a template
// registry is stable.
func (t Templates) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Fill substitutes {key} placeholders from values. A placeholder with no
// matching value reports internalerr.ErrMissingKey; callers skip such
// prompts for books whose metadata lacks the key.
func Fill(template string, values map[string]string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(template, func(ph string) string {
		key := ph[1 : len(ph)-1]
		val, ok := values[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return ph
		}
		return val
	})
	if missing != "" {
		return "", fmt.Errorf("template key %q: %w", missing, internalerr.ErrMissingKey)
	}
	return out, nil
}
