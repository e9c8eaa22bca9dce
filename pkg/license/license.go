// Package license canonicalizes free-form license strings.
package license

import "strings"

// Normalize maps an arbitrary license string to its canonical short form.
//
//   - nil means the upstream reported no license at all: "UNKNOWN".
//   - A trimmed exact match against the known registry vocabulary is
//     returned unchanged.
//   - Anything longer than 20 characters that is not in the vocabulary is a
//     pasted license text or a made-up name: "Custom".
//   - Everything else is returned trimmed, including the empty string.
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(license *string) string {
	if license == nil {
		return "UNKNOWN"
	}
	trimmed := strings.TrimSpace(*license)
	if _, ok := vocabulary[trimmed]; ok {
		return trimmed
	}
	if len(trimmed) > 20 {
		return "Custom"
	}
	return trimmed
}

// FromClassifiers extracts short license names from a trove classifier list,
// stripping the "License ::" and "OSI Approved ::" prefixes. Returns nil
// when no license classifier is present.
func FromClassifiers(classifiers []string) []string {
	var out []string
	for _, c := range classifiers {
		if !strings.HasPrefix(c, "License") {
			continue
		}
		name := strings.TrimSpace(c)
		name = strings.Replace(name, "License ::", "", 1)
		name = strings.Replace(name, "OSI Approved :: ", "", 1)
		name = strings.TrimSpace(name)
		if name != "" && name != "OSI Approved" {
			out = append(out, name)
		}
	}
	return out
}
