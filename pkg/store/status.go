package store

import "strings"

// Status is the development-status maturity code for a release, derived from
// the registry's "Development Status" trove classifier. Zero means the
// registry reported nothing we recognize.
type Status int

const (
	StatusUnknown Status = iota
	StatusPlanning
	StatusPreAlpha
	StatusAlpha
	StatusBeta
	StatusStable
	StatusMature
	StatusInactive
)

var statusNames = map[Status]string{
	StatusUnknown:  "Unknown",
	StatusPlanning: "Planning",
	StatusPreAlpha: "Pre-Alpha",
	StatusAlpha:    "Alpha",
	StatusBeta:     "Beta",
	StatusStable:   "Stable",
	StatusMature:   "Mature",
	StatusInactive: "Inactive",
}

var statusClassifiers = map[string]Status{
	"Development Status :: 1 - Planning":          StatusPlanning,
	"Development Status :: 2 - Pre-Alpha":         StatusPreAlpha,
	"Development Status :: 3 - Alpha":             StatusAlpha,
	"Development Status :: 4 - Beta":              StatusBeta,
	"Development Status :: 5 - Production/Stable": StatusStable,
	"Development Status :: 6 - Mature":            StatusMature,
	"Development Status :: 7 - Inactive":          StatusInactive,
}

// String returns the short display name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

// StatusFromClassifier maps a "Development Status :: ..." trove classifier to
// its Status code. Unrecognized classifiers map to StatusUnknown.
func StatusFromClassifier(classifier string) Status {
	if s, ok := statusClassifiers[strings.TrimSpace(classifier)]; ok {
		return s
	}
	return StatusUnknown
}

// StatusFromClassifiers scans a classifier list and returns the status of the
// first "Development Status ::" entry, or StatusUnknown when none match.
func StatusFromClassifiers(classifiers []string) Status {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "Development Status") {
			return StatusFromClassifier(c)
		}
	}
	return StatusUnknown
}
