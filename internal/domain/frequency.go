package domain

import (
	"strings"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// Frequency is how often a plant wants water.
type Frequency string

const (
	// FrequencyFrequent means every 2 days.
	FrequencyFrequent Frequency = "FREQUENT"
	// FrequencyMedium means every 5 days.
	FrequencyMedium Frequency = "MEDIUM"
	// FrequencyRare means every 10 days.
	FrequencyRare Frequency = "RARE"
)

// Frequencies lists every valid frequency in ascending interval order.
var Frequencies = []Frequency{FrequencyFrequent, FrequencyMedium, FrequencyRare}

// Days returns the watering interval in days. Unknown values return 0.
func (f Frequency) Days() int {
	switch f {
	case FrequencyFrequent:
		return 2
	case FrequencyMedium:
		return 5
	case FrequencyRare:
		return 10
	default:
		return 0
	}
}

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	return f.Days() > 0
}

// String implements fmt.Stringer.
func (f Frequency) String() string {
	return string(f)
}

// ParseFrequency parses a frequency name, ignoring case and surrounding space.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", domainerrors.InvalidInputf("unknown watering frequency %q", s)
	}
	return f, nil
}
