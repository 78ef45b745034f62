package domain

import (
	"strings"

	dErrors "nammasev/pkg/domain-errors"
)

// TrackingID is the public, immutable identifier of a complaint. It allows
// status lookup without authentication and is assigned exactly once at
// submission.
//
// Format: prefix, a dash, and an 8 character Crockford base32 suffix,
// e.g. "NMS-4QJ7X2RD". Lookups are case-insensitive; the canonical form is
// upper case.
type TrackingID string

// TrackingSuffixLength is the number of suffix characters after the prefix.
const TrackingSuffixLength = 8

// trackingAlphabet is Crockford base32: digits and upper-case letters minus
// the ambiguous I, L, O, U.
const trackingAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ParseTrackingID normalizes and validates external input. It accepts any
// case and returns the canonical upper-case form.
func ParseTrackingID(s string) (TrackingID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tracking id cannot be empty")
	}
	prefix, suffix, ok := strings.Cut(s, "-")
	if !ok || prefix == "" || len(suffix) != TrackingSuffixLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "malformed tracking id")
	}
	for _, r := range suffix {
		if !strings.ContainsRune(trackingAlphabet, r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "malformed tracking id")
		}
	}
	return TrackingID(s), nil
}

func (t TrackingID) String() string { return string(t) }

// TrackingAlphabet exposes the suffix alphabet for the generator.
func TrackingAlphabet() string { return trackingAlphabet }
