package domain

import (
	"encoding/json"
	"fmt"
)

// Wire values of a Y/N flag.
const (
	FlagYes = "Y"
	FlagNo  = "N"
)

// Flag is a boolean that crosses the wire as the string "Y" or "N".
// Application code only ever sees the bool.
type Flag bool

// MarshalJSON encodes the flag as "Y" or "N".
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(BooleanToYN(bool(f)))
}

// UnmarshalJSON accepts exactly "Y" or "N". JSON null leaves the flag
// unchanged. Any other value, including lowercase or padded variants and
// JSON booleans, is rejected.
func (f *Flag) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("flag must be %q or %q: %w", FlagYes, FlagNo, err)
	}
	switch s {
	case FlagYes:
		*f = true
	case FlagNo:
		*f = false
	default:
		return fmt.Errorf("flag must be %q or %q, got %q", FlagYes, FlagNo, s)
	}
	return nil
}

// String returns the wire form of the flag.
func (f Flag) String() string {
	return BooleanToYN(bool(f))
}

// BooleanToYN converts a bool to its wire form.
func BooleanToYN(v bool) string {
	if v {
		return FlagYes
	}
	return FlagNo
}

// YNToBoolean converts a wire value to a bool. Only "Y" is true.
func YNToBoolean(s string) bool {
	return s == FlagYes
}

// IsYN reports whether s is one of the two wire values.
func IsYN(s string) bool {
	return s == FlagYes || s == FlagNo
}
