package domain

import (
	"bytes"
	"encoding/json"
)

// Flag is an optional boolean. FlagUnset means the caller never chose a value,
// so the consuming rule falls back to configuration or its own default.
type Flag uint8

const (
	// FlagUnset means no value has been chosen.
	FlagUnset Flag = iota

	// FlagEnabled is an explicit true.
	FlagEnabled

	// FlagDisabled is an explicit false.
	FlagDisabled
)

// FlagOf converts b into an explicit flag.
func FlagOf(b bool) Flag {
	if b {
		return FlagEnabled
	}
	return FlagDisabled
}

// IsSet reports whether a value was chosen.
func (f Flag) IsSet() bool { return f == FlagEnabled || f == FlagDisabled }

// Enabled reports whether the flag is explicitly true.
func (f Flag) Enabled() bool { return f == FlagEnabled }

// Disabled reports whether the flag is explicitly false.
func (f Flag) Disabled() bool { return f == FlagDisabled }

// Or returns the flag's value, or def when unset.
func (f Flag) Or(def bool) bool {
	if !f.IsSet() {
		return def
	}
	return f == FlagEnabled
}

// String returns "true", "false" or "unset".
func (f Flag) String() string {
	switch f {
	case FlagEnabled:
		return "true"
	case FlagDisabled:
		return "false"
	default:
		return "unset"
	}
}

// MarshalJSON encodes the flag as true, false or null.
func (f Flag) MarshalJSON() ([]byte, error) {
	switch f {
	case FlagEnabled:
		return []byte("true"), nil
	case FlagDisabled:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes true, false or null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = FlagUnset
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = FlagOf(b)
	return nil
}
