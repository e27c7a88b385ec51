package settings

import "errors"

// Settings errors.
var (
	// ErrUnknownKey indicates a key outside the registry.
	ErrUnknownKey = errors.New("unknown settings key")

	// ErrWrongKind indicates a value whose type does not match its key.
	ErrWrongKind = errors.New("settings value has wrong kind")

	// ErrNilValue indicates an attempt to store a nil value.
	ErrNilValue = errors.New("cannot store nil settings value")
)

// Provider looks up configuration values.
// Get returns false when no value is configured for key.
type Provider interface {
	Get(key Key) (any, bool)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(key Key) (any, bool)

// Get implements Provider.
func (f ProviderFunc) Get(key Key) (any, bool) { return f(key) }

// Bool returns the bool stored under key.
// The second result is false when the value is absent or not a bool.
func Bool(p Provider, key Key) (bool, bool) {
	v, ok := lookup(p, key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Int returns the int stored under key.
// The second result is false when the value is absent or not an int.
func Int(p Provider, key Key) (int, bool) {
	v, ok := lookup(p, key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// String returns the string stored under key.
// The second result is false when the value is absent or not a string.
func String(p Provider, key Key) (string, bool) {
	v, ok := lookup(p, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// BoolOr returns the bool stored under key, or def when absent.
func BoolOr(p Provider, key Key, def bool) bool {
	if b, ok := Bool(p, key); ok {
		return b
	}
	return def
}

// IntOr returns the int stored under key, or def when absent.
func IntOr(p Provider, key Key, def int) int {
	if i, ok := Int(p, key); ok {
		return i
	}
	return def
}

// StringOr returns the string stored under key, or def when absent.
func StringOr(p Provider, key Key, def string) string {
	if s, ok := String(p, key); ok {
		return s
	}
	return def
}

func lookup(p Provider, key Key) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Layered returns a Provider that consults providers in order; the first hit wins.
func Layered(providers ...Provider) Provider {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return ProviderFunc(func(key Key) (any, bool) {
		for _, p := range ps {
			if v, ok := lookup(p, key); ok {
				return v, true
			}
		}
		return nil, false
	})
}

// Defaults returns a Provider serving each key's documented default.
func Defaults() Provider {
	return ProviderFunc(func(key Key) (any, bool) { return key.Default() })
}

// WithDefaults layers the documented defaults under p.
func WithDefaults(p Provider) Provider { return Layered(p, Defaults()) }
