package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Snapshot is an immutable set of configured values.
// All write operations return a new Snapshot; the receiver is never modified,
// so a Snapshot can be shared freely between goroutines.
type Snapshot struct {
	m map[Key]any
}

// EmptySnapshot returns a snapshot with no configured values.
func EmptySnapshot() *Snapshot { return &Snapshot{m: map[Key]any{}} }

// NewSnapshot creates a snapshot from values after checking every key and kind.
// The input map is copied.
func NewSnapshot(values map[Key]any) (*Snapshot, error) {
	m := make(map[Key]any, len(values))
	for k, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilValue, k)
		}
		if err := checkValue(k, v); err != nil {
			return nil, err
		}
		m[k] = v
	}
	return &Snapshot{m: m}, nil
}

// ParseSnapshot decodes string-encoded values, such as those held in a
// key/value store. Unregistered keys are skipped and returned so callers can
// report them.
func ParseSnapshot(raw map[string]string) (*Snapshot, []string, error) {
	m := make(map[Key]any, len(raw))
	var unknown []string
	for name, s := range raw {
		k := Key(name)
		if !k.IsKnown() {
			unknown = append(unknown, name)
			continue
		}
		v, err := Decode(k, s)
		if err != nil {
			return nil, unknown, err
		}
		m[k] = v
	}
	sort.Strings(unknown)
	return &Snapshot{m: m}, unknown, nil
}

// Get implements Provider.
func (s *Snapshot) Get(key Key) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.m[key]
	return v, ok
}

// With returns a new snapshot with key set to value.
func (s *Snapshot) With(key Key, value any) (*Snapshot, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilValue, key)
	}
	if err := checkValue(key, value); err != nil {
		return nil, err
	}
	m := make(map[Key]any, len(s.m)+1)
	maps.Copy(m, s.m)
	m[key] = value
	return &Snapshot{m: m}, nil
}

// Without returns a new snapshot without key.
func (s *Snapshot) Without(key Key) *Snapshot {
	m := make(map[Key]any, len(s.m))
	for k, v := range s.m {
		if k != key {
			m[k] = v
		}
	}
	return &Snapshot{m: m}
}

// Merge returns a new snapshot combining s and other; other wins on conflicts.
func (s *Snapshot) Merge(other *Snapshot) *Snapshot {
	m := make(map[Key]any, len(s.m)+len(other.m))
	maps.Copy(m, s.m)
	maps.Copy(m, other.m)
	return &Snapshot{m: m}
}

// Len returns the number of configured values.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// ToMap returns a copy of the configured values.
func (s *Snapshot) ToMap() map[Key]any {
	out := make(map[Key]any, len(s.m))
	maps.Copy(out, s.m)
	return out
}

// Encoded returns every value in the string form accepted by ParseSnapshot.
func (s *Snapshot) Encoded() map[string]string {
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[string(k)] = Encode(v)
	}
	return out
}

// MarshalJSON encodes the snapshot as a JSON object keyed by setting name.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.m)
}

// UnmarshalJSON decodes each value using its key's registered kind,
// so integers survive the round trip as int rather than float64.
// A null value leaves its key unset.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[Key]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m := make(map[Key]any, len(raw))
	for k, msg := range raw {
		kind, ok := k.Kind()
		if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		var err error
		switch kind {
		case KindBool:
			var b bool
			err = json.Unmarshal(msg, &b)
			m[k] = b
		case KindInt:
			var i int
			err = json.Unmarshal(msg, &i)
			m[k] = i
		case KindString:
			var str string
			err = json.Unmarshal(msg, &str)
			m[k] = str
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
	}
	s.m = m
	return nil
}

// Encode formats v for storage as a string.
func Encode(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Decode parses raw using key's registered kind.
func Decode(key Key, raw string) (any, error) {
	kind, ok := key.Kind()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWrongKind, key, err)
		}
		return b, nil
	case KindInt:
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWrongKind, key, err)
		}
		return i, nil
	default:
		return raw, nil
	}
}

// Store is a concurrency-safe mutable Provider backed by snapshots.
// Reads are lock-free; each write publishes a new Snapshot.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates a store holding initial, or an empty snapshot when nil.
func NewStore(initial *Snapshot) *Store {
	if initial == nil {
		initial = EmptySnapshot()
	}
	s := new(Store)
	s.cur.Store(initial)
	return s
}

// Get implements Provider.
func (s *Store) Get(key Key) (any, bool) { return s.cur.Load().Get(key) }

// Set stores value under key.
func (s *Store) Set(key Key, value any) error {
	for {
		old := s.cur.Load()
		next, err := old.With(key, value)
		if err != nil {
			return err
		}
		if s.cur.CompareAndSwap(old, next) {
			return nil
		}
	}
}

// Delete removes key; the store behaves as if it were never configured.
func (s *Store) Delete(key Key) {
	for {
		old := s.cur.Load()
		if s.cur.CompareAndSwap(old, old.Without(key)) {
			return
		}
	}
}

// Replace swaps in snap wholesale.
func (s *Store) Replace(snap *Snapshot) {
	if snap == nil {
		snap = EmptySnapshot()
	}
	s.cur.Store(snap)
}

// Snapshot returns the current immutable view.
func (s *Store) Snapshot() *Snapshot { return s.cur.Load() }
