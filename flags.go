package dispatch

import (
	"strconv"
	"time"
)

// FlagSet provides typed access to the flags seen during one dispatch.
// Flags are recorded under their primary name regardless of which alias
// matched. Boolean flags store an empty value; value-taking flags store the
// raw value token.
type FlagSet struct {
	seen   map[string]string
	order  []string
	counts map[string]int
}

func newFlagSet() *FlagSet {
	return &FlagSet{seen: make(map[string]string), counts: make(map[string]int)}
}

func (f *FlagSet) record(name, value string) {
	if _, ok := f.seen[name]; !ok {
		f.order = append(f.order, name)
	}
	f.seen[name] = value
	f.counts[name]++
}

// Has returns true if the flag was present.
func (f *FlagSet) Has(name string) bool {
	_, ok := f.seen[name]
	return ok
}

// Count returns how many times the flag appeared. Repeated boolean flags
// accumulate; repeated value flags keep the last value.
func (f *FlagSet) Count(name string) int {
	return f.counts[name]
}

// Names returns the flag names in first-seen order.
func (f *FlagSet) Names() []string {
	return append([]string(nil), f.order...)
}

// String returns the value of a flag, or defaultVal if not present or the
// flag carried no value.
func (f *FlagSet) String(name, defaultVal string) string {
	v, ok := f.seen[name]
	if !ok || v == "" {
		return defaultVal
	}
	return v
}

// Int returns the integer value of a flag, or defaultVal if not present or
// invalid.
func (f *FlagSet) Int(name string, defaultVal int) int {
	str := f.String(name, "")
	if str == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	return n
}

// Duration returns the duration value of a flag, or defaultVal if not
// present or invalid.
func (f *FlagSet) Duration(name string, defaultVal time.Duration) time.Duration {
	str := f.String(name, "")
	if str == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
