package environment

import (
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Snapshot is a read-only copy of the environment taken once at startup.
// It is threaded through the pipeline instead of reading os.Getenv ad hoc.
type Snapshot struct {
	values map[string]string
}

// FromEnviron builds a Snapshot from KEY=VALUE pairs (os.Environ format).
func FromEnviron(environ []string) Snapshot {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return Snapshot{values: values}
}

// FromMap builds a Snapshot from a map; the map is copied.
func FromMap(m map[string]string) Snapshot {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Snapshot{values: values}
}

// WithDotenv fills in values from a .env file. Variables already present
// in the snapshot win, like godotenv.Load.
func (s Snapshot) WithDotenv(path string) (Snapshot, error) {
	fileValues, err := godotenv.Read(path)
	if err != nil {
		return s, err
	}
	merged := s.clone()
	for k, v := range fileValues {
		if _, exists := merged.values[k]; !exists {
			merged.values[k] = v
		}
	}
	return merged, nil
}

// WithOverrides returns a copy where every non-empty override replaces the
// snapshot value.
func (s Snapshot) WithOverrides(overrides map[string]string) Snapshot {
	merged := s.clone()
	for k, v := range overrides {
		if v != "" {
			merged.values[k] = v
		}
	}
	return merged
}

// Get returns the value of a variable, "" when unset
func (s Snapshot) Get(name string) string {
	return s.values[name]
}

// Lookup returns the value and whether it is set
func (s Snapshot) Lookup(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Environ renders the snapshot in os.Environ format, sorted by name.
func (s Snapshot) Environ() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+s.values[k])
	}
	return env
}

func (s Snapshot) clone() Snapshot {
	return FromMap(s.values)
}
