package stats

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store persists Stats as a flat YAML file
type Store struct {
	path string
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the stats file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the counters. A missing file yields zero counters. Unknown keys
// are ignored and a key that is not an unsigned integer reads as 0, so a
// damaged file never blocks startup.
func (s *Store) Load() (Stats, error) {
	var st Stats
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Printf("Stats: %s is unreadable, starting from zero: %v", s.path, err)
		return st, nil
	}

	v := reflect.ValueOf(&st).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		node, ok := doc[key]
		if !ok {
			continue
		}
		var n uint64
		if err := node.Decode(&n); err != nil {
			log.Printf("Stats: %s: %v, using 0", key, err)
			continue
		}
		v.Field(i).SetUint(n)
	}
	return st, nil
}

// Save writes the counters through a temporary file so a crash never leaves a
// truncated stats file behind
func (s *Store) Save(st Stats) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".stats-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write stats: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace stats: %w", err)
	}
	return nil
}
