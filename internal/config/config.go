// Package config loads the engine configuration from a flat YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"autoscroll/internal/input"
	"autoscroll/internal/keys"
	"autoscroll/internal/scrollmath"
)

// DefaultUploadURL points at the community stats upload script
const DefaultUploadURL = "https://raw.githubusercontent.com/santarl/WinAutoScroll/refs/heads/main/upload_stats.ps1"

// TriggerMode selects how the trigger starts and stops scrolling
type TriggerMode int

const (
	// Hold scrolls while the trigger is held down
	Hold TriggerMode = iota
	// Toggle starts on one press and stops on the next
	Toggle
)

func (m TriggerMode) String() string {
	if m == Toggle {
		return "toggle"
	}
	return "hold"
}

// ParseTriggerMode parses "hold" or "toggle"
func ParseTriggerMode(v string) (TriggerMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "hold":
		return Hold, nil
	case "toggle":
		return Toggle, nil
	}
	return Hold, fmt.Errorf("unknown trigger mode %q", v)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (m *TriggerMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseTriggerMode(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (m TriggerMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Config is an immutable snapshot of every setting. A reload replaces the
// whole snapshot; fields are never mutated in place once published.
type Config struct {
	// Scroll output
	MinScroll       int     `yaml:"min_scroll"`
	MaxScroll       int     `yaml:"max_scroll"`
	Sensitivity     float64 `yaml:"sensitivity"`
	RampExponent    float64 `yaml:"ramp_exponent"`
	UpdateFrequency int     `yaml:"update_frequency"`

	// Triggers
	TriggerMode         TriggerMode  `yaml:"trigger_mode"`
	TriggerButton       input.Button `yaml:"trigger_button"`
	TriggerKey          keys.Code    `yaml:"trigger_key"`
	CancelKey           keys.Code    `yaml:"cancel_key"`
	MousePassthrough    bool         `yaml:"mouse_passthrough"`
	KeyboardPassthrough bool         `yaml:"keyboard_passthrough"`
	DragThreshold       int          `yaml:"drag_threshold"`

	// Dead zone
	DeadZoneShape    scrollmath.Shape `yaml:"dead_zone_shape"`
	DeadZone         int              `yaml:"dead_zone"`
	CrossThickness   int              `yaml:"cross_dead_zone_thickness"`
	NaturalScrolling bool             `yaml:"natural_scrolling"`
	EmulateTouchpad  bool             `yaml:"emulate_touchpad_scrolling"`

	// Indicator overlay
	ShowIndicator           bool             `yaml:"show_indicator"`
	IndicatorShape          scrollmath.Shape `yaml:"indicator_shape"`
	IndicatorSize           int              `yaml:"indicator_size"`
	IndicatorCrossThickness int              `yaml:"indicator_cross_thickness"`
	IndicatorColorR         uint8            `yaml:"indicator_color_r"`
	IndicatorColorG         uint8            `yaml:"indicator_color_g"`
	IndicatorColorB         uint8            `yaml:"indicator_color_b"`
	IndicatorColorA         uint8            `yaml:"indicator_color_a"`
	IndicatorThickness      float64          `yaml:"indicator_thickness"`
	IndicatorFilled         bool             `yaml:"indicator_filled"`

	// Usage statistics
	FunStats       bool   `yaml:"fun_stats"`
	StatsUploadURL string `yaml:"stats_upload_script_url"`
}

// DefaultConfig returns a new Config with the stock settings
func DefaultConfig() *Config {
	return &Config{
		MinScroll:       1,
		MaxScroll:       1000,
		Sensitivity:     0.01,
		RampExponent:    4.0,
		UpdateFrequency: 60,

		TriggerMode:         Hold,
		TriggerButton:       input.ButtonMiddle,
		TriggerKey:          keys.None,
		CancelKey:           keys.Escape,
		MousePassthrough:    true,
		KeyboardPassthrough: true,
		DragThreshold:       40,

		DeadZoneShape:  scrollmath.ShapeCross,
		DeadZone:       1,
		CrossThickness: 10,

		ShowIndicator:           true,
		IndicatorShape:          scrollmath.ShapeCircle,
		IndicatorSize:           25,
		IndicatorCrossThickness: 10,
		IndicatorColorR:         100,
		IndicatorColorG:         100,
		IndicatorColorB:         100,
		IndicatorColorA:         180,
		IndicatorThickness:      1.5,

		FunStats:       true,
		StatsUploadURL: DefaultUploadURL,
	}
}

// ScrollParams extracts the inputs of the scroll math
func (c *Config) ScrollParams() scrollmath.Params {
	return scrollmath.Params{
		MinScroll:      c.MinScroll,
		MaxScroll:      c.MaxScroll,
		Sensitivity:    c.Sensitivity,
		RampExponent:   c.RampExponent,
		DeadZoneShape:  c.DeadZoneShape,
		DeadZone:       c.DeadZone,
		CrossThickness: c.CrossThickness,
		Touchpad:       c.EmulateTouchpad,
	}
}

// SampleInterval is the sampler period. A non-positive frequency means 60 Hz.
func (c *Config) SampleInterval() time.Duration {
	freq := c.UpdateFrequency
	if freq <= 0 {
		freq = 60
	}
	ms := 1000 / freq
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Indicator describes how the overlay draws the scroll anchor
type Indicator struct {
	Shape          scrollmath.Shape
	Size           int
	CrossThickness int
	R, G, B, A     uint8
	Thickness      float64
	Filled         bool
}

// Indicator extracts the overlay settings
func (c *Config) Indicator() Indicator {
	return Indicator{
		Shape:          c.IndicatorShape,
		Size:           c.IndicatorSize,
		CrossThickness: c.IndicatorCrossThickness,
		R:              c.IndicatorColorR,
		G:              c.IndicatorColorG,
		B:              c.IndicatorColorB,
		A:              c.IndicatorColorA,
		Thickness:      c.IndicatorThickness,
		Filled:         c.IndicatorFilled,
	}
}

// Manager owns the config file and publishes snapshots lock-free
type Manager struct {
	mu        sync.Mutex // serializes Load and WriteDefault
	path      string
	current   atomic.Pointer[Config]
	onChanged func(*Config)
}

// NewManager creates a manager for path. An empty path selects the per-user
// default location.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	m := &Manager{path: path}
	m.current.Store(DefaultConfig())
	return m, nil
}

// DefaultDir returns the per-user application directory, creating it if needed
func DefaultDir() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		dir = filepath.Join(appData, "autoscroll")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", "autoscroll")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "autoscroll")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the config file location
func (m *Manager) Path() string {
	return m.path
}

// Dir returns the directory holding the config file
func (m *Manager) Dir() string {
	return filepath.Dir(m.path)
}

// Get returns the current snapshot. Callers must not modify it.
func (m *Manager) Get() *Config {
	return m.current.Load()
}

// RegisterChangeCallback registers a function called after every Load that
// publishes a snapshot
func (m *Manager) RegisterChangeCallback(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// Load re-reads the file. A missing file keeps the current snapshot. A file
// that is not a YAML mapping keeps the current snapshot and returns an error.
// Otherwise every field that fails to decode or validate keeps its previous
// value, the rest are applied, and the field errors are returned joined.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config: %s not found, keeping current settings", m.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	prev := m.current.Load()
	next, err := decode(data, prev)
	if next == prev {
		return err
	}

	m.current.Store(next)
	log.Printf("Config: loaded %s", m.path)
	if m.onChanged != nil {
		m.onChanged(next)
	}
	return err
}

// WriteDefault writes the stock configuration if no file exists yet. It
// reports whether a file was created.
func (m *Manager) WriteDefault() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	body, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return false, err
	}
	data := append([]byte(fileHeader), body...)

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return false, err
	}
	log.Printf("Config: writing default configuration to %s", m.path)
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

const fileHeader = `# autoscroll settings. Use "Reload Config" from the tray menu after editing.
# trigger_button: none, middle, x1, x2
# trigger_key / cancel_key: key name (F13, CAPSLOCK, ESC) or code (0x7C), none to disable
# dead_zone_shape, indicator_shape: circle, square, cross
`

// fieldKeys maps each yaml key to its Config field index
var fieldKeys = func() map[string]int {
	t := reflect.TypeOf(Config{})
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		out[key] = i
	}
	return out
}()

// decode overlays the keys present in data onto a copy of prev. It returns
// prev itself when data is not a mapping.
func decode(data []byte, prev *Config) (*Config, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return prev, fmt.Errorf("parse config: %w", err)
	}

	next := *prev
	v := reflect.ValueOf(&next).Elem()
	var errs []error

	for key, node := range doc {
		idx, ok := fieldKeys[key]
		if !ok {
			log.Printf("Config: ignoring unknown key %q", key)
			continue
		}
		if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
			continue
		}
		field := reflect.New(v.Field(idx).Type())
		if err := node.Decode(field.Interface()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		v.Field(idx).Set(field.Elem())
	}

	errs = append(errs, validate(&next, prev)...)
	return &next, errors.Join(errs...)
}

// validate restores previous values for settings that decoded but make no sense
func validate(next, prev *Config) []error {
	var errs []error
	if next.MinScroll < 0 {
		errs = append(errs, fmt.Errorf("min_scroll: %d is negative", next.MinScroll))
		next.MinScroll = prev.MinScroll
	}
	if next.MinScroll > next.MaxScroll {
		errs = append(errs, fmt.Errorf("min_scroll %d exceeds max_scroll %d", next.MinScroll, next.MaxScroll))
		next.MinScroll, next.MaxScroll = prev.MinScroll, prev.MaxScroll
	}
	if next.Sensitivity < 0 || math.IsNaN(next.Sensitivity) {
		errs = append(errs, fmt.Errorf("sensitivity: %v is not a non-negative number", next.Sensitivity))
		next.Sensitivity = prev.Sensitivity
	}
	if math.IsNaN(next.RampExponent) {
		errs = append(errs, errors.New("ramp_exponent: NaN"))
		next.RampExponent = prev.RampExponent
	}
	if next.DragThreshold < 0 {
		errs = append(errs, fmt.Errorf("drag_threshold: %d is negative", next.DragThreshold))
		next.DragThreshold = prev.DragThreshold
	}
	return errs
}
