// SPDX-License-Identifier: Unlicense OR MIT

// Package config holds the tunable constants of gesture recognition
// and drag feedback. Tuning is read from a YAML or TOML file and
// environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"arkgesture.org/unit"
)

// Tuning is the set of gesture and drag constants.
type Tuning struct {
	// LongPress is the hold duration of a plain long press and of the
	// drag long press.
	LongPress Duration `yaml:"long_press" toml:"long_press"`
	// Preview is the hold duration after which the drag preview shows.
	Preview Duration `yaml:"preview" toml:"preview"`
	// ThumbnailLead is how long before the preview deadline the
	// thumbnail is prepared.
	ThumbnailLead Duration `yaml:"thumbnail_lead" toml:"thumbnail_lead"`
	Slop          unit.Vp  `yaml:"slop" toml:"slop"`

	PanDistance      unit.Vp `yaml:"pan_distance" toml:"pan_distance"`
	MousePanDistance unit.Vp `yaml:"mouse_pan_distance" toml:"mouse_pan_distance"`

	PreviewScale float32  `yaml:"preview_scale" toml:"preview_scale"`
	BorderRadius unit.Vp  `yaml:"border_radius" toml:"border_radius"`
	BlurRadius   float32  `yaml:"blur_radius" toml:"blur_radius"`
	ShowDuration Duration `yaml:"show_duration" toml:"show_duration"`
	HideDuration Duration `yaml:"hide_duration" toml:"hide_duration"`
	// SnapshotTimeout bounds asynchronous preview captures.
	SnapshotTimeout Duration `yaml:"snapshot_timeout" toml:"snapshot_timeout"`

	// PxPerVp is the display density.
	PxPerVp float32 `yaml:"px_per_vp" toml:"px_per_vp"`
}

// Duration is a time.Duration written as text, such as "500ms".
type Duration time.Duration

// ErrUnknownFormat is returned for files that are neither YAML nor
// TOML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// EnvPrefix prefixes the environment overrides, for example
// ARKGESTURE_LONG_PRESS=600ms.
const EnvPrefix = "ARKGESTURE_"

const (
	minDuration = time.Millisecond
	maxDuration = 10 * time.Second
)

// tracer traces with key 'arkgesture.config'.
func tracer() tracing.Trace {
	return tracing.Select("arkgesture.config")
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		LongPress:        Duration(500 * time.Millisecond),
		Preview:          Duration(800 * time.Millisecond),
		ThumbnailLead:    Duration(80 * time.Millisecond),
		Slop:             15,
		PanDistance:      5,
		MousePanDistance: 5,
		PreviewScale:     1.05,
		BorderRadius:     8,
		BlurRadius:       10,
		ShowDuration:     Duration(300 * time.Millisecond),
		HideDuration:     Duration(150 * time.Millisecond),
		SnapshotTimeout:  Duration(time.Second),
		PxPerVp:          1,
	}
}

// Metric returns the unit conversion of the tuned density.
func (t Tuning) Metric() unit.Metric {
	return unit.Metric{PxPerVp: t.PxPerVp}
}

// DefaultPath returns the default tuning file path.
func DefaultPath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "arkgesture", "tuning.yaml")
}

// Load reads the tuning file at path on top of the defaults, applies
// the environment overrides and normalizes the result. A missing
// file is not an error.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		tracer().Infof("no tuning file at %s", path)
	case err != nil:
		return t, fmt.Errorf("config: %w", err)
	default:
		if err := t.decode(path, data); err != nil {
			return t, err
		}
	}
	if err := t.applyEnv(os.LookupEnv); err != nil {
		return t, err
	}
	t.Normalize()
	return t, nil
}

func (t *Tuning) decode(path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, t)
	case ".toml":
		err = toml.Unmarshal(data, t)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Save writes t to path in the format of its extension.
func Save(path string, t Tuning) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(t)
	case ".toml":
		data, err = toml.Marshal(t)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("marshaling tuning: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnv overrides fields from the environment. Keys are the YAML
// field names in upper case.
func (t *Tuning) applyEnv(lookup func(string) (string, bool)) error {
	durations := map[string]*Duration{
		"LONG_PRESS":       &t.LongPress,
		"PREVIEW":          &t.Preview,
		"THUMBNAIL_LEAD":   &t.ThumbnailLead,
		"SHOW_DURATION":    &t.ShowDuration,
		"HIDE_DURATION":    &t.HideDuration,
		"SNAPSHOT_TIMEOUT": &t.SnapshotTimeout,
	}
	for k, p := range durations {
		v, ok := lookup(EnvPrefix + k)
		if !ok {
			continue
		}
		if err := p.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
		}
	}
	floats := map[string]*float32{
		"SLOP":               (*float32)(&t.Slop),
		"PAN_DISTANCE":       (*float32)(&t.PanDistance),
		"MOUSE_PAN_DISTANCE": (*float32)(&t.MousePanDistance),
		"PREVIEW_SCALE":      &t.PreviewScale,
		"BORDER_RADIUS":      (*float32)(&t.BorderRadius),
		"BLUR_RADIUS":        &t.BlurRadius,
		"PX_PER_VP":          &t.PxPerVp,
	}
	for k, p := range floats {
		v, ok := lookup(EnvPrefix + k)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
		}
		*p = float32(f)
	}
	return nil
}

// Normalize replaces out of range values with their defaults or
// clamps them.
func (t *Tuning) Normalize() {
	def := Default()
	clampDuration := func(d *Duration, def Duration) {
		switch {
		case *d <= 0:
			*d = def
		case time.Duration(*d) < minDuration:
			*d = Duration(minDuration)
		case time.Duration(*d) > maxDuration:
			*d = Duration(maxDuration)
		}
	}
	clampDuration(&t.LongPress, def.LongPress)
	clampDuration(&t.Preview, def.Preview)
	clampDuration(&t.ShowDuration, def.ShowDuration)
	clampDuration(&t.HideDuration, def.HideDuration)
	clampDuration(&t.SnapshotTimeout, def.SnapshotTimeout)
	// The preview follows the drag long press.
	if t.Preview < t.LongPress {
		t.Preview = t.LongPress
	}
	if t.ThumbnailLead < 0 || t.ThumbnailLead > t.Preview {
		t.ThumbnailLead = def.ThumbnailLead
	}
	if t.Slop <= 0 {
		t.Slop = def.Slop
	}
	// A zero pan distance is valid and starts a drag at the press.
	if t.PanDistance < 0 {
		t.PanDistance = def.PanDistance
	}
	if t.MousePanDistance < 0 {
		t.MousePanDistance = def.MousePanDistance
	}
	if t.PreviewScale <= 0 {
		t.PreviewScale = def.PreviewScale
	}
	if t.BorderRadius < 0 {
		t.BorderRadius = 0
	}
	if t.BlurRadius < 0 {
		t.BlurRadius = 0
	}
	if t.PxPerVp <= 0 {
		t.PxPerVp = def.PxPerVp
	}
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a Go duration. A bare number is read as
// milliseconds.
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(ms * float64(time.Millisecond))
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	*d = Duration(v)
	return nil
}
