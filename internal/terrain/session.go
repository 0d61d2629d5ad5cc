package terrain

import (
	"strconv"

	"terrafill/internal/core"
)

// Session is a config under interactive tuning together with its most
// recent bake. Edits mark the session dirty and the next Tile call rebakes.
type Session struct {
	cfg   Config
	tile  *Tile
	err   error
	dirty bool
}

// NewSession starts a session for cfg. Nothing is baked until Tile is called.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, dirty: true}
}

// Name identifies the session's producer.
func (s *Session) Name() string { return s.cfg.Producer }

// Config returns the current config.
func (s *Session) Config() Config { return s.cfg }

// Dirty reports whether the config changed since the last bake.
func (s *Session) Dirty() bool { return s.dirty }

// Parameters implements the HUD parameter provider.
func (s *Session) Parameters() core.ParameterSnapshot { return s.cfg.Parameters() }

// ParameterControls implements core.ParameterControlsProvider.
func (s *Session) ParameterControls() []core.ParameterControl { return ParameterControls() }

// SetIntParameter implements core.IntParameterSetter.
func (s *Session) SetIntParameter(key string, value int) bool {
	return s.set(key, strconv.Itoa(value))
}

// SetFloatParameter implements core.FloatParameterSetter.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	return s.set(key, strconv.FormatFloat(value, 'g', -1, 64))
}

// Reseed switches to a new seed.
func (s *Session) Reseed(seed int64) {
	if seed != s.cfg.Seed {
		s.cfg.Seed = seed
		s.dirty = true
	}
}

// set applies a single key through FromMap so the usual validation runs. It
// reports false for unknown keys, rejected values and no-op edits.
func (s *Session) set(key, value string) bool {
	m := s.cfg.Map()
	if _, ok := m[key]; !ok {
		return false
	}
	m[key] = value
	next := FromMap(m)
	if next == s.cfg {
		return false
	}
	s.cfg = next
	s.dirty = true
	return true
}

// Tile returns the bake for the current config, rebaking when dirty.
func (s *Session) Tile() (*Tile, error) {
	if s.dirty {
		s.tile, s.err = Bake(s.cfg)
		s.dirty = false
	}
	return s.tile, s.err
}
