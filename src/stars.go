package game

import (
	"math/rand"
	"time"

	"starshunters-server/config"
)

// Star is a collectible worth one point.
type Star struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// StarListener is told about timer-driven star turnover.
type StarListener interface {
	StarExpired(id int)
	StarsChanged()
}

// StarSwap is the result of collecting a star: the star that left the field
// and the one spawned in its place.
type StarSwap struct {
	Removed     Star
	Replacement Star
}

// Stars keeps MaxStars collectibles on the field, each with its own expiry timer.
type Stars struct {
	clock    Clock
	rng      *rand.Rand
	config   func() Config
	listener StarListener

	stars  []*Star
	timers map[int]Timer
	nextID int
}

func NewStars(clock Clock, rng *rand.Rand, cfg func() Config, listener StarListener) *Stars {
	return &Stars{
		clock:    clock,
		rng:      rng,
		config:   cfg,
		listener: listener,
		timers:   make(map[int]Timer),
		nextID:   1,
	}
}

// Initialize drops every star and timer and spawns a fresh field.
func (s *Stars) Initialize() {
	s.ClearTimers()
	s.stars = s.stars[:0]
	for i := 0; i < config.MaxStars; i++ {
		s.stars = append(s.stars, s.Generate())
	}
}

// Generate allocates a star at a random position and arms its expiry timer.
// The caller adds it to the field.
func (s *Stars) Generate() *Star {
	cfg := s.config()
	const margin = float64(config.StarSpawnMargin)

	star := &Star{
		ID: s.nextID,
		X:  margin + s.rng.Float64()*(float64(cfg.Width)-2*margin),
		Y:  margin + s.rng.Float64()*(float64(cfg.Height)-2*margin),
	}
	s.nextID++

	lifetime := config.StarMinLifetime + time.Duration(s.rng.Int63n(int64(config.StarLifetimeSpread)))
	s.ScheduleRespawn(star.ID, lifetime)
	return star
}

// ScheduleRespawn arms the expiry timer for id, replacing any earlier one.
// When it fires and the star is still on the field, the star is swapped for
// a new one and the listener is notified.
func (s *Stars) ScheduleRespawn(id int, lifetime time.Duration) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	if lifetime <= 0 {
		return
	}
	s.timers[id] = s.clock.AfterFunc(lifetime, func() {
		delete(s.timers, id)
		i := s.index(id)
		if i < 0 {
			return
		}
		s.stars = append(s.stars[:i], s.stars[i+1:]...)
		if s.listener != nil {
			s.listener.StarExpired(id)
		}
		s.stars = append(s.stars, s.Generate())
		if s.listener != nil {
			s.listener.StarsChanged()
		}
	})
}

// Remove takes a star off the field and spawns its replacement in the same
// step, so the count never dips. It reports false if id is not on the field.
func (s *Stars) Remove(id int) (StarSwap, bool) {
	i := s.index(id)
	if i < 0 {
		return StarSwap{}, false
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}

	removed := *s.stars[i]
	s.stars = append(s.stars[:i], s.stars[i+1:]...)

	replacement := s.Generate()
	s.stars = append(s.stars, replacement)
	return StarSwap{Removed: removed, Replacement: *replacement}, true
}

// EnsureCount tops the field up to MaxStars.
func (s *Stars) EnsureCount() {
	for len(s.stars) < config.MaxStars {
		s.stars = append(s.stars, s.Generate())
	}
}

// ClearTimers cancels every pending expiry. Stars stay on the field.
func (s *Stars) ClearTimers() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// All returns a snapshot of the field in spawn order.
func (s *Stars) All() []Star {
	out := make([]Star, len(s.stars))
	for i, st := range s.stars {
		out[i] = *st
	}
	return out
}

func (s *Stars) Get(id int) (*Star, bool) {
	if i := s.index(id); i >= 0 {
		return s.stars[i], true
	}
	return nil, false
}

func (s *Stars) Count() int {
	return len(s.stars)
}

func (s *Stars) pendingTimers() int {
	return len(s.timers)
}

func (s *Stars) index(id int) int {
	for i, st := range s.stars {
		if st.ID == id {
			return i
		}
	}
	return -1
}
