package game

import (
	"fmt"

	"starshunters-server/config"
)

// Config is the admin-controlled arena and win-condition setup.
type Config struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	ScoreLimit int `json:"scoreLimit"`
	TimeLimit  int `json:"timeLimit"` // seconds, 0 = unlimited
}

// DefaultConfig returns the configuration active at process start.
func DefaultConfig() Config {
	return Config{
		Width:      config.MinWidth,
		Height:     config.MinHeight,
		ScoreLimit: config.DefaultScoreLimit,
		TimeLimit:  config.DefaultTimeLimit,
	}
}

// Validate checks every bound and reports the first violation.
func (c Config) Validate() error {
	switch {
	case c.Width < config.MinWidth || c.Width > config.MaxWidth:
		return fmt.Errorf("%w: width %d outside [%d, %d]", ErrInvalidConfig, c.Width, config.MinWidth, config.MaxWidth)
	case c.Height < config.MinHeight || c.Height > config.MaxHeight:
		return fmt.Errorf("%w: height %d outside [%d, %d]", ErrInvalidConfig, c.Height, config.MinHeight, config.MaxHeight)
	case c.ScoreLimit < config.MinScoreLimit || c.ScoreLimit > config.MaxScoreLimit:
		return fmt.Errorf("%w: scoreLimit %d outside [%d, %d]", ErrInvalidConfig, c.ScoreLimit, config.MinScoreLimit, config.MaxScoreLimit)
	case c.TimeLimit != 0 && (c.TimeLimit < config.MinTimeLimit || c.TimeLimit > config.MaxTimeLimit):
		return fmt.Errorf("%w: timeLimit %d must be 0 or within [%d, %d]", ErrInvalidConfig, c.TimeLimit, config.MinTimeLimit, config.MaxTimeLimit)
	}
	return nil
}

// ConfigStore holds the active Config. Broadcasting changes is the caller's job.
type ConfigStore struct {
	current Config
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{current: DefaultConfig()}
}

// Get returns a copy of the active configuration.
func (s *ConfigStore) Get() Config {
	return s.current
}

// Update replaces the active configuration if candidate passes validation.
// On failure the prior configuration stays in place.
func (s *ConfigStore) Update(candidate Config) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	s.current = candidate
	return nil
}
