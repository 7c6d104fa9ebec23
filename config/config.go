package config

import "time"

// Arena scale and object sizes, in pixels.
const (
	Scale      = 4
	MoveStep   = Scale     // Per-axis displacement per tick
	ShipSize   = 4 * Scale // Ship hitbox edge used for star pickup
	StarSize   = 2 * Scale // Star hitbox edge
	ShipExtent = 8 * Scale // Rendered ship footprint, used for arena bounds and corner spawns
)

// MaxStars is the number of stars kept on the field while a match runs.
const MaxStars = 8

// Arena dimension bounds.
const (
	MinWidth  = 40 * ShipSize
	MaxWidth  = 2 * MinWidth
	MinHeight = 30 * ShipSize
	MaxHeight = 2 * MinHeight
)

// Win condition bounds. A time limit of 0 means the match has no clock.
const (
	MinScoreLimit = 1
	MaxScoreLimit = 50
	MinTimeLimit  = 30
	MaxTimeLimit  = 600
)

// Defaults applied at process start.
const (
	DefaultScoreLimit = 10
	DefaultTimeLimit  = 0
)

// Simulation timing.
const (
	TickInterval          = 100 * time.Millisecond
	CountdownInterval     = time.Second
	TimeBroadcastInterval = 5 * time.Second
)

// Star lifetime is drawn uniformly from [StarMinLifetime, StarMinLifetime+StarLifetimeSpread).
const (
	StarMinLifetime    = 15 * time.Second
	StarLifetimeSpread = 30 * time.Second
	StarSpawnMargin    = 2 * StarSize
)

// DiagonalFactor keeps diagonal speed equal to axial speed (1/√2).
const DiagonalFactor = 0.7071067811865476
