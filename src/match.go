package game

import (
	"starshunters-server/config"
)

// MatchListener receives match events in the order they happen. Every call
// is made on the game loop.
type MatchListener interface {
	MatchStarted()
	MatchTicked()
	StarCollected(playerID, starID, score int, replacement Star)
	PlayerWon(playerID, score int)
	TimeUpdated(remaining int)
	TimeExpired(result TimeResult)
	MatchStopped()
}

// TimeResult is the outcome of a match that ran out of time.
type TimeResult struct {
	Tie      bool
	WinnerID *int
	MaxScore int
}

// Match drives the Stopped/Running state machine and the fixed-rate simulation.
type Match struct {
	config   *ConfigStore
	players  *Players
	stars    *Stars
	clock    Clock
	listener MatchListener

	running   bool
	remaining int
	ticker    Timer
	countdown Timer
	announcer Timer
	ticks     uint64
}

func NewMatch(cfg *ConfigStore, players *Players, stars *Stars, clock Clock, listener MatchListener) *Match {
	return &Match{
		config:   cfg,
		players:  players,
		stars:    stars,
		clock:    clock,
		listener: listener,
	}
}

func (m *Match) Running() bool {
	return m.running
}

// RemainingTime returns the seconds left, or nil when the match is stopped
// or has no time limit.
func (m *Match) RemainingTime() *int {
	if !m.running || m.countdown == nil {
		return nil
	}
	r := m.remaining
	return &r
}

// Ticks counts simulation steps since process start.
func (m *Match) Ticks() uint64 {
	return m.ticks
}

// Start resets the field and arms the simulation. It reports false if a
// match is already running.
func (m *Match) Start() bool {
	if m.running {
		return false
	}

	cfg := m.config.Get()
	m.players.Reset(cfg)
	m.stars.Initialize()
	m.running = true
	m.players.setMatchRunning(true)

	if cfg.TimeLimit > 0 {
		m.remaining = cfg.TimeLimit
		m.countdown = every(m.clock, config.CountdownInterval, m.countDown)
		m.announcer = every(m.clock, config.TimeBroadcastInterval, func() {
			m.listener.TimeUpdated(m.remaining)
		})
	}
	m.ticker = every(m.clock, config.TickInterval, m.Tick)

	m.listener.MatchStarted()
	return true
}

// Stop cancels every match timer, including star expiries. It reports false
// if no match is running.
func (m *Match) Stop() bool {
	if !m.running {
		return false
	}

	m.running = false
	m.players.setMatchRunning(false)
	m.stopClock()
	stopTimer(m.ticker)
	m.ticker = nil
	m.stars.ClearTimers()

	m.listener.MatchStopped()
	return true
}

func (m *Match) stopClock() {
	stopTimer(m.countdown)
	stopTimer(m.announcer)
	m.countdown, m.announcer = nil, nil
}

func (m *Match) countDown() {
	m.remaining--
	if m.remaining <= 0 {
		m.remaining = 0
		m.stopClock()
		m.DetermineResultByTime()
	}
}

// Tick advances every ship one step, resolves pickups and publishes the new
// state. A pickup that ends the match stops processing for the rest of the tick.
func (m *Match) Tick() {
	if !m.running {
		return
	}
	m.ticks++
	cfg := m.config.Get()

players:
	for _, p := range m.players.All() {
		if p.Direction != DirNone {
			dx, dy := p.Direction.step()
			x := p.X + dx*config.MoveStep
			y := p.Y + dy*config.MoveStep
			if IsValidMove(x, y, cfg) {
				p.X, p.Y = x, y
			}
		}

		for _, star := range m.stars.All() {
			if !DetectPlayerStarCollision(p, &star) {
				continue
			}
			m.HandleStarCollision(p.ID, star.ID)
			if !m.running {
				break players
			}
		}
	}

	if m.running {
		m.stars.EnsureCount()
	}
	m.listener.MatchTicked()
}

// HandleStarCollision awards a pickup. It reports false when the match is
// stopped or either id is gone, which happens when two pickups race.
func (m *Match) HandleStarCollision(playerID, starID int) bool {
	if !m.running {
		return false
	}
	if _, ok := m.players.Get(playerID); !ok {
		return false
	}
	swap, ok := m.stars.Remove(starID)
	if !ok {
		return false
	}

	score := m.players.IncrementScore(playerID)
	m.listener.StarCollected(playerID, starID, score, swap.Replacement)

	if m.players.CheckWin(playerID, m.config.Get().ScoreLimit) {
		m.listener.PlayerWon(playerID, score)
		m.Stop()
	}
	return true
}

// DetermineResultByTime picks the leader when the clock runs out and stops
// the match. Any score equal to the running maximum marks a tie; only a
// strictly greater score clears it. An empty arena is a tie at zero.
func (m *Match) DetermineResultByTime() TimeResult {
	var (
		best     *Player
		maxScore = -1
		tie      bool
	)
	for _, p := range m.players.All() {
		switch {
		case p.Score > maxScore:
			best, maxScore, tie = p, p.Score, false
		case p.Score == maxScore:
			tie = true
		}
	}

	var result TimeResult
	switch {
	case best == nil:
		result = TimeResult{Tie: true, MaxScore: 0}
	case tie:
		result = TimeResult{Tie: true, MaxScore: maxScore}
	default:
		id := best.ID
		result = TimeResult{WinnerID: &id, MaxScore: maxScore}
	}

	m.listener.TimeExpired(result)
	if result.WinnerID != nil {
		m.listener.PlayerWon(*result.WinnerID, result.MaxScore)
	}
	m.Stop()
	return result
}
