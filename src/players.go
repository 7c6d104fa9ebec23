package game

import (
	"encoding/json"
	"fmt"
	"sort"

	"starshunters-server/config"
)

// Direction is one of the eight compass headings, or DirNone for no movement.
type Direction string

const (
	DirNone      Direction = ""
	DirUp        Direction = "up"
	DirDown      Direction = "down"
	DirLeft      Direction = "left"
	DirRight     Direction = "right"
	DirUpLeft    Direction = "up-left"
	DirUpRight   Direction = "up-right"
	DirDownLeft  Direction = "down-left"
	DirDownRight Direction = "down-right"
)

// Valid reports whether d is a known heading or DirNone.
func (d Direction) Valid() bool {
	switch d {
	case DirNone, DirUp, DirDown, DirLeft, DirRight, DirUpLeft, DirUpRight, DirDownLeft, DirDownRight:
		return true
	}
	return false
}

// step returns the unit displacement for one tick. Diagonals are scaled so
// their length matches the axial step.
func (d Direction) step() (dx, dy float64) {
	const k = config.DiagonalFactor
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUpLeft:
		return -k, -k
	case DirUpRight:
		return k, -k
	case DirDownLeft:
		return -k, k
	case DirDownRight:
		return k, k
	}
	return 0, 0
}

func (d Direction) MarshalJSON() ([]byte, error) {
	if d == DirNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = DirNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = Direction(s)
	return nil
}

// Player is a ship bound to one session.
type Player struct {
	ID        int       `json:"id"`
	Session   string    `json:"-"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Team      int       `json:"team"`
	Score     int       `json:"puntuacion"`
	Direction Direction `json:"direction"`
	Angle     float64   `json:"angle"`
}

// Players is the player registry. Ids are monotonic and never reused.
type Players struct {
	players      map[int]*Player
	nextID       int
	matchRunning bool
}

func NewPlayers() *Players {
	return &Players{players: make(map[int]*Player)}
}

// Create registers a new player for session. It fails with ErrMatchInProgress
// while a match runs.
func (r *Players) Create(session string, cfg Config) (*Player, error) {
	if r.matchRunning {
		return nil, fmt.Errorf("cannot join: %w", ErrMatchInProgress)
	}

	id := r.nextID
	r.nextID++

	team0, team1 := r.teamCounts()
	team := 0
	if team0 > team1 {
		team = 1
	}

	x, y := cornerFor(id, cfg)
	p := &Player{ID: id, Session: session, X: x, Y: y, Team: team}
	r.players[id] = p
	return p, nil
}

// Remove deletes a player. It reports false if the id was unknown.
func (r *Players) Remove(id int) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	return true
}

func (r *Players) Get(id int) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// All returns the players ordered by id.
func (r *Players) All() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Players) Count() int {
	return len(r.players)
}

// UpdateDirection records movement intent for the next tick. It is a no-op
// when the id is unknown or no match is running.
func (r *Players) UpdateDirection(id int, dir Direction, angle *float64) bool {
	if !r.matchRunning {
		return false
	}
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.Direction = dir
	if angle != nil {
		p.Angle = *angle
	}
	return true
}

// IncrementScore adds one point and returns the new score, or 0 for an unknown id.
func (r *Players) IncrementScore(id int) int {
	p, ok := r.players[id]
	if !ok {
		return 0
	}
	p.Score++
	return p.Score
}

// Reset zeroes scores, clears movement intent and puts every ship back on its corner.
func (r *Players) Reset(cfg Config) {
	for _, p := range r.players {
		p.Score = 0
		p.Direction = DirNone
		p.Angle = 0
		p.X, p.Y = cornerFor(p.ID, cfg)
	}
}

func (r *Players) CheckWin(id, scoreLimit int) bool {
	p, ok := r.players[id]
	return ok && p.Score >= scoreLimit
}

// TeamScores sums player scores per team.
func (r *Players) TeamScores() [2]int {
	var totals [2]int
	for _, p := range r.players {
		totals[p.Team&1] += p.Score
	}
	return totals
}

func (r *Players) teamCounts() (team0, team1 int) {
	for _, p := range r.players {
		if p.Team == 0 {
			team0++
		} else {
			team1++
		}
	}
	return team0, team1
}

func (r *Players) setMatchRunning(running bool) {
	r.matchRunning = running
}

// cornerFor places ids on the four arena corners in a fixed rotation:
// top-left, bottom-right, top-right, bottom-left. A fifth concurrent player
// shares a corner with the first.
func cornerFor(id int, cfg Config) (x, y float64) {
	right := float64(cfg.Width - config.ShipExtent)
	bottom := float64(cfg.Height - config.ShipExtent)
	switch id % 4 {
	case 1:
		return right, bottom
	case 2:
		return right, 0
	case 3:
		return 0, bottom
	}
	return 0, 0
}
