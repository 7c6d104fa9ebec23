package game

import (
	"encoding/json"
	"errors"
	"testing"

	"starshunters-server/config"
)

func TestPlayersTeamBalance(t *testing.T) {
	for n := 1; n <= 9; n++ {
		r := NewPlayers()
		cfg := DefaultConfig()
		for i := 0; i < n; i++ {
			if _, err := r.Create("s", cfg); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		team0, team1 := r.teamCounts()
		if d := team0 - team1; d < 0 || d > 1 {
			t.Fatalf("after %d creations teams are %d/%d", n, team0, team1)
		}
	}
}

func TestPlayersTeamBalanceAfterRemoval(t *testing.T) {
	r := NewPlayers()
	cfg := DefaultConfig()
	a, _ := r.Create("a", cfg)
	b, _ := r.Create("b", cfg)
	if a.Team != 0 || b.Team != 1 {
		t.Fatalf("teams = %d,%d, want 0,1", a.Team, b.Team)
	}
	r.Remove(a.ID)
	c, _ := r.Create("c", cfg)
	if c.Team != 0 {
		t.Fatalf("replacement joined team %d, want 0", c.Team)
	}
}

func TestPlayersMonotonicIDs(t *testing.T) {
	r := NewPlayers()
	cfg := DefaultConfig()
	a, _ := r.Create("a", cfg)
	r.Remove(a.ID)
	b, _ := r.Create("b", cfg)
	if b.ID <= a.ID {
		t.Fatalf("id %d reused or decreased after %d", b.ID, a.ID)
	}
}

func TestPlayersCornerPlacement(t *testing.T) {
	r := NewPlayers()
	cfg := Config{Width: 800, Height: 600, ScoreLimit: 3}
	right := float64(800 - config.ShipExtent)
	bottom := float64(600 - config.ShipExtent)
	want := [][2]float64{{0, 0}, {right, bottom}, {right, 0}, {0, bottom}, {0, 0}}
	for i, w := range want {
		p, err := r.Create("s", cfg)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if p.X != w[0] || p.Y != w[1] {
			t.Fatalf("player %d at (%v,%v), want (%v,%v)", i, p.X, p.Y, w[0], w[1])
		}
		if !IsValidMove(p.X, p.Y, cfg) {
			t.Fatalf("player %d spawned out of bounds", i)
		}
	}
}

func TestPlayersCreateRejectedDuringMatch(t *testing.T) {
	r := NewPlayers()
	r.setMatchRunning(true)
	_, err := r.Create("s", DefaultConfig())
	if !errors.Is(err, ErrMatchInProgress) || !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("Create during match = %v, want ErrMatchInProgress", err)
	}
	if r.Count() != 0 {
		t.Fatalf("rejected create added a player")
	}
}

func TestPlayersUpdateDirection(t *testing.T) {
	r := NewPlayers()
	p, _ := r.Create("s", DefaultConfig())
	angle := 45.0

	if r.UpdateDirection(p.ID, DirRight, &angle) {
		t.Fatalf("direction accepted while stopped")
	}
	r.setMatchRunning(true)
	if r.UpdateDirection(99, DirRight, nil) {
		t.Fatalf("direction accepted for unknown id")
	}
	if !r.UpdateDirection(p.ID, DirRight, &angle) {
		t.Fatalf("direction rejected for running match")
	}
	if p.Direction != DirRight || p.Angle != 45 {
		t.Fatalf("got %q/%v, want right/45", p.Direction, p.Angle)
	}
	r.UpdateDirection(p.ID, DirNone, nil)
	if p.Direction != DirNone || p.Angle != 45 {
		t.Fatalf("nil angle should keep previous angle, got %q/%v", p.Direction, p.Angle)
	}
}

func TestPlayersScoreAndReset(t *testing.T) {
	r := NewPlayers()
	cfg := DefaultConfig()
	a, _ := r.Create("a", cfg)
	b, _ := r.Create("b", cfg)

	if got := r.IncrementScore(42); got != 0 {
		t.Fatalf("IncrementScore(unknown) = %d, want 0", got)
	}
	r.IncrementScore(a.ID)
	r.IncrementScore(a.ID)
	r.IncrementScore(b.ID)
	if r.CheckWin(a.ID, 3) {
		t.Fatalf("score 2 should not meet limit 3")
	}
	r.IncrementScore(a.ID)
	if !r.CheckWin(a.ID, 3) {
		t.Fatalf("score 3 should meet limit 3")
	}
	if r.CheckWin(42, 1) {
		t.Fatalf("unknown id cannot win")
	}
	if got := r.TeamScores(); got != [2]int{3, 1} {
		t.Fatalf("TeamScores = %v, want [3 1]", got)
	}

	a.X, a.Y, a.Direction = 123, 45, DirUp
	r.Reset(cfg)
	if a.Score != 0 || b.Score != 0 || a.Direction != DirNone {
		t.Fatalf("reset left state behind: %+v %+v", a, b)
	}
	if a.X != 0 || a.Y != 0 {
		t.Fatalf("reset did not restore corner: (%v,%v)", a.X, a.Y)
	}
}

func TestPlayersRemoveIdempotent(t *testing.T) {
	r := NewPlayers()
	p, _ := r.Create("s", DefaultConfig())
	if !r.Remove(p.ID) {
		t.Fatalf("first remove should report true")
	}
	if r.Remove(p.ID) {
		t.Fatalf("second remove should report false")
	}
}

func TestDirectionJSON(t *testing.T) {
	b, err := json.Marshal(Player{ID: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := raw["direction"]; !ok || v != nil {
		t.Fatalf("idle direction encoded as %v, want null", v)
	}

	var d Direction
	if err := json.Unmarshal([]byte(`"up-left"`), &d); err != nil || d != DirUpLeft {
		t.Fatalf("decode up-left = %q, %v", d, err)
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || d != DirNone {
		t.Fatalf("decode null = %q, %v", d, err)
	}
	if Direction("sideways").Valid() {
		t.Fatalf("unknown heading reported valid")
	}
}
