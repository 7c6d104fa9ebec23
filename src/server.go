package game

import (
	"context"
	"log"
	"math/rand"
	"time"
)

// Conn is the outbound half of a client connection.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Options configures a GameServer. Zero values select production defaults.
type Options struct {
	Clock        Clock
	Rand         *rand.Rand
	Logger       *log.Logger
	MessageRate  float64 // inbound frames per second per connection, 0 = unlimited
	MessageBurst int
}

type session struct {
	id        string
	conn      Conn
	playerID  int
	hasPlayer bool
}

// GameServer owns every piece of match state. All mutation happens on the
// goroutine running Run; other goroutines reach it through post and Do.
type GameServer struct {
	inbox   chan func()
	done    chan struct{}
	log     *log.Logger
	clock   Clock
	started time.Time

	messageRate  float64
	messageBurst int

	config  *ConfigStore
	players *Players
	stars   *Stars
	match   *Match

	sessions map[string]*session
	admin    string
}

// NewGameServer creates a stopped match with the default configuration.
func NewGameServer(opts Options) *GameServer {
	s := &GameServer{
		inbox:        make(chan func(), 256),
		done:         make(chan struct{}),
		log:          opts.Logger,
		clock:        opts.Clock,
		started:      time.Now(),
		messageRate:  opts.MessageRate,
		messageBurst: opts.MessageBurst,
		config:       NewConfigStore(),
		players:      NewPlayers(),
		sessions:     make(map[string]*session),
	}
	if s.log == nil {
		s.log = log.Default()
	}
	if s.clock == nil {
		s.clock = loopClock{post: s.post}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.stars = NewStars(s.clock, rng, s.config.Get, s)
	s.match = NewMatch(s.config, s.players, s.stars, s.clock, s)
	return s
}

// Run processes queued work until ctx is done. A running match is stopped
// on exit so no timers outlive the loop.
func (s *GameServer) Run(ctx context.Context) {
	s.log.Println("Game loop started")
	defer close(s.done)
	for {
		select {
		case f := <-s.inbox:
			f()
		case <-ctx.Done():
			s.match.Stop()
			s.log.Println("Game loop stopped")
			return
		}
	}
}

func (s *GameServer) post(f func()) bool {
	select {
	case s.inbox <- f:
		return true
	case <-s.done:
		return false
	}
}

// Do runs f on the game loop and waits for it to finish.
func (s *GameServer) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !s.post(func() {
		f()
		close(finished)
	}) {
		return ErrServerStopped
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrServerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect registers a new session. It is safe to call from any goroutine.
func (s *GameServer) Connect(sessionID string, conn Conn) {
	s.post(func() { s.connect(sessionID, conn) })
}

// HandleMessage queues one raw client frame for processing.
func (s *GameServer) HandleMessage(sessionID string, raw []byte) {
	s.post(func() { s.handleMessage(sessionID, raw) })
}

// Disconnect releases whatever the session held.
func (s *GameServer) Disconnect(sessionID string) {
	s.post(func() { s.disconnect(sessionID) })
}

func (s *GameServer) connect(id string, conn Conn) {
	sess := &session{id: id, conn: conn}
	s.sessions[id] = sess
	s.log.Printf("Client %s connected (%d sessions)", id, len(s.sessions))

	s.send(sess, newConfigMessage(s.config.Get()))
	if s.match.Running() {
		s.send(sess, SignalMessage{Type: TypeStarted})
		if r := s.match.RemainingTime(); r != nil {
			s.send(sess, TimeUpdateMessage{Type: TypeTimeUpdate, Remaining: *r})
		}
	}
}

func (s *GameServer) disconnect(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	sess.conn.Close()

	if s.admin == id {
		s.admin = ""
		s.log.Printf("Admin %s disconnected", id)
	}
	if sess.hasPlayer {
		s.players.Remove(sess.playerID)
		s.log.Printf("Player %d (session %s) disconnected", sess.playerID, id)
		s.broadcastState()
		return
	}
	s.log.Printf("Client %s disconnected", id)
}

func (s *GameServer) send(sess *session, msg Outbound) {
	b, err := Encode(msg)
	if err != nil {
		s.log.Printf("Error encoding message: %v", err)
		return
	}
	if err := sess.conn.Send(b); err != nil {
		s.log.Printf("Send to %s failed: %v", sess.id, err)
	}
}

func (s *GameServer) broadcast(msg Outbound) {
	b, err := Encode(msg)
	if err != nil {
		s.log.Printf("Error encoding message: %v", err)
		return
	}
	for _, sess := range s.sessions {
		if err := sess.conn.Send(b); err != nil {
			s.log.Printf("Send to %s failed: %v", sess.id, err)
		}
	}
}

func (s *GameServer) broadcastState() {
	s.broadcast(newStateMessage(s.players.All(), s.stars.All(), s.players.TeamScores()))
}

// ---------- Match and star events ----------

func (s *GameServer) MatchStarted() {
	s.log.Printf("Match started with %d players", s.players.Count())
	s.broadcast(SignalMessage{Type: TypeStarted})
	if r := s.match.RemainingTime(); r != nil {
		s.broadcast(TimeUpdateMessage{Type: TypeTimeUpdate, Remaining: *r})
	}
	s.broadcastState()
}

func (s *GameServer) MatchTicked() {
	s.broadcastState()
}

func (s *GameServer) StarCollected(playerID, starID, score int, replacement Star) {
	s.broadcast(StarCollisionMessage{
		Type:        TypeStarCollision,
		PlayerID:    playerID,
		StarID:      starID,
		Score:       score,
		Replacement: replacement,
	})
}

func (s *GameServer) PlayerWon(playerID, score int) {
	s.log.Printf("Player %d wins with %d points", playerID, score)
	s.broadcast(WinnerMessage{Type: TypeWinner, ID: playerID, Score: score})
}

func (s *GameServer) TimeUpdated(remaining int) {
	s.broadcast(TimeUpdateMessage{Type: TypeTimeUpdate, Remaining: remaining})
}

func (s *GameServer) TimeExpired(result TimeResult) {
	if result.Tie {
		s.log.Printf("Time up: tie at %d points", result.MaxScore)
	} else {
		s.log.Printf("Time up: player %d leads with %d points", *result.WinnerID, result.MaxScore)
	}
	s.broadcast(newTimeUpMessage(result))
}

func (s *GameServer) MatchStopped() {
	s.log.Println("Match stopped")
	s.broadcast(SignalMessage{Type: TypeStopped})
}

func (s *GameServer) StarExpired(id int) {
	s.broadcast(StarDisappearMessage{Type: TypeStarDisappear, StarID: id})
}

func (s *GameServer) StarsChanged() {
	s.broadcastState()
}

// ---------- Status ----------

// Status is a point-in-time view of the server for health and metrics endpoints.
type Status struct {
	Timestamp     time.Time
	Uptime        time.Duration
	Sessions      int
	AdminBound    bool
	Players       int
	Stars         int
	Running       bool
	RemainingTime *int
	Ticks         uint64
	Config        Config
}

// Status collects a snapshot on the game loop.
func (s *GameServer) Status(ctx context.Context) (Status, error) {
	var st Status
	err := s.Do(ctx, func() { st = s.status() })
	return st, err
}

func (s *GameServer) status() Status {
	now := time.Now()
	return Status{
		Timestamp:     now,
		Uptime:        now.Sub(s.started),
		Sessions:      len(s.sessions),
		AdminBound:    s.admin != "",
		Players:       s.players.Count(),
		Stars:         s.stars.Count(),
		Running:       s.match.Running(),
		RemainingTime: s.match.RemainingTime(),
		Ticks:         s.match.Ticks(),
		Config:        s.config.Get(),
	}
}
