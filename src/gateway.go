package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// handleMessage decodes one frame and routes it. Nothing here closes the connection.
func (s *GameServer) handleMessage(id string, raw []byte) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	msg, err := DecodeInbound(raw)
	if err != nil {
		s.log.Printf("Dropping message from %s: %v", id, err)
		return
	}
	if err := s.dispatch(sess, msg); err != nil {
		s.reject(sess, err)
	}
}

func (s *GameServer) dispatch(sess *session, msg Inbound) error {
	switch m := msg.(type) {
	case AdminRequest:
		return s.handleAdmin(sess)
	case PlayerRequest:
		return s.handlePlayer(sess)
	case ConfigRequest:
		return s.handleConfig(sess, m)
	case StartRequest:
		return s.handleStart(sess)
	case StopRequest:
		return s.handleStop(sess)
	case DirectionUpdate:
		s.handleDirection(m)
		return nil
	case StarCollisionReport:
		s.handleStarCollision(m)
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnknownMessageType, msg)
}

// reject tells the sender why its request was refused, when the error class
// calls for a reply.
func (s *GameServer) reject(sess *session, err error) {
	s.log.Printf("Rejected request from %s: %v", sess.id, err)
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrInvalidConfig):
		s.send(sess, ErrorMessage{Type: TypeError, Message: err.Error()})
	case errors.Is(err, ErrPreconditionFailed):
		s.send(sess, NoticeMessage{Type: TypeNotice, Text: err.Error()})
	}
}

func (s *GameServer) requireAdmin(sess *session) error {
	if s.admin != sess.id {
		return fmt.Errorf("%w: admin privileges required", ErrPermissionDenied)
	}
	return nil
}

func (s *GameServer) handleAdmin(sess *session) error {
	if s.admin != "" && s.admin != sess.id {
		return fmt.Errorf("%w: an admin is already connected", ErrPermissionDenied)
	}
	s.admin = sess.id
	s.log.Printf("Session %s is now admin", sess.id)
	s.send(sess, newConfigMessage(s.config.Get()))
	return nil
}

func (s *GameServer) handlePlayer(sess *session) error {
	if sess.hasPlayer {
		return fmt.Errorf("%w: session already controls player %d", ErrPreconditionFailed, sess.playerID)
	}
	cfg := s.config.Get()
	p, err := s.players.Create(sess.id, cfg)
	if err != nil {
		return err
	}
	sess.playerID, sess.hasPlayer = p.ID, true
	s.log.Printf("New player %d (session %s) on team %d", p.ID, sess.id, p.Team)

	s.send(sess, newConnectedMessage(p.ID, cfg))
	s.broadcastState()
	return nil
}

func (s *GameServer) handleConfig(sess *session, m ConfigRequest) error {
	if err := s.requireAdmin(sess); err != nil {
		return err
	}
	if s.match.Running() {
		return fmt.Errorf("cannot reconfigure: %w", ErrMatchInProgress)
	}

	data := bytes.TrimSpace(m.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: missing data", ErrInvalidConfig)
	}
	cfg := s.config.Get()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := s.config.Update(cfg); err != nil {
		return err
	}
	s.log.Printf("Config updated: %+v", cfg)

	s.players.Reset(cfg)
	s.broadcast(newConfigMessage(cfg))
	s.broadcastState()
	return nil
}

func (s *GameServer) handleStart(sess *session) error {
	if err := s.requireAdmin(sess); err != nil {
		return err
	}
	if !s.match.Start() {
		return fmt.Errorf("cannot start: %w", ErrMatchInProgress)
	}
	return nil
}

func (s *GameServer) handleStop(sess *session) error {
	if err := s.requireAdmin(sess); err != nil {
		return err
	}
	if !s.match.Stop() {
		return fmt.Errorf("cannot stop: %w", ErrMatchNotRunning)
	}
	return nil
}

// handleDirection stores movement intent. Updates while stopped are ignored.
func (s *GameServer) handleDirection(m DirectionUpdate) {
	if !s.match.Running() {
		return
	}
	dir := m.Direction
	if !dir.Valid() {
		s.log.Printf("Unknown direction %q for player %d, treating as stop", dir, m.ID)
		dir = DirNone
	}
	s.players.UpdateDirection(m.ID, dir, m.Angle)
}

// handleStarCollision applies a client-reported pickup only if the server's
// own positions agree.
func (s *GameServer) handleStarCollision(m StarCollisionReport) {
	if !s.match.Running() {
		return
	}
	p, ok := s.players.Get(m.PlayerID)
	if !ok {
		return
	}
	star, ok := s.stars.Get(m.StarID)
	if !ok {
		return
	}
	if !DetectPlayerStarCollision(p, star) {
		s.log.Printf("Ignoring unverified pickup of star %d by player %d", m.StarID, m.PlayerID)
		return
	}
	s.match.HandleStarCollision(m.PlayerID, m.StarID)
}
