package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message type discriminators.
const (
	TypeAdmin         = "admin"
	TypePlayer        = "player"
	TypeConfig        = "config"
	TypeStart         = "start"
	TypeStop          = "stop"
	TypeDirection     = "direccio"
	TypeStarCollision = "starCollision"

	TypeConnected     = "connectat"
	TypeStarted       = "engegar"
	TypeStopped       = "aturar"
	TypeState         = "dibuixar"
	TypeStarDisappear = "starDisappear"
	TypeTimeUpdate    = "timeUpdate"
	TypeTimeUp        = "timeUp"
	TypeWinner        = "ganador"
	TypeNotice        = "missatge"
	TypeError         = "error"
)

// Inbound is a decoded client message. The set of implementations is closed.
type Inbound interface {
	inbound()
}

type AdminRequest struct{}
type PlayerRequest struct{}
type StartRequest struct{}
type StopRequest struct{}

// ConfigRequest carries a possibly partial Config. Fields left out keep
// their current value.
type ConfigRequest struct {
	Data json.RawMessage `json:"data"`
}

type DirectionUpdate struct {
	ID        int       `json:"id"`
	Direction Direction `json:"direction"`
	Angle     *float64  `json:"angle,omitempty"`
}

// StarCollisionReport is a client's claim that a ship touched a star.
type StarCollisionReport struct {
	PlayerID int `json:"jugadorId"`
	StarID   int `json:"estrellaId"`
}

func (AdminRequest) inbound() {}
func (PlayerRequest) inbound() {}
func (StartRequest) inbound() {}
func (StopRequest) inbound() {}
func (ConfigRequest) inbound() {}
func (DirectionUpdate) inbound() {}
func (StarCollisionReport) inbound() {}

type envelope struct {
	Type string `json:"type"`
}

// DecodeInbound parses one client frame. Errors wrap ErrProtocol or
// ErrUnknownMessageType.
func DecodeInbound(b []byte) (Inbound, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrProtocol)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	switch env.Type {
	case TypeAdmin:
		return AdminRequest{}, nil
	case TypePlayer:
		return PlayerRequest{}, nil
	case TypeStart:
		return StartRequest{}, nil
	case TypeStop:
		return StopRequest{}, nil
	case TypeConfig:
		return decodeBody[ConfigRequest](env.Type, b)
	case TypeDirection:
		return decodeBody[DirectionUpdate](env.Type, b)
	case TypeStarCollision:
		return decodeBody[StarCollisionReport](env.Type, b)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
}

func decodeBody[T Inbound](t string, b []byte) (Inbound, error) {
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProtocol, t, err)
	}
	return out, nil
}

// Outbound is a server message ready to be encoded. The set of
// implementations is closed.
type Outbound interface {
	outbound()
}

type ConfigMessage struct {
	Type string `json:"type"`
	Data Config `json:"data"`
}

type ConnectedMessage struct {
	Type   string `json:"type"`
	ID     int    `json:"id"`
	Config Config `json:"config"`
}

// SignalMessage carries only a type: engegar and aturar.
type SignalMessage struct {
	Type string `json:"type"`
}

// StateMessage is the full-state snapshot sent every tick.
type StateMessage struct {
	Type    string    `json:"type"`
	Players []*Player `json:"jugadors"`
	Stars   []Star    `json:"pedres"`
	Points  [2]int    `json:"punts"`
}

type StarCollisionMessage struct {
	Type        string `json:"type"`
	PlayerID    int    `json:"jugadorId"`
	StarID      int    `json:"estrellaId"`
	Score       int    `json:"nuevaPuntuacion"`
	Replacement Star   `json:"nuevaEstrella"`
}

type StarDisappearMessage struct {
	Type   string `json:"type"`
	StarID int    `json:"estrellaId"`
}

type TimeUpdateMessage struct {
	Type      string `json:"type"`
	Remaining int    `json:"remainingTime"`
}

type TimeUpMessage struct {
	Type     string `json:"type"`
	Tie      bool   `json:"empate"`
	WinnerID *int   `json:"ganadorId,omitempty"`
	MaxScore int    `json:"maximaPuntuacion"`
}

type WinnerMessage struct {
	Type  string `json:"type"`
	ID    int    `json:"id"`
	Score int    `json:"puntuacion"`
}

type NoticeMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (ConfigMessage) outbound() {}
func (ConnectedMessage) outbound() {}
func (SignalMessage) outbound() {}
func (StateMessage) outbound() {}
func (StarCollisionMessage) outbound() {}
func (StarDisappearMessage) outbound() {}
func (TimeUpdateMessage) outbound() {}
func (TimeUpMessage) outbound() {}
func (WinnerMessage) outbound() {}
func (NoticeMessage) outbound() {}
func (ErrorMessage) outbound() {}

func newConfigMessage(cfg Config) ConfigMessage {
	return ConfigMessage{Type: TypeConfig, Data: cfg}
}

func newConnectedMessage(id int, cfg Config) ConnectedMessage {
	return ConnectedMessage{Type: TypeConnected, ID: id, Config: cfg}
}

func newStateMessage(players []*Player, stars []Star, points [2]int) StateMessage {
	return StateMessage{Type: TypeState, Players: players, Stars: stars, Points: points}
}

func newTimeUpMessage(r TimeResult) TimeUpMessage {
	return TimeUpMessage{Type: TypeTimeUp, Tie: r.Tie, WinnerID: r.WinnerID, MaxScore: r.MaxScore}
}

// Encode serializes an outbound message.
func Encode(msg Outbound) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	return b, nil
}
