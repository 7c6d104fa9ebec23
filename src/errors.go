package game

import (
	"errors"
	"fmt"
)

// Rejection classes. None of them closes the connection.
var (
	ErrProtocol           = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrServerStopped      = errors.New("game server stopped")

	ErrMatchInProgress = fmt.Errorf("%w: match in progress", ErrPreconditionFailed)
	ErrMatchNotRunning = fmt.Errorf("%w: match not running", ErrPreconditionFailed)
)
