package game

import "github.com/iamasit07/dropfour/internal/domain"

const (
	ErrSessionNotFound  domain.Error = "session not found"
	ErrBotTurn          domain.Error = "waiting for the bot to move"
	ErrGeometryMismatch domain.Error = "geometry does not match board dimensions"
	ErrUnknownBot       domain.Error = "unknown bot difficulty"
	ErrCorruptRecord    domain.Error = "archived board does not match its moves"
)
