package room

import "errors"

// Sentinel errors whose text is shown to players verbatim.
var (
	ErrRoomNotFound   = errors.New("Room not found")
	ErrRoomFull       = errors.New("Room is full")
	ErrGameInProgress = errors.New("Game already in progress")
	ErrNotInGame      = errors.New("Not in a game")
	ErrNotYourTurn    = errors.New("Not your turn to pick")
	ErrOptionTaken    = errors.New("Option already taken")
	ErrInvalidOption  = errors.New("Option not found")
	ErrWrongPhase     = errors.New("Action not allowed in this phase")
	ErrEliminated     = errors.New("You have been eliminated")
)
