/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomAlreadyPlaying = errors.New("room is already playing")
	ErrAlreadyInRoom      = errors.New("already in a room")
	ErrInvalidSettings    = errors.New("invalid room settings")
	ErrNoRoomCodes        = errors.New("no room codes available")

	ErrGameNotStarted      = errors.New("game has not started")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidLength       = errors.New("word length out of bounds")
	ErrNotInDictionary     = errors.New("word is not in the dictionary")
	ErrAlreadyUsed         = errors.New("word has already been used")
	ErrWrongStartingLetter = errors.New("word starts with the wrong letter")

	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("too many messages")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrRoomNotFound, "room_not_found"},
	{ErrRoomFull, "room_full"},
	{ErrRoomAlreadyPlaying, "room_already_playing"},
	{ErrAlreadyInRoom, "already_in_room"},
	{ErrInvalidSettings, "invalid_settings"},
	{ErrNoRoomCodes, "no_room_codes"},
	{ErrGameNotStarted, "game_not_started"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrInvalidLength, "invalid_length"},
	{ErrNotInDictionary, "not_in_dictionary"},
	{ErrAlreadyUsed, "already_used"},
	{ErrWrongStartingLetter, "wrong_starting_letter"},
	{ErrBadRequest, "bad_request"},
	{ErrRateLimited, "rate_limited"},
}

// ErrorCode maps err onto the stable identifier sent to clients.
// Anything unrecognized is reported as "internal".
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

// NewErrorMessage builds the reply sent to a single connection after a
// rejected intent.
func NewErrorMessage(err error) ErrorMessage {
	return ErrorMessage{
		Type:    "error",
		Code:    ErrorCode(err),
		Message: err.Error(),
	}
}
