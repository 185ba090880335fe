/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxPlayers = 4
	DefaultMinLength  = 2
	DefaultMaxLength  = 15
	DefaultTurnTime   = 20

	// PointsPerWord is awarded to the turn holder for every accepted word.
	PointsPerWord = 50

	maxNameLength = 24
	maxChatLength = 500
)

// Settings are fixed when a room is created.
type Settings struct {
	MaxPlayers      int `json:"max_players"`
	MinLength       int `json:"min_length"`
	MaxLength       int `json:"max_length"`
	TurnTimeSeconds int `json:"turn_time"`
}

// Limits bound what a room creator may ask for.
type Limits struct {
	MaxPlayers     int
	MaxTurnSeconds int
	MaxWordLength  int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPlayers:     16,
		MaxTurnSeconds: 300,
		MaxWordLength:  64,
	}
}

// withDefaults fills unset (zero) fields the same way a blank form does.
func (s Settings) withDefaults() Settings {
	if s.MaxPlayers == 0 {
		s.MaxPlayers = DefaultMaxPlayers
	}
	if s.MinLength == 0 {
		s.MinLength = DefaultMinLength
	}
	if s.MaxLength == 0 {
		s.MaxLength = DefaultMaxLength
	}
	if s.TurnTimeSeconds == 0 {
		s.TurnTimeSeconds = DefaultTurnTime
	}
	return s
}

func (s Settings) validate(l Limits) error {
	switch {
	case s.MaxPlayers < 2:
		return fmt.Errorf("%w: at least 2 players are required", ErrInvalidSettings)
	case l.MaxPlayers > 0 && s.MaxPlayers > l.MaxPlayers:
		return fmt.Errorf("%w: at most %d players are allowed", ErrInvalidSettings, l.MaxPlayers)
	case s.MinLength < 1:
		return fmt.Errorf("%w: minimum word length must be positive", ErrInvalidSettings)
	case s.MinLength > s.MaxLength:
		return fmt.Errorf("%w: minimum word length %d exceeds maximum %d", ErrInvalidSettings, s.MinLength, s.MaxLength)
	case l.MaxWordLength > 0 && s.MaxLength > l.MaxWordLength:
		return fmt.Errorf("%w: maximum word length is %d", ErrInvalidSettings, l.MaxWordLength)
	case s.TurnTimeSeconds < 1:
		return fmt.Errorf("%w: turn time must be positive", ErrInvalidSettings)
	case l.MaxTurnSeconds > 0 && s.TurnTimeSeconds > l.MaxTurnSeconds:
		return fmt.Errorf("%w: turn time is capped at %ds", ErrInvalidSettings, l.MaxTurnSeconds)
	}
	return nil
}

// playerName trims and caps a requested display name, falling back to the
// seat number when nothing usable was given.
func playerName(requested string, seat int) string {
	name := strings.TrimSpace(requested)
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", seat)
	}
	return name
}
