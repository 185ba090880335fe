/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Intent is a validated client request.
type Intent interface {
	intent()
}

type CreateRoom struct {
	Settings Settings
	Name     string
}

type JoinRoom struct {
	Code string
	Name string
}

type StartGame struct{}

type SubmitWord struct {
	Word string
}

type LeaveRoom struct{}

type SendChat struct {
	Text string
}

func (CreateRoom) intent() {}
func (JoinRoom) intent()   {}
func (StartGame) intent()  {}
func (SubmitWord) intent() {}
func (LeaveRoom) intent()  {}
func (SendChat) intent()   {}

// ClientMessage is the raw frame read off the wire.
type ClientMessage struct {
	Type     string          `json:"type"`               // "create_room", "join_room", "start_game", "submit_word", "leave_room", "chat"
	Settings *WireSettings   `json:"settings,omitempty"` // create_room
	Name     string          `json:"name,omitempty"`     // create_room / join_room
	Code     json.RawMessage `json:"code,omitempty"`     // join_room
	Word     string          `json:"word,omitempty"`     // submit_word
	Text     string          `json:"text,omitempty"`     // chat
}

// WireSettings accepts numbers or numeric strings, since form inputs are
// often sent as-is.
type WireSettings struct {
	MaxPlayers FlexInt `json:"max_players"`
	MinLength  FlexInt `json:"min_length"`
	MaxLength  FlexInt `json:"max_length"`
	TurnTime   FlexInt `json:"turn_time"`
}

// FlexInt decodes from a JSON number or a string holding one. Anything
// unparseable decodes as zero, which later means "use the default".
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// ParseIntent decodes and validates a single client frame.
func ParseIntent(data []byte) (Intent, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	switch msg.Type {
	case "create_room":
		var s Settings
		if msg.Settings != nil {
			s = Settings{
				MaxPlayers:      int(msg.Settings.MaxPlayers),
				MinLength:       int(msg.Settings.MinLength),
				MaxLength:       int(msg.Settings.MaxLength),
				TurnTimeSeconds: int(msg.Settings.TurnTime),
			}
		}
		return CreateRoom{Settings: s, Name: msg.Name}, nil

	case "join_room":
		code, err := roomCode(msg.Code)
		if err != nil {
			return nil, err
		}
		return JoinRoom{Code: code, Name: msg.Name}, nil

	case "start_game":
		return StartGame{}, nil

	case "submit_word":
		if strings.TrimSpace(msg.Word) == "" {
			return nil, fmt.Errorf("%w: missing word", ErrBadRequest)
		}
		return SubmitWord{Word: msg.Word}, nil

	case "leave_room":
		return LeaveRoom{}, nil

	case "chat":
		return SendChat{Text: msg.Text}, nil

	case "":
		return nil, fmt.Errorf("%w: missing type", ErrBadRequest)
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrBadRequest, msg.Type)
}

// roomCode accepts the code as a string or a bare number.
func roomCode(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: missing room code", ErrBadRequest)
	}

	var code string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &code); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	} else {
		code = string(raw)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: missing room code", ErrBadRequest)
	}
	return code, nil
}
