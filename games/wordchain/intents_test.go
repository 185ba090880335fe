package wordchain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Intent
	}{
		{
			name:  "create with numbers",
			frame: `{"type":"create_room","name":"A","settings":{"max_players":2,"min_length":3,"max_length":8,"turn_time":5}}`,
			want:  CreateRoom{Name: "A", Settings: Settings{MaxPlayers: 2, MinLength: 3, MaxLength: 8, TurnTimeSeconds: 5}},
		},
		{
			name:  "create with form strings",
			frame: `{"type":"create_room","settings":{"max_players":"3","min_length":"","max_length":"abc","turn_time":" 10 "}}`,
			want:  CreateRoom{Settings: Settings{MaxPlayers: 3, TurnTimeSeconds: 10}},
		},
		{
			name:  "create without settings",
			frame: `{"type":"create_room"}`,
			want:  CreateRoom{},
		},
		{
			name:  "join with string code",
			frame: `{"type":"join_room","code":" 1234 ","name":"B"}`,
			want:  JoinRoom{Code: "1234", Name: "B"},
		},
		{
			name:  "join with numeric code",
			frame: `{"type":"join_room","code":4321}`,
			want:  JoinRoom{Code: "4321"},
		},
		{"start", `{"type":"start_game"}`, StartGame{}},
		{"submit", `{"type":"submit_word","word":"Apple"}`, SubmitWord{Word: "Apple"}},
		{"leave", `{"type":"leave_room"}`, LeaveRoom{}},
		{"chat", `{"type":"chat","text":"hello"}`, SendChat{Text: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntent([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntentRejects(t *testing.T) {
	frames := []string{
		`not json`,
		`{}`,
		`{"type":"dance"}`,
		`{"type":"join_room"}`,
		`{"type":"join_room","code":""}`,
		`{"type":"submit_word","word":"   "}`,
	}

	for _, frame := range frames {
		t.Run(frame, func(t *testing.T) {
			_, err := ParseIntent([]byte(frame))
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "wrong_starting_letter", ErrorCode(fmt.Errorf("%w: must start with \"E\"", ErrWrongStartingLetter)))
	assert.Equal(t, "room_not_found", ErrorCode(ErrRoomNotFound))
	assert.Equal(t, "internal", ErrorCode(errors.New("boom")))

	msg := NewErrorMessage(fmt.Errorf("%w: %q", ErrAlreadyUsed, "apple"))
	assert.Equal(t, ErrorMessage{Type: "error", Code: "already_used", Message: `word has already been used: "apple"`}, msg)
}
