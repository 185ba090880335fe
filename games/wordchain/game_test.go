package wordchain

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chain = []string{
	"apple", "elephant", "tiger", "rabbit", "trout", "table",
	"era", "ant", "tea", "antelope", "echo", "otter",
}

func TestCreateRoom(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("a", Settings{}, "  Alice  ")
	require.NoError(t, err)
	assert.Len(t, code, 4)

	snap := f.snapshot(t, code)
	assert.Equal(t, StatusWaiting, snap.Status)
	assert.Equal(t, "a", snap.HostID)
	assert.Equal(t, []Player{{ID: "a", Name: "Alice"}}, snap.Players)
	assert.Equal(t, Settings{MaxPlayers: 4, MinLength: 2, MaxLength: 15, TurnTimeSeconds: 20}, snap.Settings)
	assert.Empty(t, snap.HistoryWords)
	assert.Empty(t, snap.CurrentTargetLetter)

	assert.Equal(t, []string{"room_created", "game_state"}, f.out.typesFor("a"))
	assert.Equal(t, RoomCreatedMessage{Type: "room_created", Code: code}, f.out.eventsFor("a")[0])

	got, ok := f.game.RoomOf("a")
	assert.True(t, ok)
	assert.Equal(t, code, got)
}

func TestCreateRoomRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{"single player", Settings{MaxPlayers: 1}},
		{"too many players", Settings{MaxPlayers: 99}},
		{"min above max", Settings{MinLength: 9, MaxLength: 3}},
		{"negative min", Settings{MinLength: -1}},
		{"negative turn time", Settings{TurnTimeSeconds: -5}},
		{"turn time above cap", Settings{TurnTimeSeconds: 3600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.game.CreateRoom("a", tt.settings, "A")
			assert.ErrorIs(t, err, ErrInvalidSettings)
			assert.Zero(t, f.game.RoomCount())

			_, bound := f.game.RoomOf("a")
			assert.False(t, bound)
		})
	}
}

func TestCreateRoomWhileSeated(t *testing.T) {
	f := newFixture(t)

	_, err := f.game.CreateRoom("a", Settings{}, "A")
	require.NoError(t, err)

	_, err = f.game.CreateRoom("a", Settings{}, "A")
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
	assert.Equal(t, 1, f.game.RoomCount())
}

func TestDefaultPlayerNames(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("a", Settings{}, "")
	require.NoError(t, err)
	require.NoError(t, f.game.JoinRoom("b", code, "   "))

	snap := f.snapshot(t, code)
	assert.Equal(t, "Player 1", snap.Players[0].Name)
	assert.Equal(t, "Player 2", snap.Players[1].Name)
}

func TestJoinRoom(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("a", Settings{MaxPlayers: 2}, "A")
	require.NoError(t, err)

	t.Run("unknown code", func(t *testing.T) {
		assert.ErrorIs(t, f.game.JoinRoom("x", "0000", "X"), ErrRoomNotFound)
	})

	t.Run("success broadcasts to the room", func(t *testing.T) {
		f.out.reset()
		require.NoError(t, f.game.JoinRoom("b", code, "B"))

		for _, id := range []string{"a", "b"} {
			evs := f.out.eventsFor(id)
			require.Len(t, evs, 1)
			state := evs[0].(GameStateMessage)
			assert.Len(t, state.Room.Players, 2)
			assert.Equal(t, Player{ID: "b", Name: "B"}, state.Room.Players[1])
		}
	})

	t.Run("full room is unchanged", func(t *testing.T) {
		before := f.snapshot(t, code)
		f.out.reset()

		assert.ErrorIs(t, f.game.JoinRoom("c", code, "C"), ErrRoomFull)
		assert.Equal(t, before, f.snapshot(t, code))
		assert.Zero(t, f.out.count())

		_, bound := f.game.RoomOf("c")
		assert.False(t, bound)
	})

	t.Run("rejoining is refused", func(t *testing.T) {
		assert.ErrorIs(t, f.game.JoinRoom("b", code, "B"), ErrAlreadyInRoom)
	})
}

func TestJoinPlayingRoom(t *testing.T) {
	f := newFixture(t)
	code := f.playingRoom(t, Settings{MaxPlayers: 3}, "a", "b")

	assert.ErrorIs(t, f.game.JoinRoom("c", code, "C"), ErrRoomAlreadyPlaying)
	assert.Len(t, f.snapshot(t, code).Players, 2)
}

func TestJoinNeverExceedsCapacity(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("host", Settings{MaxPlayers: 5}, "H")
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		full   int
	)
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.game.JoinRoom(fmt.Sprintf("p%d", i), code, "")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, ErrRoomFull):
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, joined)
	assert.Equal(t, 16, full)
	assert.Len(t, f.snapshot(t, code).Players, 5)
}

func TestStartGameIgnored(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("a", Settings{}, "A")
	require.NoError(t, err)

	t.Run("too few players", func(t *testing.T) {
		f.out.reset()
		assert.NoError(t, f.game.StartGame("a"))
		assert.Equal(t, StatusWaiting, f.snapshot(t, code).Status)
		assert.Zero(t, f.out.count())
	})

	require.NoError(t, f.game.JoinRoom("b", code, "B"))

	t.Run("not the host", func(t *testing.T) {
		f.out.reset()
		assert.NoError(t, f.game.StartGame("b"))
		assert.Equal(t, StatusWaiting, f.snapshot(t, code).Status)
		assert.Zero(t, f.out.count())
	})

	t.Run("outside any room", func(t *testing.T) {
		assert.ErrorIs(t, f.game.StartGame("nobody"), ErrRoomNotFound)
	})

	t.Run("already playing", func(t *testing.T) {
		require.NoError(t, f.game.StartGame("a"))
		f.out.reset()

		assert.NoError(t, f.game.StartGame("a"))
		assert.Zero(t, f.out.count())
	})
}

func TestStartGame(t *testing.T) {
	f := newFixture(t)
	code := f.playingRoom(t, Settings{TurnTimeSeconds: 7}, "a", "b")

	snap := f.snapshot(t, code)
	assert.Equal(t, StatusPlaying, snap.Status)
	assert.Equal(t, 0, snap.TurnIndex)
	assert.Equal(t, 7, snap.TimeLeft)

	for _, id := range []string{"a", "b"} {
		assert.Equal(t, []int{7}, f.out.timeUpdates(id))
	}
}

func TestSubmitWordBeforeStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.game.CreateRoom("a", Settings{}, "A")
	require.NoError(t, err)

	assert.ErrorIs(t, f.game.SubmitWord("a", "apple"), ErrGameNotStarted)
	assert.ErrorIs(t, f.game.SubmitWord("nobody", "apple"), ErrRoomNotFound)
}

func TestSubmitWordValidation(t *testing.T) {
	f := newFixture(t)
	code := f.playingRoom(t, Settings{MinLength: 3, MaxLength: 8}, "a", "b")

	require.NoError(t, f.game.SubmitWord("a", "apple"))

	tests := []struct {
		name string
		from string
		word string
		want error
	}{
		{"wrong player", "a", "elephant", ErrNotYourTurn},
		{"not your turn wins over bad word", "a", "zz", ErrNotYourTurn},
		{"too short", "b", "eg", ErrInvalidLength},
		{"too long", "b", "elephantine", ErrInvalidLength},
		{"unknown word", "b", "eeeee", ErrNotInDictionary},
		{"length checked before dictionary", "b", "e", ErrInvalidLength},
		{"already used", "b", "apple", ErrAlreadyUsed},
		{"already used in other case", "b", "  APPLE ", ErrAlreadyUsed},
		{"wrong starting letter", "b", "tiger", ErrWrongStartingLetter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.snapshot(t, code)
			f.out.reset()

			err := f.game.SubmitWord(tt.from, tt.word)
			assert.ErrorIs(t, err, tt.want)

			assert.Equal(t, before, f.snapshot(t, code))
			assert.Zero(t, f.out.count(), "rejections must not broadcast")
		})
	}
}

func TestSubmitWordScenario(t *testing.T) {
	f := newFixture(t)
	code := f.playingRoom(t, Settings{MinLength: 3, MaxLength: 8, TurnTimeSeconds: 5, MaxPlayers: 2}, "A", "B")

	snap := f.snapshot(t, code)
	require.Equal(t, StatusPlaying, snap.Status)
	require.Equal(t, 0, snap.TurnIndex)

	f.out.reset()
	require.NoError(t, f.game.SubmitWord("A", "apple"))

	snap = f.snapshot(t, code)
	assert.Equal(t, 50, snap.Players[0].Score)
	assert.Equal(t, "e", snap.CurrentTargetLetter)
	assert.Equal(t, 1, snap.TurnIndex)
	assert.Equal(t, []string{"apple"}, snap.HistoryWords)

	for _, id := range []string{"A", "B"} {
		assert.Equal(t, []string{"time_update", "game_state", "word_accepted"}, f.out.typesFor(id))
		evs := f.out.eventsFor(id)
		assert.Equal(t, WordAcceptedMessage{Type: "word_accepted", Word: "apple", PlayerID: "A", PlayerName: "A"}, evs[2])
	}

	assert.ErrorIs(t, f.game.SubmitWord("B", "apple"), ErrAlreadyUsed)

	require.NoError(t, f.game.SubmitWord("B", "Elephant"))

	snap = f.snapshot(t, code)
	assert.Equal(t, "t", snap.CurrentTargetLetter)
	assert.Equal(t, 0, snap.TurnIndex)
	assert.Equal(t, []string{"apple", "elephant"}, snap.HistoryWords)
	assert.Equal(t, 50, snap.Players[1].Score)
}

func TestRoundRobin(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			f := newFixture(t)

			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("p%d", i)
			}
			code := f.playingRoom(t, Settings{MaxPlayers: n}, ids...)

			for k, word := range chain {
				snap := f.snapshot(t, code)
				require.Equal(t, k%n, snap.TurnIndex)

				holder := snap.Players[snap.TurnIndex].ID
				require.NoError(t, f.game.SubmitWord(holder, word))
			}

			snap := f.snapshot(t, code)
			assert.Equal(t, len(chain)%n, snap.TurnIndex)
			assert.Equal(t, chain, snap.HistoryWords)

			total := 0
			for _, p := range snap.Players {
				total += p.Score
			}
			assert.Equal(t, len(chain)*PointsPerWord, total)

			for i := 1; i < len(snap.HistoryWords); i++ {
				prev := snap.HistoryWords[i-1]
				assert.Equal(t, prev[len(prev)-1], snap.HistoryWords[i][0])
			}
		})
	}
}

func TestChat(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("a", Settings{}, "Alice")
	require.NoError(t, err)
	require.NoError(t, f.game.JoinRoom("b", code, "Bob"))
	f.out.reset()

	require.NoError(t, f.game.Chat("b", "  hi there "))
	require.NoError(t, f.game.Chat("b", "   "))

	want := ChatMessage{Type: "chat", PlayerID: "b", PlayerName: "Bob", Text: "hi there"}
	assert.Equal(t, []Event{want}, f.out.eventsFor("a"))
	assert.Equal(t, []Event{want}, f.out.eventsFor("b"))

	assert.ErrorIs(t, f.game.Chat("nobody", "hello"), ErrRoomNotFound)
}

func TestDisconnectEndsRoom(t *testing.T) {
	f := newFixture(t)
	code := f.playingRoom(t, Settings{TurnTimeSeconds: 5, MaxPlayers: 3}, "A", "B", "C")
	f.out.reset()

	f.game.Disconnect("B")

	for _, id := range []string{"A", "C"} {
		evs := f.out.eventsFor(id)
		require.Len(t, evs, 1)
		ended := evs[0].(RoomEndedMessage)
		assert.Equal(t, EndReasonPlayerLeft, ended.Reason)
	}
	assert.Empty(t, f.out.eventsFor("B"))

	_, err := f.game.Snapshot(code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, f.game.JoinRoom("D", code, "D"), ErrRoomNotFound)
	assert.ErrorIs(t, f.game.SubmitWord("A", "apple"), ErrRoomNotFound)
	assert.ErrorIs(t, f.game.StartGame("A"), ErrRoomNotFound)

	for _, id := range []string{"A", "B", "C"} {
		_, bound := f.game.RoomOf(id)
		assert.False(t, bound, id)
	}
	assert.Zero(t, f.game.RoomCount())

	f.out.reset()
	f.clock.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, f.out.count(), "cancelled timer must stay silent")

	// Disconnecting again is harmless.
	f.game.Disconnect("B")
}

func TestLeaveRoom(t *testing.T) {
	f := newFixture(t)

	code, err := f.game.CreateRoom("a", Settings{}, "A")
	require.NoError(t, err)
	require.NoError(t, f.game.JoinRoom("b", code, "B"))
	f.out.reset()

	f.game.LeaveRoom("a")

	assert.Equal(t, []Event{LeftRoomMessage{Type: "left_room"}}, f.out.eventsFor("a"))
	assert.Equal(t, []string{"room_ended"}, f.out.typesFor("b"))

	// Both are free to host again.
	_, err = f.game.CreateRoom("b", Settings{}, "B")
	assert.NoError(t, err)

	f.out.reset()
	f.game.LeaveRoom("stranger")
	assert.Equal(t, []Event{LeftRoomMessage{Type: "left_room"}}, f.out.eventsFor("stranger"))
}

func TestReapIdle(t *testing.T) {
	f := newFixture(t)

	stale, err := f.game.CreateRoom("a", Settings{}, "A")
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)

	fresh, err := f.game.CreateRoom("b", Settings{}, "B")
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)
	f.out.reset()

	assert.Equal(t, 1, f.game.ReapIdle(time.Hour))

	_, err = f.game.Snapshot(stale)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = f.game.Snapshot(fresh)
	assert.NoError(t, err)

	evs := f.out.eventsFor("a")
	require.Len(t, evs, 1)
	assert.Equal(t, EndReasonIdle, evs[0].(RoomEndedMessage).Reason)
}

func TestHandle(t *testing.T) {
	f := newFixture(t)

	f.game.Handle("a", CreateRoom{Settings: Settings{MaxPlayers: 2}, Name: "A"})
	code, ok := f.game.RoomOf("a")
	require.True(t, ok)

	f.game.Handle("b", JoinRoom{Code: code, Name: "B"})
	f.game.Handle("c", JoinRoom{Code: code, Name: "C"})

	evs := f.out.eventsFor("c")
	require.Len(t, evs, 1)
	assert.Equal(t, "room_full", evs[0].(ErrorMessage).Code)

	f.game.Handle("a", StartGame{})
	f.out.reset()

	f.game.Handle("b", SubmitWord{Word: "apple"})
	evs = f.out.eventsFor("b")
	require.Len(t, evs, 1)
	assert.Equal(t, "not_your_turn", evs[0].(ErrorMessage).Code)
	assert.Empty(t, f.out.eventsFor("a"))

	f.game.Handle("a", SendChat{Text: "gl"})
	assert.Equal(t, []string{"chat"}, f.out.typesFor("a"))

	f.game.Handle("a", LeaveRoom{})
	assert.Equal(t, []string{"chat", "left_room"}, f.out.typesFor("a"))
}

type panickingLookup struct{}

func (panickingLookup) Contains(string) bool {
	panic("lookup exploded")
}

func TestHandleRecoversFromPanics(t *testing.T) {
	out := &recorder{}
	g := New(panickingLookup{}, out)
	t.Cleanup(g.Close)

	code, err := g.CreateRoom("a", Settings{}, "A")
	require.NoError(t, err)
	require.NoError(t, g.JoinRoom("b", code, "B"))
	require.NoError(t, g.StartGame("a"))

	assert.NotPanics(t, func() {
		g.Handle("a", SubmitWord{Word: "apple"})
	})

	snap, err := g.Snapshot(code)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.TurnIndex)
	assert.Empty(t, snap.HistoryWords)
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	f.playingRoom(t, Settings{}, "a", "b")
	f.out.reset()

	f.game.Close()

	assert.Zero(t, f.game.RoomCount())
	for _, id := range []string{"a", "b"} {
		evs := f.out.eventsFor(id)
		require.Len(t, evs, 1)
		assert.Equal(t, EndReasonShutdown, evs[0].(RoomEndedMessage).Reason)
	}
}
