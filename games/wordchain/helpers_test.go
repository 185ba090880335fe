package wordchain

import (
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	to string
	ev Event
}

// recorder is a Broadcaster that keeps every delivery in order.
type recorder struct {
	mu   sync.Mutex
	sent []delivery
}

func (r *recorder) Broadcast(connIDs []string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range connIDs {
		r.sent = append(r.sent, delivery{to: id, ev: ev})
	}
}

func (r *recorder) Send(connID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sent = append(r.sent, delivery{to: connID, ev: ev})
}

func (r *recorder) eventsFor(connID string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, d := range r.sent {
		if d.to == connID {
			out = append(out, d.ev)
		}
	}
	return out
}

func (r *recorder) typesFor(connID string) []string {
	var out []string
	for _, ev := range r.eventsFor(connID) {
		out = append(out, ev.EventType())
	}
	return out
}

func (r *recorder) timeUpdates(connID string) []int {
	var out []int
	for _, ev := range r.eventsFor(connID) {
		if tu, ok := ev.(TimeUpdateMessage); ok {
			out = append(out, tu.TimeLeft)
		}
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sent)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sent = nil
}

var testWords = []string{
	"apple", "elephant", "tiger", "rabbit", "trout", "eagle", "egg",
	"table", "era", "ant", "tea", "antelope", "echo", "otter",
}

type fixture struct {
	game  *Game
	out   *recorder
	clock *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	out := &recorder{}
	clock := clockwork.NewFakeClock()
	g := New(NewDictionary(testWords), out, WithClock(clock))
	t.Cleanup(g.Close)

	return &fixture{game: g, out: out, clock: clock}
}

// playingRoom creates a room hosted by the first id, seats the rest and
// starts the game.
func (f *fixture) playingRoom(t *testing.T, s Settings, ids ...string) string {
	t.Helper()

	code, err := f.game.CreateRoom(ids[0], s, ids[0])
	require.NoError(t, err)

	for _, id := range ids[1:] {
		require.NoError(t, f.game.JoinRoom(id, code, id))
	}

	require.NoError(t, f.game.StartGame(ids[0]))

	return code
}

func (f *fixture) snapshot(t *testing.T, code string) Snapshot {
	t.Helper()

	snap, err := f.game.Snapshot(code)
	require.NoError(t, err)
	return snap
}
