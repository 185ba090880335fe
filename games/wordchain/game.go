/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package wordchain coordinates multiplayer word-chain rooms: players take
// turns naming dictionary words that start with the last letter of the
// previous word, against a per-turn countdown.
//
// All state is in memory. Each room is guarded by its own mutex, so rooms
// progress in parallel while transitions within one room are serialized.
// Leaving or disconnecting ends the room for everyone in it.
package wordchain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Game is the room state machine together with the registry, session
// index and timers it owns.
type Game struct {
	dict     Lookup
	rooms    *Registry
	sessions *Sessions
	timers   *timerManager
	out      Broadcaster
	clock    clockwork.Clock
	limits   Limits
	log      zerolog.Logger
}

type Option func(*Game)

func WithClock(c clockwork.Clock) Option {
	return func(g *Game) {
		g.clock = c
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

func WithLimits(l Limits) Option {
	return func(g *Game) {
		g.limits = l
	}
}

func New(dict Lookup, out Broadcaster, opts ...Option) *Game {
	g := &Game{
		dict:     dict,
		rooms:    NewRegistry(),
		sessions: NewSessions(),
		out:      out,
		clock:    clockwork.NewRealClock(),
		limits:   DefaultLimits(),
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.timers = &timerManager{
		clock:    g.clock,
		interval: time.Second,
		out:      out,
		log:      g.log,
		expire:   g.timeoutLocked,
	}

	return g
}

// CreateRoom opens a waiting room hosted by connID and returns its code.
func (g *Game) CreateRoom(connID string, s Settings, name string) (string, error) {
	s = s.withDefaults()
	if err := s.validate(g.limits); err != nil {
		return "", err
	}

	r, err := g.rooms.create(connID, name, s, g.clock.Now())
	if err != nil {
		return "", err
	}
	defer r.mu.Unlock()

	if !g.sessions.bindIfAbsent(connID, r.code) {
		r.destroyed = true
		g.rooms.remove(r.code, r)
		return "", ErrAlreadyInRoom
	}

	g.log.Info().
		Str("room", r.code).
		Str("conn", connID).
		Int("max_players", s.MaxPlayers).
		Int("turn_time", s.TurnTimeSeconds).
		Msg("room created")

	g.out.Send(connID, RoomCreatedMessage{Type: "room_created", Code: r.code})
	g.out.Send(connID, GameStateMessage{Type: "game_state", Room: r.snapshotLocked()})

	return r.code, nil
}

// JoinRoom seats connID at the end of the turn order of a waiting room.
func (g *Game) JoinRoom(connID, code, name string) error {
	r, ok := g.rooms.get(code)
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.destroyed:
		return ErrRoomNotFound
	case r.status == StatusPlaying:
		return ErrRoomAlreadyPlaying
	case len(r.players) >= r.settings.MaxPlayers:
		return ErrRoomFull
	case r.playerIndexLocked(connID) >= 0:
		return ErrAlreadyInRoom
	}

	if !g.sessions.bindIfAbsent(connID, code) {
		return ErrAlreadyInRoom
	}

	p := Player{ID: connID, Name: playerName(name, len(r.players)+1)}
	r.players = append(r.players, p)
	r.lastActive = g.clock.Now()

	g.log.Info().
		Str("room", code).
		Str("conn", connID).
		Str("player", p.Name).
		Int("players", len(r.players)).
		Msg("player joined")

	g.broadcastStateLocked(r)

	return nil
}

// StartGame moves a waiting room into play. Requests from anyone but the
// host, or with fewer than two players, are ignored without error.
func (g *Game) StartGame(connID string) error {
	r, err := g.lockRoomOf(connID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	r.lastActive = g.clock.Now()

	if r.hostID != connID || len(r.players) < 2 || r.status != StatusWaiting {
		g.log.Debug().
			Str("room", r.code).
			Str("conn", connID).
			Msg("ignoring start request")
		return nil
	}

	r.status = StatusPlaying
	r.turnIndex = 0

	g.log.Info().Str("room", r.code).Int("players", len(r.players)).Msg("game started")

	g.timers.restart(r)
	g.broadcastStateLocked(r)

	return nil
}

// SubmitWord plays word for connID. Rejections are returned to the caller
// and leave the room untouched.
func (g *Game) SubmitWord(connID, word string) error {
	r, err := g.lockRoomOf(connID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	r.lastActive = g.clock.Now()

	if r.status != StatusPlaying {
		return ErrGameNotStarted
	}

	holder := r.turnHolderLocked()
	if holder.ID != connID {
		return ErrNotYourTurn
	}

	word = normalizeWord(word)

	if n := utf8.RuneCountInString(word); n < r.settings.MinLength || n > r.settings.MaxLength {
		return fmt.Errorf("%w: words must be %d to %d letters long", ErrInvalidLength, r.settings.MinLength, r.settings.MaxLength)
	}

	if !g.dict.Contains(word) {
		return fmt.Errorf("%w: %q", ErrNotInDictionary, word)
	}

	if _, ok := r.used[word]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyUsed, word)
	}

	if r.targetLetter != "" && !strings.HasPrefix(word, r.targetLetter) {
		return fmt.Errorf("%w: must start with %q", ErrWrongStartingLetter, strings.ToUpper(r.targetLetter))
	}

	last, _ := utf8.DecodeLastRuneInString(word)

	r.history = append(r.history, word)
	r.used[word] = struct{}{}
	r.targetLetter = string(last)
	r.players[r.turnIndex].Score += PointsPerWord
	r.advanceTurnLocked()

	g.log.Debug().
		Str("room", r.code).
		Str("player", holder.Name).
		Str("word", word).
		Msg("word accepted")

	g.timers.restart(r)
	g.broadcastStateLocked(r)
	g.out.Broadcast(r.playerIDsLocked(), WordAcceptedMessage{
		Type:       "word_accepted",
		Word:       word,
		PlayerID:   holder.ID,
		PlayerName: holder.Name,
	})

	return nil
}

// timeoutLocked passes the turn on without a word or points. It runs from
// the timer with r.mu held.
func (g *Game) timeoutLocked(r *Room) {
	skipped := r.turnHolderLocked()
	r.advanceTurnLocked()

	g.log.Debug().
		Str("room", r.code).
		Str("player", skipped.Name).
		Msg("turn timed out")

	g.out.Broadcast(r.playerIDsLocked(), TimeoutMessage{
		Type:     "timeout",
		PlayerID: skipped.ID,
		Message:  "Time's up! Passing the turn to the next player.",
	})

	g.timers.restart(r)
	g.broadcastStateLocked(r)
}

// LeaveRoom ends connID's room, if any, and confirms to the sender.
func (g *Game) LeaveRoom(connID string) {
	g.leave(connID)
	g.out.Send(connID, LeftRoomMessage{Type: "left_room"})
}

// Disconnect ends connID's room, if any.
func (g *Game) Disconnect(connID string) {
	g.leave(connID)
}

func (g *Game) leave(connID string) {
	code, ok := g.sessions.resolve(connID)
	if !ok {
		return
	}

	r, ok := g.rooms.get(code)
	if !ok {
		g.sessions.unbindIf(connID, code)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		g.sessions.unbindIf(connID, code)
		return
	}

	g.log.Info().Str("room", code).Str("conn", connID).Msg("player left, ending room")

	g.destroyLocked(r, EndReasonPlayerLeft, connID)
}

// destroyLocked tears the whole room down. The timer is cancelled first so
// no tick can act on a half-destroyed room.
func (g *Game) destroyLocked(r *Room, reason, leaver string) {
	g.timers.cancel(r)
	r.destroyed = true
	g.rooms.remove(r.code, r)

	recipients := make([]string, 0, len(r.players))
	for _, p := range r.players {
		g.sessions.unbindIf(p.ID, r.code)
		if p.ID != leaver {
			recipients = append(recipients, p.ID)
		}
	}

	g.out.Broadcast(recipients, newRoomEnded(reason))
}

// Chat relays text to everyone in connID's room.
func (g *Game) Chat(connID, text string) error {
	r, err := g.lockRoomOf(connID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) > maxChatLength {
		text = string([]rune(text)[:maxChatLength])
	}

	i := r.playerIndexLocked(connID)
	if i < 0 {
		return ErrRoomNotFound
	}

	r.lastActive = g.clock.Now()

	g.out.Broadcast(r.playerIDsLocked(), ChatMessage{
		Type:       "chat",
		PlayerID:   connID,
		PlayerName: r.players[i].Name,
		Text:       text,
	})

	return nil
}

// Snapshot returns the current projection of a live room.
func (g *Game) Snapshot(code string) (Snapshot, error) {
	r, ok := g.rooms.get(code)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return Snapshot{}, ErrRoomNotFound
	}

	return r.snapshotLocked(), nil
}

// RoomOf reports the code of the room connID occupies.
func (g *Game) RoomOf(connID string) (string, bool) {
	return g.sessions.resolve(connID)
}

func (g *Game) RoomCount() int {
	return g.rooms.Len()
}

// ReapIdle ends every room that has seen no intent for maxIdle and returns
// how many were closed.
func (g *Game) ReapIdle(maxIdle time.Duration) int {
	cutoff := g.clock.Now().Add(-maxIdle)
	reaped := 0

	for _, r := range g.rooms.all() {
		r.mu.Lock()
		if !r.destroyed && r.lastActive.Before(cutoff) {
			g.log.Info().
				Str("room", r.code).
				Time("last_active", r.lastActive).
				Msg("reaping idle room")
			g.destroyLocked(r, EndReasonIdle, "")
			reaped++
		}
		r.mu.Unlock()
	}

	return reaped
}

// RunReaper calls ReapIdle every maxIdle/2 until ctx is done.
func (g *Game) RunReaper(ctx context.Context, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}

	ticker := g.clock.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			g.ReapIdle(maxIdle)
		}
	}
}

// Close ends every live room and stops its timer.
func (g *Game) Close() {
	for _, r := range g.rooms.all() {
		r.mu.Lock()
		if !r.destroyed {
			g.destroyLocked(r, EndReasonShutdown, "")
		}
		r.mu.Unlock()
	}
}

// Handle dispatches a parsed intent from connID. Rejections are sent back
// to connID alone; a panic inside a transition is logged and swallowed so
// the room keeps its last good state.
func (g *Game) Handle(connID string, in Intent) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error().
				Str("conn", connID).
				Interface("panic", rec).
				Msg("recovered while handling intent")
		}
	}()

	var err error

	switch in := in.(type) {
	case CreateRoom:
		_, err = g.CreateRoom(connID, in.Settings, in.Name)
	case JoinRoom:
		err = g.JoinRoom(connID, in.Code, in.Name)
	case StartGame:
		err = g.StartGame(connID)
	case SubmitWord:
		err = g.SubmitWord(connID, in.Word)
	case LeaveRoom:
		g.LeaveRoom(connID)
	case SendChat:
		err = g.Chat(connID, in.Text)
	default:
		err = fmt.Errorf("%w: unsupported intent %T", ErrBadRequest, in)
	}

	if err != nil {
		g.log.Debug().Err(err).Str("conn", connID).Msg("intent rejected")
		g.out.Send(connID, NewErrorMessage(err))
	}
}

// lockRoomOf resolves connID's room and returns it locked.
func (g *Game) lockRoomOf(connID string) (*Room, error) {
	code, ok := g.sessions.resolve(connID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r, ok := g.rooms.get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return nil, ErrRoomNotFound
	}

	return r, nil
}

func (g *Game) broadcastStateLocked(r *Room) {
	g.out.Broadcast(r.playerIDsLocked(), GameStateMessage{
		Type: "game_state",
		Room: r.snapshotLocked(),
	})
}
