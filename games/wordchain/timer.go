/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// turnTimer is the countdown owned by a single room. A room holds at most
// one; ticks from any other instance are ignored.
type turnTimer struct {
	ticker clockwork.Ticker
	stop   chan struct{}
}

// timerManager drives per-room countdowns. All methods taking a *Room
// expect the caller to hold r.mu, except run, which acquires it per tick.
type timerManager struct {
	clock    clockwork.Clock
	interval time.Duration
	out      Broadcaster
	log      zerolog.Logger

	// expire is the timeout transition, called with r.mu held once
	// timeLeft reaches zero.
	expire func(r *Room)
}

// restart replaces whatever countdown r had with a fresh one for the
// current turn and announces the full turn time immediately.
func (m *timerManager) restart(r *Room) {
	m.cancel(r)

	if r.destroyed || r.status != StatusPlaying {
		return
	}

	t := &turnTimer{
		ticker: m.clock.NewTicker(m.interval),
		stop:   make(chan struct{}),
	}
	r.timer = t
	r.timeLeft = r.settings.TurnTimeSeconds

	m.out.Broadcast(r.playerIDsLocked(), TimeUpdateMessage{
		Type:     "time_update",
		TimeLeft: r.timeLeft,
	})

	go m.run(r, t)
}

func (m *timerManager) cancel(r *Room) {
	if r.timer == nil {
		return
	}

	r.timer.ticker.Stop()
	close(r.timer.stop)
	r.timer = nil
}

func (m *timerManager) run(r *Room, t *turnTimer) {
	defer func() {
		if rec := recover(); rec != nil {
			m.log.Error().
				Str("room", r.code).
				Interface("panic", rec).
				Msg("recovered in turn timer")
		}
	}()

	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.Chan():
			if !m.tick(r, t) {
				return
			}
		}
	}
}

// tick reports whether t is still the room's live countdown afterwards.
func (m *timerManager) tick(r *Room, t *turnTimer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed || r.status != StatusPlaying || r.timer != t {
		m.log.Debug().Str("room", r.code).Msg("dropping stale tick")
		return false
	}

	r.timeLeft--
	m.out.Broadcast(r.playerIDsLocked(), TimeUpdateMessage{
		Type:     "time_update",
		TimeLeft: r.timeLeft,
	})

	if r.timeLeft > 0 {
		return true
	}

	m.cancel(r)
	m.expire(r)

	return false
}
