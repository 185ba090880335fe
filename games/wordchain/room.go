/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import (
	"sync"
	"time"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
)

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Room is one game. Every field below mu is guarded by it.
type Room struct {
	mu sync.Mutex

	code     string
	hostID   string
	settings Settings

	players      []Player
	history      []string
	used         map[string]struct{}
	targetLetter string
	turnIndex    int
	status       Status
	timeLeft     int
	timer        *turnTimer
	destroyed    bool
	createdAt    time.Time
	lastActive   time.Time
}

func newRoom(code, hostID, hostName string, s Settings, now time.Time) *Room {
	return &Room{
		code:       code,
		hostID:     hostID,
		settings:   s,
		players:    []Player{{ID: hostID, Name: playerName(hostName, 1)}},
		used:       make(map[string]struct{}),
		status:     StatusWaiting,
		createdAt:  now,
		lastActive: now,
	}
}

// Snapshot is the projection of a room sent to its occupants.
type Snapshot struct {
	Code                string   `json:"code"`
	HostID              string   `json:"host_id"`
	Settings            Settings `json:"settings"`
	Players             []Player `json:"players"`
	TurnIndex           int      `json:"turn_index"`
	Status              Status   `json:"status"`
	HistoryWords        []string `json:"history_words"`
	CurrentTargetLetter string   `json:"current_target_letter"`
	TimeLeft            int      `json:"time_left"`
}

func (r *Room) snapshotLocked() Snapshot {
	players := make([]Player, len(r.players))
	copy(players, r.players)

	history := make([]string, len(r.history))
	copy(history, r.history)

	return Snapshot{
		Code:                r.code,
		HostID:              r.hostID,
		Settings:            r.settings,
		Players:             players,
		TurnIndex:           r.turnIndex,
		Status:              r.status,
		HistoryWords:        history,
		CurrentTargetLetter: r.targetLetter,
		TimeLeft:            r.timeLeft,
	}
}

func (r *Room) playerIDsLocked() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *Room) playerIndexLocked(id string) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// advanceTurnLocked moves to the next seat in join order.
func (r *Room) advanceTurnLocked() {
	r.turnIndex = (r.turnIndex + 1) % len(r.players)
}

func (r *Room) turnHolderLocked() Player {
	return r.players[r.turnIndex]
}
