/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"
	"time"
)

const (
	minRoomCode = 1000
	roomCodes   = 9000
)

// Registry holds the live rooms keyed by their 4-digit code.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// create allocates a code that no live room is using and registers a new
// waiting room under it. The room is returned locked, before anyone else
// can reach it through the registry.
func (reg *Registry) create(hostID, hostName string, s Settings, now time.Time) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if len(reg.rooms) >= roomCodes {
		return nil, ErrNoRoomCodes
	}

	var code string
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(roomCodes))
		if err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		code = strconv.FormatInt(n.Int64()+minRoomCode, 10)

		if _, exists := reg.rooms[code]; !exists {
			break
		}
	}

	room := newRoom(code, hostID, hostName, s, now)
	room.mu.Lock()
	reg.rooms[code] = room

	return room, nil
}

func (reg *Registry) get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[code]
	return room, ok
}

// remove drops code only if it still maps to room, so a late removal can
// never evict a newer room that reused the code.
func (reg *Registry) remove(code string, room *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if cur, ok := reg.rooms[code]; ok && cur == room {
		delete(reg.rooms, code)
	}
}

func (reg *Registry) all() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rooms)
}
