/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

import "sync"

// Sessions maps a connection to the code of the room it occupies.
type Sessions struct {
	mu    sync.RWMutex
	rooms map[string]string
}

func NewSessions() *Sessions {
	return &Sessions{
		rooms: make(map[string]string),
	}
}

// bindIfAbsent binds connID unless it already occupies a room. It is the
// only way a binding is made, so a connection never sits in two rooms.
func (s *Sessions) bindIfAbsent(connID, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[connID]; ok {
		return false
	}
	s.rooms[connID] = code
	return true
}

func (s *Sessions) resolve(connID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code, ok := s.rooms[connID]
	return code, ok
}

// unbindIf clears connID only while it still points at code.
func (s *Sessions) unbindIf(connID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.rooms[connID]; ok && cur == code {
		delete(s.rooms, connID)
	}
}
