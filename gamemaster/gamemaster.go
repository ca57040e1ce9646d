package gamemaster

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"trimatch/engine"
)

var ErrSessionNotFound = errors.New("session not found")

// GameMaster keeps the sessions of a server. Each session has its own computer player and search
// cache, so games never influence each other.
type GameMaster struct {
	mutex    sync.RWMutex
	sessions map[uuid.UUID]*engine.Session
}

func NewGameMaster() *GameMaster {
	return &GameMaster{
		sessions: make(map[uuid.UUID]*engine.Session),
	}
}

// Create starts a new session and registers it under a fresh id.
func (gm *GameMaster) Create(options ...engine.SessionOption) (uuid.UUID, *engine.Session) {
	session := engine.NewSession(options...)
	id := uuid.New()

	gm.mutex.Lock()
	defer gm.mutex.Unlock()
	gm.sessions[id] = session
	log.Debug().Msgf("created %s session %s (%d active)", session.Mode(), id, len(gm.sessions))
	return id, session
}

func (gm *GameMaster) Get(id uuid.UUID) (*engine.Session, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	session, ok := gm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (gm *GameMaster) Delete(id uuid.UUID) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	if _, ok := gm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(gm.sessions, id)
	return nil
}

func (gm *GameMaster) Len() int {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	return len(gm.sessions)
}
