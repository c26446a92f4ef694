package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"catan/agent"
	"catan/game"
)

// GameMode selects how seats are filled at creation.
type GameMode string

const (
	ModeHumanVsBots GameMode = "HUMAN_VS_BOTS"
	ModeRandomBots  GameMode = "RANDOM_BOTS"
	ModeBotBots     GameMode = "BOT_BOTS"
)

// Manager tracks the active sessions by id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// CreateGame builds the seats for the mode and registers a new session.
// Seat 0 is the human seat in HUMAN_VS_BOTS; RANDOM_BOTS fills every seat
// with random agents, BOT_BOTS with value-function agents.
func (m *Manager) CreateGame(mode GameMode, numPlayers int, sink EventSink) (*Session, error) {
	if numPlayers < 2 || numPlayers > 4 {
		return nil, &game.GameError{Kind: game.ErrMinPlayersNotMet, Message: "num_players must be 2, 3 or 4"}
	}

	seed := uint64(time.Now().UnixNano())
	seats := make([]agent.BotPlayer, numPlayers)
	for i := range seats {
		switch mode {
		case ModeHumanVsBots:
			if i > 0 {
				seats[i] = agent.NewRandom(seed + uint64(i))
			}
		case ModeRandomBots:
			seats[i] = agent.NewRandom(seed + uint64(i))
		case ModeBotBots:
			seats[i] = agent.NewValueFunction(seed + uint64(i))
		default:
			return nil, &game.GameError{Kind: game.ErrInvalidAction, Message: "unknown game mode"}
		}
	}

	config := game.DefaultConfiguration()
	config.NumPlayers = numPlayers
	session := NewSession(config, seed, seats, sink)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get resolves a session by id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, &game.GameError{Kind: game.ErrGameNotFound, Message: "no such game"}
	}
	return s, nil
}

// Remove drops a finished session.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
