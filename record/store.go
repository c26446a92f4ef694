// Package record archives finished games: outcome rows in sqlite plus the
// full action replay, JSON-encoded and zstd-compressed. Replays feed
// regression checks (a stored game must replay to the same final state)
// and offline analysis.
package record

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"catan/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	seed        INTEGER NOT NULL,
	num_players INTEGER NOT NULL,
	players     TEXT NOT NULL,
	winner      INTEGER NOT NULL,
	actions     INTEGER NOT NULL,
	replay      BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_at);
`

// GameRecord is one archived game.
type GameRecord struct {
	ID         string
	CreatedAt  time.Time
	Seed       uint64
	NumPlayers int
	// Players is the strategy string, one letter per seat.
	Players string
	// Winner is the winning color, -1 for a tick-limit draw.
	Winner  game.Color
	Actions int
}

// Store is a sqlite-backed archive.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open creates or opens the archive at path (":memory:" works for tests).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, enc: enc, dec: dec}, nil
}

func (s *Store) Close() error {
	s.enc.Close()
	s.dec.Close()
	return s.db.Close()
}

// SaveGame archives one finished game with its replay.
func (s *Store) SaveGame(rec GameRecord, replay []game.Action) error {
	raw, err := json.Marshal(replay)
	if err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	compressed := s.enc.EncodeAll(raw, nil)
	_, err = s.db.Exec(
		`INSERT INTO games (id, created_at, seed, num_players, players, winner, actions, replay)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Unix(), int64(rec.Seed), rec.NumPlayers,
		rec.Players, int(rec.Winner), rec.Actions, compressed,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// LoadReplay returns the stored action sequence of a game.
func (s *Store) LoadReplay(id string) ([]game.Action, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT replay FROM games WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, &game.GameError{Kind: game.ErrGameNotFound, Message: "no archived game " + id}
	}
	if err != nil {
		return nil, err
	}
	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress replay: %w", err)
	}
	var replay []game.Action
	if err := json.Unmarshal(raw, &replay); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	return replay, nil
}

// ListGames returns the most recent archived games.
func (s *Store) ListGames(limit int) ([]GameRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, seed, num_players, players, winner, actions
		 FROM games ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var rec GameRecord
		var created, seed int64
		var winner int
		if err := rows.Scan(&rec.ID, &created, &seed, &rec.NumPlayers, &rec.Players, &winner, &rec.Actions); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(created, 0)
		rec.Seed = uint64(seed)
		rec.Winner = game.Color(winner)
		out = append(out, rec)
	}
	return out, rows.Err()
}
