// Package experiments runs headless matchups between bot strategies and
// collects per-game records for offline analysis. catan-simulate is a thin
// flag wrapper around Run.
package experiments

import (
	"time"

	"github.com/rs/zerolog/log"

	"catan/agent"
	"catan/engine"
	"catan/game"
	"catan/record"
)

// Matchup describes one experiment: a fixed seating of strategies played
// repeatedly under consecutive seeds.
type Matchup struct {
	// Players holds one strategy letter per seat.
	Players string
	Games   int
	// Seed is the base; game i plays under Seed+i.
	Seed uint64
}

// Summary aggregates a finished matchup.
type Summary struct {
	Wins         []int
	Draws        int
	TotalActions int
	Records      []GameRecord
}

// Options attaches optional sinks to a run. A nil Store or Writer is
// skipped.
type Options struct {
	Store  *record.Store
	Writer *Writer
}

// Run plays the matchup to completion. Each game gets freshly seeded
// agents so results reproduce from the base seed alone.
func Run(m Matchup, opts Options) (Summary, error) {
	summary := Summary{Wins: make([]int, len(m.Players))}

	for i := 0; i < m.Games; i++ {
		seed := m.Seed + uint64(i)
		seats, err := agent.FromLetters(m.Players, seed)
		if err != nil {
			return summary, err
		}

		config := game.DefaultConfiguration()
		config.NumPlayers = len(seats)
		session := engine.NewSession(config, seed, seats, nil)

		start := time.Now()
		winner, err := session.Run()
		if err != nil {
			return summary, err
		}
		history := session.History()

		summary.TotalActions += len(history)
		if winner == game.NoColor {
			summary.Draws++
		} else {
			summary.Wins[winner]++
		}
		summary.Records = append(summary.Records, GameRecord{
			ID:       i,
			Seed:     seed,
			Players:  m.Players,
			Winner:   winner,
			Actions:  len(history),
			Duration: time.Since(start),
		})
		log.Info().Int("game", i).Uint64("seed", seed).
			Int8("winner", int8(winner)).Int("actions", len(history)).
			Dur("elapsed", time.Since(start)).Msg("game finished")

		if opts.Store != nil {
			err := opts.Store.SaveGame(record.GameRecord{
				ID:         session.ID.String(),
				CreatedAt:  session.Created,
				Seed:       seed,
				NumPlayers: len(seats),
				Players:    m.Players,
				Winner:     winner,
				Actions:    len(history),
			}, history)
			if err != nil {
				log.Error().Err(err).Int("game", i).Msg("archiving failed")
			}
		}
	}

	if opts.Writer != nil {
		if err := opts.Writer.WriteGameRecords(summary.Records); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
