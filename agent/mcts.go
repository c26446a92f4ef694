package agent

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"catan/game"
	"catan/searcher"
)

// MCTS adapts the tree search to the BotPlayer contract. Falls back to the
// first legal action if the search produces nothing within budget.
type MCTS struct {
	seed     uint64
	duration time.Duration
	episodes int
	verbose  bool
}

func NewMCTS(seed uint64) *MCTS {
	return &MCTS{seed: seed, duration: 2 * time.Second}
}

// NewMCTSEpisodes fixes the search effort by episode count instead of
// wall-clock, which makes runs reproducible.
func NewMCTSEpisodes(seed uint64, episodes int) *MCTS {
	return &MCTS{seed: seed, episodes: episodes}
}

func (m *MCTS) Name() string { return "mcts" }

func (m *MCTS) Decide(ctx context.Context, state *game.State, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, &game.GameError{Kind: game.ErrStrategyError, Message: "no legal actions"}
	}
	if len(actions) == 1 {
		return actions[0], nil
	}

	options := []searcher.Option{
		searcher.WithRolloutPolicy(SmartRollout),
		searcher.WithSeed(m.seed + uint64(state.Tick())),
		searcher.WithMetrics(),
	}
	if m.episodes > 0 {
		options = append(options, searcher.WithEpisodes(m.episodes))
	} else {
		options = append(options, searcher.WithDuration(deadlineOf(ctx, m.duration)))
	}

	search := searcher.NewMCTS(runtime.NumCPU(), options...)
	best, ok := search.FindBestAction(state)
	if !ok {
		log.Warn().Int("tick", state.Tick()).Msg("search returned no action, falling back to first legal")
		return actions[0], nil
	}
	return best, nil
}
