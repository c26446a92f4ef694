package experiments

import (
	"time"

	"github.com/rs/zerolog/log"

	"catan/game"
	"catan/searcher"
)

// ThroughputRecord is one search-throughput measurement: how many episodes
// a fixed time budget buys at a given parallelism.
type ThroughputRecord struct {
	Goroutines     int
	Budget         time.Duration
	Episodes       int64
	FullPlayouts   int64
	EpisodesPerSec float64
}

// RunThroughput measures MCTS episode throughput on a fresh opening
// position across the given goroutine counts. The same seed keeps the
// position identical between measurements.
func RunThroughput(goroutineCounts []int, budget time.Duration, seed uint64) []ThroughputRecord {
	state := game.NewState(game.DefaultConfiguration(), seed)

	records := make([]ThroughputRecord, 0, len(goroutineCounts))
	for _, n := range goroutineCounts {
		mcts := searcher.NewMCTS(n,
			searcher.WithDuration(budget),
			searcher.WithSeed(seed),
			searcher.WithMetrics(),
		)
		_, metrics := mcts.Simulate(state)

		rec := ThroughputRecord{
			Goroutines:   n,
			Budget:       budget,
			Episodes:     metrics.Episodes,
			FullPlayouts: metrics.FullPlayouts,
		}
		if secs := metrics.Duration.Seconds(); secs > 0 {
			rec.EpisodesPerSec = float64(metrics.Episodes) / secs
		}
		records = append(records, rec)
		log.Info().Int("goroutines", n).Int64("episodes", metrics.Episodes).
			Float64("episodes_per_sec", rec.EpisodesPerSec).Msg("throughput measured")
	}
	return records
}
