// catan-simulate plays headless games between bot strategies and prints
// per-seat win statistics. The --players string assigns one strategy letter
// per seat: R random, W weighted, V value function, A alphabeta, M mcts,
// Z zero.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"catan/experiments"
	"catan/record"
)

func main() {
	var (
		players    = flag.String("players", "RRRR", "strategy letters, one per seat (2-4 of R W V A M Z)")
		numGames   = flag.Int("num-games", 10, "number of games to play")
		seed       = flag.Uint64("seed", 0, "base seed, 0 for time-based")
		archive    = flag.String("archive", "", "sqlite archive path (optional)")
		csvDir     = flag.String("csv-dir", "", "directory for per-game CSV records (optional)")
		verbose    = flag.Bool("verbose", false, "log per-game results")
		throughput = flag.Bool("throughput", false, "measure search throughput instead of playing a matchup")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *numGames < 1 {
		fmt.Fprintln(os.Stderr, "num-games must be at least 1")
		os.Exit(1)
	}
	if n := len(*players); n < 2 || n > 4 {
		fmt.Fprintln(os.Stderr, "players must name 2 to 4 seats")
		os.Exit(1)
	}
	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}

	if *throughput {
		runThroughput(baseSeed, *csvDir)
		return
	}

	var opts experiments.Options
	if *archive != "" {
		store, err := record.Open(*archive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening archive: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Store = store
	}
	if *csvDir != "" {
		writer, err := experiments.NewWriter(*csvDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating csv writer: %v\n", err)
			os.Exit(1)
		}
		opts.Writer = writer
	}

	summary, err := experiments.Run(experiments.Matchup{
		Players: *players,
		Games:   *numGames,
		Seed:    baseSeed,
	}, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("played %d games, players=%s, base seed %d\n", *numGames, *players, baseSeed)
	for seat, count := range summary.Wins {
		rate := float64(count) / float64(*numGames) * 100
		fmt.Printf("  seat %d (%c): %d wins (%.1f%%)\n", seat, (*players)[seat], count, rate)
	}
	if summary.Draws > 0 {
		fmt.Printf("  draws: %d\n", summary.Draws)
	}
	fmt.Printf("  average actions per game: %.1f\n", float64(summary.TotalActions)/float64(*numGames))
	if opts.Writer != nil {
		fmt.Printf("  csv records: %s\n", opts.Writer.Dir())
	}
}

// runThroughput sweeps MCTS parallelism on one opening position and prints
// episodes per second per goroutine count.
func runThroughput(seed uint64, csvDir string) {
	counts := []int{1, 2, 4, 8, 16}
	records := experiments.RunThroughput(counts, time.Second, seed)

	fmt.Printf("search throughput, seed %d, budget %s\n", seed, time.Second)
	for _, rec := range records {
		fmt.Printf("  %2d goroutines: %6d episodes, %5d full playouts, %8.1f episodes/s\n",
			rec.Goroutines, rec.Episodes, rec.FullPlayouts, rec.EpisodesPerSec)
	}

	if csvDir != "" {
		writer, err := experiments.NewWriter(csvDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating csv writer: %v\n", err)
			os.Exit(1)
		}
		if err := writer.WriteThroughputRecords(records); err != nil {
			fmt.Fprintf(os.Stderr, "writing throughput records: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  csv records: %s\n", writer.Dir())
	}
}
