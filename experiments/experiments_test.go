package experiments

/*
Covers:
- a small random-bot matchup producing consistent aggregates
- archiving matchup games through the record store
- CSV output layout for game and throughput records
- unknown strategy letters failing fast
*/

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"catan/record"
)

func TestRun(t *testing.T) {
	store, err := record.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	m := Matchup{Players: "RRRR", Games: 3, Seed: 9}
	summary, err := Run(m, Options{Store: store})
	require.NoError(t, err)

	wins := summary.Draws
	for _, w := range summary.Wins {
		wins += w
	}
	require.Equal(t, m.Games, wins, "every game ends in a win or a draw")
	require.Len(t, summary.Records, m.Games)
	require.Greater(t, summary.TotalActions, 0)
	for i, rec := range summary.Records {
		require.Equal(t, i, rec.ID)
		require.Equal(t, m.Seed+uint64(i), rec.Seed)
		require.Equal(t, "RRRR", rec.Players)
		require.Greater(t, rec.Actions, 0)
	}

	archived, err := store.ListGames(10)
	require.NoError(t, err)
	require.Len(t, archived, m.Games)

	t.Run("unknown strategy letter", func(t *testing.T) {
		_, err := Run(Matchup{Players: "RX", Games: 1, Seed: 1}, Options{})
		require.Error(t, err)
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root)
	require.NoError(t, err)
	require.DirExists(t, w.Dir())
	require.Equal(t, root, filepath.Dir(w.Dir()))

	t.Run("game records", func(t *testing.T) {
		records := []GameRecord{
			{ID: 0, Seed: 5, Players: "RRWW", Winner: 2, Actions: 140, Duration: 80 * time.Millisecond},
			{ID: 1, Seed: 6, Players: "RRWW", Winner: -1, Actions: 2000, Duration: time.Second},
		}
		require.NoError(t, w.WriteGameRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{"id", "seed", "players", "winner", "actions", "duration"}, rows[0])
		require.Equal(t, []string{"0", "5", "RRWW", "2", "140", "80ms"}, rows[1])
		require.Equal(t, []string{"1", "6", "RRWW", "-1", "2000", "1s"}, rows[2])
	})

	t.Run("throughput records", func(t *testing.T) {
		records := []ThroughputRecord{
			{Goroutines: 8, Budget: time.Second, Episodes: 4000, FullPlayouts: 1200, EpisodesPerSec: 4000.0},
		}
		require.NoError(t, w.WriteThroughputRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "throughput_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"goroutines", "budget", "episodes", "full_playouts", "episodes_per_sec"}, rows[0])
		require.Equal(t, "8", rows[1][0])
		require.Equal(t, "4000.0", rows[1][4])
	})
}
