package record

/*
Covers:
- save and load of a replay through the sqlite archive
- a stored replay reproducing the archived game on the same seed
- lookups of unknown game ids
- listing recent games newest first
- reopening a file-backed archive
*/

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"catan/game"
)

// playGame advances a deterministic game and returns the applied actions.
func playGame(t *testing.T, seed uint64, ticks int) ([]game.Action, *game.State) {
	t.Helper()
	s := game.NewState(game.DefaultConfiguration(), seed)
	var replay []game.Action
	for i := 0; i < ticks; i++ {
		actions := s.PlayableActions()
		if len(actions) == 0 {
			break
		}
		a := actions[s.Tick()%len(actions)]
		require.NoError(t, s.Apply(a))
		replay = append(replay, a)
	}
	return replay, s
}

func TestStoreRoundtrip(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	const seed = 17
	replay, final := playGame(t, seed, 120)
	rec := GameRecord{
		ID:         "game-1",
		CreatedAt:  time.Now(),
		Seed:       seed,
		NumPlayers: final.NumPlayers(),
		Players:    "RRRR",
		Winner:     game.NoColor,
		Actions:    len(replay),
	}
	require.NoError(t, store.SaveGame(rec, replay))

	t.Run("replay round trip", func(t *testing.T) {
		loaded, err := store.LoadReplay("game-1")
		require.NoError(t, err)
		require.Equal(t, replay, loaded)
	})

	t.Run("replay reproduces the game", func(t *testing.T) {
		loaded, err := store.LoadReplay("game-1")
		require.NoError(t, err)

		s := game.NewState(game.DefaultConfiguration(), seed)
		for _, a := range loaded {
			require.NoError(t, s.Apply(a))
		}
		require.Equal(t, final.Tick(), s.Tick())
		require.Equal(t, final.CurrentColor(), s.CurrentColor())
		require.Equal(t, final.LastRoll(), s.LastRoll())
		require.Equal(t, final.BankResources(), s.BankResources())
		for c := game.Color(0); int(c) < s.NumPlayers(); c++ {
			require.Equal(t, final.PlayerHand(c), s.PlayerHand(c))
			require.Equal(t, final.ActualVPs(c), s.ActualVPs(c))
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.LoadReplay("no-such-game")
		require.Error(t, err)
		require.Equal(t, game.ErrGameNotFound, game.KindOf(err))
	})
}

func TestListGames(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	base := time.Unix(1_700_000_000, 0)
	for i, id := range []string{"old", "mid", "new"} {
		rec := GameRecord{
			ID:         id,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			Seed:       uint64(i),
			NumPlayers: 4,
			Players:    "RRRR",
			Winner:     game.Color(i % 4),
			Actions:    i * 10,
		}
		require.NoError(t, store.SaveGame(rec, []game.Action{{Kind: game.ActionEndTurn}}))
	}

	recent, err := store.ListGames(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "new", recent[0].ID)
	require.Equal(t, "mid", recent[1].ID)
	require.Equal(t, base.Add(2*time.Hour).Unix(), recent[0].CreatedAt.Unix())
	require.Equal(t, "RRRR", recent[0].Players)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	store, err := Open(path)
	require.NoError(t, err)
	rec := GameRecord{ID: "persisted", CreatedAt: time.Now(), NumPlayers: 4, Players: "WWWW", Winner: 1, Actions: 1}
	require.NoError(t, store.SaveGame(rec, []game.Action{{Kind: game.ActionRoll}}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	replay, err := reopened.LoadReplay("persisted")
	require.NoError(t, err)
	require.Equal(t, []game.Action{{Kind: game.ActionRoll}}, replay)

	games, err := reopened.ListGames(10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "persisted", games[0].ID)
}
