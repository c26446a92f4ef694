package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"catan/game"
)

// GameRecord is one game's row in the matchup CSV.
type GameRecord struct {
	ID       int
	Seed     uint64
	Players  string
	Winner   game.Color
	Actions  int
	Duration time.Duration
}

// Writer emits experiment CSVs into a timestamped directory so repeated
// runs never clobber each other.
type Writer struct {
	baseDir string
}

func NewWriter(root string) (*Writer, error) {
	baseDir := filepath.Join(root, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create experiment directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.FormatUint(r.Seed, 10),
			r.Players,
			strconv.Itoa(int(r.Winner)),
			strconv.Itoa(r.Actions),
			r.Duration.String(),
		})
	}
	header := []string{"id", "seed", "players", "winner", "actions", "duration"}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Goroutines),
			r.Budget.String(),
			strconv.FormatInt(r.Episodes, 10),
			strconv.FormatInt(r.FullPlayouts, 10),
			strconv.FormatFloat(r.EpisodesPerSec, 'f', 1, 64),
		})
	}
	header := []string{"goroutines", "budget", "episodes", "full_playouts", "episodes_per_sec"}
	return w.writeCSV("throughput_records.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write %s row: %w", name, err)
		}
	}
	return nil
}
