package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID     int
	Agent1 string
	Agent2 string
	Colors [2]string // color played by Agent1 and Agent2
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type SummaryRecord struct {
	Agent string
	Tally
}

type Writer struct {
	baseDir string
}

// NewWriter creates dir/name/<timestamp> to hold the CSV files of one run.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "agent1_color", "agent2_color", "starting_player", "winner", "forfeit", "start_time", "duration", "moves"}
	return w.write("game_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.ID),
			record.Agent1,
			record.Agent2,
			record.Colors[0],
			record.Colors[1],
			record.StartingPlayer.String(),
			record.Winner.String(),
			strconv.FormatBool(record.Forfeit),
			record.StartTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "duration", "illegal", "missed_win", "failed_block"}
	return w.write("move_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			strconv.Itoa(int(record.Move)),
			record.Duration.String(),
			strconv.FormatBool(record.Illegal),
			strconv.FormatBool(record.MissedWin),
			strconv.FormatBool(record.FailedBlock),
		}
	})
}

func (w *Writer) WriteSummary(records []SummaryRecord) error {
	header := []string{"agent", "games", "wins", "losses", "ties", "moves", "illegal", "missed_wins", "failed_blocks"}
	return w.write("summary.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			record.Agent,
			strconv.Itoa(record.Games),
			strconv.Itoa(record.Wins),
			strconv.Itoa(record.Losses),
			strconv.Itoa(record.Ties),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.Illegal),
			strconv.Itoa(record.MissedWins),
			strconv.Itoa(record.FailedBlock),
		}
	})
}

func (w *Writer) write(name string, header []string, n int, row func(i int) []string) (err error) {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	writer := csv.NewWriter(f)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type ThroughputRecord struct {
	Batch             int
	Episodes          int
	Duration          time.Duration
	EpisodesPerSecond float64
	TableSize         int
}

func (w *Writer) WriteThroughput(records []ThroughputRecord) error {
	header := []string{"batch", "episodes", "duration", "episodes_per_second", "table_size"}
	return w.write("throughput.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.Batch),
			strconv.Itoa(record.Episodes),
			record.Duration.String(),
			strconv.FormatFloat(record.EpisodesPerSecond, 'f', 1, 64),
			strconv.Itoa(record.TableSize),
		}
	})
}
