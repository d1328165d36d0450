package experiments

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"connect/agent"
	"connect/engine"
	"connect/experiments/metrics"
	"connect/game"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"golang.org/x/sync/errgroup"
)

// Factory builds the agent a worker uses for all of its games.
type Factory func(worker int) (agent.Agent, error)

// Matchup pits two agents against each other. They swap colors every game.
type Matchup struct {
	Name      string
	Rules     game.Rules
	Agents    [2]string
	Factories [2]Factory
}

type Report struct {
	Matchup    string
	Agents     [2]string
	Tallies    [2]metrics.Tally
	WinMargins [2]float64 // half-width of the 95% interval around the win rate
	MeanLength float64
	StdLength  float64
	Elapsed    time.Duration
	Games      []metrics.GameRecord
	Moves      []metrics.MoveRecord
}

// Evaluate plays games of matchup on workers goroutines.
func Evaluate(ctx context.Context, matchup Matchup, games, workers int) (Report, error) {
	workers = max(1, min(workers, games))
	collector := metrics.NewCollector()
	start := time.Now()

	var mu sync.Mutex
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord

	task := make(chan int, games)
	for i := 0; i < games; i++ {
		task <- i
	}
	close(task)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			var agents [2]agent.Agent
			for slot, factory := range matchup.Factories {
				a, err := factory(w)
				if err != nil {
					return fmt.Errorf("worker %d agent %s: %w", w, matchup.Agents[slot], err)
				}
				agents[slot] = a
			}

			for i := range task {
				if err := ctx.Err(); err != nil {
					return err
				}

				// Slot 0 plays O on even games.
				first, second := 0, 1
				if i%2 == 1 {
					first, second = 1, 0
				}
				result, err := engine.NewLocalEngine(matchup.Rules, []agent.Agent{agents[first], agents[second]}).Run()
				if err != nil {
					return fmt.Errorf("game %d: %w", i+1, err)
				}

				var colors [2]game.Color
				colors[first], colors[second] = result.Colors[0], result.Colors[1]
				collector.Add(colors, result.Game, result.Moves)

				mu.Lock()
				gameRecords = append(gameRecords, metrics.GameRecord{
					ID:         i + 1,
					Agent1:     matchup.Agents[0],
					Agent2:     matchup.Agents[1],
					Colors:     [2]string{colors[0].String(), colors[1].String()},
					GameMetric: result.Game,
				})
				for _, mm := range result.Moves {
					moveRecords = append(moveRecords, metrics.MoveRecord{Game: i + 1, MoveMetric: mm})
				}
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	slices.SortFunc(gameRecords, func(a, b metrics.GameRecord) int { return a.ID - b.ID })
	slices.SortStableFunc(moveRecords, func(a, b metrics.MoveRecord) int { return a.Game - b.Game })

	report := Report{
		Matchup: matchup.Name,
		Agents:  matchup.Agents,
		Elapsed: time.Since(start),
		Games:   gameRecords,
		Moves:   moveRecords,
	}
	report.MeanLength, report.StdLength = stat.MeanStdDev(collector.Lengths(), nil)
	for slot := range report.Tallies {
		report.Tallies[slot] = collector.Tally(slot)
		report.WinMargins[slot] = margin(report.Tallies[slot].WinRate(), report.Tallies[slot].Games, 95)
	}
	return report, nil
}

// margin is the normal-approximation half-width of a confidence interval for
// a proportion p observed over n trials.
func margin(p float64, n int, confidence float64) float64 {
	if n == 0 {
		return 0
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + confidence/100) / 2)
	return z * math.Sqrt(p*(1-p)/float64(n))
}

// Run evaluates every matchup in turn and stores the records under dir.
func Run(ctx context.Context, name, dir string, matchups []Matchup, games, workers int) ([]Report, error) {
	log.Info().Msgf("starting %s experiment...", name)

	var reports []Report
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	var summary []metrics.SummaryRecord

	for mi, matchup := range matchups {
		log.Info().Msgf("starting matchup %d of %d: %s vs %s...", mi+1, len(matchups), matchup.Agents[0], matchup.Agents[1])

		report, err := Evaluate(ctx, matchup, games, workers)
		if err != nil {
			return reports, fmt.Errorf("matchup %s: %w", matchup.Name, err)
		}
		reports = append(reports, report)

		// Number games across matchups.
		offset := len(gameRecords)
		for _, record := range report.Games {
			record.ID += offset
			gameRecords = append(gameRecords, record)
		}
		for _, record := range report.Moves {
			record.Game += offset
			moveRecords = append(moveRecords, record)
		}
		for slot, tally := range report.Tallies {
			summary = append(summary, metrics.SummaryRecord{Agent: fmt.Sprintf("%s/%s", matchup.Name, matchup.Agents[slot]), Tally: tally})
		}

		for slot := range report.Tallies {
			t := report.Tallies[slot]
			log.Info().Msgf("%s: wins %d (%.3f ± %.3f), losses %d, ties %d, flagged %.4f",
				matchup.Agents[slot], t.Wins, t.WinRate(), report.WinMargins[slot], t.Losses, t.Ties, t.FlaggedRate())
		}
		log.Info().Msgf("completed matchup %d of %d in %s, mean length %.2f ± %.2f",
			mi+1, len(matchups), report.Elapsed, report.MeanLength, report.StdLength)
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return reports, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return reports, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return reports, fmt.Errorf("failed to write move records: %w", err)
	}
	if err := writer.WriteSummary(summary); err != nil {
		return reports, fmt.Errorf("failed to write summary: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())

	return reports, nil
}
