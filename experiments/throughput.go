package experiments

import (
	"time"

	"connect/experiments/metrics"
	"connect/learner"

	"github.com/rs/zerolog/log"
)

// RunTrainingThroughput trains l for batches of batchSize episodes and
// measures the speed and table growth of each batch.
func RunTrainingThroughput(l *learner.Agent, batches, batchSize int) ([]metrics.ThroughputRecord, error) {
	log.Info().Msgf("starting throughput experiment with %d batches of %d episodes...", batches, batchSize)

	records := make([]metrics.ThroughputRecord, 0, batches)
	for batch := 1; batch <= batches; batch++ {
		start := time.Now()
		for i := 0; i < batchSize; i++ {
			if _, err := l.TrainEpisode(); err != nil {
				return records, err
			}
		}
		elapsed := time.Since(start)

		record := metrics.ThroughputRecord{
			Batch:     batch,
			Episodes:  l.Episodes(),
			Duration:  elapsed,
			TableSize: l.Size(),
		}
		if elapsed > 0 {
			record.EpisodesPerSecond = float64(batchSize) / elapsed.Seconds()
		}
		records = append(records, record)

		log.Debug().Msgf("batch %d: %.0f episodes/s, %d entries", batch, record.EpisodesPerSecond, record.TableSize)
	}

	log.Info().Msg("completed throughput experiment")
	return records, nil
}
