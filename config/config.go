package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"connect/meta"

	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Training struct {
		Episodes     int     `mapstructure:"episodes"`
		Epsilon      float64 `mapstructure:"epsilon"`
		LearningRate float64 `mapstructure:"learning_rate"`
		Discount     float64 `mapstructure:"discount"`
		Seed         uint64  `mapstructure:"seed"`
		Opponent     string  `mapstructure:"opponent"` // "self" or "random"
	} `mapstructure:"training"`

	Evaluation struct {
		Games      int    `mapstructure:"games"`
		Goroutines int    `mapstructure:"goroutines"`
		OutputDir  string `mapstructure:"output_dir"`
	} `mapstructure:"evaluation"`

	MCTS struct {
		Goroutines int           `mapstructure:"goroutines"`
		Episodes   int           `mapstructure:"episodes"`
		Duration   time.Duration `mapstructure:"duration"`
		Cutoff     int           `mapstructure:"cutoff"`
	} `mapstructure:"mcts"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
}

// Load reads configuration from defaults, an optional file at path and
// CONNECT_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("connect")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("training.episodes", meta.TrainingEpisodes)
	v.SetDefault("training.epsilon", meta.Epsilon)
	v.SetDefault("training.learning_rate", meta.LearningRate)
	v.SetDefault("training.discount", meta.Discount)
	v.SetDefault("training.seed", 1)
	v.SetDefault("training.opponent", "self")

	v.SetDefault("evaluation.games", meta.EvaluationGames)
	v.SetDefault("evaluation.goroutines", meta.Goroutines)
	v.SetDefault("evaluation.output_dir", "")

	v.SetDefault("mcts.goroutines", meta.Goroutines)
	v.SetDefault("mcts.episodes", meta.MCTSEpisodes)
	v.SetDefault("mcts.duration", time.Duration(0))
	v.SetDefault("mcts.cutoff", meta.MCTSCutoff)

	v.SetDefault("server.addr", meta.ServerAddr)
}

func (c *Config) validate() error {
	switch {
	case c.Training.Epsilon < 0 || c.Training.Epsilon > 1:
		return fmt.Errorf("training.epsilon must be within [0, 1], got %v", c.Training.Epsilon)
	case c.Training.LearningRate <= 0 || c.Training.LearningRate > 1:
		return fmt.Errorf("training.learning_rate must be within (0, 1], got %v", c.Training.LearningRate)
	case c.Training.Discount < 0 || c.Training.Discount > 1:
		return fmt.Errorf("training.discount must be within [0, 1], got %v", c.Training.Discount)
	case c.Training.Opponent != "self" && c.Training.Opponent != "random":
		return fmt.Errorf("training.opponent must be self or random, got %q", c.Training.Opponent)
	}
	return nil
}
