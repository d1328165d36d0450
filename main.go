package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"connect/agent"
	"connect/config"
	"connect/experiments"
	"connect/experiments/metrics"
	"connect/game"
	"connect/learner"
	"connect/searcher"
	"connect/shell"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: connect [-config file] <command> [flags]

commands:
  play      play against an agent in the terminal
  train     train the Q-learning agent and report its strength
  evaluate  run evaluation match-ups and write CSV reports
  serve     serve agents over HTTP`

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command, args := flag.Arg(0), flag.Args()[1:]
	switch command {
	case "play":
		err = runPlay(cfg, args)
	case "train":
		err = runTrain(ctx, cfg, args)
	case "evaluate":
		err = runEvaluate(ctx, cfg, args)
	case "serve":
		err = runServe(cfg, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", command)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func runPlay(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	gameName := fs.String("game", "ttt", "Game to play: ttt or c4")
	opponent := fs.String("opponent", "optimal", "Opponent: optimal, learned, random, mcts or human")
	side := fs.String("side", "O", "Side the human plays: O or X")
	fs.Parse(args)

	rules, err := game.RulesNamed(*gameName)
	if err != nil {
		return err
	}
	human := game.O
	if strings.EqualFold(*side, "x") {
		human = game.X
	}

	var a agent.Agent
	if *opponent != "human" {
		if a, err = newAgent(cfg, *opponent, rules, 0); err != nil {
			return err
		}
	}

	controller, err := shell.NewController(shell.NewSession(rules, human, a, os.Stdout))
	if err != nil {
		return err
	}
	return controller.Loop()
}

func runTrain(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	episodes := fs.Int("episodes", cfg.Training.Episodes, "Number of training episodes")
	opponent := fs.String("opponent", cfg.Training.Opponent, "Training opponent: self or random")
	batches := fs.Int("batches", 0, "Measure throughput over this many batches instead of one run")
	games := fs.Int("games", cfg.Evaluation.Games, "Evaluation games against a random mover after training")
	fs.Parse(args)

	cfg.Training.Episodes = *episodes
	cfg.Training.Opponent = *opponent

	if *batches > 0 {
		l := newLearner(cfg)
		records, err := experiments.RunTrainingThroughput(l, *batches, max(1, *episodes / *batches))
		if err != nil {
			return err
		}
		return writeThroughput(cfg, records)
	}

	l, err := trainLearner(cfg)
	if err != nil {
		return err
	}
	matchup := experiments.Matchup{
		Name:   "learned_vs_random",
		Rules:  game.TicTacToe,
		Agents: [2]string{"learned", "random"},
		Factories: [2]experiments.Factory{
			func(int) (agent.Agent, error) { return agent.NewLearned(l), nil },
			func(worker int) (agent.Agent, error) { return agent.NewRandom(cfg.Training.Seed + uint64(worker) + 1), nil },
		},
	}
	report, err := experiments.Evaluate(ctx, matchup, *games, cfg.Evaluation.Goroutines)
	if err != nil {
		return err
	}
	t := report.Tallies[0]
	log.Info().Msgf("learned agent: wins %d, losses %d, ties %d, flagged moves %.4f", t.Wins, t.Losses, t.Ties, t.FlaggedRate())
	return nil
}

func runEvaluate(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	gameName := fs.String("game", "ttt", "Game to evaluate: ttt or c4")
	games := fs.Int("games", cfg.Evaluation.Games, "Games per match-up")
	dir := fs.String("dir", cfg.Evaluation.OutputDir, "Output directory for CSV reports")
	fs.Parse(args)

	rules, err := game.RulesNamed(*gameName)
	if err != nil {
		return err
	}
	if *dir == "" {
		*dir = "experiments"
	}

	var pairs [][2]string
	if rules == game.TicTacToe {
		pairs = [][2]string{{"optimal", "random"}, {"learned", "random"}, {"optimal", "learned"}}
	} else {
		pairs = [][2]string{{"mcts", "random"}}
	}

	shared := map[string]agent.Agent{}
	for _, pair := range pairs {
		for _, name := range pair {
			if _, ok := shared[name]; ok || name == "random" || name == "mcts" {
				continue
			}
			a, err := newAgent(cfg, name, rules, 0)
			if err != nil {
				return err
			}
			shared[name] = a
		}
	}

	var matchups []experiments.Matchup
	for _, pair := range pairs {
		matchup := experiments.Matchup{
			Name:   pair[0] + "_vs_" + pair[1],
			Rules:  rules,
			Agents: pair,
		}
		for slot, name := range pair {
			matchup.Factories[slot] = factory(cfg, name, rules, shared)
		}
		matchups = append(matchups, matchup)
	}

	_, err = experiments.Run(ctx, *gameName+"_evaluation", *dir, matchups, *games, cfg.Evaluation.Goroutines)
	return err
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "Listen address")
	fs.Parse(args)

	s := agent.NewServer()
	for _, name := range []string{"optimal", "learned", "random", "mcts"} {
		a, err := newAgent(cfg, name, game.TicTacToe, 0)
		if err != nil {
			return err
		}
		s.Register("ttt", name, a)
	}
	for _, name := range []string{"random", "mcts"} {
		a, err := newAgent(cfg, name, game.ConnectFour, 0)
		if err != nil {
			return err
		}
		s.Register("c4", name, a)
	}
	return s.Run(*addr)
}

// factory builds per-worker agents. Solver and learned agents are read-only
// once built, so workers share one instance.
func factory(cfg *config.Config, name string, rules game.Rules, shared map[string]agent.Agent) experiments.Factory {
	return func(worker int) (agent.Agent, error) {
		if name == "random" || name == "mcts" {
			return newAgent(cfg, name, rules, worker)
		}
		if a, ok := shared[name]; ok {
			return a, nil
		}
		return nil, fmt.Errorf("agent %s was not prepared", name)
	}
}

func newAgent(cfg *config.Config, name string, rules game.Rules, worker int) (agent.Agent, error) {
	switch name {
	case "random":
		return agent.NewRandom(cfg.Training.Seed + uint64(worker) + 1), nil
	case "mcts":
		options := []searcher.Option{searcher.WithCutoff(cfg.MCTS.Cutoff)}
		if cfg.MCTS.Duration > 0 {
			options = append(options, searcher.WithDuration(cfg.MCTS.Duration))
		} else {
			options = append(options, searcher.WithEpisodes(cfg.MCTS.Episodes))
		}
		return agent.NewMCTS(searcher.NewMCTS(cfg.MCTS.Goroutines, options...)), nil
	}

	if rules != game.TicTacToe {
		return nil, fmt.Errorf("agent %s only plays tic-tac-toe", name)
	}
	switch name {
	case "optimal":
		return agent.NewOptimal(searcher.NewSolver(searcher.WithRules(rules))), nil
	case "learned":
		l, err := trainLearner(cfg)
		if err != nil {
			return nil, err
		}
		return agent.NewLearned(l), nil
	}
	return nil, fmt.Errorf("unknown agent %q", name)
}

func newLearner(cfg *config.Config) *learner.Agent {
	options := []learner.Option{
		learner.WithEpsilon(cfg.Training.Epsilon),
		learner.WithLearningRate(cfg.Training.LearningRate),
		learner.WithDiscount(cfg.Training.Discount),
		learner.WithSeed(cfg.Training.Seed),
	}
	if cfg.Training.Opponent == "random" {
		options = append(options, learner.WithOpponent(agent.NewRandom(cfg.Training.Seed+1)))
	}
	return learner.NewAgent(options...)
}

func trainLearner(cfg *config.Config) (*learner.Agent, error) {
	l := newLearner(cfg)
	log.Info().Msgf("training Q-learning agent for %d episodes against %s...", cfg.Training.Episodes, cfg.Training.Opponent)
	if err := l.Train(cfg.Training.Episodes); err != nil {
		return nil, err
	}
	return l, nil
}

func writeThroughput(cfg *config.Config, records []metrics.ThroughputRecord) error {
	dir := cfg.Evaluation.OutputDir
	if dir == "" {
		dir = "experiments"
	}
	w, err := metrics.NewWriter(dir, "throughput")
	if err != nil {
		return err
	}
	if err := w.WriteThroughput(records); err != nil {
		return err
	}
	log.Info().Msgf("stored throughput records in %s", w.Dir())
	return nil
}
