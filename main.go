package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trimatch/communication/client"
	"trimatch/communication/server"
	"trimatch/engine"
	"trimatch/experiments"
	"trimatch/game"
	"trimatch/gamemaster"
	"trimatch/meta"
	"trimatch/player"
	"trimatch/searcher"
	"trimatch/searcher/agent"
)

func main() {
	cfg, err := meta.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mode := flag.String("mode", "play", "play, serve, experiment or remote")
	gameMode := flag.String("game", "computer", "play mode: computer or two-human")
	experimentName := flag.String("experiment", "difficulty", "experiment mode: difficulty or throughput")
	serverURL := flag.String("server", "http://localhost:8080", "remote mode: game server URL")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "serve mode: listen address")
	flag.IntVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "AI lookahead depth")
	flag.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "goroutines for root move scoring")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 for a random one")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "experiment output directory")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "games per experiment matchup or remote run")
	flag.Parse()
	cfg.Difficulty = meta.ClampDifficulty(cfg.Difficulty)

	setupLogging(cfg.LogLevel)

	switch *mode {
	case "play":
		err = play(cfg, *gameMode)
	case "serve":
		err = serve(cfg)
	case "experiment":
		err = experiment(cfg, *experimentName)
	case "remote":
		err = remote(cfg, *serverURL)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func newAgent(cfg meta.Config) *agent.MinimaxAgent {
	options := []agent.Option{
		agent.WithSearcher(searcher.NewSearcher(searcher.WithGoroutines(cfg.Goroutines))),
		agent.WithDifficulty(cfg.Difficulty),
	}
	if cfg.Seed != 0 {
		options = append(options, agent.WithSeed(cfg.Seed))
	}
	return agent.NewMinimaxAgent(options...)
}

func play(cfg meta.Config, gameMode string) error {
	mode, err := engine.ParseMode(gameMode)
	if err != nil {
		return err
	}
	session := engine.NewSession(engine.WithMode(mode), engine.WithAgent(newAgent(cfg)))
	fmt.Println("Welcome to TriMatch! Enter '?' for help.")
	return player.NewPlayer(session, os.Stdin, os.Stdout, termenv.WithColorCache(true)).Play()
}

func serve(cfg meta.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.NewServerCommunicator(gamemaster.NewGameMaster(), cfg.Goroutines).Start(ctx, cfg.Addr)
}

func experiment(cfg meta.Config, name string) error {
	opts := experiments.Options{OutputDir: cfg.OutputDir, Games: cfg.Games, Goroutines: cfg.Goroutines, Seed: cfg.Seed}
	var err error
	switch name {
	case "difficulty":
		_, err = experiments.RunDifficultyExperiment(opts)
	case "throughput":
		_, err = experiments.RunThroughputExperiment(opts, cfg.Difficulty)
	default:
		err = fmt.Errorf("unknown experiment %q", name)
	}
	return err
}

// remote plays a local agent as the human against the computer of a running server.
func remote(cfg meta.Config, serverURL string) error {
	comm := client.NewClientCommunicator(serverURL, &http.Client{Timeout: time.Minute})
	wins := 0
	for i := 0; i < cfg.Games; i++ {
		starting := game.Player1
		if i%2 == 1 {
			starting = game.Player2
		}
		gameMetric, _, err := engine.NewRemoteEngine(comm, newAgent(cfg), starting, cfg.Difficulty).Run()
		if err != nil {
			return err
		}
		if gameMetric.Winner == int(engine.Human) {
			wins++
		}
		log.Info().Msgf("game %d: %s after %d moves, winner %d", i+1, gameMetric.Outcome, gameMetric.TotalMoves, gameMetric.Winner)
	}
	log.Info().Msgf("local agent won %d of %d games", wins, cfg.Games)
	return nil
}
