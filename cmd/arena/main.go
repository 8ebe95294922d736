package main

/*

Ultimate Tic-Tac-Toe arena

Plays a series of games between two players and prints the summary,
players are one of: engine, random, local.

*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IlikeChooros/uttt-bot/pkg/bench"
	"github.com/IlikeChooros/uttt-bot/pkg/config"
	"github.com/IlikeChooros/uttt-bot/pkg/engine"
	"github.com/IlikeChooros/uttt-bot/pkg/render"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config, the environment is used when empty")
	p1Name := flag.String("p1", "engine", "first player")
	p2Name := flag.String("p2", "random", "second player")
	live := flag.Bool("live", false, "redraw the worker progress in place")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	logger, err := conf.Logger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p1, err := newPlayer(*p1Name, conf, logger)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	p2, err := newPlayer(*p2Name, conf, logger)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	profile := termenv.Ascii
	if conf.Render.Color {
		profile = termenv.EnvColorProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arena := bench.NewVersusArena(p1, p2).
		Setup(conf.Arena.Movetime(), conf.Arena.Games, conf.Arena.Workers).
		WithLogger(logger)
	_, err = arena.Run(ctx, bench.NewConsoleListener(os.Stdout, profile, *live))

	if games := arena.Games(); len(games) > 0 {
		last := games[len(games)-1]
		opts := render.DefaultOptions()
		opts.Profile = profile
		opts.LastMove = last.Moves[len(last.Moves)-1]
		opts.Notation = true

		fmt.Printf("\nLast game %s\n", last.ID)
		if err := render.Board(os.Stdout, last.Final, opts); err != nil {
			logger.Error().Err(err).Msg("rendering the last game")
		}
	}

	if err != nil {
		logger.Fatal().Err(err).Msg("arena stopped")
	}
}

func newPlayer(name string, conf *config.Config, logger zerolog.Logger) (bench.Player, error) {
	switch name {
	case "engine":
		opts := []engine.Option{
			engine.WithThreads(conf.Search.Threads),
			engine.WithMinSearchRound(conf.Search.MinRound),
			engine.WithMaxDepth(conf.Search.MaxDepth),
			engine.WithSafetyMargin(conf.Search.SafetyMargin()),
			engine.WithListener(engine.LogListener(logger.With().Str("player", name).Logger())),
		}
		return bench.NewEnginePlayer(name, engine.New(opts...)), nil
	case "random":
		return bench.RandomPlayer{}, nil
	case "local":
		return bench.LocalPlayer{}, nil
	}
	return nil, fmt.Errorf("unknown player %q, expected engine, random or local", name)
}
