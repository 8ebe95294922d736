package main

/*

Ultimate Tic-Tac-Toe bot

Plays on the Riddles.io line protocol over stdin/stdout, logs go to stderr.
With -position the bot analyzes a single position given in notation instead.

*/

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/config"
	"github.com/IlikeChooros/uttt-bot/pkg/engine"
	"github.com/IlikeChooros/uttt-bot/pkg/render"
	"github.com/IlikeChooros/uttt-bot/pkg/riddles"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config, the environment is used when empty")
	position := flag.String("position", "", "analyze a single position given in notation and exit")
	movetime := flag.Duration("movetime", 0, "time budget for -position, defaults to the configured time per move")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	logger, err := conf.Logger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := newEngine(conf, logger)
	if *position != "" {
		budget := *movetime
		if budget <= 0 {
			budget = conf.Search.DefaultTimePerMove()
		}
		err = analyze(ctx, e, conf, *position, budget)
	} else {
		bot := riddles.NewBot(e, os.Stdout,
			riddles.WithLogger(logger),
			riddles.WithDefaultTimePerMove(conf.Search.DefaultTimePerMove()))
		logger.Info().Str("session", bot.Session()).Msg("bot ready")
		err = bot.Run(ctx, os.Stdin)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("bot failed")
	}
}

func newEngine(conf *config.Config, logger zerolog.Logger) *engine.Engine {
	opts := []engine.Option{
		engine.WithThreads(conf.Search.Threads),
		engine.WithMinSearchRound(conf.Search.MinRound),
		engine.WithMaxDepth(conf.Search.MaxDepth),
		engine.WithSafetyMargin(conf.Search.SafetyMargin()),
		engine.WithListener(engine.LogListener(logger)),
	}
	if conf.Seed != 0 {
		opts = append(opts, engine.WithChooser(engine.SeededChooser(conf.Seed)))
	}
	return engine.New(opts...)
}

func analyze(ctx context.Context, e *engine.Engine, conf *config.Config, notation string, budget time.Duration) error {
	state, err := uttt.ParseNotation(notation)
	if err != nil {
		return err
	}

	opts := render.DefaultOptions()
	opts.Profile = termenv.Ascii
	if conf.Render.Color {
		opts.Profile = termenv.EnvColorProfile()
	}

	move, err := e.Decide(ctx, state, budget)
	if err != nil {
		return err
	}

	opts.LastMove = move
	if err := render.Board(os.Stderr, state.Apply(move), opts); err != nil {
		return err
	}
	fmt.Println(move)
	return nil
}
