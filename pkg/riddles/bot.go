// Package riddles adapts the engine to the line protocol of the
// Riddles.io Ultimate Tic-Tac-Toe competition.
package riddles

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/engine"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMalformedLine  = errors.New("riddles: malformed line")
	ErrUnknownCommand = errors.New("riddles: unknown command")
	ErrNotReady       = errors.New("riddles: no field received yet")
)

const DefaultTimePerMove = 500 * time.Millisecond

// Settings sent once by the host before the first round
type Settings struct {
	Timebank    time.Duration
	TimePerMove time.Duration
	PlayerNames []string
	YourBot     string
	YourBotID   int
	// Side played by the bot, bot id 0 moves first and plays X
	Me uttt.Player
}

type Bot struct {
	engine   *engine.Engine
	out      io.Writer
	logger   zerolog.Logger
	session  string
	settings Settings

	fallback  time.Duration
	round     int
	move      int
	subBoards [9]uttt.SubBoard
	macro     uttt.MacroStatus
	hasField  bool
}

type Option func(*Bot)

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// Time per move used until the host sends its settings
func WithDefaultTimePerMove(d time.Duration) Option {
	return func(b *Bot) {
		if d > 0 {
			b.fallback = d
		}
	}
}

// NewBot answers the host's move requests with moves chosen by e,
// writing the commands to out.
func NewBot(e *engine.Engine, out io.Writer, opts ...Option) *Bot {
	b := &Bot{
		engine:   e,
		out:      out,
		logger:   zerolog.Nop(),
		session:  uuid.NewString(),
		fallback: DefaultTimePerMove,
		round:    1,
		settings: Settings{Me: uttt.X},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With().Str("session", b.session).Logger()
	return b
}

func (b *Bot) Settings() Settings {
	return b.settings
}

func (b *Bot) Session() string {
	return b.session
}

// Run processes the host's lines until the input ends or ctx is done.
// Bad lines are logged and skipped. Lines are read on a separate goroutine,
// which stays blocked on r after cancellation until r returns.
func (b *Bot) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return ctx.Err()
				}
			}
			line = l
		}

		err := b.Input(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			return err
		default:
			b.logger.Error().Err(err).Str("line", line).Msg("input rejected")
		}
	}
}

// Input handles a single line of the protocol
func (b *Bot) Input(ctx context.Context, line string) error {
	command := strings.Fields(line)
	if len(command) == 0 {
		return nil
	}

	switch {
	case command[0] == "settings" && len(command) == 3:
		return b.setting(command[1], command[2])
	case command[0] == "update" && len(command) == 4 && command[1] == "game":
		return b.update(command[2], command[3])
	case command[0] == "action" && len(command) == 3 && command[1] == "move":
		timebank, err := strconv.Atoi(command[2])
		if err == nil && timebank < 0 {
			err = errors.New("negative timebank")
		}
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
		}
		return b.Move(ctx, time.Duration(timebank)*time.Millisecond)
	case command[0] == "settings", command[0] == "update", command[0] == "action":
		return fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, line)
}

func (b *Bot) setting(key, value string) error {
	switch key {
	case "timebank", "time_per_move":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: %s %q", ErrMalformedLine, key, value)
		}
		if key == "timebank" {
			b.settings.Timebank = time.Duration(ms) * time.Millisecond
		} else {
			b.settings.TimePerMove = time.Duration(ms) * time.Millisecond
		}
	case "player_names":
		b.settings.PlayerNames = strings.Split(value, ",")
	case "your_bot":
		b.settings.YourBot = value
	case "your_botid":
		id, err := strconv.Atoi(value)
		if err != nil || (id != 0 && id != 1) {
			return fmt.Errorf("%w: your_botid %q", ErrMalformedLine, value)
		}
		b.settings.YourBotID = id
		b.settings.Me = botPlayer(id)
	default:
		return fmt.Errorf("%w: settings %s", ErrUnknownCommand, key)
	}
	return nil
}

func (b *Bot) update(key, value string) error {
	switch key {
	case "round", "move":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s %q", ErrMalformedLine, key, value)
		}
		if key == "round" {
			b.round = n
		} else {
			b.move = n
		}
	case "field":
		subBoards, err := parseField(value)
		if err != nil {
			return err
		}
		b.subBoards = subBoards
		b.hasField = true
	case "macroboard":
		macro, err := parseMacroboard(value)
		if err != nil {
			return err
		}
		b.macro = macro
	default:
		return fmt.Errorf("%w: update game %s", ErrUnknownCommand, key)
	}
	return nil
}

// State rebuilds the game from the last reported field, the bot is on turn
func (b *Bot) State() (uttt.GameState, error) {
	if !b.hasField {
		return uttt.GameState{}, ErrNotReady
	}
	me := b.settings.Me
	return uttt.NewState(b.subBoards, b.macro, me, me, b.round), nil
}

// Budget for the next move. The timebank is spread over the moves the bot
// can still be asked for, on top of the fixed time per move, and the result
// never exceeds the timebank. A negative timebank means none was reported.
func (b *Bot) Budget(a *engine.AssessedState, timebank time.Duration) time.Duration {
	if timebank < 0 {
		if b.settings.TimePerMove > 0 {
			return b.settings.TimePerMove
		}
		return b.fallback
	}

	remaining := max((a.MaxMovesRemaining+1)/2, 1)
	budget := b.settings.TimePerMove + timebank/time.Duration(remaining)
	return min(budget, timebank)
}

// Move answers an action request, timebank is the time the bot has left
func (b *Bot) Move(ctx context.Context, timebank time.Duration) error {
	state, err := b.State()
	if err != nil {
		return err
	}

	assessed := engine.AssessState(state)
	budget := b.Budget(assessed, timebank)
	b.logger.Info().
		Int("round", b.round).
		Int("plies", state.Plies).
		Str("me", state.Me.String()).
		Dur("budget", budget).
		Msg("starting move search")

	move, err := b.engine.FindBestMove(ctx, assessed, budget)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(b.out, "place_move %d %d\n", move.X, move.Y)
	return err
}

func botPlayer(id int) uttt.Player {
	if id == 0 {
		return uttt.X
	}
	return uttt.O
}

func parsePlayer(value string) (uttt.Player, bool) {
	switch value {
	case ".":
		return uttt.NoOne, true
	case "0":
		return botPlayer(0), true
	case "1":
		return botPlayer(1), true
	}
	return uttt.NoOne, false
}

// Row-major 9x9 board
func parseField(value string) ([9]uttt.SubBoard, error) {
	var subBoards [9]uttt.SubBoard

	fields := strings.Split(value, ",")
	if len(fields) != 81 {
		return subBoards, fmt.Errorf("%w: field has %d values, expected 81", ErrMalformedLine, len(fields))
	}

	for i, f := range fields {
		p, ok := parsePlayer(f)
		if !ok {
			return subBoards, fmt.Errorf("%w: field value %q", ErrMalformedLine, f)
		}
		m := uttt.Move{X: i % 9, Y: i / 9}
		subBoards[m.MacroIndex()][m.CellIndex()] = p
	}
	return subBoards, nil
}

func parseMacroboard(value string) (uttt.MacroStatus, error) {
	var macro uttt.MacroStatus

	fields := strings.Split(value, ",")
	if len(fields) != 9 {
		return macro, fmt.Errorf("%w: macroboard has %d values, expected 9", ErrMalformedLine, len(fields))
	}

	for i, f := range fields {
		if f == "-1" {
			macro[i] = uttt.Active
			continue
		}
		p, ok := parsePlayer(f)
		if !ok {
			return macro, fmt.Errorf("%w: macroboard value %q", ErrMalformedLine, f)
		}
		macro[i] = p
	}
	return macro, nil
}
