package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

/*
Arena benchmark subpackage, plays a series of games between two players.
Every game the side moving first is drawn at random.
*/

type VersusArena struct {
	VersusArenaStats
	Player1  Player
	Player2  Player
	NGames   int
	NWorkers int
	Movetime time.Duration
	// Every game starts here
	Position uttt.GameState
	logger   zerolog.Logger
	mu       sync.Mutex
	games    []GameRecord
}

func NewVersusArena(p1, p2 Player) *VersusArena {
	return &VersusArena{
		Player1:  p1,
		Player2:  p2,
		NGames:   100,
		NWorkers: 2,
		Movetime: time.Second,
		Position: uttt.NewGame(),
		logger:   zerolog.Nop(),
	}
}

func (va *VersusArena) Setup(movetime time.Duration, nGames, nWorkers int) *VersusArena {
	va.Movetime = movetime
	va.NGames = max(nGames, 0)
	va.NWorkers = max(nWorkers, 1)
	return va
}

func (va *VersusArena) WithLogger(logger zerolog.Logger) *VersusArena {
	va.logger = logger
	return va
}

// Finished games, in the order they ended
func (va *VersusArena) Games() []GameRecord {
	va.mu.Lock()
	defer va.mu.Unlock()
	return append([]GameRecord(nil), va.games...)
}

func (va *VersusArena) Summary() VersusSummaryInfo {
	return VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          va.workers(),
		P1Name:           va.Player1.Name(),
		P2Name:           va.Player2.Name(),
	}
}

func (va *VersusArena) workers() int {
	return max(min(va.NWorkers, va.NGames), 1)
}

// Run plays all the games, equally distributed between the workers, and
// blocks until they finish. The first failing game stops the whole run,
// the summary then covers the games finished so far.
func (va *VersusArena) Run(ctx context.Context, listener ListenerLike) (VersusSummaryInfo, error) {
	if listener == nil {
		listener = &DefaultListener{}
	}

	va.reset()
	va.mu.Lock()
	va.games = make([]GameRecord, 0, va.NGames)
	va.mu.Unlock()

	start := va.Summary()
	start.TotalGames = va.NGames
	listener.OnStart(start)

	g, ctx := errgroup.WithContext(ctx)
	nWorkers := va.workers()
	nGames, rest := va.NGames/nWorkers, va.NGames%nWorkers

	for i := range nWorkers {
		n := nGames
		if i < rest {
			n++
		}

		l := listener.Clone()
		l.SetRow(i + statsRowStart)
		g.Go(func() error {
			return va.worker(ctx, i, n, l)
		})
	}

	err := g.Wait()
	summary := va.Summary()
	listener.Summary(summary)
	listener.OnEnd()

	va.logger.Info().
		Int("games", summary.TotalGames).
		Int("p1_wins", summary.P1Wins).
		Int("p2_wins", summary.P2Wins).
		Int("draws", summary.Draws).
		Err(err).
		Msg("arena finished")
	return summary, err
}

func (va *VersusArena) worker(ctx context.Context, id, nGames int, listener ListenerLike) error {
	info := VersusWorkerInfo{
		WorkerID: id,
		NGames:   nGames,
		P1Name:   va.Player1.Name(),
		P2Name:   va.Player2.Name(),
	}

	for i := range nGames {
		game, err := va.playGame(ctx, frand.Intn(2) == 0, listener, info)
		if err != nil {
			return err
		}

		va.record(game)
		va.mu.Lock()
		va.games = append(va.games, game)
		va.mu.Unlock()

		info.FinishedGames = i + 1
		info.GameID = game.ID
		info.Moves = game.Moves
		info.GameMoveNum = len(game.Moves)
		info.State = game.Final
		switch game.Result {
		case VersusPl1Win:
			info.P1Wins++
		case VersusPl2Win:
			info.P2Wins++
		default:
			info.Draws++
		}
		if game.Final.Winner == uttt.X {
			info.FirstToMoveWins++
		} else if game.Final.Winner == uttt.O {
			info.SecondToMoveWins++
		}
		listener.OnFinishedGame(info)
	}

	listener.OnFinishedWork(info)
	return nil
}

func (va *VersusArena) playGame(ctx context.Context, p1First bool, listener ListenerLike, info VersusWorkerInfo) (GameRecord, error) {
	game := GameRecord{
		ID:      uuid.NewString(),
		P1First: p1First,
		Moves:   make([]uttt.Move, 0, 81),
	}

	// X, O
	players := [2]Player{va.Player1, va.Player2}
	if !p1First {
		players[0], players[1] = players[1], players[0]
	}

	state := va.Position
	info.GameID = game.ID
	info.State = state
	info.Moves = game.Moves
	info.GameMoveNum = 0
	listener.OnGameStart(info)

	for !state.Over() {
		if err := ctx.Err(); err != nil {
			return game, err
		}

		player := players[0]
		if state.Turn == uttt.O {
			player = players[1]
		}

		move, err := player.Choose(ctx, state, va.Movetime)
		if err != nil {
			return game, fmt.Errorf("%s in game %s: %w", player.Name(), game.ID, err)
		}
		if state, err = state.MakeLegalMove(move); err != nil {
			return game, fmt.Errorf("%s in game %s: %w", player.Name(), game.ID, err)
		}

		game.Moves = append(game.Moves, move)
		info.Moves = game.Moves
		info.GameMoveNum = len(game.Moves)
		info.State = state
		listener.OnMoveMade(info)
	}

	game.Final = state
	game.Result = toPlayerResult(state.Winner, p1First)
	va.logger.Debug().
		Str("game", game.ID).
		Str("x", players[0].Name()).
		Str("o", players[1].Name()).
		Str("winner", state.Winner.String()).
		Int("plies", state.Plies).
		Msg("game finished")
	return game, nil
}
