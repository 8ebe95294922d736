package bench

import (
	"sync/atomic"

	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
)

type VersusMatchResult int

const (
	VersusPl1Win VersusMatchResult = 1
	VersusPl2Win VersusMatchResult = -1
	VersusDraw   VersusMatchResult = 0
)

func (r VersusMatchResult) String() string {
	switch r {
	case VersusPl1Win:
		return "player 1 win"
	case VersusPl2Win:
		return "player 2 win"
	}
	return "draw"
}

type VersusArenaStats struct {
	p1Wins           atomic.Uint32
	p2Wins           atomic.Uint32
	draws            atomic.Uint32
	firstToMoveWins  atomic.Uint32
	secondToMoveWins atomic.Uint32
}

func (vas *VersusArenaStats) Total() int {
	return vas.P1Wins() + vas.P2Wins() + vas.Draws()
}

func (vas *VersusArenaStats) P1Wins() int {
	return int(vas.p1Wins.Load())
}

func (vas *VersusArenaStats) P2Wins() int {
	return int(vas.p2Wins.Load())
}

func (vas *VersusArenaStats) Draws() int {
	return int(vas.draws.Load())
}

func (vas *VersusArenaStats) FirstToMoveWins() int {
	return int(vas.firstToMoveWins.Load())
}

func (vas *VersusArenaStats) SecondToMoveWins() int {
	return int(vas.secondToMoveWins.Load())
}

func (vas *VersusArenaStats) reset() {
	vas.p1Wins.Store(0)
	vas.p2Wins.Store(0)
	vas.draws.Store(0)
	vas.firstToMoveWins.Store(0)
	vas.secondToMoveWins.Store(0)
}

func (vas *VersusArenaStats) record(game GameRecord) {
	switch game.Result {
	case VersusDraw:
		vas.draws.Add(1)
		return
	case VersusPl1Win:
		vas.p1Wins.Add(1)
	case VersusPl2Win:
		vas.p2Wins.Add(1)
	}

	if game.Final.Winner == uttt.X {
		vas.firstToMoveWins.Add(1)
	} else {
		vas.secondToMoveWins.Add(1)
	}
}

// GameRecord describes a single finished game
type GameRecord struct {
	ID string
	// Player 1 played X and moved first
	P1First bool
	Moves   []uttt.Move
	Final   uttt.GameState
	Result  VersusMatchResult
}

type VersusWorkerInfo struct {
	WorkerID         int
	GameID           string
	NGames           int
	FinishedGames    int
	GameMoveNum      int
	Moves            []uttt.Move
	State            uttt.GameState
	P1Wins           int
	P2Wins           int
	Draws            int
	FirstToMoveWins  int
	SecondToMoveWins int
	P1Name           string
	P2Name           string
}

type VersusSummaryInfo struct {
	TotalGames       int    `json:"total_games"`
	P1Wins           int    `json:"player1_wins"`
	P2Wins           int    `json:"player2_wins"`
	FirstToMoveWins  int    `json:"first_to_move_wins"`
	SecondToMoveWins int    `json:"second_to_move_wins"`
	Draws            int    `json:"draws"`
	Workers          int    `json:"workers"`
	P1Name           string `json:"player1_name"`
	P2Name           string `json:"player2_name"`
}

// maps the winning side to which player won, given who played X
func toPlayerResult(winner uttt.Player, p1First bool) VersusMatchResult {
	switch {
	case winner != uttt.X && winner != uttt.O:
		return VersusDraw
	case (winner == uttt.X) == p1First:
		return VersusPl1Win
	}
	return VersusPl2Win
}
