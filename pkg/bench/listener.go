package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/IlikeChooros/uttt-bot/pkg/render"
	"github.com/muesli/termenv"
)

// Row of the first worker's progress line, below the header
const statsRowStart = 2

type ListenerLike interface {
	OnStart(info VersusSummaryInfo)
	OnGameStart(info VersusWorkerInfo)
	OnMoveMade(info VersusWorkerInfo)
	OnFinishedGame(info VersusWorkerInfo)
	OnFinishedWork(info VersusWorkerInfo)
	Summary(info VersusSummaryInfo)
	OnEnd()
	// Each worker gets its own clone
	Clone() ListenerLike
	SetRow(row int)
}

// DefaultListener ignores every event
type DefaultListener struct {
	row int
}

func (d *DefaultListener) OnStart(VersusSummaryInfo)       {}
func (d *DefaultListener) OnGameStart(VersusWorkerInfo)    {}
func (d *DefaultListener) OnMoveMade(VersusWorkerInfo)     {}
func (d *DefaultListener) OnFinishedGame(VersusWorkerInfo) {}
func (d *DefaultListener) OnFinishedWork(VersusWorkerInfo) {}
func (d *DefaultListener) Summary(VersusSummaryInfo)       {}
func (d *DefaultListener) OnEnd()                          {}
func (d *DefaultListener) Clone() ListenerLike             { return &DefaultListener{row: d.row} }
func (d *DefaultListener) SetRow(row int)                  { d.row = row }

// ConsoleListener keeps one progress line per worker and prints
// the summary once every worker is done.
type ConsoleListener struct {
	out  *termenv.Output
	mu   *sync.Mutex
	row  int
	live bool
}

// Live listeners redraw the worker lines in place,
// otherwise every finished game is appended as a new line.
func NewConsoleListener(w io.Writer, profile termenv.Profile, live bool) *ConsoleListener {
	return &ConsoleListener{
		out:  termenv.NewOutput(w, termenv.WithProfile(profile)),
		mu:   &sync.Mutex{},
		live: live,
	}
}

func (c *ConsoleListener) Clone() ListenerLike {
	clone := *c
	return &clone
}

func (c *ConsoleListener) SetRow(row int) {
	c.row = row
}

func (c *ConsoleListener) OnStart(info VersusSummaryInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live {
		c.out.HideCursor()
		c.out.ClearScreen()
		c.out.MoveCursor(1, 1)
	}
	title := c.out.String(fmt.Sprintf("%s vs %s", info.P1Name, info.P2Name)).Bold()
	fmt.Fprintf(c.out, "%s, %d games on %d workers\n", title, info.TotalGames, info.Workers)
}

func (c *ConsoleListener) OnGameStart(info VersusWorkerInfo) {
	c.progress(info, "")
}

func (c *ConsoleListener) OnMoveMade(info VersusWorkerInfo) {
	if c.live {
		c.progress(info, fmt.Sprintf("move %d", info.GameMoveNum))
	}
}

func (c *ConsoleListener) OnFinishedGame(info VersusWorkerInfo) {
	c.progress(info, render.Status(info.State))
}

func (c *ConsoleListener) OnFinishedWork(info VersusWorkerInfo) {
	c.progress(info, c.out.String("done").Foreground(c.out.Color("2")).String())
}

func (c *ConsoleListener) progress(info VersusWorkerInfo, detail string) {
	if !c.live && detail == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live {
		c.out.MoveCursor(c.row, 1)
		c.out.ClearLine()
	}
	fmt.Fprintf(c.out, "[worker %d] game %d/%d %s-%s-%s %s\n",
		info.WorkerID, info.FinishedGames, info.NGames,
		c.out.String(fmt.Sprint(info.P1Wins)).Foreground(c.out.Color("2")),
		c.out.String(fmt.Sprint(info.Draws)).Faint(),
		c.out.String(fmt.Sprint(info.P2Wins)).Foreground(c.out.Color("1")),
		detail)
}

func (c *ConsoleListener) Summary(info VersusSummaryInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live {
		c.out.MoveCursor(statsRowStart+info.Workers, 1)
	}
	fmt.Fprintln(c.out, c.out.String("Summary").Bold())
	fmt.Fprintf(c.out, "\tGames: %d\n", info.TotalGames)
	fmt.Fprintf(c.out, "\t%s wins: %d\n", info.P1Name, info.P1Wins)
	fmt.Fprintf(c.out, "\t%s wins: %d\n", info.P2Name, info.P2Wins)
	fmt.Fprintf(c.out, "\tDraws: %d\n", info.Draws)
	fmt.Fprintf(c.out, "\tFirst to move wins: %d, second to move wins: %d\n",
		info.FirstToMoveWins, info.SecondToMoveWins)
}

func (c *ConsoleListener) OnEnd() {
	if c.live {
		c.out.ShowCursor()
	}
}
