package riddles

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/engine"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const midgameField = "0,.,.,.,.,0,.,1,0,1,.,1,.,.,0,0,.,.,1,0,.,.,.,0,1,1,0,0,1,0,.,1,.,0,.,1,.,0,1,.,1,.,0,.,1,1,.,.,.,1,.,0,.,.,1,.,1,.,.,.,1,.,1,0,0,.,1,.,0,1,.,0,0,.,.,.,.,0,.,0,."

var midgameInput = []string{
	"settings player_names player0,player1",
	"settings your_bot player1",
	"settings timebank 200",
	"settings time_per_move 30",
	"settings your_botid 1",
	"update game round 21",
	"update game move 41",
	"update game field " + midgameField,
	"update game macroboard .,0,.,.,1,0,.,-1,.",
}

func newBot(out *bytes.Buffer) *Bot {
	e := engine.New(engine.WithChooser(engine.SeededChooser(1)))
	return NewBot(e, out)
}

func feed(t *testing.T, b *Bot, lines []string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, b.Input(context.Background(), line), line)
	}
}

func parseOutput(t *testing.T, out string) uttt.Move {
	t.Helper()
	var m uttt.Move
	n, err := fmt.Sscanf(out, "place_move %d %d\n", &m.X, &m.Y)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return m
}

func TestSettings(t *testing.T) {
	b := newBot(&bytes.Buffer{})
	feed(t, b, midgameInput[:5])

	s := b.Settings()
	assert.Equal(t, []string{"player0", "player1"}, s.PlayerNames)
	assert.Equal(t, "player1", s.YourBot)
	assert.Equal(t, 1, s.YourBotID)
	assert.Equal(t, uttt.O, s.Me)
	assert.Equal(t, 200*time.Millisecond, s.Timebank)
	assert.Equal(t, 30*time.Millisecond, s.TimePerMove)
	assert.NotEmpty(t, b.Session())
}

func TestFieldParsing(t *testing.T) {
	b := newBot(&bytes.Buffer{})
	feed(t, b, midgameInput)

	state, err := b.State()
	require.NoError(t, err)

	assert.Equal(t, uttt.X, state.At(0, 0))
	assert.Equal(t, uttt.NoOne, state.At(1, 0))
	assert.Equal(t, uttt.O, state.At(7, 0))
	assert.Equal(t, uttt.O, state.Turn)
	assert.Equal(t, uttt.O, state.Me)
	assert.Equal(t, 21, state.Round)

	assert.Equal(t, uttt.X, state.Macro[1])
	assert.Equal(t, uttt.O, state.Macro[4])
	assert.Equal(t, uttt.X, state.Macro[5])
	assert.Equal(t, uttt.Active, state.Macro[7])
	assert.Equal(t, 1, state.Macro.Count(uttt.Active))
}

func TestBotPlacesLegalMove(t *testing.T) {
	out := &bytes.Buffer{}
	b := newBot(out)
	feed(t, b, midgameInput)
	require.NoError(t, b.Input(context.Background(), "action move 200"))

	state, err := b.State()
	require.NoError(t, err)

	move := parseOutput(t, out.String())
	assert.True(t, state.IsLegal(move), "move %v", move)
	assert.Equal(t, 7, move.MacroIndex())
}

func TestBotOpeningMove(t *testing.T) {
	out := &bytes.Buffer{}
	b := newBot(out)
	feed(t, b, []string{
		"settings your_botid 0",
		"update game round 1",
		"update game field " + strings.TrimSuffix(strings.Repeat(".,", 81), ","),
		"update game macroboard -1,-1,-1,-1,-1,-1,-1,-1,-1",
		"action move 100",
	})

	move := parseOutput(t, out.String())
	assert.True(t, uttt.NewGame().IsLegal(move))
}

func TestInputErrors(t *testing.T) {
	b := newBot(&bytes.Buffer{})
	ctx := context.Background()

	assert.NoError(t, b.Input(ctx, ""))
	assert.NoError(t, b.Input(ctx, "   "))
	assert.ErrorIs(t, b.Input(ctx, "action move 100"), ErrNotReady)

	malformed := []string{
		"settings timebank",
		"settings timebank abc",
		"settings your_botid 3",
		"update game field 0,1",
		"update game field " + strings.Repeat("x,", 80) + "x",
		"update game macroboard 1,2,3",
		"update game round one",
		"action move soon",
		"action move -5",
		"action",
	}
	for _, line := range malformed {
		assert.ErrorIs(t, b.Input(ctx, line), ErrMalformedLine, line)
	}

	unknown := []string{
		"hello world",
		"settings colour red",
		"update game weather sunny",
	}
	for _, line := range unknown {
		assert.ErrorIs(t, b.Input(ctx, line), ErrUnknownCommand, line)
	}
}

func TestBudget(t *testing.T) {
	e := engine.New()
	a := engine.AssessState(uttt.NewGame())

	b := NewBot(e, &bytes.Buffer{}, WithDefaultTimePerMove(300*time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, b.Budget(a, -1), "nothing reported")
	assert.Equal(t, time.Duration(0), b.Budget(a, 0))

	feed(t, b, []string{"settings time_per_move 100"})
	assert.Equal(t, 100*time.Millisecond, b.Budget(a, -1))
	assert.Equal(t, time.Duration(0), b.Budget(a, 0), "empty timebank")

	remaining := time.Duration((a.MaxMovesRemaining + 1) / 2)
	assert.Equal(t, 100*time.Millisecond+10*time.Second/remaining, b.Budget(a, 10*time.Second))

	assert.Equal(t, 50*time.Millisecond, b.Budget(a, 50*time.Millisecond), "never above the timebank")
}

func TestRun(t *testing.T) {
	input := strings.Join(append(append([]string{"", "garbage line"}, midgameInput...), "action move 200"), "\n")

	out := &bytes.Buffer{}
	b := newBot(out)
	require.NoError(t, b.Run(context.Background(), strings.NewReader(input)))

	state, err := b.State()
	require.NoError(t, err)
	assert.True(t, state.IsLegal(parseOutput(t, out.String())))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newBot(&bytes.Buffer{})
	assert.ErrorIs(t, b.Run(ctx, strings.NewReader("settings timebank 10\n")), context.Canceled)
}

func TestRunCancelledWhileIdle(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBot(&bytes.Buffer{})
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx, r)
	}()

	_, err := io.WriteString(w, "settings timebank 10\n")
	require.NoError(t, err)
	time.AfterFunc(30*time.Millisecond, cancel)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run kept waiting for input after cancellation")
	}
}
