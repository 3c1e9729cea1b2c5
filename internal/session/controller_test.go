package session

import (
	"context"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/stats"
	"ctchen222/AI-Arcade/internal/stats/mocks"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type selectCall struct {
	board        game.Board
	difficulty   bot.Difficulty
	botMark      game.PlayerMark
	opponentMark game.PlayerMark
}

// scriptedSelector plays a fixed list of cells and remembers how it was asked.
type scriptedSelector struct {
	cells []int
	calls []selectCall
}

func (s *scriptedSelector) SelectMove(board game.Board, difficulty bot.Difficulty, botMark, opponentMark game.PlayerMark) int {
	s.calls = append(s.calls, selectCall{board, difficulty, botMark, opponentMark})
	if len(s.cells) == 0 {
		return -1
	}
	cell := s.cells[0]
	s.cells = s.cells[1:]
	return cell
}

func tictactoe(t *testing.T) game.Variant {
	t.Helper()
	v, err := game.LookupVariant("tictactoe")
	require.NoError(t, err)
	return v
}

func newStarted(t *testing.T, cfg Config, sel MoveSelector, opts ...Option) *Controller {
	t.Helper()
	if cfg.Variant.ID == "" {
		cfg.Variant = tictactoe(t)
	}
	c := NewController("s1", cfg, sel, opts...)
	require.True(t, c.Start(context.Background(), ""))
	return c
}

func TestStart(t *testing.T) {
	ctx := context.Background()
	c := NewController("s1", Config{Variant: tictactoe(t)}, &scriptedSelector{})

	state := c.Snapshot()
	assert.Equal(t, game.StatusSetup, state.Status)
	assert.Equal(t, bot.Hard, state.Difficulty, "difficulty defaults to hard")

	_, ok := c.HumanMove(ctx, 0)
	assert.False(t, ok, "moves are refused before the game starts")
	assert.False(t, c.Reset(ctx, bot.Easy), "reset is ignored in setup")

	require.True(t, c.Start(ctx, bot.Medium))
	state = c.Snapshot()
	assert.Equal(t, game.StatusInProgress, state.Status)
	assert.Equal(t, SideHuman, state.SideToMove)
	assert.Equal(t, bot.Medium, state.Difficulty)
	assert.Equal(t, game.Board{}, state.Board)

	assert.False(t, c.Start(ctx, bot.Easy), "start only works from setup")
}

func TestHumanMoveRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(c *Controller)
		cell  int
	}{
		{name: "negative cell", setup: func(*Controller) {}, cell: -1},
		{name: "cell past the board", setup: func(*Controller) {}, cell: game.Cells},
		{
			name: "occupied cell",
			setup: func(c *Controller) {
				c.Play(ctx, 4)
			},
			cell: 4,
		},
		{
			name: "cell taken by the AI",
			setup: func(c *Controller) {
				c.Play(ctx, 4)
			},
			cell: 0,
		},
		{
			name: "AI to move",
			setup: func(c *Controller) {
				c.HumanMove(ctx, 4)
			},
			cell: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStarted(t, Config{}, &scriptedSelector{cells: []int{0, 1, 2}})
			tt.setup(c)
			before := c.Snapshot()

			update, ok := c.HumanMove(ctx, tt.cell)
			assert.False(t, ok)
			assert.Equal(t, Update{}, update)
			assert.Equal(t, before, c.Snapshot(), "rejected move must not change state")
		})
	}
}

func TestTurnDiscipline(t *testing.T) {
	ctx := context.Background()
	sel := &scriptedSelector{cells: []int{8}}
	c := newStarted(t, Config{Difficulty: bot.Easy}, sel)

	_, ok := c.AIMove(ctx)
	assert.False(t, ok, "AI may not move first")

	update, ok := c.HumanMove(ctx, 4)
	require.True(t, ok)
	assert.Equal(t, KindInProgress, update.Kind)
	assert.Equal(t, SideHuman, update.Side)
	assert.Equal(t, SideAI, update.State.SideToMove)
	assert.Equal(t, game.PlayerX, update.State.Board[4])

	_, ok = c.HumanMove(ctx, 0)
	assert.False(t, ok, "human may not move twice")

	update, ok = c.AIMove(ctx)
	require.True(t, ok)
	assert.Equal(t, 8, update.Cell)
	assert.Equal(t, game.PlayerO, update.State.Board[8])
	assert.Equal(t, SideHuman, update.State.SideToMove)
	assert.Equal(t, 2, update.State.Moves)

	_, ok = c.AIMove(ctx)
	assert.False(t, ok, "AI may not move twice")

	require.Len(t, sel.calls, 1)
	call := sel.calls[0]
	assert.Equal(t, game.Board{}.With(4, game.PlayerX), call.board)
	assert.Equal(t, bot.Easy, call.difficulty)
	assert.Equal(t, game.PlayerO, call.botMark)
	assert.Equal(t, game.PlayerX, call.opponentMark)
}

func TestHumanMarkO(t *testing.T) {
	sel := &scriptedSelector{cells: []int{0}}
	c := newStarted(t, Config{HumanMark: game.PlayerO}, sel)

	updates := c.Play(context.Background(), 4)
	require.Len(t, updates, 2)
	assert.Equal(t, game.PlayerO, updates[1].State.Board[4])
	assert.Equal(t, game.PlayerX, updates[1].State.Board[0])
	assert.Equal(t, game.PlayerX, sel.calls[0].botMark)
}

func TestAIMoveRejectsUnusableCell(t *testing.T) {
	ctx := context.Background()
	c := newStarted(t, Config{}, &scriptedSelector{cells: []int{4}})

	_, ok := c.HumanMove(ctx, 4)
	require.True(t, ok)
	before := c.Snapshot()

	_, ok = c.AIMove(ctx)
	assert.False(t, ok)
	assert.Equal(t, before, c.Snapshot())
}

func TestHumanWinIsReported(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)

	var got stats.Outcome
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o stats.Outcome) error {
		got = o
		return nil
	}).Times(1)

	c := newStarted(t, Config{PlayerID: "p1", Difficulty: bot.Easy}, &scriptedSelector{cells: []int{3, 4}}, WithRecorder(recorder))

	require.Len(t, c.Play(ctx, 0), 2)
	require.Len(t, c.Play(ctx, 1), 2)
	updates := c.Play(ctx, 2)
	require.Len(t, updates, 1, "no AI reply after the game is won")

	final := updates[0]
	assert.Equal(t, KindWon, final.Kind)
	assert.NoError(t, final.ReportErr)
	assert.Equal(t, game.StatusWon, final.State.Status)
	assert.Equal(t, SideHuman, final.State.Winner)
	assert.Equal(t, game.PlayerX, final.State.WinnerMark)
	assert.Equal(t, SideNone, final.State.SideToMove)
	assert.Equal(t, []int{0, 1, 2}, final.State.WinningLine)
	assert.Equal(t, Score{Human: 1}, final.State.Score)

	assert.Equal(t, "p1", got.PlayerID)
	assert.Equal(t, "tictactoe", got.GameID)
	assert.Equal(t, stats.Win, got.Result)
	assert.Equal(t, "easy", got.Difficulty)

	assert.Nil(t, c.Play(ctx, 5), "terminal games accept no moves")
}

func TestAIWinIsReportedAsLoss(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o stats.Outcome) error {
		assert.Equal(t, stats.Loss, o.Result)
		return nil
	}).Times(1)

	c := newStarted(t, Config{PlayerID: "p1"}, &scriptedSelector{cells: []int{0, 1, 2}}, WithRecorder(recorder))
	c.Play(ctx, 3)
	c.Play(ctx, 4)
	updates := c.Play(ctx, 8)

	require.Len(t, updates, 2)
	assert.Equal(t, KindWon, updates[1].Kind)
	assert.Equal(t, SideAI, updates[1].State.Winner)
	assert.Equal(t, game.PlayerO, updates[1].State.WinnerMark)
	assert.Equal(t, []int{0, 1, 2}, updates[1].State.WinningLine)
	assert.Equal(t, Score{AI: 1}, updates[1].State.Score)
}

func TestDrawIsReported(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o stats.Outcome) error {
		assert.Equal(t, stats.Draw, o.Result)
		return nil
	}).Times(1)

	c := newStarted(t, Config{PlayerID: "p1"}, &scriptedSelector{cells: []int{1, 4, 5, 6}}, WithRecorder(recorder))
	for _, cell := range []int{0, 2, 3, 7} {
		require.Len(t, c.Play(ctx, cell), 2)
	}
	updates := c.Play(ctx, 8)

	require.Len(t, updates, 1)
	assert.Equal(t, KindDraw, updates[0].Kind)
	assert.Equal(t, game.StatusDraw, updates[0].State.Status)
	assert.Equal(t, SideNone, updates[0].State.Winner)
	assert.True(t, updates[0].State.Board.IsFull())
	assert.Empty(t, updates[0].State.WinningLine)
	assert.Equal(t, Score{Draws: 1}, updates[0].State.Score)
}

func TestScoreSurvivesReset(t *testing.T) {
	ctx := context.Background()
	c := newStarted(t, Config{}, &scriptedSelector{cells: []int{3, 4, 0, 1, 2}})

	c.Play(ctx, 0)
	c.Play(ctx, 1)
	c.Play(ctx, 2)
	require.Equal(t, SideHuman, c.Snapshot().Winner)

	require.True(t, c.Reset(ctx, ""))
	state := c.Snapshot()
	assert.Equal(t, Score{Human: 1}, state.Score)
	assert.Empty(t, state.WinningLine)
	assert.Equal(t, SideNone, state.Winner)

	c.Play(ctx, 3)
	c.Play(ctx, 4)
	updates := c.Play(ctx, 8)
	require.Len(t, updates, 2)
	assert.Equal(t, SideAI, updates[1].State.Winner)
	assert.Equal(t, Score{Human: 1, AI: 1}, c.Snapshot().Score)
}

func TestReportFailureKeepsResult(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	storeDown := errors.New("store down")
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(storeDown).Times(1)

	c := newStarted(t, Config{PlayerID: "p1"}, &scriptedSelector{cells: []int{3, 4}}, WithRecorder(recorder))
	c.Play(ctx, 0)
	c.Play(ctx, 1)
	updates := c.Play(ctx, 2)

	require.Len(t, updates, 1)
	assert.ErrorIs(t, updates[0].ReportErr, storeDown)
	assert.Equal(t, KindWon, updates[0].Kind)
	assert.Equal(t, game.StatusWon, c.Snapshot().Status, "a failed report must not roll back the result")
}

func TestReportIsBounded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ stats.Outcome) error {
		<-ctx.Done()
		return ctx.Err()
	}).Times(1)

	c := newStarted(t, Config{PlayerID: "p1"}, &scriptedSelector{cells: []int{3, 4}},
		WithRecorder(recorder), WithReportTimeout(20*time.Millisecond))
	c.Play(ctx, 0)
	c.Play(ctx, 1)

	start := time.Now()
	updates := c.Play(ctx, 2)
	require.Len(t, updates, 1)
	assert.ErrorIs(t, updates[0].ReportErr, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGuestGamesAreNotReported(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	c := newStarted(t, Config{}, &scriptedSelector{cells: []int{3, 4}}, WithRecorder(recorder))
	c.Play(ctx, 0)
	c.Play(ctx, 1)
	updates := c.Play(ctx, 2)

	require.Len(t, updates, 1)
	assert.Equal(t, KindWon, updates[0].Kind)
	assert.NoError(t, updates[0].ReportErr)
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		ai    []int
		human []int
	}{
		{name: "after a win", ai: []int{3, 4}, human: []int{0, 1, 2}},
		{name: "after a draw", ai: []int{1, 4, 5, 6}, human: []int{0, 2, 3, 7, 8}},
		{name: "mid game", ai: []int{3}, human: []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStarted(t, Config{Difficulty: bot.Medium}, &scriptedSelector{cells: tt.ai})
			for _, cell := range tt.human {
				require.NotEmpty(t, c.Play(ctx, cell))
			}
			require.NotEqual(t, game.Board{}, c.Snapshot().Board)

			for range 2 {
				require.True(t, c.Reset(ctx, ""))
				state := c.Snapshot()
				assert.Equal(t, game.Board{}, state.Board)
				assert.Equal(t, game.StatusInProgress, state.Status)
				assert.Equal(t, SideHuman, state.SideToMove)
				assert.Equal(t, SideNone, state.Winner)
				assert.Equal(t, bot.Medium, state.Difficulty, "difficulty is kept")
				assert.Zero(t, state.Moves)
			}

			require.True(t, c.Reset(ctx, bot.Easy))
			assert.Equal(t, bot.Easy, c.Snapshot().Difficulty)
		})
	}
}

// TestFullGameAgainstHard plays random human moves against the hard bot until
// the game ends and checks exactly one terminal status is reached.
func TestFullGameAgainstHard(t *testing.T) {
	ctx := context.Background()
	human := bot.NewSelector(bot.WithSource(bot.NewSeededSource(5)))
	ai := bot.NewSelector(bot.WithSource(bot.NewSeededSource(6)))

	for g := range 50 {
		c := newStarted(t, Config{}, ai)
		terminal := 0

		for i := 0; i < game.Cells && !c.Snapshot().Status.IsTerminal(); i++ {
			state := c.Snapshot()
			cell := human.SelectMove(state.Board, bot.Easy, game.PlayerX, game.PlayerO)
			updates := c.Play(ctx, cell)
			require.NotEmpty(t, updates, "game %d: legal move %d rejected", g, cell)
			for _, u := range updates {
				if u.Kind != KindInProgress {
					terminal++
				}
			}
		}

		state := c.Snapshot()
		require.Equal(t, 1, terminal, "game %d must end exactly once", g)
		require.True(t, state.Status.IsTerminal())
		assert.Equal(t, game.Evaluate(state.Board).Status(), state.Status)
	}
}

// TestCenterOpeningAgainstHard opens every game in the center: the hard bot has
// nothing to win or block and must answer in a corner.
func TestCenterOpeningAgainstHard(t *testing.T) {
	ctx := context.Background()
	human := bot.NewSelector(bot.WithSource(bot.NewSeededSource(11)))

	for seed := uint64(1); seed <= 100; seed++ {
		ai := bot.NewSelector(bot.WithSource(bot.NewSeededSource(seed)))
		c := newStarted(t, Config{Difficulty: bot.Hard}, ai)

		updates := c.Play(ctx, game.Center)
		require.Len(t, updates, 2, "seed %d", seed)
		assert.Contains(t, game.Corners[:], updates[1].Cell, "seed %d: hard must answer the center in a corner", seed)

		terminal := 0
		for !c.Snapshot().Status.IsTerminal() {
			state := c.Snapshot()
			cell := human.SelectMove(state.Board, bot.Easy, game.PlayerX, game.PlayerO)
			moves := c.Play(ctx, cell)
			require.NotEmpty(t, moves, "seed %d: legal move %d rejected", seed, cell)
			for _, u := range moves {
				if u.Kind != KindInProgress {
					terminal++
				}
			}
		}

		state := c.Snapshot()
		require.Equal(t, 1, terminal, "seed %d must end exactly once", seed)
		assert.Equal(t, game.Evaluate(state.Board).Status(), state.Status)
	}
}
