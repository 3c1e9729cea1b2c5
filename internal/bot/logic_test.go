package bot

import (
	"ctchen222/AI-Arcade/internal/game"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

// fixedSource always returns the same values, which makes medium's coin flip
// and the tie-break index deterministic.
type fixedSource struct {
	index int
	coin  float64
}

func (f fixedSource) IntN(n int) int   { return f.index % n }
func (f fixedSource) Float64() float64 { return f.coin }

func TestWinningCells(t *testing.T) {
	tests := []struct {
		name  string
		board game.Board
		mark  game.PlayerMark
		want  []int
	}{
		{
			name:  "No winning move - empty board",
			board: game.Board{},
			mark:  X,
			want:  nil,
		},
		{
			name: "X can win - first row",
			board: game.Board{
				X, X, E,
				O, O, E,
				E, E, E,
			},
			mark: X,
			want: []int{2},
		},
		{
			name: "O can win - second column",
			board: game.Board{
				X, O, E,
				X, O, E,
				E, E, E,
			},
			mark: O,
			want: []int{7},
		},
		{
			name: "X can win - main diagonal",
			board: game.Board{
				X, E, E,
				E, X, E,
				E, E, E,
			},
			mark: X,
			want: []int{8},
		},
		{
			name: "X has two winning cells",
			board: game.Board{
				X, X, E,
				X, O, O,
				E, E, O,
			},
			mark: X,
			want: []int{2, 6},
		},
		{
			name: "Full board, no win possible",
			board: game.Board{
				X, O, X,
				O, X, O,
				O, X, O,
			},
			mark: X,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := winningCells(tt.board, tt.mark)
			if !slices.Equal(got, tt.want) {
				t.Errorf("winningCells() got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHardMove(t *testing.T) {
	tests := []struct {
		name    string
		board   game.Board
		botMark game.PlayerMark
		want    []int // any of these is acceptable
	}{
		{
			name: "Bot takes the win over the block",
			board: game.Board{
				O, O, E,
				X, X, E,
				E, E, E,
			},
			botMark: O,
			want:    []int{2},
		},
		{
			name: "Bot must block opponent",
			board: game.Board{
				X, X, E,
				O, E, E,
				E, E, E,
			},
			botMark: O,
			want:    []int{2},
		},
		{
			name: "Take center",
			board: game.Board{
				X, E, E,
				E, E, E,
				E, E, E,
			},
			botMark: O,
			want:    []int{4},
		},
		{
			name: "Take corner after center is gone",
			board: game.Board{
				E, E, E,
				E, X, E,
				E, E, E,
			},
			botMark: O,
			want:    []int{0, 2, 6, 8},
		},
		{
			name: "Take side when only sides remain",
			board: game.Board{
				X, O, X,
				E, O, E,
				O, X, O,
			},
			botMark: X,
			want:    []int{3, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(WithSource(NewSeededSource(7)))
			for range 200 {
				got := s.SelectMove(tt.board, Hard, tt.botMark, tt.botMark.Opponent())
				if !slices.Contains(tt.want, got) {
					t.Fatalf("SelectMove(hard) got %d, want one of %v", got, tt.want)
				}
			}
		})
	}
}

func TestHardMoveTieBreakIsUniform(t *testing.T) {
	// X threatens both 2 and 6; the block among them must be picked at random.
	board := game.Board{
		X, X, E,
		X, O, E,
		E, E, O,
	}
	s := NewSelector(WithSource(NewSeededSource(42)))

	counts := map[int]int{}
	const trials = 4000
	for range trials {
		counts[s.SelectMove(board, Hard, O, X)]++
	}

	require.Len(t, counts, 2, "only the two blocking cells may be chosen: %v", counts)
	for _, cell := range []int{2, 6} {
		assert.InDelta(t, trials/2, counts[cell], trials*0.05, "cell %d chosen %d times", cell, counts[cell])
	}
}

func TestEasyMoveIsUniform(t *testing.T) {
	board := game.Board{
		X, E, E,
		E, O, E,
		E, E, X,
	}
	empty := board.EmptyCells()
	s := NewSelector(WithSource(NewSeededSource(1)))

	counts := map[int]int{}
	const trials = 12000
	for range trials {
		cell := s.SelectMove(board, Easy, O, X)
		require.True(t, board.IsEmpty(cell), "easy picked occupied cell %d", cell)
		counts[cell]++
	}

	expected := float64(trials) / float64(len(empty))
	for _, cell := range empty {
		assert.InDelta(t, expected, counts[cell], expected*0.1, "cell %d chosen %d times", cell, counts[cell])
	}
}

func TestEasyMove(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		board := game.Board{
			X, O, X,
			O, X, O,
			X, E, O,
		}
		s := NewSelector()
		if got := s.SelectMove(board, Easy, O, X); got != 7 {
			t.Errorf("easy should pick the only available cell 7, got %d", got)
		}
	})

	t.Run("Full board", func(t *testing.T) {
		board := game.Board{
			X, O, X,
			O, X, O,
			X, O, X,
		}
		if got := NewSelector().SelectMove(board, Easy, O, X); got != -1 {
			t.Errorf("easy on a full board should return -1, got %d", got)
		}
	})
}

func TestMediumMove(t *testing.T) {
	// O can win at 2; a random move would most likely miss it.
	board := game.Board{
		O, O, E,
		X, X, E,
		E, E, X,
	}

	t.Run("Coin below probability plays hard", func(t *testing.T) {
		s := NewSelector(WithSource(fixedSource{index: 2, coin: 0.1}))
		assert.Equal(t, 2, s.SelectMove(board, Medium, O, X))
	})

	t.Run("Coin above probability plays random", func(t *testing.T) {
		// empty cells are [2 5 6 7]; index 3 selects 7
		s := NewSelector(WithSource(fixedSource{index: 3, coin: 0.9}))
		assert.Equal(t, 7, s.SelectMove(board, Medium, O, X))
	})

	t.Run("Probability one always plays hard", func(t *testing.T) {
		s := NewSelector(WithSource(NewSeededSource(3)), WithMediumProbability(1))
		for range 100 {
			require.Equal(t, 2, s.SelectMove(board, Medium, O, X))
		}
	})

	t.Run("Blend finds the win about half the time", func(t *testing.T) {
		s := NewSelector(WithSource(NewSeededSource(11)))
		const trials = 8000
		wins := 0
		for range trials {
			if s.SelectMove(board, Medium, O, X) == 2 {
				wins++
			}
		}
		// hard always wins (p), random hits cell 2 with 1/4 chance: p + (1-p)/4
		expected := trials * (MediumLookaheadProbability + (1-MediumLookaheadProbability)/4)
		assert.InDelta(t, expected, wins, trials*0.04)
	})
}

func TestSelectMoveNeverReturnsOccupiedCell(t *testing.T) {
	s := NewSelector(WithSource(NewSeededSource(99)))
	difficulties := []Difficulty{Easy, Medium, Hard, Difficulty("unknown")}

	// Play random games to reach a spread of non-terminal positions.
	for g := range 300 {
		var board game.Board
		mark := X
		for !game.Evaluate(board).IsTerminal() {
			d := difficulties[g%len(difficulties)]
			cell := s.SelectMove(board, d, mark, mark.Opponent())
			require.True(t, board.IsEmpty(cell), "difficulty %s chose %d on %v", d, cell, board)
			board = board.With(cell, mark)
			mark = mark.Opponent()
		}
	}
}

func TestSelectMoveDoesNotMutateBoard(t *testing.T) {
	board := game.Board{
		X, X, E,
		O, E, E,
		E, E, E,
	}
	before := board
	NewSelector().SelectMove(board, Hard, O, X)
	assert.Equal(t, before, board)
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{in: "easy", want: Easy},
		{in: " Medium ", want: Medium},
		{in: "HARD", want: Hard},
		{in: "expert", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDifficulty(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
