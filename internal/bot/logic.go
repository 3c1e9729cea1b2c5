package bot

import (
	"ctchen222/AI-Arcade/internal/game"
)

// Selector picks the bot's move for a board. Apart from its random source it
// holds no state, so one Selector may serve every session.
type Selector struct {
	src        Source
	mediumProb float64
}

// Option configures a Selector.
type Option func(*Selector)

// WithSource replaces the random source, typically with a seeded one in tests.
func WithSource(src Source) Option {
	return func(s *Selector) {
		if src != nil {
			s.src = src
		}
	}
}

// WithMediumProbability overrides MediumLookaheadProbability.
func WithMediumProbability(p float64) Option {
	return func(s *Selector) {
		s.mediumProb = min(max(p, 0), 1)
	}
}

// NewSelector creates a Selector backed by the global random source.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		src:        globalSource{},
		mediumProb: MediumLookaheadProbability,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectMove returns the cell the bot plays. The board must have at least one
// empty cell; on a full board the result is -1 and callers must not rely on it.
// The board is received by value and never modified.
func (s *Selector) SelectMove(board game.Board, difficulty Difficulty, botMark, opponentMark game.PlayerMark) int {
	switch difficulty {
	case Easy:
		return s.easyMove(board)
	case Medium:
		return s.mediumMove(board, botMark, opponentMark)
	case Hard:
		return s.hardMove(board, botMark, opponentMark)
	default:
		return s.hardMove(board, botMark, opponentMark)
	}
}

// easyMove makes a completely random move.
func (s *Selector) easyMove(board game.Board) int {
	return s.pick(board.EmptyCells())
}

// mediumMove flips a weighted coin between the hard and easy strategies.
func (s *Selector) mediumMove(board game.Board, botMark, opponentMark game.PlayerMark) int {
	if s.src.Float64() < s.mediumProb {
		return s.hardMove(board, botMark, opponentMark)
	}
	return s.easyMove(board)
}

// hardMove looks one ply ahead: win, block, center, corner, anything.
func (s *Selector) hardMove(board game.Board, botMark, opponentMark game.PlayerMark) int {
	// 1. Win: take any cell that completes a line for the bot
	if wins := winningCells(board, botMark); len(wins) > 0 {
		return s.pick(wins)
	}

	// 2. Block: take any cell that would complete a line for the opponent
	if blocks := winningCells(board, opponentMark); len(blocks) > 0 {
		return s.pick(blocks)
	}

	// 3. Center
	if board.IsEmpty(game.Center) {
		return game.Center
	}

	// 4. Corners
	corners := make([]int, 0, len(game.Corners))
	for _, corner := range game.Corners {
		if board.IsEmpty(corner) {
			corners = append(corners, corner)
		}
	}
	if len(corners) > 0 {
		return s.pick(corners)
	}

	// 5. Whatever is left
	return s.easyMove(board)
}

// winningCells returns every empty cell that, filled with mark, wins the game.
func winningCells(board game.Board, mark game.PlayerMark) []int {
	var cells []int
	for _, cell := range board.EmptyCells() {
		if game.Evaluate(board.With(cell, mark)).Winner == mark {
			cells = append(cells, cell)
		}
	}
	return cells
}

// pick chooses uniformly among candidates, or -1 if there are none.
func (s *Selector) pick(candidates []int) int {
	if len(candidates) == 0 {
		return -1
	}
	return candidates[s.src.IntN(len(candidates))]
}
