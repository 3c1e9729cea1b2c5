package bot

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects which move strategy the bot plays.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// MediumLookaheadProbability is the chance that a medium bot plays a hard move
// instead of a random one.
const MediumLookaheadProbability = 0.5

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty converts user input into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

func (d Difficulty) String() string {
	return string(d)
}
