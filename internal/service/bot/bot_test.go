package bot

import (
	"math/rand"
	"testing"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	E  = domain.Empty
	P1 = domain.Player1
	P2 = domain.Player2
)

func board(t *testing.T, rows ...[]domain.PlayerID) *domain.Board {
	t.Helper()
	b, err := domain.NewBoardFromCells(rows)
	require.NoError(t, err)
	return b
}

func TestAllDifficultiesTakeImmediateWin(t *testing.T) {
	// Player2 has three in column 4.
	b := board(t,
		[]domain.PlayerID{P1, P1, E, P1, P2, E},
		[]domain.PlayerID{E, E, E, E, P2, E},
		[]domain.PlayerID{E, E, E, E, P2, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
	)
	rng := rand.New(rand.NewSource(1))

	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		assert.Equal(t, 4, CalculateBestMove(b, P2, d, rng), d)
	}
}

func TestAllDifficultiesBlockImmediateLoss(t *testing.T) {
	b := board(t,
		[]domain.PlayerID{P1, P1, P1, E, P2, E},
		[]domain.PlayerID{E, E, E, E, P2, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
	)
	rng := rand.New(rand.NewSource(1))

	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		assert.Equal(t, 3, CalculateBestMove(b, P2, d, rng), d)
	}
}

func TestBotNeverPicksFullColumn(t *testing.T) {
	b := board(t,
		[]domain.PlayerID{P1, P2, P1, P2, P1, E},
		[]domain.PlayerID{P2, P1, P2, P1, P2, E},
		[]domain.PlayerID{P1, P2, P1, P2, P1, E},
	)
	rng := rand.New(rand.NewSource(3))

	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		assert.Equal(t, 5, CalculateBestMove(b, P1, d, rng), d)
	}
}

func TestBotOnFullBoard(t *testing.T) {
	b := board(t,
		[]domain.PlayerID{P1, P2},
		[]domain.PlayerID{P2, P1},
	)
	rng := rand.New(rand.NewSource(3))

	assert.Equal(t, -1, CalculateBestMove(b, P1, DifficultyHard, rng))
	assert.Equal(t, -1, CalculateBestMove(b, P1, DifficultyEasy, rng))
}

func TestMediumSkipsColumnThatSetsUpOpponent(t *testing.T) {
	// a chip in column 3 lets Player1 complete row 1 on top of it
	b := board(t,
		[]domain.PlayerID{P2, P2, P1, E, E, E},
		[]domain.PlayerID{P1, P1, P1, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
		[]domain.PlayerID{E, E, E, E, E, E},
	)

	assert.NotEqual(t, 3, calculateMediumMove(b, P2))
}

func TestSearchStaysInGivenColumns(t *testing.T) {
	b, err := domain.NewBoard(domain.DefaultDimensions())
	require.NoError(t, err)

	assert.Equal(t, 5, searchColumns(b, P1, MediumDepth, []int{5}))
	assert.Contains(t, []int{0, 4}, searchColumns(b, P1, MediumDepth, []int{0, 4}))
	assert.Equal(t, -1, searchColumns(b, P1, MediumDepth, nil))
}

func TestCentreOrder(t *testing.T) {
	b, err := domain.NewBoard(domain.Dimensions{Columns: 7, Rows: 6})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 4, 1, 5, 0, 6}, centreOrder(b))

	b, err = domain.NewBoard(domain.DefaultDimensions())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 0, 4, 5}, centreOrder(b))
}

func TestBotGamesAgainstEachOtherFinish(t *testing.T) {
	e, err := domain.NewEngine(domain.DefaultDimensions())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(9))

	for !e.IsFinished() {
		difficulty := DifficultyEasy
		if e.CurrentPlayer() == P2 {
			difficulty = DifficultyMedium
		}
		col := CalculateBestMove(e.Board(), e.CurrentPlayer(), difficulty, rng)
		_, err := e.CommitDrop(col)
		require.NoError(t, err)
	}
	assert.True(t, e.Result().IsResolved())
}

func TestIsValidDifficulty(t *testing.T) {
	assert.True(t, IsValidDifficulty("hard"))
	assert.False(t, IsValidDifficulty("impossible"))
}
