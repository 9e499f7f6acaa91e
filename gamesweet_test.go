package gamesweet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/gamesweet/game"
	"github.com/gorgonia/gamesweet/game/c4"
	"github.com/gorgonia/gamesweet/game/mnk"
	"github.com/gorgonia/gamesweet/mcts"
)

func randomMatch(games int) Config {
	conf := DefaultConfig()
	conf.Games = games
	conf.Seed = 1337
	conf.Players = []PlayerConfig{
		{Name: "falken", Policy: PolicyRandom},
		{Name: "joshua", Policy: PolicyRandom},
	}
	return conf
}

func TestMatch_Run(t *testing.T) {
	rec := new(recorder)
	m, err := NewMatch(randomMatch(4), nil, WithOutputEncoder(rec), WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 4, m.GameNumber())
	assert.True(t, rec.flushed)
	assert.Equal(t, []string{"falken", "joshua"}, m.Creation)
	assert.Len(t, m.Wins["joshua"], 4)
	assert.Equal(t, float32(4), m.A.Wins+m.A.Loss+m.A.Draw)
	assert.Equal(t, "Tic Tac Toe", rec.frames[0].name)

	// every game starts from an empty board
	var starts int
	for _, f := range rec.frames {
		if f.board == "---------" {
			starts++
		}
	}
	assert.Equal(t, 4, starts)
}

func TestMatch_Cancelled(t *testing.T) {
	rec := new(recorder)
	m, err := NewMatch(randomMatch(4), nil, WithOutputEncoder(rec), WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, m.GameNumber())
	assert.True(t, rec.flushed, "flushed even when stopped")
}

func TestMatch_MCTS(t *testing.T) {
	conf := DefaultConfig()
	conf.Seed = 1
	conf.MCTS.Budget = 300
	m, err := NewMatch(conf, []mcts.Option{mcts.WithLogger(zerolog.Nop())}, WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	_, ok := m.A.Policy.(*mcts.MCTS[game.Player, game.Single])
	require.True(t, ok)
	_, ok = m.B.Policy.(*RandomPolicy[game.Player, game.Single])
	require.True(t, ok)

	require.NoError(t, m.Run(context.Background()))
	assert.True(t, m.Game().Ended())
}

func TestMatch_SaveLoad(t *testing.T) {
	m, err := NewMatch(randomMatch(3), nil, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background()))

	path := filepath.Join(t.TempDir(), "stats.gob")
	require.NoError(t, m.Save(path))

	m2, err := NewMatch(randomMatch(3), nil, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.NoError(t, m2.Load(path))
	assert.Equal(t, m.Statistics, m2.Statistics)

	assert.Error(t, m2.Load(filepath.Join(t.TempDir(), "missing.gob")))
}

func TestNewMatch_Invalid(t *testing.T) {
	conf := randomMatch(1)
	conf.Game = "chess"
	_, err := NewMatch(conf, nil)
	assert.Error(t, err)
}

func TestConfig_NewGame(t *testing.T) {
	conf := DefaultConfig()
	g, err := conf.NewGame()
	require.NoError(t, err)
	assert.IsType(t, &mnk.MNK{}, g)

	conf.Game, conf.Rows, conf.Cols, conf.K = C4, 6, 7, 4
	g, err = conf.NewGame()
	require.NoError(t, err)
	assert.IsType(t, &c4.Game{}, g)
	m, n := g.BoardSize()
	assert.Equal(t, [2]int{6, 7}, [2]int{m, n})

	conf.Game = "go"
	_, err = conf.NewGame()
	assert.Error(t, err)
}

func TestConfig_NewGameOfSize(t *testing.T) {
	conf := DefaultConfig()
	g, err := conf.NewGameOfSize(5, 5)
	require.NoError(t, err)
	m, n := g.BoardSize()
	assert.Equal(t, 5, m)
	assert.Equal(t, 5, n)
	assert.Len(t, g.LegalActions(), 25)

	_, err = conf.NewGameOfSize(2, 2)
	assert.Error(t, err, "3 in a row does not fit")
}

func TestConfig_NewPolicy(t *testing.T) {
	conf := DefaultConfig()
	_, err := conf.NewPolicy(2)
	assert.Error(t, err)

	conf.Seed = 7
	a, err := conf.NewPolicy(1)
	require.NoError(t, err)
	b, err := conf.NewPolicy(1)
	require.NoError(t, err)
	g := mnk.TicTacToe()
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.ChooseAction(g), b.ChooseAction(g), "same seed, same choices")
	}
}
