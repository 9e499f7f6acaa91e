package mcts

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/gorgonia/gamesweet/game"
)

// gnode is a position in a graphGame. A position without next is terminal.
type gnode struct {
	player string
	next   []int  // position reached by action i
	winner string // "" is a draw
}

// graphGame is a game described by its positions. Actions are indices into next.
type graphGame struct {
	nodes []gnode
	at    int
}

func (g *graphGame) ToMove() string { return g.nodes[g.at].player }

func (g *graphGame) LegalActions() []int {
	retVal := make([]int, len(g.nodes[g.at].next))
	for i := range retVal {
		retVal[i] = i
	}
	return retVal
}

func (g *graphGame) Apply(a int) bool {
	if a < 0 || a >= len(g.nodes[g.at].next) {
		return false
	}
	g.at = g.nodes[g.at].next[a]
	return true
}

func (g *graphGame) Ended() bool { return len(g.nodes[g.at].next) == 0 }

func (g *graphGame) Winner() (string, bool) {
	w := g.nodes[g.at].winner
	return w, w != ""
}

func (g *graphGame) Clone() game.State[string, int] {
	return &graphGame{nodes: g.nodes, at: g.at}
}

// winInOne: A can win on the spot with action 0. Action 1 hands B a win.
func winInOne() *graphGame {
	return &graphGame{nodes: []gnode{
		{player: "A", next: []int{1, 2}},
		{player: "B", winner: "A"},
		{player: "B", next: []int{3}},
		{player: "A", winner: "B"},
	}}
}

// allDraws is a full binary tree of the given depth whose leaves are all draws.
func allDraws(depth int) *graphGame {
	g := &graphGame{}
	var build func(d int, player string) int
	build = func(d int, player string) int {
		id := len(g.nodes)
		g.nodes = append(g.nodes, gnode{player: player})
		if d == depth {
			return id
		}
		other := "A"
		if player == "A" {
			other = "B"
		}
		l := build(d+1, other)
		r := build(d+1, other)
		g.nodes[id].next = []int{l, r}
		return id
	}
	build(0, "A")
	return g
}

// sumGame: two players take turns picking 0 to 3. After length picks, A wins if the sum is even, B otherwise.
type sumGame struct {
	picks  []int
	length int
}

func (g *sumGame) ToMove() string {
	if len(g.picks)%2 == 0 {
		return "A"
	}
	return "B"
}

func (g *sumGame) LegalActions() []int {
	if g.Ended() {
		return nil
	}
	return []int{0, 1, 2, 3}
}

func (g *sumGame) Apply(a int) bool {
	if g.Ended() || a < 0 || a > 3 {
		return false
	}
	g.picks = append(g.picks, a)
	return true
}

func (g *sumGame) Ended() bool { return len(g.picks) >= g.length }

func (g *sumGame) Winner() (string, bool) {
	if !g.Ended() {
		return "", false
	}
	var sum int
	for _, p := range g.picks {
		sum += p
	}
	if sum%2 == 0 {
		return "A", true
	}
	return "B", true
}

func (g *sumGame) Clone() game.State[string, int] {
	picks := make([]int, len(g.picks), g.length)
	copy(picks, g.picks)
	return &sumGame{picks: picks, length: g.length}
}

// tickClock moves forwards by step every time it is read.
type tickClock struct {
	now  time.Time
	step time.Duration
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestMCTS(conf Config, seed uint64) *MCTS[string, int] {
	return New[string, int](conf,
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(&tickClock{step: time.Millisecond}),
		WithLogger(zerolog.Nop()),
	)
}

// checkInvariants walks every node of the tree.
func checkInvariants(t *testing.T, tree *Tree[string, int], threshold uint32) {
	t.Helper()
	var roots int
	for i := 0; i < tree.Len(); i++ {
		n := tree.Node(naughty(i))
		require.LessOrEqual(t, n.Wins(), n.Sims(), "node %v", n)

		if n.IsRoot() {
			roots++
			_, hasAction := n.Action()
			require.False(t, hasAction, "the root has no action")
			require.Equal(t, tree.Root(), naughty(i))
			continue
		}
		_, hasAction := n.Action()
		require.True(t, hasAction, "node %v", n)

		if !tree.expanded(naughty(i)) {
			continue
		}
		require.Greater(t, n.Sims(), threshold, "node %v was expanded before crossing the threshold", n)
		require.Len(t, tree.Children(naughty(i)), len(n.State().LegalActions()))
		for _, kid := range tree.Children(naughty(i)) {
			require.Equal(t, naughty(i), tree.Node(kid).Parent())
		}
	}
	require.Equal(t, 1, roots)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	conf := DefaultConfig()
	require.Equal(t, 995*time.Millisecond, conf.Timeout)
	require.Equal(t, uint32(3), conf.Threshold)
	require.Equal(t, 1.414, conf.Exploration)

	t.Run("timeout", func(t *testing.T) {
		c := DefaultConfig()
		c.Timeout = 0
		require.Error(t, c.Validate())
	})
	t.Run("exploration", func(t *testing.T) {
		c := DefaultConfig()
		c.Exploration = -1
		require.Error(t, c.Validate())
	})
	t.Run("budget", func(t *testing.T) {
		c := DefaultConfig()
		c.Budget = -1
		require.Error(t, c.Validate())
	})
}

func TestUCB1(t *testing.T) {
	require.True(t, math.IsInf(ucb1(0, 0, 0, 1.414), 1))
	require.True(t, math.IsInf(ucb1(0, 0, 10, 1.414), 1))

	want := 0.5 + 1.414*math.Sqrt(math.Log(4)/2)
	assert.InDelta(t, want, ucb1(1, 2, 4, 1.414), 1e-9)

	// a visited child never outranks an unvisited sibling
	assert.Less(t, ucb1(100, 100, 101, 1.414), ucb1(0, 0, 101, 1.414))

	// no exploration term when the parent has been visited once
	assert.Equal(t, 1.0, ucb1(1, 1, 1, 1.414))
}

func TestTree_Expand(t *testing.T) {
	tree := newTree[string, int](winInOne(), 1.414, rand.New(rand.NewSource(1)), zerolog.Nop())
	require.Equal(t, 1, tree.Len())
	require.True(t, tree.Node(tree.Root()).IsRoot())

	tree.expand(tree.Root())
	kids := tree.Children(tree.Root())
	require.Len(t, kids, 2)
	require.Equal(t, 3, tree.Len())
	for i, kid := range kids {
		a, ok := tree.Node(kid).Action()
		require.True(t, ok)
		require.Equal(t, i, a)
		require.Equal(t, "B", tree.Node(kid).State().ToMove())
	}
	require.Equal(t, "A", tree.Node(tree.Root()).State().ToMove(), "expansion must not touch the parent state")

	require.Panics(t, func() { tree.expand(tree.Root()) }, "a node may only be expanded once")

	// terminal nodes expand to nothing, but still only once
	tree.expand(kids[0])
	require.Empty(t, tree.Children(kids[0]))
	require.True(t, tree.expanded(kids[0]))
	require.Panics(t, func() { tree.expand(kids[0]) })
}

func TestTree_Select(t *testing.T) {
	tree := newTree[string, int](allDraws(2), 1.414, rand.New(rand.NewSource(1)), zerolog.Nop())
	require.Equal(t, tree.Root(), tree.selectLeaf(), "an unexpanded root is its own leaf")

	tree.expand(tree.Root())
	kids := tree.Children(tree.Root())

	// unvisited children go first, in order
	require.Equal(t, kids[0], tree.selectLeaf())
	tree.backprop(kids[0], "B", true)
	require.Equal(t, kids[1], tree.selectLeaf())
	tree.backprop(kids[1], "A", true)

	// kids[1] is a win for A, who moved into it
	require.Equal(t, kids[1], tree.selectLeaf())
}

func TestTree_Backprop(t *testing.T) {
	tree := newTree[string, int](winInOne(), 1.414, rand.New(rand.NewSource(1)), zerolog.Nop())
	tree.expand(tree.Root())
	kid := tree.Children(tree.Root())[1]
	tree.expand(kid)
	grandkid := tree.Children(kid)[0]

	tree.backprop(grandkid, "B", true)
	root := tree.Node(tree.Root())
	require.Equal(t, uint32(1), tree.Node(grandkid).Sims())
	require.Equal(t, uint32(1), tree.Node(grandkid).Wins(), "B moved into the grandchild")
	require.Equal(t, uint32(1), tree.Node(kid).Sims())
	require.Equal(t, uint32(0), tree.Node(kid).Wins())
	require.Equal(t, uint32(1), root.Sims())
	require.Equal(t, uint32(1), root.Wins())

	t.Run("draw", func(t *testing.T) {
		tree := newTree[string, int](allDraws(1), 1.414, rand.New(rand.NewSource(1)), zerolog.Nop())
		tree.expand(tree.Root())
		kid := tree.Children(tree.Root())[0]
		tree.backprop(kid, "", false)

		// a draw counts as a win for the player to move at the root
		require.Equal(t, uint32(1), tree.Node(kid).Wins())
		require.Equal(t, uint32(1), tree.Node(kid).Sims())
		require.Equal(t, uint32(0), tree.Node(tree.Root()).Wins())
		require.Equal(t, uint32(1), tree.Node(tree.Root()).Sims())
	})
}

func TestTree_Simulate(t *testing.T) {
	tree := newTree[string, int](&sumGame{length: 6}, 1.414, rand.New(rand.NewSource(1337)), zerolog.Nop())
	for i := 0; i < 100; i++ {
		winner, ok := tree.simulate(tree.Root())
		require.True(t, ok)
		require.Contains(t, []string{"A", "B"}, winner)
	}
	require.Equal(t, 0, len(tree.Node(tree.Root()).State().(*sumGame).picks), "rollouts play on a copy")

	tree = newTree[string, int](allDraws(3), 1.414, rand.New(rand.NewSource(1337)), zerolog.Nop())
	_, ok := tree.simulate(tree.Root())
	require.False(t, ok)
}

func TestTree_Best(t *testing.T) {
	tree := newTree[string, int](allDraws(1), 1.414, rand.New(rand.NewSource(1)), zerolog.Nop())
	tree.expand(tree.Root())
	require.Equal(t, 0, tree.Best(), "first child wins ties")

	kids := tree.Children(tree.Root())
	tree.backprop(kids[1], "A", true)
	require.Equal(t, 1, tree.Best())

	empty := newTree[string, int](allDraws(0), 1.414, rand.New(rand.NewSource(1)), zerolog.Nop())
	require.Panics(t, func() { empty.Best() })
}

func TestSearch_SingleAction(t *testing.T) {
	g := &graphGame{nodes: []gnode{
		{player: "A", next: []int{1}},
		{player: "B", winner: "B"},
	}}
	m := newTestMCTS(DefaultConfig(), 1)
	tree := m.Search(g)

	require.Equal(t, 0, tree.Best())
	require.Equal(t, 0, tree.Iterations())
	require.Equal(t, 2, tree.Len())
	for i := 0; i < tree.Len(); i++ {
		require.Zero(t, tree.Node(naughty(i)).Sims())
	}
}

func TestSearch_NoActions(t *testing.T) {
	m := newTestMCTS(DefaultConfig(), 1)
	require.Panics(t, func() { m.Search(allDraws(0)) })
}

func TestSearch_WinInOne(t *testing.T) {
	g := winInOne()
	m := newTestMCTS(DefaultConfig(), 1337)
	tree := m.Search(g)

	require.Equal(t, 0, tree.Best())
	win := tree.Node(tree.Children(tree.Root())[0])
	require.Greater(t, win.Sims(), uint32(0))
	require.Greater(t, win.Wins(), uint32(0))
	require.Equal(t, win.Sims(), win.Wins())
	checkInvariants(t, tree, m.Threshold)

	require.Equal(t, "A", g.ToMove(), "the caller's state is never modified")
	require.Equal(t, 0, m.ChooseAction(g))
}

func TestSearch_Draws(t *testing.T) {
	m := newTestMCTS(DefaultConfig(), 1337)
	tree := m.Search(allDraws(6))

	// the tick clock advances by 1ms per read, so the 995ms budget allows exactly 994 iterations
	require.Equal(t, 994, tree.Iterations())
	require.Equal(t, uint32(994), tree.Node(tree.Root()).Sims())
	checkInvariants(t, tree, m.Threshold)
}

func TestSearch_BranchingFour(t *testing.T) {
	conf := DefaultConfig()
	conf.Budget = 500
	m := newTestMCTS(conf, 1337)
	tree := m.Search(&sumGame{length: 6})

	require.Equal(t, 500, tree.Iterations())
	root := tree.Node(tree.Root())
	require.Equal(t, uint32(500), root.Sims())

	var sum uint32
	kids := tree.Children(tree.Root())
	require.Len(t, kids, 4)
	for _, kid := range kids {
		sum += tree.Node(kid).Sims()
	}
	require.Equal(t, root.Sims(), sum)
	checkInvariants(t, tree, conf.Threshold)
}

func TestSearch_Threshold(t *testing.T) {
	t.Run("no expansion below the threshold", func(t *testing.T) {
		conf := DefaultConfig()
		conf.Budget = 7
		tree := newTestMCTS(conf, 1337).Search(&sumGame{length: 6})
		require.Equal(t, 5, tree.Len(), "no root child can have more than 3 simulations within 7 iterations")
		for _, kid := range tree.Children(tree.Root()) {
			require.GreaterOrEqual(t, tree.Node(kid).Sims(), uint32(1), "every child was visited")
		}
	})

	t.Run("zero threshold expands on the second visit", func(t *testing.T) {
		conf := DefaultConfig()
		conf.Budget = 5
		conf.Threshold = 0
		tree := newTestMCTS(conf, 1337).Search(&sumGame{length: 6})
		require.Equal(t, 9, tree.Len())
		checkInvariants(t, tree, conf.Threshold)
	})
}

func TestSearch_Reproducible(t *testing.T) {
	conf := DefaultConfig()
	conf.Budget = 300

	stats := func() []uint32 {
		tree := newTestMCTS(conf, 42).Search(&sumGame{length: 6})
		retVal := make([]uint32, 0, 2*tree.Len())
		for i := 0; i < tree.Len(); i++ {
			n := tree.Node(naughty(i))
			retVal = append(retVal, n.Wins(), n.Sims())
		}
		return retVal
	}
	if diff := cmp.Diff(stats(), stats()); diff != "" {
		t.Errorf("Same seed, different trees (-first +second):\n%s", diff)
	}
}

type countingCollector struct {
	started, completed int
	iterations         int
	expansions         int
	children           int
}

func (c *countingCollector) Start()        { c.started++ }
func (c *countingCollector) AddIteration() { c.iterations++ }

func (c *countingCollector) AddExpansion(kids int) {
	c.expansions++
	c.children += kids
}

func (c *countingCollector) Complete(int, int, time.Duration) { c.completed++ }

func TestSearch_Collector(t *testing.T) {
	conf := DefaultConfig()
	conf.Budget = 100
	c := new(countingCollector)
	m := New[string, int](conf,
		WithRand(rand.New(rand.NewSource(7))),
		WithLogger(zerolog.Nop()),
		WithCollector(c),
	)
	tree := m.Search(&sumGame{length: 4})

	require.Equal(t, 1, c.started)
	require.Equal(t, 1, c.completed)
	require.Equal(t, 100, c.iterations)
	require.Equal(t, tree.Len()-1, c.children, "every node but the root was created by an expansion")
}

func TestTree_ToDot(t *testing.T) {
	conf := DefaultConfig()
	conf.Budget = 20
	tree := newTestMCTS(conf, 1).Search(winInOne())
	dot := tree.ToDot()
	require.True(t, strings.HasPrefix(dot, "digraph G {"), dot)
	require.Contains(t, dot, "0->1")
	require.Contains(t, dot, "0->2")
}
