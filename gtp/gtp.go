// Package gtp is a line oriented text protocol in the style of the Go Text Protocol, for playing board games against a policy.
package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gorgonia/gamesweet/game"
)

// Game is a board game that the engine can drive.
type Game = game.Playable

type Engine struct {
	g       Game
	history []game.Single

	known map[string]Command

	ch   chan string
	ret  chan string
	done bool

	// Generate picks the move for the player to move. It must not play it.
	Generate func(g game.State[game.Player, game.Single]) game.Single
	// New creates a new game with a board of m rows and n columns.
	New           func(m, n int) (Game, error)
	name, version string
}

func New(g Game, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		g:       g,
		known:   known,
		name:    name,
		version: version,
	}
}

func (e *Engine) Start() (input, output chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) State() Game { return e.g }

func (e *Engine) start() {
	for cmd := range e.ch {
		if resp, ok := e.Exec(cmd); ok {
			e.ret <- resp
		}
		if e.done {
			break
		}
	}
	close(e.ret)
}

// Exec runs one line of input. ok is false for lines that get no response, such as empty lines.
func (e *Engine) Exec(cmd string) (resp string, ok bool) {
	id, x, args, err := e.parse(cmd)
	if x == nil && err == nil {
		return "", false
	}
	if err != nil {
		return handleErr(id, err), true
	}
	id, result, err := x.Do(id, args, e)
	return handleResult(id, result, err), true
}

// Done reports whether quit was received.
func (e *Engine) Done() bool { return e.done }

// apply plays the move on the current game and records it.
func (e *Engine) apply(m game.Single) error {
	if e.g.Ended() {
		return errors.New("Game is over")
	}
	if !e.g.Apply(m) {
		return errors.Errorf("Illegal move %d", m)
	}
	e.history = append(e.history, m)
	return nil
}

// replay resets the game and plays the first n moves of the history again.
func (e *Engine) replay(n int) error {
	moves := e.history[:n]
	e.history = make([]game.Single, 0, n)
	e.g.Reset()
	for _, m := range moves {
		if err := e.apply(m); err != nil {
			return errors.WithMessage(err, "Unable to replay history")
		}
	}
	return nil
}

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // GNUGo some how does nothing when there are no tokens left. An ID may be passed in but it'll be ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess drops comments and normalizes the case.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func parseColour(a string) (game.Player, error) {
	switch a {
	case "b", "black", "x":
		return game.Player(game.Black), nil
	case "w", "white", "o":
		return game.Player(game.White), nil
	}
	return game.Player(game.None), errors.Errorf("Unknown colour %q", a)
}

func sqrt(a int) int {
	if a == 0 || a == 1 {
		return a
	}
	start := 1
	end := a / 2
	var retVal int
	for start <= end {
		mid := (start + end) / 2
		sq := mid * mid
		if sq == a {
			return mid
		}
		if sq < a {
			start = mid + 1
			retVal = mid
		} else {
			end = mid - 1
		}
	}
	return retVal
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
