package gtp

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/gorgonia/gamesweet/game"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)

	var buf bytes.Buffer
	for i, c := range cmds {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(c)
	}
	return buf.String()
}

func quit(e *Engine) string { e.done = true; return "QUIT" }

func clearBoard(e *Engine) string {
	e.g.Reset()
	e.history = e.history[:0]
	return ""
}

func showboard(e *Engine) string { return fmt.Sprintf("\n%s", e.g) }

func undo(e *Engine, args []string) (string, error) {
	if len(e.history) == 0 {
		return "", errors.New("Cannot undo")
	}
	return "", e.replay(len(e.history) - 1)
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func boardSize(e *Engine, args []string) (string, error) {
	if e.New == nil {
		return "", errors.New("Unable to resize the board. No constructor found")
	}
	var m, n int
	var err error
	switch len(args) {
	case 0:
		return "", errors.New("Not enough arguments for \"boardsize\"")
	case 1:
		var size int
		if size, err = strconv.Atoi(args[0]); err != nil {
			return "", errors.WithMessage(err, "Unable to parse first argument of boardsize")
		}
		m = sqrt(size)
		n = m
	default:
		if m, err = strconv.Atoi(args[0]); err != nil {
			return "", errors.WithMessage(err, "Unable to parse first argument of boardsize")
		}
		if n, err = strconv.Atoi(args[1]); err != nil {
			return "", errors.WithMessage(err, "Unable to parse second argument of boardsize")
		}
	}
	g, err := e.New(m, n)
	if err != nil {
		return "", errors.WithMessage(err, "unacceptable size")
	}
	e.g = g
	e.history = e.history[:0]
	return "", nil
}

// checkTurn parses the colour argument. Games here cannot pass, so the colour must be the one to move.
func checkTurn(e *Engine, arg string) error {
	p, err := parseColour(arg)
	if err != nil {
		return err
	}
	if p != e.g.ToMove() {
		return errors.Errorf("It is not %v's turn", p)
	}
	return nil
}

func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	if err := checkTurn(e, args[0]); err != nil {
		return "", err
	}
	m, err := strconv.Atoi(args[1])
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse move")
	}
	if err := e.apply(game.Single(m)); err != nil {
		return "", err
	}
	return "", nil
}

func genmove(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"genmove\"")
	}
	if e.Generate == nil {
		return "", errors.New("Unable to generate moves. No generator found")
	}
	if err := checkTurn(e, args[0]); err != nil {
		return "", err
	}
	if e.g.Ended() {
		return "", errors.New("Game is over")
	}
	m := e.Generate(e.g)
	if err := e.apply(m); err != nil {
		return "", errors.WithMessage(err, "Generated move was rejected")
	}
	return strconv.Itoa(int(m)), nil
}

func finalScore(e *Engine) string {
	if !e.g.Ended() {
		return "?"
	}
	if w, ok := e.g.Winner(); ok {
		return fmt.Sprintf("%v", w)
	}
	return "0"
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),
		"final_score":      stdlib(finalScore),

		"known_command": stdlib2(knownCommand),
		"boardsize":     stdlib2(boardSize),
		"undo":          stdlib2(undo),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
	}
}
