package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gorgonia/gamesweet/gtp"
)

const version = "0.1.0"

func runGTP(cmd *cobra.Command, args []string) error {
	g, err := conf.NewGame()
	if err != nil {
		return err
	}
	policy, err := conf.NewPolicy(0)
	if err != nil {
		return err
	}
	e := gtp.New(g, "gamesweet", version, nil)
	e.New = conf.NewGameOfSize
	e.Generate = policy.ChooseAction
	log.Info().Str("game", conf.Game).Str("policy", conf.Players[0].Policy).Msg("gtp ready")
	return serveGTP(e, cmd.InOrStdin(), cmd.OutOrStdout())
}

// serveGTP runs the engine one line at a time until quit or the end of the input.
func serveGTP(e *gtp.Engine, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		resp, ok := e.Exec(sc.Text())
		if !ok {
			continue
		}
		if _, err := fmt.Fprint(out, resp); err != nil {
			return errors.WithStack(err)
		}
		if e.Done() {
			return nil
		}
	}
	return errors.WithStack(sc.Err())
}
