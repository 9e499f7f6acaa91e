package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gorgonia/gamesweet"
	"github.com/gorgonia/gamesweet/encoding/gif"
	"github.com/gorgonia/gamesweet/encoding/mjpeg"
	"github.com/gorgonia/gamesweet/encoding/ws"
	"github.com/gorgonia/gamesweet/game"
	"github.com/gorgonia/gamesweet/mcts"
	"github.com/gorgonia/gamesweet/metrics"
)

const (
	frameH = 480
	frameW = 640
)

var playOpts struct {
	games    int
	p1, p2   string
	gif      string
	stats    string
	save     string
	dot      string
	listen   string
	hold     bool
	retries  int
	frameGap time.Duration
}

func playFlags() {
	f := playCmd.Flags()
	f.IntVarP(&playOpts.games, "games", "n", 0, "number of games to play")
	f.StringVar(&playOpts.p1, "p1", "", "first player as name:policy, policy being mcts or random")
	f.StringVar(&playOpts.p2, "p2", "", "second player as name:policy")
	f.StringVar(&playOpts.gif, "gif", "", "write every position to this animated GIF")
	f.StringVar(&playOpts.stats, "stats", "", "write the win rates after every game to this CSV file")
	f.StringVar(&playOpts.save, "save", "", "write the match statistics to this gob file")
	f.StringVar(&playOpts.dot, "dot", "", "write the search tree of the first move to this graphviz file")
	f.StringVar(&playOpts.listen, "listen", "", "serve /metrics, /ws and /mjpeg on this address, e.g. :8080")
	f.BoolVar(&playOpts.hold, "hold", false, "keep serving after the match, until interrupted")
	f.IntVar(&playOpts.retries, "retries", gamesweet.DefaultMaxRetries, "how many times an agent may retry a rejected move")
	f.DurationVar(&playOpts.frameGap, "frame-gap", 0, "pause after every move, for watching over /ws or /mjpeg")
}

// playOverrides applies the play flags to the config. The flags of other commands are not looked at.
func playOverrides(cmd *cobra.Command) error {
	if cmd != playCmd {
		return nil
	}
	fs := cmd.Flags()
	if fs.Changed("games") {
		conf.Games = playOpts.games
	}
	for i, arg := range []string{playOpts.p1, playOpts.p2} {
		if arg == "" {
			continue
		}
		p, err := parsePlayer(arg)
		if err != nil {
			return err
		}
		conf.Players[i] = p
	}
	return nil
}

func parsePlayer(arg string) (gamesweet.PlayerConfig, error) {
	name, policy, ok := strings.Cut(arg, ":")
	if !ok || name == "" || policy == "" {
		return gamesweet.PlayerConfig{}, errors.Errorf("expected name:policy, got %q", arg)
	}
	return gamesweet.PlayerConfig{Name: name, Policy: policy}, nil
}

// pacer sleeps after every frame.
type pacer time.Duration

func (p pacer) Encode(game.MetaState) error { time.Sleep(time.Duration(p)); return nil }
func (p pacer) Flush() error                { return nil }

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	searchOpts := []mcts.Option{mcts.WithCollector(metrics.New(reg))}

	var encs gamesweet.MultiEncoder
	if playOpts.gif != "" {
		f, err := os.Create(playOpts.gif)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		encs = append(encs, gif.NewEncoder(frameH, frameW, f))
	}

	var srv *http.Server
	if playOpts.listen != "" {
		wsEnc := ws.NewEncoder(log.Logger.With().Str("encoder", "ws").Logger())
		defer wsEnc.Close()
		mjEnc := mjpeg.NewEncoder(frameH, frameW).WithLogger(log.Logger.With().Str("encoder", "mjpeg").Logger())
		encs = append(encs, wsEnc, mjEnc)
		if playOpts.frameGap > 0 {
			encs = append(encs, pacer(playOpts.frameGap))
		}

		srv = &http.Server{Addr: playOpts.listen, Handler: newRouter(reg, wsEnc, mjEnc)}
		go func() {
			log.Info().Str("addr", playOpts.listen).Msg("serving /metrics, /ws and /mjpeg")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("server")
			}
		}()
		defer shutdown(srv)
	}

	opts := []gamesweet.ArenaOption{gamesweet.WithMaxRetries(playOpts.retries)}
	if len(encs) > 0 {
		opts = append(opts, gamesweet.WithOutputEncoder(encs))
	}
	m, err := gamesweet.NewMatch(conf, searchOpts, opts...)
	if err != nil {
		return err
	}

	if playOpts.dot != "" {
		if err := writeDot(playOpts.dot, searchOpts); err != nil {
			return err
		}
	}

	if err := m.Run(ctx); err != nil {
		return err
	}
	for _, a := range []*gamesweet.Agent[game.Player, game.Single]{m.A, m.B} {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%v): %v wins, %v losses, %v draws. Win rate %.3f\n",
			a.Name, a.Player, a.Wins, a.Loss, a.Draw, m.WinRate(a.Name))
	}

	if playOpts.stats != "" {
		if err := m.Dump(playOpts.stats); err != nil {
			return err
		}
	}
	if playOpts.save != "" {
		if err := m.Save(playOpts.save); err != nil {
			return err
		}
	}
	if srv != nil && playOpts.hold {
		log.Info().Msg("match over. Still serving until interrupted")
		<-ctx.Done()
	}
	return nil
}

// writeDot searches the opening position once and writes the tree.
func writeDot(filename string, searchOpts []mcts.Option) error {
	g, err := conf.NewGame()
	if err != nil {
		return err
	}
	search := mcts.New[game.Player, game.Single](conf.SearchConfig(), searchOpts...)
	dot := search.Search(g).ToDot()
	return errors.Wrapf(os.WriteFile(filename, []byte(dot), 0644), "unable to write %q", filename)
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
