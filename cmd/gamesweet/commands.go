package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gorgonia/gamesweet"
)

var (
	configPath string
	logLevel   string
	seed       uint64

	conf gamesweet.Config

	rootCmd = &cobra.Command{
		Use:   "gamesweet",
		Short: "Play board games against a Monte Carlo tree search",
		Long: `gamesweet plays tic tac toe, m,n,k games and connect four.
Matches are set up from a YAML file, GAMESWEET_* environment variables and flags, in that order.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play a match between two agents",
		RunE:  runPlay, // Defined in cmd_play.go
	}

	gtpCmd = &cobra.Command{
		Use:   "gtp",
		Short: "Speak a GTP-like text protocol on stdin and stdout, answering genmove with the first player's policy",
		RunE:  runGTP, // Defined in cmd_gtp.go
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "gamesweet.yaml", "config file. It's fine if it does not exist")
	pf.StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")
	pf.Uint64Var(&seed, "seed", 0, "seed of the random generators. 0 seeds from the clock")
	pf.String("game", "", "tictactoe, mnk or c4")
	pf.Int("rows", 0, "rows of the board")
	pf.Int("cols", 0, "columns of the board")
	pf.Int("k", 0, "how many in a row to win")
	pf.Duration("timeout", 0, "time budget of one search")
	pf.Int("budget", 0, "iteration budget of one search. 0 means no cap")

	playFlags()
	rootCmd.AddCommand(playCmd, gtpCmd)
}

// setup loads the config and applies the flags that were set on top of it.
func setup(cmd *cobra.Command, args []string) (err error) {
	if conf, err = gamesweet.LoadConfig(configPath); err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("log-level") {
		conf.LogLevel = logLevel
	}
	if fs.Changed("seed") {
		conf.Seed = seed
	}
	if fs.Changed("game") {
		conf.Game, _ = fs.GetString("game")
	}
	if fs.Changed("rows") {
		conf.Rows, _ = fs.GetInt("rows")
	}
	if fs.Changed("cols") {
		conf.Cols, _ = fs.GetInt("cols")
	}
	if fs.Changed("k") {
		conf.K, _ = fs.GetInt("k")
	}
	if fs.Changed("timeout") {
		conf.MCTS.Timeout, _ = fs.GetDuration("timeout")
	}
	if fs.Changed("budget") {
		conf.MCTS.Budget, _ = fs.GetInt("budget")
	}
	if err = playOverrides(cmd); err != nil {
		return err
	}
	if err = conf.Validate(); err != nil {
		return errors.WithMessage(err, "invalid flags")
	}

	level, _ := zerolog.ParseLevel(conf.LogLevel) // validated
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return nil
}
