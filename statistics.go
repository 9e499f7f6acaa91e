package gamesweet

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Statistics keeps the running record of every agent, one entry per game played.
type Statistics struct {
	Creation []string
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

func (s *Statistics) update(agents ...Scorer) {
	for _, a := range agents {
		name, wins, loss, draw := a.Score()
		if _, ok := s.Wins[name]; !ok {
			s.Creation = append(s.Creation, name)
		}

		s.Wins[name] = append(s.Wins[name], wins)
		s.Losses[name] = append(s.Losses[name], loss)
		s.Draws[name] = append(s.Draws[name], draw)
	}
}

// WinRate returns the latest win rate of the named agent. It is 0 for unknown agents.
func (s *Statistics) WinRate(name string) float32 {
	wins := s.Wins[name]
	if len(wins) == 0 {
		return 0
	}
	last := len(wins) - 1
	return winRate(wins[last], s.Losses[name][last], s.Draws[name][last])
}

func winRate(win, loss, draw float32) float32 {
	retVal := win / (win + loss + draw)
	if math32.IsNaN(retVal) || math32.IsInf(retVal, 0) {
		return 0
	}
	return retVal
}

// Dump writes a CSV file with a column per agent. Each row is the win rate of one agent after one game.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to open %q", filename)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(s.Creation); err != nil {
		return errors.Wrap(err, "unable to write header")
	}
	var records [][]string
	for i, agent := range s.Creation {
		for j, win := range s.Wins[agent] {
			record := make([]string, len(s.Creation))
			rate := winRate(win, s.Losses[agent][j], s.Draws[agent][j])

			record[i] = strconv.FormatFloat(float64(rate), 'f', 3, 32)
			records = append(records, record)
		}
	}
	if err := w.WriteAll(records); err != nil {
		return errors.Wrap(err, "unable to write records")
	}
	return nil
}
