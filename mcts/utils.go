package mcts

import "math"

// ucb1 is the upper confidence bound of a child:
//
//	wins/sims + c * sqrt(ln(parentSims)/sims)
//
// A child that has never been simulated has a priority of +Inf, so every unvisited child is tried
// before any visited sibling is revisited.
func ucb1(wins, sims, parentSims uint32, c float64) float64 {
	exploit := float64(wins) / float64(sims)
	explore := c * math.Sqrt(math.Log(float64(parentSims))/float64(sims))
	retVal := exploit + explore
	if math.IsNaN(retVal) || math.IsInf(retVal, 0) {
		return math.Inf(1)
	}
	return retVal
}
