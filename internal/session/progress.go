package session

// Progress tracks cumulative results across the problems of one practice run.
type Progress struct {
	Attempted int
	Solved    int
	Credit    float64 // sum of best partial credit per problem
	Accuracy  float64 // Solved / Attempted (computed)

	best map[string]float64
}

// Record adds the result of a submission on problemID. Only the best credit
// per problem counts.
func (p *Progress) Record(problemID string, correct bool, credit float64) {
	if p.best == nil {
		p.best = make(map[string]float64)
	}

	prev, seen := p.best[problemID]
	if !seen {
		p.Attempted++
	}
	if correct && (!seen || prev < 1) {
		p.Solved++
	}
	if !seen || credit > prev {
		p.Credit += credit - prev
		p.best[problemID] = credit
	}

	if p.Attempted > 0 {
		p.Accuracy = float64(p.Solved) / float64(p.Attempted)
	}
}

// Best returns the best credit earned on problemID.
func (p *Progress) Best(problemID string) (float64, bool) {
	c, ok := p.best[problemID]
	return c, ok
}
