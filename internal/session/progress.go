package session

// Progress tracks answers for one topic during a play loop.
type Progress struct {
	Topic     string
	Attempted int
	Correct   int
	Accuracy  float64 // Correct / Attempted (computed)
}

// Record adds a new answer result to the progress.
func (p *Progress) Record(correct bool) {
	p.Attempted++
	if correct {
		p.Correct++
	}
	if p.Attempted > 0 {
		p.Accuracy = float64(p.Correct) / float64(p.Attempted)
	}
}
