package session

import "time"

// Summary holds the data displayed when a play loop ends.
type Summary struct {
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	Topics         []Progress
}

// Tracker accumulates outcomes for one user's play loop. It is not safe for
// concurrent use.
type Tracker struct {
	start   time.Time
	order   []string
	byTopic map[string]*Progress
	total   int
	correct int
}

// NewTracker starts a tracker at the given time.
func NewTracker(start time.Time) *Tracker {
	return &Tracker{start: start, byTopic: make(map[string]*Progress)}
}

// Record adds a resolved outcome.
func (t *Tracker) Record(o *Outcome) {
	if o == nil {
		return
	}
	t.total++
	if o.IsCorrect {
		t.correct++
	}

	topic := ""
	if o.Session != nil {
		topic = o.Session.Topic
	}
	p, ok := t.byTopic[topic]
	if !ok {
		p = &Progress{Topic: topic}
		t.byTopic[topic] = p
		t.order = append(t.order, topic)
	}
	p.Record(o.IsCorrect)
}

// Score returns the running correct and total counts.
func (t *Tracker) Score() (correct, total int) {
	return t.correct, t.total
}

// BuildSummary creates a Summary as of now. Topics appear in the order they
// were first answered.
func BuildSummary(t *Tracker, now time.Time) *Summary {
	results := make([]Progress, 0, len(t.order))
	for _, topic := range t.order {
		results = append(results, *t.byTopic[topic])
	}

	var accuracy float64
	if t.total > 0 {
		accuracy = float64(t.correct) / float64(t.total)
	}

	return &Summary{
		Duration:       now.Sub(t.start),
		TotalQuestions: t.total,
		TotalCorrect:   t.correct,
		Accuracy:       accuracy,
		Topics:         results,
	}
}
