package mcq

import "math/rand/v2"

// AssignRandom gives pq a uniformly random correct letter and marks the
// explanation accordingly. A nil rng uses the global source.
func AssignRandom(pq *ParsedQuestion, rng *rand.Rand) {
	var i int
	if rng != nil {
		i = rng.IntN(len(Letters))
	} else {
		i = rand.IntN(len(Letters))
	}
	pq.Correct = Letters[i]
	pq.Explanation = RandomExplanation
	pq.Confidence = Fallback
}
