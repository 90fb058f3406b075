package problemgen

import (
	"math/rand/v2"

	"github.com/samber/lo"
)

// RandomTopic asks for a topic to be chosen per question.
const RandomTopic = "Random"

// MathTopic is the topic that carries subtopics.
const MathTopic = "Basic Mathematics"

// Topics are the exam topics a question can be drawn from.
var Topics = []string{
	"General Science",
	"General Hindi",
	"General English",
	MathTopic,
	"General Knowledge",
	"Computer Knowledge",
	"Reasoning Ability",
	"General Management with MP GK",
}

// MathSubtopics are the syllabus areas of MathTopic.
var MathSubtopics = []string{
	"Decimals and Fractions",
	"Square Root and Cube Root",
	"Simplification",
	"L.S. and M.S.",
	"Time, Speed, and Distance",
	"Mensuration",
	"Number System",
	"Simple and Compound Interest",
	"Ratio and Proportion",
	"Partnership",
	"Number Series",
	"Data Interpretation",
	"Quadratic Equations",
	"Data Sufficiency",
	"Discounts",
	"Averages",
	"Mixtures",
	"Percentages",
	"Profit and Loss",
	"Work",
	"Rate of Interest",
	"Probability",
	"Permutation and Combination",
}

// mathSubtopicsHindi is index-aligned with MathSubtopics.
var mathSubtopicsHindi = []string{
	"दशमलव और भिन्न",
	"वर्गमूल और घनमूल",
	"सरलीकरण",
	"L.S. और M.S.",
	"समय, गति और दूरी",
	"क्षेत्रमिति",
	"संख्या प्रणाली",
	"साधारण और चक्रवृद्धि ब्याज",
	"अनुपात और समानुपात",
	"साझेदारी",
	"संख्या श्रृंखला",
	"डेटा व्याख्या",
	"द्विघात समीकरण",
	"डेटा पर्याप्तता",
	"छूट",
	"औसत",
	"मिश्रण",
	"प्रतिशत",
	"लाभ और हानि",
	"कार्य",
	"ब्याज दर",
	"संभावना",
	"क्रमचय और संयोजन",
}

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties lists the supported difficulty levels.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

const (
	LanguageEnglish = "English"
	LanguageHindi   = "Hindi"
)

// Languages lists the supported question languages.
var Languages = []string{LanguageEnglish, LanguageHindi}

// visualSubjects benefit from an accompanying diagram, either as a math
// subtopic or as a topic of their own.
var visualSubjects = []string{
	"Mensuration",
	"Data Interpretation",
	"Quadratic Equations",
	"Probability",
	"Permutation and Combination",
	"Geometry",
	"Charts and Graphs",
	"Shapes and Figures",
}

// illustratedTopics get a diagram regardless of subtopic.
var illustratedTopics = []string{"General Science", "Science", "Geography", "History"}

// ValidTopic reports whether topic is a known topic or RandomTopic.
func ValidTopic(topic string) bool {
	return topic == RandomTopic || lo.Contains(Topics, topic)
}

// ValidSubtopic reports whether subtopic is empty, RandomTopic or a known
// math subtopic.
func ValidSubtopic(subtopic string) bool {
	return subtopic == "" || subtopic == RandomTopic || lo.Contains(MathSubtopics, subtopic)
}

// ValidDifficulty reports whether d is a supported difficulty.
func ValidDifficulty(d string) bool { return lo.Contains(Difficulties, d) }

// ValidLanguage reports whether l is a supported language.
func ValidLanguage(l string) bool { return lo.Contains(Languages, l) }

// NeedsVisual reports whether a question on topic/subtopic should be
// illustrated.
func NeedsVisual(topic, subtopic string) bool {
	if topic == MathTopic {
		return subtopic != "" && lo.Contains(visualSubjects, subtopic)
	}
	if lo.Contains(illustratedTopics, topic) {
		return true
	}
	return lo.Contains(visualSubjects, topic)
}

// ResolveTopic turns user preferences into a concrete topic and subtopic.
// RandomTopic (or empty) picks a topic; MathTopic without a concrete
// subtopic picks one. Other topics never carry a subtopic. A nil rng uses
// the global source.
func ResolveTopic(topic, subtopic string, rng *rand.Rand) (string, string) {
	if topic == "" || topic == RandomTopic {
		topic = Topics[intN(rng, len(Topics))]
	}
	if topic != MathTopic {
		return topic, ""
	}
	if subtopic == "" || subtopic == RandomTopic || !lo.Contains(MathSubtopics, subtopic) {
		subtopic = MathSubtopics[intN(rng, len(MathSubtopics))]
	}
	return topic, subtopic
}

// DisplayTopic renders the topic line shown in prompts, localized for
// Hindi.
func DisplayTopic(topic, subtopic, language string) string {
	if topic != MathTopic || subtopic == "" {
		return topic
	}
	if language == LanguageHindi {
		if i := lo.IndexOf(MathSubtopics, subtopic); i >= 0 {
			return "बेसिक गणित - " + mathSubtopicsHindi[i]
		}
		return "बेसिक गणित - " + subtopic
	}
	return topic + " - " + subtopic
}

func intN(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.IntN(n)
	}
	return rand.IntN(n)
}
