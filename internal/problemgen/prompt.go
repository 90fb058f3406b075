package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const systemPrompt = `You are an exam setter writing practice multiple-choice questions for MP Patwari exam aspirants.

Rules:
- Write exactly one question with exactly four options labelled A, B, C and D.
- Exactly one option is correct.
- Keep the question and options short and unambiguous.
- Write in plain text. Do not use LaTeX or markdown.`

var difficultyBlocks = map[string]string{
	DifficultyEasy: `Generate a SHORT and EASY MP Patwari exam MCQ from %s.

EASY LEVEL REQUIREMENTS:
- Use ONLY basic, fundamental concepts
- Questions should be straightforward and obvious
- Options should be clearly distinguishable
- Answer should be obvious to anyone with basic knowledge
- Use simple language and common terms only
- Keep question and options short (1-2 lines each)`,

	DifficultyMedium: `Generate a SHORT MEDIUM difficulty MP Patwari exam MCQ from %s.

MEDIUM LEVEL REQUIREMENTS:
- Use intermediate concepts that require some thinking
- Include moderately challenging scenarios
- Options should require some analysis to distinguish
- Answer should require understanding, not just memorization
- May include some application of concepts
- Keep question and options concise (2-3 lines each)`,

	DifficultyHard: `Generate a SHORT DIFFICULT MP Patwari exam MCQ from %s.

HARD LEVEL REQUIREMENTS:
- Use advanced, complex concepts
- Include challenging scenarios and deep analysis
- Options should be sophisticated and require critical thinking
- Answer should require deep understanding and reasoning
- May include complex applications or synthesis of concepts
- Test advanced knowledge and problem-solving skills
- Keep question and options concise (2-3 lines each)`,
}

const mathBlock = `

MATHEMATICS SPECIFIC INSTRUCTIONS:
- FOCUS ON SPECIFIC SUBTOPIC: %[1]s
- Use clear and precise mathematical language
- Create practical problems relevant to MP Patwari exam
- Ensure question tests understanding of %[1]s specifically
- Make calculations straightforward and educational
- Keep numbers simple (1-1000) and use basic operations: +, -, *, / only`

const hindiBlock = `

LANGUAGE REQUIREMENTS:
- Generate the ENTIRE question in HINDI (Devanagari script)
- Use proper Hindi mathematical terminology
- Use English numerals (1, 2, 3, etc.) for all numbers, not Hindi numerals
- Keep mathematical expressions in standard English format
- Use common Hindi words that MP Patwari aspirants would understand`

const englishBlock = `

LANGUAGE REQUIREMENTS:
- Generate the ENTIRE question in ENGLISH
- Use clear and simple English appropriate for exam preparation
- Maintain professional and educational tone`

const visualBlock = `

VISUAL INSTRUCTION:
This question will be accompanied by a diagram, chart or image.
- Include specific measurements, dimensions, or data values in your question
- Reference the image naturally (e.g. "Based on the diagram above")
- Use exact numbers that can be displayed in the accompanying image`

const textTemplate = `

CRITICAL: Follow this EXACT format:

Question: [Short question here]
A) [Short option A]
B) [Short option B]
C) [Short option C]
D) [Short option D]

Correct Answer: [ONLY A, B, C, or D - no other text]
Explanation: [ONE sentence explaining why the correct answer is right]`

const structuredTemplate = `

Return the question as JSON with "question", "options" (four option texts in A-D order, without letters), "correct_answer" (A, B, C or D) and a one-sentence "explanation".`

const closingRules = `

IMPORTANT:
- Use only standard mathematical notation: +, -, ×, ÷, =
- Write in PLAIN TEXT format - NO LaTeX code or mathematical formatting
- Create a UNIQUE question different from recent ones
- Use the randomization seed to create variety`

// buildUserMessage constructs the user message for one question.
func buildUserMessage(input Input, cfg Config) string {
	block, ok := difficultyBlocks[input.Difficulty]
	if !ok {
		block = difficultyBlocks[DifficultyMedium]
	}

	var b strings.Builder
	fmt.Fprintf(&b, block, DisplayTopic(input.Topic, input.Subtopic, input.Language))

	if input.Topic == MathTopic && input.Subtopic != "" {
		fmt.Fprintf(&b, mathBlock, input.Subtopic)
	}
	if input.Language == LanguageHindi {
		b.WriteString(hindiBlock)
	} else {
		b.WriteString(englishBlock)
	}
	if input.Visual() {
		b.WriteString(visualBlock)
	}

	seed := input.Seed
	if seed == 0 {
		seed = rand.IntN(1000) + 1
	}
	fmt.Fprintf(&b, "\n\nRANDOMIZATION SEED: %d (use this to create variety)", seed)

	if cfg.Structured {
		b.WriteString(structuredTemplate)
	} else {
		b.WriteString(textTemplate)
	}
	b.WriteString(closingRules)
	b.WriteString(buildAvoid(input.RecentQuestions, cfg.MaxAvoid))

	return b.String()
}
