package problemgen

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/mcqbot/internal/llm"
	"github.com/abhisek/mcqbot/internal/mcq"
)

// ImagePurpose tags illustration requests.
const ImagePurpose = "question-image"

var numberRe = regexp.MustCompile(`-?\d+`)

// Illustrator produces a diagram URL for questions on visual topics.
type Illustrator struct {
	images llm.ImageProvider
}

// NewIllustrator creates an Illustrator backed by an image provider.
func NewIllustrator(images llm.ImageProvider) *Illustrator {
	return &Illustrator{images: images}
}

// Illustrate returns an image URL for q. Questions that do not need a
// visual return "" and no error.
func (il *Illustrator) Illustrate(ctx context.Context, input Input, q *mcq.ParsedQuestion) (string, error) {
	if !input.Visual() {
		return "", nil
	}
	content := strings.ToLower(q.Text + " " + strings.Join(q.OptionTexts(), " "))
	url, err := il.images.Image(ctx, llm.ImageRequest{
		Purpose: ImagePurpose,
		Prompt:  ImagePrompt(input.Topic, input.Subtopic, content),
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	return url, nil
}

// topicImage maps a content keyword to a prompt; "" is the topic default.
type topicImage struct {
	keywords []string
	prompt   string
}

var topicImages = map[string][]topicImage{
	"Science": {
		{[]string{"biology", "जीव विज्ञान"}, "Educational biological diagram showing anatomical structures, cells, or biological processes. Clean, scientific illustration."},
		{[]string{"chemistry", "रसायन विज्ञान"}, "Educational chemistry diagram showing molecular structures, chemical reactions, or laboratory equipment. Clean, scientific illustration."},
		{[]string{"physics", "भौतिक विज्ञान"}, "Educational physics diagram showing mechanical systems, electrical circuits, or physical phenomena. Clean, scientific illustration."},
		{nil, "Educational scientific diagram with laboratory equipment, biological structures, or chemical processes. Clean, scientific illustration."},
	},
	"Geography": {
		{[]string{"map", "नक्शा"}, "Educational geographic map showing countries, states, or regions with clear boundaries and labels. Clean, simple map style."},
		{[]string{"climate", "जलवायु"}, "Educational diagram showing climate zones, weather patterns, or temperature maps. Clean, simple geographic illustration."},
		{nil, "Educational geographic illustration showing landforms, maps, or geographic features. Clean, simple geographic style."},
	},
	"History": {
		{[]string{"monument", "स्मारक"}, "Educational illustration of historical monuments or architectural structures. Clean, historical illustration style."},
		{[]string{"battle", "युद्ध"}, "Educational illustration of historical battles or military events. Clean, historical illustration style."},
		{nil, "Educational historical illustration showing artifacts, monuments, or historical events. Clean, historical illustration style."},
	},
}

// ImagePrompt builds an image generation prompt from the topic and the
// lower-cased question content, reusing numbers found in the question.
func ImagePrompt(topic, subtopic, content string) string {
	nums := numberRe.FindAllString(content, -1)
	has := func(words ...string) bool {
		return lo.SomeBy(words, func(w string) bool { return strings.Contains(content, w) })
	}

	if topic == MathTopic && subtopic != "" {
		sub := strings.ToLower(subtopic)
		switch {
		case strings.Contains(sub, "mensuration"):
			switch {
			case has("rectangle", "आयत") && len(nums) >= 2:
				return fmt.Sprintf("Educational diagram of rectangle with length %s cm and width %s cm. Clear labels, white background, black lines.", nums[0], nums[1])
			case has("triangle", "त्रिभुज") && len(nums) >= 2:
				return fmt.Sprintf("Educational diagram of triangle with base %s cm and height %s cm. Clear labels, white background, black lines.", nums[0], nums[1])
			case has("circle", "वृत्त") && len(nums) >= 1:
				return fmt.Sprintf("Educational diagram of circle with radius %s cm. Clear labels, white background, black lines.", nums[0])
			}
			return "Educational diagram showing geometric shapes with labeled dimensions. Clear mathematical figures, white background, black lines."
		case strings.Contains(sub, "data interpretation"):
			data := "sample data"
			if len(nums) > 0 {
				data = strings.Join(lo.Slice(nums, 0, 4), ", ")
			}
			switch {
			case has("bar chart", "बार चार्ट"):
				return fmt.Sprintf("Professional bar chart showing data: %s. Clear labels, different colored bars, educational style.", data)
			case has("pie chart", "पाई चार्ट"):
				return fmt.Sprintf("Professional pie chart with segments: %s. Clear labels, different colors, educational style.", data)
			}
			return "Professional data visualization chart with clear labels and values. Educational style."
		case strings.Contains(sub, "quadratic equations"):
			if len(nums) >= 3 {
				return fmt.Sprintf("Mathematical graph of y = %sx² + %sx + %s. Parabolic curve with labeled axes, grid lines.", nums[0], nums[1], nums[2])
			}
			return "Mathematical graph of quadratic equation showing parabolic curve with labeled axes, grid lines."
		case strings.Contains(sub, "probability"):
			switch {
			case has("coin", "सिक्का"):
				return "Educational diagram showing coin toss probability with heads and tails labeled. Simple, clean design."
			case has("dice", "पासा"):
				return "Educational diagram showing dice with numbered faces (1-6). Simple, clean design."
			case has("venn diagram"):
				return "Educational Venn diagram showing overlapping circles for set theory. Clear labels and intersections."
			}
			return "Educational probability diagram showing coins, dice, or Venn diagram. Clean, simple design."
		case strings.Contains(sub, "permutation"), strings.Contains(sub, "combination"):
			return "Educational diagram showing arrangement of objects in different combinations. Clean, organized layout."
		}
		return fmt.Sprintf("Educational mathematical diagram for %s with clear labels and measurements.", subtopic)
	}

	key := strings.TrimPrefix(topic, "General ")
	if entries, ok := topicImages[key]; ok {
		for _, e := range entries {
			if e.keywords == nil || has(e.keywords...) {
				return e.prompt
			}
		}
	}
	return fmt.Sprintf("Educational diagram or illustration relevant to %s with clear labels and professional appearance. Clean, educational style.", topic)
}
