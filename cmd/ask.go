package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/session"
)

const askUser = "cli"

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Generate one question and check the answer typed on stdin",
	Long:  "Generate one question and check the answer typed on stdin. Nothing is written to the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		topic, _ := cmd.Flags().GetString("topic")
		subtopic, _ := cmd.Flags().GetString("subtopic")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		language, _ := cmd.Flags().GetString("language")
		switch {
		case !problemgen.ValidTopic(topic):
			return fmt.Errorf("unknown topic %q (see `mcqbot topics`)", topic)
		case !problemgen.ValidSubtopic(subtopic):
			return fmt.Errorf("unknown math subtopic %q", subtopic)
		case !problemgen.ValidDifficulty(difficulty):
			return fmt.Errorf("difficulty must be one of %s", strings.Join(problemgen.Difficulties, ", "))
		case !problemgen.ValidLanguage(language):
			return fmt.Errorf("language must be one of %s", strings.Join(problemgen.Languages, ", "))
		}

		svc, err := newQuizService(ctx, quiz.NopStore{}, nil)
		if err != nil {
			return err
		}

		d, err := svc.RequestQuestion(ctx, quiz.Request{
			User:       askUser,
			Topic:      topic,
			Subtopic:   subtopic,
			Difficulty: difficulty,
			Language:   language,
		})
		if err != nil {
			return err
		}

		sess := d.Session
		fmt.Println(problemgen.DisplayTopic(sess.Topic, sess.Subtopic, sess.Language) + " · " + sess.Difficulty)
		fmt.Println()
		fmt.Println(sess.Question.Text)
		for _, o := range sess.Question.Options {
			fmt.Printf("  %s) %s\n", o.Letter, o.Text)
		}
		if sess.ImageURL != "" {
			fmt.Println("\nImage:", sess.ImageURL)
		}

		in := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("\nYour answer (A-D): ")
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return fmt.Errorf("read answer: %w", err)
				}
				return nil
			}

			out, err := svc.SubmitAnswer(ctx, askUser, in.Text())
			if errors.Is(err, session.ErrInvalidInput) {
				fmt.Println("Please answer with A, B, C or D.")
				continue
			}
			if err != nil {
				return err
			}

			fmt.Println()
			if out.IsCorrect {
				fmt.Println("✓ Correct!")
			} else {
				fmt.Printf("✗ Wrong. The correct answer is %s) %s\n", out.Correct, out.CorrectText())
			}
			fmt.Println(out.Explanation)
			return nil
		}
	},
}

func init() {
	askCmd.Flags().StringP("topic", "t", problemgen.RandomTopic, "Topic (see `mcqbot topics`)")
	askCmd.Flags().StringP("subtopic", "s", "", "Math subtopic for Basic Mathematics")
	askCmd.Flags().StringP("difficulty", "d", problemgen.DifficultyMedium, "Easy, Medium or Hard")
	askCmd.Flags().StringP("language", "l", problemgen.LanguageEnglish, "English or Hindi")
}
