package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqbot/internal/problemgen"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics, math subtopics, difficulties and languages",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Topics")
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("  %s\n", problemgen.RandomTopic)
		for _, t := range problemgen.Topics {
			fmt.Printf("  %s\n", t)
		}

		fmt.Println()
		fmt.Println("Math subtopics")
		fmt.Println(strings.Repeat("─", 40))
		for _, s := range problemgen.MathSubtopics {
			marker := ""
			if problemgen.NeedsVisual(problemgen.MathTopic, s) {
				marker = "  (illustrated)"
			}
			fmt.Printf("  %s%s\n", s, marker)
		}

		fmt.Println()
		fmt.Printf("Difficulties: %s\n", strings.Join(problemgen.Difficulties, ", "))
		fmt.Printf("Languages:    %s\n", strings.Join(problemgen.Languages, ", "))
	},
}
