package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

func newQuestionsCmd() *cobra.Command {
	var (
		pageSize      int
		questionnaire string
	)

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire, page by page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			def, err := loadDefinition(questionnaire, cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("page-size") {
				pageSize = cfg.Assessment.PageSize
			}
			if pageSize <= 0 {
				return fmt.Errorf("--page-size must be positive")
			}
			printQuestions(cmd.OutOrStdout(), def, pageSize)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 5, "Questions per page")
	cmd.Flags().StringVar(&questionnaire, "questionnaire", "", "Path to a questionnaire YAML file")
	return cmd
}

func printQuestions(w io.Writer, def *assessment.Definition, pageSize int) {
	fmt.Fprintf(w, "Rate each statement from %d to %d:\n", assessment.MinRating, assessment.MaxRating)
	for _, p := range def.Scale {
		fmt.Fprintf(w, "  %d = %s\n", p.Rating, p.Label)
	}
	fmt.Fprintln(w)

	pages := def.PageCount(pageSize)
	for page := 0; page < pages; page++ {
		fmt.Fprintf(w, "Page %d/%d\n", page+1, pages)
		for _, q := range def.Page(page, pageSize) {
			fmt.Fprintf(w, "  %2d. [%s] %s\n", q.Index+1, q.Domain, q.Text)
		}
		fmt.Fprintln(w)
	}
}
