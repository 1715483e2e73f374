package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eqcoach/eqcoach/pkg/assessment"
	"github.com/eqcoach/eqcoach/pkg/surface"
)

func newScoreCmd() *cobra.Command {
	var (
		answers       string
		questionnaire string
		outputFmt     string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a complete answer list without prompting",
		Long: `Scores a comma-separated list of ratings, one per question in
questionnaire order, and renders the result.`,
		Example: "  eqcoach score --answers 3,4,2,5,3,3,4,2,5,3,3,4,2,5,3,3,4,2,5,3 --output json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			def, err := loadDefinition(questionnaire, cfg)
			if err != nil {
				return err
			}
			renderer, err := surface.ForFormat(outputFmt)
			if err != nil {
				return err
			}
			return runScore(cmd.OutOrStdout(), def, renderer, answers)
		},
	}

	cmd.Flags().StringVar(&answers, "answers", "", "Comma-separated ratings, one per question (required)")
	cmd.Flags().StringVar(&questionnaire, "questionnaire", "", "Path to a questionnaire YAML file")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

func runScore(w io.Writer, def *assessment.Definition, renderer surface.Renderer, raw string) error {
	ratings, err := parseAnswers(raw)
	if err != nil {
		return err
	}
	result, err := assessment.NewEngine(def).PackageAnswers(ratings)
	if err != nil {
		if errors.Is(err, assessment.ErrIncomplete) {
			return fmt.Errorf("%s (got %d of %d answers)", msgIncomplete, len(ratings), def.QuestionCount())
		}
		return err
	}
	return renderer.Render(w, result)
}

func parseAnswers(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, strings.TrimSpace(p))
		}
		out = append(out, v)
	}
	return out, nil
}
