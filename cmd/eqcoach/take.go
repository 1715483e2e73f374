package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eqcoach/eqcoach/pkg/assessment"
	"github.com/eqcoach/eqcoach/pkg/client"
	"github.com/eqcoach/eqcoach/pkg/resultcache"
	"github.com/eqcoach/eqcoach/pkg/surface"
)

// errQuit is returned when the user leaves before submitting.
var errQuit = errors.New("assessment abandoned")

func newTakeCmd() *cobra.Command {
	var (
		server        string
		token         string
		pageSize      int
		questionnaire string
		outputFmt     string
	)

	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the assessment interactively",
		Long: `Presents the questionnaire one page at a time. Type a rating from 1 to 5
for each statement. Enter keeps the current answer, "n" and "p" move between
pages, "s" submits and "q" quits.

With --server the answers are scored and stored by eqcoachd; otherwise they
are scored locally. The result is kept so "eqcoach last" can show it again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if !cmd.Flags().Changed("page-size") {
				pageSize = cfg.Assessment.PageSize
			}
			renderer, err := surface.ForFormat(outputFmt)
			if err != nil {
				return err
			}

			var (
				def *assessment.Definition
				sub submitter
			)
			if c := newClient(server, token, cfg); c != nil {
				def, err = c.Questionnaire(cmd.Context())
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not fetch questionnaire from server: %v\n", err)
					if def, err = loadDefinition(questionnaire, cfg); err != nil {
						return err
					}
				}
				sub = &remoteSubmitter{c: c}
			} else {
				if def, err = loadDefinition(questionnaire, cfg); err != nil {
					return err
				}
				sub = &localSubmitter{engine: assessment.NewEngine(def)}
			}

			s := newSession(def, pageSize, cmd.InOrStdin(), cmd.OutOrStdout(), sub)
			result, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			cache := resultcache.New(cfg.Cache.Dir)
			if err := cache.Put(resultcache.LastResultKey, sub.LastID(), result); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to cache result: %v\n", err)
			}

			fmt.Fprintln(cmd.OutOrStdout())
			return renderer.Render(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "eqcoachd base URL (default: config server.url, or score locally)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for the server (default: $EQCOACH_TOKEN or config)")
	cmd.Flags().IntVar(&pageSize, "page-size", 5, "Questions per page")
	cmd.Flags().StringVar(&questionnaire, "questionnaire", "", "Path to a questionnaire YAML file")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	return cmd
}

// submitter is an assessment.Submitter that remembers the ID the last
// stored result was given, if any.
type submitter interface {
	assessment.Submitter
	LastID() string
}

type localSubmitter struct {
	engine *assessment.Engine
}

func (s *localSubmitter) Submit(ctx context.Context, answers []int) (*assessment.Result, error) {
	return s.engine.PackageAnswers(answers)
}

func (s *localSubmitter) LastID() string { return "" }

type remoteSubmitter struct {
	c  *client.Client
	id string
}

func (s *remoteSubmitter) Submit(ctx context.Context, answers []int) (*assessment.Result, error) {
	res, err := s.c.SubmitAnswers(ctx, answers)
	if err != nil {
		return nil, err
	}
	s.id = res.ID
	return &res.Result, nil
}

func (s *remoteSubmitter) LastID() string { return s.id }

// session drives one interactive attempt over a line-oriented terminal.
type session struct {
	def      *assessment.Definition
	rs       *assessment.ResponseSet
	pageSize int
	page     int
	in       *bufio.Scanner
	out      io.Writer
	sub      assessment.Submitter
}

func newSession(def *assessment.Definition, pageSize int, in io.Reader, out io.Writer, sub assessment.Submitter) *session {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &session{
		def:      def,
		rs:       assessment.NewResponseSet(def),
		pageSize: pageSize,
		in:       bufio.NewScanner(in),
		out:      out,
		sub:      sub,
	}
}

type action int

const (
	actionNone action = iota
	actionNext
	actionPrev
	actionSubmit
	actionQuit
)

// Run loops over pages until a submission succeeds or the user quits.
func (s *session) Run(ctx context.Context) (*assessment.Result, error) {
	pages := s.def.PageCount(s.pageSize)
	for {
		var (
			act action
			err error
		)
		if s.rs.Frozen() {
			// A failed submission keeps the answers locked; only retry or quit.
			act, err = s.askRetry()
		} else {
			act, err = s.askPage(pages)
		}
		if err != nil {
			return nil, err
		}

		switch act {
		case actionQuit:
			return nil, errQuit
		case actionPrev:
			if s.page > 0 {
				s.page--
			}
			continue
		case actionNext:
			if s.page < pages-1 {
				s.page++
				continue
			}
			// Past the last page: treat as a submit request.
		}

		result, err := assessment.Submit(ctx, s.rs, s.sub)
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, assessment.ErrIncomplete):
			fmt.Fprintln(s.out, msgIncomplete)
			if missing := s.rs.Unanswered(); len(missing) > 0 {
				s.page = missing[0] / s.pageSize
			}
		case assessment.IsTransport(err):
			fmt.Fprintln(s.out, msgTransport)
		default:
			return nil, err
		}
	}
}

// askPage prompts for every question on the current page. It returns early
// when the user types a navigation command.
func (s *session) askPage(pages int) (action, error) {
	fmt.Fprintf(s.out, "\nPage %d/%d (%d of %d answered)\n", s.page+1, pages, s.rs.Answered(), s.rs.Len())

	for _, q := range s.def.Page(s.page, s.pageSize) {
		for {
			current := ""
			if r, ok := s.rs.Answer(q.Index); ok {
				current = fmt.Sprintf(" [%d %s]", r, s.def.Label(r))
			}
			fmt.Fprintf(s.out, "%2d. %s%s\n    1-5, Enter=keep, n/p=page, s=submit, q=quit: ", q.Index+1, q.Text, current)

			if !s.in.Scan() {
				if err := s.in.Err(); err != nil {
					return actionNone, fmt.Errorf("read input: %w", err)
				}
				return actionNone, errQuit
			}

			act, rating, ok := parseInput(s.in.Text())
			if !ok {
				fmt.Fprintf(s.out, "    enter a number from %d to %d\n", assessment.MinRating, assessment.MaxRating)
				continue
			}
			if act != actionNone {
				return act, nil
			}
			if rating != 0 {
				if err := s.rs.Record(q.Index, rating); err != nil {
					fmt.Fprintf(s.out, "    %v\n", err)
					continue
				}
			}
			break
		}
	}
	return actionNext, nil
}

func (s *session) askRetry() (action, error) {
	for {
		fmt.Fprint(s.out, "s=retry submit, q=quit: ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return actionNone, fmt.Errorf("read input: %w", err)
			}
			return actionNone, errQuit
		}
		if act, _, _ := parseInput(s.in.Text()); act == actionSubmit || act == actionQuit {
			return act, nil
		}
	}
}

// parseInput reads one prompt reply: a rating, an empty line, or a command.
func parseInput(line string) (action, int, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "":
		return actionNone, 0, true
	case "n", "next":
		return actionNext, 0, true
	case "p", "prev", "back":
		return actionPrev, 0, true
	case "s", "submit":
		return actionSubmit, 0, true
	case "q", "quit", "exit":
		return actionQuit, 0, true
	}
	rating, err := strconv.Atoi(line)
	if err != nil || rating < assessment.MinRating || rating > assessment.MaxRating {
		return actionNone, 0, false
	}
	return actionNone, rating, true
}
