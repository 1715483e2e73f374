package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eqcoach/eqcoach/pkg/client"
)

func newHistoryCmd() *cobra.Command {
	var (
		server string
		token  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your results stored on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			c := newClient(server, token, cfg)
			if c == nil {
				return fmt.Errorf("history needs --server or server.url in config")
			}
			subs, err := c.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", msgTransport, err)
			}
			printHistory(cmd.OutOrStdout(), subs, limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "eqcoachd base URL (default: config server.url)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for the server (default: $EQCOACH_TOKEN or config)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results to show (0 for all)")
	return cmd
}

func printHistory(w io.Writer, subs []client.Submission, limit int) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No results yet.")
		return
	}
	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSCORE\tNEEDS ATTENTION\tID")
	for _, s := range subs {
		low := 0
		for _, ds := range s.DomainScores {
			if ds.BelowThreshold {
				low++
			}
		}
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%s\n",
			s.SubmittedAt.Local().Format("2006-01-02 15:04"), s.TotalScore, s.TotalMax, low, s.ID)
	}
	tw.Flush()
}
