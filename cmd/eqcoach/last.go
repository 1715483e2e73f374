package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eqcoach/eqcoach/pkg/client"
	"github.com/eqcoach/eqcoach/pkg/resultcache"
	"github.com/eqcoach/eqcoach/pkg/surface"
)

func newLastCmd() *cobra.Command {
	var (
		remote    bool
		server    string
		token     string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show your most recent result",
		Long: `Shows the result of the last assessment taken on this machine. With
--remote the most recent result stored on the server is fetched instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			renderer, err := surface.ForFormat(outputFmt)
			if err != nil {
				return err
			}

			cache := resultcache.New(cfg.Cache.Dir)

			if remote {
				c := newClient(server, token, cfg)
				if c == nil {
					return fmt.Errorf("--remote needs --server or server.url in config")
				}
				sub, err := c.Latest(cmd.Context())
				if client.IsNotFound(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No results yet. Run \"eqcoach take\" to start.")
					return nil
				}
				if err != nil {
					return fmt.Errorf("%s: %w", msgTransport, err)
				}
				if err := cache.Put(resultcache.LastResultKey, sub.ID, &sub.Result); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to cache result: %v\n", err)
				}
				return renderer.Render(cmd.OutOrStdout(), &sub.Result)
			}

			entry, err := cache.Get(resultcache.LastResultKey)
			if errors.Is(err, resultcache.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No results yet. Run \"eqcoach take\" to start.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Taken %s\n", entry.StoredAt.Local().Format("2006-01-02 15:04"))
			return renderer.Render(cmd.OutOrStdout(), entry.Result)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch the latest result from the server")
	cmd.Flags().StringVar(&server, "server", "", "eqcoachd base URL (default: config server.url)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for the server (default: $EQCOACH_TOKEN or config)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	return cmd
}
