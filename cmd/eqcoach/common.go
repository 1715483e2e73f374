package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eqcoach/eqcoach/pkg/assessment"
	"github.com/eqcoach/eqcoach/pkg/client"
	"github.com/eqcoach/eqcoach/pkg/config"
)

// Messages shown to the user. They never name missing questions or expose
// internal errors.
const (
	msgIncomplete = "please answer all questions before submitting"
	msgTransport  = "something went wrong, please try again"
)

func loadConfig(cmd *cobra.Command) *config.Config {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile == "" {
		if wd, err := os.Getwd(); err == nil {
			cfgFile = config.FindConfigFile(wd)
		}
	}
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// loadDefinition picks the questionnaire: an explicit path, then the config
// override, then the built-in one.
func loadDefinition(path string, cfg *config.Config) (*assessment.Definition, error) {
	path = firstNonEmpty(path, cfg.Assessment.Questionnaire)
	if path == "" {
		return assessment.DefaultDefinition(), nil
	}
	return assessment.LoadDefinition(path)
}

func newClient(server, token string, cfg *config.Config) *client.Client {
	url := firstNonEmpty(server, cfg.Server.URL)
	if url == "" {
		return nil
	}
	return client.New(url, firstNonEmpty(token, os.Getenv("EQCOACH_TOKEN"), cfg.Server.Token),
		time.Duration(cfg.Server.Timeout)*time.Second)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
