package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tracescope/converter"
	"tracescope/sender"
)

var pushCmd = &cobra.Command{
	Use:   "push [flags] journal.msgpack",
	Short: "Upload a journal's profiles to the ingest server",
	Args:  cobra.ExactArgs(1),
	RunE:  runPush,
}

func init() {
	pushCmd.Flags().String("url", "", "ingest server URL (overrides ingest_url from config)")
	pushCmd.Flags().String("app", "", "application name (overrides app_name from config)")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if url, _ := cmd.Flags().GetString("url"); url != "" {
		cfg.IngestURL = url
	}
	if app, _ := cmd.Flags().GetString("app"); app != "" {
		cfg.AppName = app
	}
	if cfg.IngestURL == "" {
		return fmt.Errorf("no ingest server: set --url or ingest_url in the configuration")
	}

	report, duration, err := measureJournal(args[0])
	if err != nil {
		return err
	}
	start := time.Now().Add(-duration)

	s := sender.New(sender.Config{
		IngestURL: cfg.IngestURL,
		AuthToken: cfg.AuthToken,
		AppName:   cfg.AppName,
		Tags:      cfg.Tags,
	}, logger)

	calls, err := converter.CallProfile(report, start, duration)
	if err != nil {
		return err
	}
	if err := s.SendProfile(calls, converter.CallSampleTypes); err != nil {
		return fmt.Errorf("pushing call profile: %w", err)
	}

	cover, err := converter.CoverageProfile(report, start, duration)
	if err != nil {
		return err
	}
	if err := s.SendProfile(cover, converter.CoverageSampleTypes); err != nil {
		return fmt.Errorf("pushing coverage profile: %w", err)
	}

	fmt.Printf("pushed %d call samples and %d coverage samples to %s\n",
		len(calls.Sample), len(cover.Sample), cfg.IngestURL)
	return nil
}
