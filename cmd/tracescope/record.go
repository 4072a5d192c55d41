package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tracescope/chronometer"
	"tracescope/collector"
	"tracescope/journal"
	"tracescope/processor"
	"tracescope/sender"
	"tracescope/stream"
	"tracescope/tracehook"
)

var recordCmd = &cobra.Command{
	Use:   "record [flags] [events.ndjson]",
	Short: "Collect a trace-event stream into a journal or ingest server",
	Long: `Record reads newline-delimited JSON trace events from a file or stdin,
runs them through a collector, and writes the resulting records to a
msgpack journal and/or pushes converted profiles to the ingest server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().String("journal", "", "journal output path (overrides journal_path from config)")
	recordCmd.Flags().Bool("push", false, "convert batches and push profiles to the ingest server")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	journalPath, err := cmd.Flags().GetString("journal")
	if err != nil {
		return fmt.Errorf("failed to get journal flag: %w", err)
	}
	if journalPath == "" {
		journalPath = cfg.JournalPath
	}
	push, err := cmd.Flags().GetBool("push")
	if err != nil {
		return fmt.Errorf("failed to get push flag: %w", err)
	}
	if journalPath == "" && !push {
		return fmt.Errorf("nothing to record to: set --journal (or journal_path) or --push")
	}
	if push && cfg.IngestURL == "" {
		return fmt.Errorf("--push requires ingest_url in the configuration")
	}

	var input io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening event stream: %w", err)
		}
		defer f.Close()
		input = f
	}

	var uploader processor.Uploader
	if push {
		uploader = sender.New(sender.Config{
			IngestURL: cfg.IngestURL,
			AuthToken: cfg.AuthToken,
			AppName:   cfg.AppName,
			Tags:      cfg.Tags,
		}, logger)
	}
	p := processor.New(cfg, uploader, logger)

	if journalPath != "" {
		f, err := os.Create(journalPath)
		if err != nil {
			return fmt.Errorf("creating journal: %w", err)
		}
		defer f.Close()
		w, err := journal.NewWriter(f)
		if err != nil {
			return err
		}
		p.SetJournal(w)
	}

	records := make(chan collector.Record, cfg.BatchLimit)
	chrono := chronometer.New()
	col, err := collector.New(processor.RecordSink(records), chrono.Delta)
	if err != nil {
		return err
	}

	// The dispatching goroutine owns the trace-hook installation; events
	// that fail conversion are dropped, collection continues.
	go func() {
		defer close(records)
		tracehook.Install(col)
		defer tracehook.Uninstall()

		for ev := range stream.New(input, cfg.BatchLimit, logger).Start() {
			if err := tracehook.Emit(ev.Frame, ev.Kind, ev.Arg); err != nil {
				logger.Debug("event dropped", zap.Error(err))
			}
		}
	}()

	return p.Process(context.Background(), records)
}
