package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/pprof/profile"
	"github.com/spf13/cobra"

	"tracescope/converter"
)

var replayCmd = &cobra.Command{
	Use:   "replay [flags] journal.msgpack",
	Short: "Convert a recorded journal into pprof profiles",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringP("output", "o", "calls.pb.gz", "call profile output path")
	replayCmd.Flags().String("coverage", "", "also write a line-coverage profile to this path")
}

func runReplay(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	coverage, err := cmd.Flags().GetString("coverage")
	if err != nil {
		return fmt.Errorf("failed to get coverage flag: %w", err)
	}

	report, duration, err := measureJournal(args[0])
	if err != nil {
		return err
	}
	start := time.Now().Add(-duration)

	calls, err := converter.CallProfile(report, start, duration)
	if err != nil {
		return err
	}
	if err := writeProfile(output, calls); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d samples)\n", output, len(calls.Sample))

	if coverage != "" {
		cover, err := converter.CoverageProfile(report, start, duration)
		if err != nil {
			return err
		}
		if err := writeProfile(coverage, cover); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d samples)\n", coverage, len(cover.Sample))
	}

	return nil
}

func writeProfile(path string, prof *profile.Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating profile output: %w", err)
	}
	defer f.Close()

	if err := prof.Write(f); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}
