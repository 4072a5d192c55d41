package main

import (
	"fmt"
	"os"
	"time"

	"tracescope/collector"
	"tracescope/journal"
	"tracescope/measure"
)

// readJournal loads all records from a journal file.
func readJournal(path string) ([]collector.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	r, err := journal.NewReader(f)
	if err != nil {
		return nil, err
	}
	return r.ReadAll()
}

// measureJournal loads, measures, and aggregates a journal, returning the
// report along with the total traced duration (the sum of record deltas).
func measureJournal(path string) (*measure.Report, time.Duration, error) {
	records, err := readJournal(path)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	for _, rec := range records {
		total += rec.Elapsed
	}

	report := measure.Measure(records)
	report.Aggregate()
	return report, time.Duration(total), nil
}
