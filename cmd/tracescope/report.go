package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"tracescope/measure"
)

var reportCmd = &cobra.Command{
	Use:   "report [flags] journal.msgpack",
	Short: "Print the hottest calls and line counts from a journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int("top", 20, "number of call edges to show")
}

func runReport(cmd *cobra.Command, args []string) error {
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("failed to get top flag: %w", err)
	}

	report, duration, err := measureJournal(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("traced time: %v\n\n", duration)
	printCallTimes(report, top)
	printLineCounts(report)
	return nil
}

func printCallTimes(report *measure.Report, top int) {
	fmt.Printf("%-45s %8s %14s %14s\n", "CALL", "COUNT", "CUMULATIVE", "RESIDENT")
	for i, edge := range report.EdgesByCumulative() {
		if i >= top {
			break
		}
		t := report.CallTimes[edge]
		fmt.Printf("%-45s %8d %14v %14v\n",
			edgeLabel(edge), t.Count,
			time.Duration(t.Cumulative), time.Duration(t.Resident))
	}
	fmt.Println()
}

func printLineCounts(report *measure.Report) {
	files := make([]string, 0, len(report.LineCounts))
	for file := range report.LineCounts {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Printf("%-45s %8s %12s\n", "FILE", "LINES", "EXECUTIONS")
	for _, file := range files {
		lines := report.LineCounts[file]
		var executions int64
		for _, n := range lines {
			executions += n
		}
		fmt.Printf("%-45s %8d %12d\n", file, len(lines), executions)
	}
}

func edgeLabel(edge measure.Edge) string {
	callee := fmt.Sprintf("%s:%d %s", edge.Call.File, edge.Call.FirstLine, edge.Call.Name)
	if edge.Root {
		return callee
	}
	return fmt.Sprintf("%s ← %s", callee, edge.Parent.Name)
}
