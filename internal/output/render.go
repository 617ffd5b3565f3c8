package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Report format names understood by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes the report to w in the requested format.
func Render(w io.Writer, rep Report, format string) error {
	switch format {
	case FormatJSON:
		return PrintJSONReport(w, rep)
	case FormatYAML:
		return PrintYAMLReport(w, rep)
	default:
		PrintReport(w, rep)
		return nil
	}
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, rep Report) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", rep.RunID)
	fmt.Fprintf(w, "Target:            %s\n", rep.Target)
	fmt.Fprintf(w, "Total Requests:    %d\n", rep.TotalRequests)
	fmt.Fprintf(w, "Total Errors:      %d\n", rep.TotalErrors)
	fmt.Fprintf(w, "Error Rate:        %.2f%%\n", rep.ErrorRate*100)
	fmt.Fprintf(w, "Duration:          %s\n", rep.Elapsed)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", rep.RequestsPerSec)
	fmt.Fprintf(w, "Requests/min:      %.2f\n", rep.RequestsPerMin)
	fmt.Fprintf(w, "Amplitude:         %.2fms\n", rep.AmplitudeMs)
	fmt.Fprintf(w, "Std Deviation:     %.2fms\n", rep.StdevMs)

	if len(rep.Classes) > 0 {
		fmt.Fprintln(w, "\nStatus Classes:")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Class", "Count", "Min", "Mean", "Max", "P50", "P90", "P99"})
		for _, class := range rep.Classes {
			t.AppendRow(table.Row{
				class.Class,
				class.Count,
				class.Min.Round(time.Microsecond),
				class.Mean.Round(time.Microsecond),
				class.Max.Round(time.Microsecond),
				class.P50.Round(time.Microsecond),
				class.P90.Round(time.Microsecond),
				class.P99.Round(time.Microsecond),
			})
		}
		t.Render()
	}

	if len(rep.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors by Kind:")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Kind", "Count", "Sample"})
		for _, errRep := range rep.Errors {
			sample := ""
			if len(errRep.Samples) > 0 {
				sample = errRep.Samples[0]
			}
			t.AppendRow(table.Row{errRep.Kind, errRep.Count, sample})
		}
		t.Render()
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(rep)
}
