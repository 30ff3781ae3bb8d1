// Package report renders evaluation results for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	service "github.com/okian/fds/internal/app"
	"github.com/okian/fds/internal/domain/detection"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write renders res in the given format. Verbose text output appends the
// per-sample verdicts.
func Write(w io.Writer, res service.Result, f Format, verbose bool) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, res)
	default:
		if err := WriteText(w, res); err != nil {
			return err
		}
		if verbose {
			return WriteVerdicts(w, res.Verdicts)
		}
		return nil
	}
}

// WriteText prints the metrics block. Ratios use two decimals; undefined
// values print as n/a.
func WriteText(w io.Writer, res service.Result) error {
	r := res.Report
	lines := []string{
		"Performance Metrics:",
		"-------------------",
		fmt.Sprintf("True Positives (TP): %d", r.Counts.TruePositive),
		fmt.Sprintf("False Positives (FP): %d", r.Counts.FalsePositive),
		fmt.Sprintf("False Negatives (FN): %d", r.Counts.FalseNegative),
		fmt.Sprintf("True Negatives (TN): %d", r.Counts.TrueNegative),
		"Precision (P): " + r.Precision.Format(),
		"Recall (R): " + r.Recall.Format(),
		"Average Notification Delay (D): " + r.MeanDelay.Format(),
		"Normalized Average Notification Delay (DN): " + r.NormalizedDelay.Format(),
		"Processing Frame Rate (PFR): " + r.FrameRate.Format(),
		"Delta Processing Frame Rate (PFR_DELTA): " + r.FrameRatePenalty.Format(),
		"Delta Memory (MEM_DELTA): " + r.MemoryPenalty.Format(),
		"Fire Detection Score (FDS): " + r.Score.Format(),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteVerdicts prints one row per sample.
func WriteVerdicts(w io.Writer, verdicts []detection.Verdict) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSAMPLE\tPREDICTED\tTRUTH\tCLASS\tDELAY")
	for _, v := range verdicts {
		delay := "-"
		if v.Class == detection.TruePositive {
			delay = fmt.Sprintf("%d", v.Delay)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Key, v.Predicted, v.Truth, v.Class, delay)
	}
	return tw.Flush()
}

// WriteJSON prints the result as an indented JSON document.
func WriteJSON(w io.Writer, res service.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
