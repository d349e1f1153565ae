package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gitlab.com/technofab/duttest/internal/types"
	"gitlab.com/technofab/duttest/internal/util"
)

// PrintErrors prints the messages and diffs of failed and errored tests
func PrintErrors(w io.Writer, results types.Results, noColor bool) {
	for _, suiteResults := range results {
		for _, result := range suiteResults.Results {
			if result.Status == types.StatusSuccess || result.Status == types.StatusSkipped {
				continue
			}
			fmt.Fprintln(w, text.FgRed.Sprintf("⚠ Test \"%s/%s\" failed:", suiteResults.Suite, result.Spec.Name))

			message := result.ErrorMessage
			if result.Status == types.StatusFailure && (result.Expected != "" || result.Actual != "") {
				diff := renderDiff(result.Expected, result.Actual, noColor)
				if message != "" {
					message += "\n"
				}
				message += diff
			}
			if message == "" {
				message = "- no output -"
			}

			fmt.Fprintln(w, util.PrefixLines(strings.TrimRight(message, "\n"), text.FgRed.Sprint("|")+" "))
			fmt.Fprintln(w)
		}
	}
}

func renderDiff(expected, actual string, noColor bool) string {
	if noColor {
		diff, err := util.ComputeDiff(expected, actual)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to compute diff")
			return fmt.Sprintf("Expected:\n%s\nActual:\n%s", expected, actual)
		}
		return diff
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, true)
	return fmt.Sprintf("Diff:\n%s", dmp.DiffPrettyText(diffs))
}

// PrintSummary prints a table summarizing test results
func PrintSummary(w io.Writer, results types.Results) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Suite / Test", "Duration", "Status", "File:Line"})

	for _, suiteResults := range results {
		suiteTotal := len(suiteResults.Results)
		suiteSuccess := 0
		suiteSkipped := 0

		for _, res := range suiteResults.Results {
			if res.Status == types.StatusSuccess {
				suiteSuccess++
			} else if res.Status == types.StatusSkipped {
				suiteSkipped++
			}
		}

		t.AppendRow(table.Row{
			text.Bold.Sprint(suiteResults.Suite),
			"",
			countString(suiteSuccess, suiteTotal, suiteSkipped),
			"",
		})

		for _, res := range suiteResults.Results {
			var symbol string
			switch res.Status {
			case types.StatusSuccess:
				symbol = text.FgGreen.Sprint("✅ PASS")
			case types.StatusFailure:
				symbol = text.FgRed.Sprint("❌ FAIL")
			case types.StatusError:
				symbol = text.FgYellow.Sprint("❗ ERROR")
			case types.StatusSkipped:
				symbol = text.FgBlue.Sprint("⏭️ SKIP")
			default:
				symbol = "UNKNOWN"
			}

			t.AppendRow([]any{
				"  " + res.Spec.Name,
				res.Duration.Round(time.Millisecond).String(),
				symbol,
				res.Spec.Pos,
			})
		}
		t.AppendSeparator()
	}

	t.AppendFooter(table.Row{
		text.Bold.Sprint("TOTAL"),
		"",
		text.Bold.Sprint(countString(results.Count(types.StatusSuccess), results.Total(), results.Count(types.StatusSkipped))),
		"",
	})
	t.Render()
}

func countString(success, total, skipped int) string {
	s := fmt.Sprintf("%d/%d", success, total)
	if skipped > 0 {
		s += fmt.Sprintf(" (%d skipped)", skipped)
	}
	return s
}
