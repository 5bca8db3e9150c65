package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatCreatedAt renders a run timestamp relative ("2 hours ago") when it
// parses, falling back to the raw string.
func formatCreatedAt(createdAtUTC string) string {
	t, err := time.Parse(time.RFC3339Nano, createdAtUTC)
	if err != nil {
		return createdAtUTC
	}
	return humanize.Time(t)
}

// renderReport prints the two comparison tables: path cost (mean steps ±
// std, efficiency) and mission outcome (coverage, success rate). Markdown
// when piped, padded columns on a terminal.
func renderReport(w io.Writer, aggregates []model.StrategyAggregate, terminal bool) {
	costRows := [][]string{{"Strategy", "Mean steps", "Std steps", "Efficiency"}}
	outcomeRows := [][]string{{"Strategy", "Coverage %", "Success rate"}}
	for _, agg := range aggregates {
		costRows = append(costRows, []string{
			agg.Label(),
			humanize.FtoaWithDigits(agg.MeanSteps, 2),
			humanize.FtoaWithDigits(agg.StdSteps, 2),
			humanize.FtoaWithDigits(agg.MeanEfficiency, 3),
		})
		outcomeRows = append(outcomeRows, []string{
			agg.Label(),
			humanize.FtoaWithDigits(agg.MeanCoveragePct, 1),
			humanize.FtoaWithDigits(agg.SuccessRate, 2),
		})
	}

	fmt.Fprintln(w, "Path cost")
	renderTable(w, costRows, terminal)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mission outcome")
	renderTable(w, outcomeRows, terminal)
}

func renderTable(w io.Writer, rows [][]string, terminal bool) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if !terminal {
		for r, row := range rows {
			fmt.Fprint(w, "|")
			for _, cell := range row {
				fmt.Fprintf(w, " %s |", cell)
			}
			fmt.Fprintln(w)
			if r == 0 {
				fmt.Fprint(w, "|")
				for i := range row {
					for j := 0; j < widths[i]+2; j++ {
						fmt.Fprint(w, "-")
					}
					fmt.Fprint(w, "|")
				}
				fmt.Fprintln(w)
			}
		}
		return
	}

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(w, "%-*s", widths[i]+2, cell)
		}
		fmt.Fprintln(w)
	}
}
