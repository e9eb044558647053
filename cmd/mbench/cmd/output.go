package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/corey/mbench/internal/domain/bench"
	"github.com/corey/mbench/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// maxPatternWidth truncates long patterns in tables.
const maxPatternWidth = 32

// paint wraps s in an ANSI code when color is on.
func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

// formatOutcomes renders one run as a table.
//
//	⚡ kmp │ 2 patterns │ 1 found │ 12 comparisons
//	  abcaby   @6     12 cmp  0.004ms
//	  zzz      miss    9 cmp  0.002ms
func formatOutcomes(alg ports.Algorithm, outcomes []ports.MatchOutcome, color bool) string {
	found, comparisons := 0, 0
	width := 0
	for _, o := range outcomes {
		if o.Found() {
			found++
		}
		comparisons += o.Comparisons
		width = max(width, utf8.RuneCountInString(displayPattern(o.Pattern)))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s │ %d patterns │ %d found │ %d comparisons\n",
		paint(color, colorBold, "⚡ "+alg.String()), len(outcomes), found, comparisons))

	for _, o := range outcomes {
		p := displayPattern(o.Pattern)
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(p))
		where := paint(color, colorYellow, fmt.Sprintf("%-6s", "miss"))
		if o.Found() {
			where = paint(color, colorGreen, fmt.Sprintf("%-6s", fmt.Sprintf("@%d", o.Index)))
		}
		sb.WriteString(fmt.Sprintf("  %s%s  %s %6d cmp  %s\n",
			paint(color, colorCyan, p), pad, where, o.Comparisons,
			paint(color, colorGray, formatMs(o.TimeMs))))
	}
	return sb.String()
}

// formatRecommendation renders the ranked averages, fastest first.
//
//	⚡ recommended: boyer_moore (0.003ms mean)
//	  1. boyer_moore  0.003ms
//	  2. kmp          0.005ms
func formatRecommendation(rec ports.Recommendation, color bool) string {
	if rec.Best == nil {
		return paint(color, colorBold, "⚡ no runs yet") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s (%s mean)\n",
		paint(color, colorBold, "⚡ recommended:"),
		paint(color, colorGreen, rec.Best.Algorithm.String()),
		formatMs(rec.Best.MeanTimeMs)))
	for i, r := range rec.RankedAverages {
		sb.WriteString(fmt.Sprintf("  %d. %-12s %s\n", i+1, r.Algorithm, formatMs(r.MeanTimeMs)))
	}
	return sb.String()
}

// formatReport renders a whole session: summaries then the recommendation.
func formatReport(r *bench.Report, color bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", paint(color, colorBold, "⚡ session"), r.SessionID))
	sb.WriteString(fmt.Sprintf("  Started:  %s\n", r.StartedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("  Runs:     %d\n", len(r.Runs)))
	sb.WriteString(formatSummaries(r.Summaries, color))
	sb.WriteString(formatRecommendation(r.Recommendation, color))
	return sb.String()
}

func formatSummaries(sums []ports.AlgorithmSummary, color bool) string {
	if len(sums) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(paint(color, colorGray,
		fmt.Sprintf("  %-12s %5s %8s %6s %10s %9s %10s", "algorithm", "runs", "patterns", "found", "mean", "mean cmp", "total cmp")))
	sb.WriteString("\n")
	for _, s := range sums {
		sb.WriteString(fmt.Sprintf("  %-12s %5d %8d %6d %10s %9.1f %10d\n",
			s.Algorithm, s.Runs, s.Outcomes, s.Found, formatMs(s.MeanTimeMs), s.MeanComparisons, s.TotalComparisons))
	}
	return sb.String()
}

// formatSnapshots renders archived snapshots, newest first.
func formatSnapshots(snaps []*ports.Snapshot, color bool) string {
	if len(snaps) == 0 {
		return paint(color, colorBold, "⚡ no snapshots") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(paint(color, colorBold, fmt.Sprintf("⚡ %d snapshots", len(snaps))) + "\n")
	for _, s := range snaps {
		best := "-"
		if s.Recommendation.Best != nil {
			best = fmt.Sprintf("%s (%s)", s.Recommendation.Best.Algorithm, formatMs(s.Recommendation.Best.MeanTimeMs))
		}
		patterns := 0
		for _, sum := range s.Summaries {
			patterns += sum.Outcomes
		}
		sb.WriteString(fmt.Sprintf("  #%-4d %s  %s  %d patterns  %s\n",
			s.ID,
			paint(color, colorGray, s.TakenAt.Format("2006-01-02 15:04:05")),
			paint(color, colorGreen, best),
			patterns,
			paint(color, colorGray, shortID(s.SessionID))))
	}
	return sb.String()
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *socket.HealthResult, color bool) string {
	var sb strings.Builder
	sb.WriteString(paint(color, colorBold, "⚡ mbench daemon") + "\n")
	sb.WriteString(fmt.Sprintf("  Status:   %s\n", paint(color, colorGreen, h.Status)))
	sb.WriteString(fmt.Sprintf("  Session:  %s\n", h.SessionID))
	sb.WriteString(fmt.Sprintf("  Runs:     %d\n", h.Runs))
	sb.WriteString(fmt.Sprintf("  Uptime:   %s\n", h.Uptime))
	if h.HTTPURL != "" {
		sb.WriteString(fmt.Sprintf("  HTTP:     %s\n", h.HTTPURL))
	}
	return sb.String()
}

// formatMs prints milliseconds with three decimals.
func formatMs(ms float64) string {
	return fmt.Sprintf("%.3fms", ms)
}

// displayPattern makes a pattern printable on one line and caps its width.
func displayPattern(p string) string {
	p = strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`).Replace(p)
	if p == "" {
		return `""`
	}
	if utf8.RuneCountInString(p) > maxPatternWidth {
		r := []rune(p)
		return string(r[:maxPatternWidth-1]) + "…"
	}
	return p
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
