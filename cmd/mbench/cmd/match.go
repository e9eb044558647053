package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/corey/mbench/internal/config"
	"github.com/corey/mbench/internal/ports"
	"github.com/spf13/cobra"
)

var (
	matchText         string
	matchFile         string
	matchPatterns     []string
	matchPatternsFile string
	matchAlgorithm    string
	matchIgnoreCase   bool
	matchWorkers      int
	matchVerify       bool
	matchJSON         bool
	matchColor        string
	matchLocal        bool
)

var matchCmd = &cobra.Command{
	Use:   "match [flags] [pattern...]",
	Short: "Search text for patterns and record the timings",
	Long: `Runs the selected algorithm (or all three) over every pattern and prints
index, character comparisons and time per pattern, followed by the current
recommendation. When the daemon is running the run joins its session;
otherwise a one-shot session lives for this command only.

Text comes from --text, --file or stdin. Patterns come from arguments,
--pattern and --patterns-file (one per line). --workers and --verify apply
to in-process runs; the daemon uses its own configuration.`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVarP(&matchText, "text", "t", "", "Text to search")
	f.StringVarP(&matchFile, "file", "f", "", "Read the text from a file")
	f.StringArrayVarP(&matchPatterns, "pattern", "p", nil, "Pattern to find (repeatable)")
	f.StringVar(&matchPatternsFile, "patterns-file", "", "Read patterns from a file, one per line")
	f.StringVarP(&matchAlgorithm, "algorithm", "a", "", "greedy, kmp, boyer_moore or all (default from config)")
	f.BoolVarP(&matchIgnoreCase, "ignore-case", "i", false, "Case-insensitive matching")
	f.IntVar(&matchWorkers, "workers", 0, "Search patterns concurrently (default from config)")
	f.BoolVar(&matchVerify, "verify", false, "Cross-check every index against an Aho-Corasick reference")
	f.BoolVar(&matchJSON, "json", false, "Output JSON")
	f.StringVar(&matchColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&matchLocal, "local", false, "Run in-process even if the daemon is running")
}

// matchRun is one algorithm's outcomes within a match command.
type matchRun struct {
	Algorithm ports.Algorithm      `json:"algorithm"`
	Outcomes  []ports.MatchOutcome `json:"outcomes"`
}

// matchOutput is the --json document.
type matchOutput struct {
	Runs           []matchRun           `json:"runs"`
	Recommendation ports.Recommendation `json:"recommendation"`
	Daemon         bool                 `json:"daemon"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	applyMatchFlags(cmd, settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	algs, err := settings.Algorithms()
	if err != nil {
		return err
	}

	text, err := readText(matchText, matchFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	patterns, err := readPatterns(args, matchPatterns, matchPatternsFile)
	if err != nil {
		return err
	}

	b, err := openBackend(root, settings, matchLocal)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, err := runAlgorithms(ctx, b, algs, ports.MatchRequest{
		Text:          text,
		Patterns:      patterns,
		CaseSensitive: settings.CaseSensitive,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if matchJSON {
		return writeJSON(w, out)
	}
	color := resolveColor(matchColor)
	for _, run := range out.Runs {
		fmt.Fprint(w, formatOutcomes(run.Algorithm, run.Outcomes, color))
	}
	fmt.Fprint(w, formatRecommendation(out.Recommendation, color))
	return nil
}

// applyMatchFlags lets explicitly set flags override the project settings.
func applyMatchFlags(cmd *cobra.Command, settings *config.Config) {
	f := cmd.Flags()
	if f.Changed("algorithm") {
		settings.Algorithm = matchAlgorithm
	}
	if f.Changed("ignore-case") {
		settings.CaseSensitive = !matchIgnoreCase
	}
	if f.Changed("workers") {
		settings.Workers = matchWorkers
	}
	if f.Changed("verify") {
		settings.Verify = matchVerify
	}
}

// runAlgorithms submits req once per algorithm, in order, then fetches the
// recommendation. The first failure aborts the remaining algorithms.
func runAlgorithms(ctx context.Context, b backend, algs []ports.Algorithm, req ports.MatchRequest) (*matchOutput, error) {
	out := &matchOutput{Daemon: b.Remote()}
	for _, alg := range algs {
		req.Algorithm = alg
		outcomes, err := b.Match(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", alg, err)
		}
		out.Runs = append(out.Runs, matchRun{Algorithm: alg, Outcomes: outcomes})
	}
	rec, err := b.Recommend()
	if err != nil {
		return nil, err
	}
	out.Recommendation = rec
	return out, nil
}

// readText picks the text from the flag, the file, or redirected stdin.
func readText(text, file string, stdin io.Reader) (string, error) {
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("use either --text or --file, not both")
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read text: %w", err)
		}
		return string(data), nil
	case stdin != nil && (stdin != os.Stdin || isStdinPipe()):
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no text: use --text, --file or pipe it on stdin")
}

// readPatterns joins positional patterns, --pattern values and the lines of
// --patterns-file, in that order. Blank patterns are kept; the engine skips them.
func readPatterns(args, flagged []string, file string) ([]string, error) {
	patterns := append(append([]string(nil), args...), flagged...)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read patterns: %w", err)
		}
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		for _, line := range lines {
			patterns = append(patterns, strings.TrimSuffix(line, "\r"))
		}
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns: pass them as arguments, --pattern or --patterns-file")
	}
	return patterns, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
