package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/corey/mbench/internal/app"
	"github.com/corey/mbench/internal/ports"
	"github.com/spf13/cobra"
)

var (
	watchFile         string
	watchPatterns     []string
	watchPatternsFile string
	watchAlgorithm    string
	watchIgnoreCase   bool
	watchColor        string
	watchLocal        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch --file <text-file> [flags] [pattern...]",
	Short: "Re-run the benchmark whenever a text file changes",
	Long: `Runs the patterns against the file once, then again after every save,
adding each run to the session and reprinting the recommendation.
Stops on Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVarP(&watchFile, "file", "f", "", "Text file to watch (required)")
	f.StringArrayVarP(&watchPatterns, "pattern", "p", nil, "Pattern to find (repeatable)")
	f.StringVar(&watchPatternsFile, "patterns-file", "", "Read patterns from a file, one per line")
	f.StringVarP(&watchAlgorithm, "algorithm", "a", "", "greedy, kmp, boyer_moore or all (default from config)")
	f.BoolVarP(&watchIgnoreCase, "ignore-case", "i", false, "Case-insensitive matching")
	f.StringVar(&watchColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&watchLocal, "local", false, "Run in-process even if the daemon is running")
	watchCmd.MarkFlagRequired("file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("algorithm") {
		settings.Algorithm = watchAlgorithm
	}
	if cmd.Flags().Changed("ignore-case") {
		settings.CaseSensitive = !watchIgnoreCase
	}
	algs, err := settings.Algorithms()
	if err != nil {
		return err
	}
	patterns, err := readPatterns(args, watchPatterns, watchPatternsFile)
	if err != nil {
		return err
	}
	text, err := readText("", watchFile, nil)
	if err != nil {
		return err
	}

	b, err := openBackend(root, settings, watchLocal)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &rerunner{
		backend:       b,
		algs:          algs,
		patterns:      patterns,
		caseSensitive: settings.CaseSensitive,
		out:           cmd.OutOrStdout(),
		color:         resolveColor(watchColor),
	}
	if err := r.run(ctx, text); err != nil {
		return err
	}

	watcher, err := app.NewFileWatcher(settings.WatchDebounce)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ watching %s (Ctrl-C to stop)\n", watchFile)

	return app.WatchFile(ctx, watchFile, watcher,
		func(text string) {
			if err := r.run(ctx, text); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
		},
		func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		},
	)
}

// rerunner submits the same patterns against each new version of the text.
type rerunner struct {
	backend       backend
	algs          []ports.Algorithm
	patterns      []string
	caseSensitive bool
	out           io.Writer
	color         bool

	mu sync.Mutex
}

func (r *rerunner) run(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := runAlgorithms(ctx, r.backend, r.algs, ports.MatchRequest{
		Text:          text,
		Patterns:      r.patterns,
		CaseSensitive: r.caseSensitive,
	})
	if err != nil {
		return err
	}
	for _, run := range out.Runs {
		fmt.Fprint(r.out, formatOutcomes(run.Algorithm, run.Outcomes, r.color))
	}
	fmt.Fprint(r.out, formatRecommendation(out.Recommendation, r.color))
	return nil
}
