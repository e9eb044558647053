// mbench benchmarks greedy, KMP and Boyer-Moore substring search over your
// own text and recommends the fastest algorithm for it.
package main

import (
	"os"

	"github.com/corey/mbench/cmd/mbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
