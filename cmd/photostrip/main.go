package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"photostrip/internal/failures"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			if failures.Retryable(err) {
				fmt.Fprintln(os.Stderr, "This failure is transient; run the command again.")
			}
		}
		os.Exit(1)
	}
}
