// Command careermate analyses resumes against job descriptions and runs
// mock interviews from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/careermate/internal/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrConfig):
		return 2
	case common.CodeOf(err) == common.CodeInput, common.CodeOf(err) == common.CodeConfig:
		return 2
	default:
		return 1
	}
}
