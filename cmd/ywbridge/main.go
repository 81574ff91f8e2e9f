package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ywbridge/internal/faults"
	"ywbridge/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "error:", err)
			if isWorkflowError(err) {
				fmt.Fprintln(os.Stderr, "hint:", workflow.ErrorHint(err))
			}
		}
		os.Exit(1)
	}
}

func isWorkflowError(err error) bool {
	for _, marker := range []error{
		faults.ErrMalformedProject,
		faults.ErrMarkerIntegrity,
		faults.ErrTargetExists,
		faults.ErrRepeatedSplit,
		faults.ErrLocked,
		faults.ErrUnsupportedFlavor,
		faults.ErrReadOnlyFlavor,
		faults.ErrInvalidDocument,
	} {
		if errors.Is(err, marker) {
			return true
		}
	}
	return false
}
