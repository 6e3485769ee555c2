package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/geekcafe/cdk-factory-sub001/cmd"
	errUtils "github.com/geekcafe/cdk-factory-sub001/errors"
)

func main() {
	// Exit with the correct POSIX exit code (128 + signal number) on
	// interruption.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		if s, ok := sig.(syscall.Signal); ok {
			errUtils.OsExit(128 + int(s))
		}
		errUtils.OsExit(130)
	}()

	if err := cmd.Execute(); err != nil {
		errUtils.CheckErrorPrintAndExit(err)
	}
}
