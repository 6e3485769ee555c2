package errors

import (
	"os"

	"github.com/fatih/color"

	log "github.com/geekcafe/cdk-factory-sub001/pkg/logger"
)

// OsExit is a variable for testing, so we can mock os.Exit.
var OsExit = os.Exit

// CheckErrorAndPrint prints an error message to stderr.
func CheckErrorAndPrint(err error) {
	if err == nil {
		return
	}
	c := color.New(color.FgRed)
	if _, printErr := c.Fprintln(os.Stderr, err.Error()); printErr != nil {
		log.Error("failed to print error", "error", printErr)
		log.Error(err.Error())
	}
}

// CheckErrorPrintAndExit prints an error message and exits with the exit code
// assigned to the error's category.
func CheckErrorPrintAndExit(err error) {
	if err == nil {
		return
	}
	CheckErrorAndPrint(err)
	OsExit(GetExitCode(err))
}
