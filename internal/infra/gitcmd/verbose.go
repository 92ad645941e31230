package gitcmd

import (
	"fmt"
	"os"

	"github.com/tasuku43/committer/internal/infra/output"
)

var verbose bool

func SetVerbose(v bool) {
	verbose = v
}

func IsVerbose() bool {
	return verbose
}

// Logf echoes a command line to stderr when verbose output is on.
func Logf(format string, args ...any) {
	if !verbose {
		return
	}
	if output.HasStepLogger() {
		output.Logf("$ "+format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, "%s$ "+format+"\n", append([]any{output.Indent}, args...)...)
}
