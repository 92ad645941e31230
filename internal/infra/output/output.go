package output

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	Indent       = "  "
	StepPrefix   = "•"
	LogConnector = "└─"
)

// StepLogger receives command echoes and their output in place of stderr.
type StepLogger interface {
	Log(text string)
	LogOutput(text string)
}

var stepLogger StepLogger

func SetStepLogger(logger StepLogger) {
	stepLogger = logger
}

func HasStepLogger() bool {
	return stepLogger != nil
}

func Log(text string) {
	if stepLogger != nil {
		stepLogger.Log(text)
		return
	}
	fmt.Fprintf(os.Stderr, "%s%s %s\n", Indent+Indent, LogConnector, text)
}

func Logf(format string, args ...any) {
	Log(fmt.Sprintf(format, args...))
}

func LogOutput(text string) {
	if stepLogger != nil {
		stepLogger.LogOutput(text)
		return
	}
	fmt.Fprintf(os.Stderr, "%s%s\n", LogOutputPrefix(), text)
}

// LogLines emits each non-blank line of text as command output.
func LogLines(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		LogOutput(line)
	}
}

func LogOutputPrefix() string {
	spaces := utf8.RuneCountInString(LogConnector) + 1
	return Indent + Indent + strings.Repeat(" ", spaces)
}
