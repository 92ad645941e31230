package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerState struct {
	mu      sync.Mutex
	enabled atomic.Bool
	writer  *os.File
	logger  *zap.Logger
}

var state loggerState
var traceSeq uint64
var ctxState debugContext

type debugContext struct {
	mu     sync.Mutex
	phase  string
	prompt string
}

// Enable starts appending debug lines to <dir>/logs/debug-YYYYMMDD.log.
func Enable(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("log directory is required")
	}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("create debug log dir: %w", err)
	}
	name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102"))
	path := filepath.Join(logDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open debug log file: %w", err)
	}
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "kind",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), zapcore.DebugLevel)
	logger := zap.New(core).With(zap.Int("pid", os.Getpid()))

	state.mu.Lock()
	if state.logger != nil {
		_ = state.logger.Sync()
	}
	if state.writer != nil {
		_ = state.writer.Close()
	}
	state.writer = file
	state.logger = logger
	state.enabled.Store(true)
	state.mu.Unlock()
	return nil
}

func Close() error {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.enabled.Store(false)
	if state.logger != nil {
		_ = state.logger.Sync()
		state.logger = nil
	}
	var err error
	if state.writer != nil {
		err = state.writer.Close()
		state.writer = nil
	}
	return err
}

func Enabled() bool {
	return state.enabled.Load()
}

func NewTrace(prefix string) string {
	value := atomic.AddUint64(&traceSeq, 1)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "cmd"
	}
	return fmt.Sprintf("%s:%x", prefix, value)
}

func FormatCommand(name string, args []string) string {
	if len(args) == 0 {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func LogCommand(trace, cmd string) {
	logLine(trace, "cmd", zap.String("cmd", cmd))
}

func LogStdoutLines(trace, text string) {
	logOutputLines(trace, "stdout", text)
}

func LogStderrLines(trace, text string) {
	logOutputLines(trace, "stderr", text)
}

func LogExit(trace string, code int) {
	logLine(trace, "exit", zap.Int("code", code))
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}

// LogDecision records the terminal result of a prompt loop.
func LogDecision(decision string, fields ...zap.Field) {
	logLine("", "decision", append([]zap.Field{zap.String("decision", decision)}, fields...)...)
}

// LogRecovered records a failure that was absorbed instead of surfaced.
func LogRecovered(what string, err error) {
	if err == nil {
		return
	}
	logLine("", "recovered", zap.String("what", what), zap.Error(err))
}

func SetPrompt(label string) {
	ctxState.mu.Lock()
	ctxState.phase = "prompt"
	ctxState.prompt = strings.TrimSpace(label)
	ctxState.mu.Unlock()
}

func ClearPrompt() {
	ctxState.mu.Lock()
	if ctxState.phase == "prompt" {
		ctxState.phase = ""
	}
	ctxState.prompt = ""
	ctxState.mu.Unlock()
}

func SetPhase(phase string) {
	ctxState.mu.Lock()
	ctxState.phase = strings.TrimSpace(phase)
	ctxState.prompt = ""
	ctxState.mu.Unlock()
}

func logOutputLines(trace, kind, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		logLine(trace, kind, zap.String("line", line))
	}
}

func logLine(trace, kind string, fields ...zap.Field) {
	if !Enabled() {
		return
	}
	trace = strings.TrimSpace(trace)
	if trace == "" {
		trace = "none"
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "info"
	}
	phase, prompt := snapshotContext()
	if phase == "" {
		phase = "none"
	}
	base := []zap.Field{zap.String("trace", trace), zap.String("phase", phase)}
	if prompt != "" {
		base = append(base, zap.String("prompt", prompt))
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.logger == nil {
		return
	}
	state.logger.Debug(kind, append(base, fields...)...)
}

func snapshotContext() (string, string) {
	ctxState.mu.Lock()
	defer ctxState.mu.Unlock()
	return ctxState.phase, ctxState.prompt
}
