package logger

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the diagnostic logger, returning it with a flush function.
// Diagnostics are off unless verbose is set; V(1) frame tracing is enabled
// together with everything else.
func New(w io.Writer, verbose bool) (logr.Logger, func()) {
	if !verbose {
		return logr.Discard(), func() {}
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)

	zapLogger := zap.New(core)
	flushFn := func() {
		_ = zapLogger.Sync() // Best effort
	}
	return zapr.NewLogger(zapLogger).WithName("rnb"), flushFn
}
