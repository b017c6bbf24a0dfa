package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"touristkiosk/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log files kept per level in the configured log directory.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	sugar  *zap.SugaredLogger
	logDir string
	files  map[string]*lumberjack.Logger
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	minLevel, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		minLevel = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEnc := zapcore.NewJSONEncoder(encCfg)
	consoleEnc := zapcore.NewConsoleEncoder(encCfg)

	// Each file receives exactly one level so the log endpoints can serve them separately.
	only := func(lvl zapcore.Level) zap.LevelEnablerFunc {
		return func(l zapcore.Level) bool { return l == lvl && l >= minLevel }
	}
	atLeast := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= minLevel && l < zapcore.ErrorLevel })
	errorsOnly := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel })

	files := map[string]*lumberjack.Logger{
		InfoFile:    rolling(cfg.LogDirectory, InfoFile),
		WarningFile: rolling(cfg.LogDirectory, WarningFile),
		ErrorFile:   rolling(cfg.LogDirectory, ErrorFile),
	}

	core := zapcore.NewTee(
		zapcore.NewCore(fileEnc, zapcore.AddSync(files[InfoFile]), only(zapcore.InfoLevel)),
		zapcore.NewCore(fileEnc, zapcore.AddSync(files[WarningFile]), only(zapcore.WarnLevel)),
		zapcore.NewCore(fileEnc, zapcore.AddSync(files[ErrorFile]), errorsOnly),
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), atLeast),
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), errorsOnly),
	)

	return &Logger{
		sugar:  zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar(),
		logDir: cfg.LogDirectory,
		files:  files,
	}, nil
}

// NewNop returns a Logger that discards everything. Used in tests and tools.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func rolling(dir, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
		LocalTime:  true,
	}
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// Dir returns the directory the level files live in.
func (l *Logger) Dir() string {
	return l.logDir
}

// CleanLogs empties the specified log file. The previous content is kept as a
// rotated backup until lumberjack prunes it.
func (l *Logger) CleanLogs(fileName string) error {
	lj, ok := l.files[fileName]
	if !ok {
		return nil
	}
	if err := lj.Rotate(); err != nil {
		l.Error("Error rotating %s: %v", fileName, err)
		return err
	}

	l.Info("Log file %s has been cleared.", fileName)
	return nil
}
