package logutils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/status-im/walletconnect-core/params"
)

var (
	zapMu     sync.RWMutex
	zapLogger *zap.Logger

	// file shared by the geth and zap loggers, nil when logging to stderr
	rotatingWriter *lumberjack.Logger
)

// ZapLogger returns the process wide zap logger.
// Until OverrideRootLogWithConfig is called it logs errors to stderr.
func ZapLogger() *zap.Logger {
	zapMu.RLock()
	logger := zapLogger
	zapMu.RUnlock()
	if logger != nil {
		return logger
	}

	zapMu.Lock()
	defer zapMu.Unlock()
	if zapLogger == nil {
		zapLogger = newZapLogger(zapcore.Lock(os.Stderr), zapcore.ErrorLevel)
	}
	return zapLogger
}

func setZapLogger(logger *zap.Logger) {
	zapMu.Lock()
	zapLogger = logger
	zapMu.Unlock()
}

func newZapLogger(syncer zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, syncer, level), zap.AddCaller())
}

// OverrideRootLogWithConfig configures the go-ethereum root logger and the zap logger
// according to the given settings.
func OverrideRootLogWithConfig(settings params.LogSettings, colors bool) error {
	if !settings.Enabled {
		return disableRootLog()
	}

	level := settings.Level
	if level == "" {
		level = "INFO"
	}

	var (
		handler log.Handler
		syncer  zapcore.WriteSyncer
	)
	var writer *lumberjack.Logger
	if settings.File != "" {
		writer = NewRotatingWriter(FileOptionsFromSettings(settings))
		handler = FileHandlerWithRotation(writer, log.TerminalFormat(false))
		syncer = ZapSyncerWithRotation(writer)
	} else {
		handler = log.StreamHandler(os.Stderr, log.TerminalFormat(colors))
		syncer = zapcore.Lock(os.Stderr)
	}

	if err := enableRootLog(level, handler); err != nil {
		return err
	}

	zapLevel, err := zapLevelFromString(level)
	if err != nil {
		return err
	}
	setZapLogger(newZapLogger(syncer, zapLevel))
	swapRotatingWriter(writer)

	return nil
}

func swapRotatingWriter(writer *lumberjack.Logger) {
	zapMu.Lock()
	previous := rotatingWriter
	rotatingWriter = writer
	zapMu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
}

func enableRootLog(levelStr string, handler log.Handler) error {
	level, err := log.LvlFromString(strings.ToLower(levelStr))
	if err != nil {
		return err
	}

	filteredHandler := log.LvlFilterHandler(level, handler)
	log.Root().SetHandler(filteredHandler)

	return nil
}

func disableRootLog() error {
	log.Root().SetHandler(log.DiscardHandler())
	setZapLogger(zap.NewNop())
	swapRotatingWriter(nil)
	return nil
}

func zapLevelFromString(levelStr string) (zapcore.Level, error) {
	switch strings.ToUpper(levelStr) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO":
		return zapcore.InfoLevel, nil
	case "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", levelStr)
}
