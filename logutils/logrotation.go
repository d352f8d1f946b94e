package logutils

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/status-im/walletconnect-core/params"
)

// FileOptions are all options supported by internal rotation module.
type FileOptions struct {
	// Base name for log file.
	Filename string
	// Size in megabytes.
	MaxSize int
	// Number of rotated log files.
	MaxBackups int
	// If true rotated log files will be gzipped.
	Compress bool
}

// FileOptionsFromSettings maps LogSettings onto rotation options.
func FileOptionsFromSettings(settings params.LogSettings) FileOptions {
	return FileOptions{
		Filename:   settings.File,
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		Compress:   settings.CompressRotated,
	}
}

// NewRotatingWriter opens the rotating log file. lumberjack allows one writer per file,
// so the same writer must back every handler logging to it.
func NewRotatingWriter(opts FileOptions) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
	}
}

// FileHandlerWithRotation instantiates log.Handler on a rotating writer
func FileHandlerWithRotation(w *lumberjack.Logger, format log.Format) log.Handler {
	return log.StreamHandler(w, format)
}

// ZapSyncerWithRotation creates a zapcore.WriteSyncer on a rotating writer
func ZapSyncerWithRotation(w *lumberjack.Logger) zapcore.WriteSyncer {
	return zapcore.AddSync(w)
}
