package logger

import (
	"context"
	"os"
	"path/filepath"

	"minbar/internal/config"
	"minbar/internal/reqctx"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until InitLogger runs, so packages stay usable in tests.
var Log = zap.NewNop()

// InitLogger builds Log from cfg. LOG=dev gives a human-readable console
// logger; anything else writes JSON to the rotated file and text to stdout.
func InitLogger(cfg *config.Config) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.LogLevel))

	if cfg.Log == "dev" {
		devCfg := zap.NewDevelopmentConfig()
		devCfg.Level = level
		l, err := devCfg.Build()
		if err != nil {
			panic("cannot build dev logger: " + err.Error())
		}
		Log = l
		return
	}

	file, err := rotatingFile(cfg)
	if err != nil {
		panic("cannot open log file: " + err.Error())
	}
	Log = newLogger(level, file, zapcore.Lock(os.Stdout))
}

func rotatingFile(cfg *config.Config) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}), nil
}

func newLogger(level zap.AtomicLevel, file, console zapcore.WriteSyncer) *zap.Logger {
	enc := zapcore.EncoderConfig{
		TimeKey:      "time",
		LevelKey:     "level",
		MessageKey:   "message",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), file, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), console, level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", "minbar"))
}

// WithCtx returns Log enriched with the request id, user id and role, if known.
func WithCtx(ctx context.Context) *zap.Logger {
	l := Log
	if ctx == nil {
		return l
	}
	if rid, ok := reqctx.GetRequestID(ctx); ok {
		l = l.With(zap.String("request_id", rid))
	}
	if uid, ok := reqctx.GetUserID(ctx); ok {
		l = l.With(zap.Int64("user_id", uid))
	}
	if role, ok := reqctx.GetRole(ctx); ok {
		l = l.With(zap.String("role", string(role)))
	}
	return l
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
