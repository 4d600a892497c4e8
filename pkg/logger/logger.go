package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Debug(msg string, values ...any)
	Panic(message string, values ...any)
	Fatal(error error, values ...any)
	Printf(format string, args ...interface{})
}

// Options tunes the process logger after startup.
type Options struct {
	Env   string
	Level string
	// File enables a rotating file sink next to stderr when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func init() {
	if _, err := NewLogger(baseConfig(os.Getenv("LOG_ENV"))); err != nil {
		panic(err)
	}
}

func baseConfig(env string) zap.Config {
	if env == "production" {
		return zap.NewProductionConfig()
	}
	return zap.NewDevelopmentConfig()
}

// Configure rebuilds the global logger from opts. The previous logger stays
// in place when the new one can't be built.
func Configure(opts Options) error {
	config := baseConfig(opts.Env)
	if opts.Level != "" {
		level, err := zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return err
		}
		config.Level = level
	}

	if opts.File == "" {
		_, err := NewLogger(config)
		return err
	}

	sink := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(sink),
		config.Level,
	)
	_, err := NewLogger(config, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
	return err
}

func Info(msg string, values ...any) {
	GetLogger().Info(msg, values...)
}

func Warn(msg string, values ...any) {
	GetLogger().Warn(msg, values...)
}

func Error(msg string, values ...any) {
	GetLogger().Error(msg, values...)
}

func Debug(msg string, values ...any) {
	GetLogger().Debug(msg, values...)
}

func Panic(msg string, values ...any) {
	GetLogger().Panic(msg, values...)
}

func Fatal(error error, values ...any) {
	GetLogger().Fatal(error, values...)
}

func Sync() {
	_ = GetLogger().log.Sync()
}
