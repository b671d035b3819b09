package log

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig controls the zap-backed logger.
type ZapConfig struct {
	Level        string // debug, info, warn, error
	Mode         string // development or production
	Encoding     string // console or json
	ColorEnabled bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Init builds the process logger. It never fails softly: a broken logging
// setup is a startup error, matching zap's own Must style.
func Init(cfg ZapConfig) Logger {
	var zapCfg zap.Config

	if cfg.Mode == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		if cfg.ColorEnabled {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	logger, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}

	return &zapLogger{sugar: logger.Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapLogger) Debug(ctx context.Context, arg ...any)  { z.log(z.sugar.Debugw, arg) }
func (z *zapLogger) Info(ctx context.Context, arg ...any)   { z.log(z.sugar.Infow, arg) }
func (z *zapLogger) Warn(ctx context.Context, arg ...any)   { z.log(z.sugar.Warnw, arg) }
func (z *zapLogger) Error(ctx context.Context, arg ...any)  { z.log(z.sugar.Errorw, arg) }
func (z *zapLogger) DPanic(ctx context.Context, arg ...any) { z.log(z.sugar.DPanicw, arg) }
func (z *zapLogger) Panic(ctx context.Context, arg ...any)  { z.log(z.sugar.Panicw, arg) }
func (z *zapLogger) Fatal(ctx context.Context, arg ...any)  { z.log(z.sugar.Fatalw, arg) }

func (z *zapLogger) Debugf(ctx context.Context, template string, arg ...any) {
	z.sugar.Debugf(template, arg...)
}
func (z *zapLogger) Infof(ctx context.Context, template string, arg ...any) {
	z.sugar.Infof(template, arg...)
}
func (z *zapLogger) Warnf(ctx context.Context, template string, arg ...any) {
	z.sugar.Warnf(template, arg...)
}
func (z *zapLogger) Errorf(ctx context.Context, template string, arg ...any) {
	z.sugar.Errorf(template, arg...)
}
func (z *zapLogger) DPanicf(ctx context.Context, template string, arg ...any) {
	z.sugar.DPanicf(template, arg...)
}
func (z *zapLogger) Panicf(ctx context.Context, template string, arg ...any) {
	z.sugar.Panicf(template, arg...)
}
func (z *zapLogger) Fatalf(ctx context.Context, template string, arg ...any) {
	z.sugar.Fatalf(template, arg...)
}

// log treats the first argument as the message and the remainder as
// key-value pairs, the zap sugared convention. Callers that pass a
// trailing unpaired value ("failed: ", err) get Sprint-style output
// instead of a dangling key.
func (z *zapLogger) log(fn func(msg string, keysAndValues ...any), arg []any) {
	if len(arg) == 0 {
		return
	}
	msg, ok := arg[0].(string)
	if !ok || len(arg[1:])%2 != 0 {
		fn(fmt.Sprint(arg...))
		return
	}
	fn(msg, arg[1:]...)
}
