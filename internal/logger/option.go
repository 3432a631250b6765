package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelCore caps a wrapped core at its own minimum level,
// independently of the global atomic level.
type levelCore struct {
	zapcore.Core

	min zapcore.Level
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.min.Enabled(l) && c.Core.Enabled(l)
}

//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), min: c.min}
}

// WithLevel raises the minimum level of a derived logger.
// Messages below lvl are dropped even when the global level would let them through.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{Core: core, min: lvl}
	})
}

// StdLog returns a *log.Logger that forwards to a named child of the global logger
// at the given level. Libraries that only accept the log package (net/http servers
// and reverse proxies) report through it. A nil result makes them fall back to log.
func StdLog(name string, at zapcore.Level) *log.Logger {
	base := Logger().Desugar().Named(name).WithOptions(WithLevel(at))

	std, err := zap.NewStdLogAt(base, at)
	if err != nil {
		return nil
	}

	return std
}
