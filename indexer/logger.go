package indexer

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// zapLoggerAdapter writes watermill logs to zap.Logger.
type zapLoggerAdapter struct {
	l *zap.Logger
}

// NewLoggerAdapter returns watermill.LoggerAdapter backed by the given
// zap.Logger.
func NewLoggerAdapter(l *zap.Logger) watermill.LoggerAdapter {
	return zapLoggerAdapter{l: l}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	res := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		res = append(res, zap.Any(k, v))
	}
	return res
}

func (x zapLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	x.l.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (x zapLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	x.l.Info(msg, zapFields(fields)...)
}

func (x zapLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	x.l.Debug(msg, zapFields(fields)...)
}

// Trace is written at debug level since zap has no lower one.
func (x zapLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	x.l.Debug(msg, zapFields(fields)...)
}

func (x zapLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return zapLoggerAdapter{l: x.l.With(zapFields(fields)...)}
}
