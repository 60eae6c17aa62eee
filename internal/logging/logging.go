// Package logging builds the service's zap logger, optionally teeing every
// entry to a GELF UDP sink.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HebleV/putmeonmap/internal/gelf"
)

const serviceName = "putmeonmap"

// New returns a production JSON logger at the given level. When gelfAddr is
// set, entries are also shipped to it; the returned close func releases the
// sink and flushes the logger.
func New(level, gelfAddr string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if gelfAddr == "" {
		return logger, func() { _ = logger.Sync() }, nil
	}

	w, err := gelf.New(gelfAddr, serviceName)
	if err != nil {
		logger.Warn("GELF init failed", zap.String("addr", gelfAddr), zap.Error(err))
		return logger, func() { _ = logger.Sync() }, nil
	}

	gelfCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(w),
		config.Level,
	)
	logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, gelfCore)
	}))
	logger.Info("GELF logging enabled", zap.String("addr", gelfAddr))

	return logger, func() {
		_ = logger.Sync()
		_ = w.Close()
	}, nil
}
