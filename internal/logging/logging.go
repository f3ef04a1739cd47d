package logging

import (
	"go.uber.org/zap"
)

var Logger *zap.SugaredLogger

// InitLogger configures the shared sugared logger. Debug enables the
// development config; otherwise only warnings and above reach the console.
func InitLogger(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = logger.Sugar()
}

// L returns the shared logger, initializing a quiet default if InitLogger
// was never called (library use, tests).
func L() *zap.SugaredLogger {
	if Logger == nil {
		InitLogger(false)
	}
	return Logger
}
