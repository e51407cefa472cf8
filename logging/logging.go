// Package logging builds the zap loggers shared by the server, the MCP
// bridge and the command line tools.
package logging

import (
	"go.uber.org/zap"
)

// New returns a console logger for humans or a JSON logger for machines.
// Output always goes to stderr so stdio transports keep stdout clean.
func New(debug, json bool) (*zap.Logger, error) {
	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Must is New for process entry points that cannot continue without a logger
func Must(debug, json bool) *zap.Logger {
	logger, err := New(debug, json)
	if err != nil {
		panic(err)
	}
	return logger
}
