package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger for the configured environment: text
// output in dev, JSON everywhere else.
func NewLogger(cfg Config) *log.Logger {
	l := log.New()
	l.SetOutput(os.Stdout)
	if cfg.Env == "dev" {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&log.JSONFormatter{})
	}
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
