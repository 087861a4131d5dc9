package db

import (
	"time"

	gormlogger "gorm.io/gorm/logger"

	"profileauth/internal/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// logWriter forwards gorm's formatted lines to the service logger. At debug
// level gorm traces every statement, so those lines go out as debug.
type logWriter struct {
	debug bool
}

func (w logWriter) Printf(format string, args ...interface{}) {
	if w.debug {
		logger.Debugf(format, args...)
		return
	}
	logger.Warningf(format, args...)
}

// newGormLogger logs SQL without bound values, so hashes and image bytes
// never reach the log, and stays quiet on lookups that find nothing.
func newGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(logWriter{debug: debug}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
