package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (s *Service) initializeRollingFileLogger() *lumberjack.Logger {
	name := s.Config.ServiceName
	if name == emptyString {
		name = "app"
	}

	path := filepath.Join(s.WorkingDir, s.Config.RelLogFileDir, name+".log")

	return &lumberjack.Logger{
		Filename:   path,
		MaxBackups: s.Config.LogFileMaxBackups,
		MaxAge:     s.Config.LogFileMaxAgeDays,
		MaxSize:    s.Config.LogFileMaxSizeMB,
	}
}

func (s *Service) initializeWriters() []io.Writer {
	var writers []io.Writer

	if s.Config.FileLogging {
		s.fileWriter = s.initializeRollingFileLogger()
		writers = append(writers, s.fileWriter)
	}
	if s.Config.ConsoleLogging {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return writers
}
